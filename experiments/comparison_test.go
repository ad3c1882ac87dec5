package experiments

import (
	"context"
	"encoding/json"
	"os"
	"path"
	"testing"

	"github.com/KONPEITO1205/machina/analysis"
)

func TestComparisonRunsEveryExperiment(t *testing.T) {
	dir := path.Join(t.TempDir(), "results")
	c := NewComparison(&ComparisonConfig{
		Runs:       3,
		Epoch:      2,
		BatchSize:  16,
		RecordPath: dir,
	})

	calls := make(map[string]int)
	for _, name := range []string{"a", "b"} {
		name := name
		c.AddExperiment(NewExperiment(name, func(run int) map[string][]float64 {
			calls[name]++
			return map[string][]float64{"DynModelLoss": {float64(run)}}
		}))
	}

	var compared [][]string
	c.AddAnalysis("loss", analysis.LossSeries("DynModelLoss"),
		func(run int, names []string, datasets []analysis.DataSet) {
			compared = append(compared, append([]string(nil), names...))
			if len(datasets) != 2 {
				t.Errorf("run %d: %d datasets", run, len(datasets))
			}
			losses := datasets[0].([]float64)
			if len(losses) != 1 || losses[0] != float64(run) {
				t.Errorf("run %d: dataset %v", run, losses)
			}
		})

	c.Run(context.Background())

	if calls["a"] != 3 || calls["b"] != 3 {
		t.Errorf("train calls %v, want 3 each", calls)
	}
	if len(compared) != 3 {
		t.Fatalf("comparator ran %d times, want 3", len(compared))
	}
	for _, names := range compared {
		if names[0] != "a" || names[1] != "b" {
			t.Errorf("experiment order %v", names)
		}
	}
}

func TestComparisonRecordsConfig(t *testing.T) {
	dir := path.Join(t.TempDir(), "results")
	c := NewComparison(&ComparisonConfig{
		Runs:        1,
		Epoch:       4,
		BatchSize:   32,
		RLBatchRate: 0.9,
		RecordPath:  dir,
	})
	c.AddExperiment(NewExperiment("only", func(run int) map[string][]float64 {
		return map[string][]float64{}
	}))
	c.Run(context.Background())

	bs, err := os.ReadFile(path.Join(dir, "comparison_config.json"))
	if err != nil {
		t.Fatalf("config file missing: %s", err)
	}
	cfg := make(map[string]interface{})
	if err := json.Unmarshal(bs, &cfg); err != nil {
		t.Fatalf("config is not JSON: %s", err)
	}
	if cfg["batch_size"].(float64) != 32 || cfg["rl_batch_rate"].(float64) != 0.9 {
		t.Errorf("recorded config %v", cfg)
	}
	names := cfg["experiments"].([]interface{})
	if len(names) != 1 || names[0].(string) != "only" {
		t.Errorf("recorded experiments %v", names)
	}
}

func TestComparisonHonorsCancellation(t *testing.T) {
	c := NewComparison(&ComparisonConfig{
		Runs:       5,
		RecordPath: path.Join(t.TempDir(), "results"),
	})
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	c.AddExperiment(NewExperiment("slow", func(run int) map[string][]float64 {
		calls++
		cancel()
		return map[string][]float64{}
	}))
	c.Run(ctx)

	if calls != 1 {
		t.Errorf("expected the cancelled comparison to stop after 1 call, got %d", calls)
	}
}
