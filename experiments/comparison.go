package experiments

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"

	"github.com/KONPEITO1205/machina/analysis"
)

// TrainFunc runs one training configuration and returns its loss curves
type TrainFunc func(run int) map[string][]float64

// Experiment is one named training configuration under comparison
type Experiment struct {
	Name  string
	train TrainFunc
}

// NewExperiment creates a new experiment instance
func NewExperiment(name string, train TrainFunc) *Experiment {
	return &Experiment{
		Name:  name,
		train: train,
	}
}

// ComparisonConfig contains the configuration for the comparison
type ComparisonConfig struct {
	Runs        int // number of runs
	Epoch       int // training epochs per TrainDM call
	BatchSize   int // transitions per merged batch
	RLBatchRate float64

	RecordPath string // path to store the results
}

// Comparison contains the different experiments to compare.
// The loss curves of the experiments are analyzed and the
// analyzed datasets are then compared.
type Comparison struct {
	Experiments []*Experiment
	analyzers   map[string]analysis.Analyzer
	comparators map[string]analysis.Comparator
	cConfig     *ComparisonConfig
}

// NewComparison creates a comparison instance with a clean record folder
func NewComparison(config *ComparisonConfig) *Comparison {
	if _, err := os.Stat(config.RecordPath); err == nil {
		os.RemoveAll(config.RecordPath)
	}
	os.MkdirAll(config.RecordPath, 0777)

	return &Comparison{
		Experiments: make([]*Experiment, 0),
		analyzers:   make(map[string]analysis.Analyzer),
		comparators: make(map[string]analysis.Comparator),
		cConfig:     config,
	}
}

// AddAnalysis adds an analyzer and comparator to the comparison
func (c *Comparison) AddAnalysis(name string, analyzer analysis.Analyzer, comparator analysis.Comparator) {
	c.analyzers[name] = analyzer
	c.comparators[name] = comparator
}

// AddExperiment adds an experiment to compare
func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

// record the configuration of the comparison
func (c *Comparison) recordConfig() {
	cfg := c.cConfig

	f, err := os.Create(path.Join(cfg.RecordPath, "comparison_config.json"))
	if err != nil {
		panic(err)
	}
	defer f.Close()

	out := make(map[string]interface{})
	out["runs"] = cfg.Runs
	out["epoch"] = cfg.Epoch
	out["batch_size"] = cfg.BatchSize
	out["rl_batch_rate"] = cfg.RLBatchRate

	experiments := make([]string, 0)
	for _, e := range c.Experiments {
		experiments = append(experiments, e.Name)
	}
	out["experiments"] = experiments

	analyzers := make([]string, 0)
	for name := range c.analyzers {
		analyzers = append(analyzers, name)
	}
	out["analyzers"] = analyzers

	bs, err := json.Marshal(out)
	if err != nil {
		panic(err)
	}
	f.Write(bs)
}

// Run trains every experiment for every run and hands the analyzed results
// to the comparators
func (c *Comparison) Run(ctx context.Context) {
	c.recordConfig()

	for run := 0; run < c.cConfig.Runs; run++ {
		fmt.Printf("Run %d\n", run+1)
		datasets := make(map[string][]analysis.DataSet)
		for name := range c.analyzers {
			datasets[name] = make([]analysis.DataSet, len(c.Experiments))
		}

		names := make([]string, len(c.Experiments))
		for i, e := range c.Experiments {
			select {
			case <-ctx.Done():
				return
			default:
			}
			result := e.train(run)
			for name, a := range c.analyzers {
				datasets[name][i] = a(run, e.Name, result)
			}
			names[i] = e.Name
		}
		for name, comp := range c.comparators {
			comp(run, names, datasets[name])
		}
	}
}
