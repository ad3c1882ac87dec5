package sampler

import (
	"testing"

	"github.com/KONPEITO1205/machina/envs"
	"github.com/KONPEITO1205/machina/policies"
)

// environment that always ends after a fixed number of steps
type fixedLenEnv struct {
	steps int
	limit int
}

func (f *fixedLenEnv) Reset() []float64 {
	f.steps = 0
	return []float64{0}
}

func (f *fixedLenEnv) Step(acs []float64) ([]float64, float64, bool) {
	f.steps++
	return []float64{float64(f.steps)}, 1, f.steps >= f.limit
}

func (f *fixedLenEnv) ObsDim() int { return 1 }
func (f *fixedLenEnv) AcsDim() int { return 1 }
func (f *fixedLenEnv) ActionBounds() ([]float64, []float64) {
	return []float64{-1}, []float64{1}
}

var _ envs.Environment = &fixedLenEnv{}

func TestSampleEpisodeCount(t *testing.T) {
	env := &fixedLenEnv{limit: 7}
	pol := policies.NewUniformRandomPolicy([]float64{-1}, []float64{1}, 3)
	epis := Sample(env, pol, 5, 100)
	if len(epis) != 5 {
		t.Fatalf("expected 5 episodes, got %d", len(epis))
	}
	for i, e := range epis {
		if e.Len() != 7 {
			t.Errorf("episode %d has %d steps, want 7", i, e.Len())
		}
		if !e.Dones[e.Len()-1] {
			t.Errorf("episode %d does not end done", i)
		}
	}
}

func TestSampleHorizonCutsEpisode(t *testing.T) {
	env := &fixedLenEnv{limit: 1000}
	pol := policies.NewUniformRandomPolicy([]float64{-1}, []float64{1}, 3)
	epis := Sample(env, pol, 1, 20)
	if got := epis[0].Len(); got != 20 {
		t.Errorf("expected the horizon to cut at 20 steps, got %d", got)
	}
	if epis[0].Dones[19] {
		t.Error("a horizon cut is not a terminal step")
	}
}

func TestSampleFieldsAligned(t *testing.T) {
	env := &fixedLenEnv{limit: 4}
	pol := policies.NewUniformRandomPolicy([]float64{-1}, []float64{1}, 3)
	e := Sample(env, pol, 1, 100)[0]
	n := e.Len()
	if len(e.Obs) != n || len(e.Acs) != n || len(e.NextObs) != n || len(e.Dones) != n {
		t.Errorf("field lengths obs=%d acs=%d next=%d dones=%d rews=%d",
			len(e.Obs), len(e.Acs), len(e.NextObs), len(e.Dones), n)
	}
	// each next observation is the following step's observation
	for i := 0; i < n-1; i++ {
		if e.NextObs[i][0] != e.Obs[i+1][0] {
			t.Errorf("step %d: next obs %f, following obs %f", i, e.NextObs[i][0], e.Obs[i+1][0])
		}
	}
}

func TestSampleParallelCollectsAll(t *testing.T) {
	pairs := make([]Pair, 4)
	for i := range pairs {
		pairs[i] = Pair{
			Env: &fixedLenEnv{limit: 3},
			Pol: policies.NewUniformRandomPolicy([]float64{-1}, []float64{1}, uint64(i)),
		}
	}
	epis := SampleParallel(pairs, 6, 100)
	if len(epis) != 24 {
		t.Fatalf("expected 24 episodes, got %d", len(epis))
	}
	for i, e := range epis {
		if e.Len() != 3 {
			t.Errorf("episode %d has %d steps", i, e.Len())
		}
	}
}
