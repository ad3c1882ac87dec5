package policies

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/KONPEITO1205/machina/models"
)

// MPCPolicy plans by random shooting: it rolls candidate action sequences
// through the learned dynamics model, scores them with the reward function
// and executes the first action of the best sequence
type MPCPolicy struct {
	dm         *models.DynamicsModel
	rewFunc    RewardFunc
	low        []float64
	high       []float64
	horizon    int
	numSamples int
	td         bool
	rng        *rand.Rand
}

var _ Policy = &MPCPolicy{}

// NewMPCPolicy plans over the given horizon with numSamples candidate
// sequences per decision. With td the model output is treated as the change
// of the observation rather than the next observation itself.
func NewMPCPolicy(dm *models.DynamicsModel, rewFunc RewardFunc, low, high []float64,
	horizon, numSamples int, td bool, seed uint64) *MPCPolicy {
	if len(low) != len(high) {
		panic("policies: action bounds have different lengths")
	}
	return &MPCPolicy{
		dm:         dm,
		rewFunc:    rewFunc,
		low:        low,
		high:       high,
		horizon:    horizon,
		numSamples: numSamples,
		td:         td,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

func (p *MPCPolicy) Action(obs []float64) []float64 {
	first, returns := p.plan(obs)
	best := floats.MaxIdx(returns)
	return mat.Row(nil, best, first)
}

// plan rolls candidate action sequences through the model and returns the
// first action of each sequence together with its predicted return
func (p *MPCPolicy) plan(obs []float64) (*mat.Dense, []float64) {
	n := p.numSamples
	obsDim := len(obs)
	acsDim := len(p.low)

	cur := mat.NewDense(n, obsDim, nil)
	for i := 0; i < n; i++ {
		cur.SetRow(i, obs)
	}

	returns := make([]float64, n)
	var first *mat.Dense
	for h := 0; h < p.horizon; h++ {
		acs := mat.NewDense(n, acsDim, nil)
		for i := 0; i < n; i++ {
			for j := 0; j < acsDim; j++ {
				acs.Set(i, j, p.low[j]+p.rng.Float64()*(p.high[j]-p.low[j]))
			}
		}
		if h == 0 {
			first = acs
		}

		pred := p.dm.Forward(cur, acs)
		next := pred
		if p.td {
			next = mat.NewDense(n, obsDim, nil)
			next.Add(cur, pred)
		}

		for i := 0; i < n; i++ {
			returns[i] += p.rewFunc(mat.Row(nil, i, cur), mat.Row(nil, i, acs), mat.Row(nil, i, next))
		}
		cur = next
	}
	return first, returns
}

func (p *MPCPolicy) Reset() {}
