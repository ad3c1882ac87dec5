package policies

import (
	"golang.org/x/exp/rand"
)

// UniformRandomPolicy draws each action dimension uniformly within its
// bounds, ignoring the observation
type UniformRandomPolicy struct {
	low  []float64
	high []float64
	rng  *rand.Rand
}

var _ Policy = &UniformRandomPolicy{}

func NewUniformRandomPolicy(low, high []float64, seed uint64) *UniformRandomPolicy {
	if len(low) != len(high) {
		panic("policies: action bounds have different lengths")
	}
	return &UniformRandomPolicy{
		low:  low,
		high: high,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (p *UniformRandomPolicy) Action(obs []float64) []float64 {
	acs := make([]float64, len(p.low))
	for i := range acs {
		acs[i] = p.low[i] + p.rng.Float64()*(p.high[i]-p.low[i])
	}
	return acs
}

func (p *UniformRandomPolicy) Reset() {}
