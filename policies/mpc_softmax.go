package policies

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// SoftmaxMPCPolicy samples among the planner's candidate sequences with
// probability proportional to the exponentiated predicted return instead of
// committing to the best one
type SoftmaxMPCPolicy struct {
	*MPCPolicy
	temperature float64
	rand        rand.Source
}

var _ Policy = &SoftmaxMPCPolicy{}

func NewSoftmaxMPCPolicy(inner *MPCPolicy, temperature float64, seed uint64) *SoftmaxMPCPolicy {
	return &SoftmaxMPCPolicy{
		MPCPolicy:   inner,
		temperature: temperature,
		rand:        rand.NewSource(seed),
	}
}

func (p *SoftmaxMPCPolicy) Action(obs []float64) []float64 {
	first, returns := p.plan(obs)

	best := floats.MaxIdx(returns)
	sum := float64(0)
	weights := make([]float64, len(returns))
	for i, r := range returns {
		exp := math.Exp((r - returns[best]) / p.temperature)
		weights[i] = exp
		sum += exp
	}
	for i := range weights {
		weights[i] /= sum
	}

	i, ok := sampleuv.NewWeighted(weights, p.rand).Take()
	if !ok {
		i = best
	}
	return mat.Row(nil, i, first)
}
