// Package optim provides gradient-descent optimizers over model parameters.
package optim

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/KONPEITO1205/machina/models"
)

// Optimizer updates model parameters in place from their accumulated
// gradients
type Optimizer interface {
	// ZeroGrad clears the gradients of all managed parameters
	ZeroGrad()
	// Step applies one update from the current gradients
	Step()
}

// SGD is stochastic gradient descent with momentum
type SGD struct {
	params   []*models.Param
	lr       float64
	momentum float64
	velocity []*mat.Dense
}

var _ Optimizer = &SGD{}

func NewSGD(params []*models.Param, lr, momentum float64) *SGD {
	velocity := make([]*mat.Dense, len(params))
	for i, p := range params {
		r, c := p.Value.Dims()
		velocity[i] = mat.NewDense(r, c, nil)
	}
	return &SGD{
		params:   params,
		lr:       lr,
		momentum: momentum,
		velocity: velocity,
	}
}

func (s *SGD) ZeroGrad() {
	for _, p := range s.params {
		p.Grad.Zero()
	}
}

func (s *SGD) Step() {
	for i, p := range s.params {
		vd := s.velocity[i].RawMatrix().Data
		gd := p.Grad.RawMatrix().Data
		wd := p.Value.RawMatrix().Data
		for j := range gd {
			vd[j] = s.momentum*vd[j] + gd[j]
			wd[j] -= s.lr * vd[j]
		}
	}
}

// Adam keeps per-parameter first and second moment estimates with bias
// correction
type Adam struct {
	params []*models.Param
	lr     float64
	beta1  float64
	beta2  float64
	eps    float64
	m      []*mat.Dense
	v      []*mat.Dense
	t      int
}

var _ Optimizer = &Adam{}

func NewAdam(params []*models.Param, lr float64) *Adam {
	m := make([]*mat.Dense, len(params))
	v := make([]*mat.Dense, len(params))
	for i, p := range params {
		r, c := p.Value.Dims()
		m[i] = mat.NewDense(r, c, nil)
		v[i] = mat.NewDense(r, c, nil)
	}
	return &Adam{
		params: params,
		lr:     lr,
		beta1:  0.9,
		beta2:  0.999,
		eps:    1e-8,
		m:      m,
		v:      v,
	}
}

func (a *Adam) ZeroGrad() {
	for _, p := range a.params {
		p.Grad.Zero()
	}
}

func (a *Adam) Step() {
	a.t++
	c1 := 1 - math.Pow(a.beta1, float64(a.t))
	c2 := 1 - math.Pow(a.beta2, float64(a.t))
	for i, p := range a.params {
		md := a.m[i].RawMatrix().Data
		vd := a.v[i].RawMatrix().Data
		gd := p.Grad.RawMatrix().Data
		wd := p.Value.RawMatrix().Data
		for j := range gd {
			md[j] = a.beta1*md[j] + (1-a.beta1)*gd[j]
			vd[j] = a.beta2*vd[j] + (1-a.beta2)*gd[j]*gd[j]
			mHat := md[j] / c1
			vHat := vd[j] / c2
			wd[j] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
	}
}
