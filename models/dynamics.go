package models

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Param is one trainable tensor together with its accumulated gradient
type Param struct {
	Value *mat.Dense
	Grad  *mat.Dense
}

type layer struct {
	w *Param // inDim x outDim
	b *Param // 1 x outDim

	// caches of the last forward pass, consumed by Backward
	in *mat.Dense
	z  *mat.Dense
}

// DynamicsModel is a feed-forward regressor mapping an observation-action
// pair to a predicted next observation or reward. Hidden layers use a
// rectifier, the output layer is linear.
type DynamicsModel struct {
	obsDim int
	acsDim int
	outDim int
	layers []*layer
}

// NewDynamicsModel builds a model with the given hidden layer widths,
// initializing the weights from the seed
func NewDynamicsModel(obsDim, acsDim, outDim int, hidden []int, seed uint64) *DynamicsModel {
	rng := rand.New(rand.NewSource(seed))
	sizes := make([]int, 0, len(hidden)+2)
	sizes = append(sizes, obsDim+acsDim)
	sizes = append(sizes, hidden...)
	sizes = append(sizes, outDim)

	layers := make([]*layer, 0, len(sizes)-1)
	for i := 0; i < len(sizes)-1; i++ {
		in, out := sizes[i], sizes[i+1]
		w := mat.NewDense(in, out, nil)
		scale := math.Sqrt(2.0 / float64(in))
		for r := 0; r < in; r++ {
			for c := 0; c < out; c++ {
				w.Set(r, c, rng.NormFloat64()*scale)
			}
		}
		layers = append(layers, &layer{
			w: &Param{Value: w, Grad: mat.NewDense(in, out, nil)},
			b: &Param{Value: mat.NewDense(1, out, nil), Grad: mat.NewDense(1, out, nil)},
		})
	}

	return &DynamicsModel{
		obsDim: obsDim,
		acsDim: acsDim,
		outDim: outDim,
		layers: layers,
	}
}

func (m *DynamicsModel) ObsDim() int { return m.obsDim }
func (m *DynamicsModel) AcsDim() int { return m.acsDim }
func (m *DynamicsModel) OutDim() int { return m.outDim }

// Parameters returns all trainable tensors in layer order
func (m *DynamicsModel) Parameters() []*Param {
	ps := make([]*Param, 0, 2*len(m.layers))
	for _, l := range m.layers {
		ps = append(ps, l.w, l.b)
	}
	return ps
}

// ZeroGrad clears the accumulated gradients of all parameters
func (m *DynamicsModel) ZeroGrad() {
	for _, p := range m.Parameters() {
		p.Grad.Zero()
	}
}

// Forward predicts one output row per observation-action row. The
// intermediate activations are cached for a following Backward call.
func (m *DynamicsModel) Forward(obs, acs *mat.Dense) *mat.Dense {
	n, _ := obs.Dims()
	x := mat.NewDense(n, m.obsDim+m.acsDim, nil)
	x.Augment(obs, acs)

	for i, l := range m.layers {
		_, out := l.w.Value.Dims()
		z := mat.NewDense(n, out, nil)
		z.Mul(x, l.w.Value)
		z.Apply(func(_, c int, v float64) float64 {
			return v + l.b.Value.At(0, c)
		}, z)
		l.in = x
		l.z = z

		if i == len(m.layers)-1 {
			x = z
			continue
		}
		a := mat.NewDense(n, out, nil)
		a.Apply(func(_, _ int, v float64) float64 {
			return math.Max(0, v)
		}, z)
		x = a
	}
	return x
}

// Backward accumulates parameter gradients for the most recent Forward call.
// dPred is the gradient of the loss with respect to the prediction and has
// the prediction's shape.
func (m *DynamicsModel) Backward(dPred *mat.Dense) {
	d := dPred
	for i := len(m.layers) - 1; i >= 0; i-- {
		l := m.layers[i]

		dz := d
		if i < len(m.layers)-1 {
			n, c := d.Dims()
			gated := mat.NewDense(n, c, nil)
			gated.Apply(func(r, cc int, v float64) float64 {
				if l.z.At(r, cc) > 0 {
					return v
				}
				return 0
			}, d)
			dz = gated
		}

		dw := new(mat.Dense)
		dw.Mul(l.in.T(), dz)
		l.w.Grad.Add(l.w.Grad, dw)

		n, c := dz.Dims()
		for col := 0; col < c; col++ {
			sum := l.b.Grad.At(0, col)
			for r := 0; r < n; r++ {
				sum += dz.At(r, col)
			}
			l.b.Grad.Set(0, col, sum)
		}

		if i > 0 {
			dx := new(mat.Dense)
			dx.Mul(dz, l.w.Value.T())
			d = dx
		}
	}
}
