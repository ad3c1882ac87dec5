// Package lossfunc computes training losses that can backpropagate into the
// model that produced them.
package lossfunc

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/KONPEITO1205/machina/models"
	"github.com/KONPEITO1205/machina/traj"
)

// Loss is a computed scalar with a deferred gradient pass
type Loss struct {
	value    float64
	backward func()
}

// Value returns the scalar loss
func (l *Loss) Value() float64 {
	return l.value
}

// Backward accumulates the loss gradient into the model parameters
func (l *Loss) Backward() {
	l.backward()
}

// Dynamics returns the half mean squared error of the model's predictions on
// the batch against the named target field. With td the model is fit to the
// change from the current observation instead of the absolute target.
func Dynamics(dm *models.DynamicsModel, batch traj.Batch, target string, td bool) *Loss {
	obs := batch["obs"]
	acs := batch["acs"]

	var tgt mat.Matrix = batch[target]
	if td {
		diff := new(mat.Dense)
		diff.Sub(batch[target], obs)
		tgt = diff
	}

	pred := dm.Forward(obs, acs)
	n, c := pred.Dims()
	residual := mat.NewDense(n, c, nil)
	residual.Sub(pred, tgt)

	data := residual.RawMatrix().Data
	value := 0.5 * floats.Dot(data, data) / float64(n*c)

	return &Loss{
		value: value,
		backward: func() {
			dPred := mat.NewDense(n, c, nil)
			dPred.Scale(1/float64(n*c), residual)
			dm.Backward(dPred)
		},
	}
}
