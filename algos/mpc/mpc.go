// Package mpc implements dynamics-model learning for model-predictive
// control with random-shooting planning, following
// "Neural Network Dynamics for Model-Based Deep Reinforcement Learning with
// Model-Free Fine-Tuning" (https://arxiv.org/abs/1708.02596).
package mpc

import (
	"gonum.org/v1/gonum/mat"

	"github.com/KONPEITO1205/machina/logger"
	"github.com/KONPEITO1205/machina/lossfunc"
	"github.com/KONPEITO1205/machina/models"
	"github.com/KONPEITO1205/machina/optim"
	"github.com/KONPEITO1205/machina/traj"
)

// UpdateDM performs one optimization step of the dynamics model on a batch
// and returns the scalar loss of that step
func UpdateDM(dm *models.DynamicsModel, optimDM optim.Optimizer, batch traj.Batch, target string, td bool) float64 {
	dmLoss := lossfunc.Dynamics(dm, batch, target, td)
	optimDM.ZeroGrad()
	dmLoss.Backward()
	optimDM.Step()
	return dmLoss.Value()
}

// TrainDM fits the dynamics model on mixed batches drawn from an on-policy
// and a random trajectory. Each merged batch takes a rlBatchRate share of
// its rows from rlTraj and the rest from randTraj. The number of updates per
// epoch follows from the random trajectory's size, or from the on-policy
// trajectory when the random share is zero. Returned is the per-update loss
// history under the key DynModelLoss.
func TrainDM(rlTraj, randTraj *traj.Traj, dynModel *models.DynamicsModel, optimDM optim.Optimizer,
	epoch, batchSize int, rlBatchRate float64, target string, td bool) map[string][]float64 {

	batchSizeRL, batchSizeRand := splitBatchSize(batchSize, rlBatchRate)

	dmLosses := make([]float64, 0)
	logger.Log("Optimizing...")

	var step int
	if batchSizeRand > 0 {
		step = randTraj.NumStep() / batchSizeRand
	} else {
		step = rlTraj.NumStep() / batchSizeRL
	}

	for e := 0; e < epoch; e++ {
		rlBatches := rlTraj.RandomBatch(batchSizeRL, step)
		randBatches := randTraj.RandomBatch(batchSizeRand, step)
		for {
			rlBatch, rlOK := rlBatches.Next()
			randBatch, randOK := randBatches.Next()
			if !rlOK || !randOK {
				break
			}
			batch := mergeBatches(rlBatch, randBatch)
			dmLoss := UpdateDM(dynModel, optimDM, batch, target, td)
			dmLosses = append(dmLosses, dmLoss)
		}
	}
	logger.Log("Optimization finished!")

	return map[string][]float64{
		"DynModelLoss": dmLosses,
	}
}

// splitBatchSize divides a batch between the on-policy and random draws,
// truncating the on-policy share and giving the remainder to the random one
func splitBatchSize(batchSize int, rlBatchRate float64) (int, int) {
	batchSizeRL := int(float64(batchSize) * rlBatchRate)
	return batchSizeRL, batchSize - batchSizeRL
}

// mergeBatches combines the observation, action and next-observation fields
// of the two draws, random rows first. An empty draw passes the other draw's
// fields through untouched.
func mergeBatches(rlBatch, randBatch traj.Batch) traj.Batch {
	batch := make(traj.Batch)
	if len(rlBatch) == 0 {
		batch["obs"] = randBatch["obs"]
		batch["acs"] = randBatch["acs"]
		batch["next_obs"] = randBatch["next_obs"]
	} else if len(randBatch) == 0 {
		batch["obs"] = rlBatch["obs"]
		batch["acs"] = rlBatch["acs"]
		batch["next_obs"] = rlBatch["next_obs"]
	} else {
		for _, key := range []string{"obs", "acs", "next_obs"} {
			stacked := new(mat.Dense)
			stacked.Stack(randBatch[key], rlBatch[key])
			batch[key] = stacked
		}
	}
	return batch
}
