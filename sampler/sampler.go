// Package sampler collects episodes by running policies in environments.
package sampler

import (
	"sync"

	"github.com/KONPEITO1205/machina/envs"
	"github.com/KONPEITO1205/machina/policies"
	"github.com/KONPEITO1205/machina/traj"
)

// Sample runs the policy for the given number of episodes, each cut off
// after horizon steps
func Sample(env envs.Environment, pol policies.Policy, episodes, horizon int) []*traj.Epi {
	epis := make([]*traj.Epi, 0, episodes)
	for e := 0; e < episodes; e++ {
		epis = append(epis, sampleEpisode(env, pol, horizon))
	}
	return epis
}

func sampleEpisode(env envs.Environment, pol policies.Policy, horizon int) *traj.Epi {
	obs := env.Reset()
	pol.Reset()
	epi := &traj.Epi{
		Obs:     make([][]float64, 0),
		Acs:     make([][]float64, 0),
		Rews:    make([]float64, 0),
		NextObs: make([][]float64, 0),
		Dones:   make([]bool, 0),
	}
	for i := 0; i < horizon; i++ {
		acs := pol.Action(obs)
		nextObs, rew, done := env.Step(acs)
		epi.Obs = append(epi.Obs, obs)
		epi.Acs = append(epi.Acs, acs)
		epi.Rews = append(epi.Rews, rew)
		epi.NextObs = append(epi.NextObs, nextObs)
		epi.Dones = append(epi.Dones, done)
		if done {
			break
		}
		obs = nextObs
	}
	return epi
}

// SampleParallel collects episodesPerWorker episodes on every
// environment-policy pair concurrently. The pairs must not share state.
func SampleParallel(pairs []Pair, episodesPerWorker, horizon int) []*traj.Epi {
	results := make(chan []*traj.Epi, len(pairs))
	var wg sync.WaitGroup
	for _, pair := range pairs {
		wg.Add(1)
		go func(pair Pair) {
			defer wg.Done()
			results <- Sample(pair.Env, pair.Pol, episodesPerWorker, horizon)
		}(pair)
	}
	wg.Wait()
	close(results)

	epis := make([]*traj.Epi, 0, len(pairs)*episodesPerWorker)
	for es := range results {
		epis = append(epis, es...)
	}
	return epis
}

// Pair is one worker's private environment and policy
type Pair struct {
	Env envs.Environment
	Pol policies.Policy
}
