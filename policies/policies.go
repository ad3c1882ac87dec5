package policies

// Policy maps an observation to an action vector
type Policy interface {
	// Action returns the action to take from the observation
	Action(obs []float64) []float64
	// Reset clears any per-episode state before a new episode
	Reset()
}

// RewardFunc scores a single transition
type RewardFunc func(obs, acs, nextObs []float64) float64
