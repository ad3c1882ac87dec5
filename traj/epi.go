package traj

// Epi is a single collected episode as parallel per-step records
type Epi struct {
	Obs     [][]float64 `json:"obs"`
	Acs     [][]float64 `json:"acs"`
	Rews    []float64   `json:"rews"`
	NextObs [][]float64 `json:"next_obs"`
	Dones   []bool      `json:"dones"`
}

// Len returns the number of steps in the episode
func (e *Epi) Len() int {
	return len(e.Rews)
}

// Return is the undiscounted sum of rewards of the episode
func (e *Epi) Return() float64 {
	total := 0.0
	for _, r := range e.Rews {
		total += r
	}
	return total
}
