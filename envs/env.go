package envs

// Environment is a continuous-control task stepped with action vectors
type Environment interface {
	// Reset starts a new episode and returns the initial observation
	Reset() []float64
	// Step applies an action and returns the next observation, the reward
	// and whether the episode ended
	Step(acs []float64) ([]float64, float64, bool)
	// ObsDim returns the observation vector length
	ObsDim() int
	// AcsDim returns the action vector length
	AcsDim() int
	// ActionBounds returns the per-dimension action limits
	ActionBounds() (low, high []float64)
}
