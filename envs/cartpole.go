package envs

import (
	"math"

	"golang.org/x/exp/rand"
)

const (
	gravity        = 9.81
	massCart       = 1.0
	massPole       = 0.1
	totalMass      = massCart + massPole
	length         = 0.5
	poleMassLength = massPole * length
	forceMax       = 10.0
	tau            = 0.02

	xThreshold     = 2.4
	thetaThreshold = 12.0 * math.Pi / 180.0
	maxSteps       = 500
)

// CartPole is the cart-pole balancing task with a continuous force action
// clipped to [-forceMax, forceMax]
type CartPole struct {
	x        float64
	xDot     float64
	theta    float64
	thetaDot float64
	steps    int
	rng      *rand.Rand
}

var _ Environment = &CartPole{}

func NewCartPole(seed uint64) *CartPole {
	return &CartPole{
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (c *CartPole) ObsDim() int { return 4 }
func (c *CartPole) AcsDim() int { return 1 }

func (c *CartPole) ActionBounds() ([]float64, []float64) {
	return []float64{-forceMax}, []float64{forceMax}
}

func (c *CartPole) obs() []float64 {
	return []float64{c.x, c.xDot, c.theta, c.thetaDot}
}

// Reset starts a new episode from a state drawn uniformly in [-0.05, 0.05]
func (c *CartPole) Reset() []float64 {
	c.x = c.rng.Float64()*0.1 - 0.05
	c.xDot = c.rng.Float64()*0.1 - 0.05
	c.theta = c.rng.Float64()*0.1 - 0.05
	c.thetaDot = c.rng.Float64()*0.1 - 0.05
	c.steps = 0
	return c.obs()
}

// Step integrates the dynamics for one control interval
func (c *CartPole) Step(acs []float64) ([]float64, float64, bool) {
	force := acs[0]
	if force > forceMax {
		force = forceMax
	}
	if force < -forceMax {
		force = -forceMax
	}

	cosTheta := math.Cos(c.theta)
	sinTheta := math.Sin(c.theta)
	temp := (force + poleMassLength*c.thetaDot*c.thetaDot*sinTheta) / totalMass
	thetaAcc := (gravity*sinTheta - cosTheta*temp) /
		(length * (4.0/3.0 - massPole*cosTheta*cosTheta/totalMass))
	xAcc := temp - poleMassLength*thetaAcc*cosTheta/totalMass

	prevObs := c.obs()
	c.x += tau * c.xDot
	c.xDot += tau * xAcc
	c.theta += tau * c.thetaDot
	c.thetaDot += tau * thetaAcc
	c.steps++

	nextObs := c.obs()
	rew := CartPoleReward(prevObs, acs, nextObs)
	done := c.x < -xThreshold || c.x > xThreshold ||
		c.theta < -thetaThreshold || c.theta > thetaThreshold ||
		c.steps >= maxSteps
	return nextObs, rew, done
}

// CartPoleReward scores a transition: an alive bonus minus pole-angle,
// cart-offset and control-effort costs. The planner uses the same score on
// predicted transitions.
func CartPoleReward(obs, acs, nextObs []float64) float64 {
	x := nextObs[0]
	theta := nextObs[2]
	effort := acs[0] / forceMax
	return 1.0 - 10.0*theta*theta - 0.1*x*x - 0.01*effort*effort
}
