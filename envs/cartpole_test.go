package envs

import (
	"math"
	"testing"
)

func TestCartPoleReset(t *testing.T) {
	env := NewCartPole(3)
	for trial := 0; trial < 20; trial++ {
		obs := env.Reset()
		if len(obs) != env.ObsDim() {
			t.Fatalf("observation length %d", len(obs))
		}
		for i, v := range obs {
			if v < -0.05 || v > 0.05 {
				t.Errorf("trial %d: obs[%d] = %f outside the reset range", trial, i, v)
			}
		}
	}
}

func TestCartPolePoleFalls(t *testing.T) {
	env := NewCartPole(3)
	env.Reset()
	env.theta = 0.05
	env.thetaDot = 0

	done := false
	var obs []float64
	steps := 0
	for !done {
		obs, _, done = env.Step([]float64{0})
		steps++
		if steps > maxSteps {
			t.Fatal("episode did not terminate")
		}
	}
	if math.Abs(obs[2]) < thetaThreshold {
		t.Errorf("episode ended at theta %f before the threshold", obs[2])
	}
}

func TestCartPoleForceClipped(t *testing.T) {
	a := NewCartPole(3)
	a.Reset()
	a.x, a.xDot, a.theta, a.thetaDot = 0.01, 0, 0.01, 0
	b := NewCartPole(4)
	b.Reset()
	b.x, b.xDot, b.theta, b.thetaDot = 0.01, 0, 0.01, 0

	obsA, _, _ := a.Step([]float64{forceMax})
	obsB, _, _ := b.Step([]float64{100})
	for i := range obsA {
		if obsA[i] != obsB[i] {
			t.Errorf("obs[%d] differs under clipped force: %f vs %f", i, obsA[i], obsB[i])
		}
	}
}

func TestCartPoleEpisodeCap(t *testing.T) {
	env := NewCartPole(3)
	env.Reset()
	// pin the state upright so only the step cap can end the episode
	steps := 0
	for {
		env.x, env.xDot, env.theta, env.thetaDot = 0, 0, 0, 0
		_, _, done := env.Step([]float64{0})
		steps++
		if done {
			break
		}
	}
	if steps != maxSteps {
		t.Errorf("episode ran %d steps, want %d", steps, maxSteps)
	}
}

func TestCartPoleRewardShape(t *testing.T) {
	upright := CartPoleReward([]float64{0, 0, 0, 0}, []float64{0}, []float64{0, 0, 0, 0})
	leaning := CartPoleReward([]float64{0, 0, 0, 0}, []float64{0}, []float64{0, 0, 0.2, 0})
	if upright != 1 {
		t.Errorf("upright reward = %f", upright)
	}
	if leaning >= upright {
		t.Errorf("leaning reward %f should be below upright %f", leaning, upright)
	}
	pushed := CartPoleReward([]float64{0, 0, 0, 0}, []float64{forceMax}, []float64{0, 0, 0, 0})
	if pushed >= upright {
		t.Errorf("control effort should cost: %f vs %f", pushed, upright)
	}
}
