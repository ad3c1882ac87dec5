package store

import (
	"testing"

	"github.com/KONPEITO1205/machina/traj"
)

func TestEpiCodecRoundTrip(t *testing.T) {
	e := &traj.Epi{
		Obs:     [][]float64{{0.1, 0.2}, {0.3, 0.4}},
		Acs:     [][]float64{{-1}, {1}},
		Rews:    []float64{0.5, -0.5},
		NextObs: [][]float64{{0.3, 0.4}, {0.5, 0.6}},
		Dones:   []bool{false, true},
	}

	bs, err := encodeEpi(e)
	if err != nil {
		t.Fatalf("encode failed: %s", err)
	}
	back, err := decodeEpi(bs)
	if err != nil {
		t.Fatalf("decode failed: %s", err)
	}

	if back.Len() != e.Len() {
		t.Fatalf("length %d, want %d", back.Len(), e.Len())
	}
	for i := 0; i < e.Len(); i++ {
		if back.Obs[i][0] != e.Obs[i][0] || back.NextObs[i][1] != e.NextObs[i][1] {
			t.Errorf("step %d observations differ", i)
		}
		if back.Acs[i][0] != e.Acs[i][0] || back.Rews[i] != e.Rews[i] || back.Dones[i] != e.Dones[i] {
			t.Errorf("step %d fields differ", i)
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := decodeEpi([]byte("not json")); err == nil {
		t.Error("expected an error for malformed input")
	}
}
