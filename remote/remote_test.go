package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KONPEITO1205/machina/traj"
)

func testEpis() []*traj.Epi {
	return []*traj.Epi{
		{
			Obs:     [][]float64{{0, 0}, {0.1, 0.1}},
			Acs:     [][]float64{{1}, {-1}},
			Rews:    []float64{1, 1},
			NextObs: [][]float64{{0.1, 0.1}, {0.2, 0.2}},
			Dones:   []bool{false, true},
		},
		{
			Obs:     [][]float64{{5, 5}},
			Acs:     [][]float64{{0}},
			Rews:    []float64{-1},
			NextObs: [][]float64{{5.1, 5.1}},
			Dones:   []bool{true},
		},
	}
}

func startTestServer(t *testing.T) (*EpiServer, *EpiClient) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s := NewEpiServer(ctx, "127.0.0.1:0")
	ts := httptest.NewServer(s.server.Handler)
	t.Cleanup(ts.Close)

	return s, NewEpiClient(strings.TrimPrefix(ts.URL, "http://"))
}

func TestPostAndDrain(t *testing.T) {
	s, c := startTestServer(t)

	if err := c.PostEpis(testEpis()); err != nil {
		t.Fatalf("post failed: %s", err)
	}
	if got := s.NumStep(); got != 3 {
		t.Errorf("buffered steps = %d, want 3", got)
	}

	n, err := c.NumStep()
	if err != nil {
		t.Fatalf("num_step failed: %s", err)
	}
	if n != 3 {
		t.Errorf("client num_step = %d, want 3", n)
	}

	epis := s.Drain()
	if len(epis) != 2 {
		t.Fatalf("drained %d episodes, want 2", len(epis))
	}
	if epis[0].Len() != 2 || epis[1].Len() != 1 {
		t.Errorf("episode lengths %d, %d", epis[0].Len(), epis[1].Len())
	}
	if epis[0].Obs[1][0] != 0.1 || !epis[0].Dones[1] {
		t.Error("episode fields did not survive the round trip")
	}
	if s.NumStep() != 0 {
		t.Error("drain should clear the buffer")
	}
}

func TestPostAccumulates(t *testing.T) {
	s, c := startTestServer(t)
	if err := c.PostEpis(testEpis()); err != nil {
		t.Fatalf("post failed: %s", err)
	}
	if err := c.PostEpis(testEpis()[:1]); err != nil {
		t.Fatalf("post failed: %s", err)
	}
	if got := s.NumStep(); got != 5 {
		t.Errorf("buffered steps = %d, want 5", got)
	}
	if got := len(s.Drain()); got != 3 {
		t.Errorf("drained %d episodes, want 3", got)
	}
}

func TestBadRequestRejected(t *testing.T) {
	s, _ := startTestServer(t)
	ts := httptest.NewServer(s.server.Handler)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/epis", "application/json", strings.NewReader("not json"))
	if err != nil {
		t.Fatalf("post failed: %s", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	if s.NumStep() != 0 {
		t.Error("a rejected post should not buffer steps")
	}
}
