package traj

import (
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Batch maps a field name to a matrix holding one transition per row
type Batch map[string]*mat.Dense

// Rows returns the number of transitions in the batch
func (b Batch) Rows() int {
	for _, m := range b {
		r, _ := m.Dims()
		return r
	}
	return 0
}

// Traj accumulates collected episodes into flat per-field matrices and
// serves uniform random batches of the stored transitions
type Traj struct {
	data    map[string]*mat.Dense
	pending []*Epi
	numStep int
	rng     *rand.Rand
}

// NewTraj creates an empty trajectory seeded from the clock
func NewTraj() *Traj {
	return NewSeededTraj(uint64(time.Now().UnixNano()))
}

// NewSeededTraj creates an empty trajectory with a fixed batch-sampling seed
func NewSeededTraj(seed uint64) *Traj {
	return &Traj{
		data:    make(map[string]*mat.Dense),
		pending: make([]*Epi, 0),
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// AddEpis stages episodes for the next RegisterEpis call
func (t *Traj) AddEpis(epis []*Epi) {
	t.pending = append(t.pending, epis...)
}

// RegisterEpis flattens the staged episodes into the stored fields. Until it
// is called the staged steps are not visible to NumStep or the batch draws.
func (t *Traj) RegisterEpis() {
	total := 0
	for _, e := range t.pending {
		total += e.Len()
	}
	if total == 0 {
		t.pending = t.pending[:0]
		return
	}

	obsDim, acsDim := 0, 0
	for _, e := range t.pending {
		if e.Len() > 0 {
			obsDim = len(e.Obs[0])
			acsDim = len(e.Acs[0])
			break
		}
	}

	obs := mat.NewDense(total, obsDim, nil)
	acs := mat.NewDense(total, acsDim, nil)
	nextObs := mat.NewDense(total, obsDim, nil)
	rews := mat.NewDense(total, 1, nil)
	dones := mat.NewDense(total, 1, nil)
	row := 0
	for _, e := range t.pending {
		for i := 0; i < e.Len(); i++ {
			obs.SetRow(row, e.Obs[i])
			acs.SetRow(row, e.Acs[i])
			nextObs.SetRow(row, e.NextObs[i])
			rews.Set(row, 0, e.Rews[i])
			if e.Dones[i] {
				dones.Set(row, 0, 1)
			}
			row++
		}
	}

	t.appendField("obs", obs)
	t.appendField("acs", acs)
	t.appendField("next_obs", nextObs)
	t.appendField("rews", rews)
	t.appendField("dones", dones)
	t.numStep += total
	t.pending = t.pending[:0]
}

func (t *Traj) appendField(key string, rows *mat.Dense) {
	cur, ok := t.data[key]
	if !ok {
		t.data[key] = rows
		return
	}
	stacked := new(mat.Dense)
	stacked.Stack(cur, rows)
	t.data[key] = stacked
}

// NumStep returns the number of registered transitions
func (t *Traj) NumStep() int {
	return t.numStep
}

// Batch gathers the given rows of every stored field
func (t *Traj) Batch(indices []int) Batch {
	b := make(Batch, len(t.data))
	for key, m := range t.data {
		_, c := m.Dims()
		out := mat.NewDense(len(indices), c, nil)
		for i, idx := range indices {
			out.SetRow(i, mat.Row(nil, idx, m))
		}
		b[key] = out
	}
	return b
}

// RandomBatch returns an iterator over numDraws independent uniform batches.
// A draw larger than the stored transitions yields all of them, a draw of
// size zero yields empty batches.
func (t *Traj) RandomBatch(batchSize, numDraws int) *BatchIter {
	return &BatchIter{
		traj:      t,
		batchSize: batchSize,
		remaining: numDraws,
	}
}

// BatchIter draws random batches from a Traj lazily, one per Next call
type BatchIter struct {
	traj      *Traj
	batchSize int
	remaining int
}

// Next returns the next batch, or false once all draws are spent
func (it *BatchIter) Next() (Batch, bool) {
	if it.remaining <= 0 {
		return nil, false
	}
	it.remaining--
	if it.batchSize <= 0 {
		return Batch{}, true
	}
	k := it.batchSize
	if k > it.traj.numStep {
		k = it.traj.numStep
	}
	indices := it.traj.rng.Perm(it.traj.numStep)[:k]
	return it.traj.Batch(indices), true
}
