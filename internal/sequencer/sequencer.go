package sequencer

import "math/rand"

// Sequencer is the single source of randomness for a scenario run.
//
// Every probabilistic decision a driver makes is drawn from one Sequencer,
// constructed from the scenario seed. For a fixed seed and a fixed order of
// sampling calls the returned values are bit-identical across runs, processes,
// and machines: the underlying generator is math/rand's Go-1-stable source,
// and no method consults wall-clock time, I/O, or any other ambient state.
//
// Sequencer is NOT safe for concurrent use. Drivers are single-threaded, and
// sharing one Sequencer across goroutines would destroy call-order
// reproducibility even if the accesses were synchronized.
type Sequencer struct {
	rng *rand.Rand
}

// New creates a Sequencer from a scenario seed.
func New(seed int64) *Sequencer {
	return &Sequencer{rng: rand.New(rand.NewSource(seed))}
}

// Float64 returns a uniform sample in [0, 1). Used for probability gating.
func (s *Sequencer) Float64() float64 {
	return s.rng.Float64()
}

// IntBetween returns a uniform sample in the inclusive range [lo, hi].
// Panics if hi < lo; config validation rejects inverted bounds before a
// driver can reach this point.
func (s *Sequencer) IntBetween(lo, hi int64) int64 {
	if hi < lo {
		panic("sequencer: IntBetween called with hi < lo")
	}
	return lo + s.rng.Int63n(hi-lo+1)
}

// IntN returns a uniform sample in [0, n). Used for counterparty selection.
func (s *Sequencer) IntN(n int) int {
	return s.rng.Intn(n)
}
