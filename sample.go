package verdict

import "math/rand"

// sampler makes the keep/drop decision for a configured sample rate.
type sampler struct {
	randomFloat func() float64
}

// newSampler returns a sampler drawing from randomFloat, or from the shared
// math/rand source when randomFloat is nil.
func newSampler(randomFloat func() float64) sampler {
	if randomFloat == nil {
		randomFloat = rand.Float64
	}
	return sampler{randomFloat: randomFloat}
}

// Keep reports whether one item passes the gate for the given rate. The
// comparison is strict, so a rate of 0 never keeps and a rate of 1 always
// keeps (draws are in [0, 1)).
func (s sampler) Keep(rate float64) bool {
	return s.randomFloat() < rate
}
