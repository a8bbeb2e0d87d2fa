package app

import (
	"math/rand/v2"
)

// RandomIndexSource draws indexes from a math/rand/v2 generator.
// Implements ports.IndexSource.
type RandomIndexSource struct {
	intN func(n int) int
}

// NewRandomIndexSource returns a source backed by the runtime's global
// generator, which is safe for concurrent use.
func NewRandomIndexSource() *RandomIndexSource {
	return &RandomIndexSource{intN: rand.IntN}
}

// NewSeededIndexSource returns a deterministic source for tests and
// benchmarks. Not safe for concurrent use.
func NewSeededIndexSource(seed1, seed2 uint64) *RandomIndexSource {
	r := rand.New(rand.NewPCG(seed1, seed2))

	return &RandomIndexSource{intN: r.IntN}
}

// IntN returns a uniform index in [0, n). Panics if n <= 0.
func (s *RandomIndexSource) IntN(n int) int {
	return s.intN(n)
}
