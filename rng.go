package skycity

import "math/rand/v2"

// Rand is the random source injected into every spawner (lanterns, trails,
// explosion bursts). It wraps math/rand/v2 with an explicit seed so runs
// are reproducible in tests.
type Rand struct {
	src *rand.Rand
}

// NewRand creates a seeded random source.
func NewRand(seed uint64) *Rand {
	return &Rand{src: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Float64 returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	return r.src.Float64()
}

// IntN returns a value in [0, n). Panics if n <= 0, matching math/rand/v2.
func (r *Rand) IntN(n int) int {
	return r.src.IntN(n)
}
