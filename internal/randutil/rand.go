// Package randutil derives reproducible random sources from a single seed.
package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Both PCG words are derived from the one seed so that a game, a bot and a
// replay built from the same number see the same sequence.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Source adapts a *rand.Rand to the engine's RandomSource capability.
type Source struct {
	rng *rand.Rand
}

// NewSource returns a Source seeded with seed.
func NewSource(seed int64) *Source {
	return &Source{rng: New(seed)}
}

// Wrap uses an existing generator.
func Wrap(rng *rand.Rand) *Source {
	return &Source{rng: rng}
}

// RandomRange returns a uniform integer in [low, high). It panics when the
// range is empty.
func (s *Source) RandomRange(low, high int) int {
	if high <= low {
		panic("randutil: empty range")
	}
	return low + s.rng.IntN(high-low)
}

// Intn satisfies gameid.RandSource.
func (s *Source) Intn(n int) int {
	return s.rng.IntN(n)
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
