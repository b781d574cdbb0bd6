// Package rng provides seedable random sources for the shuffling steps of a calculation.
package rng

import (
	"math/rand/v2"

	"github.com/zeebo/xxh3"
)

// golden is the 64-bit golden ratio, used to derive the second PCG state word.
const golden = 0x9e3779b97f4a7c15

// New returns a PCG-backed random source.
//
// A non-zero seed yields a deterministic sequence. A zero seed draws a fresh seed from
// the runtime's random source.
//
// Parameters:
//   - seed: Seed for the generator (0 for a random seed)
//
// Returns:
//   - *rand.Rand: Random source, not safe for concurrent use
//
//nolint:gosec
func New(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64() | 1
	}

	return rand.New(rand.NewPCG(seed, seed^golden))
}

// SeedFromKey derives a seed from a string key such as an event identifier.
//
// The same key always yields the same seed; the empty key yields 0.
func SeedFromKey(key string) uint64 {
	if key == "" {
		return 0
	}

	return xxh3.HashString(key)
}

// Resolve picks the effective seed: an explicit seed wins over a key.
func Resolve(seed uint64, key string) uint64 {
	if seed != 0 {
		return seed
	}

	return SeedFromKey(key)
}

// Shuffle shuffles s in place using r.
func Shuffle[T any](r *rand.Rand, s []T) {
	r.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}
