// Package entropy provides the injectable random source shared by the generator,
// the finance simulator, and the policy engine.
// Falls back to crypto/rand seeding when no seed is configured.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"

	"golang.org/x/exp/constraints"
)

// Source is the single randomness contract every subsystem draws from.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntRange returns a value in [min, max], both inclusive.
	IntRange(min, max int) int
}

// Rand is a seeded math/rand source.
type Rand struct {
	rng *mrand.Rand
}

// New creates a seeded source. A zero seed draws one from crypto/rand, which makes
// runs unreproducible the same way an unseeded process-wide generator would.
func New(seed int64) *Rand {
	if seed == 0 {
		seed = CryptoSeed()
	}
	return &Rand{rng: mrand.New(mrand.NewSource(seed))}
}

// Float64 returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	return r.rng.Float64()
}

// IntRange returns a value in [min, max].
func (r *Rand) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.rng.Intn(max-min+1)
}

// NormFloat64 returns a standard normal draw.
func (r *Rand) NormFloat64() float64 {
	return r.rng.NormFloat64()
}

// CryptoSeed returns a seed read from crypto/rand.
func CryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen; any fixed value keeps the game playable.
		return 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
}

// Between returns a uniform float in [lo, hi).
func Between(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Chance reports whether a draw lands under p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Pick returns a uniformly chosen element. Panics on an empty slice like indexing would.
func Pick[T any](src Source, items []T) T {
	return items[src.IntRange(0, len(items)-1)]
}

// Weighted picks an index proportionally to weights. Non-positive weights are never
// chosen; when every weight is non-positive it returns -1.
func Weighted(src Source, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}

	r := src.Float64() * total
	upto := 0.0
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		upto += w
		last = i
		if r < upto {
			return i
		}
	}
	return last
}

// Shuffle permutes items in place (Fisher–Yates).
func Shuffle[T any](src Source, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := src.IntRange(0, i)
		items[i], items[j] = items[j], items[i]
	}
}

// Clamp bounds v to [lo, hi].
func Clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
