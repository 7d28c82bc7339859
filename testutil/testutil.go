package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Values generates n values uniformly distributed in [0, maxVal).
func (r *RNG) Values(n, maxVal int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	vals := make([]int, n)
	for i := range vals {
		vals[i] = r.rand.Intn(maxVal)
	}
	return vals
}

// SkewedValues generates n values in [0, maxVal) with a Zipfian distribution,
// so low values repeat often. s is the skew parameter (1.0 standard Zipf,
// 1.5 heavy tail).
func (r *RNG) SkewedValues(n, maxVal int, s float64) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	vals := make([]int, n)
	for i := range vals {
		vals[i] = r.zipfLocked(maxVal, s)
	}
	return vals
}

// Permutation returns a random permutation of [0, n).
func (r *RNG) Permutation(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1 // 0-indexed
		}
	}

	return n - 1
}

// DistinctInOrder returns the distinct elements of vals in first-occurrence
// order. It is the map-based reference model for a set's iteration order.
func DistinctInOrder[T comparable](vals []T) []T {
	seen := make(map[T]struct{}, len(vals))
	out := make([]T, 0, len(vals))
	for _, v := range vals {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
