// Package randutil provides the random selection helpers used by the quiz
// generator. All functions are pure with respect to their inputs and draw
// exclusively from the injected random source, so tests can seed them for
// reproducible behavior.
package randutil

import "math/rand"

// Pick returns k elements drawn from pool. When k is at most the pool
// size the result holds k distinct elements chosen uniformly without
// replacement (shuffle-and-slice); when k exceeds the pool size each of
// the k elements is an independent uniform draw, so duplicates appear.
// The input slice is never modified. Returns nil for an empty pool or
// non-positive k.
func Pick[T any](r *rand.Rand, pool []T, k int) []T {
	if len(pool) == 0 || k <= 0 {
		return nil
	}

	if k > len(pool) {
		out := make([]T, k)
		for i := range out {
			out[i] = pool[r.Intn(len(pool))]
		}
		return out
	}

	shuffled := make([]T, len(pool))
	copy(shuffled, pool)
	Shuffle(r, shuffled)
	return shuffled[:k]
}

// Shuffle permutes s in place, uniformly at random.
func Shuffle[T any](r *rand.Rand, s []T) {
	r.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}
