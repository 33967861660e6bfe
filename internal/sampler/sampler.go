// Package sampler draws uniformly random subsets of bookmarks.
package sampler

import (
	"math/rand/v2"

	"linkdigest/internal/domain"
)

// Sampler selects random subsets without replacement. The randomness
// source is injectable so tests can seed it.
type Sampler struct {
	intN func(n int) int
}

// New returns a sampler backed by the process-wide random source.
func New() *Sampler {
	return &Sampler{intN: rand.IntN}
}

// NewSeeded returns a deterministic sampler for tests.
func NewSeeded(seed uint64) *Sampler {
	rng := rand.New(rand.NewPCG(seed, seed))
	return &Sampler{intN: rng.IntN}
}

// Sample shuffles bookmarks in place (Fisher-Yates) and returns the
// first n. The whole set is already materialized in memory, so full
// randomization then truncation is fine; no reservoir variant needed.
// Returns min(n, len(bookmarks)) elements; n <= 0 yields an empty
// result.
func (s *Sampler) Sample(bookmarks []domain.Bookmark, n int) []domain.Bookmark {
	if n <= 0 || len(bookmarks) == 0 {
		return nil
	}

	for i := len(bookmarks) - 1; i > 0; i-- {
		j := s.intN(i + 1)
		bookmarks[i], bookmarks[j] = bookmarks[j], bookmarks[i]
	}

	if n > len(bookmarks) {
		n = len(bookmarks)
	}
	return bookmarks[:n]
}
