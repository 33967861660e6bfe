// Package feedcache holds the most recently generated digest for the
// pull-based RSS endpoint.
package feedcache

import (
	"sync/atomic"
	"time"

	"linkdigest/internal/domain"
)

// Cache is a single-slot snapshot holder. Writers publish a complete
// new digest; readers always see either nil (no run yet) or one
// internally consistent snapshot. Publication swaps the pointer, so
// concurrent reads during an update are safe without locking.
type Cache struct {
	digest atomic.Pointer[domain.Digest]
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{}
}

// Update publishes a new digest generated at the given time and
// returns the stored snapshot.
func (c *Cache) Update(bookmarks []domain.Bookmark, generatedAt time.Time) *domain.Digest {
	digest := &domain.Digest{
		Bookmarks:   bookmarks,
		GeneratedAt: generatedAt,
	}
	c.digest.Store(digest)
	return digest
}

// Restore publishes a previously persisted digest, keeping its
// original generation time.
func (c *Cache) Restore(digest *domain.Digest) {
	if digest == nil {
		return
	}
	c.digest.Store(digest)
}

// Get returns the current snapshot, or nil before the first run.
// Callers must treat the returned digest as read-only.
func (c *Cache) Get() *domain.Digest {
	return c.digest.Load()
}
