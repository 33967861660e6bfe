package channel

import (
	"context"
	"time"

	"linkdigest/internal/domain"
	"linkdigest/internal/feedcache"
	"linkdigest/internal/logger"
)

// FeedChannel does not push anywhere: it overwrites the feed cache so
// the pull-based RSS endpoint serves the new digest. Repeated reads
// between runs return identical output because the publish date is
// pinned to the cache generation time set here.
type FeedChannel struct {
	cache  *feedcache.Cache
	now    func() time.Time
	logger logger.Logger
}

// NewFeed creates the feed channel.
func NewFeed(cache *feedcache.Cache, log logger.Logger) *FeedChannel {
	return &FeedChannel{
		cache:  cache,
		now:    time.Now,
		logger: log,
	}
}

func (f *FeedChannel) Name() string { return string(MethodFeed) }

// Snapshot returns the digest currently served by the feed, so the
// persisted copy carries the same generation time readers see.
func (f *FeedChannel) Snapshot() *domain.Digest { return f.cache.Get() }

func (f *FeedChannel) Deliver(_ context.Context, bookmarks []domain.Bookmark) error {
	digest := f.cache.Update(bookmarks, f.now())

	f.logger.Info("feed cache updated",
		logger.Int("bookmarks", len(bookmarks)),
		logger.Time("generated_at", digest.GeneratedAt))

	return nil
}
