// Package digest owns the fetch -> sample -> deliver flow shared by
// the scheduler and the HTTP front door.
package digest

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"linkdigest/internal/channel"
	"linkdigest/internal/domain"
	"linkdigest/internal/logger"
	"linkdigest/internal/sampler"
)

// ErrRunInProgress is returned when a dispatch run is requested while
// another one is still running. Runs are skipped, not queued.
var ErrRunInProgress = errors.New("dispatch run already in progress")

// Source fetches all bookmarks, optionally scoped to a list.
type Source interface {
	FetchAll(ctx context.Context, listID string) ([]domain.Bookmark, error)
}

// Store persists the last generated digest. Persistence is best
// effort; failures are logged and never abort a run.
type Store interface {
	SaveDigest(ctx context.Context, digest *domain.Digest) error
}

// Snapshotter is implemented by channels that publish a digest of
// their own (the feed channel stamps one into its cache). When the
// active channel exposes a snapshot, that exact digest is persisted so
// a restart restores the same generation time the feed was serving.
type Snapshotter interface {
	Snapshot() *domain.Digest
}

// Options configures a Service.
type Options struct {
	Source  Source
	Sampler *sampler.Sampler
	Channel channel.Channel
	Store   Store // nil disables persistence
	Count   int
	ListID  string
}

// Service runs the dispatch flow. It is safe for concurrent use; only
// one run executes at a time and concurrent requests are rejected
// with ErrRunInProgress.
type Service struct {
	source  Source
	sampler *sampler.Sampler
	channel channel.Channel
	store   Store
	count   int
	listID  string

	running atomic.Bool
	now     func() time.Time
	logger  logger.Logger
}

// New creates the dispatch service.
func New(opts Options, log logger.Logger) *Service {
	return &Service{
		source:  opts.Source,
		sampler: opts.Sampler,
		channel: opts.Channel,
		store:   opts.Store,
		count:   opts.Count,
		listID:  opts.ListID,
		now:     time.Now,
		logger:  log,
	}
}

// Generate fetches all bookmarks and returns a random sample of the
// configured size (fewer when the upstream has fewer).
func (s *Service) Generate(ctx context.Context) ([]domain.Bookmark, error) {
	bookmarks, err := s.source.FetchAll(ctx, s.listID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookmarks: %w", err)
	}
	return s.sampler.Sample(bookmarks, s.count), nil
}

// Run executes one full dispatch: generate a sample and deliver it to
// the active channel, then persist the digest best-effort. An empty
// sample skips delivery. Delivery failures are logged here and
// returned; the caller decides whether that aborts anything (the
// scheduler does not).
func (s *Service) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrRunInProgress
	}
	defer s.running.Store(false)

	s.logger.Info("starting bookmark dispatch",
		logger.String("channel", s.channel.Name()),
		logger.Int("count", s.count),
		logger.Bool("list_scoped", s.listID != ""))

	bookmarks, err := s.Generate(ctx)
	if err != nil {
		s.logger.Error("dispatch aborted", logger.Error(err))
		return err
	}

	if len(bookmarks) == 0 {
		s.logger.Info("no bookmarks available to send")
		return nil
	}

	if err := s.channel.Deliver(ctx, bookmarks); err != nil {
		s.logger.Error("delivery failed",
			logger.String("channel", s.channel.Name()),
			logger.Int("bookmarks", len(bookmarks)),
			logger.Error(err))
		return fmt.Errorf("failed to deliver via %s: %w", s.channel.Name(), err)
	}

	s.persist(ctx, bookmarks)

	s.logger.Info("dispatch completed",
		logger.String("channel", s.channel.Name()),
		logger.Int("bookmarks", len(bookmarks)))

	return nil
}

// Running reports whether a dispatch is currently in flight.
func (s *Service) Running() bool {
	return s.running.Load()
}

func (s *Service) persist(ctx context.Context, bookmarks []domain.Bookmark) {
	if s.store == nil {
		return
	}

	digest := &domain.Digest{Bookmarks: bookmarks, GeneratedAt: s.now()}
	if sn, ok := s.channel.(Snapshotter); ok {
		if published := sn.Snapshot(); published != nil {
			digest = published
		}
	}

	if err := s.store.SaveDigest(ctx, digest); err != nil {
		s.logger.Warn("failed to persist digest", logger.Error(err))
	}
}
