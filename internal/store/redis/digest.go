// Package redis persists the last generated digest so a restart does
// not lose the published feed.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"linkdigest/internal/domain"
)

// lastDigestKey holds the JSON-encoded last digest. No TTL: the
// snapshot stays valid until the next run overwrites it.
const lastDigestKey = "linkdigest:digest:last"

// Store handles Redis operations for digest snapshots.
type Store struct {
	client *redis.Client
}

// NewStore creates a digest store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// SaveDigest overwrites the persisted digest snapshot.
func (s *Store) SaveDigest(ctx context.Context, digest *domain.Digest) error {
	data, err := json.Marshal(digest)
	if err != nil {
		return fmt.Errorf("failed to marshal digest: %w", err)
	}

	if err := s.client.Set(ctx, lastDigestKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save digest: %w", err)
	}
	return nil
}

// LoadDigest returns the persisted digest, or nil when none exists.
func (s *Store) LoadDigest(ctx context.Context) (*domain.Digest, error) {
	data, err := s.client.Get(ctx, lastDigestKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load digest: %w", err)
	}

	var digest domain.Digest
	if err := json.Unmarshal(data, &digest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal digest: %w", err)
	}
	return &digest, nil
}
