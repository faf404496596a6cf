// Package cache provides the per-caller response cache backing graceful
// degradation of dashboard requests.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Categories of cached dashboard payloads.
const (
	CategoryVideos   = "videos"
	CategoryComments = "comments"
)

// Entry wraps a cached payload with its write timestamp.
type Entry struct {
	Payload  json.RawMessage `json:"payload"`
	StoredAt time.Time       `json:"stored_at"`
}

// Store is a Redis-backed cache keyed by (category, caller). Entries are
// written without a Redis expiry: freshness is enforced at read time so that
// expired entries remain available to GetStale during source outages.
type Store struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration

	now func() time.Time
}

// NewStore creates a response cache store.
func NewStore(client *redis.Client, keyPrefix string, cfg *Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cache configuration: %w", err)
	}

	return &Store{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       cfg.TTL,
		now:       time.Now,
	}, nil
}

// Get returns the cached payload for (category, callerKey) if it is still
// fresh. Expired entries behave as absent but are not evicted.
func (s *Store) Get(ctx context.Context, category, callerKey string) (json.RawMessage, bool, error) {
	entry, err := s.load(ctx, category, callerKey)
	if err != nil || entry == nil {
		return nil, false, err
	}

	if s.now().Sub(entry.StoredAt) > s.ttl {
		return nil, false, nil
	}

	return entry.Payload, true, nil
}

// GetStale returns the cached payload regardless of age. Used only by the
// degradation policy when the live source is unavailable.
func (s *Store) GetStale(ctx context.Context, category, callerKey string) (json.RawMessage, bool, error) {
	entry, err := s.load(ctx, category, callerKey)
	if err != nil || entry == nil {
		return nil, false, err
	}

	return entry.Payload, true, nil
}

// Set overwrites the entry for (category, callerKey), stamping the current
// time. Overlapping writes for the same caller are last-write-wins.
func (s *Store) Set(ctx context.Context, category, callerKey string, payload json.RawMessage) error {
	entry := Entry{
		Payload:  payload,
		StoredAt: s.now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, s.key(category, callerKey), data, 0).Err()
}

func (s *Store) load(ctx context.Context, category, callerKey string) (*Entry, error) {
	data, err := s.client.Get(ctx, s.key(category, callerKey)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, err
	}

	return &entry, nil
}

func (s *Store) key(category, callerKey string) string {
	return fmt.Sprintf("%s:dashboard:%s:%s", s.keyPrefix, category, callerKey)
}
