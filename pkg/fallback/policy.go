// Package fallback implements graceful degradation for dashboard requests:
// fresh cache, live source, stale cache, then a fixed demonstration dataset.
package fallback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/echotube/echotube/pkg/cache"
	"github.com/echotube/echotube/pkg/observability"
	"github.com/echotube/echotube/pkg/youtube"
)

// Enqueuer schedules a background refresh after a degraded response. The
// worker package provides the production implementation.
type Enqueuer interface {
	EnqueueRefresh(ctx context.Context, category, callerKey, sessionToken string) error
}

// Result is one resolved dashboard payload.
type Result struct {
	Payload json.RawMessage
	// Stale is set when the payload came from an expired cache entry.
	Stale bool
	// Demo is set when the payload is the demonstration dataset.
	Demo bool
}

// Policy resolves a category payload for a caller, degrading through stale
// cache and demo data when the source reports exhausted quota.
type Policy struct {
	cache    *cache.Store
	enqueuer Enqueuer
	log      logrus.FieldLogger
}

// NewPolicy creates a degradation policy. enqueuer may be nil when no
// background refresh is configured.
func NewPolicy(store *cache.Store, enqueuer Enqueuer, log logrus.FieldLogger) *Policy {
	return &Policy{
		cache:    store,
		enqueuer: enqueuer,
		log:      log.WithField("component", "fallback"),
	}
}

// Fetch resolves the payload for (category, caller).
//
// Fresh cache hits return immediately. On a miss the live fetch runs; success
// writes through to the cache. A quota failure falls back to the stale cache
// entry, then to the demo payload; demo payloads are never cached. Any other
// source error propagates.
func (p *Policy) Fetch(
	ctx context.Context,
	category, callerKey, sessionToken string,
	fresh func(context.Context) (any, error),
	demo func() any,
) (*Result, error) {
	cached, ok, err := p.cache.Get(ctx, category, callerKey)
	if err != nil {
		// A broken cache must not take down the request path
		observability.RecordCacheLookup(category, "error")
		p.log.WithError(err).WithField("category", category).Error("Cache lookup failed")
	} else if ok {
		observability.RecordCacheLookup(category, "hit")
		return &Result{Payload: cached}, nil
	} else {
		observability.RecordCacheLookup(category, "miss")
	}

	payload, err := fresh(ctx)
	if err == nil {
		data, marshalErr := json.Marshal(payload)
		if marshalErr != nil {
			return nil, fmt.Errorf("failed to encode %s payload: %w", category, marshalErr)
		}

		if setErr := p.cache.Set(ctx, category, callerKey, data); setErr != nil {
			p.log.WithError(setErr).WithField("category", category).Error("Cache write failed")
		}

		return &Result{Payload: data}, nil
	}

	if !errors.Is(err, youtube.ErrQuotaExceeded) {
		return nil, err
	}

	p.log.WithField("category", category).Warn("Source quota exceeded, degrading")
	p.scheduleRefresh(ctx, category, callerKey, sessionToken)

	stale, ok, staleErr := p.cache.GetStale(ctx, category, callerKey)
	if staleErr != nil {
		p.log.WithError(staleErr).WithField("category", category).Error("Stale cache lookup failed")
	}
	if ok {
		observability.RecordFallback(category, "stale")
		return &Result{Payload: stale, Stale: true}, nil
	}

	data, marshalErr := json.Marshal(demo())
	if marshalErr != nil {
		return nil, fmt.Errorf("failed to encode %s demo payload: %w", category, marshalErr)
	}

	observability.RecordFallback(category, "demo")

	return &Result{Payload: data, Demo: true}, nil
}

func (p *Policy) scheduleRefresh(ctx context.Context, category, callerKey, sessionToken string) {
	if p.enqueuer == nil {
		return
	}

	if err := p.enqueuer.EnqueueRefresh(ctx, category, callerKey, sessionToken); err != nil {
		p.log.WithError(err).WithField("category", category).Error("Failed to enqueue refresh task")
	}
}
