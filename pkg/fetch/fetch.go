// Package fetch provides the fetch-with-cache orchestrator: serve from
// the cache when fresh, otherwise call upstream once, store the result,
// and annotate the response.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/kettleworks/recipe-proxy/pkg/cache"
	"github.com/kettleworks/recipe-proxy/pkg/upstream"
)

// Caller executes one remote call. Satisfied by *upstream.Client.
type Caller interface {
	Fetch(ctx context.Context, loc upstream.Locator) (json.RawMessage, error)
}

// Fetcher decides between serving a cached payload and fetching from
// upstream. Construct one instance at process start and share it; it
// holds no per-request state.
type Fetcher struct {
	store  cache.Store
	caller Caller
	logger zerolog.Logger
	now    func() time.Time

	// sf coalesces concurrent misses on the same key into one upstream
	// call. Nil when disabled: concurrent misses then each call upstream
	// independently and the last Set wins.
	sf *singleflight.Group
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithSingleFlight enables per-key coalescing of concurrent misses.
func WithSingleFlight() Option {
	return func(f *Fetcher) {
		f.sf = &singleflight.Group{}
	}
}

// WithClock replaces the fetcher's time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		f.now = now
	}
}

// New creates a Fetcher on the given store and upstream caller.
func New(store cache.Store, caller Caller, opts ...Option) *Fetcher {
	f := &Fetcher{
		store:  store,
		caller: caller,
		logger: log.With().Str("component", "fetcher").Logger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchWithCache returns the cached payload for key if fresh, otherwise
// performs the remote call described by loc, stores the decoded payload
// under key with the given TTL, and returns it.
//
// The Timestamp on the result is generated at return time, not at
// cache-write time. Upstream failures surface as *upstream.Error and
// are never cached.
func (f *Fetcher) FetchWithCache(ctx context.Context, key cache.Key, loc upstream.Locator, ttl time.Duration) (*Result, error) {
	cached, err := f.store.Get(ctx, key)
	if err == nil {
		f.logger.Debug().
			Str("operation", key.Operation).
			Str("key", key.String()).
			Msg("Cache hit")
		return &Result{
			Payload:   cached,
			FromCache: true,
			Timestamp: f.now(),
		}, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		// The cache is advisory: a failing backend degrades to a miss.
		f.logger.Warn().Err(err).Str("key", key.String()).Msg("Cache get error")
	}

	payload, err := f.fetchAndStore(ctx, key, loc, ttl)
	if err != nil {
		return nil, err
	}

	return &Result{
		Payload:   payload,
		FromCache: false,
		Timestamp: f.now(),
	}, nil
}

// fetchAndStore performs the remote call and caches a successful result.
func (f *Fetcher) fetchAndStore(ctx context.Context, key cache.Key, loc upstream.Locator, ttl time.Duration) (json.RawMessage, error) {
	if f.sf == nil {
		return f.callUpstream(ctx, key, loc, ttl)
	}

	// Coalesced callers share the payload bytes; all paths treat
	// payloads as read-only.
	payload, err, _ := f.sf.Do(key.String(), func() (interface{}, error) {
		return f.callUpstream(ctx, key, loc, ttl)
	})
	if err != nil {
		return nil, err
	}
	return payload.(json.RawMessage), nil
}

func (f *Fetcher) callUpstream(ctx context.Context, key cache.Key, loc upstream.Locator, ttl time.Duration) (json.RawMessage, error) {
	payload, err := f.caller.Fetch(ctx, loc)
	if err != nil {
		return nil, err
	}

	if err := f.store.Set(ctx, key, payload, ttl); err != nil {
		// Failing to cache never fails the request.
		f.logger.Warn().Err(err).Str("key", key.String()).Msg("Cache set error")
	} else {
		f.logger.Debug().
			Str("operation", key.Operation).
			Str("key", key.String()).
			Dur("ttl", ttl).
			Msg("Cached upstream response")
	}

	return payload, nil
}
