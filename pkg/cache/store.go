package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrCacheMiss indicates the requested key was not found or has expired.
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted.
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Store is the cache contract shared by the memory and Redis backends.
//
// Entries are advisory: a miss never affects the correctness of a
// response, only its latency. Reads do not extend TTLs, and Set replaces
// any existing entry unconditionally (last writer wins).
type Store interface {
	// Get returns a copy of the stored value iff present and unexpired.
	// Returns ErrCacheMiss otherwise.
	Get(ctx context.Context, key Key) (json.RawMessage, error)

	// Set inserts or replaces the entry, expiring ttl from now.
	Set(ctx context.Context, key Key, value json.RawMessage, ttl time.Duration) error

	// Keys returns a snapshot of all non-expired keys at call time.
	Keys(ctx context.Context) ([]string, error)

	// FlushAll removes every entry immediately.
	FlushAll(ctx context.Context) error
}
