// Package cache provides the response cache for the recipe proxy:
// deterministic key derivation plus a TTL-expiring store with
// in-memory and Redis backends.
package cache

import (
	"encoding/json"
	"time"
)

// Entry represents a cached upstream payload.
type Entry struct {
	// Value is the upstream response body, passed through verbatim.
	Value json.RawMessage `json:"value"`

	// ExpiresAt is the absolute time after which the entry is stale.
	ExpiresAt time.Time `json:"expires_at"`
}

// ExpiredAt reports whether the entry is stale at the given instant.
// An entry exactly at its deadline counts as expired.
func (e *Entry) ExpiredAt(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// TTLAt returns the time remaining until expiration at the given instant.
// Returns 0 if already expired.
func (e *Entry) TTLAt(now time.Time) time.Duration {
	ttl := e.ExpiresAt.Sub(now)
	if ttl < 0 {
		return 0
	}
	return ttl
}
