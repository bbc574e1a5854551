package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

const (
	// DefaultSweepInterval is how often the janitor removes expired entries.
	DefaultSweepInterval = 1 * time.Minute
)

// MemoryStore is the default in-process Store backend: a mutex-guarded
// map with lazy expiry on read and a periodic janitor sweep.
//
// The store owns its entries exclusively. Get hands out copies of the
// value bytes, so callers can never corrupt stored state.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry

	now  func() time.Time
	done chan struct{}
	once sync.Once
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock replaces the store's time source. Used by tests to simulate
// TTL expiry without sleeping.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore creates a memory store and starts its janitor.
// sweepInterval <= 0 disables the janitor; expired entries are then only
// dropped lazily on access.
func NewMemoryStore(sweepInterval time.Duration, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]Entry),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if sweepInterval > 0 {
		go s.janitor(sweepInterval)
	}

	return s
}

// Get returns a copy of the stored value iff present and unexpired.
func (s *MemoryStore) Get(_ context.Context, key Key) (json.RawMessage, error) {
	k := key.String()
	now := s.now()

	s.mu.RLock()
	entry, ok := s.entries[k]
	s.mu.RUnlock()

	if !ok {
		cacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	if entry.ExpiredAt(now) {
		s.mu.Lock()
		// Re-check under the write lock: a Set may have refreshed the
		// entry between the two lock acquisitions.
		if e, ok := s.entries[k]; ok && e.ExpiredAt(s.now()) {
			delete(s.entries, k)
			cacheEntries.WithLabelValues("memory").Set(float64(len(s.entries)))
		}
		s.mu.Unlock()
		cacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	cacheHits.WithLabelValues("memory").Inc()

	value := make(json.RawMessage, len(entry.Value))
	copy(value, entry.Value)
	return value, nil
}

// Set inserts or replaces the entry, expiring ttl from now.
// Overwrites any existing entry unconditionally.
func (s *MemoryStore) Set(_ context.Context, key Key, value json.RawMessage, ttl time.Duration) error {
	stored := make(json.RawMessage, len(value))
	copy(stored, value)

	s.mu.Lock()
	s.entries[key.String()] = Entry{
		Value:     stored,
		ExpiresAt: s.now().Add(ttl),
	}
	cacheEntries.WithLabelValues("memory").Set(float64(len(s.entries)))
	s.mu.Unlock()

	return nil
}

// Keys returns a snapshot of all non-expired keys at call time.
func (s *MemoryStore) Keys(_ context.Context) ([]string, error) {
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for k, entry := range s.entries {
		if !entry.ExpiredAt(now) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// FlushAll removes every entry immediately.
func (s *MemoryStore) FlushAll(_ context.Context) error {
	s.mu.Lock()
	s.entries = make(map[string]Entry)
	cacheEntries.WithLabelValues("memory").Set(0)
	s.mu.Unlock()
	return nil
}

// Close stops the janitor. The store remains usable afterwards; expired
// entries are then only dropped lazily.
func (s *MemoryStore) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}

// janitor periodically removes expired entries so abandoned keys do not
// accumulate between reads.
func (s *MemoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.done:
			return
		}
	}
}

func (s *MemoryStore) sweep() {
	now := s.now()

	s.mu.Lock()
	for k, entry := range s.entries {
		if entry.ExpiredAt(now) {
			delete(s.entries, k)
		}
	}
	cacheEntries.WithLabelValues("memory").Set(float64(len(s.entries)))
	s.mu.Unlock()
}
