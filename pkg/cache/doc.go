// Package cache provides response caching for the recipe proxy.
//
// The cache has two cooperating pieces:
//
//   - Key: deterministic key derivation from an operation tag and its
//     normalized parameters
//   - Store: a TTL-expiring key/value store with in-memory (default)
//     and Redis backends
//
// # Key Derivation
//
//	key := cache.NewKey("search").
//		Text("query", "Chicken").   // case-folded free text
//		Param("number", "10")       // verbatim ids/counts
//
//	key.String() // "recipe:search:number=10:query=chicken"
//
// Equal logical requests always derive equal keys: free text is trimmed
// and lower-cased, absent optional parameters are omitted, and parameters
// are serialized in sorted order regardless of insertion order.
//
// # Store Usage
//
//	store := cache.NewMemoryStore(cache.DefaultSweepInterval)
//	defer store.Close()
//
//	err := store.Set(ctx, key, payload, time.Hour)
//
//	value, err := store.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// absent or expired - fetch from upstream
//	}
//
// Entries are advisory only: a miss never changes the correctness of a
// response, only its latency and freshness. Reads do not extend TTLs,
// and Set overwrites unconditionally (last writer wins).
//
// # Backends
//
// MemoryStore is the default: pure in-process state with no failure
// modes, lazy expiry on read, and a periodic janitor sweep. Its clock is
// injectable for tests.
//
// RedisStore keeps the same contract on a Redis instance, for
// deployments where a warm cache should survive restarts. Expiry is
// delegated to Redis key TTLs. All proxy keys live under the "recipe:"
// prefix so introspection and FlushAll never touch unrelated keys.
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - recipe_cache_hits_total{backend} - cache hits
//   - recipe_cache_misses_total - cache misses
//   - recipe_cache_entries{backend} - current entry count
//   - recipe_cache_errors_total{operation} - errors (Redis backend only)
package cache
