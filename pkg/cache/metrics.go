package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits tracks cache hits by backend (memory, redis).
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_cache_hits_total",
			Help: "Total number of recipe cache hits",
		},
		[]string{"backend"},
	)

	// cacheMisses tracks cache misses (absent or expired).
	cacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipe_cache_misses_total",
			Help: "Total number of recipe cache misses",
		},
	)

	// cacheEntries tracks the current number of entries by backend.
	cacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recipe_cache_entries",
			Help: "Current number of recipe cache entries",
		},
		[]string{"backend"},
	)

	// cacheErrors tracks cache operation errors (Redis backend only;
	// the memory backend is infallible).
	cacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "keys", "flush"
	)
)
