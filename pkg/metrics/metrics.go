// Package metrics provides the centralized Prometheus registry reference
// for the recipe proxy. All metrics are defined in their respective
// packages (cache, upstream) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the proxy.
// All metrics are automatically registered via promauto in their
// respective packages and served on /metrics.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - recipe_cache_hits_total{backend} (Counter): Cache hits by backend (memory, redis)
//   - recipe_cache_misses_total (Counter): Cache misses (absent or expired)
//   - recipe_cache_entries{backend} (Gauge): Current number of entries
//   - recipe_cache_errors_total{operation} (Counter): Cache operation errors (redis only)
//
// Upstream Metrics (pkg/upstream):
//   - recipe_upstream_requests_total{operation, status} (Counter): Requests by operation and HTTP status
//   - recipe_upstream_request_duration_seconds{operation} (Histogram): Request duration by operation
//   - recipe_upstream_errors_total{class} (Counter): Errors by class (client, server, network, decode)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(recipe_cache_hits_total[5m])) /
//   (sum(rate(recipe_cache_hits_total[5m])) + sum(rate(recipe_cache_misses_total[5m])))
//
//   # Upstream Error Rate
//   rate(recipe_upstream_errors_total[5m])
//
//   # P95 Upstream Latency
//   histogram_quantile(0.95, rate(recipe_upstream_request_duration_seconds_bucket[5m]))
