// Package metrics documents the Prometheus metrics exposed by the
// collector. All metrics are defined in their respective packages
// (statsapi, cache, store, pipeline) to maintain modularity and avoid
// circular dependencies.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the collector.
// All metrics are automatically registered via promauto in their
// respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/statsapi):
//   - milb_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status
//   - milb_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - milb_errors_total{class} (Counter): Errors by class (timeout, rate_limit, network, not_found, malformed)
//
// Retry Metrics (pkg/statsapi):
//   - milb_retries_total{error_class} (Counter): Retry attempts by error class
//   - milb_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - milb_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Cache Metrics (pkg/cache):
//   - milb_cache_hits_total (Counter): Upstream payload cache hits
//   - milb_cache_misses_total (Counter): Cache misses
//   - milb_cache_size_bytes (Gauge): Bytes written to the cache
//   - milb_cache_errors_total{operation} (Counter): Cache operation errors
//
// Store Metrics (internal/store):
//   - milb_rows_inserted_total{table} (Counter): Rows inserted by table
//   - milb_duplicates_skipped_total{table} (Counter): Appearance rows discarded by the conflict rule
//
// Pipeline Metrics (internal/pipeline):
//   - milb_entities_processed_total{role, outcome} (Counter): Entities by outcome (ok, failed, no_data)
//
// Example Prometheus Queries:
//
//	# Entity failure rate
//	sum(rate(milb_entities_processed_total{outcome="failed"}[5m])) /
//	sum(rate(milb_entities_processed_total[5m]))
//
//	# Duplicate skip volume (should be ~0 outside of re-runs)
//	rate(milb_duplicates_skipped_total[5m])
//
//	# P95 provider latency
//	histogram_quantile(0.95, rate(milb_request_duration_seconds_bucket[5m]))
