package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks payload cache hits
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "milb_cache_hits_total",
			Help: "Total number of upstream payload cache hits",
		},
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "milb_cache_misses_total",
			Help: "Total number of upstream payload cache misses",
		},
	)

	// CacheSize tracks cumulative bytes written to the cache
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "milb_cache_size_bytes",
			Help: "Bytes written to the upstream payload cache",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "milb_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
