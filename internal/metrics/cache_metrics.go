// Package metrics defines cache-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Cache counter vectors
var (
	CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tennis_stats",
		Name:      "cache_hits_total",
		Help:      "Total number of cache hits by cache name",
	}, []string{"cache"})
	CacheMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tennis_stats",
		Name:      "cache_misses_total",
		Help:      "Total number of cache misses by cache name",
	}, []string{"cache"})
	CacheEvictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tennis_stats",
		Name:      "cache_evictions_total",
		Help:      "Total number of evicted cache entries by cache name",
	}, []string{"cache"})
)

// Cache gauge vectors
var (
	CacheEntries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "tennis_stats",
		Name:      "cache_entries",
		Help:      "Number of entries held by each cache",
	}, []string{"cache"})
)

// RecordCacheHit records a cache hit.
func RecordCacheHit(cache string) {
	CacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a cache miss.
func RecordCacheMiss(cache string) {
	CacheMissesTotal.WithLabelValues(cache).Inc()
}

// RecordCacheEvictions records evicted entries.
func RecordCacheEvictions(cache string, count int) {
	CacheEvictionsTotal.WithLabelValues(cache).Add(float64(count))
}

// UpdateCacheEntries updates the entry count gauge of a cache.
func UpdateCacheEntries(cache string, count int) {
	CacheEntries.WithLabelValues(cache).Set(float64(count))
}
