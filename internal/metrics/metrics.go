// Package metrics provides centralized Prometheus metrics registry for the statistics engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Query counter vectors
var (
	QueriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tennis_stats",
		Name:      "queries_total",
		Help:      "Total number of executed queries by query name and status",
	}, []string{"query", "status"})
	RowsStreamedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tennis_stats",
		Name:      "rows_streamed_total",
		Help:      "Total number of rows streamed from the database by query name",
	}, []string{"query"})
	MalformedAggregatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tennis_stats",
		Name:      "malformed_aggregates_total",
		Help:      "Total number of nested sub-documents that failed to decode by field",
	}, []string{"field"})
)

// Query histogram vectors
var (
	QueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tennis_stats",
		Name:      "query_duration_seconds",
		Help:      "Duration of query execution including row streaming in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"query"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register query metrics
		registry.MustRegister(QueriesTotal)
		registry.MustRegister(RowsStreamedTotal)
		registry.MustRegister(MalformedAggregatesTotal)
		registry.MustRegister(QueryDuration)

		// Register cache metrics
		registry.MustRegister(CacheHitsTotal)
		registry.MustRegister(CacheMissesTotal)
		registry.MustRegister(CacheEvictionsTotal)
		registry.MustRegister(CacheEntries)

		// Register job metrics
		registry.MustRegister(JobRunsTotal)
		registry.MustRegister(JobDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordQuery records a completed query with its duration and streamed row count.
// status should be one of: "success", "failure", "aborted"
func RecordQuery(query, status string, durationSeconds float64, rows int) {
	QueriesTotal.WithLabelValues(query, status).Inc()
	QueryDuration.WithLabelValues(query).Observe(durationSeconds)
	if rows > 0 {
		RowsStreamedTotal.WithLabelValues(query).Add(float64(rows))
	}
}

// RecordMalformedAggregate records a nested sub-document decode failure.
func RecordMalformedAggregate(field string) {
	MalformedAggregatesTotal.WithLabelValues(field).Inc()
}
