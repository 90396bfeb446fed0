// Package metrics defines scheduled job metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Job counter vectors
var (
	JobRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tennis_stats",
		Name:      "job_runs_total",
		Help:      "Total number of scheduled job runs by job name and status",
	}, []string{"job", "status"})
)

// Job histogram vectors
var (
	JobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tennis_stats",
		Name:      "job_duration_seconds",
		Help:      "Duration of scheduled job runs in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})
)

// RecordJobRun records a scheduled job run.
// status should be one of: "success", "failure"
func RecordJobRun(job, status string, durationSeconds float64) {
	JobRunsTotal.WithLabelValues(job, status).Inc()
	JobDuration.WithLabelValues(job).Observe(durationSeconds)
}
