// Package logger provides scheduled job logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// JobLogger provides dedicated logging for scheduled cache refresh jobs.
type JobLogger struct {
	*logrus.Entry
}

// NewJobLogger creates a new job logger.
func NewJobLogger(baseLogger *logrus.Logger) *JobLogger {
	return &JobLogger{
		Entry: baseLogger.WithField("component", "jobs"),
	}
}

// LogJobScheduled logs the registration of a job.
func (jl *JobLogger) LogJobScheduled(job, schedule string) {
	jl.WithFields(logrus.Fields{
		"job":      job,
		"schedule": schedule,
	}).Info("Job scheduled")
}

// LogJobCompleted logs a completed job run with the number of cache entries it cleared.
func (jl *JobLogger) LogJobCompleted(job string, cleared int, durationMs float64) {
	jl.WithFields(logrus.Fields{
		"job":         job,
		"cleared":     cleared,
		"duration_ms": durationMs,
	}).Info("Job completed")
}

// LogJobFailed logs a failed job run.
func (jl *JobLogger) LogJobFailed(job string, err error) {
	jl.WithFields(logrus.Fields{
		"job": job,
	}).WithError(err).Error("Job failed")
}
