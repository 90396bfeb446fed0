// Package logger provides query tracing.
package logger

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// QueryLogger provides dedicated debug tracing of database queries.
type QueryLogger struct {
	*logrus.Entry
}

// NewQueryLogger creates a new query logger.
func NewQueryLogger(baseLogger *logrus.Logger) *QueryLogger {
	return &QueryLogger{
		Entry: baseLogger.WithField("component", "query"),
	}
}

// NewQueryID returns a fresh id correlating the trace entries of one query execution.
func NewQueryID() string {
	return uuid.NewString()
}

// LogQueryStarted logs the start of a query execution.
func (ql *QueryLogger) LogQueryStarted(queryID, query string, params int) {
	ql.WithFields(logrus.Fields{
		"query_id": queryID,
		"query":    query,
		"params":   params,
	}).Debug("Query started")
}

// LogQueryCompleted logs a completed query with the number of streamed rows.
func (ql *QueryLogger) LogQueryCompleted(queryID, query string, rows int, durationMs float64) {
	ql.WithFields(logrus.Fields{
		"query_id":    queryID,
		"query":       query,
		"rows":        rows,
		"duration_ms": durationMs,
	}).Debug("Query completed")
}

// LogQueryAborted logs a query whose row stream was stopped early by the consumer.
func (ql *QueryLogger) LogQueryAborted(queryID, query string, rows int, durationMs float64) {
	ql.WithFields(logrus.Fields{
		"query_id":    queryID,
		"query":       query,
		"rows":        rows,
		"duration_ms": durationMs,
	}).Debug("Query aborted by consumer")
}

// LogQueryFailed logs a failed query. The error is returned to the caller as well.
func (ql *QueryLogger) LogQueryFailed(queryID, query string, err error) {
	ql.WithFields(logrus.Fields{
		"query_id": queryID,
		"query":    query,
	}).WithError(err).Debug("Query failed")
}
