package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name          string
		level         string
		environment   string
		expectedLevel logrus.Level
		json          bool
	}{
		{name: "production debug", level: "debug", environment: "production", expectedLevel: logrus.DebugLevel, json: true},
		{name: "development warn", level: "warn", environment: "development", expectedLevel: logrus.WarnLevel},
		{name: "invalid level", level: "loud", environment: "staging", expectedLevel: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			log := NewLoggerWithOutput(buf, tt.level, tt.environment)

			assert.Equal(t, tt.expectedLevel, log.GetLevel())
			_, isJSON := log.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.json, isJSON)
		})
	}
}

func TestQueryLoggerCompleted(t *testing.T) {
	log, buf := setupTestLogger()
	queryLogger := NewQueryLogger(log)
	queryID := NewQueryID()

	queryLogger.LogQueryCompleted(queryID, "tournament_events", 25, 12.5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "query", logEntry["component"])
	assert.Equal(t, queryID, logEntry["query_id"])
	assert.Equal(t, float64(25), logEntry["rows"])
	assert.Equal(t, "debug", logEntry["level"])
}

func TestQueryLoggerFailed(t *testing.T) {
	log, buf := setupTestLogger()
	queryLogger := NewQueryLogger(log)

	queryLogger.LogQueryFailed("q1", "tournament", errors.New("connection reset"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "connection reset", logEntry["error"])
}

func TestNewQueryIDIsUUID(t *testing.T) {
	first, second := NewQueryID(), NewQueryID()

	_, err := uuid.Parse(first)
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestQueryLoggerSilentAboveDebug(t *testing.T) {
	log, buf := setupTestLogger()
	log.SetLevel(logrus.InfoLevel)

	NewQueryLogger(log).LogQueryStarted("q1", "tournaments", 2)
	NewCacheLogger(log).LogCacheHit("Global", `["Tournaments"]`)

	assert.Zero(t, buf.Len())
}

func TestCacheLoggerCleared(t *testing.T) {
	log, buf := setupTestLogger()
	cacheLogger := NewCacheLogger(log)

	cacheLogger.LogCacheCleared("TournamentEvents.Table", 7)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "cache", logEntry["component"])
	assert.Equal(t, "TournamentEvents.Table", logEntry["cache"])
	assert.Equal(t, float64(7), logEntry["cleared"])
}

func TestJobLoggerCompleted(t *testing.T) {
	log, buf := setupTestLogger()
	jobLogger := NewJobLogger(log)

	jobLogger.LogJobCompleted("in_progress_events", 3, 1.2)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "jobs", logEntry["component"])
	assert.Equal(t, "in_progress_events", logEntry["job"])
	assert.Equal(t, "info", logEntry["level"])
}

func TestJobLoggerFailed(t *testing.T) {
	log, buf := setupTestLogger()

	NewJobLogger(log).LogJobFailed("in_progress_events", errors.New("boom"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "error", logEntry["level"])
	assert.Equal(t, "boom", logEntry["error"])
}

func BenchmarkQueryLoggerCompleted(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	log.SetLevel(logrus.DebugLevel)
	queryLogger := NewQueryLogger(log)

	for i := 0; i < b.N; i++ {
		queryLogger.LogQueryCompleted("q1", "tournament_events", 25, 12.5)
	}
}
