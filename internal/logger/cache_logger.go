// Package logger provides cache tracing.
package logger

import (
	"github.com/sirupsen/logrus"
)

// CacheLogger provides dedicated debug tracing of cache operations.
type CacheLogger struct {
	*logrus.Entry
}

// NewCacheLogger creates a new cache logger.
func NewCacheLogger(baseLogger *logrus.Logger) *CacheLogger {
	return &CacheLogger{
		Entry: baseLogger.WithField("component", "cache"),
	}
}

// LogCacheHit logs a cache hit.
func (cl *CacheLogger) LogCacheHit(cache, key string) {
	cl.WithFields(logrus.Fields{
		"cache": cache,
		"key":   key,
	}).Debug("Cache hit")
}

// LogCacheMiss logs a cache miss together with the time spent computing the value.
func (cl *CacheLogger) LogCacheMiss(cache, key string, shared bool, durationMs float64) {
	cl.WithFields(logrus.Fields{
		"cache":       cache,
		"key":         key,
		"shared":      shared,
		"duration_ms": durationMs,
	}).Debug("Cache miss")
}

// LogCacheEvicted logs a single key eviction.
func (cl *CacheLogger) LogCacheEvicted(cache, key string, found bool) {
	cl.WithFields(logrus.Fields{
		"cache": cache,
		"key":   key,
		"found": found,
	}).Debug("Cache entry evicted")
}

// LogCacheCleared logs the eviction of a whole cache.
func (cl *CacheLogger) LogCacheCleared(cache string, count int) {
	cl.WithFields(logrus.Fields{
		"cache":   cache,
		"cleared": count,
	}).Debug("Cache cleared")
}
