// Package health provides liveness and readiness endpoints for the refresh process.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// DatabasePinger defines the interface for checking database connectivity.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// SchedulerState reports whether the refresh scheduler is running
type SchedulerState interface {
	IsRunning() bool
	NextRun() time.Time
}

// HealthResponse represents the JSON response of the liveness endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version,omitempty"`
}

// ReadyResponse represents the JSON response of the readiness endpoint.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks"`
	NextRun  string            `json:"next_run,omitempty"`
	Duration string            `json:"duration"`
}

// Checker serves /health and /ready
type Checker struct {
	serviceName string
	version     string
	db          DatabasePinger
	scheduler   SchedulerState
	pingTimeout time.Duration
	logger      *logrus.Entry
}

// NewChecker creates a checker. Either dependency may be nil and is then not checked.
func NewChecker(serviceName, version string, db DatabasePinger, scheduler SchedulerState, logger *logrus.Logger) *Checker {
	return &Checker{
		serviceName: serviceName,
		version:     version,
		db:          db,
		scheduler:   scheduler,
		pingTimeout: 3 * time.Second,
		logger:      logger.WithField("component", "health"),
	}
}

// Register mounts the endpoints on mux
func (c *Checker) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", c.handleHealth)
	mux.HandleFunc("/ready", c.handleReady)
}

func (c *Checker) handleHealth(w http.ResponseWriter, r *http.Request) {
	c.write(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   c.serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   c.version,
	})
}

// handleReady checks database connectivity and that refresh jobs are scheduled
func (c *Checker) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	response := ReadyResponse{Service: c.serviceName, Checks: make(map[string]string)}
	healthy := true

	if c.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), c.pingTimeout)
		defer cancel()

		if err := c.db.Ping(ctx); err != nil {
			healthy = false
			response.Checks["database"] = "error: " + err.Error()
			c.logger.WithError(err).Warn("Readiness database check failed")
		} else {
			response.Checks["database"] = "ok"
		}
	}

	if c.scheduler != nil {
		if c.scheduler.IsRunning() {
			response.Checks["scheduler"] = "ok"
			if next := c.scheduler.NextRun(); !next.IsZero() {
				response.NextRun = next.UTC().Format(time.RFC3339)
			}
		} else {
			healthy = false
			response.Checks["scheduler"] = "stopped"
		}
	}

	response.Duration = time.Since(start).String()
	status := http.StatusOK
	response.Status = "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		response.Status = "not_ready"
	}
	c.write(w, status, response)
}

func (c *Checker) write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		c.logger.WithError(err).Debug("Failed to write health response")
	}
}
