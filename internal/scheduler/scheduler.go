// Package scheduler runs cron-triggered cache eviction jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/nonlining/tennis-crystal-ball/internal/cache"
	"github.com/nonlining/tennis-crystal-ball/internal/config"
	"github.com/nonlining/tennis-crystal-ball/internal/logger"
	"github.com/nonlining/tennis-crystal-ball/internal/metrics"
)

// Evictor removes cached entries
type Evictor interface {
	Evict(name, key string) bool
	EvictAll(name string) int
}

// Scheduler manages scheduled cache eviction jobs
type Scheduler struct {
	cron            *cron.Cron
	evictor         Evictor
	logger          *logger.JobLogger
	mu              sync.RWMutex
	isRunning       bool
	jobs            map[string]config.RefreshJobConfig
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(evictor Evictor, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		evictor:         evictor,
		logger:          logger.NewJobLogger(log),
		jobs:            make(map[string]config.RefreshJobConfig),
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleRefresh schedules a job evicting its global keys and clearing its caches
func (s *Scheduler) ScheduleRefresh(job config.RefreshJobConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("job %s is already scheduled", job.Name)
	}

	entryID, err := s.cron.AddFunc(job.Schedule, func() {
		s.run(job)
	})
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", job.Name, err)
	}

	s.jobs[job.Name] = job
	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.LogJobScheduled(job.Name, job.Schedule)

	return nil
}

// ScheduleAll schedules every configured refresh job
func (s *Scheduler) ScheduleAll(jobs []config.RefreshJobConfig) error {
	for _, job := range jobs {
		if err := s.ScheduleRefresh(job); err != nil {
			return err
		}
	}
	return nil
}

// RunNow runs a scheduled job immediately and returns the number of entries cleared
func (s *Scheduler) RunNow(name string) (int, error) {
	s.mu.RLock()
	job, ok := s.jobs[name]
	s.mu.RUnlock()

	if !ok {
		return 0, fmt.Errorf("job %s is not scheduled", name)
	}
	return s.run(job)
}

func (s *Scheduler) run(job config.RefreshJobConfig) (cleared int, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name, r)
			s.logger.LogJobFailed(job.Name, err)
			metrics.RecordJobRun(job.Name, "failure", time.Since(start).Seconds())
		}
	}()

	for _, key := range job.GlobalKeys {
		if s.evictor.Evict(cache.Global, key) {
			cleared++
		}
	}
	for _, name := range job.Caches {
		cleared += s.evictor.EvictAll(name)
	}

	elapsed := time.Since(start)
	s.logger.LogJobCompleted(job.Name, cleared, float64(elapsed.Microseconds())/1000)
	metrics.RecordJobRun(job.Name, "success", elapsed.Seconds())

	return cleared, nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Infof("Scheduler started with %d jobs", len(s.jobIDs))

	return nil
}

// Stop stops the scheduler, waiting for running jobs until the graceful timeout or ctx expires
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.gracefulTimeout)
	defer cancel()

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler did not stop in time: %w", ctx.Err())
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled job run
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (nextRun.IsZero() || entry.Next.Before(nextRun)) {
			nextRun = entry.Next
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
