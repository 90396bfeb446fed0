package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonlining/tennis-crystal-ball/internal/cache"
	"github.com/nonlining/tennis-crystal-ball/internal/config"
	"github.com/nonlining/tennis-crystal-ball/internal/logger"
	"github.com/nonlining/tennis-crystal-ball/internal/metrics"
)

var inProgressJob = config.RefreshJobConfig{
	Name:       "in_progress_events",
	Schedule:   "0 */2 * * *",
	GlobalKeys: []string{"InProgressEvents"},
	Caches:     []string{"InProgressEventForecast"},
}

func populate(t *testing.T, c *cache.Cache, name, key string) {
	t.Helper()
	_, err := cache.GetOrCompute(c, name, key, func() (int, error) { return 1, nil })
	require.NoError(t, err)
}

func TestRunNowEvictsKeysAndCaches(t *testing.T) {
	c := cache.New(time.Hour, time.Hour, nil, logger.Discard())
	populate(t, c, cache.Global, "InProgressEvents")
	populate(t, c, cache.Global, "Tournaments")
	populate(t, c, "InProgressEventForecast", cache.Key(1))
	populate(t, c, "InProgressEventForecast", cache.Key(2))

	s := NewScheduler(c, logger.Discard())
	require.NoError(t, s.ScheduleRefresh(inProgressJob))

	before := testutil.ToFloat64(metrics.JobRunsTotal.WithLabelValues(inProgressJob.Name, "success"))

	cleared, err := s.RunNow(inProgressJob.Name)
	require.NoError(t, err)
	assert.Equal(t, 3, cleared)
	assert.Equal(t, 1, c.Len(cache.Global))
	assert.Zero(t, c.Len("InProgressEventForecast"))

	cleared, err = s.RunNow(inProgressJob.Name)
	require.NoError(t, err)
	assert.Zero(t, cleared)

	after := testutil.ToFloat64(metrics.JobRunsTotal.WithLabelValues(inProgressJob.Name, "success"))
	assert.Equal(t, before+2, after)
}

func TestRunNowUnknownJob(t *testing.T) {
	s := NewScheduler(cache.New(time.Hour, time.Hour, nil, logger.Discard()), logger.Discard())

	_, err := s.RunNow("missing")
	assert.Error(t, err)
}

type panickingEvictor struct{}

func (panickingEvictor) Evict(string, string) bool { panic("store unavailable") }
func (panickingEvictor) EvictAll(string) int      { panic("store unavailable") }

func TestRunNowRecoversFailedJob(t *testing.T) {
	s := NewScheduler(panickingEvictor{}, logger.Discard())
	job := config.RefreshJobConfig{Name: "broken", Schedule: "@daily", GlobalKeys: []string{"Tournaments"}}
	require.NoError(t, s.ScheduleRefresh(job))

	before := testutil.ToFloat64(metrics.JobRunsTotal.WithLabelValues("broken", "failure"))

	_, err := s.RunNow("broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store unavailable")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.JobRunsTotal.WithLabelValues("broken", "failure")))
}

func TestScheduleRefreshValidation(t *testing.T) {
	s := NewScheduler(cache.New(time.Hour, time.Hour, nil, logger.Discard()), logger.Discard())

	assert.Error(t, s.ScheduleRefresh(config.RefreshJobConfig{Name: "bad", Schedule: "every now and then"}))
	require.NoError(t, s.ScheduleRefresh(inProgressJob))
	assert.Error(t, s.ScheduleRefresh(inProgressJob))
	assert.Len(t, s.Entries(), 1)
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(cache.New(time.Hour, time.Hour, nil, logger.Discard()), logger.Discard())
	assert.Error(t, s.Start(), "no jobs scheduled")

	require.NoError(t, s.ScheduleAll([]config.RefreshJobConfig{
		inProgressJob,
		{Name: "tournament_tables", Schedule: "@daily", Caches: []string{"Tournaments.Table"}},
	}))
	assert.Zero(t, s.NextRun())

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.False(t, s.NextRun().IsZero())
	assert.Error(t, s.ScheduleRefresh(config.RefreshJobConfig{Name: "late", Schedule: "@hourly"}))

	require.NoError(t, s.Stop(context.Background()))
	assert.False(t, s.IsRunning())
	assert.NoError(t, s.Stop(context.Background()))
}
