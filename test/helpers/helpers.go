package helpers

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nonlining/tennis-crystal-ball/internal/cache"
	"github.com/nonlining/tennis-crystal-ball/internal/config"
	"github.com/nonlining/tennis-crystal-ball/internal/database"
	"github.com/nonlining/tennis-crystal-ball/internal/logger"
	"github.com/nonlining/tennis-crystal-ball/internal/records"
	"github.com/nonlining/tennis-crystal-ball/internal/service"
)

// Services bundles the services under test together with their shared cache
type Services struct {
	Config      *config.Config
	Cache       *cache.Cache
	Tournaments *service.TournamentService
	Records     *service.RecordsService
}

// SetupTestDB connects to the statistics database named by TENNIS_STATS_DATABASE_* variables.
// The test is skipped unless TENNIS_STATS_DATABASE_HOST is set.
func SetupTestDB(t *testing.T) (*database.DB, *config.Config) {
	t.Helper()

	if os.Getenv("TENNIS_STATS_DATABASE_HOST") == "" {
		t.Skip("TENNIS_STATS_DATABASE_HOST not set")
	}

	cfg, err := config.LoadWithDefaults(os.Getenv("TEST_CONFIG"))
	require.NoError(t, err, "failed to load test configuration")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Initialize(ctx, &cfg.Database)
	require.NoError(t, err, "failed to connect to test database")

	t.Cleanup(db.Close)
	return db, cfg
}

// NewServices wires the services over an executor with a fresh cache
func NewServices(executor database.Executor, cfg *config.Config) *Services {
	log := logger.Discard()
	c := cache.New(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval, cfg.CacheExpirations(), log)
	return &Services{
		Config: cfg,
		Cache:  c,
		Tournaments: service.NewTournamentService(executor, c, service.TournamentServiceConfig{
			Ordering:                   cfg.CategoryOrdering(),
			Paging:                     cfg,
			TournamentRecordMaxPlayers: cfg.Stats.TournamentRecordMaxPlayers,
			SeasonHighlightsMaxResults: cfg.Stats.SeasonHighlightsMaxResults,
		}, log),
		Records: service.NewRecordsService(executor, c, records.NewRegistry(), cfg, log),
	}
}
