// Package main provides the tennis-stats command line entry point.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nonlining/tennis-crystal-ball/internal/cache"
	"github.com/nonlining/tennis-crystal-ball/internal/config"
	"github.com/nonlining/tennis-crystal-ball/internal/database"
	"github.com/nonlining/tennis-crystal-ball/internal/logger"
	"github.com/nonlining/tennis-crystal-ball/internal/records"
	"github.com/nonlining/tennis-crystal-ball/internal/service"
	"github.com/nonlining/tennis-crystal-ball/internal/table"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	appLogger  *logrus.Logger
	db         *database.DB
	statsCache *cache.Cache

	tournaments *service.TournamentService
	recordsSvc  *service.RecordsService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:     "tennis-stats",
	Short:   "Query tennis tournament statistics and records",
	Long:    `Aggregates tournaments, tournament events and player records from the tennis statistics database.`,
	Version: fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(tournamentsCmd, eventsCmd, tournamentCmd, recordsCmd, recordCmd, refreshCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(ctx context.Context) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLogger = logger.NewLoggerWithOutput(os.Stderr, cfg.App.LogLevel, cfg.App.Environment)

	var err error
	db, err = database.Initialize(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	statsCache = cache.New(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval, cfg.CacheExpirations(), appLogger)
	executor := db.Executor(appLogger, cfg.Database.QueryTimeout)

	tournaments = service.NewTournamentService(executor, statsCache, service.TournamentServiceConfig{
		Ordering:                   cfg.CategoryOrdering(),
		Paging:                     cfg,
		TournamentRecordMaxPlayers: cfg.Stats.TournamentRecordMaxPlayers,
		SeasonHighlightsMaxResults: cfg.Stats.SeasonHighlightsMaxResults,
	}, appLogger)
	recordsSvc = service.NewRecordsService(executor, statsCache, records.NewRegistry(), cfg, appLogger)

	appLogger.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
	}).Debug("Dependencies initialized")
	return nil
}

// pageOutput is the printed form of a paged table
type pageOutput[R any] struct {
	Page     int `json:"page"`
	RowCount int `json:"row_count"`
	Total    int `json:"total"`
	Rows     []R `json:"rows"`
}

func newPageOutput[R any](t *table.PagedTable[R]) pageOutput[R] {
	return pageOutput[R]{Page: t.Current(), RowCount: t.RowCount(), Total: t.Total(), Rows: t.Rows()}
}

// recordRowOutput is the printed form of a record row with its rendered detail and link
type recordRowOutput struct {
	Rank      int    `json:"rank"`
	PlayerID  int    `json:"player_id"`
	Name      string `json:"name"`
	CountryID string `json:"country_id"`
	Active    bool   `json:"active"`
	Value     string `json:"value"`
	Link      string `json:"link,omitempty"`
}

func recordRows(rows []records.DetailRow) []recordRowOutput {
	out := make([]recordRowOutput, 0, len(rows))
	for _, r := range rows {
		out = append(out, recordRowOutput{
			Rank:      r.Rank,
			PlayerID:  r.PlayerID,
			Name:      r.Name,
			CountryID: r.CountryID,
			Active:    r.Active,
			Value:     r.Value(),
			Link:      r.Link(),
		})
	}
	return out
}

func printJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
