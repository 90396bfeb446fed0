package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nonlining/tennis-crystal-ball/internal/health"
	"github.com/nonlining/tennis-crystal-ball/internal/metrics"
	"github.com/nonlining/tennis-crystal-ball/internal/scheduler"
)

var runNow string

func init() {
	refreshCmd.Flags().StringVar(&runNow, "run-now", "", "Run the named refresh job once and exit")
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Run the scheduled cache refresh jobs",
	Long:  `Schedules the configured cache eviction jobs and serves Prometheus metrics until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := scheduler.NewScheduler(statsCache, appLogger)
		if err := s.ScheduleAll(cfg.Jobs.Refresh); err != nil {
			return err
		}

		if runNow != "" {
			cleared, err := s.RunNow(runNow)
			if err != nil {
				return err
			}
			appLogger.WithFields(logrus.Fields{"job": runNow, "cleared": cleared}).Info("Refresh job run")
			return nil
		}

		if !cfg.Jobs.Enabled {
			return errors.New("refresh jobs are disabled")
		}
		return serve(cmd.Context(), s)
	},
}

func serve(ctx context.Context, s *scheduler.Scheduler) error {
	var server *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		health.NewChecker(cfg.App.Name, Version, db, s, appLogger).Register(mux)
		server = &http.Server{
			Addr:              ":" + strconv.Itoa(cfg.Metrics.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.WithError(err).Error("Metrics server failed")
			}
		}()
		appLogger.WithFields(logrus.Fields{"port": cfg.Metrics.Port, "path": cfg.Metrics.Path}).Info("Metrics and health server started")
	}

	if err := s.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	appLogger.WithField("next_run", s.NextRun()).Info("Refresh scheduler started")

	// Wait for shutdown signal
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	appLogger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.Stop(shutdownCtx); err != nil {
		appLogger.WithError(err).Warn("Scheduler did not stop cleanly")
	}
	if server != nil {
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop metrics server: %w", err)
		}
	}
	return nil
}
