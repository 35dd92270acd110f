package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/config"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/infra/adapter/persistence"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/infra/db"
	workerPkg "github.com/FerdinandUkwayi/cals-legal-summarization/internal/infra/worker"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/observability/logging"
	userUC "github.com/FerdinandUkwayi/cals-legal-summarization/internal/usecase/user"
)

const jobTimeout = 5 * time.Minute

// waitForMigrations blocks until the api has created the schema.
func waitForMigrations(ctx context.Context, logger *slog.Logger, database *sql.DB) error {
	const probe = "SELECT 1 FROM password_resets LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := database.ExecContext(ctx, probe); err == nil {
			return nil
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}
	return errors.New("migrations did not complete in time")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.NewLogger(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(logger)

	if err := run(logger, cfg); err != nil {
		logger.Error("worker exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, dialect, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()
	if err := waitForMigrations(ctx, logger, database); err != nil {
		return err
	}
	repos, err := persistence.New(database, dialect)
	if err != nil {
		return err
	}

	users := &userUC.Service{Users: repos.Users, Resets: repos.Resets, ResetTTL: cfg.PasswordResetTTL}
	runner := &workerPkg.Runner{Logger: logger, Metrics: workerPkg.NewMetrics(prometheus.DefaultRegisterer)}
	purge := workerPkg.Job{Name: "purge_password_resets", Run: users.PurgeExpiredResets, Timeout: jobTimeout}

	scheduler, err := runner.Schedule(ctx, cfg.CronSchedule, cfg.CronTimezone, purge)
	if err != nil {
		return err
	}

	healthServer := workerPkg.NewHealthServer(cfg.WorkerAddr(), logger, database)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return healthServer.Start(gctx)
	})
	g.Go(func() error {
		// One pass at start-up so a restarted worker does not wait a full period.
		_ = runner.Execute(gctx, purge)
		scheduler.Start()
		healthServer.SetReady(true)
		logger.Info("worker started",
			slog.String("schedule", cfg.CronSchedule),
			slog.String("timezone", cfg.CronTimezone))

		<-gctx.Done()
		healthServer.SetReady(false)
		<-scheduler.Stop().Done()
		logger.Info("worker stopped")
		return nil
	})
	return g.Wait()
}
