package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/config"
	hhttp "github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http"
	hauth "github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/auth"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/handler/http/middleware"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/infra/adapter/persistence"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/infra/db"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/observability/logging"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/observability/tracing"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/summarize"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/summarize/inference"
	evalUC "github.com/FerdinandUkwayi/cals-legal-summarization/internal/usecase/evaluation"
	sumUC "github.com/FerdinandUkwayi/cals-legal-summarization/internal/usecase/summary"
	userUC "github.com/FerdinandUkwayi/cals-legal-summarization/internal/usecase/user"
)

// @title           CALS Legal Summarization API
// @version         1.0
// @description     Context-aware recursive summarization of legal documents.
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const (
	shutdownTimeout = 10 * time.Second
	cleanupInterval = 5 * time.Minute
	clientIdleAfter = 15 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if err := cfg.ValidateServer(); err != nil {
		slog.Error("invalid server configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := initLogger(cfg)
	if err := run(logger, cfg); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

// initLogger builds the process logger and installs it as the slog default.
func initLogger(cfg config.Config) *slog.Logger {
	logger := logging.NewLogger(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(logger)
	return logger
}

func run(logger *slog.Logger, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("failed to flush traces", slog.Any("error", err))
		}
	}()

	database, repos, err := initDatabase(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	models := inference.NewHolder(cfg.Inference.Provider, inference.NewLoader(cfg.Inference))
	defer func() {
		if err := models.Close(); err != nil {
			logger.Warn("failed to release model", slog.Any("error", err))
		}
	}()

	ips := middleware.NewIPExtractor(mustTrustedProxies(logger, cfg.TrustedProxies))
	summarizeLimiter := middleware.NewClientLimiter("summarize",
		cfg.SummarizeRateLimit, cfg.SummarizeBurst, middleware.ByUserOrIP(ips))
	authLimiter := middleware.NewClientLimiter("auth",
		cfg.AuthRateLimit, cfg.AuthBurst, middleware.ByIP(ips))

	handler := hhttp.NewRouter(hhttp.Deps{
		Logger: logger,
		DB:     database,
		Models: models,
		Issuer: hauth.NewIssuer([]byte(cfg.JWTSecret), cfg.JWTTTL, cfg.AdminUsernames),
		Accounts: &userUC.Service{
			Users:         repos.Users,
			Resets:        repos.Resets,
			ResetTTL:      cfg.PasswordResetTTL,
			WeakPasswords: cfg.WeakPasswords,
		},
		Notifier: hauth.LogNotifier{Logger: logger},
		Summaries: &sumUC.Service{
			Repo:       repos.Summaries,
			Models:     models,
			Controller: summarize.New(cfg.Summarize),
			Adapter:    cfg.Inference.Adapter,
			Recorder:   inference.NewPrometheusRecorder(),
			Config:     cfg.Summary,
		},
		Evaluations:      &evalUC.Service{Repo: repos.Evaluations, Summaries: repos.Summaries},
		SummarizeLimiter: summarizeLimiter,
		AuthLimiter:      authLimiter,
		MaxUploadBytes:   cfg.MaxUploadBytes,
		RequestTimeout:   cfg.RequestTimeout,
		Pagination:       cfg.Pagination,
		Version:          cfg.Tracing.Version,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	g, gctx := errgroup.WithContext(ctx)

	// The server starts before the model is ready; /ready reports 503 and
	// summarize requests fail fast until Load succeeds.
	g.Go(func() error {
		start := time.Now()
		if err := models.Load(gctx); err != nil {
			logger.Warn("model not loaded, use POST /admin/model/reload to retry",
				slog.String("backend", cfg.Inference.Provider),
				slog.Any("error", err))
			return nil
		}
		logger.Info("model loaded",
			slog.String("backend", cfg.Inference.Provider),
			slog.Duration("duration", time.Since(start)))
		return nil
	})
	g.Go(func() error {
		summarizeLimiter.RunCleanup(gctx, cleanupInterval, clientIdleAfter)
		return nil
	})
	g.Go(func() error {
		authLimiter.RunCleanup(gctx, cleanupInterval, clientIdleAfter)
		return nil
	})
	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("version", cfg.Tracing.Version),
			slog.String("database", db.Redact(cfg.DB.URL)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("server stopped")
	return err
}

// initDatabase opens the configured database, applies migrations and builds
// the repositories for its dialect.
func initDatabase(ctx context.Context, logger *slog.Logger, cfg config.Config) (*sql.DB, persistence.Repositories, error) {
	database, dialect, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return nil, persistence.Repositories{}, err
	}
	if err := db.MigrateUp(ctx, database, dialect, logger); err != nil {
		_ = database.Close()
		return nil, persistence.Repositories{}, err
	}
	repos, err := persistence.New(database, dialect)
	if err != nil {
		_ = database.Close()
		return nil, persistence.Repositories{}, err
	}
	return database, repos, nil
}

func mustTrustedProxies(logger *slog.Logger, entries []string) middleware.TrustedProxyConfig {
	proxies, err := middleware.ParseTrustedProxies(entries)
	if err != nil {
		logger.Error("invalid TRUSTED_PROXIES", slog.Any("error", err))
		os.Exit(1)
	}
	if len(proxies.AllowedCIDRs) > 0 {
		logger.Info("rate limiting: trusted proxy mode enabled",
			slog.Int("trusted_proxies_count", len(proxies.AllowedCIDRs)))
	}
	return proxies
}
