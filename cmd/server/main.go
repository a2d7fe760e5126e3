package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/garrettladley/snooze/internal/migrations/postgres"
	xredis "github.com/garrettladley/snooze/internal/redis"
	"github.com/garrettladley/snooze/internal/repository"
	"github.com/garrettladley/snooze/internal/server"
	"github.com/garrettladley/snooze/internal/service/dashboard"
	"github.com/garrettladley/snooze/internal/service/record"
	shareservice "github.com/garrettladley/snooze/internal/service/share"
	"github.com/garrettladley/snooze/internal/service/user"
	"github.com/garrettladley/snooze/internal/storage"
	"github.com/garrettladley/snooze/internal/xslog"
)

const (
	keyPort    = "port"
	keyBackend = "backend"

	backendCleanupInterval = 5 * time.Minute
	shutdownTimeout        = 30 * time.Second
)

func main() {
	_ = godotenv.Load()

	logger := xslog.NewLoggerFromEnv(os.Stdout, xslog.Config{Level: xslog.LevelInfo, Format: xslog.FormatJSON})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", xslog.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := server.ReadConfig()
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	defaults, err := cfg.Dashboard.Options()
	if err != nil {
		return fmt.Errorf("invalid dashboard timezone: %w", err)
	}

	pool, err := initPostgres(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize postgres: %w", err)
	}
	defer pool.Close()

	backend, err := initBackend(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.ErrorContext(ctx, "failed to close backend", xslog.Error(err))
		}
	}()

	repos := repository.NewPostgres(pool)
	dashboards := dashboard.New(dashboard.Config{
		Defaults: defaults,
		Cache:    backend,
		CacheTTL: cfg.Cache.DashboardTTL,
	})

	handler := server.NewHandler(server.Deps{
		Logger:      logger,
		RateLimiter: backend,
		Users:       user.NewCachedService(user.NewPostgresService(pool), backend, cfg.Cache.APIKeyTTL),
		Repos:       repos,
		Records:     record.New(dashboards),
		Dashboards:  dashboards,
		Shares:      shareservice.New(repos.Shares, backend, cfg.Cache.ShareTTL, cfg.BaseURL),
	})

	return serve(ctx, logger, &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}, cfg.Port)
}

// serve runs srv until ctx is cancelled, then drains in-flight requests for
// up to shutdownTimeout.
func serve(ctx context.Context, logger *slog.Logger, srv *http.Server, port string) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.InfoContext(ctx, "starting server", xslog.Version(), slog.String(keyPort, port))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.InfoContext(ctx, "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		logger.InfoContext(ctx, "server stopped")
		return nil
	})

	return g.Wait()
}

// initBackend uses Redis when configured and falls back to an in-process
// backend for single-instance deployments.
func initBackend(ctx context.Context, cfg server.Config, logger *slog.Logger) (storage.Backend, error) {
	if cfg.Redis.URL == "" {
		logger.InfoContext(ctx, "initializing storage backend", slog.String(keyBackend, "memory"))
		perSecond := cfg.RateLimit.Limit / cfg.RateLimit.Window.Seconds()
		return storage.NewMemoryBackend(perSecond, cfg.RateLimit.Burst, backendCleanupInterval), nil
	}

	logger.InfoContext(ctx, "initializing storage backend", slog.String(keyBackend, "redis"))
	client, err := xredis.New(ctx, xredis.Config{URL: cfg.Redis.URL, PoolSize: cfg.Redis.PoolSize, Timeout: cfg.Redis.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis client: %w", err)
	}
	return storage.NewRedisBackend(client, int(cfg.RateLimit.Limit), cfg.RateLimit.Window), nil
}

func initPostgres(ctx context.Context, cfg server.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Database.MaxConns
	}

	logger.InfoContext(ctx, "initializing PostgreSQL", slog.Int("max_conns", int(poolCfg.MaxConns)))
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := postgres.Apply(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return pool, nil
}
