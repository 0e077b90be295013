// Command ingest runs the event ingestion and analytics API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/redis/go-redis/v9"

	"github.com/pulsegraph-io/pulsegraph-stack/common/config"
	"github.com/pulsegraph-io/pulsegraph-stack/common/logging"
	"github.com/pulsegraph-io/pulsegraph-stack/ingest/internal/auth"
	"github.com/pulsegraph-io/pulsegraph-stack/ingest/internal/handlers"
	"github.com/pulsegraph-io/pulsegraph-stack/ingest/internal/ratelimit"
	"github.com/pulsegraph-io/pulsegraph-stack/ingest/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ingest: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	logging.SetDefault(log)
	log = log.With(logging.FieldService, "ingest")

	if err := runMigrations(cfg); err != nil {
		return err
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	defer rdb.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}

	var limiter ratelimit.Limiter = ratelimit.NoOpLimiter{}
	if cfg.Ingest.RateLimitEnabled {
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.Ingest.RateLimitRequests, cfg.Ingest.RateLimitWindow)
	}

	tokens := auth.NewManager(cfg.Ingest.JWTSecret, 24*time.Hour)
	events := handlers.NewEventsHandler(rdb, log, int64(cfg.Ingest.MaxEventSize), nil)
	analytics := handlers.NewAnalyticsHandler(rdb, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Ingest.Server.Port),
		Handler:      server.NewRouter(events, analytics, tokens, limiter),
		ReadTimeout:  cfg.Ingest.Server.ReadTimeout,
		WriteTimeout: cfg.Ingest.Server.WriteTimeout,
		IdleTimeout:  cfg.Ingest.Server.IdleTimeout,
	}

	go func() {
		log.InfoContext(ctx, "ingest API listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.ErrorContext(ctx, "server failed", logging.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.InfoContext(context.Background(), "shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}

// runMigrations brings the user store schema up to date. A missing database
// is fatal; an already-current schema is not.
func runMigrations(cfg *config.Config) error {
	m, err := migrate.New(cfg.Ingest.MigrationsPath, cfg.Postgres.ConnString())
	if err != nil {
		return fmt.Errorf("initializing migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
