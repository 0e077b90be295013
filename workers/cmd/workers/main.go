// Command workers runs the event-processing pipeline: one consumer per
// enabled worker type, a shared persistence gateway, and a metrics endpoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/pulsegraph-io/pulsegraph-stack/common/config"
	"github.com/pulsegraph-io/pulsegraph-stack/common/logging"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/ai"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/blockchain"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/chat"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/dlq"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/identity"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/lead"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/market"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/persist"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/queue"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/internal/worker"
	"github.com/pulsegraph-io/pulsegraph-stack/workers/pkg/event"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "workers: %v\n", err)
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
	log = log.With(logging.FieldService, "workers")

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

	var mirror persist.GraphMirror
	if cfg.Neo4j.Enabled {
		driver, err := neo4j.NewDriverWithContext(cfg.Neo4j.URI,
			neo4j.BasicAuth(cfg.Neo4j.User, cfg.Neo4j.Password, ""))
		if err != nil {
			return fmt.Errorf("connecting to neo4j: %w", err)
		}
		graph := persist.NewGraph(driver)
		defer graph.Close(context.Background())
		mirror = graph
	}

	var ident identity.Store
	if cfg.Workers.IdentityEnabled {
		pool, err := pgxpool.New(ctx, cfg.Postgres.ConnString())
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		defer pool.Close()
		ident = identity.NewPostgresStore(pool)
	}

	var deadLetter queue.DeadLetterer
	if cfg.DLQ.Enabled {
		m, err := dlq.New(ctx, cfg.DLQ.NatsURL)
		if err != nil {
			return fmt.Errorf("connecting dead-letter mirror: %w", err)
		}
		defer m.Close()
		deadLetter = m
	}

	gateway := persist.NewGateway(persist.NewCache(rdb, cfg.Workers.ResultTTL), mirror, log)

	var provider market.Provider
	if cfg.Market.BaseURL != "" {
		provider = market.NewHTTPProvider(cfg.Market)
	} else {
		log.WarnContext(ctx, "no market data provider configured, using static fixtures")
		provider = market.NewStaticProvider()
	}

	processors := map[string]worker.Processor{
		event.TypeLeadScoring:      lead.NewProcessor(ai.NewClient(cfg.AI), cfg.AI.Model, log, nil),
		event.TypeBlockchainEvents: blockchain.NewProcessor(provider, log, nil),
		event.TypeChatAnalysis:     chat.NewProcessor(chat.DefaultLexicon(), nil),
	}

	var wg sync.WaitGroup
	for _, workerType := range cfg.Workers.Enabled {
		processor, ok := processors[workerType]
		if !ok {
			return fmt.Errorf("unknown worker type %q in workers.enabled", workerType)
		}

		consumer := queue.NewConsumer(rdb, workerType, log,
			queue.WithTimings(cfg.Workers.PollTimeout, cfg.Workers.ErrorBackoff),
			queue.WithDeadLetter(deadLetter))

		w := worker.New(consumer, processor, gateway, ident, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				log.ErrorContext(ctx, "worker stopped unexpectedly", logging.Error(err))
				stop()
			}
		}()
	}

	srv := metricsServer(cfg.Workers.Server)
	go func() {
		log.InfoContext(ctx, "metrics server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.ErrorContext(ctx, "metrics server failed", logging.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.InfoContext(context.Background(), "shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WarnContext(shutdownCtx, "metrics server shutdown failed", logging.Error(err))
	}

	wg.Wait()
	return nil
}

func metricsServer(cfg config.ServerConfig) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
