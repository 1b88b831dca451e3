package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/analytics"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/index/segment"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/search/cache"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/server"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/store"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/pkg/config"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/pkg/health"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/pkg/kafka"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/pkg/logger"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/pkg/metrics"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/pkg/middleware"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/pkg/postgres"
	pkgredis "github.com/Karthik-S-Raman/Inverted-Index-Query-Service/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting query service", "port", cfg.Server.Port, "data_dir", cfg.Index.DataDir)

	idx, err := segment.LoadDir(cfg.Index.DataDir)
	if err != nil {
		slog.Error("failed to load index", "error", err)
		os.Exit(1)
	}

	metadata, err := openMetadataStore(cfg)
	if err != nil {
		slog.Error("failed to open metadata store", "backend", cfg.Metadata.Backend, "error", err)
		os.Exit(1)
	}
	defer metadata.Close()
	slog.Info("metadata store ready", "backend", cfg.Metadata.Backend)

	var queryCache *cache.QueryCache
	var redisClient *pkgredis.Client
	redisClient, err = pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, query caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		queryCache = cache.New(redisClient, cfg.Redis)
		slog.Info("query cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var collector *analytics.Collector
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.AnalyticsTopic)
		defer producer.Close()
		collector = analytics.NewCollector(producer, 100, 0)
		collector.Start(ctx)
		defer collector.Close()
		slog.Info("query analytics enabled", "topic", cfg.Kafka.AnalyticsTopic)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		m.IndexedDocs.Set(float64(idx.DocCount()))
		m.IndexedTerms.Set(float64(idx.TermCount()))
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := shutdownMetrics(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}()
	}

	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		if idx.DocCount() > 0 {
			return health.ComponentHealth{
				Status:  health.StatusUp,
				Message: fmt.Sprintf("%d docs, %d terms", idx.DocCount(), idx.TermCount()),
			}
		}
		return health.ComponentHealth{Status: health.StatusDown, Message: "index is empty"}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	h := server.New(idx, metadata, queryCache, collector, m, cfg.Search)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.RateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst)(chain)
	chain = middleware.RequestID(chain)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("query service listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("query service stopped")
}

func openMetadataStore(cfg *config.Config) (store.MetadataStore, error) {
	switch cfg.Metadata.Backend {
	case "postgres":
		client, err := postgres.New(cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return store.NewPostgresStore(client), nil
	case "badger":
		return store.OpenBadgerStore(cfg.Metadata.BadgerPath)
	default:
		return nil, fmt.Errorf("unknown metadata backend %q", cfg.Metadata.Backend)
	}
}
