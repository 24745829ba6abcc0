// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/catalog-be/internal/adapters/docstore"
	"github.com/ammerola/catalog-be/internal/adapters/queue"
	redis_a "github.com/ammerola/catalog-be/internal/adapters/redis_adapter"
	"github.com/ammerola/catalog-be/internal/core/ports"
	"github.com/ammerola/catalog-be/internal/core/services"
	"github.com/ammerola/catalog-be/internal/handlers"
	"github.com/ammerola/catalog-be/internal/handlers/middleware"
	"github.com/ammerola/catalog-be/internal/pkg/config"
	"github.com/ammerola/catalog-be/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting catalog api",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	server := setupHTTPServer(ctx, cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
			slog.Bool("tls", cfg.Server.TLSEnabled),
		)

		if cfg.Server.TLSEnabled {
			serverErrors <- server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	store       *docstore.Store
	redisClient *redis.Client
	enqueuer    *queue.Enqueuer
	routes      *handlers.Routes
}

func (d *dependencies) cleanup() {
	if d.enqueuer != nil {
		d.enqueuer.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.store.Close(ctx); err != nil {
			slog.Error("failed to close document store", slog.String("error", err.Error()))
		}
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	store, err := docstore.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open document store: %w", err)
	}
	deps.store = store

	docs := services.NewDocumentService(store, cfg.Store.Collections, logger)

	// Cache and queue are optional; handlers take untyped nils when disabled.
	var (
		cache       ports.CacheRepository
		cachePinger handlers.Pinger
		enqueuer    ports.TaskEnqueuer
		queuePinger handlers.Pinger
		tracker     *services.ReportTracker
	)

	if cfg.Redis.Enabled {
		logger.Info("connecting to Redis", slog.String("address", cfg.GetRedisAddress()))

		client, err := redis_a.NewClient(ctx, redis_a.Options{
			Addr:            cfg.GetRedisAddress(),
			Password:        cfg.Redis.Password,
			DB:              cfg.Redis.DB,
			MaxRetries:      cfg.Redis.MaxRetries,
			MinRetryBackoff: cfg.Redis.MinRetryBackoff,
			MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
			DialTimeout:     cfg.Redis.DialTimeout,
			ReadTimeout:     cfg.Redis.ReadTimeout,
			WriteTimeout:    cfg.Redis.WriteTimeout,
			PoolSize:        cfg.Redis.PoolSize,
			MinIdleConns:    cfg.Redis.MinIdleConns,
			PoolTimeout:     cfg.Redis.PoolTimeout,
		})
		if err != nil {
			deps.cleanup()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		deps.redisClient = client

		redisCache := redis_a.NewCache(client, cfg.Redis.TTL, logger)
		cache = redisCache
		cachePinger = redisCache
		tracker = services.NewReportTracker(redisCache, cfg.Reports.StatusTTL)
	}

	if cfg.Asynq.Enabled && tracker != nil {
		logger.Info("initializing Asynq client", slog.String("address", cfg.Asynq.RedisAddr))

		deps.enqueuer = queue.NewEnqueuer(asynq.RedisClientOpt{
			Addr:     cfg.Asynq.RedisAddr,
			Password: cfg.Asynq.RedisPassword,
			DB:       cfg.Asynq.RedisDB,
		}, queue.Options{
			Queue:     queue.QueueDefault,
			MaxRetry:  cfg.Asynq.RetryMax,
			Timeout:   cfg.Reports.Timeout,
			Retention: cfg.Reports.StatusTTL,
		}, logger)
		enqueuer = deps.enqueuer
		queuePinger = deps.enqueuer
	} else if cfg.Asynq.Enabled {
		logger.Warn("report exports disabled: job tracking requires Redis")
	}

	catalog := services.NewCatalogService(docs, cache, cfg.Store.CacheTTL, logger)
	docs.Subscribe(catalog)

	ledger := services.NewInventoryLedger(docs, logger)
	sales := services.NewSalesRecorder(docs, ledger, logger)
	reports := services.NewReportService(docs, tracker, enqueuer, logger)

	maxBody := cfg.Store.MaxBodyBytes
	deps.routes = &handlers.Routes{
		Health:      handlers.NewHealthHandler(docs, cachePinger, queuePinger, cfg.App.Version, cfg.App.Environment, logger),
		Collections: handlers.NewCollectionsHandler(docs, maxBody, logger),
		Sales:       handlers.NewSalesHandler(sales, reports, maxBody, logger),
		Inventory:   handlers.NewInventoryHandler(ledger, maxBody, logger),
		Catalog:     handlers.NewCatalogHandler(catalog, maxBody, logger),
		Reports:     handlers.NewReportsHandler(reports, maxBody, logger),
	}

	logger.Info("all dependencies initialized successfully",
		slog.Bool("cache", cache != nil),
		slog.Bool("exports", enqueuer != nil),
	)
	return deps, nil
}

func setupHTTPServer(ctx context.Context, cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	deps.routes.Register(mux)

	// First listed runs outermost
	mws := []func(http.Handler) http.Handler{
		middleware.Recovery(logger),
		middleware.RequestID(cfg.Security.RequestIDHeader),
		middleware.Logger(logger),
	}
	if cfg.Security.RateLimitRequests > 0 {
		mws = append(mws, middleware.RateLimit(ctx, cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration))
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		mws = append(mws, middleware.CORS(cfg.Security.AllowedOrigins))
	}
	if cfg.Security.SecureHeaders {
		mws = append(mws, middleware.SecureHeaders)
	}
	mws = append(mws, middleware.Compression)
	if cfg.Server.WriteTimeout > 0 {
		mws = append(mws, middleware.Timeout(cfg.Server.WriteTimeout))
	}

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        middleware.Chain(mux, mws...),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}
