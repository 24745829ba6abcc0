// cmd/worker/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/catalog-be/internal/adapters/docstore"
	"github.com/ammerola/catalog-be/internal/adapters/queue"
	redis_a "github.com/ammerola/catalog-be/internal/adapters/redis_adapter"
	"github.com/ammerola/catalog-be/internal/adapters/storage"
	"github.com/ammerola/catalog-be/internal/core/ports"
	"github.com/ammerola/catalog-be/internal/core/services"
	"github.com/ammerola/catalog-be/internal/pkg/config"
	"github.com/ammerola/catalog-be/internal/pkg/logger"
	"github.com/ammerola/catalog-be/internal/workers"
)

func main() {
	slogger := logger.SetupLogger("info", "json")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("starting worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("redis_addr", cfg.Asynq.RedisAddr))

	ctx := context.Background()

	store, err := docstore.Open(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to open document store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			slogger.Error("failed to close document store", slog.String("error", err.Error()))
		}
	}()

	redisClient, err := redis_a.NewClient(ctx, redis_a.Options{
		Addr:         cfg.GetRedisAddress(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
	})
	if err != nil {
		slogger.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()

	objects, err := initStorage(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize report storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	docs := services.NewDocumentService(store, cfg.Store.Collections, slogger)
	tracker := services.NewReportTracker(redis_a.NewCache(redisClient, cfg.Redis.TTL, slogger), cfg.Reports.StatusTTL)
	reports := services.NewReportService(docs, tracker, nil, slogger)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency:         cfg.Asynq.Concurrency,
		Queues:              cfg.Asynq.Queues,
		StrictPriority:      cfg.Asynq.StrictPriority,
		ErrorHandler:        asynq.ErrorHandlerFunc(handleError(slogger)),
		RetryDelayFunc:      exponentialBackoff,
		ShutdownTimeout:     cfg.Asynq.ShutdownTimeout,
		HealthCheckFunc:     healthCheck(slogger),
		HealthCheckInterval: cfg.Asynq.HealthCheckInterval,
		Logger:              queue.NewLogger(slogger),
	})

	mux := asynq.NewServeMux()

	reportProcessor := workers.NewSalesReportProcessor(reports, objects, tracker, workers.ReportOptions{
		Prefix:    cfg.Reports.Prefix,
		URLExpiry: cfg.Reports.URLExpiry,
	}, slogger)
	mux.HandleFunc(queue.TypeSalesReport, reportProcessor.ProcessTask)

	cleanupProcessor := workers.NewCleanupProcessor(objects, cfg.Reports.Prefix, cfg.Reports.Retention, slogger)
	mux.HandleFunc(queue.TypeReportCleanup, cleanupProcessor.CleanupReports)

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Logger: queue.NewLogger(slogger),
	})
	if cfg.Reports.CleanupSchedule != "" {
		entryID, err := scheduler.Register(cfg.Reports.CleanupSchedule, queue.NewReportCleanupTask(),
			asynq.Queue(queue.QueueLow), asynq.MaxRetry(1))
		if err != nil {
			slogger.Error("failed to schedule report cleanup", slog.String("error", err.Error()))
			os.Exit(1)
		}
		slogger.Info("report cleanup scheduled",
			slog.String("entry_id", entryID),
			slog.String("cron", cfg.Reports.CleanupSchedule))
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	if err := scheduler.Start(); err != nil {
		slogger.Error("failed to start scheduler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	go func() {
		if err := srv.Run(mux); err != nil {
			slogger.Error("failed to run worker server", slog.String("error", err.Error()))
			shutdown <- syscall.SIGTERM
		}
	}()

	slogger.Info("worker started successfully",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues),
		slog.String("report_storage", cfg.Reports.Storage))

	sig := <-shutdown
	slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

	scheduler.Shutdown()
	srv.Shutdown()
	slogger.Info("worker shutdown complete")
}

func initStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.ObjectStorage, error) {
	switch cfg.Reports.Storage {
	case "s3":
		return storage.NewS3Storage(ctx, &storage.S3Config{
			Region:          cfg.AWS.Region,
			Bucket:          cfg.AWS.S3Bucket,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Endpoint:        cfg.AWS.S3Endpoint,
			UsePathStyle:    cfg.AWS.UsePathStyle,
		}, logger)
	case "local":
		return storage.NewLocalStorage(cfg.Reports.LocalDir, logger)
	}
	return nil, fmt.Errorf("unknown report storage %q", cfg.Reports.Storage)
}

func handleError(logger *slog.Logger) func(ctx context.Context, task *asynq.Task, err error) {
	return func(ctx context.Context, task *asynq.Task, err error) {
		level := slog.LevelError
		if errors.Is(err, asynq.SkipRetry) {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "task processing failed",
			slog.String("type", task.Type()),
			slog.String("payload", string(task.Payload())),
			slog.String("error", err.Error()))
	}
}

func exponentialBackoff(n int, e error, t *asynq.Task) time.Duration {
	baseDelay := time.Second
	maxDelay := 10 * time.Minute
	delay := baseDelay * time.Duration(1<<uint(n))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

func healthCheck(logger *slog.Logger) func(error) {
	return func(err error) {
		if err != nil {
			logger.Error("worker health check failed", slog.String("error", err.Error()))
		}
	}
}
