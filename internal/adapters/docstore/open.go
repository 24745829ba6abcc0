// internal/adapters/docstore/open.go
package docstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ammerola/catalog-be/internal/adapters/db"
	"github.com/ammerola/catalog-be/internal/adapters/memory"
	"github.com/ammerola/catalog-be/internal/adapters/mongodb"
	"github.com/ammerola/catalog-be/internal/adapters/restclient"
	"github.com/ammerola/catalog-be/internal/core/ports"
	"github.com/ammerola/catalog-be/internal/pkg/config"
)

var _ ports.DocumentStore = (*Store)(nil)

// Store is a document store together with the pool that backs it, if any
type Store struct {
	ports.DocumentStore
	release func()
}

// Close closes the driver, then releases its connection pool
func (s *Store) Close(ctx context.Context) error {
	err := s.DocumentStore.Close(ctx)
	if s.release != nil {
		s.release()
	}
	return err
}

// Open builds the document store selected by cfg.Store.Driver
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	logger.Info("opening document store", slog.String("driver", cfg.Store.Driver))

	switch cfg.Store.Driver {
	case config.DriverMongo:
		store, err := mongodb.Connect(ctx, &mongodb.Config{
			URI:              cfg.Mongo.URI,
			Database:         cfg.Mongo.Database,
			ConnectTimeout:   cfg.Mongo.ConnectTimeout,
			OperationTimeout: cfg.Mongo.OperationTimeout,
			MaxPoolSize:      cfg.Mongo.MaxPoolSize,
			MaxDocumentBytes: cfg.Store.MaxDocumentBytes,
		}, logger)
		if err != nil {
			return nil, err
		}
		return &Store{DocumentStore: store}, nil

	case config.DriverPostgres:
		if cfg.Postgres.RunMigrations {
			if err := runMigrations(ctx, cfg, logger); err != nil {
				return nil, err
			}
		}
		database, err := db.NewDatabase(ctx, &db.Config{
			Host:               cfg.Postgres.Host,
			Port:               cfg.Postgres.Port,
			User:               cfg.Postgres.User,
			Password:           cfg.Postgres.Password,
			Database:           cfg.Postgres.Name,
			SSLMode:            cfg.Postgres.SSLMode,
			MaxConnections:     cfg.Postgres.MaxConnections,
			MinConnections:     cfg.Postgres.MinConnections,
			MaxConnLifetime:    cfg.Postgres.MaxConnLifetime,
			MaxConnIdleTime:    cfg.Postgres.MaxConnIdleTime,
			HealthCheckPeriod:  cfg.Postgres.HealthCheckPeriod,
			ConnectTimeout:     cfg.Postgres.ConnectTimeout,
			EnableQueryLogging: cfg.Postgres.EnableQueryLogging,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		store := db.NewDocumentStore(database.SQL(), logger,
			db.WithMaxDocumentBytes(cfg.Store.MaxDocumentBytes))
		return &Store{DocumentStore: store, release: database.Close}, nil

	case config.DriverMemory:
		return &Store{DocumentStore: memory.NewStore(logger,
			memory.WithMaxDocumentBytes(cfg.Store.MaxDocumentBytes))}, nil

	case config.DriverHTTP:
		store, err := restclient.NewDocumentStore(restclient.Config{
			BaseURL:    cfg.Remote.BaseURL,
			Timeout:    cfg.Remote.Timeout,
			MaxRetries: 3,
		}, nil, logger)
		if err != nil {
			return nil, err
		}
		return &Store{DocumentStore: store}, nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("running database migrations")

	return db.MigrateDocuments(ctx, db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		MaxAttempts: 3,
	}, logger)
}
