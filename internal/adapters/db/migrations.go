// internal/adapters/db/migrations.go
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationConfig describes where the documents schema is applied
type MigrationConfig struct {
	DatabaseURL      string
	TableName        string
	ForceDirty       bool
	StatementTimeout time.Duration
	// MaxAttempts bounds connection retries while the database starts.
	MaxAttempts uint64
}

func (c *MigrationConfig) withDefaults() {
	if c.TableName == "" {
		c.TableName = "schema_migrations"
	}
	if c.StatementTimeout == 0 {
		c.StatementTimeout = 2 * time.Minute
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 5
	}
}

type schemaMigrator struct {
	m      *migrate.Migrate
	conn   *sql.DB
	cfg    MigrationConfig
	logger *slog.Logger
}

func openSchemaMigrator(ctx context.Context, cfg MigrationConfig, logger *slog.Logger) (*schemaMigrator, error) {
	conn, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	driver, err := postgres.WithInstance(conn, &postgres.Config{
		MigrationsTable:  cfg.TableName,
		StatementTimeout: cfg.StatementTimeout,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}

	return &schemaMigrator{m: m, conn: conn, cfg: cfg, logger: logger}, nil
}

// apply brings the documents schema to the latest version and returns it
func (s *schemaMigrator) apply(ctx context.Context) (uint, error) {
	version, dirty, err := s.m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}

	if dirty {
		if !s.cfg.ForceDirty {
			return version, fmt.Errorf("documents schema is dirty at version %d", version)
		}
		s.logger.WarnContext(ctx, "forcing dirty schema version", slog.Uint64("version", uint64(version)))
		if err := s.m.Force(int(version)); err != nil {
			return version, fmt.Errorf("failed to force version %d: %w", version, err)
		}
	}

	if err := s.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return version, fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, _, err = s.m.Version()
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

func (s *schemaMigrator) close() error {
	sourceErr, dbErr := s.m.Close()
	connErr := s.conn.Close()
	if errors.Is(connErr, sql.ErrConnDone) {
		connErr = nil
	}
	return errors.Join(sourceErr, dbErr, connErr)
}

// MigrateDocuments applies the embedded documents schema, retrying while the
// database is still unreachable. A dirty schema is not retried.
func MigrateDocuments(ctx context.Context, cfg MigrationConfig, logger *slog.Logger) error {
	cfg.withDefaults()

	attempt := 0
	run := func() error {
		attempt++
		migrator, err := openSchemaMigrator(ctx, cfg, logger)
		if err != nil {
			logger.WarnContext(ctx, "documents schema not reachable",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			return err
		}
		defer func() {
			if err := migrator.close(); err != nil {
				logger.WarnContext(ctx, "failed to close migrator", slog.String("error", err.Error()))
			}
		}()

		version, err := migrator.apply(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		logger.InfoContext(ctx, "documents schema ready", slog.Uint64("version", uint64(version)))
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	err := backoff.Retry(run, backoff.WithContext(backoff.WithMaxRetries(policy, cfg.MaxAttempts-1), ctx))
	if err != nil {
		return fmt.Errorf("documents schema migration failed after %d attempts: %w", attempt, err)
	}
	return nil
}
