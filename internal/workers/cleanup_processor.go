// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/catalog-be/internal/core/ports"
)

// CleanupProcessor removes exported reports past their retention
type CleanupProcessor struct {
	storage   ports.ObjectStorage
	prefix    string
	retention time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewCleanupProcessor creates a new cleanup processor
func NewCleanupProcessor(storage ports.ObjectStorage, prefix string, retention time.Duration, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		storage:   storage,
		prefix:    prefix,
		retention: retention,
		logger:    logger.With(slog.String("processor", "cleanup")),
		now:       time.Now,
	}
}

// CleanupReports handles queue.TypeReportCleanup tasks
func (p *CleanupProcessor) CleanupReports(ctx context.Context, _ *asynq.Task) error {
	ctx = withTaskID(ctx)
	p.logger.InfoContext(ctx, "cleaning up old reports",
		slog.String("prefix", p.prefix),
		slog.Duration("retention", p.retention))

	deleted, err := p.Cleanup(ctx)
	if err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "old reports cleaned up",
		slog.Int("files_deleted", deleted))
	return nil
}

// Cleanup deletes the objects under the report prefix older than the retention
// period and returns how many were removed.
func (p *CleanupProcessor) Cleanup(ctx context.Context) (int, error) {
	prefix := p.prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	objects, err := p.storage.List(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list reports: %w", err)
	}

	cutoff := p.now().Add(-p.retention)
	var expired []string
	for _, obj := range objects {
		if obj.LastModified.Before(cutoff) {
			expired = append(expired, obj.Key)
		}
	}
	if len(expired) == 0 {
		return 0, nil
	}

	if err := p.storage.DeleteMultiple(ctx, expired); err != nil {
		return 0, fmt.Errorf("failed to delete reports: %w", err)
	}
	return len(expired), nil
}
