// internal/adapters/queue/enqueuer.go
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/ports"
)

// Options controls how report tasks are enqueued
type Options struct {
	Queue    string
	MaxRetry int
	Timeout  time.Duration
	// Retention keeps completed task results inspectable.
	Retention time.Duration
}

// Enqueuer hands work to the asynq worker
type Enqueuer struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	opts      Options
	logger    *slog.Logger
}

// Statically assert that *Enqueuer implements the TaskEnqueuer interface.
var _ ports.TaskEnqueuer = (*Enqueuer)(nil)

// NewEnqueuer creates an enqueuer on the given Redis connection
func NewEnqueuer(redisOpt asynq.RedisConnOpt, opts Options, logger *slog.Logger) *Enqueuer {
	if opts.Queue == "" {
		opts.Queue = QueueDefault
	}
	return &Enqueuer{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
		opts:      opts,
		logger:    logger.With(slog.String("component", "enqueuer")),
	}
}

// EnqueueSalesReport schedules the export; the job id doubles as task id so a
// job is never queued twice.
func (e *Enqueuer) EnqueueSalesReport(ctx context.Context, job *domain.ReportJob) error {
	task, err := NewSalesReportTask(job)
	if err != nil {
		return err
	}

	taskOpts := []asynq.Option{
		asynq.Queue(e.opts.Queue),
		asynq.TaskID(job.ID),
		asynq.MaxRetry(e.opts.MaxRetry),
	}
	if e.opts.Timeout > 0 {
		taskOpts = append(taskOpts, asynq.Timeout(e.opts.Timeout))
	}
	if e.opts.Retention > 0 {
		taskOpts = append(taskOpts, asynq.Retention(e.opts.Retention))
	}

	info, err := e.client.EnqueueContext(ctx, task, taskOpts...)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return fmt.Errorf("%w: report %s is already queued", domain.ErrValidation, job.ID)
		}
		e.logger.ErrorContext(ctx, "failed to enqueue sales report",
			slog.String("report_id", job.ID),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", domain.ErrStoreUnreachable, err)
	}

	e.logger.InfoContext(ctx, "sales report enqueued",
		slog.String("report_id", job.ID),
		slog.String("queue", info.Queue))
	return nil
}

// Ping checks the queue backend answers.
func (e *Enqueuer) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := e.inspector.Queues(); err != nil {
		return fmt.Errorf("queue ping failed: %w", err)
	}
	return nil
}

// Close releases the Redis connections.
func (e *Enqueuer) Close() error {
	return errors.Join(e.client.Close(), e.inspector.Close())
}
