// internal/workers/sales_report_processor.go
package workers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/catalog-be/internal/adapters/queue"
	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/ports"
	"github.com/ammerola/catalog-be/internal/core/services"
	"github.com/ammerola/catalog-be/internal/pkg/logger"
)

// ReportOptions controls where exports are written and how long their links live
type ReportOptions struct {
	Prefix    string
	URLExpiry time.Duration
}

// SalesReportProcessor builds sales workbooks and publishes them to object storage
type SalesReportProcessor struct {
	reports ports.ReportService
	storage ports.ObjectStorage
	tracker *services.ReportTracker
	opts    ReportOptions
	logger  *slog.Logger
	now     func() time.Time
}

// NewSalesReportProcessor creates a new sales report processor
func NewSalesReportProcessor(reports ports.ReportService, storage ports.ObjectStorage,
	tracker *services.ReportTracker, opts ReportOptions, logger *slog.Logger) *SalesReportProcessor {
	return &SalesReportProcessor{
		reports: reports,
		storage: storage,
		tracker: tracker,
		opts:    opts,
		logger:  logger.With(slog.String("processor", "sales_report")),
		now:     time.Now,
	}
}

// ObjectKey is the storage key of a report's workbook
func (p *SalesReportProcessor) ObjectKey(reportID string) string {
	return path.Join(p.opts.Prefix, reportID+".xlsx")
}

// ProcessTask handles queue.TypeSalesReport tasks
func (p *SalesReportProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	payload, err := queue.ParseSalesReportPayload(t)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	ctx = withTaskID(ctx)
	p.logger.InfoContext(ctx, "generating sales report",
		slog.String("report_id", payload.ReportID),
		slog.String("from", payload.Period.From),
		slog.String("to", payload.Period.To))

	job, err := p.tracker.Load(ctx, payload.ReportID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		// status expired before the worker got to it
		job = &domain.ReportJob{ID: payload.ReportID, Period: payload.Period, CreatedAt: p.now().UTC()}
	}

	job.Status = domain.ReportProcessing
	job.Error = ""
	if err := p.tracker.Save(ctx, job); err != nil {
		return err
	}

	if err := p.generate(ctx, job); err != nil {
		return p.fail(ctx, job, err)
	}

	completed := p.now().UTC()
	job.Status = domain.ReportCompleted
	job.CompletedAt = &completed
	if err := p.tracker.Save(ctx, job); err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "sales report completed",
		slog.String("report_id", job.ID),
		slog.String("object_key", job.ObjectKey))
	return nil
}

func (p *SalesReportProcessor) generate(ctx context.Context, job *domain.ReportJob) error {
	sales, err := p.reports.SalesInPeriod(ctx, job.Period)
	if err != nil {
		return err
	}

	workbook, err := BuildSalesWorkbook(domain.Summarize(job.Period, sales), sales)
	if err != nil {
		return err
	}

	key := p.ObjectKey(job.ID)
	if _, err := p.storage.Upload(ctx, key, bytes.NewReader(workbook), XLSXContentType); err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}

	link, err := p.storage.GetPresignedURL(ctx, key, p.opts.URLExpiry)
	if err != nil {
		return fmt.Errorf("failed to sign report URL: %w", err)
	}

	job.ObjectKey = key
	job.URL = link
	return nil
}

// fail records the error. The job is only marked failed once asynq has no
// retries left; invalid periods are never retried.
func (p *SalesReportProcessor) fail(ctx context.Context, job *domain.ReportJob, cause error) error {
	p.logger.ErrorContext(ctx, "sales report failed",
		slog.String("report_id", job.ID),
		slog.String("error", cause.Error()))

	permanent := errors.Is(cause, domain.ErrValidation)
	job.Error = cause.Error()
	if permanent || isLastAttempt(ctx) {
		job.Status = domain.ReportFailed
	}
	if err := p.tracker.Save(ctx, job); err != nil {
		p.logger.WarnContext(ctx, "failed to save report status",
			slog.String("report_id", job.ID),
			slog.String("error", err.Error()))
	}

	if permanent {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, cause)
	}
	return cause
}

func isLastAttempt(ctx context.Context) bool {
	retried, ok := asynq.GetRetryCount(ctx)
	if !ok {
		return true
	}
	maxRetry, ok := asynq.GetMaxRetry(ctx)
	if !ok {
		return true
	}
	return retried >= maxRetry
}

// withTaskID copies the asynq task id into the context for log correlation
func withTaskID(ctx context.Context) context.Context {
	if id, ok := asynq.GetTaskID(ctx); ok {
		return context.WithValue(ctx, logger.ContextKeyTaskID, id)
	}
	return ctx
}
