// internal/core/services/reports.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/ports"
)

// ReportTracker persists export job state in the cache, shared by the API
// and the worker.
type ReportTracker struct {
	cache ports.CacheRepository
	ttl   time.Duration
}

// NewReportTracker creates a tracker whose entries expire after ttl
func NewReportTracker(cache ports.CacheRepository, ttl time.Duration) *ReportTracker {
	return &ReportTracker{cache: cache, ttl: ttl}
}

// ReportKey is the cache key of a report job.
func ReportKey(id string) string {
	return "report:" + id
}

// Save stores the current job state.
func (t *ReportTracker) Save(ctx context.Context, job *domain.ReportJob) error {
	if err := t.cache.SetWithTTL(ctx, ReportKey(job.ID), job, t.ttl); err != nil {
		return fmt.Errorf("failed to save report %s: %w", job.ID, err)
	}
	return nil
}

// Load returns domain.ErrNotFound for unknown or expired jobs.
func (t *ReportTracker) Load(ctx context.Context, id string) (*domain.ReportJob, error) {
	var job domain.ReportJob
	if err := t.cache.Get(ctx, ReportKey(id), &job); err != nil {
		if errors.Is(err, ports.ErrCacheMiss) {
			return nil, fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load report %s: %w", id, err)
	}
	return &job, nil
}

// ReportService aggregates sales and hands exports to the worker.
type ReportService struct {
	docs     ports.DocumentService
	tracker  *ReportTracker
	enqueuer ports.TaskEnqueuer
	logger   *slog.Logger
	now      func() time.Time
}

// Statically assert that *ReportService implements the ReportService interface.
var _ ports.ReportService = (*ReportService)(nil)

// NewReportService creates a report service. tracker and enqueuer may be nil
// when exports are disabled.
func NewReportService(docs ports.DocumentService, tracker *ReportTracker, enqueuer ports.TaskEnqueuer, logger *slog.Logger) *ReportService {
	return &ReportService{
		docs:     docs,
		tracker:  tracker,
		enqueuer: enqueuer,
		logger:   logger.With(slog.String("service", "reports")),
		now:      time.Now,
	}
}

// SalesInPeriod loads the sales whose sale date falls inside period, oldest first.
func (s *ReportService) SalesInPeriod(ctx context.Context, period domain.Period) ([]*domain.Sale, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{"order": {"saleDate.asc,created_at.asc"}}
	if period.From != "" {
		params.Set("saleDate[gte]", period.From)
	}
	if period.To != "" {
		params.Set("saleDate[lte]", period.To)
	}

	docs, err := s.docs.List(ctx, domain.CollectionSales, params)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}

	sales := make([]*domain.Sale, 0, len(docs))
	for _, d := range docs {
		sale, err := domain.SaleFromDocument(d)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping unreadable sale",
				slog.String("id", d.ID()),
				slog.String("error", err.Error()))
			continue
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

// SalesSummary aggregates sales over a period.
func (s *ReportService) SalesSummary(ctx context.Context, period domain.Period) (*domain.SalesSummary, error) {
	sales, err := s.SalesInPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	return domain.Summarize(period, sales), nil
}

// RequestSalesExport registers a pending job and enqueues it.
func (s *ReportService) RequestSalesExport(ctx context.Context, period domain.Period) (*domain.ReportJob, error) {
	if s.tracker == nil || s.enqueuer == nil {
		return nil, fmt.Errorf("%w: report exports are disabled", domain.ErrStoreUnreachable)
	}
	if err := period.Validate(); err != nil {
		return nil, err
	}

	job := &domain.ReportJob{
		ID:        uuid.NewString(),
		Status:    domain.ReportPending,
		Period:    period,
		CreatedAt: s.now().UTC(),
	}
	if err := s.tracker.Save(ctx, job); err != nil {
		return nil, err
	}

	if err := s.enqueuer.EnqueueSalesReport(ctx, job); err != nil {
		job.Status = domain.ReportFailed
		job.Error = err.Error()
		if saveErr := s.tracker.Save(ctx, job); saveErr != nil {
			s.logger.WarnContext(ctx, "failed to mark report as failed",
				slog.String("report_id", job.ID),
				slog.String("error", saveErr.Error()))
		}
		return nil, fmt.Errorf("failed to enqueue report: %w", err)
	}

	s.logger.InfoContext(ctx, "sales export requested",
		slog.String("report_id", job.ID),
		slog.String("from", period.From),
		slog.String("to", period.To))

	return job, nil
}

// ReportStatus returns the state of an export job.
func (s *ReportService) ReportStatus(ctx context.Context, id string) (*domain.ReportJob, error) {
	if s.tracker == nil {
		return nil, fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
	}
	return s.tracker.Load(ctx, id)
}
