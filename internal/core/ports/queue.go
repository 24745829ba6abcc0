// internal/core/ports/queue.go
package ports

import (
	"context"

	"github.com/ammerola/catalog-be/internal/core/domain"
)

// TaskEnqueuer hands background work to the worker process
type TaskEnqueuer interface {
	EnqueueSalesReport(ctx context.Context, job *domain.ReportJob) error
	Ping(ctx context.Context) error
}
