// internal/adapters/queue/tasks.go
package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/ammerola/catalog-be/internal/core/domain"
)

// Task types handled by the worker
const (
	TypeSalesReport   = "report:sales"
	TypeReportCleanup = "report:cleanup"
)

// Queue names, matching the ASYNQ_QUEUES priorities
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// SalesReportPayload identifies the export job to build
type SalesReportPayload struct {
	ReportID string        `json:"report_id"`
	Period   domain.Period `json:"period"`
}

// NewSalesReportTask builds the task for an export job.
func NewSalesReportTask(job *domain.ReportJob) (*asynq.Task, error) {
	payload, err := json.Marshal(SalesReportPayload{ReportID: job.ID, Period: job.Period})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeSalesReport, payload), nil
}

// ParseSalesReportPayload decodes a sales report task payload.
func ParseSalesReportPayload(t *asynq.Task) (SalesReportPayload, error) {
	var p SalesReportPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	if p.ReportID == "" {
		return p, fmt.Errorf("payload has no report_id")
	}
	return p, nil
}

// NewReportCleanupTask builds the periodic cleanup task.
func NewReportCleanupTask() *asynq.Task {
	return asynq.NewTask(TypeReportCleanup, nil)
}
