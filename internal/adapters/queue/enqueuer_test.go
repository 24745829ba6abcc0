package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/catalog-be/internal/adapters/queue"
	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/test/helpers"
)

func newEnqueuer(t *testing.T) (*queue.Enqueuer, *helpers.TestRedis) {
	t.Helper()
	r := helpers.SetupTestRedis(t)
	e := queue.NewEnqueuer(asynq.RedisClientOpt{Addr: r.Server.Addr()}, queue.Options{
		Queue:    queue.QueueDefault,
		MaxRetry: 3,
		Timeout:  time.Minute,
	}, helpers.TestLogger())
	t.Cleanup(func() { _ = e.Close() })
	return e, r
}

func TestEnqueuer_EnqueueSalesReport(t *testing.T) {
	e, r := newEnqueuer(t)
	job := &domain.ReportJob{
		ID:     "5f0c6f36-6e51-4b8e-9a0b-0d1f5b8e2f11",
		Status: domain.ReportPending,
		Period: domain.Period{From: "2024-05-01", To: "2024-05-31"},
	}

	require.NoError(t, e.EnqueueSalesReport(context.Background(), job))

	pending, err := r.Server.List("asynq:{default}:pending")
	require.NoError(t, err)
	assert.Equal(t, []string{job.ID}, pending)
	assert.True(t, r.Server.Exists("asynq:{default}:t:"+job.ID))
}

func TestEnqueuer_DuplicateJobIsRejected(t *testing.T) {
	e, _ := newEnqueuer(t)
	job := &domain.ReportJob{ID: "dup-1", Status: domain.ReportPending}

	require.NoError(t, e.EnqueueSalesReport(context.Background(), job))
	err := e.EnqueueSalesReport(context.Background(), job)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEnqueuer_Ping(t *testing.T) {
	e, r := newEnqueuer(t)
	require.NoError(t, e.Ping(context.Background()))

	r.Server.SetError("ERR server unavailable")
	assert.Error(t, e.Ping(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, e.Ping(ctx), context.Canceled)
}

func TestSalesReportPayload(t *testing.T) {
	job := &domain.ReportJob{ID: "r-1", Period: domain.Period{From: "2024-01-01"}}

	task, err := queue.NewSalesReportTask(job)
	require.NoError(t, err)
	assert.Equal(t, queue.TypeSalesReport, task.Type())

	payload, err := queue.ParseSalesReportPayload(task)
	require.NoError(t, err)
	assert.Equal(t, "r-1", payload.ReportID)
	assert.Equal(t, job.Period, payload.Period)

	tests := []struct {
		name string
		raw  string
	}{
		{name: "not_json", raw: "{"},
		{name: "missing_report_id", raw: `{"period":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := queue.ParseSalesReportPayload(asynq.NewTask(queue.TypeSalesReport, []byte(tt.raw)))
			assert.Error(t, err)
		})
	}
}
