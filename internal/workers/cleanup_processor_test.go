package workers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/catalog-be/internal/adapters/queue"
	"github.com/ammerola/catalog-be/internal/core/ports"
	"github.com/ammerola/catalog-be/internal/workers"
	"github.com/ammerola/catalog-be/test/helpers"
	"github.com/ammerola/catalog-be/test/mocks"
)

func TestCleanupProcessor_DeletesExpiredReports(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockObjectStorage(ctrl)
	processor := workers.NewCleanupProcessor(store, "reports/sales", 7*24*time.Hour, helpers.TestLogger())
	now := time.Now()

	store.EXPECT().List(gomock.Any(), "reports/sales/").Return([]ports.ObjectInfo{
		{Key: "reports/sales/old.xlsx", LastModified: now.Add(-30 * 24 * time.Hour)},
		{Key: "reports/sales/recent.xlsx", LastModified: now.Add(-time.Hour)},
		{Key: "reports/sales/week.xlsx", LastModified: now.Add(-8 * 24 * time.Hour)},
	}, nil)
	store.EXPECT().
		DeleteMultiple(gomock.Any(), []string{"reports/sales/old.xlsx", "reports/sales/week.xlsx"}).
		Return(nil)

	deleted, err := processor.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
}

func TestCleanupProcessor_NothingExpired(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockObjectStorage(ctrl)
	processor := workers.NewCleanupProcessor(store, "reports/sales/", 24*time.Hour, helpers.TestLogger())

	store.EXPECT().List(gomock.Any(), "reports/sales/").Return([]ports.ObjectInfo{
		{Key: "reports/sales/a.xlsx", LastModified: time.Now()},
	}, nil)
	store.EXPECT().DeleteMultiple(gomock.Any(), gomock.Any()).Times(0)

	require.NoError(t, processor.CleanupReports(context.Background(), queue.NewReportCleanupTask()))
}

func TestCleanupProcessor_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*mocks.MockObjectStorage)
	}{
		{
			name: "list_fails",
			setup: func(m *mocks.MockObjectStorage) {
				m.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, errors.New("access denied"))
			},
		},
		{
			name: "delete_fails",
			setup: func(m *mocks.MockObjectStorage) {
				m.EXPECT().List(gomock.Any(), gomock.Any()).Return([]ports.ObjectInfo{
					{Key: "reports/sales/old.xlsx", LastModified: time.Now().Add(-48 * time.Hour)},
				}, nil)
				m.EXPECT().DeleteMultiple(gomock.Any(), gomock.Any()).Return(errors.New("throttled"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockObjectStorage(ctrl)
			tt.setup(store)

			processor := workers.NewCleanupProcessor(store, "reports/sales", 24*time.Hour, helpers.TestLogger())
			assert.Error(t, processor.CleanupReports(context.Background(), queue.NewReportCleanupTask()))
		})
	}
}
