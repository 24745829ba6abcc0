package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/catalog-be/internal/handlers"
	"github.com/ammerola/catalog-be/test/helpers"
	"github.com/ammerola/catalog-be/test/mocks"
)

func TestHealthHandler_Health(t *testing.T) {
	t.Run("store_connected", func(t *testing.T) {
		api := newTestAPI(t, 0)
		api.docs.EXPECT().Ping(gomock.Any()).Return(nil)

		w := api.do(http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody[handlers.StoreHealth](t, w)
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "connected", body.Database)
		assert.NotEmpty(t, body.Timestamp)
		assert.Equal(t, "no-cache, no-store, must-revalidate", w.Header().Get("Cache-Control"))
	})

	t.Run("store_disconnected", func(t *testing.T) {
		api := newTestAPI(t, 0)
		api.docs.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))

		w := api.do(http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		body := decodeBody[handlers.StoreHealth](t, w)
		assert.Equal(t, "error", body.Status)
		assert.Equal(t, "disconnected", body.Database)
		assert.Equal(t, "connection refused", body.Error)
		assert.Empty(t, body.Timestamp)
	})
}

func TestHealthHandler_Readiness(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockDocumentService(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)
	queue := mocks.NewMockTaskEnqueuer(ctrl)

	h := handlers.NewHealthHandler(store, cache, queue, "1.0.0", "test", helpers.TestLogger())

	store.EXPECT().Ping(gomock.Any()).Return(nil)
	cache.EXPECT().Ping(gomock.Any()).Return(nil)
	queue.EXPECT().Ping(gomock.Any()).Return(errors.New("redis down"))

	w := httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decodeBody[struct {
		Ready   bool              `json:"ready"`
		Details map[string]string `json:"details"`
	}](t, w)
	assert.False(t, body.Ready)
	assert.Equal(t, map[string]string{"store": "ready", "cache": "ready", "queue": "not ready"}, body.Details)
}

func TestHealthHandler_Detailed(t *testing.T) {
	tests := []struct {
		name       string
		storeErr   error
		wantStatus int
		wantState  string
	}{
		{name: "healthy", wantStatus: http.StatusOK, wantState: "healthy"},
		{name: "degraded", storeErr: errors.New("timeout"), wantStatus: http.StatusServiceUnavailable, wantState: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, 0)
			api.docs.EXPECT().Ping(gomock.Any()).Return(tt.storeErr)

			w := api.do(http.MethodGet, "/api/v1/health", "")

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeBody[handlers.HealthStatus](t, w)
			assert.Equal(t, tt.wantState, body.Status)
			assert.Equal(t, "test", body.Version)
			assert.Len(t, body.Services, 1, "disabled dependencies are not reported")
			assert.NotEmpty(t, body.System.GoVersion)
		})
	}
}
