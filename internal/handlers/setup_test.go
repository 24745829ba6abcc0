package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/catalog-be/internal/handlers"
	"github.com/ammerola/catalog-be/test/helpers"
	"github.com/ammerola/catalog-be/test/mocks"
)

type testAPI struct {
	docs    *mocks.MockDocumentService
	ledger  *mocks.MockInventoryLedger
	sales   *mocks.MockSalesRecorder
	catalog *mocks.MockCatalogService
	reports *mocks.MockReportService
	mux     *http.ServeMux
}

func newTestAPI(t *testing.T, maxBodyBytes int64) *testAPI {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := helpers.TestLogger()

	api := &testAPI{
		docs:    mocks.NewMockDocumentService(ctrl),
		ledger:  mocks.NewMockInventoryLedger(ctrl),
		sales:   mocks.NewMockSalesRecorder(ctrl),
		catalog: mocks.NewMockCatalogService(ctrl),
		reports: mocks.NewMockReportService(ctrl),
		mux:     http.NewServeMux(),
	}

	routes := &handlers.Routes{
		Health:      handlers.NewHealthHandler(api.docs, nil, nil, "test", "test", logger),
		Collections: handlers.NewCollectionsHandler(api.docs, maxBodyBytes, logger),
		Sales:       handlers.NewSalesHandler(api.sales, api.reports, maxBodyBytes, logger),
		Inventory:   handlers.NewInventoryHandler(api.ledger, maxBodyBytes, logger),
		Catalog:     handlers.NewCatalogHandler(api.catalog, maxBodyBytes, logger),
		Reports:     handlers.NewReportsHandler(api.reports, maxBodyBytes, logger),
	}
	routes.Register(api.mux)
	return api
}

func (a *testAPI) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.mux.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}
