package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/handlers"
)

func TestInventoryHandler_Adjust(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		setup      func(api *testAPI)
		wantStatus int
		wantStock  int
	}{
		{
			name: "increment",
			path: "/api/v1/inventory/p1/increment",
			body: `{"size":"M","amount":3}`,
			setup: func(api *testAPI) {
				api.ledger.EXPECT().Increment(gomock.Any(), "p1", "M", 3).Return(nil)
				api.ledger.EXPECT().AvailableStock(gomock.Any(), "p1", "M").Return(13, nil)
			},
			wantStatus: http.StatusOK,
			wantStock:  13,
		},
		{
			name: "decrement",
			path: "/api/v1/inventory/p1/decrement",
			body: `{"size":"S","amount":2}`,
			setup: func(api *testAPI) {
				api.ledger.EXPECT().Decrement(gomock.Any(), "p1", "S", 2).Return(nil)
				api.ledger.EXPECT().AvailableStock(gomock.Any(), "p1", "S").Return(3, nil)
			},
			wantStatus: http.StatusOK,
			wantStock:  3,
		},
		{
			name:       "missing_size",
			path:       "/api/v1/inventory/p1/increment",
			body:       `{"amount":1}`,
			setup:      func(api *testAPI) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative_amount",
			path:       "/api/v1/inventory/p1/decrement",
			body:       `{"size":"S","amount":-1}`,
			setup:      func(api *testAPI) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown_product",
			path: "/api/v1/inventory/nope/increment",
			body: `{"size":"S","amount":1}`,
			setup: func(api *testAPI) {
				api.ledger.EXPECT().Increment(gomock.Any(), "nope", "S", 1).Return(domain.ErrProductNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, 0)
			tt.setup(api)

			w := api.do(http.MethodPost, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				stock := decodeBody[handlers.StockResponse](t, w)
				assert.Equal(t, tt.wantStock, stock.Available)
				assert.Equal(t, "p1", stock.ProductID)
			}
		})
	}
}

func TestInventoryHandler_SetQuantity(t *testing.T) {
	api := newTestAPI(t, 0)

	api.ledger.EXPECT().SetQuantity(gomock.Any(), "p1", "XL", 7).Return(nil)
	api.ledger.EXPECT().AvailableStock(gomock.Any(), "p1", "XL").Return(7, nil)

	w := api.do(http.MethodPut, "/api/v1/inventory/p1/sizes/XL", `{"quantity":7}`)

	assert.Equal(t, http.StatusOK, w.Code)
	stock := decodeBody[handlers.StockResponse](t, w)
	assert.Equal(t, handlers.StockResponse{ProductID: "p1", Size: "XL", Available: 7}, stock)
}

func TestInventoryHandler_Stock(t *testing.T) {
	t.Run("available", func(t *testing.T) {
		api := newTestAPI(t, 0)
		api.ledger.EXPECT().AvailableStock(gomock.Any(), "p1", "L").Return(3, nil)

		w := api.do(http.MethodGet, "/api/v1/inventory/p1/stock?size=L", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 3, decodeBody[handlers.StockResponse](t, w).Available)
	})

	t.Run("has_stock_for_quantity", func(t *testing.T) {
		api := newTestAPI(t, 0)
		api.ledger.EXPECT().HasStock(gomock.Any(), "p1", "L", 4).Return(false, nil)

		w := api.do(http.MethodGet, "/api/v1/inventory/p1/stock?size=L&quantity=4", "")

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody[map[string]any](t, w)
		assert.Equal(t, false, body["inStock"])
		assert.Equal(t, float64(4), body["quantity"])
	})

	t.Run("size_required", func(t *testing.T) {
		api := newTestAPI(t, 0)

		w := api.do(http.MethodGet, "/api/v1/inventory/p1/stock", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad_quantity", func(t *testing.T) {
		api := newTestAPI(t, 0)

		w := api.do(http.MethodGet, "/api/v1/inventory/p1/stock?size=L&quantity=many", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
