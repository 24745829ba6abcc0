package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/ports"
	"github.com/ammerola/catalog-be/test/helpers"
)

func TestCatalogHandler_ListProducts(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		want       *ports.SearchParams
		wantStatus int
	}{
		{
			name:       "no_filters",
			query:      "",
			want:       &ports.SearchParams{},
			wantStatus: http.StatusOK,
		},
		{
			name:  "all_filters",
			query: "?q=boca&category=football&subcategory=camisetas&brand=Adidas&color=azul&gender=men&size=M&in_stock=true",
			want: &ports.SearchParams{
				Text: "boca", Category: "football", Subcategory: "camisetas", Brand: "Adidas",
				Color: "azul", Gender: "men", Size: "M", InStock: true,
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "bad_in_stock",
			query:      "?in_stock=maybe",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, 0)
			if tt.want != nil {
				api.catalog.EXPECT().Search(gomock.Any(), *tt.want).
					Return([]*domain.Product{helpers.CreateTestProduct()}, nil)
			}

			w := api.do(http.MethodGet, "/api/v1/catalog/products"+tt.query, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				products := decodeBody[[]map[string]any](t, w)
				assert.Len(t, products, 1)
				assert.Equal(t, "Camiseta de Prueba", products[0]["name"])
			}
		})
	}
}

func TestCatalogHandler_GetProduct(t *testing.T) {
	api := newTestAPI(t, 0)

	product := helpers.CreateTestProduct(func(p *domain.Product) { p.ID = "p1" })
	api.catalog.EXPECT().GetProduct(gomock.Any(), "p1").Return(product, nil)
	api.catalog.EXPECT().GetProduct(gomock.Any(), "p2").Return(nil, domain.ErrProductNotFound)

	w := api.do(http.MethodGet, "/api/v1/catalog/products/p1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "p1", decodeBody[map[string]any](t, w)["id"])

	w = api.do(http.MethodGet, "/api/v1/catalog/products/p2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogHandler_CreateProduct(t *testing.T) {
	api := newTestAPI(t, 0)

	body := `{"name":"Buzo","category":"casual","subcategory":"buzos","color":"gris","gender":"unisex",
		"price":"420.50","images":["a.jpg"],"sizes":["M"],"inventory":{"M":2}}`

	api.catalog.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *domain.Product) (*domain.Product, error) {
			assert.Equal(t, "Buzo", p.Name)
			assert.True(t, p.Price.Equal(decimal.RequireFromString("420.50")))
			assert.Equal(t, 2, p.Inventory["M"])
			created := *p
			created.ID = "new"
			return &created, nil
		})

	w := api.do(http.MethodPost, "/api/v1/catalog/products", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "new", decodeBody[map[string]any](t, w)["id"])
}

func TestCatalogHandler_UpdateProduct(t *testing.T) {
	api := newTestAPI(t, 0)

	api.catalog.EXPECT().UpdateProduct(gomock.Any(), "p1", gomock.Any()).
		Return(nil, domain.Validationf("name is required"))

	w := api.do(http.MethodPut, "/api/v1/catalog/products/p1", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandler_Facets(t *testing.T) {
	api := newTestAPI(t, 0)

	api.catalog.EXPECT().Facets(gomock.Any()).Return(&domain.Facets{
		Categories: []string{"casual", "football"},
		Sizes:      []string{"L", "M", "S"},
	}, nil)

	w := api.do(http.MethodGet, "/api/v1/catalog/facets", "")

	assert.Equal(t, http.StatusOK, w.Code)
	facets := decodeBody[domain.Facets](t, w)
	assert.Equal(t, []string{"casual", "football"}, facets.Categories)
	assert.Equal(t, []string{"L", "M", "S"}, facets.Sizes)
}
