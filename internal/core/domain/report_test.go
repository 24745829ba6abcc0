package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/catalog-be/internal/core/domain"
)

func TestPeriod_Validate(t *testing.T) {
	tests := []struct {
		name      string
		period    domain.Period
		wantError bool
	}{
		{name: "open_period", period: domain.Period{}},
		{name: "closed_period", period: domain.Period{From: "2025-01-01", To: "2025-01-31"}},
		{name: "single_day", period: domain.Period{From: "2025-01-01", To: "2025-01-01"}},
		{name: "bad_format", period: domain.Period{From: "01/01/2025"}, wantError: true},
		{name: "reversed", period: domain.Period{From: "2025-02-01", To: "2025-01-01"}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.period.Validate()
			if tt.wantError {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSummarize(t *testing.T) {
	sales := []*domain.Sale{
		{ProductID: "p1", ProductName: "Camiseta", Quantity: 2, TotalPrice: decimal.NewFromInt(200), PaymentMethod: domain.PaymentCash, SaleDate: "2025-03-01"},
		{ProductID: "p2", ProductName: "Gorra", Quantity: 1, TotalPrice: decimal.NewFromInt(30), PaymentMethod: domain.PaymentTransfer, SaleDate: "2025-03-02"},
		{ProductID: "p2", ProductName: "Gorra", Quantity: 10, TotalPrice: decimal.NewFromInt(300), PaymentMethod: domain.PaymentCash, SaleDate: "2025-03-03"},
		{ProductID: "p1", ProductName: "Camiseta", Quantity: 1, TotalPrice: decimal.NewFromInt(100), PaymentMethod: domain.PaymentCash, SaleDate: "2025-04-01"},
	}

	summary := domain.Summarize(domain.Period{From: "2025-03-01", To: "2025-03-31"}, sales)

	assert.Equal(t, 3, summary.Totals.Sales)
	assert.Equal(t, 13, summary.Totals.Units)
	assert.True(t, decimal.NewFromInt(530).Equal(summary.Totals.Revenue))

	cash := summary.ByPayment[domain.PaymentCash]
	assert.Equal(t, 2, cash.Sales)
	assert.True(t, decimal.NewFromInt(500).Equal(cash.Revenue))

	require.Len(t, summary.ByProduct, 2)
	assert.Equal(t, "p2", summary.ByProduct[0].ProductID)
	assert.Equal(t, 11, summary.ByProduct[0].Units)
	assert.Equal(t, "p1", summary.ByProduct[1].ProductID)
}

func TestBuildFacets(t *testing.T) {
	products := []*domain.Product{
		{Category: domain.CategoryFootball, Subcategory: "camisetas", Brand: "Adidas", Color: "blanco", Gender: domain.GenderMen, Sizes: []string{"M", "L"}},
		{Category: domain.CategoryCasual, Subcategory: "buzos", Color: "azul", Gender: domain.GenderUnisex, Sizes: []string{"S", "M"}},
		{Category: domain.CategoryFootball, Subcategory: "camisetas", Brand: "Nike", Color: "azul", Gender: domain.GenderMen, Sizes: []string{"XL"}},
	}

	facets := domain.BuildFacets(products)

	assert.Equal(t, []string{"casual", "football"}, facets.Categories)
	assert.Equal(t, []string{"buzos", "camisetas"}, facets.Subcategories)
	assert.Equal(t, []string{"Adidas", "Nike"}, facets.Brands)
	assert.Equal(t, []string{"azul", "blanco"}, facets.Colors)
	assert.Equal(t, []string{"men", "unisex"}, facets.Genders)
	assert.Equal(t, []string{"L", "M", "S", "XL"}, facets.Sizes)
}
