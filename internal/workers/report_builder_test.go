package workers_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/workers"
)

func testSales() []*domain.Sale {
	return []*domain.Sale{
		{
			ID: "s1", ProductID: "p1", ProductName: "Camiseta Real Madrid", Size: "M",
			Quantity: 2, UnitPrice: decimal.NewFromInt(150), TotalPrice: decimal.NewFromInt(300),
			PaymentMethod: domain.PaymentCash, CustomerName: "Ana López", SaleDate: "2024-05-01",
			CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID: "s2", ProductID: "p2", ProductName: "Sudadera", Size: "L",
			Quantity: 1, UnitPrice: decimal.RequireFromString("420.50"), TotalPrice: decimal.RequireFromString("420.50"),
			PaymentMethod: domain.PaymentTransfer, SaleDate: "2024-05-03",
			CreatedAt: time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC),
		},
	}
}

func cellValue(t *testing.T, sheet *xlsx.Sheet, row, col int) string {
	t.Helper()
	cell, err := sheet.Cell(row, col)
	require.NoError(t, err)
	return cell.Value
}

func TestBuildSalesWorkbook(t *testing.T) {
	sales := testSales()
	period := domain.Period{From: "2024-05-01"}

	data, err := workers.BuildSalesWorkbook(domain.Summarize(period, sales), sales)
	require.NoError(t, err)

	file, err := xlsx.OpenBinary(data)
	require.NoError(t, err)

	salesSheet, ok := file.Sheet[workers.SheetSales]
	require.True(t, ok)
	assert.Equal(t, 3, salesSheet.MaxRow)
	assert.Equal(t, "Date", cellValue(t, salesSheet, 0, 0))
	assert.Equal(t, "2024-05-01", cellValue(t, salesSheet, 1, 0))
	assert.Equal(t, "Camiseta Real Madrid", cellValue(t, salesSheet, 1, 1))
	assert.Equal(t, "2", cellValue(t, salesSheet, 1, 3))
	assert.Equal(t, "300", cellValue(t, salesSheet, 1, 5))
	assert.Equal(t, "transfer", cellValue(t, salesSheet, 2, 6))

	summary, ok := file.Sheet[workers.SheetSummary]
	require.True(t, ok)
	assert.Equal(t, "2024-05-01", cellValue(t, summary, 0, 1))
	assert.Equal(t, "open", cellValue(t, summary, 0, 2))
	// header on row 2, totals on row 3
	assert.Equal(t, "Total", cellValue(t, summary, 3, 0))
	assert.Equal(t, "2", cellValue(t, summary, 3, 1))
	assert.Equal(t, "3", cellValue(t, summary, 3, 2))
	assert.Equal(t, "720.5", cellValue(t, summary, 3, 3))
}

func TestBuildSalesWorkbook_NoSales(t *testing.T) {
	period := domain.Period{From: "2024-01-01", To: "2024-01-31"}

	data, err := workers.BuildSalesWorkbook(domain.Summarize(period, nil), nil)
	require.NoError(t, err)

	file, err := xlsx.OpenBinary(data)
	require.NoError(t, err)
	assert.Equal(t, 1, file.Sheet[workers.SheetSales].MaxRow)
}
