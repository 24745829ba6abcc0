package services_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/services"
	"github.com/ammerola/catalog-be/test/helpers"
	"github.com/ammerola/catalog-be/test/mocks"
)

type salesFixture struct {
	docs     *services.DocumentService
	ledger   *services.InventoryLedger
	recorder *services.SalesRecorder
}

func newSalesFixture(t *testing.T) *salesFixture {
	t.Helper()
	docs := newMemoryDocuments(t)
	ledger := services.NewInventoryLedger(docs, helpers.TestLogger())
	return &salesFixture{
		docs:     docs,
		ledger:   ledger,
		recorder: services.NewSalesRecorder(docs, ledger, helpers.TestLogger()),
	}
}

func (f *salesFixture) salesCount(t *testing.T) int {
	t.Helper()
	sales, err := f.docs.List(context.Background(), domain.CollectionSales, url.Values{})
	require.NoError(t, err)
	return len(sales)
}

func TestSalesRecorder_RecordSale(t *testing.T) {
	f := newSalesFixture(t)
	ctx := context.Background()
	id := seedProduct(t, f.docs, helpers.CreateTestProduct())

	sale, err := f.recorder.RecordSale(ctx, helpers.CreateTestSaleInput(id, func(in *domain.SaleInput) {
		in.Size = "M"
		in.Quantity = 3
		in.PaymentMethod = "transferencia"
	}))
	require.NoError(t, err)

	assert.NotEmpty(t, sale.ID)
	assert.Equal(t, id, sale.ProductID)
	assert.Equal(t, "Camiseta de Prueba", sale.ProductName)
	assert.True(t, decimal.NewFromInt(150).Equal(sale.UnitPrice))
	assert.True(t, decimal.NewFromInt(450).Equal(sale.TotalPrice))
	assert.Equal(t, domain.PaymentTransfer, sale.PaymentMethod)
	assert.False(t, sale.CreatedAt.IsZero())

	assert.Equal(t, 7, stockOf(t, f.ledger, id, "M"))
	assert.Equal(t, 1, f.salesCount(t))
}

func TestSalesRecorder_SmallStockScenario(t *testing.T) {
	f := newSalesFixture(t)
	ctx := context.Background()
	id := seedProduct(t, f.docs, helpers.CreateTestProduct(func(p *domain.Product) {
		p.Sizes = []string{"S", "M"}
		p.Inventory = map[string]int{"S": 2, "M": 0}
	}))

	_, err := f.recorder.RecordSale(ctx, helpers.CreateTestSaleInput(id, func(in *domain.SaleInput) {
		in.Size = "M"
	}))
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 0, insufficient.Available)
	assert.Equal(t, 1, insufficient.Requested)

	first, err := f.recorder.RecordSale(ctx, helpers.CreateTestSaleInput(id, func(in *domain.SaleInput) {
		in.Quantity = 2
	}))
	require.NoError(t, err)
	assert.Equal(t, 0, stockOf(t, f.ledger, id, "S"))

	_, err = f.recorder.RecordSale(ctx, helpers.CreateTestSaleInput(id))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, f.salesCount(t))

	_, err = f.recorder.DeleteSale(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stockOf(t, f.ledger, id, "S"))
	assert.Equal(t, 0, stockOf(t, f.ledger, id, "M"))
	assert.Equal(t, 0, f.salesCount(t))
}

func TestSalesRecorder_RejectsWithoutWriting(t *testing.T) {
	f := newSalesFixture(t)
	id := seedProduct(t, f.docs, helpers.CreateTestProduct())

	tests := []struct {
		name    string
		input   domain.SaleInput
		wantErr error
	}{
		{
			name:    "unknown_product",
			input:   helpers.CreateTestSaleInput("64b7f0000000000000000000"),
			wantErr: domain.ErrProductNotFound,
		},
		{
			name:    "more_than_available",
			input:   helpers.CreateTestSaleInput(id, func(in *domain.SaleInput) { in.Size = "L"; in.Quantity = 4 }),
			wantErr: domain.ErrInsufficientStock,
		},
		{
			name:    "size_not_stocked",
			input:   helpers.CreateTestSaleInput(id, func(in *domain.SaleInput) { in.Size = "XXL" }),
			wantErr: domain.ErrInsufficientStock,
		},
		{
			name:    "zero_quantity",
			input:   helpers.CreateTestSaleInput(id, func(in *domain.SaleInput) { in.Quantity = 0 }),
			wantErr: domain.ErrValidation,
		},
		{
			name:    "unknown_payment_method",
			input:   helpers.CreateTestSaleInput(id, func(in *domain.SaleInput) { in.PaymentMethod = "crypto" }),
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.recorder.RecordSale(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, f.salesCount(t))
			assert.Equal(t, 3, stockOf(t, f.ledger, id, "L"))
		})
	}
}

func TestSalesRecorder_DecrementFailureAfterInsert(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockInventoryLedger(ctrl)

	docs := newMemoryDocuments(t)
	recorder := services.NewSalesRecorder(docs, ledger, helpers.TestLogger())
	id := seedProduct(t, docs, helpers.CreateTestProduct())
	ctx := context.Background()

	ledger.EXPECT().
		Decrement(gomock.Any(), id, "S", 2).
		Return(domain.ErrStoreUnreachable)

	sale, err := recorder.RecordSale(ctx, helpers.CreateTestSaleInput(id, func(in *domain.SaleInput) {
		in.Quantity = 2
	}))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInconsistentState)
	assert.ErrorIs(t, err, domain.ErrStoreUnreachable)

	var inconsistent *domain.InconsistentStateError
	require.ErrorAs(t, err, &inconsistent)
	require.NotNil(t, sale)
	assert.Equal(t, sale.ID, inconsistent.SaleID)
	assert.Equal(t, 2, inconsistent.Quantity)

	stored, getErr := docs.Get(ctx, domain.CollectionSales, sale.ID)
	require.NoError(t, getErr, "the sale stays committed")
	assert.Equal(t, id, stored["productId"])

	product, getErr := docs.Get(ctx, domain.CollectionProducts, id)
	require.NoError(t, getErr)
	assert.EqualValues(t, 5, product["inventory"].(map[string]any)["S"], "stock is not compensated")
}

func TestSalesRecorder_DeleteSale(t *testing.T) {
	t.Run("restores_stock", func(t *testing.T) {
		f := newSalesFixture(t)
		ctx := context.Background()
		id := seedProduct(t, f.docs, helpers.CreateTestProduct())

		sale, err := f.recorder.RecordSale(ctx, helpers.CreateTestSaleInput(id, func(in *domain.SaleInput) { in.Quantity = 4 }))
		require.NoError(t, err)
		assert.Equal(t, 1, stockOf(t, f.ledger, id, "S"))

		deleted, err := f.recorder.DeleteSale(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, sale.ID, deleted.ID)
		assert.Equal(t, 5, stockOf(t, f.ledger, id, "S"))
	})

	t.Run("unknown_sale", func(t *testing.T) {
		f := newSalesFixture(t)
		_, err := f.recorder.DeleteSale(context.Background(), "64b7f0000000000000000000")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("product_gone_still_deletes", func(t *testing.T) {
		f := newSalesFixture(t)
		ctx := context.Background()
		id := seedProduct(t, f.docs, helpers.CreateTestProduct())

		sale, err := f.recorder.RecordSale(ctx, helpers.CreateTestSaleInput(id))
		require.NoError(t, err)
		_, err = f.docs.DeleteByID(ctx, domain.CollectionProducts, id)
		require.NoError(t, err)

		_, err = f.recorder.DeleteSale(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, f.salesCount(t))
	})

	t.Run("restore_failure_is_inconsistent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		ledger := mocks.NewMockInventoryLedger(ctrl)
		docs := newMemoryDocuments(t)
		recorder := services.NewSalesRecorder(docs, ledger, helpers.TestLogger())
		ctx := context.Background()

		sale, err := docs.InsertOne(ctx, domain.CollectionSales, domain.Document{
			"productId": "64b7f0000000000000000001", "size": "M", "quantity": 2,
			"unitPrice": 100, "totalPrice": 200, "paymentMethod": "cash", "saleDate": "2024-05-10",
		})
		require.NoError(t, err)

		ledger.EXPECT().
			Increment(gomock.Any(), "64b7f0000000000000000001", "M", 2).
			Return(errors.New("write conflict"))

		deleted, err := recorder.DeleteSale(ctx, sale.ID())
		assert.ErrorIs(t, err, domain.ErrInconsistentState)
		require.NotNil(t, deleted)
		assert.Equal(t, "M", deleted.Size)
	})
}
