// test/benchmarks/helpers.go
package benchmarks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammerola/catalog-be/internal/adapters/memory"
	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/services"
	"github.com/ammerola/catalog-be/test/helpers"
)

var brands = []string{"Nike", "Adidas", "Puma", "Umbro"}

// seedStore fills an in-memory store with count products and returns their ids
func seedStore(b *testing.B, count int) (*services.DocumentService, []string) {
	b.Helper()

	logger := helpers.TestLogger()
	docs := services.NewDocumentService(memory.NewStore(logger),
		[]string{domain.CollectionProducts, domain.CollectionSales}, logger)

	batch := make([]domain.Document, count)
	for i, p := range helpers.CreateTestProducts(count) {
		p.Brand = brands[i%len(brands)]
		p.Inventory = map[string]int{"S": 1 << 20, "M": 1 << 20, "L": 1 << 20}
		batch[i] = p.ToDocument()
	}

	created, err := docs.InsertMany(context.Background(), domain.CollectionProducts, batch)
	if err != nil {
		b.Fatalf("seed products: %v", err)
	}

	ids := make([]string, len(created))
	for i, d := range created {
		ids[i] = d.ID()
	}
	return docs, ids
}

// salesFixture builds n sales spread over May 2024
func salesFixture(n int) []*domain.Sale {
	methods := []domain.PaymentMethod{domain.PaymentCash, domain.PaymentTransfer}

	sales := make([]*domain.Sale, n)
	for i := range sales {
		qty := 1 + i%3
		price := decimal.NewFromInt(int64(100 + (i%7)*25))
		sales[i] = &domain.Sale{
			ID:            fmt.Sprintf("sale-%d", i),
			ProductID:     fmt.Sprintf("product-%d", i%20),
			ProductName:   fmt.Sprintf("Producto %d", i%20),
			Size:          "M",
			Quantity:      qty,
			UnitPrice:     price,
			TotalPrice:    price.Mul(decimal.NewFromInt(int64(qty))),
			PaymentMethod: methods[i%len(methods)],
			SaleDate:      fmt.Sprintf("2024-05-%02d", 1+i%28),
			CreatedAt:     time.Date(2024, 5, 1+i%28, 12, 0, 0, 0, time.UTC),
		}
	}
	return sales
}
