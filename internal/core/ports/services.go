// internal/core/ports/services.go
package ports

import (
	"context"

	"github.com/ammerola/catalog-be/internal/core/domain"
)

// InventoryLedger maintains the per-size stock counters of a product.
type InventoryLedger interface {
	Increment(ctx context.Context, productID, size string, amount int) error
	Decrement(ctx context.Context, productID, size string, amount int) error
	SetQuantity(ctx context.Context, productID, size string, quantity int) error
	AvailableStock(ctx context.Context, productID, size string) (int, error)
	HasStock(ctx context.Context, productID, size string, quantity int) (bool, error)
}

// SalesRecorder couples sale records to ledger adjustments.
type SalesRecorder interface {
	RecordSale(ctx context.Context, in domain.SaleInput) (*domain.Sale, error)
	DeleteSale(ctx context.Context, saleID string) (*domain.Sale, error)
}

// CatalogService serves the typed product catalog.
type CatalogService interface {
	Search(ctx context.Context, params SearchParams) ([]*domain.Product, error)
	Facets(ctx context.Context) (*domain.Facets, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, p *domain.Product) (*domain.Product, error)
}

// ReportService aggregates sales and schedules exports.
type ReportService interface {
	SalesInPeriod(ctx context.Context, period domain.Period) ([]*domain.Sale, error)
	SalesSummary(ctx context.Context, period domain.Period) (*domain.SalesSummary, error)
	RequestSalesExport(ctx context.Context, period domain.Period) (*domain.ReportJob, error)
	ReportStatus(ctx context.Context, id string) (*domain.ReportJob, error)
}

// SearchParams holds the public catalog filters
type SearchParams struct {
	Text        string
	Category    string
	Subcategory string
	Brand       string
	Color       string
	Gender      string
	Size        string
	InStock     bool
}
