// internal/core/services/sales.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/ports"
)

// SalesRecorder records sales and keeps the ledger in step. The sale write and
// the stock adjustment are two separate store writes with no transaction
// around them; a failure in between is reported as
// *domain.InconsistentStateError and is neither retried nor compensated.
type SalesRecorder struct {
	docs   ports.DocumentService
	ledger ports.InventoryLedger
	logger *slog.Logger
	now    func() time.Time
}

// Statically assert that *SalesRecorder implements the SalesRecorder interface.
var _ ports.SalesRecorder = (*SalesRecorder)(nil)

// NewSalesRecorder creates a new sales recorder
func NewSalesRecorder(docs ports.DocumentService, ledger ports.InventoryLedger, logger *slog.Logger) *SalesRecorder {
	return &SalesRecorder{
		docs:   docs,
		ledger: ledger,
		logger: logger.With(slog.String("service", "sales")),
		now:    time.Now,
	}
}

// RecordSale checks stock, inserts the sale, then decrements the ledger.
//
// When the decrement fails after the insert, the committed sale is returned
// together with an *domain.InconsistentStateError.
func (s *SalesRecorder) RecordSale(ctx context.Context, in domain.SaleInput) (*domain.Sale, error) {
	if err := in.Validate(s.now()); err != nil {
		return nil, err
	}

	productDoc, err := s.docs.Get(ctx, domain.CollectionProducts, in.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, in.ProductID)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	product, err := domain.ProductFromDocument(productDoc)
	if err != nil {
		return nil, fmt.Errorf("%w: product %s is unreadable: %v", domain.ErrStoreFailure, in.ProductID, err)
	}

	if available := product.StockFor(in.Size); available < in.Quantity {
		return nil, &domain.InsufficientStockError{
			ProductID: product.ID,
			Size:      in.Size,
			Available: available,
			Requested: in.Quantity,
		}
	}

	sale := domain.NewSale(in, product)
	inserted, err := s.docs.InsertOne(ctx, domain.CollectionSales, sale.ToDocument())
	if err != nil {
		return nil, fmt.Errorf("failed to insert sale: %w", err)
	}

	recorded, err := domain.SaleFromDocument(inserted)
	if err != nil {
		recorded = sale
		recorded.ID = inserted.ID()
	}

	if err := s.ledger.Decrement(ctx, product.ID, in.Size, in.Quantity); err != nil {
		inconsistent := &domain.InconsistentStateError{
			Op:        "record sale",
			SaleID:    recorded.ID,
			ProductID: product.ID,
			Size:      in.Size,
			Quantity:  in.Quantity,
			Err:       err,
		}
		s.logger.ErrorContext(ctx, "sale recorded without stock decrement",
			slog.String("sale_id", recorded.ID),
			slog.String("product_id", product.ID),
			slog.String("size", in.Size),
			slog.Int("quantity", in.Quantity),
			slog.String("error", err.Error()))
		return recorded, inconsistent
	}

	s.logger.InfoContext(ctx, "sale recorded",
		slog.String("sale_id", recorded.ID),
		slog.String("product_id", product.ID),
		slog.String("size", in.Size),
		slog.Int("quantity", in.Quantity),
		slog.String("total", recorded.TotalPrice.StringFixed(2)))

	return recorded, nil
}

// DeleteSale removes a sale and restores its units to the ledger. A product
// that no longer exists is logged and the delete still succeeds.
func (s *SalesRecorder) DeleteSale(ctx context.Context, saleID string) (*domain.Sale, error) {
	doc, err := s.docs.Get(ctx, domain.CollectionSales, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sale: %w", err)
	}

	sale, err := domain.SaleFromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: sale %s is unreadable: %v", domain.ErrStoreFailure, saleID, err)
	}

	if _, err := s.docs.DeleteByID(ctx, domain.CollectionSales, saleID); err != nil {
		return nil, fmt.Errorf("failed to delete sale: %w", err)
	}

	if err := s.ledger.Increment(ctx, sale.ProductID, sale.Size, sale.Quantity); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "sale deleted but product no longer exists, stock not restored",
				slog.String("sale_id", saleID),
				slog.String("product_id", sale.ProductID))
			return sale, nil
		}

		s.logger.ErrorContext(ctx, "sale deleted without stock restore",
			slog.String("sale_id", saleID),
			slog.String("product_id", sale.ProductID),
			slog.String("size", sale.Size),
			slog.Int("quantity", sale.Quantity),
			slog.String("error", err.Error()))
		return sale, &domain.InconsistentStateError{
			Op:        "delete sale",
			SaleID:    saleID,
			ProductID: sale.ProductID,
			Size:      sale.Size,
			Quantity:  sale.Quantity,
			Err:       err,
		}
	}

	s.logger.InfoContext(ctx, "sale deleted",
		slog.String("sale_id", saleID),
		slog.String("product_id", sale.ProductID),
		slog.Int("restored", sale.Quantity))

	return sale, nil
}
