// internal/core/services/ledger.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/ports"
)

// InventoryLedger keeps the per-size stock counters stored in each product's
// inventory map. Every mutation is an unguarded read-modify-write through the
// document facade; concurrent writers on the same product are last-writer-wins.
type InventoryLedger struct {
	docs   ports.DocumentService
	logger *slog.Logger
}

// Statically assert that *InventoryLedger implements the InventoryLedger interface.
var _ ports.InventoryLedger = (*InventoryLedger)(nil)

// NewInventoryLedger creates a new ledger
func NewInventoryLedger(docs ports.DocumentService, logger *slog.Logger) *InventoryLedger {
	return &InventoryLedger{
		docs:   docs,
		logger: logger.With(slog.String("service", "inventory_ledger")),
	}
}

// Increment adds amount units to a size.
func (l *InventoryLedger) Increment(ctx context.Context, productID, size string, amount int) error {
	if amount < 0 {
		return domain.Validationf("amount cannot be negative")
	}
	return l.adjust(ctx, "increment", productID, size, func(current int) int {
		return current + amount
	})
}

// Decrement removes amount units from a size. Stock never goes below zero:
// asking for more than is held leaves the size at 0.
func (l *InventoryLedger) Decrement(ctx context.Context, productID, size string, amount int) error {
	if amount < 0 {
		return domain.Validationf("amount cannot be negative")
	}
	return l.adjust(ctx, "decrement", productID, size, func(current int) int {
		if amount > current {
			l.logger.WarnContext(ctx, "decrement exceeds stock, flooring at zero",
				slog.String("product_id", productID),
				slog.String("size", size),
				slog.Int("current", current),
				slog.Int("amount", amount))
			return 0
		}
		return current - amount
	})
}

// SetQuantity overwrites the stock of a size.
func (l *InventoryLedger) SetQuantity(ctx context.Context, productID, size string, quantity int) error {
	if quantity < 0 {
		return domain.Validationf("quantity cannot be negative")
	}
	return l.adjust(ctx, "set", productID, size, func(int) int {
		return quantity
	})
}

// AvailableStock returns the units held for a size. A missing product or size
// counts as zero.
func (l *InventoryLedger) AvailableStock(ctx context.Context, productID, size string) (int, error) {
	doc, err := l.docs.Get(ctx, domain.CollectionProducts, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read stock: %w", err)
	}
	return inventoryOf(doc)[size], nil
}

// HasStock reports whether quantity units of a size are available.
func (l *InventoryLedger) HasStock(ctx context.Context, productID, size string, quantity int) (bool, error) {
	available, err := l.AvailableStock(ctx, productID, size)
	if err != nil {
		return false, err
	}
	return available >= quantity, nil
}

func (l *InventoryLedger) adjust(ctx context.Context, op, productID, size string, next func(int) int) error {
	if strings.TrimSpace(size) == "" {
		return domain.Validationf("size is required")
	}

	doc, err := l.docs.Get(ctx, domain.CollectionProducts, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
		}
		return fmt.Errorf("failed to load product for %s: %w", op, err)
	}

	inventory := inventoryOf(doc)
	before := inventory[size]
	inventory[size] = next(before)

	stored := make(map[string]any, len(inventory))
	for k, v := range inventory {
		stored[k] = v
	}

	if _, err := l.docs.UpdateByID(ctx, domain.CollectionProducts, productID, domain.Document{"inventory": stored}); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
		}
		return fmt.Errorf("failed to persist %s: %w", op, err)
	}

	l.logger.InfoContext(ctx, "stock adjusted",
		slog.String("op", op),
		slog.String("product_id", productID),
		slog.String("size", size),
		slog.Int("before", before),
		slog.Int("after", inventory[size]))

	return nil
}

// inventoryOf reads the inventory map of a stored product, whatever numeric
// type the store decoded it as.
func inventoryOf(doc domain.Document) map[string]int {
	out := make(map[string]int)

	var raw map[string]any
	switch inv := doc["inventory"].(type) {
	case map[string]any:
		raw = inv
	case domain.Document:
		raw = inv
	case map[string]int:
		for k, v := range inv {
			out[k] = v
		}
		return out
	}

	for size, v := range raw {
		switch n := v.(type) {
		case int:
			out[size] = n
		case int32:
			out[size] = int(n)
		case int64:
			out[size] = int(n)
		case float64:
			out[size] = int(math.Round(n))
		}
	}
	return out
}
