// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no document matches an id lookup.
	ErrNotFound = errors.New("not found")

	// ErrProductNotFound is returned when a sale or stock operation references a missing product.
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)

	// ErrValidation marks input rejected before it reaches the store.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientStock is returned when a sale asks for more units than the ledger holds.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrStoreFailure wraps any document-store error that is not classified more precisely.
	ErrStoreFailure = errors.New("store failure")

	// ErrPayloadTooLarge is returned when the store or the HTTP layer rejects an oversized document.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrStoreUnreachable is returned when the store cannot be contacted at all.
	ErrStoreUnreachable = errors.New("store unreachable")

	// ErrInconsistentState is returned when a multi-step operation stopped after its first write.
	ErrInconsistentState = errors.New("inconsistent state")
)

// InsufficientStockError carries the ledger numbers behind a rejected sale.
type InsufficientStockError struct {
	ProductID string
	Size      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s size %s: available %d, requested %d",
		e.ProductID, e.Size, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// InconsistentStateError reports a sale whose ledger side effect did not happen.
// The first write (Op) succeeded; the stock adjustment failed with Err.
type InconsistentStateError struct {
	Op        string
	SaleID    string
	ProductID string
	Size      string
	Quantity  int
	Err       error
}

func (e *InconsistentStateError) Error() string {
	return fmt.Sprintf("%s: sale %s committed but stock for product %s size %s (qty %d) was not adjusted: %v",
		e.Op, e.SaleID, e.ProductID, e.Size, e.Quantity, e.Err)
}

func (e *InconsistentStateError) Is(target error) bool {
	return target == ErrInconsistentState
}

func (e *InconsistentStateError) Unwrap() error {
	return e.Err
}

// Validationf builds an ErrValidation-wrapped error.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
