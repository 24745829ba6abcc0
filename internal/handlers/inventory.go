// internal/handlers/inventory.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/ports"
)

// InventoryHandler handles per-size stock adjustments
type InventoryHandler struct {
	ledger   ports.InventoryLedger
	maxBytes int64
	logger   *slog.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(ledger ports.InventoryLedger, maxBodyBytes int64, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		ledger:   ledger,
		maxBytes: maxBodyBytes,
		logger:   logger.With(slog.String("handler", "inventory")),
	}
}

// AdjustStockRequest is the body of increment and decrement requests
type AdjustStockRequest struct {
	Size   string `json:"size"`
	Amount int    `json:"amount"`
}

// Validate validates the adjust request
func (r *AdjustStockRequest) Validate() error {
	if strings.TrimSpace(r.Size) == "" {
		return domain.Validationf("size is required")
	}
	if r.Amount < 0 {
		return domain.Validationf("amount cannot be negative")
	}
	return nil
}

// SetQuantityRequest is the body of PUT .../sizes/{size}
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// StockResponse reports the stock of one size
type StockResponse struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Available int    `json:"available"`
}

// Increment handles POST /api/v1/inventory/{productId}/increment
func (h *InventoryHandler) Increment(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, "increment", h.ledger.Increment)
}

// Decrement handles POST /api/v1/inventory/{productId}/decrement
func (h *InventoryHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, "decrement", h.ledger.Decrement)
}

func (h *InventoryHandler) adjust(w http.ResponseWriter, r *http.Request, op string,
	apply func(ctx context.Context, productID, size string, amount int) error) {
	ctx := r.Context()
	productID := r.PathValue("productId")

	var req AdjustStockRequest
	if err := decodeJSON(w, r, h.maxBytes, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if err := apply(ctx, productID, req.Size, req.Amount); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "stock adjusted",
		slog.String("op", op),
		slog.String("product_id", productID),
		slog.String("size", req.Size),
		slog.Int("amount", req.Amount))

	h.respondStock(w, r, productID, req.Size)
}

// SetQuantity handles PUT /api/v1/inventory/{productId}/sizes/{size}
func (h *InventoryHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID := r.PathValue("productId")
	size := r.PathValue("size")

	var req SetQuantityRequest
	if err := decodeJSON(w, r, h.maxBytes, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if err := h.ledger.SetQuantity(ctx, productID, size, req.Quantity); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "stock set",
		slog.String("product_id", productID),
		slog.String("size", size),
		slog.Int("quantity", req.Quantity))

	h.respondStock(w, r, productID, size)
}

// Stock handles GET /api/v1/inventory/{productId}/stock?size=S&quantity=N.
// With quantity the response also says whether that many units are available.
func (h *InventoryHandler) Stock(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")
	size := r.URL.Query().Get("size")
	if strings.TrimSpace(size) == "" {
		respondError(w, r, h.logger, domain.Validationf("size is required"))
		return
	}

	raw := r.URL.Query().Get("quantity")
	if raw == "" {
		h.respondStock(w, r, productID, size)
		return
	}

	qty, err := strconv.Atoi(raw)
	if err != nil || qty < 0 {
		respondError(w, r, h.logger, domain.Validationf("quantity must be a non-negative integer"))
		return
	}
	ok, err := h.ledger.HasStock(r.Context(), productID, size, qty)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]any{
		"productId": productID,
		"size":      size,
		"quantity":  qty,
		"inStock":   ok,
	})
}

func (h *InventoryHandler) respondStock(w http.ResponseWriter, r *http.Request, productID, size string) {
	available, err := h.ledger.AvailableStock(r.Context(), productID, size)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, StockResponse{
		ProductID: productID,
		Size:      size,
		Available: available,
	})
}
