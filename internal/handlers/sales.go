// internal/handlers/sales.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/ports"
)

// SalesHandler handles sale recording and the sales summary
type SalesHandler struct {
	sales    ports.SalesRecorder
	reports  ports.ReportService
	maxBytes int64
	logger   *slog.Logger
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(sales ports.SalesRecorder, reports ports.ReportService, maxBodyBytes int64, logger *slog.Logger) *SalesHandler {
	return &SalesHandler{
		sales:    sales,
		reports:  reports,
		maxBytes: maxBodyBytes,
		logger:   logger.With(slog.String("handler", "sales")),
	}
}

// RecordSale handles POST /api/v1/sales
func (h *SalesHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in domain.SaleInput
	if err := decodeJSON(w, r, h.maxBytes, &in); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	sale, err := h.sales.RecordSale(ctx, in)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "sale recorded",
		slog.String("sale_id", sale.ID),
		slog.String("product_id", sale.ProductID),
		slog.String("size", sale.Size),
		slog.Int("quantity", sale.Quantity))

	respondJSON(w, h.logger, http.StatusCreated, sale)
}

// DeleteSale handles DELETE /api/v1/sales/{id}
func (h *SalesHandler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	sale, err := h.sales.DeleteSale(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, sale)
}

// Summary handles GET /api/v1/sales/summary?from=&to=
func (h *SalesHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.SalesSummary(r.Context(), periodFromQuery(r))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, summary)
}

func periodFromQuery(r *http.Request) domain.Period {
	q := r.URL.Query()
	return domain.Period{From: q.Get("from"), To: q.Get("to")}
}
