// internal/handlers/reports.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/ports"
)

// ReportsHandler handles sales export requests
type ReportsHandler struct {
	reports  ports.ReportService
	maxBytes int64
	logger   *slog.Logger
}

// NewReportsHandler creates a new reports handler
func NewReportsHandler(reports ports.ReportService, maxBodyBytes int64, logger *slog.Logger) *ReportsHandler {
	return &ReportsHandler{
		reports:  reports,
		maxBytes: maxBodyBytes,
		logger:   logger.With(slog.String("handler", "reports")),
	}
}

// RequestSalesExport handles POST /api/v1/reports/sales with an optional
// {"from","to"} body, falling back to the query string.
func (h *ReportsHandler) RequestSalesExport(w http.ResponseWriter, r *http.Request) {
	period := periodFromQuery(r)
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, h.maxBytes, &period); err != nil {
			respondError(w, r, h.logger, err)
			return
		}
	}

	job, err := h.reports.RequestSalesExport(r.Context(), period)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", "/api/v1/reports/"+job.ID)
	respondJSON(w, h.logger, http.StatusAccepted, job)
}

// ReportStatus handles GET /api/v1/reports/{id}
func (h *ReportsHandler) ReportStatus(w http.ResponseWriter, r *http.Request) {
	job, err := h.reports.ReportStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if job.Status == domain.ReportFailed {
		h.logger.WarnContext(r.Context(), "report failed",
			slog.String("report_id", job.ID),
			slog.String("error", job.Error))
	}
	respondJSON(w, h.logger, http.StatusOK, job)
}
