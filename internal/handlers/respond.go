// internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/ammerola/catalog-be/internal/core/domain"
)

// DefaultMaxBodyBytes bounds request bodies when no limit is configured
const DefaultMaxBodyBytes int64 = 50 << 20

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error     string `json:"error"`
	Available *int   `json:"available,omitempty"`
	Requested *int   `json:"requested,omitempty"`
	SaleID    string `json:"saleId,omitempty"`
}

// statusForError maps domain errors onto HTTP status codes. Inconsistent state
// is checked first because it wraps the cause of the failed second step.
func statusForError(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrInconsistentState):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrPayloadTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStoreUnreachable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

// respondError writes err with the status its kind maps to. Unclassified
// failures are logged and answered with a generic message.
func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := statusForError(err)
	body := ErrorResponse{Error: err.Error()}

	var stock *domain.InsufficientStockError
	if errors.As(err, &stock) {
		body.Available = &stock.Available
		body.Requested = &stock.Requested
	}

	var inconsistent *domain.InconsistentStateError
	if errors.As(err, &inconsistent) {
		body.SaleID = inconsistent.SaleID
	}

	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			slog.Int("status", status),
			slog.String("error", err.Error()))
		if inconsistent == nil && status == http.StatusInternalServerError {
			body.Error = http.StatusText(status)
		}
	}

	respondJSON(w, logger, status, body)
}

// decodeJSON reads at most maxBytes of the body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return domain.ErrPayloadTooLarge
		case errors.Is(err, io.EOF):
			return domain.Validationf("request body is empty")
		default:
			return domain.Validationf("invalid request body: %v", err)
		}
	}
	return nil
}
