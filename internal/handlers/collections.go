// internal/handlers/collections.go
package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/ports"
)

// CollectionsHandler exposes the generic document proxy under /api/{collection}
type CollectionsHandler struct {
	docs     ports.DocumentService
	maxBytes int64
	logger   *slog.Logger
}

// NewCollectionsHandler creates a new collections handler
func NewCollectionsHandler(docs ports.DocumentService, maxBodyBytes int64, logger *slog.Logger) *CollectionsHandler {
	return &CollectionsHandler{
		docs:     docs,
		maxBytes: maxBodyBytes,
		logger:   logger.With(slog.String("handler", "collections")),
	}
}

// List handles GET /api/{collection}
func (h *CollectionsHandler) List(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")

	docs, err := h.docs.List(r.Context(), collection, r.URL.Query())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.DebugContext(r.Context(), "documents listed",
		slog.String("collection", collection),
		slog.Int("count", len(docs)))
	respondJSON(w, h.logger, http.StatusOK, docs)
}

// Get handles GET /api/{collection}/{id}
func (h *CollectionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docs.Get(r.Context(), r.PathValue("collection"), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, doc)
}

// Create handles POST /api/{collection}. An array body inserts every element
// and answers with an array; an object body answers with one document.
func (h *CollectionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")

	var raw json.RawMessage
	if err := decodeJSON(w, r, h.maxBytes, &raw); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if isJSONArray(raw) {
		var docs []domain.Document
		if err := json.Unmarshal(raw, &docs); err != nil {
			respondError(w, r, h.logger, domain.Validationf("body must be an array of objects"))
			return
		}
		inserted, err := h.docs.InsertMany(r.Context(), collection, docs)
		if err != nil {
			respondError(w, r, h.logger, err)
			return
		}
		h.logger.InfoContext(r.Context(), "documents inserted",
			slog.String("collection", collection),
			slog.Int("count", len(inserted)))
		respondJSON(w, h.logger, http.StatusOK, inserted)
		return
	}

	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		respondError(w, r, h.logger, domain.Validationf("body must be a JSON object or array"))
		return
	}
	inserted, err := h.docs.InsertOne(r.Context(), collection, doc)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	h.logger.InfoContext(r.Context(), "document inserted",
		slog.String("collection", collection),
		slog.String("id", inserted.ID()))
	respondJSON(w, h.logger, http.StatusOK, inserted)
}

// Update handles PATCH /api/{collection}?filters
func (h *CollectionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")

	patch, ok := h.decodePatch(w, r)
	if !ok {
		return
	}

	updated, err := h.docs.Update(r.Context(), collection, r.URL.Query(), patch)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "documents updated",
		slog.String("collection", collection),
		slog.Int("count", len(updated)))
	respondJSON(w, h.logger, http.StatusOK, updated)
}

// UpdateByID handles PATCH /api/{collection}/{id}
func (h *CollectionsHandler) UpdateByID(w http.ResponseWriter, r *http.Request) {
	patch, ok := h.decodePatch(w, r)
	if !ok {
		return
	}

	updated, err := h.docs.UpdateByID(r.Context(), r.PathValue("collection"), r.PathValue("id"), patch)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, updated)
}

// Delete handles DELETE /api/{collection}?filters
func (h *CollectionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")

	deleted, err := h.docs.Delete(r.Context(), collection, r.URL.Query())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "documents deleted",
		slog.String("collection", collection),
		slog.Int("count", len(deleted)))
	respondJSON(w, h.logger, http.StatusOK, deleted)
}

// DeleteByID handles DELETE /api/{collection}/{id}
func (h *CollectionsHandler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.docs.DeleteByID(r.Context(), r.PathValue("collection"), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, deleted)
}

func (h *CollectionsHandler) decodePatch(w http.ResponseWriter, r *http.Request) (domain.Document, bool) {
	var patch domain.Document
	if err := decodeJSON(w, r, h.maxBytes, &patch); err != nil {
		respondError(w, r, h.logger, err)
		return nil, false
	}
	if patch == nil {
		respondError(w, r, h.logger, domain.Validationf("body must be a JSON object"))
		return nil, false
	}
	return patch, true
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
