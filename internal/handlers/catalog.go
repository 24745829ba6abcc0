// internal/handlers/catalog.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/ports"
)

// CatalogHandler serves the public catalog and the product admin endpoints
type CatalogHandler struct {
	catalog  ports.CatalogService
	maxBytes int64
	logger   *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog ports.CatalogService, maxBodyBytes int64, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		maxBytes: maxBodyBytes,
		logger:   logger.With(slog.String("handler", "catalog")),
	}
}

// ListProducts handles GET /api/v1/catalog/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params, err := parseSearchParams(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	products, err := h.catalog.Search(r.Context(), params)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, products)
}

// GetProduct handles GET /api/v1/catalog/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, product)
}

// CreateProduct handles POST /api/v1/catalog/products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := decodeJSON(w, r, h.maxBytes, &product); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	created, err := h.catalog.CreateProduct(r.Context(), &product)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "product created",
		slog.String("product_id", created.ID),
		slog.String("name", created.Name))
	respondJSON(w, h.logger, http.StatusCreated, created)
}

// UpdateProduct handles PUT /api/v1/catalog/products/{id}
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var product domain.Product
	if err := decodeJSON(w, r, h.maxBytes, &product); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	updated, err := h.catalog.UpdateProduct(r.Context(), id, &product)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "product updated",
		slog.String("product_id", id))
	respondJSON(w, h.logger, http.StatusOK, updated)
}

// Facets handles GET /api/v1/catalog/facets
func (h *CatalogHandler) Facets(w http.ResponseWriter, r *http.Request) {
	facets, err := h.catalog.Facets(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, facets)
}

func parseSearchParams(r *http.Request) (ports.SearchParams, error) {
	q := r.URL.Query()
	params := ports.SearchParams{
		Text:        q.Get("q"),
		Category:    q.Get("category"),
		Subcategory: q.Get("subcategory"),
		Brand:       q.Get("brand"),
		Color:       q.Get("color"),
		Gender:      q.Get("gender"),
		Size:        q.Get("size"),
	}

	if raw := q.Get("in_stock"); raw != "" {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			return params, domain.Validationf("in_stock must be a boolean")
		}
		params.InStock = inStock
	}
	return params, nil
}
