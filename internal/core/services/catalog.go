// internal/core/services/catalog.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/ports"
)

const (
	catalogKeyPrefix   = "catalog"
	catalogProductsKey = catalogKeyPrefix + ":products"
	catalogFacetsKey   = catalogKeyPrefix + ":facets"
)

// CatalogService serves the typed product catalog. Searches run in memory over
// the full product set, which is cached and dropped on any product write.
type CatalogService struct {
	docs   ports.DocumentService
	cache  ports.CacheRepository
	ttl    time.Duration
	logger *slog.Logger
}

// Statically assert the interfaces implemented by *CatalogService.
var (
	_ ports.CatalogService = (*CatalogService)(nil)
	_ ports.ChangeListener = (*CatalogService)(nil)
)

// NewCatalogService creates a catalog service. cache may be nil.
func NewCatalogService(docs ports.DocumentService, cache ports.CacheRepository, ttl time.Duration, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		docs:   docs,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(slog.String("service", "catalog")),
	}
}

// CollectionChanged drops cached catalog data after product writes.
func (s *CatalogService) CollectionChanged(ctx context.Context, collection string) {
	if collection != domain.CollectionProducts || s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, catalogKeyPrefix+":*"); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate catalog cache",
			slog.String("error", err.Error()))
	}
}

// allProducts returns every product, newest first.
func (s *CatalogService) allProducts(ctx context.Context) ([]*domain.Product, error) {
	fetch := func() ([]*domain.Product, error) {
		docs, err := s.docs.List(ctx, domain.CollectionProducts, url.Values{"order": {"created_at.desc"}})
		if err != nil {
			return nil, err
		}

		products := make([]*domain.Product, 0, len(docs))
		for _, d := range docs {
			p, err := domain.ProductFromDocument(d)
			if err != nil {
				s.logger.WarnContext(ctx, "skipping unreadable product",
					slog.String("id", d.ID()),
					slog.String("error", err.Error()))
				continue
			}
			products = append(products, p)
		}
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		})
		return products, nil
	}

	if s.cache == nil {
		return fetch()
	}

	var (
		products []*domain.Product
		fetchErr error
	)
	err := s.cache.GetOrSet(ctx, catalogProductsKey, &products, func() (any, error) {
		fetched, err := fetch()
		fetchErr = err
		return fetched, err
	}, s.ttl)
	if fetchErr != nil {
		return nil, fetchErr
	}
	if err != nil {
		s.logger.WarnContext(ctx, "catalog cache unavailable, served from store",
			slog.String("error", err.Error()))
		return fetch()
	}
	return products, nil
}

// Search filters the catalog in memory.
func (s *CatalogService) Search(ctx context.Context, params ports.SearchParams) ([]*domain.Product, error) {
	products, err := s.allProducts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if matchesSearch(p, params) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Facets lists the distinct filter values over the whole catalog.
func (s *CatalogService) Facets(ctx context.Context) (*domain.Facets, error) {
	build := func() (*domain.Facets, error) {
		products, err := s.allProducts(ctx)
		if err != nil {
			return nil, err
		}
		return domain.BuildFacets(products), nil
	}

	if s.cache == nil {
		return build()
	}

	var (
		facets   domain.Facets
		buildErr error
	)
	err := s.cache.GetOrSet(ctx, catalogFacetsKey, &facets, func() (any, error) {
		built, err := build()
		buildErr = err
		return built, err
	}, s.ttl)
	if buildErr != nil {
		return nil, buildErr
	}
	if err != nil {
		return build()
	}
	return &facets, nil
}

// GetProduct returns a typed product.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	doc, err := s.docs.Get(ctx, domain.CollectionProducts, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
		}
		return nil, err
	}
	return domain.ProductFromDocument(doc)
}

// CreateProduct validates and stores a new product.
func (s *CatalogService) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	doc, err := s.docs.InsertOne(ctx, domain.CollectionProducts, p.ToDocument())
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	created, err := domain.ProductFromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("id", created.ID),
		slog.String("name", created.Name),
		slog.Int("stock", created.TotalStock()))

	return created, nil
}

// UpdateProduct validates and replaces the mutable fields of a product.
// Optional fields left empty are cleared.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, p *domain.Product) (*domain.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	doc, err := s.docs.UpdateByID(ctx, domain.CollectionProducts, id, p.ReplacementDocument())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return domain.ProductFromDocument(doc)
}

func matchesSearch(p *domain.Product, params ports.SearchParams) bool {
	if text := strings.ToLower(strings.TrimSpace(params.Text)); text != "" {
		found := false
		for _, field := range []string{p.Name, p.Brand, p.Color, p.Subcategory} {
			if strings.Contains(strings.ToLower(field), text) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	exact := []struct{ want, got string }{
		{params.Category, string(p.Category)},
		{params.Subcategory, p.Subcategory},
		{params.Brand, p.Brand},
		{params.Color, p.Color},
		{params.Gender, string(p.Gender)},
	}
	for _, e := range exact {
		if e.want != "" && e.want != e.got {
			return false
		}
	}

	if params.Size != "" && !slices.Contains(p.Sizes, params.Size) {
		return false
	}
	if params.InStock && p.TotalStock() == 0 {
		return false
	}
	return true
}
