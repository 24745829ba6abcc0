// internal/core/services/documents.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/ports"
	"github.com/ammerola/catalog-be/internal/core/query"
)

// DocumentService is the collection-generic facade over a DocumentStore. It
// owns identity normalization and the immutable-field rules.
type DocumentService struct {
	store       ports.DocumentStore
	collections map[string]bool
	logger      *slog.Logger
	now         func() time.Time

	mu        sync.RWMutex
	listeners []ports.ChangeListener
}

// Statically assert that *DocumentService implements the DocumentService interface.
var _ ports.DocumentService = (*DocumentService)(nil)

// NewDocumentService creates the facade. An empty collections list serves
// every collection.
func NewDocumentService(store ports.DocumentStore, collections []string, logger *slog.Logger) *DocumentService {
	allowed := make(map[string]bool, len(collections))
	for _, c := range collections {
		allowed[c] = true
	}
	return &DocumentService{
		store:       store,
		collections: allowed,
		logger:      logger.With(slog.String("service", "documents")),
		now:         time.Now,
	}
}

// Subscribe registers a listener notified after every successful write.
func (s *DocumentService) Subscribe(l ports.ChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *DocumentService) notify(ctx context.Context, collection string) {
	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()

	for _, l := range listeners {
		l.CollectionChanged(ctx, collection)
	}
}

func (s *DocumentService) checkCollection(collection string) error {
	if len(s.collections) > 0 && !s.collections[collection] {
		return fmt.Errorf("collection %q: %w", collection, domain.ErrNotFound)
	}
	return nil
}

// storeError keeps classified store errors and marks everything else as a
// generic store failure.
func storeError(op, collection string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrPayloadTooLarge),
		errors.Is(err, domain.ErrStoreUnreachable),
		errors.Is(err, domain.ErrStoreFailure):
		return fmt.Errorf("failed to %s %s: %w", op, collection, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("failed to %s %s: %w: %v", op, collection, domain.ErrStoreUnreachable, err)
	}
	return fmt.Errorf("failed to %s %s: %w: %v", op, collection, domain.ErrStoreFailure, err)
}

// List translates params and returns the matching documents.
func (s *DocumentService) List(ctx context.Context, collection string, params url.Values) ([]domain.Document, error) {
	if err := s.checkCollection(collection); err != nil {
		return nil, err
	}

	q, err := query.Translate(params)
	if err != nil {
		return nil, err
	}

	docs, err := s.store.Find(ctx, collection, q)
	if err != nil {
		s.logger.ErrorContext(ctx, "list failed",
			slog.String("collection", collection),
			slog.String("error", err.Error()))
		return nil, storeError("list", collection, err)
	}

	return domain.NormalizeAll(docs), nil
}

// Get returns one document or domain.ErrNotFound.
func (s *DocumentService) Get(ctx context.Context, collection, id string) (domain.Document, error) {
	if err := s.checkCollection(collection); err != nil {
		return nil, err
	}

	doc, err := s.store.FindByID(ctx, collection, id)
	if err != nil {
		return nil, storeError("get", collection, err)
	}
	return domain.Normalize(doc), nil
}

// InsertOne stores a single document.
func (s *DocumentService) InsertOne(ctx context.Context, collection string, doc domain.Document) (domain.Document, error) {
	docs, err := s.InsertMany(ctx, collection, []domain.Document{doc})
	if err != nil {
		return nil, err
	}
	return docs[0], nil
}

// InsertMany strips client identifiers, stamps created_at and stores the
// documents in order.
func (s *DocumentService) InsertMany(ctx context.Context, collection string, docs []domain.Document) ([]domain.Document, error) {
	if err := s.checkCollection(collection); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domain.Validationf("no documents to insert")
	}

	now := s.now()
	prepared := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		prepared = append(prepared, d.ForInsert(now))
	}

	inserted, err := s.store.InsertMany(ctx, collection, prepared)
	if err != nil {
		s.logger.ErrorContext(ctx, "insert failed",
			slog.String("collection", collection),
			slog.Int("count", len(prepared)),
			slog.String("error", err.Error()))
		return nil, storeError("insert into", collection, err)
	}

	s.logger.InfoContext(ctx, "documents inserted",
		slog.String("collection", collection),
		slog.Int("count", len(inserted)))
	s.notify(ctx, collection)

	return domain.NormalizeAll(inserted), nil
}

// Update merges patch into every document matching params.
func (s *DocumentService) Update(ctx context.Context, collection string, params url.Values, patch domain.Document) ([]domain.Document, error) {
	if err := s.checkCollection(collection); err != nil {
		return nil, err
	}

	set := patch.Mutable()
	if len(set) == 0 {
		return nil, domain.Validationf("update payload has no mutable fields")
	}

	docs, err := s.store.UpdateMany(ctx, collection, query.TranslateFilter(params), set)
	if err != nil {
		s.logger.ErrorContext(ctx, "update failed",
			slog.String("collection", collection),
			slog.String("error", err.Error()))
		return nil, storeError("update", collection, err)
	}

	s.logger.InfoContext(ctx, "documents updated",
		slog.String("collection", collection),
		slog.Int("count", len(docs)))
	s.notify(ctx, collection)

	return domain.NormalizeAll(docs), nil
}

// UpdateByID merges patch into a single document.
func (s *DocumentService) UpdateByID(ctx context.Context, collection, id string, patch domain.Document) (domain.Document, error) {
	if err := s.checkCollection(collection); err != nil {
		return nil, err
	}

	set := patch.Mutable()
	if len(set) == 0 {
		return nil, domain.Validationf("update payload has no mutable fields")
	}

	doc, err := s.store.UpdateByID(ctx, collection, id, set)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.ErrorContext(ctx, "update by id failed",
				slog.String("collection", collection),
				slog.String("id", id),
				slog.String("error", err.Error()))
		}
		return nil, storeError("update", collection, err)
	}

	s.notify(ctx, collection)
	return domain.Normalize(doc), nil
}

// Delete removes every document matching params and returns them.
func (s *DocumentService) Delete(ctx context.Context, collection string, params url.Values) ([]domain.Document, error) {
	if err := s.checkCollection(collection); err != nil {
		return nil, err
	}

	docs, err := s.store.DeleteMany(ctx, collection, query.TranslateFilter(params))
	if err != nil {
		s.logger.ErrorContext(ctx, "delete failed",
			slog.String("collection", collection),
			slog.String("error", err.Error()))
		return nil, storeError("delete from", collection, err)
	}

	s.logger.InfoContext(ctx, "documents deleted",
		slog.String("collection", collection),
		slog.Int("count", len(docs)))
	s.notify(ctx, collection)

	return domain.NormalizeAll(docs), nil
}

// DeleteByID removes one document and returns it.
func (s *DocumentService) DeleteByID(ctx context.Context, collection, id string) (domain.Document, error) {
	if err := s.checkCollection(collection); err != nil {
		return nil, err
	}

	doc, err := s.store.DeleteByID(ctx, collection, id)
	if err != nil {
		return nil, storeError("delete from", collection, err)
	}

	s.notify(ctx, collection)
	return domain.Normalize(doc), nil
}

// Ping checks store connectivity.
func (s *DocumentService) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return storeError("ping", "store", err)
	}
	return nil
}
