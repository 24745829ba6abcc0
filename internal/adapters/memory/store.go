// internal/adapters/memory/store.go
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/ports"
	"github.com/ammerola/catalog-be/internal/core/query"
)

// Store is an in-process DocumentStore used by tests, the seeder dry run and
// the "memory" store driver. Documents are deep-copied on the way in and out.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
	maxDocBytes int
	logger      *slog.Logger
}

type collection struct {
	order []primitive.ObjectID
	docs  map[primitive.ObjectID]domain.Document
}

var _ ports.DocumentStore = (*Store)(nil)

// Option configures a Store
type Option func(*Store)

// WithMaxDocumentBytes rejects documents whose JSON encoding exceeds n bytes.
func WithMaxDocumentBytes(n int) Option {
	return func(s *Store) { s.maxDocBytes = n }
}

// NewStore creates an empty store
func NewStore(logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		collections: make(map[string]*collection),
		logger:      logger.With(slog.String("repository", "memory")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) coll(name string) *collection {
	c, ok := s.collections[name]
	if !ok {
		c = &collection{docs: make(map[primitive.ObjectID]domain.Document)}
		s.collections[name] = c
	}
	return c
}

// matching returns the ids of matching documents in insertion order.
func (c *collection) matching(f query.Filter) []primitive.ObjectID {
	var ids []primitive.ObjectID
	for _, id := range c.order {
		if f.Matches(c.docs[id]) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (c *collection) remove(id primitive.ObjectID) {
	delete(c.docs, id)
	for i, o := range c.order {
		if o == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// Find returns matching documents, sorted and limited.
func (s *Store) Find(ctx context.Context, collection string, q query.Query) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	c := s.collections[collection]
	var out []domain.Document
	if c != nil {
		for _, id := range c.matching(q.Filter) {
			out = append(out, cloneDocument(c.docs[id]))
		}
	}
	s.mu.RUnlock()

	query.SortDocuments(out, q.Sort)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	if out == nil {
		out = []domain.Document{}
	}
	return out, nil
}

// FindByID returns domain.ErrNotFound for unknown or malformed ids.
func (s *Store) FindByID(ctx context.Context, collection, id string) (domain.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.collections[collection]
	if c == nil {
		return nil, domain.ErrNotFound
	}
	doc, ok := c.docs[oid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneDocument(doc), nil
}

// InsertMany assigns fresh ObjectIDs and stores the documents.
func (s *Store) InsertMany(ctx context.Context, collection string, docs []domain.Document) ([]domain.Document, error) {
	for _, d := range docs {
		if err := s.checkSize(d); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.coll(collection)
	out := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		doc := cloneDocument(d)
		id := primitive.NewObjectID()
		doc[query.PrimaryKey] = id
		c.docs[id] = doc
		c.order = append(c.order, id)
		out = append(out, cloneDocument(doc))
	}

	s.logger.DebugContext(ctx, "documents inserted",
		slog.String("collection", collection),
		slog.Int("count", len(out)))

	return out, nil
}

// UpdateMany merges set into every match, then returns what matches filter
// once the update is applied.
func (s *Store) UpdateMany(ctx context.Context, collection string, filter query.Filter, set domain.Document) ([]domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.coll(collection)
	ids := c.matching(filter)

	updated := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		doc := cloneDocument(c.docs[id])
		doc.Apply(cloneDocument(set))
		if err := s.checkSize(doc); err != nil {
			return nil, err
		}
		updated = append(updated, doc)
	}

	for i, id := range ids {
		c.docs[id] = updated[i]
	}

	after := c.matching(filter)
	out := make([]domain.Document, 0, len(after))
	for _, id := range after {
		out = append(out, cloneDocument(c.docs[id]))
	}
	return out, nil
}

// UpdateByID merges set into one document.
func (s *Store) UpdateByID(ctx context.Context, collection, id string, set domain.Document) (domain.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	docs, err := s.UpdateMany(ctx, collection, query.ByID(oid), set)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domain.ErrNotFound
	}
	return docs[0], nil
}

// DeleteMany removes every match and returns what was removed.
func (s *Store) DeleteMany(ctx context.Context, collection string, filter query.Filter) ([]domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.coll(collection)
	ids := c.matching(filter)
	out := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.docs[id])
		c.remove(id)
	}
	return out, nil
}

// DeleteByID removes one document.
func (s *Store) DeleteByID(ctx context.Context, collection, id string) (domain.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	docs, err := s.DeleteMany(ctx, collection, query.ByID(oid))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domain.ErrNotFound
	}
	return docs[0], nil
}

// Ping always succeeds unless the context is done.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close drops all data.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	s.collections = make(map[string]*collection)
	s.mu.Unlock()
	return nil
}

func (s *Store) checkSize(doc domain.Document) error {
	if s.maxDocBytes <= 0 {
		return nil
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
	}
	if len(raw) > s.maxDocBytes {
		return fmt.Errorf("%w: document is %d bytes, limit is %d", domain.ErrPayloadTooLarge, len(raw), s.maxDocBytes)
	}
	return nil
}

func cloneDocument(d domain.Document) domain.Document {
	out := make(domain.Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, e := range tv {
			out[k] = cloneValue(e)
		}
		return out
	case domain.Document:
		return map[string]any(cloneDocument(tv))
	case map[string]int:
		out := make(map[string]any, len(tv))
		for k, e := range tv {
			out[k] = e
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = e
		}
		return out
	}
	return v
}
