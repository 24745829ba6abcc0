// internal/core/ports/document_store.go
package ports

import (
	"context"

	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/query"
)

// DocumentStore defines the persistence port for schema-flexible collections.
// Implementations return raw documents keyed by the store's primary key
// ("_id"); identity normalization is left to the caller.
type DocumentStore interface {
	Find(ctx context.Context, collection string, q query.Query) ([]domain.Document, error)
	// FindByID returns domain.ErrNotFound when id does not resolve.
	FindByID(ctx context.Context, collection, id string) (domain.Document, error)
	InsertMany(ctx context.Context, collection string, docs []domain.Document) ([]domain.Document, error)
	// UpdateMany merges set into every match and returns what matches filter
	// after the update.
	UpdateMany(ctx context.Context, collection string, filter query.Filter, set domain.Document) ([]domain.Document, error)
	UpdateByID(ctx context.Context, collection, id string, set domain.Document) (domain.Document, error)
	DeleteMany(ctx context.Context, collection string, filter query.Filter) ([]domain.Document, error)
	DeleteByID(ctx context.Context, collection, id string) (domain.Document, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
