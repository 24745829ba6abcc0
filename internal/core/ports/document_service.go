// internal/core/ports/document_service.go
package ports

import (
	"context"
	"net/url"

	"github.com/ammerola/catalog-be/internal/core/domain"
)

// DocumentService is the collection-generic facade consumed by the HTTP proxy
// and by the ledger and sales services. Returned documents carry a string "id".
type DocumentService interface {
	List(ctx context.Context, collection string, params url.Values) ([]domain.Document, error)
	Get(ctx context.Context, collection, id string) (domain.Document, error)
	InsertOne(ctx context.Context, collection string, doc domain.Document) (domain.Document, error)
	InsertMany(ctx context.Context, collection string, docs []domain.Document) ([]domain.Document, error)
	Update(ctx context.Context, collection string, params url.Values, patch domain.Document) ([]domain.Document, error)
	UpdateByID(ctx context.Context, collection, id string, patch domain.Document) (domain.Document, error)
	Delete(ctx context.Context, collection string, params url.Values) ([]domain.Document, error)
	DeleteByID(ctx context.Context, collection, id string) (domain.Document, error)
	Ping(ctx context.Context) error
}

// ChangeListener is notified after a successful write to a collection.
type ChangeListener interface {
	CollectionChanged(ctx context.Context, collection string)
}
