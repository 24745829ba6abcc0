package domain_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ammerola/catalog-be/internal/core/domain"
)

func TestDocument_ForInsert(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		doc         domain.Document
		wantCreated string
	}{
		{
			name:        "strips_client_ids_and_stamps_created_at",
			doc:         domain.Document{"id": "abc", "_id": "def", "name": "Gorra"},
			wantCreated: "2025-03-01T12:00:00.000Z",
		},
		{
			name:        "keeps_existing_created_at",
			doc:         domain.Document{"name": "Gorra", "created_at": "2024-01-01T00:00:00.000Z"},
			wantCreated: "2024-01-01T00:00:00.000Z",
		},
		{
			name:        "replaces_empty_created_at",
			doc:         domain.Document{"name": "Gorra", "created_at": ""},
			wantCreated: "2025-03-01T12:00:00.000Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.doc.ForInsert(now)
			assert.NotContains(t, out, "id")
			assert.NotContains(t, out, "_id")
			assert.Equal(t, tt.wantCreated, out["created_at"])
			assert.Equal(t, "Gorra", out["name"])
		})
	}
}

func TestDocument_Mutable(t *testing.T) {
	in := domain.Document{"id": "x", "_id": "y", "created_at": "z", "price": 10.0}
	out := in.Mutable()

	assert.Equal(t, domain.Document{"price": 10.0}, out)
	assert.Len(t, in, 4, "input must not be modified")
}

func TestNormalize(t *testing.T) {
	oid := primitive.NewObjectID()
	when := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	out := domain.Normalize(domain.Document{
		"_id":  oid,
		"name": "Campera",
		"at":   primitive.NewDateTimeFromTime(when),
	})

	assert.Equal(t, oid.Hex(), out["id"])
	assert.NotContains(t, out, "_id")
	assert.Equal(t, when, out["at"])
	assert.Equal(t, oid.Hex(), out.ID())

	already := domain.Normalize(domain.Document{"id": "keep"})
	assert.Equal(t, "keep", already.ID())
}

func TestIsObjectIDHex(t *testing.T) {
	assert.True(t, domain.IsObjectIDHex("65f1a2b3c4d5e6f708192a3b"))
	assert.False(t, domain.IsObjectIDHex("65f1a2b3c4d5e6f708192a3"))
	assert.False(t, domain.IsObjectIDHex("zzf1a2b3c4d5e6f708192a3b"))
}

func TestTypedErrors(t *testing.T) {
	stockErr := fmt.Errorf("record sale: %w", &domain.InsufficientStockError{ProductID: "p", Size: "S", Available: 0, Requested: 1})
	assert.ErrorIs(t, stockErr, domain.ErrInsufficientStock)

	cause := fmt.Errorf("%w: timeout", domain.ErrStoreUnreachable)
	inconsistent := &domain.InconsistentStateError{Op: "record_sale", SaleID: "s1", Err: cause}
	assert.ErrorIs(t, inconsistent, domain.ErrInconsistentState)
	assert.ErrorIs(t, inconsistent, domain.ErrStoreUnreachable)

	assert.ErrorIs(t, domain.ErrProductNotFound, domain.ErrNotFound)
	assert.False(t, errors.Is(domain.ErrNotFound, domain.ErrProductNotFound))
}
