package memory_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ammerola/catalog-be/internal/adapters/memory"
	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/query"
	"github.com/ammerola/catalog-be/test/helpers"
)

func seed(t *testing.T, store *memory.Store, docs ...domain.Document) []domain.Document {
	t.Helper()
	inserted, err := store.InsertMany(context.Background(), "products", docs)
	require.NoError(t, err)
	return inserted
}

func mustQuery(t *testing.T, raw string) query.Query {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	q, err := query.Translate(values)
	require.NoError(t, err)
	return q
}

func TestStore_InsertAssignsObjectIDs(t *testing.T) {
	store := memory.NewStore(helpers.TestLogger())

	inserted := seed(t, store,
		domain.Document{"name": "a"},
		domain.Document{"name": "b"},
	)

	require.Len(t, inserted, 2)
	for _, d := range inserted {
		_, ok := d["_id"].(primitive.ObjectID)
		assert.True(t, ok)
	}
	assert.NotEqual(t, inserted[0]["_id"], inserted[1]["_id"])
}

func TestStore_FindByIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(helpers.TestLogger())
	inserted := seed(t, store, domain.Document{"name": "a", "price": float64(10)})
	id := inserted[0]["_id"].(primitive.ObjectID).Hex()

	doc, err := store.FindByID(ctx, "products", id)
	require.NoError(t, err)
	assert.Equal(t, "a", doc["name"])

	docs, err := store.Find(ctx, "products", mustQuery(t, "id[eq]="+id))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, inserted[0], docs[0])
}

func TestStore_FindByIDNotFound(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(helpers.TestLogger())
	seed(t, store, domain.Document{"name": "a"})

	tests := []struct {
		name       string
		collection string
		id         string
	}{
		{name: "unknown_id", collection: "products", id: primitive.NewObjectID().Hex()},
		{name: "malformed_id", collection: "products", id: "nope"},
		{name: "unknown_collection", collection: "sales", id: primitive.NewObjectID().Hex()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.FindByID(ctx, tt.collection, tt.id)
			assert.True(t, errors.Is(err, domain.ErrNotFound))
		})
	}
}

func TestStore_FindSortsAndLimits(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(helpers.TestLogger())
	for _, price := range []float64{50, 120, 180, 250, 150} {
		seed(t, store, domain.Document{"price": price})
	}

	docs, err := store.Find(ctx, "products", mustQuery(t, "price[gte]=100&price[lte]=200&order=price.desc&limit=2"))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, float64(180), docs[0]["price"])
	assert.Equal(t, float64(150), docs[1]["price"])
}

func TestStore_ReturnedDocumentsAreCopies(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(helpers.TestLogger())
	inserted := seed(t, store, domain.Document{"inventory": map[string]any{"S": 2}})
	id := inserted[0]["_id"].(primitive.ObjectID).Hex()

	inserted[0]["inventory"].(map[string]any)["S"] = 99

	doc, err := store.FindByID(ctx, "products", id)
	require.NoError(t, err)
	assert.Equal(t, 2, doc["inventory"].(map[string]any)["S"])
}

func TestStore_UpdateMany(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(helpers.TestLogger())
	seed(t, store,
		domain.Document{"category": "football", "color": "red"},
		domain.Document{"category": "football", "color": "blue"},
		domain.Document{"category": "casual", "color": "red"},
	)

	updated, err := store.UpdateMany(ctx, "products",
		mustQuery(t, "category[eq]=football").Filter,
		domain.Document{"featured": true, "inventory.S": 3})
	require.NoError(t, err)
	require.Len(t, updated, 2)
	for _, d := range updated {
		assert.Equal(t, true, d["featured"])
		assert.Equal(t, 3, d["inventory"].(map[string]any)["S"])
	}

	untouched, err := store.Find(ctx, "products", mustQuery(t, "category[eq]=casual"))
	require.NoError(t, err)
	require.Len(t, untouched, 1)
	assert.NotContains(t, untouched[0], "featured")
}

func TestStore_UpdateMany_MovedOutOfFilter(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(helpers.TestLogger())
	seed(t, store,
		domain.Document{"name": "Buzo", "category": "casual"},
		domain.Document{"name": "Jogger", "category": "casual"},
	)

	updated, err := store.UpdateMany(ctx, "products",
		mustQuery(t, "category[eq]=casual").Filter,
		domain.Document{"category": "formal"})
	require.NoError(t, err)
	assert.Empty(t, updated)

	moved, err := store.Find(ctx, "products", mustQuery(t, "category[eq]=formal"))
	require.NoError(t, err)
	assert.Len(t, moved, 2)
}

func TestStore_UpdateByIDNotFound(t *testing.T) {
	store := memory.NewStore(helpers.TestLogger())

	_, err := store.UpdateByID(context.Background(), "products", primitive.NewObjectID().Hex(), domain.Document{"a": 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(helpers.TestLogger())
	inserted := seed(t, store,
		domain.Document{"color": "red"},
		domain.Document{"color": "blue"},
		domain.Document{"color": "red"},
	)

	deleted, err := store.DeleteMany(ctx, "products", mustQuery(t, "color[eq]=red").Filter)
	require.NoError(t, err)
	assert.Len(t, deleted, 2)

	remaining, err := store.Find(ctx, "products", query.Query{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, inserted[1]["_id"], remaining[0]["_id"])

	id := inserted[1]["_id"].(primitive.ObjectID).Hex()
	doc, err := store.DeleteByID(ctx, "products", id)
	require.NoError(t, err)
	assert.Equal(t, "blue", doc["color"])

	_, err = store.DeleteByID(ctx, "products", id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_MaxDocumentBytes(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(helpers.TestLogger(), memory.WithMaxDocumentBytes(64))

	_, err := store.InsertMany(ctx, "products", []domain.Document{{"images": strings.Repeat("x", 128)}})
	assert.ErrorIs(t, err, domain.ErrPayloadTooLarge)
	assert.False(t, errors.Is(err, domain.ErrStoreUnreachable))

	inserted := seed(t, store, domain.Document{"name": "small"})
	_, err = store.UpdateMany(ctx, "products", query.Filter{}, domain.Document{"images": strings.Repeat("x", 128)})
	assert.ErrorIs(t, err, domain.ErrPayloadTooLarge)

	doc, err := store.FindByID(ctx, "products", inserted[0]["_id"].(primitive.ObjectID).Hex())
	require.NoError(t, err)
	assert.NotContains(t, doc, "images")
}
