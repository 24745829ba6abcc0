package db_test

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ammerola/catalog-be/internal/adapters/db"
	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/query"
	"github.com/ammerola/catalog-be/test/helpers"
)

func newMockStore(t *testing.T, opts ...db.StoreOption) (*db.DocumentStore, sqlmock.Sqlmock) {
	t.Helper()

	mock, sqlDB := helpers.SetupMockDB(t)
	return db.NewDocumentStore(sqlDB, helpers.TestLogger(), opts...), mock
}

func TestDocumentStore_Find(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	q, err := query.Translate(url.Values{
		"category[eq]": {"tops"},
		"order":        {"price.desc"},
		"limit":        {"10"},
	})
	require.NoError(t, err)

	oid := primitive.NewObjectID()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, doc FROM documents WHERE collection = $1")+".*"+
		regexp.QuoteMeta(`ORDER BY doc #> '{"price"}' DESC, seq ASC LIMIT 10`)).
		WithArgs("products", `"tops"`, `["tops"]`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).
			AddRow(oid.Hex(), []byte(`{"name":"Camiseta","category":"tops","price":150}`)))

	docs, err := store.Find(ctx, "products", q)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.Equal(t, oid, docs[0][query.PrimaryKey])
	assert.Equal(t, "Camiseta", docs[0]["name"])
	assert.Equal(t, float64(150), docs[0]["price"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_Find_EmptyResultIsNotNil(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, doc FROM documents WHERE collection = $1 ORDER BY seq ASC")).
		WithArgs("sales").
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}))

	docs, err := store.Find(context.Background(), "sales", query.Query{})
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_FindByID(t *testing.T) {
	oid := primitive.NewObjectID()

	tests := []struct {
		name      string
		id        string
		setup     func(mock sqlmock.Sqlmock)
		wantError error
	}{
		{
			name: "finds_existing_document",
			id:   oid.Hex(),
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("WHERE collection = $1 AND (id = $2)")).
					WithArgs("products", oid.Hex()).
					WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).
						AddRow(oid.Hex(), []byte(`{"name":"Camiseta"}`)))
			},
		},
		{
			name: "returns_not_found_for_unknown_id",
			id:   oid.Hex(),
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("WHERE collection = $1 AND (id = $2)")).
					WithArgs("products", oid.Hex()).
					WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}))
			},
			wantError: domain.ErrNotFound,
		},
		{
			name:      "returns_not_found_for_malformed_id",
			id:        "not-an-id",
			setup:     func(mock sqlmock.Sqlmock) {},
			wantError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			tt.setup(mock)

			doc, err := store.FindByID(context.Background(), "products", tt.id)
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				assert.Nil(t, doc)
			} else {
				require.NoError(t, err)
				assert.Equal(t, oid, doc[query.PrimaryKey])
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDocumentStore_InsertMany(t *testing.T) {
	store, mock := newMockStore(t)
	oid := primitive.NewObjectID()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO documents (id,collection,doc) VALUES ($1,$2,$3::jsonb) RETURNING id, doc")).
		WithArgs(sqlmock.AnyArg(), "products", `{"created_at":"2024-05-01T10:00:00.000Z","name":"Camiseta"}`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).
			AddRow(oid.Hex(), []byte(`{"created_at":"2024-05-01T10:00:00.000Z","name":"Camiseta"}`)))

	docs, err := store.InsertMany(context.Background(), "products", []domain.Document{
		{"_id": "client-id", "name": "Camiseta", "created_at": "2024-05-01T10:00:00.000Z"},
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, oid, docs[0][query.PrimaryKey])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_InsertMany_TooLarge(t *testing.T) {
	store, mock := newMockStore(t, db.WithMaxDocumentBytes(16))

	_, err := store.InsertMany(context.Background(), "products", []domain.Document{
		{"name": "a name well past sixteen bytes"},
	})
	assert.ErrorIs(t, err, domain.ErrPayloadTooLarge)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_InsertMany_DatabaseLimit(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO documents").
		WillReturnError(&pgconn.PgError{Code: "54000", Message: "value too large"})

	_, err := store.InsertMany(context.Background(), "products", []domain.Document{{"name": "x"}})
	assert.ErrorIs(t, err, domain.ErrPayloadTooLarge)
}

func TestDocumentStore_UpdateByID(t *testing.T) {
	store, mock := newMockStore(t)
	oid := primitive.NewObjectID()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE collection = $1 AND (id = $2) ORDER BY seq ASC FOR UPDATE")).
		WithArgs("products", oid.Hex()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).
			AddRow(oid.Hex(), []byte(`{"name":"Camiseta","inventory":{"S":5,"M":10}}`)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE documents SET doc = $1::jsonb WHERE id = $2")).
		WithArgs(`{"inventory":{"M":9,"S":5},"name":"Camiseta"}`, oid.Hex()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE collection = $1 AND (id = $2) ORDER BY seq ASC")).
		WithArgs("products", oid.Hex()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).
			AddRow(oid.Hex(), []byte(`{"name":"Camiseta","inventory":{"S":5,"M":9}}`)))
	mock.ExpectCommit()

	doc, err := store.UpdateByID(context.Background(), "products", oid.Hex(), domain.Document{
		"inventory.M": 9,
	})
	require.NoError(t, err)

	inventory, ok := doc["inventory"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(9), inventory["M"])
	assert.Equal(t, float64(5), inventory["S"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_UpdateByID_NotFound(t *testing.T) {
	store, mock := newMockStore(t)
	oid := primitive.NewObjectID()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("products", oid.Hex()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}))
	mock.ExpectCommit()

	_, err := store.UpdateByID(context.Background(), "products", oid.Hex(), domain.Document{"name": "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_UpdateMany_ReturnsPostUpdateMatches(t *testing.T) {
	store, mock := newMockStore(t)
	first, second := primitive.NewObjectID(), primitive.NewObjectID()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("products", `"casual"`, `["casual"]`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).
			AddRow(first.Hex(), []byte(`{"category":"casual"}`)).
			AddRow(second.Hex(), []byte(`{"category":"casual"}`)))
	mock.ExpectExec("UPDATE documents").
		WithArgs(`{"category":"formal"}`, first.Hex()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE documents").
		WithArgs(`{"category":"formal"}`, second.Hex()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`ORDER BY seq ASC$`).
		WithArgs("products", `"casual"`, `["casual"]`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}))
	mock.ExpectCommit()

	filter := query.TranslateFilter(url.Values{"category[eq]": {"casual"}})
	docs, err := store.UpdateMany(context.Background(), "products", filter, domain.Document{"category": "formal"})
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_UpdateMany_RollsBackOnError(t *testing.T) {
	store, mock := newMockStore(t)
	oid := primitive.NewObjectID()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).
			AddRow(oid.Hex(), []byte(`{"brand":"Zara"}`)))
	mock.ExpectExec("UPDATE documents").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	filter := query.TranslateFilter(url.Values{"brand[eq]": {"Zara"}})
	_, err := store.UpdateMany(context.Background(), "products", filter, domain.Document{"brand": "Mango"})
	assert.ErrorIs(t, err, domain.ErrStoreFailure)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_DeleteByID(t *testing.T) {
	store, mock := newMockStore(t)
	oid := primitive.NewObjectID()

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM documents WHERE collection = $1 AND (id = $2) RETURNING id, doc")).
		WithArgs("sales", oid.Hex()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).
			AddRow(oid.Hex(), []byte(`{"productId":"abc","quantity":2}`)))

	doc, err := store.DeleteByID(context.Background(), "sales", oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, float64(2), doc["quantity"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentStore_DeleteMany_EmptyFilterDeletesCollection(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM documents WHERE collection = $1 RETURNING id, doc")).
		WithArgs("sales").
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}))

	docs, err := store.DeleteMany(context.Background(), "sales", query.Filter{})
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
