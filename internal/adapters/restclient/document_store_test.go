package restclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/catalog-be/internal/adapters/restclient"
	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/query"
	"github.com/ammerola/catalog-be/test/helpers"
)

func newStore(t *testing.T, handler http.HandlerFunc) *restclient.DocumentStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := restclient.NewDocumentStore(restclient.Config{
		BaseURL:    srv.URL,
		Timeout:    2 * time.Second,
		MaxRetries: 2,
	}, nil, helpers.TestLogger())
	require.NoError(t, err)
	return store
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestDocumentStore_FindEncodesQuery(t *testing.T) {
	var got url.Values
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/products", r.URL.Path)
		got = r.URL.Query()
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": "64b7f0000000000000000001", "name": "Camiseta", "price": 150},
		})
	})

	q, err := query.Translate(url.Values{
		"price[gte]": {"100"},
		"price[lte]": {"200"},
		"order":      {"price.desc"},
		"limit":      {"2"},
	})
	require.NoError(t, err)

	docs, err := store.Find(context.Background(), "products", q)
	require.NoError(t, err)

	assert.Equal(t, "100", got.Get("price[gte]"))
	assert.Equal(t, "200", got.Get("price[lte]"))
	assert.Equal(t, "price.desc", got.Get("order"))
	assert.Equal(t, "2", got.Get("limit"))

	require.Len(t, docs, 1)
	assert.Equal(t, "64b7f0000000000000000001", docs[0][domain.FieldKey])
	assert.NotContains(t, docs[0], domain.FieldID)
	assert.Equal(t, "64b7f0000000000000000001", domain.Normalize(docs[0]).ID())
}

func TestDocumentStore_Writes(t *testing.T) {
	type call struct {
		method string
		path   string
		query  url.Values
		body   any
	}
	var last call

	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		last = call{method: r.Method, path: r.URL.Path, query: r.URL.Query()}
		if len(raw) > 0 {
			assert.NoError(t, json.Unmarshal(raw, &last.body))
		}

		doc := map[string]any{"id": "64b7f0000000000000000009", "name": "Sudadera"}
		if r.URL.Path == "/api/products" {
			writeJSON(w, http.StatusOK, []any{doc})
			return
		}
		writeJSON(w, http.StatusOK, doc)
	})
	ctx := context.Background()
	filter := query.TranslateFilter(url.Values{"brand[eq]": {"Adidas"}})

	t.Run("insert_many_posts_array", func(t *testing.T) {
		docs, err := store.InsertMany(ctx, "products", []domain.Document{{"name": "Sudadera"}})
		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, last.method)
		assert.IsType(t, []any{}, last.body)
		assert.Equal(t, "64b7f0000000000000000009", docs[0][domain.FieldKey])
	})

	t.Run("update_many_patches_with_filter", func(t *testing.T) {
		_, err := store.UpdateMany(ctx, "products", filter, domain.Document{"color": "rojo"})
		require.NoError(t, err)
		assert.Equal(t, http.MethodPatch, last.method)
		assert.Equal(t, "Adidas", last.query.Get("brand[eq]"))
		assert.Equal(t, map[string]any{"color": "rojo"}, last.body)
	})

	t.Run("update_by_id", func(t *testing.T) {
		doc, err := store.UpdateByID(ctx, "products", "64b7f0000000000000000009", domain.Document{"color": "rojo"})
		require.NoError(t, err)
		assert.Equal(t, http.MethodPatch, last.method)
		assert.Equal(t, "/api/products/64b7f0000000000000000009", last.path)
		assert.Equal(t, "Sudadera", doc["name"])
	})

	t.Run("delete_many", func(t *testing.T) {
		_, err := store.DeleteMany(ctx, "products", filter)
		require.NoError(t, err)
		assert.Equal(t, http.MethodDelete, last.method)
		assert.Equal(t, "Adidas", last.query.Get("brand[eq]"))
	})

	t.Run("delete_by_id", func(t *testing.T) {
		_, err := store.DeleteByID(ctx, "products", "64b7f0000000000000000009")
		require.NoError(t, err)
		assert.Equal(t, http.MethodDelete, last.method)
		assert.Equal(t, "/api/products/64b7f0000000000000000009", last.path)
	})
}

func TestDocumentStore_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		wantErr error
	}{
		{name: "not_found", status: http.StatusNotFound, body: map[string]string{"error": "Document not found"}, wantErr: domain.ErrNotFound},
		{name: "too_large", status: http.StatusRequestEntityTooLarge, body: map[string]string{"error": "document too large"}, wantErr: domain.ErrPayloadTooLarge},
		{name: "bad_request", status: http.StatusBadRequest, body: map[string]string{"error": "invalid limit"}, wantErr: domain.ErrValidation},
		{name: "unavailable", status: http.StatusServiceUnavailable, body: map[string]string{"status": "error"}, wantErr: domain.ErrStoreUnreachable},
		{name: "server_error", status: http.StatusInternalServerError, body: "boom", wantErr: domain.ErrStoreFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := store.FindByID(context.Background(), "products", "64b7f0000000000000000001")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDocumentStore_TooLargeCarriesServerMessage(t *testing.T) {
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "document exceeds 16777216 bytes"})
	})

	_, err := store.InsertMany(context.Background(), "products", []domain.Document{{"name": "x"}})
	require.ErrorIs(t, err, domain.ErrPayloadTooLarge)
	assert.Contains(t, err.Error(), "16777216")
}

func TestDocumentStore_NetworkErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	store, err := restclient.NewDocumentStore(restclient.Config{BaseURL: srv.URL, Timeout: time.Second}, nil, helpers.TestLogger())
	require.NoError(t, err)

	_, err = store.Find(context.Background(), "products", query.Query{})
	assert.ErrorIs(t, err, domain.ErrStoreUnreachable)

	assert.ErrorIs(t, store.Ping(context.Background()), domain.ErrStoreUnreachable)
}

func TestDocumentStore_RetriesReadsOnly(t *testing.T) {
	var attempts atomic.Int32
	var hijackFirst atomic.Bool
	hijackFirst.Store(true)

	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		if hijackFirst.CompareAndSwap(true, false) {
			if conn, _, err := w.(http.Hijacker).Hijack(); err == nil {
				conn.Close()
			}
			return
		}
		writeJSON(w, http.StatusOK, []any{})
	})

	docs, err := store.Find(context.Background(), "products", query.Query{})
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestDocumentStore_Ping(t *testing.T) {
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "connected"})
	})
	assert.NoError(t, store.Ping(context.Background()))
}

func TestNewDocumentStore_InvalidURL(t *testing.T) {
	_, err := restclient.NewDocumentStore(restclient.Config{BaseURL: "not a url"}, nil, helpers.TestLogger())
	assert.Error(t, err)
}
