// internal/adapters/restclient/document_store.go
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/ports"
	"github.com/ammerola/catalog-be/internal/core/query"
)

// Config points the store at another instance of the collections API
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries uint64
}

// DocumentStore implements ports.DocumentStore over the /api/{collection}
// HTTP surface. Reads are retried on transport errors; writes are not.
type DocumentStore struct {
	baseURL    *url.URL
	client     *http.Client
	maxRetries uint64
	logger     *slog.Logger
}

// Statically assert that *DocumentStore implements the DocumentStore interface.
var _ ports.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates a remote store. client may be nil.
func NewDocumentStore(cfg Config, client *http.Client, logger *slog.Logger) (*DocumentStore, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid remote base URL %q", cfg.BaseURL)
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &DocumentStore{
		baseURL:    base,
		client:     client,
		maxRetries: cfg.MaxRetries,
		logger:     logger.With(slog.String("repository", "remote_document_store")),
	}, nil
}

// Find lists the documents matching q.
func (s *DocumentStore) Find(ctx context.Context, collection string, q query.Query) ([]domain.Document, error) {
	var docs []domain.Document
	if err := s.do(ctx, http.MethodGet, s.endpoint(collection, "", q.Values()), nil, &docs); err != nil {
		return nil, err
	}
	return toStoreShape(docs), nil
}

// FindByID returns one document or domain.ErrNotFound.
func (s *DocumentStore) FindByID(ctx context.Context, collection, id string) (domain.Document, error) {
	var doc domain.Document
	if err := s.do(ctx, http.MethodGet, s.endpoint(collection, id, nil), nil, &doc); err != nil {
		return nil, err
	}
	return storeShape(doc), nil
}

// InsertMany posts the documents as one array.
func (s *DocumentStore) InsertMany(ctx context.Context, collection string, docs []domain.Document) ([]domain.Document, error) {
	var out []domain.Document
	if err := s.do(ctx, http.MethodPost, s.endpoint(collection, "", nil), docs, &out); err != nil {
		return nil, err
	}
	return toStoreShape(out), nil
}

// UpdateMany patches every document matching filter.
func (s *DocumentStore) UpdateMany(ctx context.Context, collection string, filter query.Filter, set domain.Document) ([]domain.Document, error) {
	var out []domain.Document
	values := query.Query{Filter: filter}.Values()
	if err := s.do(ctx, http.MethodPatch, s.endpoint(collection, "", values), set, &out); err != nil {
		return nil, err
	}
	return toStoreShape(out), nil
}

// UpdateByID patches one document.
func (s *DocumentStore) UpdateByID(ctx context.Context, collection, id string, set domain.Document) (domain.Document, error) {
	var out domain.Document
	if err := s.do(ctx, http.MethodPatch, s.endpoint(collection, id, nil), set, &out); err != nil {
		return nil, err
	}
	return storeShape(out), nil
}

// DeleteMany deletes every document matching filter.
func (s *DocumentStore) DeleteMany(ctx context.Context, collection string, filter query.Filter) ([]domain.Document, error) {
	var out []domain.Document
	values := query.Query{Filter: filter}.Values()
	if err := s.do(ctx, http.MethodDelete, s.endpoint(collection, "", values), nil, &out); err != nil {
		return nil, err
	}
	return toStoreShape(out), nil
}

// DeleteByID deletes one document.
func (s *DocumentStore) DeleteByID(ctx context.Context, collection, id string) (domain.Document, error) {
	var out domain.Document
	if err := s.do(ctx, http.MethodDelete, s.endpoint(collection, id, nil), nil, &out); err != nil {
		return nil, err
	}
	return storeShape(out), nil
}

// Ping checks the remote health endpoint.
func (s *DocumentStore) Ping(ctx context.Context) error {
	u := *s.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/health"
	return s.do(ctx, http.MethodGet, u.String(), nil, nil)
}

// Close releases idle connections.
func (s *DocumentStore) Close(_ context.Context) error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *DocumentStore) endpoint(collection, id string, values url.Values) string {
	u := *s.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/api/" + url.PathEscape(collection)
	if id != "" {
		u.Path += "/" + url.PathEscape(id)
	}
	if len(values) > 0 {
		u.RawQuery = values.Encode()
	}
	return u.String()
}

// do sends one request and decodes the JSON response into out.
func (s *DocumentStore) do(ctx context.Context, method, target string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", domain.ErrStoreFailure, err)
		}
	}

	var resp *http.Response
	send := func() error {
		req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %v", domain.ErrStoreFailure, err))
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err = s.client.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return backoff.Permanent(ctxErr)
			}
			s.logger.WarnContext(ctx, "remote store request failed",
				slog.String("method", method),
				slog.String("url", target),
				slog.String("error", err.Error()))
			return fmt.Errorf("%w: %v", domain.ErrStoreUnreachable, err)
		}
		return nil
	}

	var err error
	if method == http.MethodGet && s.maxRetries > 0 {
		policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.maxRetries), ctx)
		err = backoff.Retry(send, policy)
	} else {
		err = send()
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Err
		}
	}
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", domain.ErrStoreFailure, err)
	}
	return nil
}

// statusError maps a failed response onto the domain error taxonomy.
func statusError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	case resp.StatusCode == http.StatusRequestEntityTooLarge:
		return fmt.Errorf("%w: %s", domain.ErrPayloadTooLarge, msg)
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
	case resp.StatusCode == http.StatusServiceUnavailable, resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", domain.ErrStoreUnreachable, msg)
	default:
		return fmt.Errorf("%w: remote returned %d: %s", domain.ErrStoreFailure, resp.StatusCode, msg)
	}
}

// storeShape renames the client-facing id back to the store key so the
// facade can normalize remote documents like any other store's.
func storeShape(d domain.Document) domain.Document {
	if d == nil {
		return nil
	}
	out := d.Clone()
	if id, ok := out[domain.FieldID]; ok {
		delete(out, domain.FieldID)
		out[domain.FieldKey] = id
	}
	return out
}

func toStoreShape(docs []domain.Document) []domain.Document {
	out := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, storeShape(d))
	}
	return out
}
