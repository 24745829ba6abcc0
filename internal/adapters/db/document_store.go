// internal/adapters/db/document_store.go
package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/ports"
	"github.com/ammerola/catalog-be/internal/core/query"
)

const (
	documentsTable = "documents"

	// pgProgramLimitExceeded is raised for values over the jsonb size limit.
	pgProgramLimitExceeded = "54000"
)

// DocumentStore keeps every collection in one JSONB table. The document body
// is stored without its key; the id column holds the hex ObjectID.
type DocumentStore struct {
	db          *sql.DB
	maxDocBytes int
	logger      *slog.Logger
}

// Statically assert that *DocumentStore implements the DocumentStore interface.
var _ ports.DocumentStore = (*DocumentStore)(nil)

// StoreOption configures a DocumentStore
type StoreOption func(*DocumentStore)

// WithMaxDocumentBytes rejects documents whose JSON encoding exceeds n bytes
// before they reach the database.
func WithMaxDocumentBytes(n int) StoreOption {
	return func(s *DocumentStore) { s.maxDocBytes = n }
}

// NewDocumentStore creates a new JSONB document store
func NewDocumentStore(db *sql.DB, logger *slog.Logger, opts ...StoreOption) *DocumentStore {
	s := &DocumentStore{
		db:     db,
		logger: logger.With(slog.String("repository", "postgres_documents")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DocumentStore) selectBuilder(collection string, f query.Filter) (squirrel.SelectBuilder, error) {
	qb := squirrel.Select(idColumn, "doc").
		From(documentsTable).
		Where(squirrel.Eq{"collection": collection}).
		PlaceholderFormat(squirrel.Dollar)

	if !f.IsEmpty() {
		pred, err := compileFilter(f)
		if err != nil {
			return qb, err
		}
		qb = qb.Where(pred)
	}
	return qb, nil
}

// Find returns matching documents, sorted and limited.
func (s *DocumentStore) Find(ctx context.Context, collection string, q query.Query) ([]domain.Document, error) {
	qb, err := s.selectBuilder(collection, q.Filter)
	if err != nil {
		return nil, err
	}

	qb = qb.OrderBy(orderClauses(q.Sort)...)
	if q.Limit > 0 {
		qb = qb.Limit(uint64(q.Limit))
	}

	sqlStr, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// FindByID returns domain.ErrNotFound for unknown or malformed ids.
func (s *DocumentStore) FindByID(ctx context.Context, collection, id string) (domain.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	docs, err := s.Find(ctx, collection, query.Query{Filter: query.ByID(oid), Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domain.ErrNotFound
	}
	return docs[0], nil
}

// InsertMany assigns fresh ObjectIDs and stores all documents in one statement.
func (s *DocumentStore) InsertMany(ctx context.Context, collection string, docs []domain.Document) ([]domain.Document, error) {
	qb := squirrel.Insert(documentsTable).
		Columns(idColumn, "collection", "doc").
		Suffix("RETURNING " + idColumn + ", doc").
		PlaceholderFormat(squirrel.Dollar)

	for _, d := range docs {
		raw, err := s.encode(d)
		if err != nil {
			return nil, err
		}
		qb = qb.Values(primitive.NewObjectID().Hex(), collection, squirrel.Expr("?::jsonb", raw))
	}

	sqlStr, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	out, err := scanDocuments(rows)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "documents inserted",
		slog.String("collection", collection),
		slog.Int("count", len(out)))

	return out, nil
}

// UpdateMany merges set into every match inside one transaction, then
// returns what matches filter once the update is applied.
func (s *DocumentStore) UpdateMany(ctx context.Context, collection string, filter query.Filter, set domain.Document) ([]domain.Document, error) {
	qb, err := s.selectBuilder(collection, filter)
	if err != nil {
		return nil, err
	}
	lockSQL, args, err := qb.OrderBy("seq ASC").Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	readSQL, _, err := qb.OrderBy("seq ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var updated []domain.Document
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, lockSQL, args...)
		if err != nil {
			return classifyError(err)
		}
		matches, err := scanDocuments(rows)
		rows.Close()
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			updated = []domain.Document{}
			return nil
		}

		for _, doc := range matches {
			doc.Apply(set)
			raw, err := s.encode(doc)
			if err != nil {
				return err
			}

			oid, _ := doc[query.PrimaryKey].(primitive.ObjectID)
			upd, uargs, err := squirrel.Update(documentsTable).
				Set("doc", squirrel.Expr("?::jsonb", raw)).
				Where(squirrel.Eq{idColumn: oid.Hex()}).
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build update: %w", err)
			}
			if _, err := tx.ExecContext(ctx, upd, uargs...); err != nil {
				return classifyError(err)
			}
		}

		rows, err = tx.QueryContext(ctx, readSQL, args...)
		if err != nil {
			return classifyError(err)
		}
		defer rows.Close()
		updated, err = scanDocuments(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateByID merges set into one document.
func (s *DocumentStore) UpdateByID(ctx context.Context, collection, id string, set domain.Document) (domain.Document, error) {
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
func (s *DocumentStore) DeleteMany(ctx context.Context, collection string, filter query.Filter) ([]domain.Document, error) {
	qb := squirrel.Delete(documentsTable).
		Where(squirrel.Eq{"collection": collection}).
		Suffix("RETURNING " + idColumn + ", doc").
		PlaceholderFormat(squirrel.Dollar)

	if !filter.IsEmpty() {
		pred, err := compileFilter(filter)
		if err != nil {
			return nil, err
		}
		qb = qb.Where(pred)
	}

	sqlStr, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build delete: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// DeleteByID removes one document.
func (s *DocumentStore) DeleteByID(ctx context.Context, collection, id string) (domain.Document, error) {
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

// Ping verifies database connectivity
func (s *DocumentStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return classifyError(err)
	}
	return nil
}

// Close is a no-op; the owning Database closes the pool.
func (s *DocumentStore) Close(ctx context.Context) error {
	return nil
}

// withTx runs fn in a transaction, rolling back on error or panic.
func (s *DocumentStore) withTx(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classifyError(err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.logger.ErrorContext(ctx, "failed to rollback transaction",
					slog.String("error", rbErr.Error()))
			}
			return
		}
		if cmErr := tx.Commit(); cmErr != nil {
			err = classifyError(cmErr)
		}
	}()

	return fn(tx)
}

// encode serializes a document body without its key.
func (s *DocumentStore) encode(d domain.Document) (string, error) {
	body := d.Clone()
	delete(body, query.PrimaryKey)

	raw, err := json.Marshal(body)
	if err != nil {
		return "", domain.Validationf("document is not serializable: %v", err)
	}
	if s.maxDocBytes > 0 && len(raw) > s.maxDocBytes {
		return "", fmt.Errorf("%w: document is %d bytes, limit is %d", domain.ErrPayloadTooLarge, len(raw), s.maxDocBytes)
	}
	return string(raw), nil
}

func scanDocuments(rows *sql.Rows) ([]domain.Document, error) {
	out := []domain.Document{}
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("%w: failed to scan document: %v", domain.ErrStoreFailure, err)
		}

		doc := domain.Document{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("%w: failed to decode document %s: %v", domain.ErrStoreFailure, id, err)
		}
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			doc[query.PrimaryKey] = oid
		} else {
			doc[query.PrimaryKey] = id
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError(err)
	}
	return out, nil
}

// classifyError maps driver errors onto the store error kinds.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgProgramLimitExceeded {
			return fmt.Errorf("%w: %s", domain.ErrPayloadTooLarge, pgErr.Message)
		}
		return fmt.Errorf("%w: %s (SQLSTATE %s)", domain.ErrStoreFailure, pgErr.Message, pgErr.Code)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnreachable, err)
	}

	return fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
}
