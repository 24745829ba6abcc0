// internal/adapters/mongodb/document_store.go
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/ports"
	"github.com/ammerola/catalog-be/internal/core/query"
)

// Server error codes reported for documents over the BSON size limit.
var tooLargeCodes = []int{10334, 17419, 17420}

// Config holds MongoDB connection settings
type Config struct {
	URI              string
	Database         string
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration
	MaxPoolSize      uint64
	MaxDocumentBytes int
}

// DocumentStore implements ports.DocumentStore on a MongoDB database.
type DocumentStore struct {
	client      *mongo.Client
	db          *mongo.Database
	maxDocBytes int
	logger      *slog.Logger
}

var _ ports.DocumentStore = (*DocumentStore)(nil)

// Connect dials MongoDB, verifies the primary is reachable and returns a store
// bound to cfg.Database.
func Connect(ctx context.Context, cfg *Config, logger *slog.Logger) (*DocumentStore, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout).SetServerSelectionTimeout(cfg.ConnectTimeout)
	}
	if cfg.OperationTimeout > 0 {
		opts.SetTimeout(cfg.OperationTimeout)
	}
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to mongodb: %v", domain.ErrStoreUnreachable, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: failed to ping mongodb: %v", domain.ErrStoreUnreachable, err)
	}

	logger.Info("mongodb connection established",
		slog.String("database", cfg.Database))

	return NewDocumentStore(client, cfg.Database, cfg.MaxDocumentBytes, logger), nil
}

// NewDocumentStore wraps an already connected client
func NewDocumentStore(client *mongo.Client, database string, maxDocBytes int, logger *slog.Logger) *DocumentStore {
	return &DocumentStore{
		client:      client,
		db:          client.Database(database),
		maxDocBytes: maxDocBytes,
		logger:      logger.With(slog.String("repository", "mongodb")),
	}
}

// Find returns matching documents, sorted and limited.
func (s *DocumentStore) Find(ctx context.Context, collection string, q query.Query) ([]domain.Document, error) {
	opts := options.Find().SetSort(compileSort(q.Sort))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.db.Collection(collection).Find(ctx, compileFilter(q.Filter), opts)
	if err != nil {
		return nil, classifyError(err)
	}
	return s.decodeAll(ctx, cursor)
}

// FindByID returns domain.ErrNotFound for unknown or malformed ids.
func (s *DocumentStore) FindByID(ctx context.Context, collection, id string) (domain.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	var raw bson.M
	if err := s.db.Collection(collection).FindOne(ctx, bson.M{query.PrimaryKey: oid}).Decode(&raw); err != nil {
		return nil, classifyError(err)
	}
	return fromBSON(raw), nil
}

// InsertMany assigns ObjectIDs up front so the stored documents can be
// returned without a second read.
func (s *DocumentStore) InsertMany(ctx context.Context, collection string, docs []domain.Document) ([]domain.Document, error) {
	payload := make([]any, 0, len(docs))
	out := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		doc := d.Clone()
		doc[query.PrimaryKey] = primitive.NewObjectID()
		if err := s.checkSize(doc); err != nil {
			return nil, err
		}
		payload = append(payload, bson.M(doc))
		out = append(out, doc)
	}

	if _, err := s.db.Collection(collection).InsertMany(ctx, payload); err != nil {
		return nil, classifyError(err)
	}

	s.logger.DebugContext(ctx, "documents inserted",
		slog.String("collection", collection),
		slog.Int("count", len(out)))

	return out, nil
}

// UpdateMany resolves the matching ids first so exactly that set is updated,
// then returns what matches filter once the update is applied.
func (s *DocumentStore) UpdateMany(ctx context.Context, collection string, filter query.Filter, set domain.Document) ([]domain.Document, error) {
	ids, err := s.matchingIDs(ctx, collection, filter)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Document{}, nil
	}

	byIDs := bson.M{query.PrimaryKey: bson.M{"$in": ids}}
	coll := s.db.Collection(collection)
	if _, err := coll.UpdateMany(ctx, byIDs, bson.M{"$set": bson.M(set)}); err != nil {
		return nil, classifyError(err)
	}

	cursor, err := coll.Find(ctx, compileFilter(filter), options.Find().SetSort(compileSort(nil)))
	if err != nil {
		return nil, classifyError(err)
	}
	return s.decodeAll(ctx, cursor)
}

// UpdateByID applies set to one document and returns the updated version.
func (s *DocumentStore) UpdateByID(ctx context.Context, collection, id string, set domain.Document) (domain.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var raw bson.M
	err = s.db.Collection(collection).
		FindOneAndUpdate(ctx, bson.M{query.PrimaryKey: oid}, bson.M{"$set": bson.M(set)}, opts).
		Decode(&raw)
	if err != nil {
		return nil, classifyError(err)
	}
	return fromBSON(raw), nil
}

// DeleteMany removes every match and returns the removed documents.
func (s *DocumentStore) DeleteMany(ctx context.Context, collection string, filter query.Filter) ([]domain.Document, error) {
	coll := s.db.Collection(collection)

	cursor, err := coll.Find(ctx, compileFilter(filter), options.Find().SetSort(compileSort(nil)))
	if err != nil {
		return nil, classifyError(err)
	}
	docs, err := s.decodeAll(ctx, cursor)
	if err != nil || len(docs) == 0 {
		return docs, err
	}

	ids := make([]any, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d[query.PrimaryKey])
	}
	if _, err := coll.DeleteMany(ctx, bson.M{query.PrimaryKey: bson.M{"$in": ids}}); err != nil {
		return nil, classifyError(err)
	}
	return docs, nil
}

// DeleteByID removes one document and returns it.
func (s *DocumentStore) DeleteByID(ctx context.Context, collection, id string) (domain.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	var raw bson.M
	if err := s.db.Collection(collection).FindOneAndDelete(ctx, bson.M{query.PrimaryKey: oid}).Decode(&raw); err != nil {
		return nil, classifyError(err)
	}
	return fromBSON(raw), nil
}

// Ping runs the admin ping against the primary.
func (s *DocumentStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnreachable, err)
	}
	return nil
}

// Close disconnects the client.
func (s *DocumentStore) Close(ctx context.Context) error {
	s.logger.Info("closing mongodb connection")
	return s.client.Disconnect(ctx)
}

func (s *DocumentStore) matchingIDs(ctx context.Context, collection string, filter query.Filter) ([]any, error) {
	opts := options.Find().
		SetProjection(bson.M{query.PrimaryKey: 1}).
		SetSort(compileSort(nil))

	cursor, err := s.db.Collection(collection).Find(ctx, compileFilter(filter), opts)
	if err != nil {
		return nil, classifyError(err)
	}
	defer cursor.Close(ctx)

	var ids []any
	for cursor.Next(ctx) {
		ids = append(ids, cursor.Current.Lookup(query.PrimaryKey))
	}
	if err := cursor.Err(); err != nil {
		return nil, classifyError(err)
	}
	return ids, nil
}

func (s *DocumentStore) decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]domain.Document, error) {
	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, classifyError(err)
	}

	out := make([]domain.Document, 0, len(raw))
	for _, r := range raw {
		out = append(out, fromBSON(r))
	}
	return out, nil
}

func (s *DocumentStore) checkSize(doc domain.Document) error {
	if s.maxDocBytes <= 0 {
		return nil
	}
	raw, err := bson.Marshal(bson.M(doc))
	if err != nil {
		return fmt.Errorf("%w: document cannot be encoded: %v", domain.ErrValidation, err)
	}
	if len(raw) > s.maxDocBytes {
		return fmt.Errorf("%w: document is %d bytes, limit is %d", domain.ErrPayloadTooLarge, len(raw), s.maxDocBytes)
	}
	return nil
}

// fromBSON converts driver containers into plain maps and slices so documents
// look the same whichever store produced them.
func fromBSON(m bson.M) domain.Document {
	out := make(domain.Document, len(m))
	for k, v := range m {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch tv := v.(type) {
	case bson.M:
		return map[string]any(fromBSON(tv))
	case bson.D:
		m := make(map[string]any, len(tv))
		for _, e := range tv {
			m[e.Key] = plainValue(e.Value)
		}
		return m
	case bson.A:
		out := make([]any, 0, len(tv))
		for _, e := range tv {
			out = append(out, plainValue(e))
		}
		return out
	}
	return v
}

// classifyError maps driver errors onto the domain taxonomy. Context errors
// pass through unchanged.
func classifyError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case isTooLarge(err):
		return fmt.Errorf("%w: %v", domain.ErrPayloadTooLarge, err)
	case mongo.IsNetworkError(err), mongo.IsTimeout(err), errors.Is(err, mongo.ErrClientDisconnected):
		return fmt.Errorf("%w: %v", domain.ErrStoreUnreachable, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreFailure, err)
}

func isTooLarge(err error) bool {
	var se mongo.ServerError
	if !errors.As(err, &se) {
		return false
	}
	for _, code := range tooLargeCodes {
		if se.HasErrorCode(code) {
			return true
		}
	}
	return false
}
