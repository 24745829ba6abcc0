// internal/core/domain/document.go
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is a schema-flexible record as stored in a collection.
type Document map[string]any

const (
	// FieldID is the client-facing identifier field.
	FieldID = "id"
	// FieldKey is the store's primary key field.
	FieldKey = "_id"
	// FieldCreatedAt is stamped on insert and never changes afterwards.
	FieldCreatedAt = "created_at"

	// timestampLayout matches ISO-8601 UTC with millisecond precision.
	timestampLayout = "2006-01-02T15:04:05.000Z"
)

// Collections served by default.
const (
	CollectionProducts = "products"
	CollectionSales    = "sales"
)

// immutableFields cannot be changed once a document exists.
var immutableFields = []string{FieldID, FieldKey, FieldCreatedAt}

// Timestamp formats t the way created_at values are stored.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ParseTimestamp accepts stored created_at values.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// ID returns the client-facing identifier of a normalized document.
func (d Document) ID() string {
	if id, ok := d[FieldID].(string); ok {
		return id
	}
	return ""
}

// Clone returns a shallow copy.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Mutable returns a copy without the immutable fields, suitable as a $set payload.
func (d Document) Mutable() Document {
	out := d.Clone()
	for _, f := range immutableFields {
		delete(out, f)
	}
	return out
}

// Apply assigns each entry of set in place. Dotted keys address nested
// objects, which are created when missing.
func (d Document) Apply(set Document) {
	for k, v := range set {
		parts := strings.Split(k, ".")
		target := map[string]any(d)
		for _, p := range parts[:len(parts)-1] {
			next, ok := target[p].(map[string]any)
			if !ok {
				next = make(map[string]any)
				target[p] = next
			}
			target = next
		}
		target[parts[len(parts)-1]] = v
	}
}

// ForInsert drops any client-supplied identifier and stamps created_at if absent.
func (d Document) ForInsert(now time.Time) Document {
	out := d.Clone()
	delete(out, FieldID)
	delete(out, FieldKey)
	if v, ok := out[FieldCreatedAt]; !ok || v == nil || v == "" {
		out[FieldCreatedAt] = Timestamp(now)
	}
	return out
}

// Normalize renames the store key to the client-facing id string.
func Normalize(d Document) Document {
	out := make(Document, len(d))
	for k, v := range d {
		switch tv := v.(type) {
		case primitive.DateTime:
			out[k] = tv.Time().UTC()
		default:
			out[k] = v
		}
	}

	key, ok := out[FieldKey]
	if !ok {
		return out
	}
	delete(out, FieldKey)

	switch id := key.(type) {
	case primitive.ObjectID:
		out[FieldID] = id.Hex()
	case string:
		out[FieldID] = id
	default:
		out[FieldID] = fmt.Sprint(id)
	}
	return out
}

// NormalizeAll applies Normalize to every document.
func NormalizeAll(docs []Document) []Document {
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, Normalize(d))
	}
	return out
}

// IsObjectIDHex reports whether s is a 24-character hexadecimal identifier.
func IsObjectIDHex(s string) bool {
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}

// decodeRecord decodes everything but created_at, which is parsed leniently
// since clients may supply their own value on insert.
func decodeRecord(d Document, out any) (time.Time, error) {
	body := d.Clone()
	raw := body[FieldCreatedAt]
	delete(body, FieldCreatedAt)
	if err := DecodeDocument(body, out); err != nil {
		return time.Time{}, err
	}

	switch v := raw.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		if ts, err := ParseTimestamp(v); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, nil
}

// DecodeDocument converts a normalized document into a typed record.
func DecodeDocument(d Document, out any) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}
