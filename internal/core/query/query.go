// internal/core/query/query.go
package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Operator is a bracketed filter operator from the query string.
type Operator string

const (
	OpEq    Operator = "eq"
	OpNeq   Operator = "neq"
	OpGt    Operator = "gt"
	OpGte   Operator = "gte"
	OpLt    Operator = "lt"
	OpLte   Operator = "lte"
	OpLike  Operator = "like"
	OpILike Operator = "ilike"
	OpIn    Operator = "in"
)

// IsValid reports whether op is one of the supported operators.
func (op Operator) IsValid() bool {
	switch op {
	case OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpLike, OpILike, OpIn:
		return true
	}
	return false
}

// Reserved query keys that never become filter clauses.
const (
	KeySelect = "select"
	KeyOrder  = "order"
	KeyLimit  = "limit"
)

// PrimaryKey is the store-side identifier field.
const PrimaryKey = "_id"

// Condition is one operator applied to one field.
//
// Value holds the translated operand: primitive.ObjectID for parsed
// identifiers, float64 for numeric relational operands, string otherwise,
// and []any for OpIn. Raw keeps the query-string text so the condition can
// be re-encoded.
type Condition struct {
	Field    string
	RawField string
	Op       Operator
	Value    any
	Raw      string
}

// Filter is the conjunction of all conditions, ordered by query key.
type Filter struct {
	Conditions []Condition
}

// IsEmpty reports whether the filter matches every document.
func (f Filter) IsEmpty() bool {
	return len(f.Conditions) == 0
}

// Fields returns the distinct condition fields in order.
func (f Filter) Fields() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range f.Conditions {
		if !seen[c.Field] {
			seen[c.Field] = true
			out = append(out, c.Field)
		}
	}
	return out
}

// ForField returns the conditions on a single field.
func (f Filter) ForField(field string) []Condition {
	var out []Condition
	for _, c := range f.Conditions {
		if c.Field == field {
			out = append(out, c)
		}
	}
	return out
}

// ByID builds the filter selecting a single document by primary key.
func ByID(id primitive.ObjectID) Filter {
	return Filter{Conditions: []Condition{{
		Field:    PrimaryKey,
		RawField: PrimaryKey,
		Op:       OpEq,
		Value:    id,
		Raw:      id.Hex(),
	}}}
}

// Sort orders results by one field.
type Sort struct {
	Field      string
	Descending bool
}

// Query is a translated list request.
type Query struct {
	Filter Filter
	Sort   []Sort
	Limit  int
	Select []string
}

// Values re-encodes the query in the bracketed query-string form.
func (q Query) Values() url.Values {
	v := url.Values{}
	for _, c := range q.Filter.Conditions {
		v.Set(c.RawField+"["+string(c.Op)+"]", c.Raw)
	}
	if len(q.Sort) > 0 {
		parts := make([]string, 0, len(q.Sort))
		for _, s := range q.Sort {
			dir := "asc"
			if s.Descending {
				dir = "desc"
			}
			parts = append(parts, s.Field+"."+dir)
		}
		v.Set(KeyOrder, strings.Join(parts, ","))
	}
	if q.Limit > 0 {
		v.Set(KeyLimit, strconv.Itoa(q.Limit))
	}
	if len(q.Select) > 0 {
		v.Set(KeySelect, strings.Join(q.Select, ","))
	}
	return v
}

// sortedKeys gives a deterministic iteration order over url.Values.
func sortedKeys(values url.Values) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
