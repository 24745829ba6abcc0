// internal/core/query/match.go
package query

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Matches evaluates the filter against a document held in memory. The
// semantics follow the document store: array fields match when any element
// matches, relational operators only compare values of the same kind, and a
// negated match succeeds on a missing field.
func (f Filter) Matches(doc map[string]any) bool {
	for _, c := range f.Conditions {
		if !c.Matches(doc) {
			return false
		}
	}
	return true
}

// Matches evaluates a single condition.
func (c Condition) Matches(doc map[string]any) bool {
	value, found := Lookup(doc, c.Field)

	switch c.Op {
	case OpEq:
		return found && anyElement(value, func(v any) bool { return equalValues(v, c.Value) })
	case OpNeq:
		return !found || !anyElement(value, func(v any) bool { return equalValues(v, c.Value) })
	case OpGt, OpGte, OpLt, OpLte:
		if !found {
			return false
		}
		return anyElement(value, func(v any) bool {
			cmp, ok := compareValues(v, c.Value)
			if !ok {
				return false
			}
			switch c.Op {
			case OpGt:
				return cmp > 0
			case OpGte:
				return cmp >= 0
			case OpLt:
				return cmp < 0
			default:
				return cmp <= 0
			}
		})
	case OpLike, OpILike:
		pattern, _ := c.Value.(string)
		if c.Op == OpILike {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil || !found {
			return false
		}
		return anyElement(value, func(v any) bool {
			s, ok := v.(string)
			return ok && re.MatchString(s)
		})
	case OpIn:
		candidates, _ := c.Value.([]any)
		if !found {
			return false
		}
		return anyElement(value, func(v any) bool {
			for _, candidate := range candidates {
				if equalValues(v, candidate) {
					return true
				}
			}
			return false
		})
	}

	return false
}

// Lookup resolves a dotted path inside nested maps.
func Lookup(doc map[string]any, path string) (any, bool) {
	if v, ok := doc[path]; ok {
		return v, true
	}

	parts := strings.Split(path, ".")
	var current any = doc
	for _, part := range parts {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// SortDocuments orders docs in place by the given keys.
func SortDocuments[D ~map[string]any](docs []D, keys []Sort) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, k := range keys {
			a, _ := Lookup(docs[i], k.Field)
			b, _ := Lookup(docs[j], k.Field)
			cmp := orderValues(a, b)
			if cmp == 0 {
				continue
			}
			if k.Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case primitive.M:
		return m, true
	case map[string]int:
		out := make(map[string]any, len(m))
		for k, n := range m {
			out[k] = n
		}
		return out, true
	}
	return nil, false
}

func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case primitive.A:
		return s, true
	case []string:
		out := make([]any, 0, len(s))
		for _, e := range s {
			out = append(out, e)
		}
		return out, true
	}
	return nil, false
}

func anyElement(value any, pred func(any) bool) bool {
	if pred(value) {
		return true
	}
	if elems, ok := asSlice(value); ok {
		for _, e := range elems {
			if pred(e) {
				return true
			}
		}
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	}
	return time.Time{}, false
}

func equalValues(a, b any) bool {
	cmp, ok := compareValues(a, b)
	if ok {
		return cmp == 0
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ab, aok := a.(bool)
	bb, bok := b.(bool)
	return aok && bok && ab == bb
}

// compareValues orders two scalars of the same kind. ok is false when the
// kinds differ.
func compareValues(a, b any) (int, bool) {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return compareFloat(af, bf), true
		}
		return 0, false
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.Compare(as, bs), true
		}
		return 0, false
	}
	if ao, ok := a.(primitive.ObjectID); ok {
		if bo, ok := b.(primitive.ObjectID); ok {
			return strings.Compare(ao.Hex(), bo.Hex()), true
		}
		return 0, false
	}
	if at, ok := toTime(a); ok {
		if bt, ok := toTime(b); ok {
			return at.Compare(bt), true
		}
	}
	return 0, false
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// typeRank follows the store's cross-type sort order.
func typeRank(v any) int {
	if v == nil {
		return 0
	}
	if _, ok := toFloat(v); ok {
		return 1
	}
	if _, ok := v.(string); ok {
		return 2
	}
	if _, ok := asMap(v); ok {
		return 3
	}
	if _, ok := asSlice(v); ok {
		return 4
	}
	if _, ok := v.(primitive.ObjectID); ok {
		return 5
	}
	if _, ok := v.(bool); ok {
		return 6
	}
	if _, ok := toTime(v); ok {
		return 7
	}
	return 8
}

func orderValues(a, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return ra - rb
	}
	if cmp, ok := compareValues(a, b); ok {
		return cmp
	}
	ab, aok := a.(bool)
	bb, bok := b.(bool)
	if aok && bok && ab != bb {
		if !ab {
			return -1
		}
		return 1
	}
	return 0
}
