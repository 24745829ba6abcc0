// internal/core/query/translate.go
package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ammerola/catalog-be/internal/core/domain"
)

// Translate converts bracketed query parameters into a Query.
//
// Keys of the form field[op] become conditions; select, order and limit are
// reserved. Unknown operators and keys without brackets are ignored. Only a
// malformed limit is reported as an error.
func Translate(values url.Values) (Query, error) {
	var q Query

	for _, key := range sortedKeys(values) {
		raw := values.Get(key)

		switch key {
		case KeySelect:
			q.Select = splitList(raw)
			continue
		case KeyOrder:
			q.Sort = parseOrder(raw)
			continue
		case KeyLimit:
			limit, err := parseLimit(raw)
			if err != nil {
				return Query{}, err
			}
			q.Limit = limit
			continue
		}

		if c, ok := translateKey(key, raw); ok {
			q.Filter.Conditions = append(q.Filter.Conditions, c)
		}
	}

	return q, nil
}

// TranslateFilter converts only the filter part of the parameters.
func TranslateFilter(values url.Values) Filter {
	var f Filter
	for _, key := range sortedKeys(values) {
		if key == KeySelect || key == KeyOrder || key == KeyLimit {
			continue
		}
		if c, ok := translateKey(key, values.Get(key)); ok {
			f.Conditions = append(f.Conditions, c)
		}
	}
	return f
}

func translateKey(key, raw string) (Condition, bool) {
	field, op, ok := splitKey(key)
	if !ok || !op.IsValid() || !isPlainField(field) {
		return Condition{}, false
	}

	if isIDField(field) {
		if c, handled, ok := translateIDCondition(field, op, raw); handled {
			return c, ok
		}
	}

	c := Condition{Field: field, RawField: field, Op: op, Raw: raw}

	switch op {
	case OpEq, OpNeq, OpLike, OpILike:
		c.Value = raw
	case OpGt, OpGte, OpLt, OpLte:
		c.Value = numericOrString(raw)
	case OpIn:
		parts := strings.Split(raw, ",")
		values := make([]any, 0, len(parts))
		for _, p := range parts {
			values = append(values, p)
		}
		c.Value = values
	}

	return c, true
}

// translateIDCondition handles identifier fields. handled is false when the
// value is not identifier-shaped and generic handling should apply.
func translateIDCondition(field string, op Operator, raw string) (c Condition, handled bool, ok bool) {
	target := field
	if field == "id" {
		target = PrimaryKey
	}

	if op == OpIn {
		parts := strings.Split(raw, ",")
		values := make([]any, 0, len(parts))
		parsed := 0
		for _, p := range parts {
			if oid, err := primitive.ObjectIDFromHex(p); err == nil {
				values = append(values, oid)
				parsed++
				continue
			}
			values = append(values, p)
		}
		if parsed == 0 {
			return Condition{}, false, false
		}
		return Condition{Field: target, RawField: field, Op: op, Value: values, Raw: raw}, true, true
	}

	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return Condition{}, false, false
	}

	switch op {
	case OpEq, OpNeq:
		return Condition{Field: target, RawField: field, Op: op, Value: oid, Raw: raw}, true, true
	}

	// Relational and pattern operators on a parsed identifier add no clause.
	return Condition{}, true, false
}

// isPlainField rejects paths with a segment the store would read as an
// operator, such as $where or inventory.$gt.
func isPlainField(field string) bool {
	for _, segment := range strings.Split(field, ".") {
		if strings.HasPrefix(segment, "$") {
			return false
		}
	}
	return true
}

func isIDField(field string) bool {
	return field == "id" || field == PrimaryKey || strings.HasSuffix(field, "_id")
}

func splitKey(key string) (string, Operator, bool) {
	if !strings.HasSuffix(key, "]") {
		return "", "", false
	}
	open := strings.LastIndex(key, "[")
	if open <= 0 || open >= len(key)-2 {
		return "", "", false
	}
	return key[:open], Operator(key[open+1 : len(key)-1]), true
}

// numericOrString accepts only a complete finite number. Partial numbers
// such as "12abc" stay strings and "0" is numeric.
func numericOrString(raw string) any {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return raw
	}
	return f
}

func parseOrder(raw string) []Sort {
	var out []Sort
	for _, part := range splitList(raw) {
		s := Sort{Field: part}
		if dot := strings.LastIndex(part, "."); dot > 0 {
			switch strings.ToLower(part[dot+1:]) {
			case "desc":
				s = Sort{Field: part[:dot], Descending: true}
			case "asc":
				s = Sort{Field: part[:dot]}
			}
		}
		if s.Field == "id" {
			s.Field = PrimaryKey
		}
		out = append(out, s)
	}
	return out
}

func parseLimit(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, domain.Validationf("limit must be a non-negative integer, got %q", raw)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
