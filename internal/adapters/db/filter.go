// internal/adapters/db/filter.go
package db

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/squirrel"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/core/query"
)

// idColumn holds the hex ObjectID of each document.
const idColumn = "id"

// jsonPath renders a dotted field as a quoted text[] path literal. A "?"
// in a field name is doubled so the placeholder rewrite leaves it alone.
func jsonPath(field string) string {
	parts := strings.Split(field, ".")
	for i, p := range parts {
		p = strings.ReplaceAll(p, `\`, `\\`)
		p = strings.ReplaceAll(p, `"`, `\"`)
		parts[i] = `"` + p + `"`
	}
	lit := "{" + strings.Join(parts, ",") + "}"
	lit = strings.ReplaceAll(lit, "'", "''")
	lit = strings.ReplaceAll(lit, "?", "??")
	return "'" + lit + "'"
}

// compileFilter turns a filter into a squirrel predicate over the doc column.
func compileFilter(f query.Filter) (squirrel.Sqlizer, error) {
	and := squirrel.And{}
	for _, c := range f.Conditions {
		pred, err := compileCondition(c)
		if err != nil {
			return nil, err
		}
		and = append(and, pred)
	}
	return and, nil
}

func compileCondition(c query.Condition) (squirrel.Sqlizer, error) {
	if c.Field == query.PrimaryKey {
		if pred, ok := compileIDCondition(c); ok {
			return pred, nil
		}
	}

	path := "doc #> " + jsonPath(c.Field)
	text := "doc #>> " + jsonPath(c.Field)

	switch c.Op {
	case query.OpEq:
		return eqPredicate(path, c.Value)
	case query.OpNeq:
		eq, err := eqPredicate(path, c.Value)
		if err != nil {
			return nil, err
		}
		sql, args, err := eq.ToSql()
		if err != nil {
			return nil, err
		}
		return squirrel.Expr("NOT COALESCE("+sql+", false)", args...), nil
	case query.OpGt, query.OpGte, query.OpLt, query.OpLte:
		return relationalPredicate(path, text, c.Op, c.Value), nil
	case query.OpLike, query.OpILike:
		pattern, _ := c.Value.(string)
		if _, err := regexp.Compile(pattern); err != nil {
			return squirrel.Expr("false"), nil
		}
		op := "~"
		if c.Op == query.OpILike {
			op = "~*"
		}
		return squirrel.Expr(
			fmt.Sprintf("CASE WHEN jsonb_typeof(%s) = 'string' THEN %s %s ? ELSE false END", path, text, op),
			pattern,
		), nil
	case query.OpIn:
		values, _ := c.Value.([]any)
		or := squirrel.Or{}
		for _, v := range values {
			pred, err := eqPredicate(path, v)
			if err != nil {
				return nil, err
			}
			or = append(or, pred)
		}
		if len(or) == 0 {
			return squirrel.Expr("false"), nil
		}
		return or, nil
	}

	return nil, domain.Validationf("unsupported operator %q", c.Op)
}

// compileIDCondition maps primary-key conditions onto the id column.
func compileIDCondition(c query.Condition) (squirrel.Sqlizer, bool) {
	switch c.Op {
	case query.OpEq:
		if oid, ok := c.Value.(primitive.ObjectID); ok {
			return squirrel.Eq{idColumn: oid.Hex()}, true
		}
	case query.OpNeq:
		if oid, ok := c.Value.(primitive.ObjectID); ok {
			return squirrel.NotEq{idColumn: oid.Hex()}, true
		}
	case query.OpIn:
		values, _ := c.Value.([]any)
		ids := make([]string, 0, len(values))
		for _, v := range values {
			if oid, ok := v.(primitive.ObjectID); ok {
				ids = append(ids, oid.Hex())
			}
		}
		if len(ids) == 0 {
			return squirrel.Expr("false"), true
		}
		return squirrel.Eq{idColumn: ids}, true
	}
	return nil, false
}

// eqPredicate matches a scalar field equal to v, or an array field holding v.
func eqPredicate(path string, v any) (squirrel.Sqlizer, error) {
	scalar, err := jsonValue(v)
	if err != nil {
		return nil, err
	}
	array, err := jsonValue([]any{v})
	if err != nil {
		return nil, err
	}
	return squirrel.Expr(
		fmt.Sprintf("(%s = ?::jsonb OR (jsonb_typeof(%s) = 'array' AND %s @> ?::jsonb))", path, path, path),
		scalar, array,
	), nil
}

// relationalPredicate compares numbers with numbers and strings with strings.
// Values of any other kind never match.
func relationalPredicate(path, text string, op query.Operator, v any) squirrel.Sqlizer {
	sqlOp := map[query.Operator]string{
		query.OpGt:  ">",
		query.OpGte: ">=",
		query.OpLt:  "<",
		query.OpLte: "<=",
	}[op]

	switch tv := v.(type) {
	case float64:
		return squirrel.Expr(
			fmt.Sprintf("CASE WHEN jsonb_typeof(%s) = 'number' THEN (%s)::numeric %s ? ELSE false END", path, text, sqlOp),
			tv,
		)
	case string:
		return squirrel.Expr(
			fmt.Sprintf(`CASE WHEN jsonb_typeof(%s) = 'string' THEN (%s) COLLATE "C" %s ? ELSE false END`, path, text, sqlOp),
			tv,
		)
	}
	return squirrel.Expr("false")
}

// jsonValue encodes a condition operand. ObjectIDs compare as their hex form.
func jsonValue(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode filter value: %w", err)
	}
	return string(raw), nil
}

// orderClauses renders sort keys; insertion order breaks ties.
func orderClauses(keys []query.Sort) []string {
	out := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		dir := "ASC"
		if k.Descending {
			dir = "DESC"
		}
		if k.Field == query.PrimaryKey {
			out = append(out, idColumn+" "+dir)
			continue
		}
		out = append(out, "doc #> "+jsonPath(k.Field)+" "+dir)
	}
	return append(out, "seq ASC")
}
