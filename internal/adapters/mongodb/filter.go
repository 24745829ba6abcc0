// internal/adapters/mongodb/filter.go
package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/ammerola/catalog-be/internal/core/query"
)

var operators = map[query.Operator]string{
	query.OpNeq: "$ne",
	query.OpGt:  "$gt",
	query.OpGte: "$gte",
	query.OpLt:  "$lt",
	query.OpLte: "$lte",
	query.OpIn:  "$in",
}

// compileFilter renders a translated filter as a Mongo query document.
// Conditions on distinct fields share one document; repeated fields are
// combined under $and.
func compileFilter(f query.Filter) bson.M {
	out := bson.M{}
	var and []bson.M

	for _, c := range f.Conditions {
		clause := compileCondition(c)
		if _, taken := out[c.Field]; taken {
			and = append(and, bson.M{c.Field: clause})
			continue
		}
		out[c.Field] = clause
	}

	if len(and) > 0 {
		out["$and"] = and
	}
	return out
}

func compileCondition(c query.Condition) any {
	switch c.Op {
	case query.OpEq:
		return c.Value
	case query.OpLike:
		return bson.M{"$regex": c.Value}
	case query.OpILike:
		return bson.M{"$regex": c.Value, "$options": "i"}
	}
	return bson.M{operators[c.Op]: c.Value}
}

// compileSort keeps the requested key order and breaks ties on _id, which
// follows insertion order for generated ObjectIDs.
func compileSort(keys []query.Sort) bson.D {
	out := make(bson.D, 0, len(keys)+1)
	hasID := false
	for _, k := range keys {
		dir := 1
		if k.Descending {
			dir = -1
		}
		if k.Field == query.PrimaryKey {
			hasID = true
		}
		out = append(out, bson.E{Key: k.Field, Value: dir})
	}
	if !hasID {
		out = append(out, bson.E{Key: query.PrimaryKey, Value: 1})
	}
	return out
}
