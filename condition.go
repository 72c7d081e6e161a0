package predql

import (
	"fmt"

	"github.com/zoobzio/predql/internal/types"
)

// Col creates a field reference resolved against the bound model.
// A "model.name" argument references a field of another model.
func Col(name string) types.Field {
	return types.ParseField(name)
}

// ColOf creates a field reference owned by the named model.
func ColOf(model, name string) types.Field {
	return types.Field{Model: model, Name: name}
}

// TryC creates a condition of any type, returning an error if the type is
// unknown or the field does not suit it. An empty field means no field, as
// for not, exists, any and all.
func TryC(t types.ConditionType, field string, value any) (types.Condition, error) {
	if !t.Valid() {
		return types.Condition{}, types.Configf("unknown condition type %q", t)
	}
	cond := types.Condition{Type: t, Value: types.ToExpr(value)}
	switch {
	case t.IsUnary() && field != "":
		return types.Condition{}, types.Configf("%s condition does not take a field", t)
	case !t.IsUnary() && field == "":
		return types.Condition{}, types.Configf("%s condition requires a field", t)
	case field != "":
		f := types.ParseField(field)
		cond.Field = &f
	}
	return cond, nil
}

// C creates a condition of any type.
func C(t types.ConditionType, field string, value any) types.Condition {
	c, err := TryC(t, field, value)
	if err != nil {
		panic(err)
	}
	return c
}

// cmp creates a column-relative condition.
func cmp(t types.ConditionType, f types.Field, value any) types.Condition {
	return types.Condition{Type: t, Field: &f, Value: types.ToExpr(value)}
}

// unary creates a value-only condition.
func unary(t types.ConditionType, value any) types.Condition {
	return types.Condition{Type: t, Value: types.ToExpr(value)}
}

// Eq creates an equality condition.
func Eq(f types.Field, value any) types.Condition { return cmp(types.EqualTo, f, value) }

// Ne creates an inequality condition.
func Ne(f types.Field, value any) types.Condition { return cmp(types.NotEqualTo, f, value) }

// Gt creates a greater-than condition.
func Gt(f types.Field, value any) types.Condition { return cmp(types.GreaterThan, f, value) }

// Gte creates a greater-than-or-equal condition.
func Gte(f types.Field, value any) types.Condition {
	return cmp(types.GreaterThanOrEqualTo, f, value)
}

// Lt creates a less-than condition.
func Lt(f types.Field, value any) types.Condition { return cmp(types.LessThan, f, value) }

// Lte creates a less-than-or-equal condition.
func Lte(f types.Field, value any) types.Condition {
	return cmp(types.LessThanOrEqualTo, f, value)
}

// Like creates a LIKE condition.
func Like(f types.Field, pattern any) types.Condition { return cmp(types.Like, f, pattern) }

// NotLike creates a NOT LIKE condition.
func NotLike(f types.Field, pattern any) types.Condition { return cmp(types.NotLike, f, pattern) }

// ILike creates a case-insensitive LIKE condition.
func ILike(f types.Field, pattern any) types.Condition { return cmp(types.ILike, f, pattern) }

// NotILike creates a case-insensitive NOT LIKE condition.
func NotILike(f types.Field, pattern any) types.Condition { return cmp(types.NotILike, f, pattern) }

// In creates a set membership condition. values is a slice, a Subquery or
// a raw fragment. An empty slice matches nothing.
func In(f types.Field, values any) types.Condition { return cmp(types.In, f, values) }

// NotIn creates a negated set membership condition. An empty slice
// matches everything.
func NotIn(f types.Field, values any) types.Condition { return cmp(types.NotIn, f, values) }

// Between creates a range condition.
func Between(f types.Field, low, high any) types.Condition {
	return cmp(types.Between, f, []any{low, high})
}

// NotBetween creates a negated range condition.
func NotBetween(f types.Field, low, high any) types.Condition {
	return cmp(types.NotBetween, f, []any{low, high})
}

// Null creates an IS NULL condition.
func Null(f types.Field) types.Condition {
	return types.Condition{Type: types.IsNull, Field: &f}
}

// NotNull creates an IS NOT NULL condition.
func NotNull(f types.Field) types.Condition {
	return types.Condition{Type: types.IsNotNull, Field: &f}
}

// Not negates a condition, grouping, fragment or value.
func Not(value any) types.Condition { return unary(types.Not, value) }

// Exists creates an EXISTS condition over a subquery or fragment.
func Exists(value any) types.Condition { return unary(types.Exists, value) }

// NotExists creates a NOT EXISTS condition.
func NotExists(value any) types.Condition { return unary(types.NotExists, value) }

// Any creates an ANY quantifier.
func Any(value any) types.Condition { return unary(types.Any, value) }

// All creates an ALL quantifier.
func All(value any) types.Condition { return unary(types.All, value) }

// item converts a grouping item. Go maps are desugared into an AND of
// equalities here, so the renderer only meets closed node types.
func item(v any) types.Expr {
	if m, ok := v.(map[string]any); ok {
		return types.MappingToGrouping(types.MappingFrom(m))
	}
	return types.ToExpr(v)
}

func group(logic types.LogicOperator, items []any) (types.Grouping, error) {
	g := types.Grouping{Logic: logic, Items: make([]types.Expr, 0, len(items))}
	for i, v := range items {
		e := item(v)
		if e == nil {
			return types.Grouping{}, types.MissingValue(fmt.Sprintf("%s item %d is undefined", logic, i))
		}
		g.Items = append(g.Items, e)
	}
	return g, nil
}

// TryAnd creates an AND grouping, returning an error if any item is nil.
func TryAnd(items ...any) (types.Grouping, error) {
	return group(types.AND, items)
}

// And creates an AND grouping.
func And(items ...any) types.Grouping {
	g, err := TryAnd(items...)
	if err != nil {
		panic(err)
	}
	return g
}

// TryOr creates an OR grouping, returning an error if any item is nil.
func TryOr(items ...any) (types.Grouping, error) {
	return group(types.OR, items)
}

// Or creates an OR grouping.
func Or(items ...any) types.Grouping {
	g, err := TryOr(items...)
	if err != nil {
		panic(err)
	}
	return g
}

// Map desugars a Go map into an AND of equality conditions. Keys are sorted
// so the output is deterministic.
func Map(m map[string]any) types.Grouping {
	return types.MappingToGrouping(types.MappingFrom(m))
}

// Value wraps a Go value so it binds as one placeholder, even when it is a
// slice or map.
func Value(v any) types.Value {
	return types.Value{V: v}
}

// Values wraps Go values as a list of single placeholders.
func Values(vs ...any) types.List {
	items := make([]types.Expr, len(vs))
	for i, v := range vs {
		items[i] = types.ToExpr(v)
	}
	return types.List{Items: items}
}
