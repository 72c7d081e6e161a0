package types

import (
	"reflect"
	"sort"
)

// Expr is the closed set of expression nodes the renderer understands.
// This is exported from the internal package so the base package and the
// renderer can share it, but external users cannot import this package.
type Expr interface {
	isExpr()
}

// Raw is literal SQL text with its own ordered bind values.
// Text uses ? as the positional marker; ?? is a literal question mark.
type Raw struct {
	Text   string
	Values []any
}

// Value is a single primitive bound as one placeholder.
type Value struct {
	V any
}

// List is an ordered list of expressions, rendered comma separated.
type List struct {
	Items []Expr
}

// Pair is one entry of a Mapping.
type Pair struct {
	Value Expr
	Field string
}

// Mapping is an ordered field-to-value mapping. Orig holds the caller's map
// when the mapping was built by MappingFrom.
type Mapping struct {
	Orig  map[string]any
	Pairs []Pair
}

// Subquery represents a nested query.
type Subquery struct {
	AST *AST
}

func (Raw) isExpr()       {}
func (Value) isExpr()     {}
func (List) isExpr()      {}
func (Mapping) isExpr()   {}
func (Subquery) isExpr()  {}
func (Field) isExpr()     {}
func (Table) isExpr()     {}
func (Condition) isExpr() {}
func (Grouping) isExpr()  {}

// MappingFrom builds a Mapping from a Go map. Keys are sorted so the
// rendered output is deterministic.
func MappingFrom(m map[string]any) Mapping {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]Pair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, Pair{Field: k, Value: ToExpr(m[k])})
	}
	return Mapping{Orig: m, Pairs: pairs}
}

// Map returns the mapping as a plain Go map. The caller's original map is
// returned untouched when present; otherwise nodes are unwrapped recursively.
func (m Mapping) Map() map[string]any {
	if m.Orig != nil {
		return m.Orig
	}
	out := make(map[string]any, len(m.Pairs))
	for _, p := range m.Pairs {
		out[p.Field] = unwrap(p.Value)
	}
	return out
}

func unwrap(e Expr) any {
	switch x := e.(type) {
	case Value:
		return x.V
	case List:
		out := make([]any, len(x.Items))
		for i, item := range x.Items {
			out[i] = unwrap(item)
		}
		return out
	case Mapping:
		return x.Map()
	default:
		return e
	}
}

// MappingToGrouping desugars a mapping into an AND of equality conditions.
// A list value becomes set membership instead of equality.
func MappingToGrouping(m Mapping) Grouping {
	items := make([]Expr, 0, len(m.Pairs))
	for _, p := range m.Pairs {
		field := ParseField(p.Field)
		typ := EqualTo
		if _, ok := p.Value.(List); ok {
			typ = In
		}
		items = append(items, Condition{Type: typ, Field: &field, Value: p.Value})
	}
	return Grouping{Logic: AND, Items: items}
}

// ToExpr coerces a Go value into an expression node.
// A nil interface stays nil so the renderer can report it as missing.
// Pointers to nodes are dereferenced; slices of values become lists.
func ToExpr(v any) Expr {
	switch x := v.(type) {
	case nil:
		return nil
	case *Raw:
		return derefOrNil(x)
	case *Condition:
		return derefOrNil(x)
	case *Grouping:
		return derefOrNil(x)
	case *Field:
		return derefOrNil(x)
	case *Table:
		return derefOrNil(x)
	case *Subquery:
		return derefOrNil(x)
	case Expr:
		return x
	case map[string]any:
		return MappingFrom(x)
	case []any:
		return listOf(x)
	case []Expr:
		return List{Items: x}
	case []string:
		return listOf(x)
	case []int:
		return listOf(x)
	case []int64:
		return listOf(x)
	case []float64:
		return listOf(x)
	case []byte:
		return Value{V: x}
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			items := make([]Expr, rv.Len())
			for i := range items {
				items[i] = ToExpr(rv.Index(i).Interface())
			}
			return List{Items: items}
		}
		return Value{V: v}
	}
}

func derefOrNil[T Expr](p *T) Expr {
	if p == nil {
		return nil
	}
	return *p
}

func listOf[T any](values []T) List {
	items := make([]Expr, len(values))
	for i, v := range values {
		items[i] = ToExpr(v)
	}
	return List{Items: items}
}
