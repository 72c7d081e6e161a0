package render

import (
	"errors"
	"testing"

	"github.com/zoobzio/predql/internal/types"
)

func eq(name string, v any) types.Condition {
	return types.Condition{Type: types.EqualTo, Field: bare(name), Value: types.ToExpr(v)}
}

func TestGrouping_Combination(t *testing.T) {
	tests := []struct {
		name   string
		g      types.Grouping
		sql    string
		values []any
	}{
		{
			name:   "single item is not wrapped",
			g:      types.Grouping{Logic: types.AND, Items: []types.Expr{eq("name", "foo")}},
			sql:    `"user"."name" = ?`,
			values: []any{"foo"},
		},
		{
			name:   "two items are wrapped once",
			g:      types.Grouping{Logic: types.AND, Items: []types.Expr{eq("name", "foo"), eq("age", 3)}},
			sql:    `("user"."name" = ? AND "user"."age" = ?)`,
			values: []any{"foo", 3},
		},
		{
			name: "or of nested and",
			g: types.Grouping{Logic: types.OR, Items: []types.Expr{
				eq("name", "a"),
				types.Grouping{Logic: types.AND, Items: []types.Expr{eq("age", 1), eq("active", true)}},
			}},
			sql:    `("user"."name" = ? OR ("user"."age" = ? AND "user"."active" = ?))`,
			values: []any{"a", 1, true},
		},
		{
			name: "raw item is spliced",
			g: types.Grouping{Logic: types.AND, Items: []types.Expr{
				types.Raw{Text: "lower(name) = ?", Values: []any{"x"}},
				eq("age", 2),
			}},
			sql:    `(lower(name) = ? AND "user"."age" = ?)`,
			values: []any{"x", 2},
		},
		{
			name: "mapping item desugars",
			g: types.Grouping{Logic: types.OR, Items: []types.Expr{
				types.MappingFrom(map[string]any{"name": "a"}),
				types.MappingFrom(map[string]any{"age": 2, "active": false}),
			}},
			sql:    `("user"."name" = ? OR ("user"."active" = ? AND "user"."age" = ?))`,
			values: []any{"a", false, 2},
		},
		{
			name:   "bare value binds directly",
			g:      types.Grouping{Logic: types.AND, Items: []types.Expr{val(true), eq("age", 2)}},
			sql:    `(? AND "user"."age" = ?)`,
			values: []any{true, 2},
		},
		{
			name: "empty nested grouping is skipped",
			g: types.Grouping{Logic: types.AND, Items: []types.Expr{
				types.Grouping{Logic: types.OR},
				eq("age", 2),
			}},
			sql:    `"user"."age" = ?`,
			values: []any{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertResult(t, mustRenderUser(t, tt.g), tt.sql, tt.values)
		})
	}
}

func TestGrouping_SingleItemIdempotent(t *testing.T) {
	items := []types.Expr{
		eq("name", "foo"),
		types.Condition{Type: types.In, Field: bare("id"), Value: list(1, 2)},
		types.Grouping{Logic: types.OR, Items: []types.Expr{eq("name", "a"), eq("name", "b")}},
		types.Raw{Text: "age > ?", Values: []any{3}},
	}

	for _, x := range items {
		direct := mustRenderUser(t, x)
		for _, logic := range []types.LogicOperator{types.AND, types.OR} {
			wrapped := mustRenderUser(t, types.Grouping{Logic: logic, Items: []types.Expr{x}})
			assertResult(t, wrapped, direct.SQL, direct.Values)
		}
	}
}

func TestGrouping_Empty(t *testing.T) {
	result := mustRenderUser(t, types.Grouping{Logic: types.AND})
	assertResult(t, result, "", []any{})

	_, err := renderUser(t, types.Grouping{Logic: types.OR}, Options{Strict: true})
	if !errors.Is(err, types.ErrConfiguration) {
		t.Errorf("strict empty grouping: expected configuration error, got %v", err)
	}
}

func TestGrouping_Errors(t *testing.T) {
	_, err := renderUser(t, types.Grouping{Logic: "XOR", Items: []types.Expr{eq("id", 1)}})
	if !errors.Is(err, types.ErrConfiguration) {
		t.Errorf("unknown logic: expected configuration error, got %v", err)
	}

	_, err = renderUser(t, types.Grouping{Logic: types.AND, Items: []types.Expr{eq("id", 1), nil}})
	if !errors.Is(err, types.ErrMissingValue) {
		t.Errorf("nil item: expected missing value error, got %v", err)
	}
}

// The five end-to-end scenarios against a user table with id and name.
func TestScenarios(t *testing.T) {
	tests := []struct {
		name   string
		expr   types.Expr
		sql    string
		values []any
	}{
		{
			name:   "equality",
			expr:   eq("name", "foo"),
			sql:    `"user"."name" = ?`,
			values: []any{"foo"},
		},
		{
			name:   "in list",
			expr:   types.Condition{Type: types.In, Field: bare("id"), Value: list(1, 2, 3)},
			sql:    `"user"."id" IN (?, ?, ?)`,
			values: []any{1, 2, 3},
		},
		{
			name:   "in empty list",
			expr:   types.Condition{Type: types.In, Field: bare("id"), Value: list()},
			sql:    `?`,
			values: []any{false},
		},
		{
			name: "or of not and single and",
			expr: types.Grouping{Logic: types.OR, Items: []types.Expr{
				types.Condition{Type: types.Not, Value: val(true)},
				types.Grouping{Logic: types.AND, Items: []types.Expr{eq("name", "foo")}},
			}},
			sql:    `(NOT ? OR "user"."name" = ?)`,
			values: []any{true, "foo"},
		},
		{
			name:   "between",
			expr:   types.Condition{Type: types.Between, Field: bare("age"), Value: list(1, 2)},
			sql:    `"user"."age" BETWEEN ? AND ?`,
			values: []any{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertResult(t, mustRenderUser(t, tt.expr), tt.sql, tt.values)
		})
	}
}
