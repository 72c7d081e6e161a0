package predql_test

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/zoobzio/predql"
	"github.com/zoobzio/predql/postgres"
)

func TestRenderWhere_Scenarios(t *testing.T) {
	s := testSchema(t)

	tests := []struct {
		name   string
		item   any
		sql    string
		values []any
	}{
		{
			"equality",
			predql.C(predql.CondEqualTo, "name", "foo"),
			`"user"."name" = ?`,
			[]any{"foo"},
		},
		{
			"in list",
			predql.C(predql.CondIn, "id", []int{1, 2, 3}),
			`"user"."id" IN (?, ?, ?)`,
			[]any{1, 2, 3},
		},
		{
			"in empty list",
			predql.C(predql.CondIn, "id", []int{}),
			`?`,
			[]any{false},
		},
		{
			"or of not and single and",
			predql.Or(
				predql.C(predql.CondNot, "", true),
				predql.And(predql.C(predql.CondEqualTo, "name", "foo")),
			),
			`(NOT ? OR "user"."name" = ?)`,
			[]any{true, "foo"},
		},
		{
			"between",
			predql.C(predql.CondBetween, "age", []int{1, 2}),
			`"user"."age" BETWEEN ? AND ?`,
			[]any{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertResult(t, where(t, s, tt.item), tt.sql, tt.values)
		})
	}
}

func TestRenderWhere_Properties(t *testing.T) {
	s := testSchema(t)

	t.Run("single item grouping is idempotent", func(t *testing.T) {
		items := []any{
			predql.Eq(predql.Col("name"), "foo"),
			predql.Or(predql.Eq(predql.Col("id"), 1), predql.Eq(predql.Col("id"), 2)),
			predql.Raw("age > ?", 3),
		}
		for i, x := range items {
			plain := where(t, s, x)
			wrapped := where(t, s, predql.And(x))
			twice := where(t, s, predql.Or(predql.And(x)))
			assertResult(t, wrapped, plain.SQL, plain.Values)
			assertResult(t, twice, plain.SQL, plain.Values)
			if t.Failed() {
				t.Fatalf("item %d", i)
			}
		}
	})

	t.Run("not not in empty list", func(t *testing.T) {
		assertResult(t, where(t, s, predql.NotIn(predql.Col("id"), []string{})), `?`, []any{true})
	})

	t.Run("between ignores extra bounds", func(t *testing.T) {
		three := where(t, s, predql.C(predql.CondBetween, "age", []int{1, 2, 3}))
		two := where(t, s, predql.C(predql.CondBetween, "age", []int{1, 2}))
		assertResult(t, three, two.SQL, two.Values)
	})

	t.Run("mapping is not parenthesized", func(t *testing.T) {
		assertResult(t, where(t, s, map[string]any{"name": 1}), `"user"."name" = ?`, []any{1})
	})

	t.Run("or of mappings is parenthesized", func(t *testing.T) {
		assertResult(t,
			where(t, s, predql.Or(map[string]any{"name": 1}, map[string]any{"age": 2})),
			`("user"."name" = ? OR "user"."age" = ?)`,
			[]any{1, 2})
	})

	t.Run("mapping with several keys sorts them", func(t *testing.T) {
		assertResult(t,
			where(t, s, map[string]any{"name": "x", "age": 3, "id": []int{4, 5}}),
			`("user"."age" = ? AND "user"."id" IN (?, ?) AND "user"."name" = ?)`,
			[]any{3, 4, 5, "x"})
	})

	t.Run("raw passthrough", func(t *testing.T) {
		assertResult(t, where(t, s, predql.Raw("x = ?", 5)), `x = ?`, []any{5})
	})

	t.Run("bare value falls back to a placeholder", func(t *testing.T) {
		assertResult(t, where(t, s, predql.Or(predql.Value(1), predql.Eq(predql.Col("id"), 2))), `(? OR "user"."id" = ?)`, []any{1, 2})
	})

	t.Run("no items renders nothing", func(t *testing.T) {
		assertResult(t, where(t, s), ``, []any{})
	})

	t.Run("empty groupings vanish", func(t *testing.T) {
		assertResult(t,
			where(t, s, predql.And(predql.Or(), predql.Eq(predql.Col("id"), 1), predql.And())),
			`"user"."id" = ?`,
			[]any{1})
	})
}

func TestRenderWhere_PlaceholderOrder(t *testing.T) {
	s := testSchema(t)

	sub := predql.Select(s.T("post", "p")).
		Fields(predql.ColOf("p", "authorId")).
		Where(
			predql.Gt(predql.ColOf("p", "score"), 100),
			predql.Or(
				predql.Like(predql.ColOf("p", "title"), "a%"),
				predql.Raw("char_length(title) BETWEEN ? AND ?", 5, 50),
			),
		)

	tree := predql.And(
		predql.Eq(predql.Col("name"), "n1"),
		predql.Or(
			predql.Not(predql.And(predql.Lt(predql.Col("age"), 18), predql.Eq(predql.Col("active"), true))),
			predql.In(predql.Col("id"), predql.Sub(sub)),
		),
		predql.Between(predql.Col("age"), 20, 30),
		predql.In(predql.Col("email"), []string{"a@x", "b@x"}),
	)

	result := where(t, s, tree)
	want := []any{"n1", 18, true, 100, "a%", 5, 50, 20, 30, "a@x", "b@x"}
	assertResult(t, result,
		`("user"."name" = ? AND (NOT ("user"."age" < ? AND "user"."active" = ?) OR "user"."id" IN (SELECT "p"."author_id" FROM "blog"."posts" AS "p" WHERE ("p"."score" > ? AND ("p"."title" LIKE ? OR char_length(title) BETWEEN ? AND ?)))) AND "user"."age" BETWEEN ? AND ? AND "user"."email" IN (?, ?))`,
		want)

	if n := placeholders(result.SQL); n != len(result.Values) {
		t.Errorf("placeholders = %d, values = %d", n, len(result.Values))
	}

	// The same tree under numbered placeholders must reference every value
	// in order.
	numbered, err := predql.RenderWhereWith(s, postgres.New(), "user", []any{tree})
	if err != nil {
		t.Fatalf("RenderWhereWith() error = %v", err)
	}
	last := -1
	for i := 1; i <= len(want); i++ {
		idx := strings.Index(numbered.SQL, fmt.Sprintf("$%d", i))
		if idx < 0 {
			t.Fatalf("placeholder $%d missing from %q", i, numbered.SQL)
		}
		if idx < last {
			t.Errorf("placeholder $%d appears before $%d", i, i-1)
		}
		last = idx
	}
}

func TestRenderWhere_Errors(t *testing.T) {
	s := testSchema(t)

	tests := []struct {
		name   string
		items  []any
		target error
	}{
		{"unknown condition type", []any{predql.Condition{Type: "approximately", Field: &predql.Field{Name: "id"}, Value: predql.Value(1)}}, predql.ErrConfiguration},
		{"unknown field", []any{predql.Eq(predql.Col("password"), "x")}, predql.ErrConfiguration},
		{"unknown model", []any{predql.Eq(predql.ColOf("ghost", "id"), 1)}, predql.ErrConfiguration},
		{"unknown grouping", []any{predql.Grouping{Logic: "XOR", Items: []predql.Expr{predql.Raw("1 = 1")}}}, predql.ErrConfiguration},
		{"nil value", []any{predql.Eq(predql.Col("name"), nil)}, predql.ErrMissingValue},
		{"nil nested value", []any{predql.Or(predql.Eq(predql.Col("id"), 1), predql.Eq(predql.Col("name"), nil))}, predql.ErrMissingValue},
		{"malformed raw", []any{predql.Fragment{Text: "a = ? AND b = ?", Values: []any{1}}}, predql.ErrMalformedRaw},
		{"between without bounds", []any{predql.C(predql.CondBetween, "age", []int{1})}, predql.ErrConfiguration},
		{"unary with field", []any{predql.Condition{Type: predql.CondExists, Field: &predql.Field{Name: "id"}, Value: predql.Value(1)}}, predql.ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := predql.RenderWhere(s, "user", tt.items...)
			if !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
			if result != nil {
				t.Errorf("expected no partial result, got %+v", result)
			}
		})
	}
}

func TestRenderWhere_NilItem(t *testing.T) {
	s := testSchema(t)
	var cond *predql.Condition
	_, err := predql.RenderWhere(s, "user", cond)
	if !errors.Is(err, predql.ErrMissingValue) {
		t.Errorf("expected ErrMissingValue, got %v", err)
	}
}

func TestRenderWhere_Strict(t *testing.T) {
	s := testSchema(t)

	tests := []struct {
		name string
		item any
	}{
		{"empty in", predql.In(predql.Col("id"), []int{})},
		{"between extra bounds", predql.C(predql.CondBetween, "age", []int{1, 2, 3})},
		{"empty grouping", predql.And(predql.Or(), predql.Eq(predql.Col("id"), 1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := predql.RenderWhere(s, "user", tt.item); err != nil {
				t.Fatalf("lenient render failed: %v", err)
			}
			_, err := predql.RenderWhereWith(s, nil, "user", []any{tt.item}, predql.Strict())
			if !errors.Is(err, predql.ErrConfiguration) {
				t.Errorf("expected configuration error in strict mode, got %v", err)
			}
		})
	}
}

func TestRenderExpr(t *testing.T) {
	s := testSchema(t)
	result, err := predql.RenderExpr(s, postgres.New(), s.T("post", "p"),
		predql.Coalesce(predql.ColOf("p", "score"), 0))
	if err != nil {
		t.Fatalf("RenderExpr() error = %v", err)
	}
	assertResult(t, result, `COALESCE("p"."score", $1)`, []any{0})
}

func TestRenderWhere_MappingBindsOriginal(t *testing.T) {
	s := testSchema(t)
	data := map[string]any{
		"tags": []string{"a", "b"},
		"meta": map[string]any{"x": 1},
	}

	result := where(t, s, predql.Eq(predql.Col("email"), data))
	if result.SQL != `"user"."email" = ?` {
		t.Errorf("SQL = %q", result.SQL)
	}
	if len(result.Values) != 1 {
		t.Fatalf("expected one value, got %v", result.Values)
	}
	bound, ok := result.Values[0].(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", result.Values[0])
	}
	if tags, ok := bound["tags"].([]string); !ok || !reflect.DeepEqual(tags, []string{"a", "b"}) {
		t.Errorf("tags = %#v", bound["tags"])
	}
	if meta, ok := bound["meta"].(map[string]any); !ok || meta["x"] != 1 {
		t.Errorf("meta = %#v", bound["meta"])
	}
}
