package testing

import (
	"errors"
	"fmt"
	"testing"

	"github.com/zoobzio/predql"
)

// =============================================================================
// TestSchema Tests
// =============================================================================

func TestTestSchema(t *testing.T) {
	s := TestSchema(t)

	for _, model := range []string{"users", "posts", "comments", "orders", "products"} {
		if _, err := s.TryT(model); err != nil {
			t.Errorf("TryT(%q) error = %v", model, err)
		}
	}

	// Camel case aliases resolve to the stored column.
	result, err := predql.RenderWhere(s, "posts", predql.Eq(predql.Col("userId"), 7))
	AssertNoError(t, err)
	AssertResult(t, result, `"posts"."user_id" = ?`, 7)
}

// =============================================================================
// AssertResult Tests
// =============================================================================

func TestAssertSQL_Match(t *testing.T) {
	AssertSQL(t, "SELECT * FROM users", "SELECT * FROM users")
}

func TestAssertValues_NilMatchesEmpty(t *testing.T) {
	AssertValues(t, nil, []any{})
}

func TestAssertValues_Ordered(t *testing.T) {
	AssertValues(t, []any{1, "a", nil}, []any{1, "a", nil})
}

func TestAssertResult_Grouping(t *testing.T) {
	s := TestSchema(t)
	result, err := predql.RenderWhere(s, "users",
		predql.Or(predql.Gt(predql.Col("age"), 18), predql.Map(map[string]any{"active": true})))
	AssertNoError(t, err)
	AssertResult(t, result, `("users"."age" > ? OR "users"."active" = ?)`, 18, true)
}

// =============================================================================
// Placeholder Tests
// =============================================================================

func TestCountPlaceholders(t *testing.T) {
	tests := []struct {
		sql  string
		want int
	}{
		{"", 0},
		{"a = ?", 1},
		{"a = ? AND b IN (?, ?)", 3},
		{"a = '?' AND b = ?", 1},
		{"data ?? 'k' AND b = ?", 1},
		{"'it''s ?' = ?", 1},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			if got := CountPlaceholders(tt.sql); got != tt.want {
				t.Errorf("CountPlaceholders(%q) = %d, want %d", tt.sql, got, tt.want)
			}
		})
	}
}

func TestAssertPlaceholders_MatchesValues(t *testing.T) {
	s := TestSchema(t)
	result, err := predql.RenderWhere(s, "orders",
		predql.In(predql.Col("status"), []string{"new", "paid"}),
		predql.Between(predql.Col("total"), 10, 20))
	AssertNoError(t, err)
	AssertPlaceholders(t, result.SQL, len(result.Values))
}

// =============================================================================
// Error Tests
// =============================================================================

func TestAssertNoError_Nil(t *testing.T) {
	AssertNoError(t, nil)
}

func TestAssertError_Error(t *testing.T) {
	AssertError(t, errors.New("boom"))
}

func TestAssertErrorIs_Wrapped(t *testing.T) {
	_, err := predql.TryRaw("a = ? AND b = ?", 1)
	AssertErrorIs(t, err, predql.ErrMalformedRaw)
	AssertErrorIs(t, fmt.Errorf("outer: %w", err), predql.ErrMalformedRaw)
}

func TestAssertErrorContains_PartialMatch(t *testing.T) {
	AssertErrorContains(t, errors.New("unknown field: password"), "password")
}

// =============================================================================
// Panic Tests
// =============================================================================

func TestAssertPanics_Panics(t *testing.T) {
	AssertPanics(t, func() { panic("test panic") })
}

func TestAssertPanicsWithMessage_StringPanic(t *testing.T) {
	AssertPanicsWithMessage(t, func() { predql.Coalesce(1) }, "COALESCE")
}

func TestAssertPanicsWithMessage_ErrorPanic(t *testing.T) {
	s := TestSchema(t)
	AssertPanicsWithMessage(t, func() { s.F("users", "password") }, "password")
}
