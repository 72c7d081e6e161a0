package predql_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/zoobzio/predql"
)

// testSchema registers the models most tests use.
func testSchema(t *testing.T) *predql.Schema {
	t.Helper()
	s, err := predql.NewSchema(
		predql.NewModel("user", "user").Columns("id", "name", "age", "email", "active"),
		predql.NewModel("post", "posts").InSchema("blog").Columns("id", "title", "score").Map("authorId", "author_id"),
	)
	if err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return s
}

func where(t *testing.T, s *predql.Schema, items ...any) *predql.QueryResult {
	t.Helper()
	result, err := predql.RenderWhere(s, "user", items...)
	if err != nil {
		t.Fatalf("RenderWhere() error = %v", err)
	}
	return result
}

func assertResult(t *testing.T, result *predql.QueryResult, sql string, values []any) {
	t.Helper()
	if result.SQL != sql {
		t.Errorf("SQL = %q\nwant  %q", result.SQL, sql)
	}
	if !reflect.DeepEqual(result.Values, values) {
		t.Errorf("Values = %#v, want %#v", result.Values, values)
	}
}

// placeholders counts the ? markers outside quoted literals.
func placeholders(sql string) int {
	n := 0
	var quote rune
	for _, r := range sql {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '?':
			n++
		}
	}
	return n
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func contains(t *testing.T, s, sub string) {
	t.Helper()
	if !strings.Contains(s, sub) {
		t.Errorf("%q does not contain %q", s, sub)
	}
}
