package predql_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/zoobzio/dbml"
	"github.com/zoobzio/predql"
)

func dbmlProject() *dbml.Project {
	project := dbml.NewProject("test")

	users := dbml.NewTable("users")
	users.AddColumn(dbml.NewColumn("id", "bigint"))
	users.AddColumn(dbml.NewColumn("user_name", "varchar"))
	users.AddColumn(dbml.NewColumn("created_at", "timestamp"))
	project.AddTable(users)

	posts := dbml.NewTable("posts")
	posts.AddColumn(dbml.NewColumn("id", "bigint"))
	posts.AddColumn(dbml.NewColumn("user_id", "bigint"))
	project.AddTable(posts)

	return project
}

func TestNewFromDBML(t *testing.T) {
	s, err := predql.NewFromDBML(dbmlProject())
	if err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	if got := s.Models(); !reflect.DeepEqual(got, []string{"posts", "users"}) {
		t.Errorf("Models() = %v", got)
	}

	result, err := predql.Select(s.T("users", "u")).
		Fields(predql.ColOf("u", "userName"), predql.ColOf("u", "created_at")).
		InnerJoin(s.T("posts", "p"), predql.Eq(predql.ColOf("p", "userId"), predql.ColOf("u", "id"))).
		Render(s, nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	assertResult(t, result,
		`SELECT "u"."user_name", "u"."created_at" FROM "users" AS "u" INNER JOIN "posts" AS "p" ON "p"."user_id" = "u"."id"`,
		[]any{})

	if _, err := predql.NewFromDBML(nil); err == nil {
		t.Error("expected error for nil project")
	}
}

func TestNewSchema_Errors(t *testing.T) {
	tests := []struct {
		name   string
		models []*predql.Model
	}{
		{"nil model", []*predql.Model{nil}},
		{"empty name", []*predql.Model{predql.NewModel("", "users")}},
		{"duplicate", []*predql.Model{predql.NewModel("user", "users"), predql.NewModel("user", "people")}},
		{"bad table", []*predql.Model{predql.NewModel("user", "users; DROP TABLE x")}},
		{"bad schema", []*predql.Model{predql.NewModel("user", "users").InSchema("public.x")}},
		{"bad column", []*predql.Model{predql.NewModel("user", "users").Map("name", `name" OR "1"="1`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := predql.NewSchema(tt.models...)
			if !errors.Is(err, predql.ErrConfiguration) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}

	mustPanic(t, "MustSchema", func() { predql.MustSchema(nil) })
}

func TestSchema_IsImmutable(t *testing.T) {
	m := predql.NewModel("user", "users").Columns("id")
	s, err := predql.NewSchema(m)
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}

	// Mutating the argument after registration must not leak into the schema.
	m.Columns("secret")
	m.Table = "other"

	if _, err := s.TryF("user", "secret"); err == nil {
		t.Error("field added after registration should not resolve")
	}
	result, err := predql.Select(s.T("user")).Render(s, nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	assertResult(t, result, `SELECT * FROM "users"`, []any{})
}

func TestSchema_With(t *testing.T) {
	base := predql.MustSchema(predql.NewModel("user", "users").Columns("id"))

	extended, err := base.With(predql.NewModel("tag", "tags").Columns("id", "label"))
	if err != nil {
		t.Fatalf("With() error = %v", err)
	}
	if !reflect.DeepEqual(extended.Models(), []string{"tag", "user"}) {
		t.Errorf("extended Models() = %v", extended.Models())
	}
	if !reflect.DeepEqual(base.Models(), []string{"user"}) {
		t.Errorf("base was modified: %v", base.Models())
	}

	if _, err := base.With(predql.NewModel("user", "people")); !errors.Is(err, predql.ErrConfiguration) {
		t.Errorf("duplicate model: expected configuration error, got %v", err)
	}
}

func TestSchema_TryTAndTryF(t *testing.T) {
	s := testSchema(t)

	if _, err := s.TryT("ghost"); !errors.Is(err, predql.ErrConfiguration) {
		t.Errorf("unknown model: got %v", err)
	}
	if _, err := s.TryT("user", "a", "b"); !errors.Is(err, predql.ErrConfiguration) {
		t.Errorf("two aliases: got %v", err)
	}
	if _, err := s.TryF("post", "body"); !errors.Is(err, predql.ErrConfiguration) {
		t.Errorf("unknown field: got %v", err)
	}

	// Both the logical name and the column resolve.
	for _, name := range []string{"authorId", "author_id"} {
		f, err := s.TryF("post", name)
		if err != nil {
			t.Errorf("TryF(%q) error = %v", name, err)
			continue
		}
		result := where(t, s, predql.Eq(f, 1))
		assertResult(t, result, `"blog"."posts"."author_id" = ?`, []any{1})
	}
}

func TestRender_NoSchema(t *testing.T) {
	_, err := predql.RenderWhere(nil, "user", predql.Eq(predql.Col("id"), 1))
	if !errors.Is(err, predql.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestSchema_ModelReturnsCopy(t *testing.T) {
	s := testSchema(t)

	m, err := s.Model("user")
	if err != nil {
		t.Fatalf("Model() error = %v", err)
	}
	m.Map("secret", "password")
	m.Table = "accounts"
	m.InSchema("evil")

	if _, err := s.TryF("user", "secret"); err == nil {
		t.Error("field added to the returned model should not resolve")
	}
	result, err := predql.Select(s.T("user")).Fields(predql.Col("id")).Render(s, nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	assertResult(t, result, `SELECT "user"."id" FROM "user"`, []any{})
}
