package render

import (
	"reflect"
	"strings"
	"testing"

	"github.com/zoobzio/predql/internal/types"
)

// testResolver resolves models from a fixed map.
type testResolver map[string]*types.Model

func (r testResolver) Model(name string) (*types.Model, error) {
	m, ok := r[name]
	if !ok {
		return nil, types.Configf("model %q not found in schema", name)
	}
	return m, nil
}

func testSchema() testResolver {
	user := types.NewModel("user", "user").Columns("id", "name", "age", "email", "active", "manager_id")
	post := types.NewModel("post", "posts").Columns("id", "title", "published").Map("authorId", "author_id")
	audit := types.NewModel("audit", "events").InSchema("audit").Columns("id", "user_id", "kind")
	return testResolver{"user": user, "post": post, "audit": audit}
}

func field(model, name string) *types.Field {
	return &types.Field{Model: model, Name: name}
}

func bare(name string) *types.Field {
	return &types.Field{Name: name}
}

func val(v any) types.Value {
	return types.Value{V: v}
}

func list(vs ...any) types.List {
	items := make([]types.Expr, len(vs))
	for i, v := range vs {
		items[i] = types.ToExpr(v)
	}
	return types.List{Items: items}
}

// renderUser renders e with bare fields bound to the user model.
func renderUser(t *testing.T, e types.Expr, opts ...Options) (*types.QueryResult, error) {
	t.Helper()
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	return RenderFragment(e, types.Table{Model: "user"}, Standard, testSchema(), o)
}

func mustRenderUser(t *testing.T, e types.Expr, opts ...Options) *types.QueryResult {
	t.Helper()
	result, err := renderUser(t, e, opts...)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return result
}

func assertResult(t *testing.T, result *types.QueryResult, sql string, values []any) {
	t.Helper()
	if result.SQL != sql {
		t.Errorf("SQL = %q, want %q", result.SQL, sql)
	}
	if !reflect.DeepEqual(result.Values, values) {
		t.Errorf("Values = %#v, want %#v", result.Values, values)
	}
	if n := strings.Count(result.SQL, "?"); n != len(result.Values) {
		t.Errorf("placeholder count %d does not match %d values", n, len(result.Values))
	}
}
