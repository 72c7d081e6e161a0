package predql

import (
	"github.com/zoobzio/predql/internal/render"
	"github.com/zoobzio/predql/internal/types"
)

// Option tunes rendering policy.
type Option func(*render.Options)

// Strict rejects the lenient edge-case policies: BETWEEN with more than two
// bounds, IN/NOT IN over an empty list and empty groupings all become
// configuration errors.
func Strict() Option {
	return func(o *render.Options) {
		o.Strict = true
	}
}

func options(opts []Option) render.Options {
	var o render.Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// resolver avoids wrapping a nil *Schema in a non-nil interface.
func resolver(s *Schema) types.Resolver {
	if s == nil {
		return nil
	}
	return schemaResolver{s}
}

// schemaResolver hands the renderer the schema's own models without copying.
type schemaResolver struct{ s *Schema }

func (r schemaResolver) Model(name string) (*types.Model, error) {
	return r.s.lookup(name)
}

// Render renders a built AST.
func Render(ast *types.AST, s *Schema, d Dialect, opts ...Option) (*QueryResult, error) {
	return render.Render(ast, d, resolver(s), options(opts))
}

// RenderWhere renders a condition fragment with bare fields bound to model,
// using the default dialect. Items are combined with AND; a Go map is an
// AND of equalities.
func RenderWhere(s *Schema, model string, items ...any) (*QueryResult, error) {
	return RenderWhereWith(s, nil, model, items)
}

// RenderWhereWith renders a condition fragment for a specific dialect.
func RenderWhereWith(s *Schema, d Dialect, model string, items []any, opts ...Option) (*QueryResult, error) {
	g, err := TryAnd(items...)
	if err != nil {
		return nil, err
	}
	if len(g.Items) == 0 {
		return &QueryResult{Values: []any{}}, nil
	}
	return RenderExpr(s, d, types.Table{Model: model}, combine(g.Items), opts...)
}

// RenderExpr renders any expression with bare fields bound to table.
func RenderExpr(s *Schema, d Dialect, bound types.Table, e Expr, opts ...Option) (*QueryResult, error) {
	return render.RenderFragment(e, bound, d, resolver(s), options(opts))
}
