package render

import (
	"strings"

	"github.com/zoobzio/predql/internal/types"
)

// Formatters override how one category of expression renders at a single
// call site. A nil entry keeps the default behavior.
type Formatters struct {
	Table    func(*Context, types.Table) (string, error)
	Field    func(*Context, types.Field) (string, error)
	Subquery func(*Context, types.Subquery) (string, error)
	Raw      func(*Context, types.Raw) (string, error)
	List     func(*Context, types.List) (string, error)
	Mapping  func(*Context, types.Mapping) (string, error)
	Value    func(*Context, types.Value) (string, error)
}

// Expression renders any expression node, appending its bind values in the
// order their placeholders appear in the returned text.
func (c *Context) Expression(e types.Expr, overrides ...Formatters) (string, error) {
	var f Formatters
	if len(overrides) > 0 {
		f = overrides[0]
	}

	switch x := e.(type) {
	case nil:
		return "", types.MissingValue("expression value is undefined")
	case types.Table:
		if f.Table != nil {
			return f.Table(c, x)
		}
		return c.Table(x)
	case types.Field:
		if f.Field != nil {
			return f.Field(c, x)
		}
		return c.Qualify(x)
	case types.Subquery:
		if f.Subquery != nil {
			return f.Subquery(c, x)
		}
		return c.Subquery(x)
	case types.Raw:
		if f.Raw != nil {
			return f.Raw(c, x)
		}
		return c.Raw(x)
	case types.List:
		if f.List != nil {
			return f.List(c, x)
		}
		return c.list(x.Items, ", ")
	case types.Mapping:
		if f.Mapping != nil {
			return f.Mapping(c, x)
		}
		// The driver owns serialization of structured values.
		return c.Bind(x.Map()), nil
	case types.Condition:
		return c.Condition(x)
	case types.Grouping:
		return c.Grouping(x)
	case types.Value:
		if f.Value != nil {
			return f.Value(c, x)
		}
		return c.Bind(x.V), nil
	case types.Call:
		return c.Call(x)
	case types.Case:
		return c.Case(x)
	case types.Aliased:
		return "", types.Configf("alias %q is only allowed in a SELECT list", x.Alias)
	default:
		return "", types.Configf("unknown expression type: %T", e)
	}
}

// list renders items in order joined by sep.
func (c *Context) list(items []types.Expr, sep string) (string, error) {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		s, err := c.Expression(item)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, sep), nil
}

// Subquery renders a nested SELECT in parentheses. The nested statement
// resolves bare fields against its own target but binds into the shared
// accumulator.
func (c *Context) Subquery(s types.Subquery) (string, error) {
	if s.AST == nil {
		return "", types.Configf("subquery has no query")
	}
	if err := s.AST.Validate(); err != nil {
		return "", err
	}
	if s.AST.Operation != types.OpSelect && s.AST.Operation != types.OpCount {
		return "", types.Configf("subquery must be a SELECT, got %s", s.AST.Operation)
	}

	sub, err := c.withSubquery()
	if err != nil {
		return "", err
	}

	var sql strings.Builder
	sql.WriteString("(")
	if err := sub.statement(s.AST, &sql); err != nil {
		return "", err
	}
	sql.WriteString(")")
	return sql.String(), nil
}
