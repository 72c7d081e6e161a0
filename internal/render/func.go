package render

import (
	"strings"

	"github.com/zoobzio/predql/internal/types"
)

// Call renders a function call.
func (c *Context) Call(call types.Call) (string, error) {
	if err := call.Validate(); err != nil {
		return "", err
	}

	name := strings.ToUpper(call.Name)
	if call.Star {
		return name + "(*)", nil
	}

	args, err := c.list(call.Args, ", ")
	if err != nil {
		return "", err
	}
	if call.Distinct {
		return name + "(DISTINCT " + args + ")", nil
	}
	return name + "(" + args + ")", nil
}

// Case renders a searched CASE expression.
func (c *Context) Case(e types.Case) (string, error) {
	if len(e.Whens) == 0 {
		return "", types.Configf("CASE requires at least one WHEN clause")
	}

	var sql strings.Builder
	sql.WriteString("CASE")
	for _, w := range e.Whens {
		cond, err := c.Expression(w.Cond)
		if err != nil {
			return "", err
		}
		if cond == "" {
			return "", types.Configf("CASE has an empty WHEN condition")
		}
		result, err := c.Expression(w.Result)
		if err != nil {
			return "", err
		}
		sql.WriteString(" WHEN ")
		sql.WriteString(cond)
		sql.WriteString(" THEN ")
		sql.WriteString(result)
	}
	if e.Else != nil {
		result, err := c.Expression(e.Else)
		if err != nil {
			return "", err
		}
		sql.WriteString(" ELSE ")
		sql.WriteString(result)
	}
	sql.WriteString(" END")
	return sql.String(), nil
}

// projection renders one SELECT list entry, honoring an alias.
func (c *Context) projection(e types.Expr) (string, error) {
	a, ok := e.(types.Aliased)
	if !ok {
		return c.Expression(e)
	}
	if _, nested := a.Expr.(types.Aliased); nested {
		return "", types.Configf("alias %q wraps another alias", a.Alias)
	}
	s, err := c.Expression(a.Expr)
	if err != nil {
		return "", err
	}
	return s + " AS " + c.Quote(a.Alias), nil
}
