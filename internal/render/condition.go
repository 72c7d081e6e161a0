package render

import (
	"fmt"

	"github.com/zoobzio/predql/internal/types"
)

// Condition renders a single predicate.
func (c *Context) Condition(cond types.Condition) (string, error) {
	if !cond.Type.Valid() {
		return "", types.Configf("unknown condition type %q", cond.Type)
	}

	if cond.Type.IsUnary() {
		return c.unaryCondition(cond)
	}

	if cond.Field == nil {
		return "", types.Configf("%s condition requires a field", cond.Type)
	}
	col, err := c.Qualify(*cond.Field)
	if err != nil {
		return "", err
	}

	switch cond.Type {
	case types.IsNull:
		return col + " IS NULL", nil
	case types.IsNotNull:
		return col + " IS NOT NULL", nil
	case types.Between, types.NotBetween:
		return c.betweenCondition(col, cond)
	case types.In, types.NotIn:
		return c.inCondition(col, cond)
	case types.ILike, types.NotILike:
		if !c.dialect.Capabilities().CaseInsensitiveLike {
			return "", NewUnsupportedFeatureError(c.dialect.Name(), "ILIKE", "use LIKE with LOWER()")
		}
	}

	op, _ := cond.Type.Operator()
	value, err := c.operand(cond)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s %s", col, op, value), nil
}

// unaryCondition renders NOT, EXISTS, NOT EXISTS, ANY and ALL.
func (c *Context) unaryCondition(cond types.Condition) (string, error) {
	if cond.Field != nil {
		return "", types.Configf("%s condition does not take a field", cond.Type)
	}
	kw, _ := cond.Type.Keyword()
	value, err := c.operand(cond)
	if err != nil {
		return "", err
	}
	return kw + " " + value, nil
}

// operand renders the value of a condition, rejecting operands that render
// to nothing (an empty grouping).
func (c *Context) operand(cond types.Condition) (string, error) {
	if cond.Value == nil {
		return "", types.MissingValue(fmt.Sprintf("%s condition value is undefined", cond.Type))
	}
	value, err := c.Expression(cond.Value)
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", types.Configf("%s condition has an empty operand", cond.Type)
	}
	return value, nil
}

// betweenCondition renders [NOT] BETWEEN using the first two list elements.
func (c *Context) betweenCondition(col string, cond types.Condition) (string, error) {
	list, ok := cond.Value.(types.List)
	if !ok {
		if cond.Value == nil {
			return "", types.MissingValue("between bounds are undefined")
		}
		return "", types.Configf("%s requires a list of two bounds, got %T", cond.Type, cond.Value)
	}
	if len(list.Items) < 2 {
		return "", types.Configf("%s requires two bounds, got %d", cond.Type, len(list.Items))
	}
	if len(list.Items) > 2 && c.opts.Strict {
		return "", types.Configf("%s takes exactly two bounds, got %d", cond.Type, len(list.Items))
	}

	bounds, err := c.Expression(list, Formatters{
		List: func(ctx *Context, l types.List) (string, error) {
			return ctx.list(l.Items[:2], " AND ")
		},
	})
	if err != nil {
		return "", err
	}

	kw := "BETWEEN"
	if cond.Type == types.NotBetween {
		kw = "NOT BETWEEN"
	}
	return fmt.Sprintf("%s %s %s", col, kw, bounds), nil
}

// inCondition renders [NOT] IN over a list, subquery or raw fragment.
// An empty list cannot be expressed as IN (), so it collapses to a bound
// constant: false for IN, true for NOT IN.
func (c *Context) inCondition(col string, cond types.Condition) (string, error) {
	kw := "IN"
	if cond.Type == types.NotIn {
		kw = "NOT IN"
	}

	switch v := cond.Value.(type) {
	case nil:
		return "", types.MissingValue(fmt.Sprintf("%s list is undefined", cond.Type))
	case types.List:
		if len(v.Items) == 0 {
			if c.opts.Strict {
				return "", types.Configf("%s over an empty list", cond.Type)
			}
			return c.Bind(cond.Type == types.NotIn), nil
		}
		items, err := c.Expression(v)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s (%s)", col, kw, items), nil
	case types.Subquery:
		sub, err := c.Subquery(v)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", col, kw, sub), nil
	default:
		item, err := c.Expression(v)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s (%s)", col, kw, item), nil
	}
}
