package predql

import (
	"fmt"

	"github.com/zoobzio/predql/internal/types"
)

// Call is a SQL function applied to arguments.
type Call = types.Call

// Case is a searched CASE expression.
type Case = types.Case

func call(name string, args ...any) types.Call {
	c := types.Call{Name: name, Args: make([]types.Expr, len(args))}
	for i, a := range args {
		c.Args[i] = types.ToExpr(a)
	}
	return c
}

// Sum creates a SUM aggregate expression.
func Sum(field types.Field) types.Call {
	return call("SUM", field)
}

// Avg creates an AVG aggregate expression.
func Avg(field types.Field) types.Call {
	return call("AVG", field)
}

// Min creates a MIN aggregate expression.
func Min(field types.Field) types.Call {
	return call("MIN", field)
}

// Max creates a MAX aggregate expression.
func Max(field types.Field) types.Call {
	return call("MAX", field)
}

// CountAll creates COUNT(*).
func CountAll() types.Call {
	return types.Call{Name: "COUNT", Star: true}
}

// CountField creates a COUNT aggregate for a specific field.
func CountField(field types.Field) types.Call {
	return call("COUNT", field)
}

// CountDistinct creates a COUNT(DISTINCT) aggregate expression.
func CountDistinct(field types.Field) types.Call {
	c := call("COUNT", field)
	c.Distinct = true
	return c
}

// Coalesce returns the first non-null argument. Plain Go values bind as
// placeholders; fields render as columns.
func Coalesce(values ...any) types.Call {
	if len(values) < 2 {
		panic("COALESCE requires at least 2 values")
	}
	return call("COALESCE", values...)
}

// NullIf returns NULL when both arguments are equal.
func NullIf(value1, value2 any) types.Call {
	return call("NULLIF", value1, value2)
}

// Round creates a ROUND expression with an optional precision.
func Round(field types.Field, precision ...any) types.Call {
	if len(precision) > 0 {
		return call("ROUND", field, precision[0])
	}
	return call("ROUND", field)
}

// Floor creates a FLOOR expression.
func Floor(field types.Field) types.Call {
	return call("FLOOR", field)
}

// Ceil creates a CEIL expression.
func Ceil(field types.Field) types.Call {
	return call("CEIL", field)
}

// Abs creates an ABS expression.
func Abs(field types.Field) types.Call {
	return call("ABS", field)
}

// Power creates a POWER expression.
func Power(field types.Field, exponent any) types.Call {
	return call("POWER", field, exponent)
}

// Sqrt creates a SQRT expression.
func Sqrt(field types.Field) types.Call {
	return call("SQRT", field)
}

// Lower creates a LOWER expression.
func Lower(field types.Field) types.Call {
	return call("LOWER", field)
}

// Upper creates an UPPER expression.
func Upper(field types.Field) types.Call {
	return call("UPPER", field)
}

// TryAs names a projected expression, returning an error if the alias is
// not a safe identifier.
func TryAs(e types.Expr, alias string) (types.Aliased, error) {
	if e == nil {
		return types.Aliased{}, types.MissingValue("aliased expression is undefined")
	}
	if !isValidSQLIdentifier(alias) {
		return types.Aliased{}, types.Configf("invalid alias %q: must be alphanumeric/underscore and start with a letter or underscore", alias)
	}
	return types.Aliased{Expr: e, Alias: alias}, nil
}

// As names a projected expression.
func As(e types.Expr, alias string) types.Aliased {
	a, err := TryAs(e, alias)
	if err != nil {
		panic(err)
	}
	return a
}

// CaseBuilder provides a fluent API for building CASE expressions.
type CaseBuilder struct {
	err  error
	expr types.Case
}

// NewCase starts a CASE expression.
func NewCase() *CaseBuilder {
	return &CaseBuilder{}
}

// When adds a WHEN ... THEN branch. The condition accepts anything a
// grouping item does; the result is a value, field or expression.
func (cb *CaseBuilder) When(condition, result any) *CaseBuilder {
	if cb.err != nil {
		return cb
	}
	cond := item(condition)
	if cond == nil {
		cb.err = types.MissingValue(fmt.Sprintf("WHEN %d condition is undefined", len(cb.expr.Whens)))
		return cb
	}
	cb.expr.Whens = append(cb.expr.Whens, types.When{Cond: cond, Result: types.ToExpr(result)})
	return cb
}

// Else sets the ELSE branch.
func (cb *CaseBuilder) Else(result any) *CaseBuilder {
	if cb.err != nil {
		return cb
	}
	cb.expr.Else = types.ToExpr(result)
	return cb
}

// TryBuild returns the CASE expression or the first error.
func (cb *CaseBuilder) TryBuild() (types.Case, error) {
	if cb.err != nil {
		return types.Case{}, cb.err
	}
	if len(cb.expr.Whens) == 0 {
		return types.Case{}, types.Configf("CASE requires at least one WHEN clause")
	}
	return cb.expr, nil
}

// Build returns the CASE expression, panicking on error.
func (cb *CaseBuilder) Build() types.Case {
	c, err := cb.TryBuild()
	if err != nil {
		panic(err)
	}
	return c
}
