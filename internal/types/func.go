package types

import "strings"

// Call is a SQL function applied to arguments, e.g. COUNT(DISTINCT "x").
type Call struct {
	Name     string
	Args     []Expr
	Distinct bool
	// Star renders the argument list as *, as in COUNT(*).
	Star bool
}

// When is one WHEN ... THEN branch of a Case.
type When struct {
	Cond   Expr
	Result Expr
}

// Case is a searched CASE expression.
type Case struct {
	Else  Expr
	Whens []When
}

// Aliased names a projected expression. It is only valid in a SELECT list.
type Aliased struct {
	Expr  Expr
	Alias string
}

func (Call) isExpr()    {}
func (Case) isExpr()    {}
func (Aliased) isExpr() {}

// functions lists the SQL functions a Call may name.
var functions = map[string]bool{
	"SUM":      true,
	"AVG":      true,
	"MIN":      true,
	"MAX":      true,
	"COUNT":    true,
	"COALESCE": true,
	"NULLIF":   true,
	"ROUND":    true,
	"FLOOR":    true,
	"CEIL":     true,
	"ABS":      true,
	"POWER":    true,
	"SQRT":     true,
	"LOWER":    true,
	"UPPER":    true,
	"LENGTH":   true,
}

// IsAggregate reports whether the call aggregates rows.
func (c Call) IsAggregate() bool {
	switch strings.ToUpper(c.Name) {
	case "SUM", "AVG", "MIN", "MAX", "COUNT":
		return true
	}
	return false
}

// Validate checks the function name against the known set.
func (c Call) Validate() error {
	if !functions[strings.ToUpper(c.Name)] {
		return Configf("unknown SQL function %q", c.Name)
	}
	if c.Star && (len(c.Args) > 0 || c.Distinct) {
		return Configf("%s(*) takes no other arguments", c.Name)
	}
	if !c.Star && len(c.Args) == 0 {
		return Configf("%s requires at least one argument", c.Name)
	}
	return nil
}
