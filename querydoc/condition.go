package querydoc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zoobzio/predql"
)

// operators maps document operator spellings to condition types.
var operators = map[string]predql.ConditionType{
	"=":           predql.CondEqualTo,
	"==":          predql.CondEqualTo,
	"eq":          predql.CondEqualTo,
	"!=":          predql.CondNotEqualTo,
	"<>":          predql.CondNotEqualTo,
	"ne":          predql.CondNotEqualTo,
	">":           predql.CondGreaterThan,
	"gt":          predql.CondGreaterThan,
	">=":          predql.CondGreaterThanOrEqualTo,
	"ge":          predql.CondGreaterThanOrEqualTo,
	"gte":         predql.CondGreaterThanOrEqualTo,
	"<":           predql.CondLessThan,
	"lt":          predql.CondLessThan,
	"<=":          predql.CondLessThanOrEqualTo,
	"le":          predql.CondLessThanOrEqualTo,
	"lte":         predql.CondLessThanOrEqualTo,
	"like":        predql.CondLike,
	"not like":    predql.CondNotLike,
	"ilike":       predql.CondILike,
	"not ilike":   predql.CondNotILike,
	"in":          predql.CondIn,
	"not in":      predql.CondNotIn,
	"between":     predql.CondBetween,
	"not between": predql.CondNotBetween,
	"is null":     predql.CondIsNull,
	"is not null": predql.CondIsNotNull,
	"exists":      predql.CondExists,
	"not exists":  predql.CondNotExists,
}

// parseOperator accepts SQL spellings, short names and condition type
// names such as "greaterThanOrEqualTo".
func parseOperator(op string) (predql.ConditionType, error) {
	if t, ok := operators[strings.ToLower(strings.TrimSpace(op))]; ok {
		return t, nil
	}
	if t := predql.ConditionType(op); t.Valid() {
		return t, nil
	}
	return "", fmt.Errorf("unsupported operator: %s", op)
}

// condition converts one where-tree node.
func (sc *scope) condition(c *Condition) (predql.Expr, error) {
	switch {
	case c.Logic != "":
		return sc.group(c)
	case c.Match != nil:
		return sc.match(c.Match)
	case c.Not != nil:
		inner, err := sc.condition(c.Not)
		if err != nil {
			return nil, fmt.Errorf("invalid not condition: %w", err)
		}
		return predql.Not(inner), nil
	case c.Raw != "":
		return predql.TryRaw(c.Raw, c.Args...)
	case c.Subquery != nil:
		return sc.subqueryCondition(c)
	case c.RightField != "":
		return sc.fieldComparison(c)
	default:
		return sc.simple(c)
	}
}

func (sc *scope) group(c *Condition) (predql.Expr, error) {
	if len(c.Conditions) == 0 {
		return nil, fmt.Errorf("condition group requires at least one condition")
	}

	items := make([]any, len(c.Conditions))
	for i := range c.Conditions {
		cond, err := sc.condition(&c.Conditions[i])
		if err != nil {
			return nil, fmt.Errorf("condition %d: %w", i, err)
		}
		items[i] = cond
	}

	switch strings.ToUpper(c.Logic) {
	case "AND":
		return predql.TryAnd(items...)
	case "OR":
		return predql.TryOr(items...)
	default:
		return nil, fmt.Errorf("invalid logic operator: %s", c.Logic)
	}
}

// match validates the keys of a field-to-value map and desugars it.
func (sc *scope) match(m map[string]any) (predql.Expr, error) {
	if len(m) == 0 {
		return nil, fmt.Errorf("match requires at least one field")
	}
	items := make([]any, 0, len(m))
	for _, name := range sortedKeys(m) {
		f, err := sc.field(name)
		if err != nil {
			return nil, fmt.Errorf("invalid match field '%s': %w", name, err)
		}
		if _, ok := m[name].([]any); ok {
			items = append(items, predql.In(f, m[name]))
			continue
		}
		items = append(items, predql.Eq(f, m[name]))
	}
	return predql.TryAnd(items...)
}

func (sc *scope) subqueryCondition(c *Condition) (predql.Expr, error) {
	if c.Operator == "" {
		return nil, fmt.Errorf("operator is required for subquery condition")
	}
	t, err := parseOperator(c.Operator)
	if err != nil {
		return nil, err
	}

	sub := &scope{schema: sc.schema, target: c.Subquery.Table, aliases: make(map[string]string, len(sc.aliases))}
	for alias, model := range sc.aliases {
		sub.aliases[alias] = model
	}
	b, err := build(c.Subquery, sub)
	if err != nil {
		return nil, fmt.Errorf("invalid subquery: %w", err)
	}
	subquery, err := predql.TrySub(b)
	if err != nil {
		return nil, err
	}

	switch t {
	case predql.CondExists, predql.CondNotExists:
		if c.Field != "" {
			return nil, fmt.Errorf("%s operator does not take a field", t)
		}
		return predql.C(t, "", subquery), nil
	case predql.CondIn, predql.CondNotIn:
		if c.Field == "" {
			return nil, fmt.Errorf("%s operator requires a field", t)
		}
		f, err := sc.field(c.Field)
		if err != nil {
			return nil, fmt.Errorf("invalid subquery field '%s': %w", c.Field, err)
		}
		if t == predql.CondIn {
			return predql.In(f, subquery), nil
		}
		return predql.NotIn(f, subquery), nil
	default:
		return nil, fmt.Errorf("operator %s cannot be used with subqueries", t)
	}
}

func (sc *scope) fieldComparison(c *Condition) (predql.Expr, error) {
	if c.Field == "" {
		return nil, fmt.Errorf("field is required for field comparison")
	}
	t, err := parseOperator(c.Operator)
	if err != nil {
		return nil, err
	}
	if t.IsUnary() || t == predql.CondIn || t == predql.CondNotIn || t == predql.CondBetween || t == predql.CondNotBetween {
		return nil, fmt.Errorf("operator %s cannot compare two fields", t)
	}
	left, err := sc.field(c.Field)
	if err != nil {
		return nil, fmt.Errorf("invalid left field '%s': %w", c.Field, err)
	}
	right, err := sc.field(c.RightField)
	if err != nil {
		return nil, fmt.Errorf("invalid right field '%s': %w", c.RightField, err)
	}
	return predql.Condition{Type: t, Field: &left, Value: right}, nil
}

func (sc *scope) simple(c *Condition) (predql.Expr, error) {
	if c.Field == "" {
		return nil, fmt.Errorf("field is required for condition")
	}
	if c.Operator == "" {
		return nil, fmt.Errorf("operator is required for condition")
	}
	t, err := parseOperator(c.Operator)
	if err != nil {
		return nil, err
	}
	if t.IsUnary() {
		return nil, fmt.Errorf("operator %s requires a subquery or raw fragment", t)
	}

	f, err := sc.field(c.Field)
	if err != nil {
		return nil, fmt.Errorf("invalid condition field '%s': %w", c.Field, err)
	}

	switch t {
	case predql.CondIsNull:
		return predql.Null(f), nil
	case predql.CondIsNotNull:
		return predql.NotNull(f), nil
	case predql.CondBetween, predql.CondNotBetween, predql.CondIn, predql.CondNotIn:
		if _, ok := c.Value.([]any); !ok {
			return nil, fmt.Errorf("%s on '%s' requires a list value", t, c.Field)
		}
		return predql.Condition{Type: t, Field: &f, Value: predql.Values(c.Value.([]any)...)}, nil
	}

	if c.Value == nil {
		return nil, fmt.Errorf("condition on '%s' has no value: %w (use operator \"is null\")", c.Field, predql.ErrMissingValue)
	}
	return predql.Condition{Type: t, Field: &f, Value: predql.Value(c.Value)}, nil
}

// fieldExpression converts a projected expression.
func (sc *scope) fieldExpression(fe *FieldExpression) (predql.Expr, error) {
	var (
		e   predql.Expr
		err error
	)
	switch {
	case fe.Aggregate != "":
		e, err = sc.aggregate(fe.Aggregate, fe.Field)
	case fe.Case != nil:
		e, err = sc.caseExpression(fe.Case)
	case fe.Coalesce != nil:
		if len(fe.Coalesce) < 2 {
			return nil, fmt.Errorf("COALESCE requires at least 2 values")
		}
		args := make([]any, len(fe.Coalesce))
		for i, v := range fe.Coalesce {
			if args[i], err = sc.operand(v); err != nil {
				return nil, err
			}
		}
		e = predql.Coalesce(args...)
	case fe.Math != nil:
		e, err = sc.math(fe.Math)
	default:
		e, err = sc.field(fe.Field)
	}
	if err != nil {
		return nil, err
	}

	if fe.Alias != "" {
		return predql.TryAs(e, fe.Alias)
	}
	return e, nil
}

// operand reads a "$field" reference or a literal value.
func (sc *scope) operand(v any) (any, error) {
	if s, ok := v.(string); ok && strings.HasPrefix(s, "$") {
		return sc.field(s[1:])
	}
	return predql.Value(v), nil
}

func (sc *scope) aggregate(fn, name string) (predql.Expr, error) {
	if strings.EqualFold(fn, "count") && (name == "" || name == "*") {
		return predql.CountAll(), nil
	}
	f, err := sc.field(name)
	if err != nil {
		return nil, fmt.Errorf("invalid aggregate field '%s': %w", name, err)
	}
	switch strings.ToLower(fn) {
	case "sum":
		return predql.Sum(f), nil
	case "avg":
		return predql.Avg(f), nil
	case "min":
		return predql.Min(f), nil
	case "max":
		return predql.Max(f), nil
	case "count":
		return predql.CountField(f), nil
	case "count_distinct":
		return predql.CountDistinct(f), nil
	default:
		return nil, fmt.Errorf("unsupported aggregate function: %s", fn)
	}
}

func (sc *scope) math(m *Math) (predql.Expr, error) {
	f, err := sc.field(m.Field)
	if err != nil {
		return nil, fmt.Errorf("invalid math field '%s': %w", m.Field, err)
	}
	switch strings.ToLower(m.Function) {
	case "round":
		if m.Arg == nil {
			return predql.Round(f), nil
		}
		return predql.Round(f, predql.Value(m.Arg)), nil
	case "floor":
		return predql.Floor(f), nil
	case "ceil":
		return predql.Ceil(f), nil
	case "abs":
		return predql.Abs(f), nil
	case "power":
		if m.Arg == nil {
			return nil, fmt.Errorf("POWER requires exponent argument")
		}
		return predql.Power(f, predql.Value(m.Arg)), nil
	case "sqrt":
		return predql.Sqrt(f), nil
	case "lower":
		return predql.Lower(f), nil
	case "upper":
		return predql.Upper(f), nil
	default:
		return nil, fmt.Errorf("unsupported math function: %s", m.Function)
	}
}

func (sc *scope) caseExpression(c *Case) (predql.Expr, error) {
	if len(c.When) == 0 {
		return nil, fmt.Errorf("CASE expression requires at least one WHEN clause")
	}
	cb := predql.NewCase()
	for i := range c.When {
		cond, err := sc.condition(&c.When[i].Condition)
		if err != nil {
			return nil, fmt.Errorf("invalid WHEN condition: %w", err)
		}
		result, err := sc.operand(c.When[i].Result)
		if err != nil {
			return nil, err
		}
		cb.When(cond, result)
	}
	if c.Else != nil {
		result, err := sc.operand(c.Else)
		if err != nil {
			return nil, err
		}
		cb.Else(result)
	}
	return cb.TryBuild()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
