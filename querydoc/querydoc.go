// Package querydoc builds statements from declarative YAML or JSON
// documents.
//
// A document names the operation, the target model and the clauses:
//
//	operation: select
//	table: user
//	fields: [id, name]
//	where:
//	  logic: or
//	  conditions:
//	    - {field: age, operator: ">", value: 18}
//	    - {field: name, operator: in, value: [a, b]}
//	order_by:
//	  - {field: name, direction: desc}
//	limit: 10
//
// Values in the document are bound as placeholders; field and table names
// are checked against the schema before the builder is returned.
package querydoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zoobzio/predql"
	"gopkg.in/yaml.v3"
)

// Query is a declarative statement.
//
//nolint:govet // fieldalignment: Logical grouping is preferred for readability
type Query struct {
	Limit            *int              `json:"limit,omitempty" yaml:"limit,omitempty"`
	Offset           *int              `json:"offset,omitempty" yaml:"offset,omitempty"`
	Where            *Condition        `json:"where,omitempty" yaml:"where,omitempty"`
	Set              map[string]any    `json:"set,omitempty" yaml:"set,omitempty"`
	Table            string            `json:"table" yaml:"table"`
	Alias            string            `json:"alias,omitempty" yaml:"alias,omitempty"`
	Operation        string            `json:"operation" yaml:"operation"`
	Lock             string            `json:"lock,omitempty" yaml:"lock,omitempty"`
	Wait             string            `json:"wait,omitempty" yaml:"wait,omitempty"`
	FieldExpressions []FieldExpression `json:"field_expressions,omitempty" yaml:"field_expressions,omitempty"`
	Having           []Condition       `json:"having,omitempty" yaml:"having,omitempty"`
	OrderBy          []Order           `json:"order_by,omitempty" yaml:"order_by,omitempty"`
	GroupBy          []string          `json:"group_by,omitempty" yaml:"group_by,omitempty"`
	Joins            []Join            `json:"joins,omitempty" yaml:"joins,omitempty"`
	Values           []map[string]any  `json:"values,omitempty" yaml:"values,omitempty"`
	Fields           []string          `json:"fields,omitempty" yaml:"fields,omitempty"`
	Returning        []string          `json:"returning,omitempty" yaml:"returning,omitempty"`
	Distinct         bool              `json:"distinct,omitempty" yaml:"distinct,omitempty"`
}

// Condition is one node of a where tree. Exactly one form is used:
// a logic group, a match map, a negation, a raw fragment, a subquery
// condition, a field comparison or a simple field condition.
type Condition struct {
	Value      any            `json:"value,omitempty" yaml:"value,omitempty"`
	Match      map[string]any `json:"match,omitempty" yaml:"match,omitempty"`
	Not        *Condition     `json:"not,omitempty" yaml:"not,omitempty"`
	Subquery   *Query         `json:"subquery,omitempty" yaml:"subquery,omitempty"`
	Field      string         `json:"field,omitempty" yaml:"field,omitempty"`
	Operator   string         `json:"operator,omitempty" yaml:"operator,omitempty"`
	RightField string         `json:"right_field,omitempty" yaml:"right_field,omitempty"`
	Raw        string         `json:"raw,omitempty" yaml:"raw,omitempty"`
	Logic      string         `json:"logic,omitempty" yaml:"logic,omitempty"`
	Args       []any          `json:"args,omitempty" yaml:"args,omitempty"`
	Conditions []Condition    `json:"conditions,omitempty" yaml:"conditions,omitempty"`
}

// Order is one ORDER BY term.
type Order struct {
	Field     string `json:"field" yaml:"field"`
	Direction string `json:"direction,omitempty" yaml:"direction,omitempty"` // defaults to ASC
	Nulls     string `json:"nulls,omitempty" yaml:"nulls,omitempty"`         // "first" or "last"
}

// Join is a JOIN clause.
type Join struct {
	On    *Condition `json:"on,omitempty" yaml:"on,omitempty"`
	Type  string     `json:"type" yaml:"type"` // "inner", "left", "right", "cross"
	Table string     `json:"table" yaml:"table"`
	Alias string     `json:"alias,omitempty" yaml:"alias,omitempty"`
}

// FieldExpression is a projected aggregate, function or CASE expression.
type FieldExpression struct {
	Math      *Math  `json:"math,omitempty" yaml:"math,omitempty"`
	Case      *Case  `json:"case,omitempty" yaml:"case,omitempty"`
	Field     string `json:"field,omitempty" yaml:"field,omitempty"`
	Aggregate string `json:"aggregate,omitempty" yaml:"aggregate,omitempty"` // "sum", "avg", "min", "max", "count", "count_distinct"
	Alias     string `json:"alias,omitempty" yaml:"alias,omitempty"`
	Coalesce  []any  `json:"coalesce,omitempty" yaml:"coalesce,omitempty"`
}

// Math is a math function applied to a field.
type Math struct {
	Arg      any    `json:"arg,omitempty" yaml:"arg,omitempty"`
	Function string `json:"function" yaml:"function"`
	Field    string `json:"field" yaml:"field"`
}

// Case is a CASE expression.
type Case struct {
	Else any    `json:"else,omitempty" yaml:"else,omitempty"`
	When []When `json:"when" yaml:"when"`
}

// When is a WHEN clause.
type When struct {
	Result    any       `json:"result" yaml:"result"`
	Condition Condition `json:"condition" yaml:"condition"`
}

// Parse decodes one YAML or JSON document. Unknown keys are rejected.
func Parse(data []byte) (*Query, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads one YAML or JSON document from r.
func Decode(r io.Reader) (*Query, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var q Query
	if err := dec.Decode(&q); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty query document")
		}
		return nil, fmt.Errorf("failed to decode query document: %w", err)
	}
	return &q, nil
}

// Render builds q against s and renders it for d.
func Render(q *Query, s *predql.Schema, d predql.Dialect, opts ...predql.Option) (*predql.QueryResult, error) {
	b, err := Build(q, s)
	if err != nil {
		return nil, err
	}
	return b.Render(s, d, opts...)
}

// scope resolves the field names a document may use: bare names against
// the target model and "prefix.name" against a model or a declared alias.
type scope struct {
	schema  *predql.Schema
	target  string
	aliases map[string]string
}

func (sc *scope) field(name string) (predql.Field, error) {
	f := predql.Col(name)
	if f.Model == "" {
		return sc.schema.TryF(sc.target, f.Name)
	}
	if model, ok := sc.aliases[f.Model]; ok {
		if _, err := sc.schema.TryF(model, f.Name); err != nil {
			return predql.Field{}, err
		}
		return f, nil
	}
	return sc.schema.TryF(f.Model, f.Name)
}

func (sc *scope) table(model, alias string) (predql.Table, error) {
	if alias == "" {
		return sc.schema.TryT(model)
	}
	t, err := sc.schema.TryT(model, alias)
	if err != nil {
		return predql.Table{}, err
	}
	sc.aliases[alias] = model
	return t, nil
}

// Build converts a document into a builder. The builder still has to be
// rendered; model and field names are already validated against s.
func Build(q *Query, s *predql.Schema) (*predql.Builder, error) {
	if q == nil {
		return nil, fmt.Errorf("query cannot be nil")
	}
	if s == nil {
		return nil, fmt.Errorf("schema cannot be nil")
	}
	return build(q, &scope{schema: s, target: q.Table, aliases: map[string]string{}})
}

func build(q *Query, sc *scope) (*predql.Builder, error) {
	if q.Operation == "" {
		return nil, fmt.Errorf("operation is required")
	}
	if q.Table == "" {
		return nil, fmt.Errorf("table is required")
	}

	table, err := sc.table(q.Table, q.Alias)
	if err != nil {
		return nil, err
	}

	var builder *predql.Builder
	op := strings.ToUpper(q.Operation)
	switch op {
	case "SELECT":
		builder = predql.Select(table)
	case "COUNT":
		builder = predql.Count(table)
	case "INSERT":
		builder = predql.Insert(table)
	case "UPDATE":
		builder = predql.Update(table)
	case "DELETE":
		builder = predql.Delete(table)
	default:
		return nil, fmt.Errorf("unsupported operation: %s", q.Operation)
	}

	// Join tables first so their aliases resolve in every clause.
	joinTables := make([]predql.Table, len(q.Joins))
	for i := range q.Joins {
		joinTables[i], err = sc.table(q.Joins[i].Table, q.Joins[i].Alias)
		if err != nil {
			return nil, fmt.Errorf("invalid join table '%s': %w", q.Joins[i].Table, err)
		}
	}

	if op == "SELECT" {
		for _, name := range q.Fields {
			f, err := sc.field(name)
			if err != nil {
				return nil, fmt.Errorf("invalid field '%s': %w", name, err)
			}
			builder.Fields(f)
		}
		for i := range q.FieldExpressions {
			e, err := sc.fieldExpression(&q.FieldExpressions[i])
			if err != nil {
				return nil, fmt.Errorf("invalid field expression: %w", err)
			}
			builder.Fields(e)
		}
		if q.Distinct {
			builder.Distinct()
		}
	}

	for i := range q.Joins {
		join := &q.Joins[i]
		if strings.EqualFold(join.Type, "cross") {
			builder.CrossJoin(joinTables[i])
			continue
		}
		if join.On == nil {
			return nil, fmt.Errorf("join '%s' requires an on condition", join.Table)
		}
		on, err := sc.condition(join.On)
		if err != nil {
			return nil, fmt.Errorf("invalid join condition: %w", err)
		}
		switch strings.ToLower(join.Type) {
		case "inner", "":
			builder.InnerJoin(joinTables[i], on)
		case "left":
			builder.LeftJoin(joinTables[i], on)
		case "right":
			builder.RightJoin(joinTables[i], on)
		default:
			return nil, fmt.Errorf("unsupported join type: %s", join.Type)
		}
	}

	if q.Where != nil {
		cond, err := sc.condition(q.Where)
		if err != nil {
			return nil, fmt.Errorf("invalid where clause: %w", err)
		}
		builder.Where(cond)
	}

	if len(q.GroupBy) > 0 {
		fields := make([]predql.Field, len(q.GroupBy))
		for i, name := range q.GroupBy {
			if fields[i], err = sc.field(name); err != nil {
				return nil, fmt.Errorf("invalid group by field '%s': %w", name, err)
			}
		}
		builder.GroupBy(fields...)
	}

	for i := range q.Having {
		cond, err := sc.condition(&q.Having[i])
		if err != nil {
			return nil, fmt.Errorf("invalid having condition: %w", err)
		}
		builder.Having(cond)
	}

	for _, order := range q.OrderBy {
		f, err := sc.field(order.Field)
		if err != nil {
			return nil, fmt.Errorf("invalid order by field '%s': %w", order.Field, err)
		}
		dir := predql.ASC
		switch strings.ToUpper(order.Direction) {
		case "", "ASC":
		case "DESC":
			dir = predql.DESC
		default:
			return nil, fmt.Errorf("invalid sort direction: %s", order.Direction)
		}
		switch strings.ToLower(order.Nulls) {
		case "":
			builder.OrderBy(f, dir)
		case "first":
			builder.OrderByNulls(f, dir, predql.NullsFirst)
		case "last":
			builder.OrderByNulls(f, dir, predql.NullsLast)
		default:
			return nil, fmt.Errorf("invalid nulls ordering: %s", order.Nulls)
		}
	}

	if q.Limit != nil {
		builder.Limit(*q.Limit)
	}
	if q.Offset != nil {
		builder.Offset(*q.Offset)
	}

	if err := sc.locking(q, builder); err != nil {
		return nil, err
	}

	switch op {
	case "UPDATE":
		if len(q.Set) == 0 {
			return nil, fmt.Errorf("UPDATE requires at least one field to update")
		}
		for _, name := range sortedKeys(q.Set) {
			f, err := sc.field(name)
			if err != nil {
				return nil, fmt.Errorf("invalid update field '%s': %w", name, err)
			}
			builder.Set(f, predql.Value(q.Set[name]))
		}
	case "INSERT":
		if len(q.Values) == 0 {
			return nil, fmt.Errorf("INSERT requires at least one value set")
		}
		for i, row := range q.Values {
			if i > 0 {
				builder.NextRow()
			}
			for _, name := range sortedKeys(row) {
				f, err := sc.field(name)
				if err != nil {
					return nil, fmt.Errorf("invalid insert field '%s': %w", name, err)
				}
				builder.Value(f, predql.Value(row[name]))
			}
		}
	}

	if len(q.Returning) > 0 {
		fields := make([]predql.Field, len(q.Returning))
		for i, name := range q.Returning {
			if fields[i], err = sc.field(name); err != nil {
				return nil, fmt.Errorf("invalid returning field '%s': %w", name, err)
			}
		}
		builder.Returning(fields...)
	}

	if err := builder.GetError(); err != nil {
		return nil, err
	}
	return builder, nil
}

func (sc *scope) locking(q *Query, builder *predql.Builder) error {
	switch strings.ToLower(q.Lock) {
	case "":
		if q.Wait != "" {
			return fmt.Errorf("wait policy %q requires a lock", q.Wait)
		}
		return nil
	case "update":
		builder.ForUpdate()
	case "no key update":
		builder.ForNoKeyUpdate()
	case "share":
		builder.ForShare()
	case "key share":
		builder.ForKeyShare()
	default:
		return fmt.Errorf("unsupported lock mode: %s", q.Lock)
	}

	switch strings.ToLower(q.Wait) {
	case "":
	case "nowait":
		builder.NoWait()
	case "skip locked":
		builder.SkipLocked()
	default:
		return fmt.Errorf("unsupported wait policy: %s", q.Wait)
	}
	return nil
}
