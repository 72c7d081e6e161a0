// Package predql builds SQL predicates and statements from a composable
// expression tree and renders them into parameterized SQL.
//
// The tree is made of typed nodes: raw fragments, field and table
// references, conditions, AND/OR groupings and subqueries. Rendering walks
// the tree once and returns the SQL text together with the bind values in
// the exact order their placeholders appear.
//
// # Basic Usage
//
// Models map logical field names onto physical columns and are collected
// into a Schema that is passed to every render call:
//
//	schema := predql.MustSchema(
//		predql.NewModel("user", "user").Columns("id", "name", "age"),
//	)
//
//	result, err := predql.RenderWhere(schema, "user",
//		predql.Or(
//			predql.Not(true),
//			predql.Eq(predql.Col("name"), "foo"),
//		),
//	)
//	// result.SQL:    (NOT ? OR "user"."name" = ?)
//	// result.Values: [true foo]
//
// # Statements
//
// The fluent Builder assembles SELECT, COUNT, INSERT, UPDATE and DELETE
// statements. Errors are sticky: the first failure is reported by Build or
// Render and every later call is a no-op.
//
//	result, err := predql.Select(schema.T("user")).
//		Fields(schema.F("user", "id")).
//		Where(map[string]any{"name": "foo"}).
//		OrderBy(schema.F("user", "id"), predql.DESC).
//		Limit(10).
//		Render(schema, postgres.New())
//
// # Dialects
//
// The default dialect quotes identifiers with double quotes and uses ? as
// the placeholder. The postgres, sqlite, mariadb and mssql packages supply
// their own quoting, placeholder and pagination forms.
package predql

import (
	"github.com/zoobzio/predql/internal/render"
	"github.com/zoobzio/predql/internal/types"
)

// Expr is any node of the expression tree.
type Expr = types.Expr

// Field is a reference to a model field.
type Field = types.Field

// Table is a reference to a model's table.
type Table = types.Table

// Condition is a single predicate.
type Condition = types.Condition

// ConditionType is the predicate kind of a Condition.
type ConditionType = types.ConditionType

// Grouping combines expressions with AND/OR logic.
type Grouping = types.Grouping

// Fragment is literal SQL text with its own bind values.
type Fragment = types.Raw

// List is an ordered list of expressions.
type List = types.List

// Mapping is an ordered field-to-value mapping.
type Mapping = types.Mapping

// Subquery is a nested SELECT used as an expression.
type Subquery = types.Subquery

// AST represents the abstract syntax tree for a statement.
type AST = types.AST

// QueryResult contains the rendered SQL and its ordered bind values.
type QueryResult = types.QueryResult

// Dialect supplies identifier quoting, placeholders and pagination.
type Dialect = render.Dialect

// Capabilities describes the SQL features supported by a dialect.
type Capabilities = render.Capabilities

// Formatters override how one category of expression renders.
type Formatters = render.Formatters

// Standard is the default dialect: double-quoted identifiers and ? placeholders.
var Standard = render.Standard

// Re-export condition types for public API.
const (
	CondEqualTo              = types.EqualTo
	CondNotEqualTo           = types.NotEqualTo
	CondGreaterThan          = types.GreaterThan
	CondGreaterThanOrEqualTo = types.GreaterThanOrEqualTo
	CondLessThan             = types.LessThan
	CondLessThanOrEqualTo    = types.LessThanOrEqualTo
	CondIsNull               = types.IsNull
	CondIsNotNull            = types.IsNotNull
	CondLike                 = types.Like
	CondNotLike              = types.NotLike
	CondILike                = types.ILike
	CondNotILike             = types.NotILike
	CondBetween              = types.Between
	CondNotBetween           = types.NotBetween
	CondIn                   = types.In
	CondNotIn                = types.NotIn
	CondExists               = types.Exists
	CondNotExists            = types.NotExists
	CondNot                  = types.Not
	CondAny                  = types.Any
	CondAll                  = types.All
)

// LogicOperator represents how grouped items are combined.
type LogicOperator = types.LogicOperator

// Re-export logic operators for public API.
const (
	AND = types.AND
	OR  = types.OR
)

// Operation represents the type of statement.
type Operation = types.Operation

// Re-export operation constants for public API.
const (
	OpSelect = types.OpSelect
	OpInsert = types.OpInsert
	OpUpdate = types.OpUpdate
	OpDelete = types.OpDelete
	OpCount  = types.OpCount
)

// Direction represents sort direction.
type Direction = types.Direction

// Re-export direction constants for public API.
const (
	ASC  = types.ASC
	DESC = types.DESC
)

// NullsOrdering represents NULL ordering in ORDER BY.
type NullsOrdering = types.NullsOrdering

// Re-export nulls ordering constants for public API.
const (
	NullsFirst = types.NullsFirst
	NullsLast  = types.NullsLast
)

// LockMode represents a row-level locking clause.
type LockMode = types.LockMode

// Re-export lock modes for public API.
const (
	ForUpdate      = types.ForUpdate
	ForNoKeyUpdate = types.ForNoKeyUpdate
	ForShare       = types.ForShare
	ForKeyShare    = types.ForKeyShare
)

// LockWait represents the wait policy of a locking clause.
type LockWait = types.LockWait

// Re-export lock wait policies for public API.
const (
	NoWait     = types.NoWait
	SkipLocked = types.SkipLocked
)

// RowLockingLevel indicates the level of row-level locking support.
type RowLockingLevel = render.RowLockingLevel

// Re-export row locking levels for dialect packages.
const (
	RowLockingNone  = render.RowLockingNone
	RowLockingBasic = render.RowLockingBasic
	RowLockingFull  = render.RowLockingFull
)
