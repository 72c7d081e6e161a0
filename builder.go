package predql

import (
	"fmt"
	"sort"

	"github.com/zoobzio/predql/internal/render"
	"github.com/zoobzio/predql/internal/types"
)

// Builder provides a fluent API for constructing statements.
type Builder struct {
	ast    *types.AST
	err    error
	where  []types.Expr
	having []types.Expr
}

// GetAST returns the internal AST.
func (b *Builder) GetAST() *types.AST {
	return b.ast
}

// GetError returns the internal error.
func (b *Builder) GetError() error {
	return b.err
}

// SetError sets the internal error (for use by packages that extend the builder).
func (b *Builder) SetError(err error) {
	b.err = err
}

func newBuilder(op types.Operation, t types.Table) *Builder {
	return &Builder{ast: &types.AST{Operation: op, Target: t}}
}

// Select creates a new SELECT builder.
func Select(t types.Table) *Builder { return newBuilder(types.OpSelect, t) }

// Count creates a new COUNT builder.
func Count(t types.Table) *Builder { return newBuilder(types.OpCount, t) }

// Insert creates a new INSERT builder.
func Insert(t types.Table) *Builder { return newBuilder(types.OpInsert, t) }

// Update creates a new UPDATE builder.
func Update(t types.Table) *Builder { return newBuilder(types.OpUpdate, t) }

// Delete creates a new DELETE builder.
func Delete(t types.Table) *Builder { return newBuilder(types.OpDelete, t) }

// Fields sets the SELECT projection. Each item is a Field, a raw fragment,
// a function call, a CASE expression or one of those under an alias.
func (b *Builder) Fields(fields ...any) *Builder {
	if b.err != nil {
		return b
	}
	if b.ast.Operation != types.OpSelect {
		b.err = fmt.Errorf("Fields() can only be used with SELECT queries")
		return b
	}
	for _, f := range fields {
		switch x := types.ToExpr(f).(type) {
		case types.Field, types.Raw, types.Call, types.Case, types.Aliased:
			b.ast.Fields = append(b.ast.Fields, x)
		default:
			b.err = fmt.Errorf("Fields() accepts fields, expressions and raw fragments, got %T", f)
			return b
		}
	}
	return b
}

// Distinct sets the DISTINCT flag for SELECT queries.
func (b *Builder) Distinct() *Builder {
	if b.err != nil {
		return b
	}
	if b.ast.Operation != types.OpSelect {
		b.err = fmt.Errorf("DISTINCT can only be used with SELECT queries")
		return b
	}
	b.ast.Distinct = true
	return b
}

// Where adds conditions. Items from every call are combined with AND.
// An item is a Condition, Grouping, raw fragment, Subquery or a
// map[string]any of field equalities.
func (b *Builder) Where(items ...any) *Builder {
	if b.err != nil {
		return b
	}
	if b.ast.Operation == types.OpInsert {
		b.err = fmt.Errorf("WHERE cannot be used with INSERT queries")
		return b
	}
	for i, v := range items {
		e := item(v)
		if e == nil {
			b.err = types.MissingValue(fmt.Sprintf("where item %d is undefined", i))
			return b
		}
		b.where = append(b.where, e)
	}
	return b
}

// Join adds an INNER JOIN.
func (b *Builder) Join(table types.Table, on any) *Builder {
	return b.addJoin(types.InnerJoin, table, on)
}

// InnerJoin adds an INNER JOIN.
func (b *Builder) InnerJoin(table types.Table, on any) *Builder {
	return b.addJoin(types.InnerJoin, table, on)
}

// LeftJoin adds a LEFT JOIN.
func (b *Builder) LeftJoin(table types.Table, on any) *Builder {
	return b.addJoin(types.LeftJoin, table, on)
}

// RightJoin adds a RIGHT JOIN.
func (b *Builder) RightJoin(table types.Table, on any) *Builder {
	return b.addJoin(types.RightJoin, table, on)
}

// CrossJoin adds a CROSS JOIN (no ON clause needed).
func (b *Builder) CrossJoin(table types.Table) *Builder {
	return b.addJoin(types.CrossJoin, table, nil)
}

// addJoin is a helper to add joins.
func (b *Builder) addJoin(joinType types.JoinType, table types.Table, on any) *Builder {
	if b.err != nil {
		return b
	}
	if b.ast.Operation != types.OpSelect && b.ast.Operation != types.OpCount {
		b.err = fmt.Errorf("JOIN can only be used with SELECT or COUNT queries")
		return b
	}

	cond := item(on)
	if joinType == types.CrossJoin && cond != nil {
		b.err = fmt.Errorf("CROSS JOIN cannot have ON clause")
		return b
	}
	if joinType != types.CrossJoin && cond == nil {
		b.err = fmt.Errorf("%s requires ON clause", joinType)
		return b
	}

	b.ast.Joins = append(b.ast.Joins, types.Join{
		Type:  joinType,
		Table: table,
		On:    cond,
	})
	return b
}

// GroupBy adds GROUP BY fields.
func (b *Builder) GroupBy(fields ...types.Field) *Builder {
	if b.err != nil {
		return b
	}
	if b.ast.Operation != types.OpSelect {
		b.err = fmt.Errorf("GROUP BY can only be used with SELECT queries")
		return b
	}
	b.ast.GroupBy = append(b.ast.GroupBy, fields...)
	return b
}

// Having adds HAVING conditions, combined with AND.
func (b *Builder) Having(items ...any) *Builder {
	if b.err != nil {
		return b
	}
	if b.ast.Operation != types.OpSelect {
		b.err = fmt.Errorf("HAVING can only be used with SELECT queries")
		return b
	}
	if len(b.ast.GroupBy) == 0 {
		b.err = fmt.Errorf("HAVING requires GROUP BY")
		return b
	}
	for i, v := range items {
		e := item(v)
		if e == nil {
			b.err = types.MissingValue(fmt.Sprintf("having item %d is undefined", i))
			return b
		}
		b.having = append(b.having, e)
	}
	return b
}

// OrderBy adds ordering.
func (b *Builder) OrderBy(f types.Field, direction types.Direction) *Builder {
	return b.addOrder(types.OrderBy{Expr: f, Direction: direction})
}

// OrderByNulls adds ordering with explicit NULL placement.
func (b *Builder) OrderByNulls(f types.Field, direction types.Direction, nulls types.NullsOrdering) *Builder {
	return b.addOrder(types.OrderBy{Expr: f, Direction: direction, Nulls: nulls})
}

// OrderByRaw adds ordering by a raw expression.
func (b *Builder) OrderByRaw(r types.Raw, direction types.Direction) *Builder {
	return b.addOrder(types.OrderBy{Expr: r, Direction: direction})
}

// OrderByCall adds ordering by a function call, e.g. an aggregate.
func (b *Builder) OrderByCall(call types.Call, direction types.Direction) *Builder {
	return b.addOrder(types.OrderBy{Expr: call, Direction: direction})
}

func (b *Builder) addOrder(o types.OrderBy) *Builder {
	if b.err != nil {
		return b
	}
	if b.ast.Operation != types.OpSelect {
		b.err = fmt.Errorf("ORDER BY can only be used with SELECT queries")
		return b
	}
	if o.Direction != types.ASC && o.Direction != types.DESC {
		b.err = fmt.Errorf("invalid sort direction %q", o.Direction)
		return b
	}
	b.ast.Ordering = append(b.ast.Ordering, o)
	return b
}

// Limit sets the limit.
func (b *Builder) Limit(limit int) *Builder {
	if b.err != nil {
		return b
	}
	if limit < 0 {
		b.err = fmt.Errorf("LIMIT must be non-negative, got %d", limit)
		return b
	}
	b.ast.Limit = &limit
	return b
}

// Offset sets the offset.
func (b *Builder) Offset(offset int) *Builder {
	if b.err != nil {
		return b
	}
	if offset < 0 {
		b.err = fmt.Errorf("OFFSET must be non-negative, got %d", offset)
		return b
	}
	b.ast.Offset = &offset
	return b
}

// Lock adds a row locking clause to a SELECT.
func (b *Builder) Lock(mode types.LockMode) *Builder {
	if b.err != nil {
		return b
	}
	if b.ast.Operation != types.OpSelect {
		b.err = fmt.Errorf("locking can only be used with SELECT queries")
		return b
	}
	b.ast.Lock = &types.Lock{Mode: mode}
	return b
}

// ForUpdate adds FOR UPDATE.
func (b *Builder) ForUpdate() *Builder { return b.Lock(types.ForUpdate) }

// ForNoKeyUpdate adds FOR NO KEY UPDATE.
func (b *Builder) ForNoKeyUpdate() *Builder { return b.Lock(types.ForNoKeyUpdate) }

// ForShare adds FOR SHARE.
func (b *Builder) ForShare() *Builder { return b.Lock(types.ForShare) }

// ForKeyShare adds FOR KEY SHARE.
func (b *Builder) ForKeyShare() *Builder { return b.Lock(types.ForKeyShare) }

// NoWait makes the locking clause fail instead of waiting.
func (b *Builder) NoWait() *Builder { return b.lockWait(types.NoWait) }

// SkipLocked makes the locking clause skip locked rows.
func (b *Builder) SkipLocked() *Builder { return b.lockWait(types.SkipLocked) }

func (b *Builder) lockWait(w types.LockWait) *Builder {
	if b.err != nil {
		return b
	}
	if b.ast.Lock == nil {
		b.err = fmt.Errorf("%s requires a locking clause", w)
		return b
	}
	b.ast.Lock.Wait = w
	return b
}

// Set adds a field update for UPDATE queries.
func (b *Builder) Set(f types.Field, value any) *Builder {
	if b.err != nil {
		return b
	}
	if b.ast.Operation != types.OpUpdate {
		b.err = fmt.Errorf("Set() can only be used with UPDATE queries")
		return b
	}
	b.ast.Updates = append(b.ast.Updates, types.Assignment{Field: f, Value: types.ToExpr(value)})
	return b
}

// Value adds a single field-value pair for INSERT queries.
// Multiple calls to Value() build up a single row to insert.
// Call NextRow() to finalize the current row and start a new one.
func (b *Builder) Value(f types.Field, value any) *Builder {
	if b.err != nil {
		return b
	}
	if b.ast.Operation != types.OpInsert {
		b.err = fmt.Errorf("Value() can only be used with INSERT queries")
		return b
	}
	if len(b.ast.Rows) == 0 {
		b.ast.Rows = append(b.ast.Rows, nil)
	}
	last := len(b.ast.Rows) - 1
	b.ast.Rows[last] = append(b.ast.Rows[last], types.Assignment{Field: f, Value: types.ToExpr(value)})
	return b
}

// NextRow finalizes the current row and starts a new one for INSERT queries.
func (b *Builder) NextRow() *Builder {
	if b.err != nil {
		return b
	}
	if b.ast.Operation != types.OpInsert {
		b.err = fmt.Errorf("NextRow() can only be used with INSERT queries")
		return b
	}
	b.ast.Rows = append(b.ast.Rows, nil)
	return b
}

// Row adds a complete INSERT row from a map of field names to values.
// Fields are ordered by name.
func (b *Builder) Row(values map[string]any) *Builder {
	if b.err != nil {
		return b
	}
	if b.ast.Operation != types.OpInsert {
		b.err = fmt.Errorf("Row() can only be used with INSERT queries")
		return b
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	row := make([]types.Assignment, 0, len(names))
	for _, name := range names {
		row = append(row, types.Assignment{Field: types.ParseField(name), Value: types.ToExpr(values[name])})
	}
	if n := len(b.ast.Rows); n > 0 && len(b.ast.Rows[n-1]) == 0 {
		b.ast.Rows[n-1] = row
	} else {
		b.ast.Rows = append(b.ast.Rows, row)
	}
	return b
}

// Returning adds RETURNING fields for INSERT/UPDATE/DELETE.
func (b *Builder) Returning(fields ...types.Field) *Builder {
	if b.err != nil {
		return b
	}
	switch b.ast.Operation {
	case types.OpInsert, types.OpUpdate, types.OpDelete:
		b.ast.Returning = append(b.ast.Returning, fields...)
	default:
		b.err = fmt.Errorf("RETURNING can only be used with INSERT, UPDATE, or DELETE")
	}
	return b
}

// combine joins accumulated items with AND; a single item stays as-is.
func combine(items []types.Expr) types.Expr {
	switch len(items) {
	case 0:
		return nil
	case 1:
		return items[0]
	default:
		return types.Grouping{Logic: types.AND, Items: append([]types.Expr(nil), items...)}
	}
}

// Build returns the constructed AST or an error.
func (b *Builder) Build() (*types.AST, error) {
	if b.err != nil {
		return nil, b.err
	}

	b.ast.Where = combine(b.where)
	b.ast.Having = combine(b.having)

	if err := b.ast.Validate(); err != nil {
		return nil, err
	}
	return b.ast, nil
}

// MustBuild returns the AST or panics on error.
func (b *Builder) MustBuild() *types.AST {
	ast, err := b.Build()
	if err != nil {
		panic(err)
	}
	return ast
}

// Render builds the AST and renders it to SQL. A nil dialect means Standard.
func (b *Builder) Render(s *Schema, d Dialect, opts ...Option) (*QueryResult, error) {
	ast, err := b.Build()
	if err != nil {
		return nil, err
	}
	return render.Render(ast, d, resolver(s), options(opts))
}

// MustRender builds and renders the AST or panics on error.
func (b *Builder) MustRender(s *Schema, d Dialect, opts ...Option) *QueryResult {
	result, err := b.Render(s, d, opts...)
	if err != nil {
		panic(err)
	}
	return result
}

// TrySub turns a SELECT or COUNT builder into a subquery expression.
// The subquery is a snapshot; later calls on b do not change it.
func TrySub(b *Builder) (types.Subquery, error) {
	if b == nil {
		return types.Subquery{}, types.Configf("subquery builder cannot be nil")
	}
	ast, err := b.Build()
	if err != nil {
		return types.Subquery{}, fmt.Errorf("invalid subquery: %w", err)
	}
	if ast.Operation != types.OpSelect && ast.Operation != types.OpCount {
		return types.Subquery{}, types.Configf("subquery must be a SELECT, got %s", ast.Operation)
	}
	return types.Subquery{AST: ast.Clone()}, nil
}

// Sub turns a SELECT or COUNT builder into a subquery expression.
func Sub(b *Builder) types.Subquery {
	s, err := TrySub(b)
	if err != nil {
		panic(err)
	}
	return s
}
