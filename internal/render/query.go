package render

import (
	"fmt"
	"strings"

	"github.com/zoobzio/predql/internal/types"
)

// Render converts an AST to SQL text and its ordered bind values.
func Render(ast *types.AST, d Dialect, r types.Resolver, opts Options) (*types.QueryResult, error) {
	if ast == nil {
		return nil, types.Configf("nil AST")
	}
	if err := ast.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AST: %w", err)
	}

	ctx := NewContext(d, r, opts)
	var sql strings.Builder
	if err := ctx.statement(ast, &sql); err != nil {
		return nil, err
	}
	return &types.QueryResult{SQL: sql.String(), Values: ctx.Values()}, nil
}

// RenderFragment renders a standalone expression. When bound names a model,
// bare fields resolve against it.
func RenderFragment(e types.Expr, bound types.Table, d Dialect, r types.Resolver, opts Options) (*types.QueryResult, error) {
	ctx := NewContext(d, r, opts)
	if bound.Model != "" {
		if err := ctx.Enter(bound); err != nil {
			return nil, err
		}
	}
	sql, err := ctx.Expression(e)
	if err != nil {
		return nil, err
	}
	return &types.QueryResult{SQL: sql, Values: ctx.Values()}, nil
}

// statement renders one statement into sql, entering its tables into the
// current scope first.
func (c *Context) statement(ast *types.AST, sql *strings.Builder) error {
	if err := c.Enter(ast.Target); err != nil {
		return err
	}
	for _, join := range ast.Joins {
		if err := c.Enter(join.Table); err != nil {
			return err
		}
	}

	switch ast.Operation {
	case types.OpSelect:
		return c.renderSelect(ast, sql)
	case types.OpCount:
		return c.renderCount(ast, sql)
	case types.OpInsert:
		return c.renderInsert(ast, sql)
	case types.OpUpdate:
		return c.renderUpdate(ast, sql)
	case types.OpDelete:
		return c.renderDelete(ast, sql)
	default:
		return types.Configf("unsupported operation: %s", ast.Operation)
	}
}

func (c *Context) renderSelect(ast *types.AST, sql *strings.Builder) error {
	sql.WriteString("SELECT ")
	if ast.Distinct {
		sql.WriteString("DISTINCT ")
	}

	if len(ast.Fields) == 0 {
		sql.WriteString("*")
	} else {
		fields := make([]string, 0, len(ast.Fields))
		for _, e := range ast.Fields {
			f, err := c.projection(e)
			if err != nil {
				return err
			}
			fields = append(fields, f)
		}
		sql.WriteString(strings.Join(fields, ", "))
	}

	if err := c.renderFrom(ast, sql); err != nil {
		return err
	}
	if err := c.clause(sql, " WHERE ", ast.Where); err != nil {
		return err
	}

	if len(ast.GroupBy) > 0 {
		sql.WriteString(" GROUP BY ")
		groupFields := make([]string, 0, len(ast.GroupBy))
		for _, field := range ast.GroupBy {
			col, err := c.Qualify(field)
			if err != nil {
				return err
			}
			groupFields = append(groupFields, col)
		}
		sql.WriteString(strings.Join(groupFields, ", "))
	}

	if err := c.clause(sql, " HAVING ", ast.Having); err != nil {
		return err
	}
	if err := c.renderOrdering(ast.Ordering, sql); err != nil {
		return err
	}

	if ast.Limit != nil || ast.Offset != nil {
		tail, err := c.dialect.Paginate(ast.Limit, ast.Offset, len(ast.Ordering) > 0)
		if err != nil {
			return err
		}
		sql.WriteString(tail)
	}

	return c.renderLock(ast.Lock, sql)
}

func (c *Context) renderCount(ast *types.AST, sql *strings.Builder) error {
	sql.WriteString("SELECT COUNT(*)")
	if err := c.renderFrom(ast, sql); err != nil {
		return err
	}
	return c.clause(sql, " WHERE ", ast.Where)
}

// renderFrom renders the FROM clause with its joins.
func (c *Context) renderFrom(ast *types.AST, sql *strings.Builder) error {
	target, err := c.Table(ast.Target)
	if err != nil {
		return err
	}
	sql.WriteString(" FROM ")
	sql.WriteString(target)

	for _, join := range ast.Joins {
		table, err := c.Table(join.Table)
		if err != nil {
			return err
		}
		sql.WriteString(" ")
		sql.WriteString(string(join.Type))
		sql.WriteString(" ")
		sql.WriteString(table)
		// CROSS JOIN doesn't have ON clause
		if join.Type == types.CrossJoin {
			continue
		}
		if join.On == nil {
			return types.Configf("%s %s requires an ON condition", join.Type, join.Table.Model)
		}
		on, err := c.Expression(join.On)
		if err != nil {
			return err
		}
		if on == "" {
			return types.Configf("%s %s has an empty ON condition", join.Type, join.Table.Model)
		}
		sql.WriteString(" ON ")
		sql.WriteString(on)
	}
	return nil
}

// clause renders keyword followed by e, omitting both when e is nil or
// renders to nothing.
func (c *Context) clause(sql *strings.Builder, keyword string, e types.Expr) error {
	if e == nil {
		return nil
	}
	s, err := c.Expression(e)
	if err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	sql.WriteString(keyword)
	sql.WriteString(s)
	return nil
}

func (c *Context) renderOrdering(ordering []types.OrderBy, sql *strings.Builder) error {
	if len(ordering) == 0 {
		return nil
	}

	parts := make([]string, 0, len(ordering))
	for _, order := range ordering {
		var (
			part string
			err  error
		)
		switch x := order.Expr.(type) {
		case types.Field:
			part, err = c.Qualify(x)
		case types.Raw:
			part, err = c.Raw(x)
		case types.Call:
			part, err = c.Call(x)
		case nil:
			err = types.Configf("ORDER BY term is undefined")
		default:
			err = types.Configf("ORDER BY accepts fields, functions and raw fragments, got %T", order.Expr)
		}
		if err != nil {
			return err
		}

		dir := order.Direction
		if dir == "" {
			dir = types.ASC
		}
		if dir != types.ASC && dir != types.DESC {
			return types.Configf("invalid sort direction %q", dir)
		}
		part += " " + string(dir)

		if order.Nulls != "" {
			if !c.dialect.Capabilities().NullsOrdering {
				return NewUnsupportedFeatureError(c.dialect.Name(), string(order.Nulls), "order by a CASE expression instead")
			}
			part += " " + string(order.Nulls)
		}
		parts = append(parts, part)
	}

	sql.WriteString(" ORDER BY ")
	sql.WriteString(strings.Join(parts, ", "))
	return nil
}

func (c *Context) renderLock(lock *types.Lock, sql *strings.Builder) error {
	if lock == nil {
		return nil
	}

	caps := c.dialect.Capabilities()
	switch lock.Mode {
	case types.ForUpdate, types.ForShare:
		if caps.RowLocking < RowLockingBasic {
			return NewUnsupportedFeatureError(c.dialect.Name(), string(lock.Mode))
		}
	case types.ForNoKeyUpdate, types.ForKeyShare:
		if caps.RowLocking < RowLockingFull {
			return NewUnsupportedFeatureError(c.dialect.Name(), string(lock.Mode))
		}
	default:
		return types.Configf("unknown lock mode %q", lock.Mode)
	}

	sql.WriteString(" ")
	sql.WriteString(string(lock.Mode))

	switch lock.Wait {
	case "":
	case types.NoWait, types.SkipLocked:
		if !caps.LockWait {
			return NewUnsupportedFeatureError(c.dialect.Name(), string(lock.Wait))
		}
		sql.WriteString(" ")
		sql.WriteString(string(lock.Wait))
	default:
		return types.Configf("unknown lock wait policy %q", lock.Wait)
	}
	return nil
}

func (c *Context) renderInsert(ast *types.AST, sql *strings.Builder) error {
	m, err := c.model(ast.Target.Model)
	if err != nil {
		return err
	}
	sql.WriteString("INSERT INTO ")
	sql.WriteString(c.tableIdentifier(m))

	// Columns follow the first row; later rows are reordered to match.
	first := ast.Rows[0]
	cols := make([]string, 0, len(first))
	for _, a := range first {
		col, err := c.Column(a.Field)
		if err != nil {
			return err
		}
		cols = append(cols, col)
	}
	sql.WriteString(" (")
	sql.WriteString(strings.Join(cols, ", "))
	sql.WriteString(") VALUES ")

	valueSets := make([]string, 0, len(ast.Rows))
	for _, row := range ast.Rows {
		byField := make(map[types.Field]types.Expr, len(row))
		for _, a := range row {
			byField[a.Field] = a.Value
		}
		values := make([]string, 0, len(first))
		for _, a := range first {
			v, err := c.Expression(byField[a.Field])
			if err != nil {
				return err
			}
			values = append(values, v)
		}
		valueSets = append(valueSets, "("+strings.Join(values, ", ")+")")
	}
	sql.WriteString(strings.Join(valueSets, ", "))

	return c.renderReturning(ast.Returning, sql)
}

func (c *Context) renderUpdate(ast *types.AST, sql *strings.Builder) error {
	target, err := c.Table(ast.Target)
	if err != nil {
		return err
	}
	sql.WriteString("UPDATE ")
	sql.WriteString(target)
	sql.WriteString(" SET ")

	updates := make([]string, 0, len(ast.Updates))
	for _, a := range ast.Updates {
		col, err := c.Column(a.Field)
		if err != nil {
			return err
		}
		v, err := c.Expression(a.Value)
		if err != nil {
			return err
		}
		updates = append(updates, col+" = "+v)
	}
	sql.WriteString(strings.Join(updates, ", "))

	if err := c.clause(sql, " WHERE ", ast.Where); err != nil {
		return err
	}
	return c.renderReturning(ast.Returning, sql)
}

func (c *Context) renderDelete(ast *types.AST, sql *strings.Builder) error {
	target, err := c.Table(ast.Target)
	if err != nil {
		return err
	}
	sql.WriteString("DELETE FROM ")
	sql.WriteString(target)

	if err := c.clause(sql, " WHERE ", ast.Where); err != nil {
		return err
	}
	return c.renderReturning(ast.Returning, sql)
}

func (c *Context) renderReturning(fields []types.Field, sql *strings.Builder) error {
	if len(fields) == 0 {
		return nil
	}
	if !c.dialect.Capabilities().Returning {
		return NewUnsupportedFeatureError(c.dialect.Name(), "RETURNING", "use a separate SELECT query")
	}

	cols := make([]string, 0, len(fields))
	for _, field := range fields {
		col, err := c.Column(field)
		if err != nil {
			return err
		}
		cols = append(cols, col)
	}
	sql.WriteString(" RETURNING ")
	sql.WriteString(strings.Join(cols, ", "))
	return nil
}
