package render

import "github.com/zoobzio/predql/internal/types"

// Options tunes rendering policy.
type Options struct {
	// Strict rejects the lenient edge-case policies: BETWEEN with more than
	// two bounds, IN/NOT IN over an empty list, and empty groupings.
	Strict bool
}

// accumulator is the append-only bind list shared by a top-level render
// and all of its subqueries.
type accumulator struct {
	values []any
}

// scope binds model names to the qualifier used for their columns.
// Lookups fall back to the parent so correlated subqueries can reference
// the outer query.
type scope struct {
	parent     *scope
	bound      *types.Model
	boundQual  string
	qualifiers map[string]string
	models     map[string]*types.Model
}

func (s *scope) lookup(name string) (*types.Model, string, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if m, ok := cur.models[name]; ok {
			return m, cur.qualifiers[name], true
		}
	}
	return nil, "", false
}

// Context is the state of one top-level render call. It is never shared
// between concurrent renders.
type Context struct {
	dialect  Dialect
	resolver types.Resolver
	acc      *accumulator
	scope    *scope
	opts     Options
	depth    int
}

// NewContext creates a render context with an empty bind list.
func NewContext(d Dialect, r types.Resolver, opts Options) *Context {
	if d == nil {
		d = Standard
	}
	return &Context{
		dialect:  d,
		resolver: r,
		acc:      &accumulator{values: []any{}},
		scope:    &scope{qualifiers: map[string]string{}, models: map[string]*types.Model{}},
		opts:     opts,
	}
}

// Dialect returns the dialect this context renders for.
func (c *Context) Dialect() Dialect {
	return c.dialect
}

// Strict reports whether strict policies are enabled.
func (c *Context) Strict() bool {
	return c.opts.Strict
}

// Quote quotes one identifier.
func (c *Context) Quote(name string) string {
	return c.dialect.QuoteIdentifier(name)
}

// Placeholder returns the marker the next bound value will use.
func (c *Context) Placeholder() string {
	return c.dialect.Placeholder(len(c.acc.values) + 1)
}

// AddValue appends one bind value.
func (c *Context) AddValue(v any) {
	c.acc.values = append(c.acc.values, v)
}

// AddValues appends bind values in order.
func (c *Context) AddValues(vs ...any) {
	c.acc.values = append(c.acc.values, vs...)
}

// Bind appends v and returns its placeholder.
func (c *Context) Bind(v any) string {
	p := c.Placeholder()
	c.AddValue(v)
	return p
}

// Values returns the accumulated bind values.
func (c *Context) Values() []any {
	return c.acc.values
}

// model resolves a model name through the resolver.
func (c *Context) model(name string) (*types.Model, error) {
	if c.resolver == nil {
		return nil, types.Configf("no schema bound to resolve model %q", name)
	}
	m, err := c.resolver.Model(name)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, types.Configf("model %q not found in schema", name)
	}
	return m, nil
}

// tableIdentifier renders the optionally schema-qualified table name.
func (c *Context) tableIdentifier(m *types.Model) string {
	if m.Schema != "" {
		return c.Quote(m.Schema) + "." + c.Quote(m.Table)
	}
	return c.Quote(m.Table)
}

// Table renders a table reference: quoted, schema-qualified, aliased.
func (c *Context) Table(t types.Table) (string, error) {
	m, err := c.model(t.Model)
	if err != nil {
		return "", err
	}
	ident := c.tableIdentifier(m)
	if t.Alias != "" {
		return ident + " AS " + c.Quote(t.Alias), nil
	}
	return ident, nil
}

// Enter registers t in the current scope under its model name and alias.
// The first table entered becomes the bound model that bare field names
// resolve against.
func (c *Context) Enter(t types.Table) error {
	m, err := c.model(t.Model)
	if err != nil {
		return err
	}
	qualifier := c.tableIdentifier(m)
	if t.Alias != "" {
		qualifier = c.Quote(t.Alias)
	}
	c.scope.models[t.Model] = m
	c.scope.qualifiers[t.Model] = qualifier
	if t.Alias != "" {
		c.scope.models[t.Alias] = m
		c.scope.qualifiers[t.Alias] = qualifier
	}
	if c.scope.bound == nil {
		c.scope.bound = m
		c.scope.boundQual = qualifier
	}
	return nil
}

// Qualify resolves a field to its qualified, quoted column.
func (c *Context) Qualify(f types.Field) (string, error) {
	var (
		m         *types.Model
		qualifier string
	)
	if f.Model == "" {
		if c.scope.bound == nil {
			return "", types.Configf("field %q has no model and no model is bound", f.Name)
		}
		m = c.scope.bound
		qualifier = c.scope.boundQual
	} else {
		var ok bool
		m, qualifier, ok = c.scope.lookup(f.Model)
		if !ok {
			// Not joined: qualify by the owning table itself.
			var err error
			if m, err = c.model(f.Model); err != nil {
				return "", err
			}
			qualifier = c.tableIdentifier(m)
		}
	}

	col, ok := m.Column(f.Name)
	if !ok {
		return "", types.Configf("field %q not found on model %q", f.Name, m.Name)
	}
	return qualifier + "." + c.Quote(col), nil
}

// Column resolves a field to its bare quoted column, for INSERT/UPDATE
// targets where qualification is not allowed.
func (c *Context) Column(f types.Field) (string, error) {
	m := c.scope.bound
	if f.Model != "" {
		if sm, _, ok := c.scope.lookup(f.Model); ok {
			m = sm
		} else {
			var err error
			if m, err = c.model(f.Model); err != nil {
				return "", err
			}
		}
	}
	if m == nil {
		return "", types.Configf("field %q has no model and no model is bound", f.Name)
	}
	col, ok := m.Column(f.Name)
	if !ok {
		return "", types.Configf("field %q not found on model %q", f.Name, m.Name)
	}
	return c.Quote(col), nil
}

// withSubquery creates a child context for rendering a subquery. It has its
// own scope but shares the bind accumulator.
func (c *Context) withSubquery() (*Context, error) {
	if c.depth >= types.MaxSubqueryDepth {
		return nil, types.Configf("maximum subquery depth (%d) exceeded", types.MaxSubqueryDepth)
	}
	return &Context{
		dialect:  c.dialect,
		resolver: c.resolver,
		acc:      c.acc,
		scope: &scope{
			parent:     c.scope,
			qualifiers: map[string]string{},
			models:     map[string]*types.Model{},
		},
		opts:  c.opts,
		depth: c.depth + 1,
	}, nil
}
