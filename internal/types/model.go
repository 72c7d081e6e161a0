package types

import "strings"

// Field represents a reference to a model field.
// An empty Model means the model bound by the current rendering scope.
type Field struct {
	Model string
	Name  string
}

// ParseField reads "name" or "model.name" into a field reference.
func ParseField(s string) Field {
	if i := strings.LastIndexByte(s, '.'); i > 0 {
		return Field{Model: s[:i], Name: s[i+1:]}
	}
	return Field{Name: s}
}

// GetName returns the field name.
func (f Field) GetName() string {
	return f.Name
}

// Table represents a reference to a model's table, optionally aliased.
type Table struct {
	Model string
	Alias string
}

// GetAlias returns the table alias.
func (t Table) GetAlias() string {
	return t.Alias
}

// Model maps a logical model onto a physical table.
// It is immutable once registered with a schema.
type Model struct {
	columns map[string]string
	Name    string
	Table   string
	Schema  string
	order   []string
}

// NewModel creates a model with no fields.
func NewModel(name, table string) *Model {
	return &Model{
		Name:    name,
		Table:   table,
		columns: make(map[string]string),
	}
}

// AddField maps a logical field name to a physical column.
func (m *Model) AddField(field, column string) {
	if _, ok := m.columns[field]; !ok {
		m.order = append(m.order, field)
	}
	m.columns[field] = column
}

// InSchema sets the database schema the table lives in.
func (m *Model) InSchema(schema string) *Model {
	m.Schema = schema
	return m
}

// Map maps a logical field name to a physical column.
func (m *Model) Map(field, column string) *Model {
	m.AddField(field, column)
	return m
}

// Columns adds fields whose logical name is the column name.
func (m *Model) Columns(names ...string) *Model {
	for _, n := range names {
		m.AddField(n, n)
	}
	return m
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	c := NewModel(m.Name, m.Table)
	c.Schema = m.Schema
	for _, f := range m.order {
		c.AddField(f, m.columns[f])
	}
	return c
}

// Column resolves a field to its column. The lookup accepts either the
// logical field name or the column name itself.
func (m *Model) Column(field string) (string, bool) {
	if col, ok := m.columns[field]; ok {
		return col, true
	}
	for _, col := range m.columns {
		if col == field {
			return col, true
		}
	}
	return "", false
}

// Fields returns the logical field names in registration order.
func (m *Model) Fields() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Resolver resolves model names for the renderer.
type Resolver interface {
	Model(name string) (*Model, error)
}
