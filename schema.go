package predql

import (
	"fmt"
	"sort"

	"github.com/go-openapi/inflect"
	"github.com/zoobzio/dbml"
	"github.com/zoobzio/predql/internal/types"
)

// Schema is an immutable set of models. It resolves model and field names
// for every render call and is safe for concurrent use.
type Schema struct {
	models map[string]*types.Model
}

// NewSchema creates a schema from models. Each model is copied, so later
// changes to the arguments do not affect the schema.
func NewSchema(models ...*Model) (*Schema, error) {
	s := &Schema{models: make(map[string]*types.Model, len(models))}
	for _, m := range models {
		if err := s.add(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MustSchema creates a schema, panicking on an invalid model.
func MustSchema(models ...*Model) *Schema {
	s, err := NewSchema(models...)
	if err != nil {
		panic(err)
	}
	return s
}

// NewFromDBML creates a schema from a DBML project. Every table becomes a
// model of the same name; each column is addressable by its own name and
// by its lower camel case form.
func NewFromDBML(project *dbml.Project) (*Schema, error) {
	if project == nil {
		return nil, fmt.Errorf("project cannot be nil")
	}

	s := &Schema{models: make(map[string]*types.Model)}
	for _, table := range project.Tables {
		m := types.NewModel(table.Name, table.Name)
		for _, col := range table.Columns {
			m.AddField(col.Name, col.Name)
			if camel := inflect.CamelizeDownFirst(col.Name); camel != col.Name {
				m.AddField(camel, col.Name)
			}
		}
		if err := s.add(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// With returns a new schema holding the receiver's models plus models.
func (s *Schema) With(models ...*Model) (*Schema, error) {
	next := &Schema{models: make(map[string]*types.Model, len(s.models)+len(models))}
	for name, m := range s.models {
		next.models[name] = m
	}
	for _, m := range models {
		if err := next.add(m); err != nil {
			return nil, err
		}
	}
	return next, nil
}

func (s *Schema) add(m *Model) error {
	if m == nil {
		return types.Configf("model cannot be nil")
	}
	if m.Name == "" {
		return types.Configf("model name is required")
	}
	if _, dup := s.models[m.Name]; dup {
		return types.Configf("model %q registered twice", m.Name)
	}
	if !isValidSQLIdentifier(m.Table) {
		return types.Configf("model %q has an invalid table name: %q", m.Name, m.Table)
	}
	if m.Schema != "" && !isValidSQLIdentifier(m.Schema) {
		return types.Configf("model %q has an invalid schema name: %q", m.Name, m.Schema)
	}
	for _, f := range m.Fields() {
		col, _ := m.Column(f)
		if !isValidSQLIdentifier(col) {
			return types.Configf("field %q of model %q has an invalid column name: %q", f, m.Name, col)
		}
	}
	s.models[m.Name] = m.Clone()
	return nil
}

// Model resolves a model by name. The returned model is a copy; changing it
// has no effect on the schema.
func (s *Schema) Model(name string) (*types.Model, error) {
	m, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	return m.Clone(), nil
}

func (s *Schema) lookup(name string) (*types.Model, error) {
	m, ok := s.models[name]
	if !ok {
		return nil, types.Configf("model %q not found in schema", name)
	}
	return m, nil
}

// Models returns the registered model names in sorted order.
func (s *Schema) Models() []string {
	names := make([]string, 0, len(s.models))
	for name := range s.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TryT creates a validated table reference, returning an error if invalid.
func (s *Schema) TryT(model string, alias ...string) (types.Table, error) {
	if _, err := s.lookup(model); err != nil {
		return types.Table{}, fmt.Errorf("invalid table: %w", err)
	}

	var tableAlias string
	if len(alias) > 0 {
		if len(alias) > 1 {
			return types.Table{}, types.Configf("only one alias allowed")
		}
		tableAlias = alias[0]
		if !isValidSQLIdentifier(tableAlias) {
			return types.Table{}, types.Configf("invalid table alias: %q", tableAlias)
		}
	}
	return types.Table{Model: model, Alias: tableAlias}, nil
}

// T creates a validated table reference.
func (s *Schema) T(model string, alias ...string) types.Table {
	t, err := s.TryT(model, alias...)
	if err != nil {
		panic(err)
	}
	return t
}

// TryF creates a validated field reference, returning an error if invalid.
// Use ColOf to reference a field through a table alias.
func (s *Schema) TryF(model, field string) (types.Field, error) {
	m, err := s.lookup(model)
	if err != nil {
		return types.Field{}, fmt.Errorf("invalid field: %w", err)
	}
	if _, ok := m.Column(field); !ok {
		return types.Field{}, fmt.Errorf("invalid field: %w", types.Configf("field %q not found on model %q", field, model))
	}
	return types.Field{Model: model, Name: field}, nil
}

// F creates a validated field reference.
func (s *Schema) F(model, field string) types.Field {
	f, err := s.TryF(model, field)
	if err != nil {
		panic(err)
	}
	return f
}

// isValidSQLIdentifier checks if a string is a valid SQL identifier.
func isValidSQLIdentifier(s string) bool {
	if s == "" {
		return false
	}

	// Must start with letter or underscore
	first := s[0]
	if !((first >= 'a' && first <= 'z') ||
		(first >= 'A' && first <= 'Z') ||
		first == '_') {
		return false
	}

	// Rest must be alphanumeric or underscore
	for i := 1; i < len(s); i++ {
		ch := s[i]
		if !((ch >= 'a' && ch <= 'z') ||
			(ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') ||
			ch == '_') {
			return false
		}
	}
	return true
}
