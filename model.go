package predql

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-openapi/inflect"
	"github.com/zoobzio/predql/internal/types"
)

// Model maps a logical model onto a physical table.
type Model = types.Model

// NewModel creates a model with no fields.
func NewModel(name, table string) *Model {
	return types.NewModel(name, table)
}

// tableNamer lets a struct choose its own table name.
type tableNamer interface {
	TableName() string
}

// ModelOf derives a model from the db tags of struct T.
//
// The model is named after the Go type; the table defaults to the
// pluralized snake case type name ("OrderItem" -> "order_items") unless T
// implements TableName. Each exported field is addressable by its Go name
// and by its column. The column comes from the db tag, or the snake case
// field name when the tag is absent; db:"-" skips the field.
func ModelOf[T any]() (*Model, error) {
	var zero T
	typ := reflect.TypeOf(zero)
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, types.Configf("ModelOf requires a struct type, got %v", typ)
	}

	table := typeNameToTableName(typ.Name())
	if namer, ok := reflect.New(typ).Interface().(tableNamer); ok {
		table = namer.TableName()
	}

	m := types.NewModel(typ.Name(), table)
	if err := extractDBFields(m, typ); err != nil {
		return nil, err
	}
	if len(m.Fields()) == 0 {
		return nil, types.Configf("type %s has no mapped fields", typ.Name())
	}
	return m, nil
}

// MustModelOf derives a model from struct T, panicking on error.
func MustModelOf[T any]() *Model {
	m, err := ModelOf[T]()
	if err != nil {
		panic(err)
	}
	return m
}

// extractDBFields registers every exported field of typ on m, descending
// into embedded structs.
func extractDBFields(m *Model, typ reflect.Type) error {
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}

		tag, hasTag := sf.Tag.Lookup("db")
		column, _, _ := strings.Cut(tag, ",")
		if column == "-" {
			continue
		}

		if sf.Anonymous && !hasTag {
			embedded := sf.Type
			if embedded.Kind() == reflect.Pointer {
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				if err := extractDBFields(m, embedded); err != nil {
					return err
				}
				continue
			}
		}

		if column == "" {
			column = inflect.Underscore(sf.Name)
		}
		if !isValidSQLIdentifier(column) {
			return fmt.Errorf("field %s of %s: %w", sf.Name, typ.Name(), types.Configf("unsafe db tag %q", column))
		}
		m.AddField(sf.Name, column)
	}
	return nil
}

// e.g., "User" -> "users", "OrderItem" -> "order_items".
func typeNameToTableName(typeName string) string {
	return inflect.Pluralize(inflect.Underscore(typeName))
}
