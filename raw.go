package predql

import "github.com/zoobzio/predql/internal/types"

// TryRaw creates a raw SQL fragment. Each ? in text stands for the next
// value; ?? is a literal question mark. The placeholder count must match
// the number of values.
func TryRaw(text string, values ...any) (types.Raw, error) {
	r := types.Raw{Text: text, Values: values}
	if r.Values == nil {
		r.Values = []any{}
	}
	if err := r.Validate(); err != nil {
		return types.Raw{}, err
	}
	return r, nil
}

// Raw creates a raw SQL fragment, panicking on a placeholder mismatch.
func Raw(text string, values ...any) types.Raw {
	r, err := TryRaw(text, values...)
	if err != nil {
		panic(err)
	}
	return r
}

// RawText creates a raw fragment with no bind values.
func RawText(text string) types.Raw {
	return Raw(text)
}
