package render

import (
	"strings"

	"github.com/zoobzio/predql/internal/types"
)

// Raw splices a raw fragment. Each ? becomes the dialect placeholder for the
// next bind value, so the fragment composes under any dialect.
func (c *Context) Raw(r types.Raw) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}

	var sql strings.Builder
	next := 0
	types.ScanRaw(r.Text,
		func(lit string) { sql.WriteString(lit) },
		func() {
			sql.WriteString(c.Bind(r.Values[next]))
			next++
		},
	)
	return sql.String(), nil
}
