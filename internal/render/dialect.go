package render

import (
	"fmt"
	"strings"
)

// Dialect supplies the few per-database details the renderer needs:
// identifier quoting, the positional placeholder marker and pagination.
type Dialect interface {
	Name() string
	// QuoteIdentifier quotes a single identifier part.
	QuoteIdentifier(name string) string
	// Placeholder returns the marker for the n-th bind value (1-based).
	Placeholder(n int) string
	Capabilities() Capabilities
	// Paginate renders the LIMIT/OFFSET tail. ordered reports whether the
	// statement has an ORDER BY clause.
	Paginate(limit, offset *int, ordered bool) (string, error)
}

// standard is the dialect-neutral default: double-quoted identifiers and ?
// placeholders.
type standard struct{}

// Standard is the default dialect.
var Standard Dialect = standard{}

func (standard) Name() string { return "standard" }

func (standard) QuoteIdentifier(name string) string {
	return QuoteWith(name, `"`, `"`)
}

func (standard) Placeholder(int) string { return "?" }

func (standard) Capabilities() Capabilities {
	return Capabilities{}
}

func (standard) Paginate(limit, offset *int, _ bool) (string, error) {
	return LimitOffset(limit, offset), nil
}

// QuoteWith wraps name in open/close, doubling any embedded close sequence.
func QuoteWith(name, open, closing string) string {
	return open + strings.ReplaceAll(name, closing, closing+closing) + closing
}

// LimitOffset renders the common " LIMIT n OFFSET m" tail.
func LimitOffset(limit, offset *int) string {
	var sb strings.Builder
	if limit != nil {
		fmt.Fprintf(&sb, " LIMIT %d", *limit)
	}
	if offset != nil {
		fmt.Fprintf(&sb, " OFFSET %d", *offset)
	}
	return sb.String()
}
