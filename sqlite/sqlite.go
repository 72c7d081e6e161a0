// Package sqlite provides the SQLite dialect.
package sqlite

import (
	"fmt"

	"github.com/zoobzio/predql/internal/render"
)

// Dialect renders for SQLite. SQLite has no row locking and no ILIKE.
type Dialect struct{}

// New creates a new SQLite dialect.
func New() *Dialect {
	return &Dialect{}
}

// Name returns the dialect name.
func (*Dialect) Name() string { return "sqlite" }

// QuoteIdentifier quotes one identifier part.
func (*Dialect) QuoteIdentifier(name string) string {
	return render.QuoteWith(name, `"`, `"`)
}

// Placeholder returns ?.
func (*Dialect) Placeholder(int) string { return "?" }

// Paginate renders LIMIT/OFFSET. SQLite requires a LIMIT before OFFSET, so
// an offset alone is paired with LIMIT -1.
func (*Dialect) Paginate(limit, offset *int, _ bool) (string, error) {
	if limit == nil && offset != nil {
		return fmt.Sprintf(" LIMIT -1 OFFSET %d", *offset), nil
	}
	return render.LimitOffset(limit, offset), nil
}

// Capabilities returns the SQL features supported by SQLite.
func (*Dialect) Capabilities() render.Capabilities {
	return render.Capabilities{
		CaseInsensitiveLike: false,
		Returning:           true,
		LockWait:            false,
		NullsOrdering:       true,
		RowLocking:          render.RowLockingNone,
	}
}
