// Package postgres provides the PostgreSQL dialect.
package postgres

import (
	"strconv"

	"github.com/lib/pq"
	"github.com/zoobzio/predql/internal/render"
)

// Dialect renders for PostgreSQL: $n placeholders, ILIKE and the full set
// of row locking clauses.
type Dialect struct{}

// New creates a new PostgreSQL dialect.
func New() *Dialect {
	return &Dialect{}
}

// Name returns the dialect name.
func (*Dialect) Name() string { return "postgres" }

// QuoteIdentifier quotes one identifier part.
func (*Dialect) QuoteIdentifier(name string) string {
	return pq.QuoteIdentifier(name)
}

// Placeholder returns $n.
func (*Dialect) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// Paginate renders LIMIT/OFFSET.
func (*Dialect) Paginate(limit, offset *int, _ bool) (string, error) {
	return render.LimitOffset(limit, offset), nil
}

// Capabilities returns the SQL features supported by PostgreSQL.
func (*Dialect) Capabilities() render.Capabilities {
	return render.Capabilities{
		CaseInsensitiveLike: true,
		Returning:           true,
		LockWait:            true,
		NullsOrdering:       true,
		RowLocking:          render.RowLockingFull,
	}
}
