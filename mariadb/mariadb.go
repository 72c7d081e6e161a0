// Package mariadb provides the MariaDB/MySQL dialect.
package mariadb

import (
	"fmt"

	"github.com/zoobzio/predql/internal/render"
)

// maxRows is the LIMIT used when only an OFFSET is given.
const maxRows = "18446744073709551615"

// Dialect renders for MariaDB and MySQL: backtick identifiers and ?
// placeholders.
type Dialect struct{}

// New creates a new MariaDB dialect.
func New() *Dialect {
	return &Dialect{}
}

// Name returns the dialect name.
func (*Dialect) Name() string { return "mariadb" }

// QuoteIdentifier quotes one identifier part.
func (*Dialect) QuoteIdentifier(name string) string {
	return render.QuoteWith(name, "`", "`")
}

// Placeholder returns ?.
func (*Dialect) Placeholder(int) string { return "?" }

// Paginate renders LIMIT/OFFSET. MariaDB has no OFFSET without LIMIT.
func (*Dialect) Paginate(limit, offset *int, _ bool) (string, error) {
	if limit == nil && offset != nil {
		return fmt.Sprintf(" LIMIT %s OFFSET %d", maxRows, *offset), nil
	}
	return render.LimitOffset(limit, offset), nil
}

// Capabilities returns the SQL features supported by MariaDB.
func (*Dialect) Capabilities() render.Capabilities {
	return render.Capabilities{
		CaseInsensitiveLike: false,
		Returning:           false,
		LockWait:            true,
		NullsOrdering:       false,
		RowLocking:          render.RowLockingBasic,
	}
}
