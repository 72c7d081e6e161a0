// Package mssql provides the SQL Server dialect.
package mssql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zoobzio/predql/internal/render"
)

// Dialect renders for SQL Server: bracketed identifiers, @pN placeholders
// and OFFSET/FETCH pagination.
type Dialect struct{}

// New creates a new SQL Server dialect.
func New() *Dialect {
	return &Dialect{}
}

// Name returns the dialect name.
func (*Dialect) Name() string { return "mssql" }

// QuoteIdentifier quotes one identifier part.
func (*Dialect) QuoteIdentifier(name string) string {
	return render.QuoteWith(name, "[", "]")
}

// Placeholder returns @pN, the positional form go-mssqldb binds.
func (*Dialect) Placeholder(n int) string {
	return "@p" + strconv.Itoa(n)
}

// Paginate renders OFFSET n ROWS FETCH NEXT m ROWS ONLY.
// SQL Server only accepts it after an ORDER BY clause.
func (*Dialect) Paginate(limit, offset *int, ordered bool) (string, error) {
	if limit == nil && offset == nil {
		return "", nil
	}
	if !ordered {
		return "", render.NewUnsupportedFeatureError("mssql", "LIMIT/OFFSET without ORDER BY",
			"add ORDER BY clause when using LIMIT or OFFSET")
	}

	var sb strings.Builder
	skip := 0
	if offset != nil {
		skip = *offset
	}
	fmt.Fprintf(&sb, " OFFSET %d ROWS", skip)
	if limit != nil {
		fmt.Fprintf(&sb, " FETCH NEXT %d ROWS ONLY", *limit)
	}
	return sb.String(), nil
}

// Capabilities returns the SQL features supported by SQL Server.
func (*Dialect) Capabilities() render.Capabilities {
	return render.Capabilities{
		CaseInsensitiveLike: false,
		Returning:           false,
		LockWait:            false,
		NullsOrdering:       false,
		RowLocking:          render.RowLockingNone,
	}
}
