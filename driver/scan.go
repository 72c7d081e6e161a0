package driver

import (
	"database/sql"
	"errors"
	"fmt"
)

// ScanMaps reads every remaining row into a column-to-value map and closes
// rows. Byte slices are copied into strings.
func ScanMaps(rows *sql.Rows) (out []map[string]any, err error) {
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("driver: columns: %w", err)
	}

	out = []map[string]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("driver: scan: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("driver: rows: %w", err)
	}
	return out, nil
}
