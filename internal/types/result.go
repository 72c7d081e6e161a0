package types

// QueryResult contains the rendered SQL and its ordered bind values.
type QueryResult struct {
	SQL    string
	Values []any
}
