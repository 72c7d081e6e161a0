package types

// Operation represents the type of query operation.
type Operation string

const (
	OpSelect Operation = "SELECT"
	OpInsert Operation = "INSERT"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
	OpCount  Operation = "COUNT"
)

// Direction represents sort direction.
type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

// NullsOrdering represents NULL placement in ORDER BY.
type NullsOrdering string

const (
	NullsFirst NullsOrdering = "NULLS FIRST"
	NullsLast  NullsOrdering = "NULLS LAST"
)

// OrderBy represents one ORDER BY term. Expr is a Field, a Call or a Raw fragment.
type OrderBy struct {
	Expr      Expr
	Direction Direction
	Nulls     NullsOrdering
}

// JoinType represents the type of SQL join.
type JoinType string

const (
	InnerJoin JoinType = "INNER JOIN"
	LeftJoin  JoinType = "LEFT JOIN"
	RightJoin JoinType = "RIGHT JOIN"
	CrossJoin JoinType = "CROSS JOIN"
)

// Join represents a SQL JOIN clause.
type Join struct {
	On    Expr
	Table Table
	Type  JoinType
}

// LockMode represents a row-level locking clause.
type LockMode string

const (
	ForUpdate      LockMode = "FOR UPDATE"
	ForNoKeyUpdate LockMode = "FOR NO KEY UPDATE"
	ForShare       LockMode = "FOR SHARE"
	ForKeyShare    LockMode = "FOR KEY SHARE"
)

// LockWait represents the wait policy of a locking clause.
type LockWait string

const (
	NoWait     LockWait = "NOWAIT"
	SkipLocked LockWait = "SKIP LOCKED"
)

// Lock is a locking clause with an optional wait policy.
type Lock struct {
	Mode LockMode
	Wait LockWait
}

// Assignment is a column/value pair for INSERT and UPDATE.
type Assignment struct {
	Value Expr
	Field Field
}

// Limits guarding against runaway trees.
const (
	MaxSubqueryDepth  = 3
	MaxConditionDepth = 32
)

// AST represents the abstract syntax tree of one statement.
//
//nolint:govet // fieldalignment: Logical grouping is preferred over memory optimization
type AST struct {
	Operation Operation
	Target    Table
	Fields    []Expr         // SELECT projection
	Where     Expr           // WHERE tree
	Joins     []Join         // JOIN clauses
	GroupBy   []Field        // GROUP BY fields
	Having    Expr           // HAVING tree
	Ordering  []OrderBy      // ORDER BY terms
	Limit     *int           // LIMIT
	Offset    *int           // OFFSET
	Lock      *Lock          // Row locking
	Updates   []Assignment   // For UPDATE operations
	Rows      [][]Assignment // For INSERT operations
	Returning []Field        // RETURNING fields
	Distinct  bool           // DISTINCT flag
}

// Validate performs structural validation on the AST.
func (ast *AST) Validate() error {
	if ast.Target.Model == "" {
		return Configf("target table is required")
	}

	switch ast.Operation {
	case OpSelect:
		// Fields are optional (defaults to *)
	case OpInsert:
		if len(ast.Rows) == 0 || len(ast.Rows[0]) == 0 {
			return Configf("INSERT requires at least one value set")
		}
		if err := validateRows(ast.Rows); err != nil {
			return err
		}
	case OpUpdate:
		if len(ast.Updates) == 0 {
			return Configf("UPDATE requires at least one field to update")
		}
		if ast.Distinct || len(ast.Joins) > 0 || len(ast.GroupBy) > 0 {
			return Configf("UPDATE cannot have SELECT features like DISTINCT, JOIN, or GROUP BY")
		}
	case OpDelete:
		if ast.Distinct || len(ast.Joins) > 0 || len(ast.GroupBy) > 0 {
			return Configf("DELETE cannot have SELECT features like DISTINCT, JOIN, or GROUP BY")
		}
	case OpCount:
		// COUNT can have JOINs and WHERE but no fields
		if len(ast.Fields) > 0 {
			return Configf("COUNT cannot have fields")
		}
	default:
		return Configf("unsupported operation: %s", ast.Operation)
	}

	if ast.Having != nil && len(ast.GroupBy) == 0 {
		return Configf("HAVING requires GROUP BY")
	}
	if ast.Lock != nil && ast.Operation != OpSelect {
		return Configf("locking clauses can only be used with SELECT queries")
	}

	if err := validateConditionDepth(ast.Where, 0); err != nil {
		return err
	}
	return validateConditionDepth(ast.Having, 0)
}

// Clone returns a copy of the AST that shares no slices or pointers with
// the receiver, so later changes to either side stay local.
func (ast *AST) Clone() *AST {
	c := *ast
	c.Fields = append([]Expr(nil), ast.Fields...)
	c.Joins = append([]Join(nil), ast.Joins...)
	c.GroupBy = append([]Field(nil), ast.GroupBy...)
	c.Ordering = append([]OrderBy(nil), ast.Ordering...)
	c.Returning = append([]Field(nil), ast.Returning...)
	c.Updates = append([]Assignment(nil), ast.Updates...)
	if ast.Rows != nil {
		c.Rows = make([][]Assignment, len(ast.Rows))
		for i, row := range ast.Rows {
			c.Rows[i] = append([]Assignment(nil), row...)
		}
	}
	if ast.Limit != nil {
		n := *ast.Limit
		c.Limit = &n
	}
	if ast.Offset != nil {
		n := *ast.Offset
		c.Offset = &n
	}
	if ast.Lock != nil {
		l := *ast.Lock
		c.Lock = &l
	}
	return &c
}

// validateRows ensures every INSERT row assigns the same fields.
func validateRows(rows [][]Assignment) error {
	first := make(map[Field]bool, len(rows[0]))
	for _, a := range rows[0] {
		first[a.Field] = true
	}
	for i, row := range rows[1:] {
		if len(row) != len(first) {
			return Configf("value set %d has different number of fields", i+1)
		}
		for _, a := range row {
			if !first[a.Field] {
				return Configf("value set %d has different fields", i+1)
			}
		}
	}
	return nil
}

// validateConditionDepth rejects condition trees nested beyond MaxConditionDepth.
func validateConditionDepth(e Expr, depth int) error {
	if depth > MaxConditionDepth {
		return Configf("condition nesting exceeds maximum depth of %d", MaxConditionDepth)
	}
	switch c := e.(type) {
	case Grouping:
		for _, item := range c.Items {
			if err := validateConditionDepth(item, depth+1); err != nil {
				return err
			}
		}
	case Condition:
		return validateConditionDepth(c.Value, depth+1)
	}
	return nil
}
