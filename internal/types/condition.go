package types

// ConditionType is the predicate kind of a Condition.
type ConditionType string

const (
	// Equality and comparison.
	EqualTo              ConditionType = "equalTo"
	NotEqualTo           ConditionType = "notEqualTo"
	GreaterThan          ConditionType = "greaterThan"
	GreaterThanOrEqualTo ConditionType = "greaterThanOrEqualTo"
	LessThan             ConditionType = "lessThan"
	LessThanOrEqualTo    ConditionType = "lessThanOrEqualTo"

	// NULL checks.
	IsNull    ConditionType = "isNull"
	IsNotNull ConditionType = "isNotNull"

	// Pattern match.
	Like     ConditionType = "like"
	NotLike  ConditionType = "notLike"
	ILike    ConditionType = "iLike"
	NotILike ConditionType = "notILike"

	// Range and set membership.
	Between    ConditionType = "between"
	NotBetween ConditionType = "notBetween"
	In         ConditionType = "in"
	NotIn      ConditionType = "notIn"

	// Value-only predicates.
	Exists    ConditionType = "exists"
	NotExists ConditionType = "notExists"
	Not       ConditionType = "not"
	Any       ConditionType = "any"
	All       ConditionType = "all"
)

// comparisonOperators maps binary condition types to their SQL operator.
var comparisonOperators = map[ConditionType]string{
	EqualTo:              "=",
	NotEqualTo:           "!=",
	GreaterThan:          ">",
	GreaterThanOrEqualTo: ">=",
	LessThan:             "<",
	LessThanOrEqualTo:    "<=",
	Like:                 "LIKE",
	NotLike:              "NOT LIKE",
	ILike:                "ILIKE",
	NotILike:             "NOT ILIKE",
}

// unaryKeywords maps value-only condition types to their SQL keyword.
var unaryKeywords = map[ConditionType]string{
	Exists:    "EXISTS",
	NotExists: "NOT EXISTS",
	Not:       "NOT",
	Any:       "ANY",
	All:       "ALL",
}

// Operator returns the SQL operator of a binary comparison type.
func (t ConditionType) Operator() (string, bool) {
	op, ok := comparisonOperators[t]
	return op, ok
}

// Keyword returns the SQL keyword of a value-only type.
func (t ConditionType) Keyword() (string, bool) {
	kw, ok := unaryKeywords[t]
	return kw, ok
}

// IsUnary reports whether the type takes a value but no field.
func (t ConditionType) IsUnary() bool {
	_, ok := unaryKeywords[t]
	return ok
}

// Valid reports whether t is a known condition type.
func (t ConditionType) Valid() bool {
	if _, ok := comparisonOperators[t]; ok {
		return true
	}
	if _, ok := unaryKeywords[t]; ok {
		return true
	}
	switch t {
	case IsNull, IsNotNull, Between, NotBetween, In, NotIn:
		return true
	}
	return false
}

// Condition is a single predicate.
// Field is nil for value-only predicates (not, exists, any, all).
type Condition struct {
	Field *Field
	Value Expr
	Type  ConditionType
}

// LogicOperator represents how grouped items are combined.
type LogicOperator string

const (
	AND LogicOperator = "AND"
	OR  LogicOperator = "OR"
)

// Grouping combines items with AND/OR logic.
// Items may be Conditions, Groupings, Raw fragments, Mappings or Subqueries.
type Grouping struct {
	Logic LogicOperator
	Items []Expr
}
