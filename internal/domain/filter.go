package domain

// Operator is a comparison operator usable in a Filter.
type Operator string

// Supported filter operators.
const (
	OpEq          Operator = "eq"
	OpNeq         Operator = "neq"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpGt          Operator = "gt"
	OpGte         Operator = "gte"
	OpLt          Operator = "lt"
	OpLte         Operator = "lte"
)

// Valid reports whether o is one of the supported operators.
func (o Operator) Valid() bool {
	switch o {
	case OpEq, OpNeq, OpContains, OpNotContains, OpGt, OpGte, OpLt, OpLte:
		return true
	}
	return false
}

// Filter is a single predicate on a field path such as "name" or
// "addresses.street". A nil Value with OpEq or OpNeq tests for NULL.
type Filter struct {
	Field    string
	Operator Operator
	Value    any
}

// Eq builds an equality filter.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Operator: OpEq, Value: value}
}

// Contains builds a substring filter.
func Contains(field string, value string) Filter {
	return Filter{Field: field, Operator: OpContains, Value: value}
}
