package schema

import "fmt"

// Operator is one of the six comparison kinds a query can apply.
type Operator int

const (
	OpEq    Operator = iota // =
	OpNotEq                 // !=
	OpLt                    // <
	OpLEq                   // <=
	OpGt                    // >
	OpGEq                   // >=

	opCount
)

// Operators lists every operator in declaration order.
var Operators = [...]Operator{OpEq, OpNotEq, OpLt, OpLEq, OpGt, OpGEq}

var operatorSymbols = [opCount]string{
	OpEq:    "=",
	OpNotEq: "!=",
	OpLt:    "<",
	OpLEq:   "<=",
	OpGt:    ">",
	OpGEq:   ">=",
}

// inverses maps an operator to the one that gives the same answer when its
// operands are swapped: a < b holds exactly when b > a.
var inverses = [opCount]Operator{
	OpEq:    OpEq,
	OpNotEq: OpNotEq,
	OpLt:    OpGt,
	OpLEq:   OpGEq,
	OpGt:    OpLt,
	OpGEq:   OpLEq,
}

// Valid reports whether o is one of the six known operators.
func (o Operator) Valid() bool {
	return o >= 0 && o < opCount
}

// Inverse returns the operator to use once the operands have been transposed.
func (o Operator) Inverse() Operator {
	if !o.Valid() {
		return o
	}
	return inverses[o]
}

// Ordering reports whether o needs an ordering rather than plain equality.
func (o Operator) Ordering() bool {
	return o == OpLt || o == OpLEq || o == OpGt || o == OpGEq
}

func (o Operator) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Operator(%d)", int(o))
	}
	return operatorSymbols[o]
}
