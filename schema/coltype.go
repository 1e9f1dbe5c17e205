package schema

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// DoubleFunc compares two field texts that are both resolved at row time.
type DoubleFunc func(left, right string) (bool, error)

// SingleFunc compares a field text against a constant fixed as the left
// operand when the function was built.
type SingleFunc func(right string) (bool, error)

// TypeID is the handle of a ColumnType inside the registry. Two columns have
// the same type exactly when their TypeIDs are equal.
type TypeID uint8

const (
	TypeString TypeID = iota
	TypeInt
	TypeFloat
	TypeBool

	typeCount
)

// ColumnType is a registry entry: a named scalar type together with the
// comparison functions it supports. Entries are built once at package
// initialisation and never mutated, so they are shared freely between columns
// and goroutines.
type ColumnType struct {
	id     TypeID
	name   string
	double [opCount]DoubleFunc
	baked  [opCount]func(left string) (SingleFunc, error)
	value  func(text string) (any, error)
}

// The four supported column types.
var (
	String = newColumnType(TypeString, "string", parseString, orderedOps[string]())
	Int    = newColumnType(TypeInt, "int", parseInt, orderedOps[int64]())
	Float  = newColumnType(TypeFloat, "float", parseFloat, orderedOps[float64]())
	Bool   = newColumnType(TypeBool, "bool", parseBool, equalityOps[bool]())
)

var registry = [typeCount]*ColumnType{
	TypeString: String,
	TypeInt:    Int,
	TypeFloat:  Float,
	TypeBool:   Bool,
}

// Types returns every registered column type in TypeID order.
func Types() []*ColumnType {
	types := make([]*ColumnType, len(registry))
	copy(types, registry[:])
	return types
}

// Lookup finds the registered type with the given name.
func Lookup(name string) (*ColumnType, error) {
	for _, t := range registry {
		if t.name == name {
			return t, nil
		}
	}
	return nil, newSchemaError(name, ErrUnknownType, "unable to find type matching '%s'", name)
}

// ID returns the registry handle of t.
func (t *ColumnType) ID() TypeID { return t.id }

// Name returns the declared name, e.g. "float".
func (t *ColumnType) Name() string { return t.name }

func (t *ColumnType) String() string { return t.name }

// Same reports whether t and other are the same registry entry.
func (t *ColumnType) Same(other *ColumnType) bool {
	return t != nil && other != nil && t.id == other.id
}

// Supports reports whether op has comparison functions for this type.
func (t *ColumnType) Supports(op Operator) bool {
	return op.Valid() && t.double[op] != nil
}

// Compare returns the function comparing two field texts with op.
func (t *ColumnType) Compare(op Operator) (DoubleFunc, error) {
	if !t.Supports(op) {
		return nil, t.unsupported(op)
	}
	return t.double[op], nil
}

// CompareLeftBaked returns a function computing `left op field`, with left
// parsed once up front. An unparseable left yields a *ValueError.
func (t *ColumnType) CompareLeftBaked(op Operator, left string) (SingleFunc, error) {
	if !t.Supports(op) {
		return nil, t.unsupported(op)
	}
	return t.baked[op](left)
}

// Value decodes text into the Go value of this type: string, int64, float64
// or bool.
func (t *ColumnType) Value(text string) (any, error) {
	return t.value(text)
}

func (t *ColumnType) unsupported(op Operator) error {
	return fmt.Errorf("operator %s is not supported for type %s: %w", op, t.name, ErrUnsupportedOperator)
}

// newColumnType instantiates the comparison algorithm for T. Every function
// it produces trims the text, decodes it with parse and applies the native
// operator, so nothing is type-switched per row.
func newColumnType[T any](id TypeID, name string, parse func(string) (T, error), ops [opCount]func(a, b T) bool) *ColumnType {
	decode := func(text string) (T, error) {
		text = strings.TrimSpace(text)
		v, err := parse(text)
		if err != nil {
			return v, &ValueError{Type: name, Value: text, Err: err}
		}
		return v, nil
	}

	t := &ColumnType{id: id, name: name}
	for op, fn := range ops {
		if fn == nil {
			continue
		}
		t.double[op] = doubleFunc(decode, fn)
		t.baked[op] = leftBakedFunc(decode, fn)
	}
	t.value = func(text string) (any, error) {
		return decode(text)
	}
	return t
}

func doubleFunc[T any](decode func(string) (T, error), fn func(a, b T) bool) DoubleFunc {
	return func(left, right string) (bool, error) {
		a, err := decode(left)
		if err != nil {
			return false, err
		}
		b, err := decode(right)
		if err != nil {
			return false, err
		}
		return fn(a, b), nil
	}
}

func leftBakedFunc[T any](decode func(string) (T, error), fn func(a, b T) bool) func(string) (SingleFunc, error) {
	return func(left string) (SingleFunc, error) {
		a, err := decode(left)
		if err != nil {
			return nil, err
		}
		return func(right string) (bool, error) {
			b, err := decode(right)
			if err != nil {
				return false, err
			}
			return fn(a, b), nil
		}, nil
	}
}

func equalityOps[T comparable]() [opCount]func(a, b T) bool {
	return [opCount]func(a, b T) bool{
		OpEq:    func(a, b T) bool { return a == b },
		OpNotEq: func(a, b T) bool { return a != b },
	}
}

// orderedOps uses the native operators, so float NaN compares unequal and
// unordered with everything.
func orderedOps[T cmp.Ordered]() [opCount]func(a, b T) bool {
	ops := equalityOps[T]()
	ops[OpLt] = func(a, b T) bool { return a < b }
	ops[OpLEq] = func(a, b T) bool { return a <= b }
	ops[OpGt] = func(a, b T) bool { return a > b }
	ops[OpGEq] = func(a, b T) bool { return a >= b }
	return ops
}

func parseString(s string) (string, error) { return s, nil }

func parseInt(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }

func parseFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

// parseBool accepts only the words true and false.
func parseBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, strconv.ErrSyntax
}
