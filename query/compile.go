package query

import (
	"errors"
	"fmt"

	"github.com/vegasq/csvfilt/schema"
)

// Predicate is a compiled query. It reports whether a row, given as its
// field texts in schema order, matches. A Predicate holds no mutable state
// and may be called concurrently.
type Predicate func(row []string) (bool, error)

// CompileString parses q and compiles it against s.
func CompileString(q string, s *schema.Schema) (Predicate, error) {
	expr, err := Parse(q)
	if err != nil {
		return nil, err
	}
	return Compile(expr, s)
}

// Compile binds every comparison in expr to the columns of s and composes
// the result into one Predicate. It stops at the first comparison that
// cannot be bound.
func Compile(expr Expr, s *schema.Schema) (Predicate, error) {
	switch e := expr.(type) {
	case *Comparison:
		return compileComparison(e, s)
	case *Not:
		inner, err := Compile(e.Inner, s)
		if err != nil {
			return nil, err
		}
		return func(row []string) (bool, error) {
			ok, err := inner(row)
			if err != nil {
				return false, err
			}
			return !ok, nil
		}, nil
	case *And:
		left, right, err := compilePair(e.Left, e.Right, s)
		if err != nil {
			return nil, err
		}
		return func(row []string) (bool, error) {
			a, b, err := evalPair(left, right, row)
			return a && b, err
		}, nil
	case *Or:
		left, right, err := compilePair(e.Left, e.Right, s)
		if err != nil {
			return nil, err
		}
		return func(row []string) (bool, error) {
			a, b, err := evalPair(left, right, row)
			return a || b, err
		}, nil
	case nil:
		return nil, newBindError("", "", nil, "nothing to compile")
	default:
		return nil, newBindError("", "", nil, "unsupported expression %T", expr)
	}
}

func compilePair(l, r Expr, s *schema.Schema) (Predicate, Predicate, error) {
	left, err := Compile(l, s)
	if err != nil {
		return nil, nil, err
	}
	right, err := Compile(r, s)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

// evalPair evaluates both sides without short-circuiting, so a field that
// does not parse is reported even when the other side already decides the
// result.
func evalPair(left, right Predicate, row []string) (bool, bool, error) {
	a, err := left(row)
	if err != nil {
		return false, false, err
	}
	b, err := right(row)
	if err != nil {
		return false, false, err
	}
	return a, b, nil
}

func compileComparison(c *Comparison, s *schema.Schema) (Predicate, error) {
	li, lcol, leftIsColumn := s.FindColumn(c.Left)
	ri, rcol, rightIsColumn := s.FindColumn(c.Right)

	switch {
	case !leftIsColumn && !rightIsColumn:
		return nil, newBindError(c.Left, c.Right, nil, "could not find %s or %s as a column", c.Left, c.Right)

	case leftIsColumn && rightIsColumn:
		if !lcol.Type.Same(rcol.Type) {
			return nil, newBindError(c.Left, c.Right, nil,
				"tried to compare values of %s and %s but the types don't match", c.Left, c.Right)
		}
		cmp, err := lcol.Type.Compare(c.Op)
		if err != nil {
			return nil, bindFailure(c, err)
		}
		return func(row []string) (bool, error) {
			a, err := field(row, li, lcol)
			if err != nil {
				return false, err
			}
			b, err := field(row, ri, rcol)
			if err != nil {
				return false, err
			}
			return cmp(a, b)
		}, nil

	case rightIsColumn:
		// literal op column: the literal already is the left operand.
		cmp, err := rcol.Type.CompareLeftBaked(c.Op, c.Left)
		if err != nil {
			return nil, bindFailure(c, err)
		}
		return columnPredicate(cmp, ri, rcol), nil

	default:
		// column op literal: only the left operand can be baked, so swap
		// the operands and invert the operator.
		cmp, err := lcol.Type.CompareLeftBaked(c.Op.Inverse(), c.Right)
		if err != nil {
			return nil, bindFailure(c, err)
		}
		return columnPredicate(cmp, li, lcol), nil
	}
}

func columnPredicate(cmp schema.SingleFunc, idx int, col schema.Column) Predicate {
	return func(row []string) (bool, error) {
		v, err := field(row, idx, col)
		if err != nil {
			return false, err
		}
		return cmp(v)
	}
}

func field(row []string, idx int, col schema.Column) (string, error) {
	if idx >= len(row) {
		return "", fmt.Errorf("%w: row has %d fields, column %q is at index %d", ErrRow, len(row), col.Name, idx)
	}
	return row[idx], nil
}

func bindFailure(c *Comparison, err error) error {
	var valueErr *schema.ValueError
	if errors.As(err, &valueErr) {
		return newBindError(c.Left, c.Right, err, "in %s: %v", c, err)
	}
	return newBindError(c.Left, c.Right, err, "cannot compile %s: %v", c, err)
}
