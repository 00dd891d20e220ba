package value

import (
	"errors"
	"fmt"
)

// MismatchError reports a binary operator applied to an incompatible
// pair of kinds. No coercion is attempted anywhere in this package.
type MismatchError struct {
	Op    string
	Left  Type
	Right Type
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("type mismatch: %s %s %s", e.Left, e.Op, e.Right)
}

var (
	ErrDivideByZero = errors.New("division by zero")
	ErrModuloByZero = errors.New("modulo by zero")
)

func mismatch(op string, left, right Value) error {
	return &MismatchError{Op: op, Left: left.Type(), Right: right.Type()}
}

// Add concatenates strings and lists and sums integers.
func Add(left, right Value) (Value, error) {
	switch l := left.(type) {
	case *Int:
		if r, ok := right.(*Int); ok {
			return &Int{Value: l.Value + r.Value}, nil
		}
	case *Str:
		if r, ok := right.(*Str); ok {
			return &Str{Value: l.Value + r.Value}, nil
		}
	case *List:
		if r, ok := right.(*List); ok {
			elements := make([]Value, 0, len(l.Elements)+len(r.Elements))
			elements = append(elements, l.Elements...)
			elements = append(elements, r.Elements...)
			return &List{Elements: elements}, nil
		}
	}
	return nil, mismatch("+", left, right)
}

func Subtract(left, right Value) (Value, error) {
	l, r, ok := intPair(left, right)
	if !ok {
		return nil, mismatch("-", left, right)
	}
	return &Int{Value: l - r}, nil
}

func Multiply(left, right Value) (Value, error) {
	l, r, ok := intPair(left, right)
	if !ok {
		return nil, mismatch("*", left, right)
	}
	return &Int{Value: l * r}, nil
}

func Divide(left, right Value) (Value, error) {
	l, r, ok := intPair(left, right)
	if !ok {
		return nil, mismatch("/", left, right)
	}
	if r == 0 {
		return nil, ErrDivideByZero
	}
	return &Int{Value: l / r}, nil
}

func Modulo(left, right Value) (Value, error) {
	l, r, ok := intPair(left, right)
	if !ok {
		return nil, mismatch("%", left, right)
	}
	if r == 0 {
		return nil, ErrModuloByZero
	}
	return &Int{Value: l % r}, nil
}

func ShiftLeft(left, right Value) (Value, error) {
	l, r, ok := intPair(left, right)
	if !ok {
		return nil, mismatch("<<", left, right)
	}
	return &Int{Value: l << uint64(r)}, nil
}

func ShiftRight(left, right Value) (Value, error) {
	l, r, ok := intPair(left, right)
	if !ok {
		return nil, mismatch(">>", left, right)
	}
	return &Int{Value: l >> uint64(r)}, nil
}

// LessThan orders Int pairs numerically and Str pairs lexicographically.
// The remaining orderings share its dispatch.
func LessThan(left, right Value) (Value, error) {
	return compare("<", left, right, func(c int) bool { return c < 0 })
}

func GreaterThan(left, right Value) (Value, error) {
	return compare(">", left, right, func(c int) bool { return c > 0 })
}

func LessThanEqual(left, right Value) (Value, error) {
	return compare("<=", left, right, func(c int) bool { return c <= 0 })
}

func GreaterThanEqual(left, right Value) (Value, error) {
	return compare(">=", left, right, func(c int) bool { return c >= 0 })
}

// And is not short-circuiting: both operands are already evaluated by
// the time it runs.
func And(left, right Value) (Value, error) {
	l, r, ok := boolPair(left, right)
	if !ok {
		return nil, mismatch("and", left, right)
	}
	return NativeBool(l && r), nil
}

func Or(left, right Value) (Value, error) {
	l, r, ok := boolPair(left, right)
	if !ok {
		return nil, mismatch("or", left, right)
	}
	return NativeBool(l || r), nil
}

// Equals is total: it is defined for every pair of kinds and reports
// false across mismatched kinds. Lists compare structurally.
func Equals(left, right Value) *Bool {
	return NativeBool(equal(left, right))
}

func equal(left, right Value) bool {
	switch l := left.(type) {
	case *Int:
		r, ok := right.(*Int)
		return ok && l.Value == r.Value
	case *Bool:
		r, ok := right.(*Bool)
		return ok && l.Value == r.Value
	case *Str:
		r, ok := right.(*Str)
		return ok && l.Value == r.Value
	case *List:
		r, ok := right.(*List)
		if !ok || len(l.Elements) != len(r.Elements) {
			return false
		}
		for i, el := range l.Elements {
			if !equal(el, r.Elements[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func compare(op string, left, right Value, keep func(int) bool) (Value, error) {
	switch l := left.(type) {
	case *Int:
		if r, ok := right.(*Int); ok {
			return NativeBool(keep(compareInt(l.Value, r.Value))), nil
		}
	case *Str:
		if r, ok := right.(*Str); ok {
			switch {
			case l.Value < r.Value:
				return NativeBool(keep(-1)), nil
			case l.Value > r.Value:
				return NativeBool(keep(1)), nil
			default:
				return NativeBool(keep(0)), nil
			}
		}
	}
	return nil, mismatch(op, left, right)
}

func compareInt(l, r int64) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

func intPair(left, right Value) (int64, int64, bool) {
	l, ok := left.(*Int)
	if !ok {
		return 0, 0, false
	}
	r, ok := right.(*Int)
	if !ok {
		return 0, 0, false
	}
	return l.Value, r.Value, true
}

func boolPair(left, right Value) (bool, bool, bool) {
	l, ok := left.(*Bool)
	if !ok {
		return false, false, false
	}
	r, ok := right.(*Bool)
	if !ok {
		return false, false, false
	}
	return l.Value, r.Value, true
}
