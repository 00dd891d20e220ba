package evaluator

import (
	"errors"
	"fmt"

	"github.com/chiplang/chip/internal/value"
)

// UnexpectedTypeError reports a value of the wrong kind at a point that
// requires a specific one (not, eval's string operand, TryBool, TryInt).
type UnexpectedTypeError struct {
	Expected value.Type
	Actual   value.Type
}

func (e *UnexpectedTypeError) Error() string {
	return fmt.Sprintf("unexpected type: expected %s, got %s", e.Expected, e.Actual)
}

// IndexUnindexableError reports a length or index operation on a kind
// with no index notion.
type IndexUnindexableError struct {
	Actual value.Type
}

func (e *IndexUnindexableError) Error() string {
	return fmt.Sprintf("cannot index into type %s", e.Actual)
}

// SyntaxError wraps the parser diagnostic produced when an eval string
// fails to re-parse. The underlying diagnostic is preserved verbatim.
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string { return fmt.Sprintf("syntax error: %v", e.Err) }
func (e *SyntaxError) Unwrap() error { return e.Err }

// ErrTooMuchRecursion trips the evaluation depth guard, typically from a
// self-referential eval string.
var ErrTooMuchRecursion = errors.New("maximum recursion depth exceeded")

// UnknownVariableError is State's lookup failure for a missing name.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable %q", e.Name)
}

// UnknownFunctionError is State's failure for a missing function name.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function %q", e.Name)
}

// OutOfBoundsError reports an index outside a list's or string's range.
type OutOfBoundsError struct {
	Name  string
	Index int64
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("index %d out of bounds for %q", e.Index, e.Name)
}

// WrongArgCountError reports an arity mismatch on a function call.
type WrongArgCountError struct {
	Name string
	Want int
	Got  int
}

func (e *WrongArgCountError) Error() string {
	return fmt.Sprintf("%s expects %d argument(s), got %d", e.Name, e.Want, e.Got)
}
