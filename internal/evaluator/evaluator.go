// Package evaluator reduces chip expression trees to runtime values
// against a mutable environment. It is the core of the interpreter:
// operator dispatch, type assertions, error classification and
// re-entrant string evaluation all live here.
package evaluator

import (
	"fmt"

	"github.com/chiplang/chip/internal/ast"
	"github.com/chiplang/chip/internal/value"
)

// ParseFunc turns source text into an expression tree. The evaluator
// consumes parsing as an opaque boundary; internal/parser provides the
// production implementation.
type ParseFunc func(src string) (ast.Expression, error)

// Env is the environment surface the evaluator consumes. State is the
// in-process implementation; tests substitute their own.
type Env interface {
	// Get returns the value stored under name.
	Get(name string) (value.Value, error)
	// ListIndex resolves name[index]. Bounds and indexability checks
	// belong to the environment, not the evaluator.
	ListIndex(name string, index int64) (value.Value, error)
	// CallFunction invokes a named function with unevaluated argument
	// expressions; the callee owns its evaluation policy.
	CallFunction(name string, args []ast.Expression) (value.Value, error)
}

// DefaultMaxDepth is the default cap on nested evaluation. It exists to
// turn runaway eval strings into an error instead of a stack overflow.
const DefaultMaxDepth = 10000

type Evaluator struct {
	// Parse handles eval-of-string re-parsing.
	Parse ParseFunc
	// MaxDepth caps nested evaluation; 0 means DefaultMaxDepth.
	MaxDepth int

	depth int
}

func New(parse ParseFunc) *Evaluator {
	return &Evaluator{Parse: parse}
}

func (e *Evaluator) maxDepth() int {
	if e.MaxDepth > 0 {
		return e.MaxDepth
	}
	return DefaultMaxDepth
}

// Evaluate reduces expr to a value against s. Results are read-only
// views: lookups and literals are returned without copying, computed
// results are fresh. Every failure from a sub-evaluation or collaborator
// is propagated unchanged; there is no local recovery.
func (e *Evaluator) Evaluate(expr ast.Expression, s Env) (value.Value, error) {
	e.depth++
	defer func() { e.depth-- }()
	if e.depth > e.maxDepth() {
		return nil, ErrTooMuchRecursion
	}

	switch expr := expr.(type) {
	case *ast.Identifier:
		return s.Get(expr.Value)

	case *ast.Literal:
		return expr.Value, nil

	case *ast.InfixExpression:
		// Both operands are always evaluated, left to right. and/or do
		// not short-circuit; this matches the reference semantics.
		left, err := e.Evaluate(expr.Left, s)
		if err != nil {
			return nil, err
		}
		right, err := e.Evaluate(expr.Right, s)
		if err != nil {
			return nil, err
		}
		return applyOperator(expr.Operator, left, right)

	case *ast.IndexExpression:
		idx, err := e.Evaluate(expr.Index, s)
		if err != nil {
			return nil, err
		}
		i, ok := idx.(*value.Int)
		if !ok {
			return nil, &UnexpectedTypeError{Expected: value.INT_TYPE, Actual: idx.Type()}
		}
		return s.ListIndex(expr.Name, i.Value)

	case *ast.NotExpression:
		v, err := e.Evaluate(expr.Expr, s)
		if err != nil {
			return nil, err
		}
		b, ok := v.(*value.Bool)
		if !ok {
			return nil, &UnexpectedTypeError{Expected: value.BOOL_TYPE, Actual: v.Type()}
		}
		return value.NativeBool(!b.Value), nil

	case *ast.LengthExpression:
		v, err := s.Get(expr.Name)
		if err != nil {
			return nil, err
		}
		switch v := v.(type) {
		case *value.List:
			return &value.Int{Value: int64(len(v.Elements))}, nil
		case *value.Str:
			return &value.Int{Value: int64(len(v.Value))}, nil
		default:
			return nil, &IndexUnindexableError{Actual: v.Type()}
		}

	case *ast.EvalExpression:
		v, err := e.Evaluate(expr.Expr, s)
		if err != nil {
			return nil, err
		}
		src, ok := v.(*value.Str)
		if !ok {
			return nil, &UnexpectedTypeError{Expected: value.STR_TYPE, Actual: v.Type()}
		}
		tree, err := e.Parse(src.Value)
		if err != nil {
			return nil, &SyntaxError{Err: err}
		}
		return e.Evaluate(tree, s)

	case *ast.CallExpression:
		return s.CallFunction(expr.Name, expr.Args)
	}

	return nil, fmt.Errorf("unhandled expression node %T", expr)
}

// TryBool evaluates expr and asserts a Bool result. Control-flow hosts
// use it instead of unpacking the value themselves.
func (e *Evaluator) TryBool(expr ast.Expression, s Env) (bool, error) {
	v, err := e.Evaluate(expr, s)
	if err != nil {
		return false, err
	}
	b, ok := v.(*value.Bool)
	if !ok {
		return false, &UnexpectedTypeError{Expected: value.BOOL_TYPE, Actual: v.Type()}
	}
	return b.Value, nil
}

// TryInt evaluates expr and asserts an Int result.
func (e *Evaluator) TryInt(expr ast.Expression, s Env) (int64, error) {
	v, err := e.Evaluate(expr, s)
	if err != nil {
		return 0, err
	}
	i, ok := v.(*value.Int)
	if !ok {
		return 0, &UnexpectedTypeError{Expected: value.INT_TYPE, Actual: v.Type()}
	}
	return i.Value, nil
}

// applyOperator maps each operator to its value-level function. Equality
// never fails; everything else can report a mismatch or domain error.
func applyOperator(op ast.Operator, left, right value.Value) (value.Value, error) {
	switch op {
	case ast.Add:
		return value.Add(left, right)
	case ast.Subtract:
		return value.Subtract(left, right)
	case ast.Multiply:
		return value.Multiply(left, right)
	case ast.Divide:
		return value.Divide(left, right)
	case ast.Modulus:
		return value.Modulo(left, right)
	case ast.Equality:
		return value.Equals(left, right), nil
	case ast.LessThan:
		return value.LessThan(left, right)
	case ast.GreaterThan:
		return value.GreaterThan(left, right)
	case ast.LessThanEqual:
		return value.LessThanEqual(left, right)
	case ast.GreaterThanEqual:
		return value.GreaterThanEqual(left, right)
	case ast.ShiftLeft:
		return value.ShiftLeft(left, right)
	case ast.ShiftRight:
		return value.ShiftRight(left, right)
	case ast.And:
		return value.And(left, right)
	case ast.Or:
		return value.Or(left, right)
	}
	return nil, fmt.Errorf("unhandled operator %s", op)
}
