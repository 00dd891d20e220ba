package evaluator

import (
	"io"
	"os"
	"sync"

	"github.com/chiplang/chip/internal/ast"
	"github.com/chiplang/chip/internal/value"
)

// Function is a callable registered in a State. It receives the
// unevaluated argument expressions and decides how to evaluate them,
// usually through s.Eval. Side effects on s are visible to later
// evaluations.
type Function func(s *State, args []ast.Expression) (value.Value, error)

// State is the in-memory environment: a name to value store plus a
// function registry. It outlives individual evaluations and implements
// Env. The store is mutex-guarded so a host may inspect it from another
// goroutine, but evaluation itself is single-threaded.
type State struct {
	mu        sync.RWMutex
	vars      map[string]value.Value
	functions map[string]Function

	eval *Evaluator
	out  io.Writer
}

func NewState(e *Evaluator) *State {
	s := &State{
		vars:      make(map[string]value.Value),
		functions: make(map[string]Function),
		eval:      e,
		out:       os.Stdout,
	}
	registerBuiltins(s)
	return s
}

// Eval evaluates expr against this state. Registered functions use it
// to evaluate their arguments.
func (s *State) Eval(expr ast.Expression) (value.Value, error) {
	return s.eval.Evaluate(expr, s)
}

// SetOutput redirects builtin output (print). Defaults to stdout.
func (s *State) SetOutput(w io.Writer) { s.out = w }

func (s *State) Get(name string) (value.Value, error) {
	s.mu.RLock()
	v, ok := s.vars[name]
	s.mu.RUnlock()
	if !ok {
		return nil, &UnknownVariableError{Name: name}
	}
	return v, nil
}

// Insert stores v under name, replacing any previous value.
func (s *State) Insert(name string, v value.Value) {
	s.mu.Lock()
	s.vars[name] = v
	s.mu.Unlock()
}

// Delete removes name from the store. Removing a missing name is a no-op.
func (s *State) Delete(name string) {
	s.mu.Lock()
	delete(s.vars, name)
	s.mu.Unlock()
}

// ListIndex resolves name[index]. The state owns the bounds check and
// the indexability check; string indexing yields a one-byte Str, in
// line with Str lengths being byte counts.
func (s *State) ListIndex(name string, index int64) (value.Value, error) {
	v, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	switch v := v.(type) {
	case *value.List:
		if index < 0 || index >= int64(len(v.Elements)) {
			return nil, &OutOfBoundsError{Name: name, Index: index}
		}
		return v.Elements[index], nil
	case *value.Str:
		if index < 0 || index >= int64(len(v.Value)) {
			return nil, &OutOfBoundsError{Name: name, Index: index}
		}
		return &value.Str{Value: string(v.Value[index])}, nil
	default:
		return nil, &IndexUnindexableError{Actual: v.Type()}
	}
}

// CallFunction invokes a registered function with unevaluated argument
// expressions. Errors from the callee are propagated unchanged.
func (s *State) CallFunction(name string, args []ast.Expression) (value.Value, error) {
	s.mu.RLock()
	fn, ok := s.functions[name]
	s.mu.RUnlock()
	if !ok {
		return nil, &UnknownFunctionError{Name: name}
	}
	return fn(s, args)
}

// RegisterFunction adds fn to the registry under name, replacing any
// previous binding.
func (s *State) RegisterFunction(name string, fn Function) {
	s.mu.Lock()
	s.functions[name] = fn
	s.mu.Unlock()
}
