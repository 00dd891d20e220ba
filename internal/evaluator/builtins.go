package evaluator

import (
	"fmt"
	"strings"

	"github.com/chiplang/chip/internal/ast"
	"github.com/chiplang/chip/internal/value"
)

// registerBuiltins installs the default function set into s. Hosts and
// tests add their own through RegisterFunction.
func registerBuiltins(s *State) {
	s.RegisterFunction("print", builtinPrint)
	s.RegisterFunction("str", builtinStr)
	s.RegisterFunction("min", builtinMin)
	s.RegisterFunction("max", builtinMax)
}

// builtinPrint evaluates every argument and writes them space-separated
// with a trailing newline. Strings print raw, everything else through
// Inspect. Returns true so print composes inside expressions.
func builtinPrint(s *State, args []ast.Expression) (value.Value, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		v, err := s.Eval(arg)
		if err != nil {
			return nil, err
		}
		if str, ok := v.(*value.Str); ok {
			parts[i] = str.Value
		} else {
			parts[i] = v.Inspect()
		}
	}
	fmt.Fprintln(s.out, strings.Join(parts, " "))
	return value.TRUE, nil
}

func builtinStr(s *State, args []ast.Expression) (value.Value, error) {
	if len(args) != 1 {
		return nil, &WrongArgCountError{Name: "str", Want: 1, Got: len(args)}
	}
	v, err := s.Eval(args[0])
	if err != nil {
		return nil, err
	}
	if str, ok := v.(*value.Str); ok {
		return str, nil
	}
	return &value.Str{Value: v.Inspect()}, nil
}

func builtinMin(s *State, args []ast.Expression) (value.Value, error) {
	return builtinIntFold("min", s, args, func(acc, n int64) int64 {
		if n < acc {
			return n
		}
		return acc
	})
}

func builtinMax(s *State, args []ast.Expression) (value.Value, error) {
	return builtinIntFold("max", s, args, func(acc, n int64) int64 {
		if n > acc {
			return n
		}
		return acc
	})
}

func builtinIntFold(name string, s *State, args []ast.Expression, fold func(acc, n int64) int64) (value.Value, error) {
	if len(args) < 2 {
		return nil, &WrongArgCountError{Name: name, Want: 2, Got: len(args)}
	}
	var acc int64
	for i, arg := range args {
		n, err := s.eval.TryInt(arg, s)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			acc = n
			continue
		}
		acc = fold(acc, n)
	}
	return &value.Int{Value: acc}, nil
}
