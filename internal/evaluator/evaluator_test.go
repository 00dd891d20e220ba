package evaluator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chiplang/chip/internal/ast"
	"github.com/chiplang/chip/internal/evaluator"
	"github.com/chiplang/chip/internal/parser"
	"github.com/chiplang/chip/internal/value"
)

func newEngine(t *testing.T) (*evaluator.Evaluator, *evaluator.State) {
	t.Helper()
	ev := evaluator.New(parser.Parse)
	return ev, evaluator.NewState(ev)
}

func eval(t *testing.T, ev *evaluator.Evaluator, s evaluator.Env, src string) (value.Value, error) {
	t.Helper()
	expr, err := parser.Parse(src)
	require.NoError(t, err, "input %q must parse", src)
	return ev.Evaluate(expr, s)
}

// failGetEnv fails the test on any environment access. Literal
// evaluation must never consult the environment.
type failGetEnv struct {
	t *testing.T
}

func (f *failGetEnv) Get(name string) (value.Value, error) {
	f.t.Fatalf("unexpected Get(%q)", name)
	return nil, nil
}

func (f *failGetEnv) ListIndex(name string, index int64) (value.Value, error) {
	f.t.Fatalf("unexpected ListIndex(%q, %d)", name, index)
	return nil, nil
}

func (f *failGetEnv) CallFunction(name string, args []ast.Expression) (value.Value, error) {
	f.t.Fatalf("unexpected CallFunction(%q)", name)
	return nil, nil
}

func TestLiteralIdentity(t *testing.T) {
	ev := evaluator.New(parser.Parse)

	literals := []string{`5`, `true`, `false`, `"hello"`, `[1, "two", [true]]`}
	for _, src := range literals {
		t.Run(src, func(t *testing.T) {
			expr, err := parser.Parse(src)
			require.NoError(t, err)
			lit, ok := expr.(*ast.Literal)
			require.True(t, ok, "expected a literal node for %q", src)

			got, err := ev.Evaluate(expr, &failGetEnv{t: t})
			require.NoError(t, err)
			require.True(t, value.Equals(lit.Value, got).Value, "literal must evaluate to itself")
		})
	}
}

func TestInfixExpressions(t *testing.T) {
	ev, s := newEngine(t)

	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2", "3"},
		{"10 - 2 * 3", "4"},
		{"(10 - 2) * 3", "24"},
		{"7 / 2", "3"},
		{"7 % 2", "1"},
		{"1 << 4", "16"},
		{"256 >> 4", "16"},
		{`"foo" + "bar"`, `"foobar"`},
		{"[1, 2] + [3]", "[1, 2, 3]"},
		{"1 < 2", "true"},
		{"2 <= 2", "true"},
		{"3 > 4", "false"},
		{"3 >= 4", "false"},
		{`"abc" < "abd"`, "true"},
		{"true and false", "false"},
		{"true or false", "true"},
		{"1 + 2 == 3", "true"},
		{"1 == true", "false"},
		{`"1" == 1`, "false"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := eval(t, ev, s, tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.expected, got.Inspect())
		})
	}
}

func TestInfixKindMismatches(t *testing.T) {
	ev, s := newEngine(t)
	s.Insert("list", &value.List{Elements: []value.Value{&value.Int{Value: 1}}})

	inputs := []string{
		"1 + list",
		"1 + true",
		`"a" - "b"`,
		"true * 2",
		"list / 2",
		"true % false",
		"1 < true",
		"list > list",
		`"a" << 1`,
		"2 >> true",
		"1 and true",
		`false or "no"`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := eval(t, ev, s, input)
			var mismatch *value.MismatchError
			require.ErrorAs(t, err, &mismatch, "kind mismatch must be reported, not coerced")
		})
	}
}

func TestDivisionDomainErrors(t *testing.T) {
	ev, s := newEngine(t)

	_, err := eval(t, ev, s, "1 / 0")
	require.ErrorIs(t, err, value.ErrDivideByZero)

	_, err = eval(t, ev, s, "1 % 0")
	require.ErrorIs(t, err, value.ErrModuloByZero)
}

func TestEqualityIsTotalAndReflexive(t *testing.T) {
	ev, s := newEngine(t)

	values := []value.Value{
		&value.Int{Value: 7},
		value.TRUE,
		value.FALSE,
		&value.Str{Value: "word"},
		&value.List{Elements: []value.Value{&value.Int{Value: 1}, &value.Str{Value: "x"}}},
		&value.List{},
	}

	for _, v := range values {
		expr := &ast.InfixExpression{
			Left:     &ast.Literal{Value: v},
			Operator: ast.Equality,
			Right:    &ast.Literal{Value: v.Clone()},
		}
		got, err := ev.Evaluate(expr, s)
		require.NoError(t, err)
		require.Equal(t, value.TRUE, got, "%s == itself", v.Inspect())
	}

	for i, left := range values[:4] {
		for j, right := range values[:4] {
			if i == j {
				continue
			}
			expr := &ast.InfixExpression{
				Left:     &ast.Literal{Value: left},
				Operator: ast.Equality,
				Right:    &ast.Literal{Value: right},
			}
			got, err := ev.Evaluate(expr, s)
			require.NoError(t, err, "equality never fails")
			if left.Type() != right.Type() {
				require.Equal(t, value.FALSE, got, "%s == %s", left.Inspect(), right.Inspect())
			}
		}
	}
}

func TestNotIsAnInvolution(t *testing.T) {
	ev, s := newEngine(t)

	got, err := eval(t, ev, s, "!!true")
	require.NoError(t, err)
	require.Equal(t, value.TRUE, got)

	got, err = eval(t, ev, s, "!true")
	require.NoError(t, err)
	require.Equal(t, value.FALSE, got)

	_, err = eval(t, ev, s, "!5")
	var unexpected *evaluator.UnexpectedTypeError
	require.ErrorAs(t, err, &unexpected)
	require.Equal(t, value.BOOL_TYPE, unexpected.Expected)
	require.Equal(t, value.INT_TYPE, unexpected.Actual)
}

func TestLengthExpression(t *testing.T) {
	ev, s := newEngine(t)
	s.Insert("list", &value.List{Elements: []value.Value{
		&value.Int{Value: 1}, &value.Int{Value: 2}, &value.Int{Value: 3},
	}})
	s.Insert("word", &value.Str{Value: "word"})
	s.Insert("n", &value.Int{Value: 9})

	got, err := eval(t, ev, s, "#list")
	require.NoError(t, err)
	require.Equal(t, "3", got.Inspect())

	got, err = eval(t, ev, s, "#word")
	require.NoError(t, err)
	require.Equal(t, "4", got.Inspect())

	_, err = eval(t, ev, s, "#n")
	var unindexable *evaluator.IndexUnindexableError
	require.ErrorAs(t, err, &unindexable)
	require.Equal(t, value.INT_TYPE, unindexable.Actual)
}

func TestEvalOfStrings(t *testing.T) {
	ev, s := newEngine(t)

	got, err := eval(t, ev, s, `eval("1 + 2")`)
	require.NoError(t, err)
	require.Equal(t, "3", got.Inspect())

	_, err = eval(t, ev, s, `eval(5)`)
	var unexpected *evaluator.UnexpectedTypeError
	require.ErrorAs(t, err, &unexpected)
	require.Equal(t, value.STR_TYPE, unexpected.Expected)
	require.Equal(t, value.INT_TYPE, unexpected.Actual)

	_, err = eval(t, ev, s, `eval("1 +")`)
	var syntax *evaluator.SyntaxError
	require.ErrorAs(t, err, &syntax)
	var parseErr *parser.Error
	require.ErrorAs(t, syntax.Err, &parseErr, "the parser diagnostic is wrapped verbatim")
}

func TestEvalSeesTheSameState(t *testing.T) {
	ev, s := newEngine(t)
	s.Insert("x", &value.Int{Value: 40})

	got, err := eval(t, ev, s, `eval("x + 2")`)
	require.NoError(t, err)
	require.Equal(t, "42", got.Inspect())
}

func TestEvalDepthGuard(t *testing.T) {
	ev, s := newEngine(t)
	ev.MaxDepth = 50
	s.Insert("bomb", &value.Str{Value: "eval(bomb)"})

	_, err := eval(t, ev, s, "eval(bomb)")
	require.ErrorIs(t, err, evaluator.ErrTooMuchRecursion)
}

func TestTryHelpers(t *testing.T) {
	ev, s := newEngine(t)

	sevenPlus, err := parser.Parse("3 + 4")
	require.NoError(t, err)
	n, err := ev.TryInt(sevenPlus, s)
	require.NoError(t, err)
	require.Equal(t, int64(7), n)

	boolExpr, err := parser.Parse("true")
	require.NoError(t, err)
	_, err = ev.TryInt(boolExpr, s)
	var unexpected *evaluator.UnexpectedTypeError
	require.ErrorAs(t, err, &unexpected)
	require.Equal(t, value.INT_TYPE, unexpected.Expected)
	require.Equal(t, value.BOOL_TYPE, unexpected.Actual)

	b, err := ev.TryBool(boolExpr, s)
	require.NoError(t, err)
	require.True(t, b)

	intExpr, err := parser.Parse("7")
	require.NoError(t, err)
	_, err = ev.TryBool(intExpr, s)
	require.ErrorAs(t, err, &unexpected)
	require.Equal(t, value.BOOL_TYPE, unexpected.Expected)
	require.Equal(t, value.INT_TYPE, unexpected.Actual)
}

// and/or intentionally evaluate both operands; a short-circuit would be
// observable through a side-effecting function call on the right.
func TestBinaryOpEvaluatesBothOperands(t *testing.T) {
	ev, s := newEngine(t)

	ticks := 0
	s.RegisterFunction("tick", func(s *evaluator.State, args []ast.Expression) (value.Value, error) {
		ticks++
		return value.TRUE, nil
	})

	got, err := eval(t, ev, s, "false and tick()")
	require.NoError(t, err)
	require.Equal(t, value.FALSE, got)
	require.Equal(t, 1, ticks, "right operand of a decided 'and' must still run")

	got, err = eval(t, ev, s, "true or tick()")
	require.NoError(t, err)
	require.Equal(t, value.TRUE, got)
	require.Equal(t, 2, ticks, "right operand of a decided 'or' must still run")
}

func TestEvaluationOrderIsLeftToRight(t *testing.T) {
	ev, s := newEngine(t)

	var order []string
	record := func(name string, result value.Value) evaluator.Function {
		return func(s *evaluator.State, args []ast.Expression) (value.Value, error) {
			order = append(order, name)
			return result, nil
		}
	}
	s.RegisterFunction("left", record("left", &value.Int{Value: 1}))
	s.RegisterFunction("right", record("right", &value.Int{Value: 2}))

	got, err := eval(t, ev, s, "left() + right()")
	require.NoError(t, err)
	require.Equal(t, "3", got.Inspect())
	require.Equal(t, []string{"left", "right"}, order)
}

func TestUnknownVariablePropagatesUnchanged(t *testing.T) {
	ev, s := newEngine(t)

	_, err := eval(t, ev, s, "missing")
	var unknown *evaluator.UnknownVariableError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "missing", unknown.Name)
	require.EqualError(t, err, `unknown variable "missing"`)

	// The same error must surface untouched from a sub-expression.
	_, err = eval(t, ev, s, "1 + missing")
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "missing", unknown.Name)
}

func TestFunctionCallErrorsPropagate(t *testing.T) {
	ev, s := newEngine(t)

	_, err := eval(t, ev, s, "nope()")
	var unknown *evaluator.UnknownFunctionError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "nope", unknown.Name)

	boom := errors.New("kaboom")
	s.RegisterFunction("boom", func(s *evaluator.State, args []ast.Expression) (value.Value, error) {
		return nil, boom
	})
	_, err = eval(t, ev, s, "boom()")
	require.ErrorIs(t, err, boom)
}

func TestFunctionSideEffectsAreVisible(t *testing.T) {
	ev, s := newEngine(t)

	s.RegisterFunction("bump", func(s *evaluator.State, args []ast.Expression) (value.Value, error) {
		v, err := s.Get("counter")
		if err != nil {
			v = &value.Int{Value: 0}
		}
		next := &value.Int{Value: v.(*value.Int).Value + 1}
		s.Insert("counter", next)
		return next, nil
	})

	for want := int64(1); want <= 3; want++ {
		got, err := eval(t, ev, s, "bump()")
		require.NoError(t, err)
		require.Equal(t, want, got.(*value.Int).Value)
	}

	counter, err := s.Get("counter")
	require.NoError(t, err)
	require.Equal(t, int64(3), counter.(*value.Int).Value)
}

func TestIndexExpression(t *testing.T) {
	ev, s := newEngine(t)
	s.Insert("list", &value.List{Elements: []value.Value{
		&value.Int{Value: 10}, &value.Int{Value: 20}, &value.Int{Value: 30},
	}})
	s.Insert("word", &value.Str{Value: "word"})

	got, err := eval(t, ev, s, "list[1 + 1]")
	require.NoError(t, err)
	require.Equal(t, "30", got.Inspect())

	got, err = eval(t, ev, s, "word[0]")
	require.NoError(t, err)
	require.Equal(t, `"w"`, got.Inspect())

	_, err = eval(t, ev, s, "list[true]")
	var unexpected *evaluator.UnexpectedTypeError
	require.ErrorAs(t, err, &unexpected)
	require.Equal(t, value.INT_TYPE, unexpected.Expected)
	require.Equal(t, value.BOOL_TYPE, unexpected.Actual)
}
