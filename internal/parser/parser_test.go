package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chiplang/chip/internal/ast"
	"github.com/chiplang/chip/internal/parser"
)

func TestParseExpressions(t *testing.T) {
	// expected is the canonical String() form, which makes the chosen
	// precedence and associativity explicit.
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"integer", "5", "5"},
		{"negative integer", "-5", "-5"},
		{"boolean", "true", "true"},
		{"string", `"hi"`, `"hi"`},
		{"empty list", "[]", "[]"},
		{"list", `[1, "two", true, [3]]`, `[1, "two", true, [3]]`},
		{"variable", "x", "x"},
		{"sum", "1 + 2", "(1 + 2)"},
		{"precedence", "1 + 2 * 3", "(1 + (2 * 3))"},
		{"left associative", "1 - 2 - 3", "((1 - 2) - 3)"},
		{"grouped", "(1 + 2) * 3", "((1 + 2) * 3)"},
		{"comparison vs sum", "1 + 2 < 3 + 4", "((1 + 2) < (3 + 4))"},
		{"shift vs comparison", "1 << 2 > 3", "((1 << 2) > 3)"},
		{"comparison vs equality", "1 < 2 == 2 > 1", "((1 < 2) == (2 > 1))"},
		{"and over or", "a or b and c", "(a or (b and c))"},
		{"logic below equality", "a == b and c == d", "((a == b) and (c == d))"},
		{"modulus", "10 % 3 + 1", "((10 % 3) + 1)"},
		{"not", "!done", "!done"},
		{"not binds tight", "!a and b", "(!a and b)"},
		{"negation of variable", "-x + 1", "((0 - x) + 1)"},
		{"length", "#items", "#items"},
		{"length in expression", "#items - 1", "(#items - 1)"},
		{"index", "items[0]", "items[0]"},
		{"index with expression", "items[i + 1]", "items[(i + 1)]"},
		{"call no args", "f()", "f()"},
		{"call", "f(1, x, g(2))", "f(1, x, g(2))"},
		{"call in infix", "f(1) + g(2)", "(f(1) + g(2))"},
		{"eval", `eval("1 + 2")`, `eval("1 + 2")`},
		{"eval of variable", "eval(code)", "eval(code)"},
		{"kitchen sink", `#xs + xs[0] * f(eval(s), !b)`, `(#xs + (xs[0] * f(eval(s), !b)))`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := parser.Parse(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.expected, expr.String())
		})
	}
}

func TestParseNodeShapes(t *testing.T) {
	expr, err := parser.Parse("xs[1 + 2]")
	require.NoError(t, err)
	index, ok := expr.(*ast.IndexExpression)
	require.True(t, ok)
	require.Equal(t, "xs", index.Name)
	_, ok = index.Index.(*ast.InfixExpression)
	require.True(t, ok)

	expr, err = parser.Parse("f(a, 2)")
	require.NoError(t, err)
	call, ok := expr.(*ast.CallExpression)
	require.True(t, ok)
	require.Equal(t, "f", call.Name)
	require.Len(t, call.Args, 2)

	expr, err = parser.Parse("#xs")
	require.NoError(t, err)
	length, ok := expr.(*ast.LengthExpression)
	require.True(t, ok)
	require.Equal(t, "xs", length.Name)

	expr, err = parser.Parse("a and b")
	require.NoError(t, err)
	infix, ok := expr.(*ast.InfixExpression)
	require.True(t, ok)
	require.Equal(t, ast.And, infix.Operator)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"empty input", "", "unexpected end of input"},
		{"dangling operator", "1 +", "unexpected end of input"},
		{"trailing tokens", "1 + 2 3", `unexpected "3" after expression`},
		{"unclosed paren", "(1 + 2", `expected ), got end of input`},
		{"unclosed bracket", "xs[1", `expected ], got end of input`},
		{"unclosed call", "f(1", `expected ), got end of input`},
		{"bad length target", "# 1", "expected IDENT"},
		{"eval without parens", "eval 1", "expected ("},
		{"unterminated string", `"oops`, "illegal token"},
		{"computed list element", "[f(), 2]", "expected a literal list element"},
		{"operator inside list", "[1 + 2]", "expected ]"},
		{"bare assignment", "x = 1", `unexpected "=" after expression`},
		{"lone operator", "*", `unexpected "*"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.input)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.message)

			var parseErr *parser.Error
			require.ErrorAs(t, err, &parseErr)
			require.Greater(t, parseErr.Line, 0)
		})
	}
}

func TestParseErrorPositions(t *testing.T) {
	_, err := parser.Parse("1 +\n* 2")
	require.Error(t, err)
	var parseErr *parser.Error
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, 2, parseErr.Line)
	require.Equal(t, 1, parseErr.Column)
	require.True(t, strings.HasPrefix(err.Error(), "parse error at 2:1:"), err.Error())
}

func TestRecursionDepthLimit(t *testing.T) {
	deep := strings.Repeat("(", parser.MaxRecursionDepth+1) +
		"1" +
		strings.Repeat(")", parser.MaxRecursionDepth+1)

	_, err := parser.Parse(deep)
	require.Error(t, err)
	require.Contains(t, err.Error(), "recursion depth limit exceeded")
}
