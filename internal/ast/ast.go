// Package ast defines the expression tree produced by the parser. Trees
// are built once and never mutated during evaluation.
package ast

import (
	"strings"

	"github.com/chiplang/chip/internal/token"
	"github.com/chiplang/chip/internal/value"
)

// Expression is the base interface for all expression nodes.
type Expression interface {
	expressionNode()
	TokenLiteral() string
	GetToken() token.Token
	String() string
}

// Operator is the closed set of binary operators. Every operator maps to
// exactly one value-level function in the evaluator's dispatch table.
type Operator int

const (
	Add Operator = iota
	Subtract
	Multiply
	Divide
	Modulus
	Equality
	LessThan
	GreaterThan
	LessThanEqual
	GreaterThanEqual
	ShiftLeft
	ShiftRight
	And
	Or
)

func (op Operator) String() string {
	switch op {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case Modulus:
		return "%"
	case Equality:
		return "=="
	case LessThan:
		return "<"
	case GreaterThan:
		return ">"
	case LessThanEqual:
		return "<="
	case GreaterThanEqual:
		return ">="
	case ShiftLeft:
		return "<<"
	case ShiftRight:
		return ">>"
	case And:
		return "and"
	case Or:
		return "or"
	}
	return "?"
}

// Identifier references an environment slot by name.
type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }
func (i *Identifier) String() string        { return i.Value }

// Literal embeds a runtime value directly in the tree. Evaluating it
// performs no computation and never consults the environment.
type Literal struct {
	Token token.Token
	Value value.Value
}

func (l *Literal) expressionNode()       {}
func (l *Literal) TokenLiteral() string  { return l.Token.Lexeme }
func (l *Literal) GetToken() token.Token { return l.Token }
func (l *Literal) String() string        { return l.Value.Inspect() }

// InfixExpression applies a binary operator to two sub-expressions.
type InfixExpression struct {
	Token    token.Token // the operator token
	Left     Expression
	Operator Operator
	Right    Expression
}

func (ie *InfixExpression) expressionNode()       {}
func (ie *InfixExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token { return ie.Token }
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator.String() + " " + ie.Right.String() + ")"
}

// NotExpression negates a boolean sub-expression.
type NotExpression struct {
	Token token.Token // the '!' token
	Expr  Expression
}

func (ne *NotExpression) expressionNode()       {}
func (ne *NotExpression) TokenLiteral() string  { return ne.Token.Lexeme }
func (ne *NotExpression) GetToken() token.Token { return ne.Token }
func (ne *NotExpression) String() string        { return "!" + ne.Expr.String() }

// IndexExpression indexes into a named list-or-string variable.
type IndexExpression struct {
	Token token.Token // the '[' token
	Name  string
	Index Expression
}

func (ix *IndexExpression) expressionNode()       {}
func (ix *IndexExpression) TokenLiteral() string  { return ix.Token.Lexeme }
func (ix *IndexExpression) GetToken() token.Token { return ix.Token }
func (ix *IndexExpression) String() string        { return ix.Name + "[" + ix.Index.String() + "]" }

// LengthExpression queries the length of a named list-or-string variable.
type LengthExpression struct {
	Token token.Token // the '#' token
	Name  string
}

func (le *LengthExpression) expressionNode()       {}
func (le *LengthExpression) TokenLiteral() string  { return le.Token.Lexeme }
func (le *LengthExpression) GetToken() token.Token { return le.Token }
func (le *LengthExpression) String() string        { return "#" + le.Name }

// EvalExpression evaluates its sub-expression to a string and runs the
// string as freshly parsed code against the same environment.
type EvalExpression struct {
	Token token.Token // the 'eval' token
	Expr  Expression
}

func (ee *EvalExpression) expressionNode()       {}
func (ee *EvalExpression) TokenLiteral() string  { return ee.Token.Lexeme }
func (ee *EvalExpression) GetToken() token.Token { return ee.Token }
func (ee *EvalExpression) String() string        { return "eval(" + ee.Expr.String() + ")" }

// CallExpression invokes a named function with unevaluated argument
// expressions; the callee decides how its parameters are evaluated.
type CallExpression struct {
	Token token.Token // the '(' token
	Name  string
	Args  []Expression
}

func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }
func (ce *CallExpression) String() string {
	args := make([]string, len(ce.Args))
	for i, a := range ce.Args {
		args[i] = a.String()
	}
	return ce.Name + "(" + strings.Join(args, ", ") + ")"
}
