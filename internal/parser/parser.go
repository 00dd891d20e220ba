// Package parser turns chip expression source into an ast.Expression.
// It parses exactly one expression per input; statement grammar lives in
// the host interpreter, not here.
package parser

import (
	"fmt"
	"strconv"

	"github.com/chiplang/chip/internal/ast"
	"github.com/chiplang/chip/internal/lexer"
	"github.com/chiplang/chip/internal/token"
	"github.com/chiplang/chip/internal/value"
)

// Operator precedence levels, lowest binds loosest.
const (
	_ int = iota
	LOWEST
	OR_PREC      // or
	AND_PREC     // and
	EQUALS       // ==
	LESSGREATER  // < > <= >=
	SHIFT        // << >>
	SUM          // + -
	PRODUCT      // * / %
	PREFIX       // ! -
)

// MaxRecursionDepth bounds expression nesting in the parser.
const MaxRecursionDepth = 500

var precedences = map[token.TokenType]int{
	token.OR:       OR_PREC,
	token.AND:      AND_PREC,
	token.EQ:       EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.LT_EQ:    LESSGREATER,
	token.GT_EQ:    LESSGREATER,
	token.SHL:      SHIFT,
	token.SHR:      SHIFT,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
}

var infixOperators = map[token.TokenType]ast.Operator{
	token.OR:       ast.Or,
	token.AND:      ast.And,
	token.EQ:       ast.Equality,
	token.LT:       ast.LessThan,
	token.GT:       ast.GreaterThan,
	token.LT_EQ:    ast.LessThanEqual,
	token.GT_EQ:    ast.GreaterThanEqual,
	token.SHL:      ast.ShiftLeft,
	token.SHR:      ast.ShiftRight,
	token.PLUS:     ast.Add,
	token.MINUS:    ast.Subtract,
	token.ASTERISK: ast.Multiply,
	token.SLASH:    ast.Divide,
	token.PERCENT:  ast.Modulus,
}

// Error is a parse diagnostic with source position.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Message)
}

type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	depth int
	err   error
}

// Parse parses input as a single expression. Trailing tokens after the
// expression are a parse error.
func Parse(input string) (ast.Expression, error) {
	p := New(input)
	expr := p.parseExpression(LOWEST)
	if p.err != nil {
		return nil, p.err
	}
	if !p.peekTokenIs(token.EOF) {
		p.errorf(p.peekToken, "unexpected %s after expression", describe(p.peekToken))
		return nil, p.err
	}
	return expr, nil
}

func New(input string) *Parser {
	p := &Parser{l: lexer.New(input)}
	// Populate curToken and peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if !p.peekTokenIs(t) {
		p.errorf(p.peekToken, "expected %s, got %s", t, describe(p.peekToken))
		return false
	}
	p.nextToken()
	return true
}

// errorf records the first diagnostic; later ones are cascade noise.
func (p *Parser) errorf(tok token.Token, format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	p.err = &Error{Line: tok.Line, Column: tok.Column, Message: fmt.Sprintf(format, args...)}
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.ILLEGAL:
		return fmt.Sprintf("illegal token %q", tok.Lexeme)
	default:
		return fmt.Sprintf("%q", tok.Lexeme)
	}
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		p.errorf(p.curToken, "expression too complex: recursion depth limit exceeded")
		return nil
	}

	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for !p.peekTokenIs(token.EOF) && precedence < p.peekPrecedence() {
		op, ok := infixOperators[p.peekToken.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = p.parseInfixExpression(left, op)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *Parser) parsePrefix() ast.Expression {
	switch p.curToken.Type {
	case token.IDENT:
		return p.parseIdentifier()
	case token.INT:
		return p.parseIntegerLiteral()
	case token.STRING:
		return &ast.Literal{Token: p.curToken, Value: &value.Str{Value: p.curToken.Lexeme}}
	case token.TRUE:
		return &ast.Literal{Token: p.curToken, Value: value.TRUE}
	case token.FALSE:
		return &ast.Literal{Token: p.curToken, Value: value.FALSE}
	case token.LBRACKET:
		return p.parseListLiteral()
	case token.BANG:
		return p.parseNotExpression()
	case token.MINUS:
		return p.parseNegation()
	case token.HASH:
		return p.parseLengthExpression()
	case token.EVAL:
		return p.parseEvalExpression()
	case token.LPAREN:
		return p.parseGroupedExpression()
	default:
		p.errorf(p.curToken, "unexpected %s", describe(p.curToken))
		return nil
	}
}

func (p *Parser) parseInfixExpression(left ast.Expression, op ast.Operator) ast.Expression {
	expr := &ast.InfixExpression{
		Token:    p.curToken,
		Left:     left,
		Operator: op,
	}
	precedence := precedences[p.curToken.Type]
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	return expr
}

// parseIdentifier handles bare variables plus the name-bound forms
// name[index] and name(args...).
func (p *Parser) parseIdentifier() ast.Expression {
	name := p.curToken
	switch {
	case p.peekTokenIs(token.LBRACKET):
		p.nextToken()
		bracket := p.curToken
		p.nextToken()
		index := p.parseExpression(LOWEST)
		if index == nil {
			return nil
		}
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		return &ast.IndexExpression{Token: bracket, Name: name.Lexeme, Index: index}
	case p.peekTokenIs(token.LPAREN):
		p.nextToken()
		paren := p.curToken
		args := p.parseCallArguments()
		if p.err != nil {
			return nil
		}
		return &ast.CallExpression{Token: paren, Name: name.Lexeme, Args: args}
	default:
		return &ast.Identifier{Token: name, Value: name.Lexeme}
	}
}

func (p *Parser) parseCallArguments() []ast.Expression {
	args := []ast.Expression{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}

	p.nextToken()
	arg := p.parseExpression(LOWEST)
	if arg == nil {
		return nil
	}
	args = append(args, arg)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		arg = p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		args = append(args, arg)
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return args
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	n, err := strconv.ParseInt(p.curToken.Lexeme, 10, 64)
	if err != nil {
		p.errorf(p.curToken, "could not parse %q as integer", p.curToken.Lexeme)
		return nil
	}
	return &ast.Literal{Token: p.curToken, Value: &value.Int{Value: n}}
}

// parseListLiteral parses [v, v, ...]. Elements must themselves be
// literal values; computed elements have no expression-tree form.
func (p *Parser) parseListLiteral() ast.Expression {
	bracket := p.curToken
	elements := []value.Value{}

	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		return &ast.Literal{Token: bracket, Value: &value.List{Elements: elements}}
	}

	p.nextToken()
	el := p.parseLiteralValue()
	if el == nil {
		return nil
	}
	elements = append(elements, el)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		el = p.parseLiteralValue()
		if el == nil {
			return nil
		}
		elements = append(elements, el)
	}

	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.Literal{Token: bracket, Value: &value.List{Elements: elements}}
}

func (p *Parser) parseLiteralValue() value.Value {
	switch p.curToken.Type {
	case token.INT:
		n, err := strconv.ParseInt(p.curToken.Lexeme, 10, 64)
		if err != nil {
			p.errorf(p.curToken, "could not parse %q as integer", p.curToken.Lexeme)
			return nil
		}
		return &value.Int{Value: n}
	case token.STRING:
		return &value.Str{Value: p.curToken.Lexeme}
	case token.TRUE:
		return value.TRUE
	case token.FALSE:
		return value.FALSE
	case token.LBRACKET:
		lit := p.parseListLiteral()
		if lit == nil {
			return nil
		}
		return lit.(*ast.Literal).Value
	default:
		p.errorf(p.curToken, "expected a literal list element, got %s", describe(p.curToken))
		return nil
	}
}

func (p *Parser) parseNotExpression() ast.Expression {
	bang := p.curToken
	p.nextToken()
	expr := p.parseExpression(PREFIX)
	if expr == nil {
		return nil
	}
	return &ast.NotExpression{Token: bang, Expr: expr}
}

// parseNegation folds a leading minus into the integer literal when it
// can, and desugars to 0 - e otherwise.
func (p *Parser) parseNegation() ast.Expression {
	minus := p.curToken
	p.nextToken()
	if p.curTokenIs(token.INT) {
		n, err := strconv.ParseInt(p.curToken.Lexeme, 10, 64)
		if err != nil {
			p.errorf(p.curToken, "could not parse %q as integer", p.curToken.Lexeme)
			return nil
		}
		return &ast.Literal{Token: minus, Value: &value.Int{Value: -n}}
	}
	expr := p.parseExpression(PREFIX)
	if expr == nil {
		return nil
	}
	return &ast.InfixExpression{
		Token:    minus,
		Left:     &ast.Literal{Token: minus, Value: &value.Int{Value: 0}},
		Operator: ast.Subtract,
		Right:    expr,
	}
}

func (p *Parser) parseLengthExpression() ast.Expression {
	hash := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	return &ast.LengthExpression{Token: hash, Name: p.curToken.Lexeme}
}

func (p *Parser) parseEvalExpression() ast.Expression {
	evalTok := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return &ast.EvalExpression{Token: evalTok, Expr: expr}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}
