// Package parser builds syntax.Node trees from a token stream by recursive
// descent. S-expressions have no operator precedence, so unlike a
// Pratt parser this only ever needs to look one token ahead.
package parser

import (
	"fmt"

	"github.com/dr8co/secd/lexer"
	"github.com/dr8co/secd/syntax"
	"github.com/dr8co/secd/token"
)

// Parser turns a token stream into a sequence of top-level syntax.Node
// forms.
type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token
}

// New returns a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

// ParseProgram reads every top-level form up to EOF.
func (p *Parser) ParseProgram() ([]syntax.Node, error) {
	var forms []syntax.Node
	for p.cur.Type != token.EOF {
		form, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

func (p *Parser) parseExpression() (syntax.Node, error) {
	switch p.cur.Type {
	case token.LPAREN:
		return p.parseList()
	case token.INT:
		return p.parseInteger()
	case token.TRUE:
		p.advance()
		return syntax.Boolean{Value: true}, nil
	case token.FALSE:
		p.advance()
		return syntax.Boolean{Value: false}, nil
	case token.SYMBOL:
		name := p.cur.Literal
		p.advance()
		return syntax.Symbol{Name: name}, nil
	case token.QUOTE:
		return p.parseReaderMacro("quote")
	case token.QUASIQUOTE:
		return p.parseReaderMacro("quasiquote")
	case token.UNQUOTE:
		return p.parseReaderMacro("unquote")
	case token.UNQUOTE_SPLICING:
		return p.parseReaderMacro("unquote-splicing")
	case token.RPAREN:
		return nil, fmt.Errorf("unexpected %q", p.cur.Literal)
	case token.EOF:
		return nil, fmt.Errorf("unexpected end of input")
	default:
		return nil, fmt.Errorf("unexpected token %q", p.cur.Literal)
	}
}

func (p *Parser) parseInteger() (syntax.Node, error) {
	var value int32
	_, err := fmt.Sscanf(p.cur.Literal, "%d", &value)
	if err != nil {
		return nil, fmt.Errorf("malformed integer literal %q", p.cur.Literal)
	}
	p.advance()
	return syntax.Integer{Value: value}, nil
}

// parseReaderMacro handles 'e, `e, ,e and ,@e by rewriting to the
// corresponding two-element list. The core compiler knows only `quote`;
// `quasiquote`/`unquote`/`unquote-splicing` are left for prelude macros to
// interpret.
func (p *Parser) parseReaderMacro(head string) (syntax.Node, error) {
	p.advance()
	inner, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return syntax.NewList([]syntax.Node{syntax.NewSymbol(head), inner}, syntax.Nil{}), nil
}

// parseList parses the body of a `(` … `)` form, including the optional
// `. tail` syntax for improper lists.
func (p *Parser) parseList() (syntax.Node, error) {
	p.advance() // consume '('

	var items []syntax.Node
	for p.cur.Type != token.RPAREN && p.cur.Type != token.DOT {
		if p.cur.Type == token.EOF {
			return nil, fmt.Errorf("unexpected end of input in list")
		}
		item, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	tail := syntax.Node(syntax.Nil{})
	if p.cur.Type == token.DOT {
		p.advance()
		var err error
		tail, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}

	if p.cur.Type != token.RPAREN {
		return nil, fmt.Errorf("expected %q, got %q", ")", p.cur.Literal)
	}
	p.advance()

	return syntax.NewList(items, tail), nil
}
