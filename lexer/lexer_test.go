package lexer

import (
	"testing"

	"github.com/dr8co/secd/token"
)

func TestNextToken(t *testing.T) {
	input := "(define (add a . b) (+ a b)) ; comment\n" +
		"'(1 -2 #t #f) ,x ,@y `z"

	tests := []struct {
		wantType    token.Type
		wantLiteral string
	}{
		{token.LPAREN, "("},
		{token.SYMBOL, "define"},
		{token.LPAREN, "("},
		{token.SYMBOL, "add"},
		{token.SYMBOL, "a"},
		{token.DOT, "."},
		{token.SYMBOL, "b"},
		{token.RPAREN, ")"},
		{token.LPAREN, "("},
		{token.SYMBOL, "+"},
		{token.SYMBOL, "a"},
		{token.SYMBOL, "b"},
		{token.RPAREN, ")"},
		{token.RPAREN, ")"},
		{token.QUOTE, "'"},
		{token.LPAREN, "("},
		{token.INT, "1"},
		{token.INT, "-2"},
		{token.TRUE, "#t"},
		{token.FALSE, "#f"},
		{token.RPAREN, ")"},
		{token.UNQUOTE, ","},
		{token.SYMBOL, "x"},
		{token.UNQUOTE_SPLICING, ",@"},
		{token.SYMBOL, "y"},
		{token.QUASIQUOTE, "`"},
		{token.SYMBOL, "z"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.wantType {
			t.Fatalf("token %d: type = %s, want %s (literal %q)", i, tok.Type, tt.wantType, tok.Literal)
		}
		if tok.Literal != tt.wantLiteral {
			t.Fatalf("token %d: literal = %q, want %q", i, tok.Literal, tt.wantLiteral)
		}
	}
}

func TestBareMinusIsASymbol(t *testing.T) {
	l := New("(- 1 2)")
	l.NextToken() // (
	tok := l.NextToken()
	if tok.Type != token.SYMBOL || tok.Literal != "-" {
		t.Fatalf("got %+v, want bare SYMBOL -", tok)
	}
}

func TestUnsupportedHashIsIllegal(t *testing.T) {
	l := New("#x")
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("got %+v, want ILLEGAL", tok)
	}
}

func TestDotIsAValidSymbolSubsequentChar(t *testing.T) {
	l := New("foo.bar")
	tok := l.NextToken()
	if tok.Type != token.SYMBOL || tok.Literal != "foo.bar" {
		t.Fatalf("got %+v, want SYMBOL foo.bar", tok)
	}
}

func TestLoneDotIsADotToken(t *testing.T) {
	l := New("(a . b)")
	for range 3 {
		l.NextToken() // ( a .
	}
	// re-scan to check the dot directly
	l2 := New(". ")
	tok := l2.NextToken()
	if tok.Type != token.DOT {
		t.Fatalf("got %+v, want DOT", tok)
	}
}
