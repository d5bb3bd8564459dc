package compiler

import (
	"testing"

	"github.com/dr8co/secd/lexer"
	"github.com/dr8co/secd/object"
	"github.com/dr8co/secd/parser"
	"github.com/dr8co/secd/primitives"
	"github.com/dr8co/secd/syntax"
	"github.com/dr8co/secd/vm"
)

func mustParseOne(t *testing.T, src string) syntax.Node {
	t.Helper()
	p := parser.New(lexer.New(src))
	forms, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	if len(forms) != 1 {
		t.Fatalf("parse %q: got %d forms, want 1", src, len(forms))
	}
	return forms[0]
}

// run compiles and executes src against a fresh primitive global, returning
// the final value, exercising compiler and vm together exactly as interp
// does.
func run(t *testing.T, src string) object.Value {
	t.Helper()
	g := primitives.Global()
	forms, err := parser.New(lexer.New(src)).ParseProgram()
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	var result object.Value = object.Undefined{}
	for _, form := range forms {
		c, err := Compile(form, g)
		if err != nil {
			t.Fatalf("compile %q: %v", src, err)
		}
		result, err = vm.Run(nil, c, g)
		if err != nil {
			t.Fatalf("run %q: %v", src, err)
		}
	}
	return result
}

func TestResolvePrefersInnermostFrame(t *testing.T) {
	outer := syntax.NewList([]syntax.Node{syntax.NewSymbol("x")}, syntax.Nil{})
	inner := syntax.NewList([]syntax.Node{syntax.NewSymbol("x")}, syntax.Nil{})
	env := Env{outer, inner}

	loc, ok := resolve(syntax.NewSymbol("x"), env)
	if !ok {
		t.Fatalf("expected to resolve x")
	}
	if loc.Frame != 1 {
		t.Errorf("expected the innermost (index 1) frame to win, got frame %d", loc.Frame)
	}
}

func TestPositionRest(t *testing.T) {
	frame := syntax.NewList([]syntax.Node{syntax.NewSymbol("a")}, syntax.NewSymbol("rest"))
	pos, ok := position(syntax.NewSymbol("rest"), frame)
	if !ok || !pos.Rest || pos.Index != 1 {
		t.Fatalf("got %+v, %v", pos, ok)
	}
	allRest := syntax.NewSymbol("args")
	pos, ok = position(syntax.NewSymbol("args"), allRest)
	if !ok || !pos.Rest || pos.Index != 0 {
		t.Fatalf("got %+v, %v", pos, ok)
	}
}

func TestLiteralsAndArithmetic(t *testing.T) {
	if v := run(t, "(+ 1 2 3)"); v.(object.Integer).Value != 6 {
		t.Errorf("got %v", v.Inspect())
	}
	if v := run(t, "(* 2 3 4)"); v.(object.Integer).Value != 24 {
		t.Errorf("(*) result = %v, want 24", v.Inspect())
	}
	if v := run(t, "(- 10 3 2)"); v.(object.Integer).Value != 5 {
		t.Errorf("got %v", v.Inspect())
	}
}

func TestQuoteMalformed(t *testing.T) {
	g := primitives.Global()
	_, err := Compile(mustParseOne(t, "(quote a b)"), g)
	if err == nil {
		t.Fatalf("expected malformed quote error")
	}
}

func TestIfTruthyAndFalsy(t *testing.T) {
	if v := run(t, "(if #t 1 2)"); v.(object.Integer).Value != 1 {
		t.Errorf("got %v", v.Inspect())
	}
	if v := run(t, "(if #f 1 2)"); v.(object.Integer).Value != 2 {
		t.Errorf("got %v", v.Inspect())
	}
	if _, ok := run(t, "(if #f 1)").(object.Undefined); !ok {
		t.Errorf("expected a missing alt to evaluate to Undefined")
	}
}

func TestBeginDiscardsAllButLast(t *testing.T) {
	if v := run(t, "(begin 1 2 3)"); v.(object.Integer).Value != 3 {
		t.Errorf("got %v", v.Inspect())
	}
	if _, ok := run(t, "(begin)").(object.Integer); !ok {
		t.Errorf("expected empty begin to evaluate to an Integer placeholder")
	}
}

func TestLambdaAndCallWithRestParam(t *testing.T) {
	v := run(t, "(begin (define f (lambda (a . rest) rest)) (f 1 2 3))")
	lst, err := object.ToSlice(v)
	if err != nil {
		t.Fatalf("expected a proper list, got %v: %v", v.Inspect(), err)
	}
	if len(lst) != 2 || lst[0].(object.Integer).Value != 2 || lst[1].(object.Integer).Value != 3 {
		t.Errorf("got %v", v.Inspect())
	}
}

func TestRecursiveDefine(t *testing.T) {
	v := run(t, `(begin
		(define (fact n) (if (= n 0) 1 (* n (fact (- n 1)))))
		(fact 5))`)
	if v.(object.Integer).Value != 120 {
		t.Errorf("fact(5) = %v, want 120", v.Inspect())
	}
}

func TestGlobalReferenceResolvedAtCallTimeNotCompileTime(t *testing.T) {
	// use-g compiles a reference to g before g has been defined; Ldg only
	// fails if the name is still unbound when the call actually executes.
	v := run(t, `(begin
		(define (use-g) (g))
		(define g (lambda () 42))
		(use-g))`)
	if v.(object.Integer).Value != 42 {
		t.Errorf("got %v", v.Inspect())
	}
}

func TestDefineMacroAndExpansion(t *testing.T) {
	// Two top-level forms: a macro is looked up when a form is compiled, so
	// it is only usable by forms compiled after its define-macro has run.
	v := run(t, `
		(define-macro (my-if c t e) (list 'if c t e))
		(my-if #t 1 2)`)
	if v.(object.Integer).Value != 1 {
		t.Errorf("got %v", v.Inspect())
	}
}

func TestProperListRequiredForCombination(t *testing.T) {
	g := primitives.Global()
	bad := syntax.NewList([]syntax.Node{syntax.NewSymbol("f")}, syntax.NewSymbol("tail"))
	if _, err := Compile(bad, g); err == nil {
		t.Fatalf("expected a proper-list-required error")
	}
}
