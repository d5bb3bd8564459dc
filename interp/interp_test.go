package interp

import (
	"testing"

	"github.com/dr8co/secd/object"
)

func mustEval(t *testing.T, in *Interp, src string) object.Value {
	t.Helper()
	v, err := in.Eval(src)
	if err != nil {
		t.Fatalf("Eval(%q): %v", src, err)
	}
	return v
}

func TestPreludeLoadsCleanly(t *testing.T) {
	if _, err := New(); err != nil {
		t.Fatalf("New(): %v", err)
	}
}

func TestArithmeticAndRecursion(t *testing.T) {
	in, err := New()
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	v := mustEval(t, in, `
		(define (fact n)
		  (if (= n 0) 1 (* n (fact (- n 1)))))
		(fact 6)`)
	if v.(object.Integer).Value != 720 {
		t.Errorf("fact(6) = %v, want 720", v.Inspect())
	}
}

func TestLetDesugarsToAnImmediatelyAppliedLambda(t *testing.T) {
	in, err := New()
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	v := mustEval(t, in, `(let ((a 1) (b 2)) (+ a b))`)
	if v.(object.Integer).Value != 3 {
		t.Errorf("got %v", v.Inspect())
	}
}

func TestCondFallsThroughToElse(t *testing.T) {
	in, err := New()
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	v := mustEval(t, in, `
		(cond ((= 1 2) 'nope)
		      ((= 1 3) 'nope)
		      (else 'yep))`)
	if s, ok := v.(object.Symbol); !ok || s.Name != "yep" {
		t.Errorf("got %v", v.Inspect())
	}
}

func TestQuasiquoteUnquoteAndSplicing(t *testing.T) {
	in, err := New()
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	v := mustEval(t, in, "(define x 5) `(a ,x c)")
	if got, want := v.Inspect(), "(a 5 c)"; got != want {
		t.Errorf("got %q want %q", got, want)
	}

	v = mustEval(t, in, "(define xs (list 1 2 3)) `(a ,@xs b)")
	if got, want := v.Inspect(), "(a 1 2 3 b)"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestUserDefinedMacro(t *testing.T) {
	in, err := New()
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	v := mustEval(t, in, `
		(define-macro (my-or a b) (list 'if a a b))
		(my-or #f 42)`)
	if v.(object.Integer).Value != 42 {
		t.Errorf("got %v", v.Inspect())
	}
}

func TestClosureCapturesItsDefiningEnvironment(t *testing.T) {
	in, err := New()
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	v := mustEval(t, in, `
		(define (make-adder n) (lambda (x) (+ x n)))
		(define add5 (make-adder 5))
		(add5 10)`)
	if v.(object.Integer).Value != 15 {
		t.Errorf("got %v", v.Inspect())
	}
}

func TestRestParameters(t *testing.T) {
	in, err := New()
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	v := mustEval(t, in, `
		(define (my-list . args) args)
		(my-list 1 2 3)`)
	lst, err := object.ToSlice(v)
	if err != nil {
		t.Fatalf("expected a proper list: %v", err)
	}
	if len(lst) != 3 {
		t.Errorf("got %v", v.Inspect())
	}
}

func TestUnboundVariableIsAnError(t *testing.T) {
	in, err := New()
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	if _, err := in.Eval("no-such-name"); err == nil {
		t.Fatalf("expected an unbound-variable error")
	}
}

func TestShadowingNearestBindingWins(t *testing.T) {
	in, err := New()
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	v := mustEval(t, in, `
		(define x 1)
		((lambda (x) ((lambda (x) x) 3)) 2)`)
	if v.(object.Integer).Value != 3 {
		t.Errorf("got %v, want the innermost x", v.Inspect())
	}
}
