package object

import (
	"testing"

	"github.com/dr8co/secd/syntax"
)

func TestInspectProperAndImproperLists(t *testing.T) {
	proper := Cons(Integer{Value: 1}, Cons(Integer{Value: 2}, Nil{}))
	if got, want := proper.Inspect(), "(1 2)"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
	improper := Cons(Integer{Value: 1}, Symbol{Name: "rest"})
	if got, want := improper.Inspect(), "(1 . rest)"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestFromSyntaxBuildsRightNestedCells(t *testing.T) {
	n := syntax.NewList([]syntax.Node{syntax.Integer{Value: 1}, syntax.Integer{Value: 2}}, syntax.Nil{})
	v := FromSyntax(n)
	cell, ok := v.(*Cell)
	if !ok {
		t.Fatalf("expected *Cell, got %T", v)
	}
	if cell.Car.(Integer).Value != 1 {
		t.Errorf("car = %v, want 1", cell.Car)
	}
	rest, ok := cell.Cdr.(*Cell)
	if !ok {
		t.Fatalf("expected cdr to be *Cell, got %T", cell.Cdr)
	}
	if rest.Car.(Integer).Value != 2 {
		t.Errorf("cadr = %v, want 2", rest.Car)
	}
	if _, ok := rest.Cdr.(Nil); !ok {
		t.Errorf("expected proper-list tail of Nil, got %T", rest.Cdr)
	}
}

func TestEqual(t *testing.T) {
	a := Cons(Integer{Value: 1}, Nil{})
	b := Cons(Integer{Value: 1}, Nil{})
	if !Equal(a, b) {
		t.Errorf("expected structurally equal cells to be Equal")
	}
	if Equal(a, Cons(Integer{Value: 2}, Nil{})) {
		t.Errorf("expected different cells to differ")
	}
	if !Equal(Symbol{Name: "x"}, Symbol{Name: "x"}) {
		t.Errorf("expected symbols to compare by name")
	}
	if Equal(Integer{Value: 1}, Boolean{Value: true}) {
		t.Errorf("expected values of different variants to differ")
	}
}

func TestGlobalLookupAndMacroAt(t *testing.T) {
	g := Global{"x": Integer{Value: 1}, "m": &Macro{}}
	if v, ok := g.Lookup("x"); !ok || v.(Integer).Value != 1 {
		t.Errorf("Lookup(x) = %v, %v", v, ok)
	}
	if _, ok := g.Lookup("nope"); ok {
		t.Errorf("expected Lookup(nope) to fail")
	}
	if _, ok := g.MacroAt("x"); ok {
		t.Errorf("expected MacroAt(x) to fail, x is not a macro")
	}
	if m, ok := g.MacroAt("m"); !ok || m == nil {
		t.Errorf("expected MacroAt(m) to succeed")
	}
}
