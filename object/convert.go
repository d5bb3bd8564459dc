package object

import (
	"fmt"

	"github.com/dr8co/secd/lexer"
	"github.com/dr8co/secd/parser"
	"github.com/dr8co/secd/syntax"
)

// ToSyntax converts a runtime value back to a syntax tree by formatting it
// to text and re-parsing — the text-mediated boundary macro expansion goes
// through. Because it round-trips through Inspect, it can only represent
// values Inspect can print faithfully: a Primitive, Closure, Macro or
// Undefined prints as `#<subr>`/`#<closure>`/`#<macro>`/`#<undefined>`,
// which the reader rejects, so ToSyntax returns an error for such a value
// or for any list containing one. Macros therefore cannot produce
// non-printable values (procedures, closures, cells captured by identity).
func ToSyntax(v Value) (syntax.Node, error) {
	text := v.Inspect()
	l := lexer.New(text)
	p := parser.New(l)
	forms, err := p.ParseProgram()
	if err != nil {
		return nil, fmt.Errorf("object: round-trip of %q failed: %w", text, err)
	}
	if len(forms) != 1 {
		return nil, fmt.Errorf("object: round-trip of %q produced %d forms, want 1", text, len(forms))
	}
	return forms[0], nil
}

// ToSlice walks a proper list value into a Go slice, for primitives and
// compiler code that need to iterate list elements. It returns an error if
// v is not a proper list.
func ToSlice(v Value) ([]Value, error) {
	var out []Value
	for {
		switch cur := v.(type) {
		case Nil:
			return out, nil
		case *Cell:
			out = append(out, cur.Car)
			v = cur.Cdr
		default:
			return nil, fmt.Errorf("proper list required")
		}
	}
}

// FromSlice builds a proper list value from a Go slice.
func FromSlice(items []Value) Value {
	var tail Value = Nil{}
	for i := len(items) - 1; i >= 0; i-- {
		tail = Cons(items[i], tail)
	}
	return tail
}
