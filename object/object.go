// Package object defines the runtime value domain values flow through
// during compilation (as macro output) and execution.
//
// A Value is one of nine variants: Nil, Boolean, Integer, Symbol, Cell (a
// shared, immutable pair), Primitive, Closure, Macro, Undefined. Cells are
// ordinary Go pointers — shared by reference, with lifetime managed by the
// Go runtime's garbage collector rather than by hand-maintained reference
// counts; see DESIGN.md for why that substitution is faithful rather than
// a deviation.
package object

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dr8co/secd/code"
	"github.com/dr8co/secd/syntax"
)

// Type names the runtime type of a Value, used only for diagnostics.
type Type string

//nolint:revive
const (
	NilType       Type = "NIL"
	BooleanType   Type = "BOOLEAN"
	IntegerType   Type = "INTEGER"
	SymbolType    Type = "SYMBOL"
	CellType      Type = "CELL"
	PrimitiveType Type = "PRIMITIVE"
	ClosureType   Type = "CLOSURE"
	MacroType     Type = "MACRO"
	UndefinedType Type = "UNDEFINED"
)

// Value is a runtime value of the language.
type Value interface {
	// Type reports the value's runtime type.
	Type() Type

	// Inspect renders the value in its canonical printed form. print and
	// the macro-expansion round trip both go through this.
	Inspect() string

	value()
}

// Nil is the empty list.
type Nil struct{}

func (Nil) value()          {}
func (Nil) Type() Type      { return NilType }
func (Nil) Inspect() string { return "()" }

// Undefined is the unspecified value.
type Undefined struct{}

func (Undefined) value()          {}
func (Undefined) Type() Type      { return UndefinedType }
func (Undefined) Inspect() string { return "#<undefined>" }

// Boolean is #t or #f.
type Boolean struct {
	Value bool
}

func (Boolean) value()     {}
func (Boolean) Type() Type { return BooleanType }
func (b Boolean) Inspect() string {
	if b.Value {
		return "#t"
	}
	return "#f"
}

// Integer is a signed 32-bit number — the language has no floats.
type Integer struct {
	Value int32
}

func (Integer) value()            {}
func (Integer) Type() Type        { return IntegerType }
func (i Integer) Inspect() string { return strconv.FormatInt(int64(i.Value), 10) }

// Symbol compares equal to another Symbol only by name.
type Symbol struct {
	Name string
}

func (Symbol) value()            {}
func (Symbol) Type() Type        { return SymbolType }
func (s Symbol) Inspect() string { return s.Name }

// Cell is a shared, immutable cons pair. Lists are right-nested chains of
// Cells terminated by Nil (proper) or any other value (improper).
type Cell struct {
	Car Value
	Cdr Value
}

func (*Cell) value()     {}
func (*Cell) Type() Type { return CellType }

func (c *Cell) Inspect() string {
	var out strings.Builder
	out.WriteByte('(')
	inspectCellBody(&out, c)
	out.WriteByte(')')
	return out.String()
}

func inspectCellBody(out *strings.Builder, c *Cell) {
	out.WriteString(c.Car.Inspect())
	switch cdr := c.Cdr.(type) {
	case Nil:
	case *Cell:
		out.WriteByte(' ')
		inspectCellBody(out, cdr)
	default:
		out.WriteString(" . ")
		out.WriteString(cdr.Inspect())
	}
}

// Cons builds a new Cell.
func Cons(car, cdr Value) *Cell { return &Cell{Car: car, Cdr: cdr} }

// PrimitiveFunc is the calling convention required of every entry in the
// primitive table: it receives its arguments as an already-evaluated
// sequence and returns either a result value or a descriptive error.
type PrimitiveFunc func(args []Value) (Value, error)

// Primitive wraps a built-in procedure.
type Primitive struct {
	Name string
	Fn   PrimitiveFunc
}

func (*Primitive) value()            {}
func (*Primitive) Type() Type        { return PrimitiveType }
func (*Primitive) Inspect() string   { return "#<subr>" }

// Frame is one environment slot group, produced by each call.
type Frame []Value

// Env is an ordered sequence of frames; index 0 is the outermost frame
// relative to wherever the environment was captured.
type Env []Frame

// Closure pairs compiled code with the environment captured at the point
// `Ldf` executed.
type Closure struct {
	Fn  code.Code
	Env Env
}

func (*Closure) value()          {}
func (*Closure) Type() Type      { return ClosureType }
func (*Closure) Inspect() string { return "#<closure>" }

// Macro is a closure boxed by `Defm`: the compiler re-enters the VM on its
// code and environment instead of ever pushing it as a callable.
type Macro struct {
	Fn  code.Code
	Env Env
}

func (*Macro) value()          {}
func (*Macro) Type() Type      { return MacroType }
func (*Macro) Inspect() string { return "#<macro>" }

// Global is the process-wide name -> value table, mutated by Def/Defm and
// read by Ldg and by macro lookup.
type Global map[string]Value

// Lookup returns the binding for name, if any.
func (g Global) Lookup(name string) (Value, bool) {
	v, ok := g[name]
	return v, ok
}

// MacroAt returns the Macro bound to name, if name is currently bound to
// one.
func (g Global) MacroAt(name string) (*Macro, bool) {
	v, ok := g[name]
	if !ok {
		return nil, false
	}
	m, ok := v.(*Macro)
	return m, ok
}

// Equal is structural equality: Symbol by name, Cell element-wise,
// Closure/Macro by code sequence and captured environment, everything else
// by variant and payload.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Undefined:
		_, ok := b.(Undefined)
		return ok
	case Boolean:
		bb, ok := b.(Boolean)
		return ok && a.Value == bb.Value
	case Integer:
		bi, ok := b.(Integer)
		return ok && a.Value == bi.Value
	case Symbol:
		bs, ok := b.(Symbol)
		return ok && a.Name == bs.Name
	case *Cell:
		bc, ok := b.(*Cell)
		return ok && Equal(a.Car, bc.Car) && Equal(a.Cdr, bc.Cdr)
	case *Primitive:
		bp, ok := b.(*Primitive)
		return ok && a == bp
	case *Closure:
		bc, ok := b.(*Closure)
		return ok && codeEqual(a.Fn, bc.Fn) && envEqual(a.Env, bc.Env)
	case *Macro:
		bm, ok := b.(*Macro)
		return ok && codeEqual(a.Fn, bm.Fn) && envEqual(a.Env, bm.Env)
	default:
		return false
	}
}

func envEqual(a, b Env) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if !Equal(a[i][j], b[i][j]) {
				return false
			}
		}
	}
	return true
}

func codeEqual(a, b code.Code) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !instrEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func instrEqual(a, b code.Instr) bool {
	if a.Op != b.Op {
		return false
	}
	switch a.Op {
	case code.Ld:
		return a.Loc == b.Loc
	case code.Ldc:
		return syntax.Equal(a.Lit, b.Lit)
	case code.Ldg, code.Def, code.Defm:
		return a.Name == b.Name
	case code.Ldf:
		return codeEqual(a.Fn, b.Fn)
	case code.App:
		return a.N == b.N
	case code.Sel:
		return codeEqual(a.Conseq, b.Conseq) && codeEqual(a.Alt, b.Alt)
	default:
		return true
	}
}

// FromSyntax converts a syntax tree to the runtime value it denotes:
// List(items, tail) becomes a right-nested Cell chain ending at the
// converted tail.
func FromSyntax(n syntax.Node) Value {
	switch n := n.(type) {
	case syntax.Nil:
		return Nil{}
	case syntax.Undefined:
		return Undefined{}
	case syntax.Boolean:
		return Boolean{Value: n.Value}
	case syntax.Integer:
		return Integer{Value: n.Value}
	case syntax.Symbol:
		return Symbol{Name: n.Name}
	case syntax.List:
		tail := FromSyntax(n.Tail)
		for i := len(n.Items) - 1; i >= 0; i-- {
			tail = Cons(FromSyntax(n.Items[i]), tail)
		}
		return tail
	default:
		panic(fmt.Sprintf("object: unhandled syntax node %T", n))
	}
}
