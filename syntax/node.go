// Package syntax defines the syntax tree shape the reader must produce and
// the compiler consumes.
//
// A syntax tree has exactly six variants: Nil, Boolean, Integer, Symbol,
// List, and Undefined. A List carries an ordered sequence of child nodes
// plus a distinguished tail node, which encodes improper lists directly:
// (a b . c) is List{Items: [a, b], Tail: c}; (a b c) is
// List{Items: [a, b, c], Tail: Nil{}}.
//
// Nodes are produced by the reader and by macro expansion (by converting a
// runtime value back to a tree), and are consumed only by the compiler.
package syntax

import (
	"strconv"
	"strings"
)

// Node is a syntax tree node. The variant set is closed: Nil, Boolean,
// Integer, Symbol, List, Undefined.
type Node interface {
	// String renders the node in the same printed form object.Value's
	// Inspect gives the value it denotes. (Macro expansion round-trips
	// through Inspect, not through this method.)
	String() string

	node()
}

// Nil is the empty list.
type Nil struct{}

func (Nil) node()          {}
func (Nil) String() string { return "()" }

// Undefined is the unspecified value produced by, e.g., a one-armed `if`
// whose predicate is false.
type Undefined struct{}

func (Undefined) node()          {}
func (Undefined) String() string { return "#<undefined>" }

// Boolean is #t or #f.
type Boolean struct {
	Value bool
}

func (Boolean) node() {}
func (b Boolean) String() string {
	if b.Value {
		return "#t"
	}
	return "#f"
}

// Integer is a signed 32-bit literal.
type Integer struct {
	Value int32
}

func (Integer) node()            {}
func (i Integer) String() string { return strconv.FormatInt(int64(i.Value), 10) }

// Symbol is an identifier, compared by name.
type Symbol struct {
	Name string
}

func (Symbol) node()            {}
func (s Symbol) String() string { return s.Name }

// List is a (possibly improper) list: Items holds the proper prefix and
// Tail holds whatever terminates it — Nil{} for a proper list, any other
// node for an improper one.
type List struct {
	Items []Node
	Tail  Node
}

func (List) node() {}

func (l List) String() string {
	var out strings.Builder
	out.WriteByte('(')
	for i, item := range l.Items {
		if i > 0 {
			out.WriteByte(' ')
		}
		out.WriteString(item.String())
	}
	switch tail := l.Tail.(type) {
	case Nil:
		// proper list, nothing to append
	default:
		if len(l.Items) > 0 {
			out.WriteByte(' ')
		}
		out.WriteString(". ")
		out.WriteString(tail.String())
	}
	out.WriteByte(')')
	return out.String()
}

// NewList builds a List from a slice of children and a tail, copying the
// slice so later mutation of the caller's backing array cannot alias it.
func NewList(items []Node, tail Node) List {
	cp := make([]Node, len(items))
	copy(cp, items)
	if tail == nil {
		tail = Nil{}
	}
	return List{Items: cp, Tail: tail}
}

// NewSymbol is a convenience constructor, used by the parser when
// synthesizing the reader-macro forms (e.g. `'x` as `(quote x)`).
func NewSymbol(name string) Symbol { return Symbol{Name: name} }

// Equal reports whether two nodes denote the same syntax tree. Symbols
// compare by name; lists compare element-wise including the tail.
func Equal(a, b Node) bool {
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
	case List:
		bl, ok := b.(List)
		if !ok || len(a.Items) != len(bl.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], bl.Items[i]) {
				return false
			}
		}
		return Equal(a.Tail, bl.Tail)
	default:
		return false
	}
}
