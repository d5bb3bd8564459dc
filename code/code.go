// Package code defines the SECD instruction set compiled code is made of.
//
// Unlike a flat, byte-encoded instruction array with patched jump offsets,
// an Instr here is a small struct and a Code is a slice of Instr: `Sel` and
// `Ldf` embed whole nested Code values directly, so the consequent and
// alternative branches of an `if` and a closure's body are each just
// another Code value owned by the instruction that needs them, rather
// than an offset into one shared flat array.
package code

import (
	"fmt"
	"strings"

	"github.com/dr8co/secd/syntax"
)

// Op identifies an instruction's operation.
type Op byte

// The SECD opcode set.
const (
	// Ld pushes env[Location.Frame][Location.Pos]; a Rest position conses
	// up the tail of the frame into a list.
	Ld Op = iota

	// Ldc converts its syntax.Node operand to a runtime value and pushes it.
	Ldc

	// Ldg pushes the global binding named by its operand, or fails if
	// unbound.
	Ldg

	// Ldf pushes a closure over its Code operand, capturing the current
	// environment.
	Ldf

	// App calls the callable most recently pushed with N operands taken
	// from the stack.
	App

	// Rtn returns from the current call through the dump.
	Rtn

	// Sel pops a predicate and installs Conseq or Alt accordingly, pushing
	// a resume point onto the dump.
	Sel

	// Join resumes the code saved by the matching Sel.
	Join

	// Def pops a value and binds it to a global name.
	Def

	// Defm pops a closure, boxes it as a macro, and binds it to a global
	// name.
	Defm

	// Pop discards the top of the operand stack.
	Pop
)

var opNames = map[Op]string{
	Ld: "Ld", Ldc: "Ldc", Ldg: "Ldg", Ldf: "Ldf", App: "App", Rtn: "Rtn",
	Sel: "Sel", Join: "Join", Def: "Def", Defm: "Defm", Pop: "Pop",
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", byte(op))
}

// Position is a slot reference within a single environment frame: either a
// plain index, or "Rest", meaning "cons up everything from here to the end
// of the frame into a list" (used for variadic/rest parameters).
type Position struct {
	Rest  bool
	Index int
}

// Location addresses a variable as (frame depth, position within frame).
// Frame 0 is the outermost frame relative to where the reference occurs;
// see DESIGN.md for how depth numbering and shadowing interact.
type Location struct {
	Frame int
	Pos   Position
}

func (l Location) String() string {
	if l.Pos.Rest {
		return fmt.Sprintf("%d.rest(%d)", l.Frame, l.Pos.Index)
	}
	return fmt.Sprintf("%d.%d", l.Frame, l.Pos.Index)
}

// Instr is one SECD instruction. Only the fields relevant to Op are
// meaningful; which ones those are is documented on the Op constants above.
type Instr struct {
	Op  Op
	Loc Location      // Ld
	Lit syntax.Node    // Ldc
	Name string        // Ldg, Def, Defm
	Fn   Code          // Ldf
	N    int           // App
	Conseq, Alt Code   // Sel
}

// Code is an ordered, immutable-once-built sequence of instructions. A Code
// value may be shared by any number of closures and Sel branches.
type Code []Instr

// String disassembles the sequence for debugging, recursing into nested
// Ldf/Sel bodies with increasing indentation.
func (c Code) String() string {
	var out strings.Builder
	c.write(&out, 0)
	return out.String()
}

func (c Code) write(out *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	for i, ins := range c {
		fmt.Fprintf(out, "%s%04d %s", indent, i, ins.Op)
		switch ins.Op {
		case Ld:
			fmt.Fprintf(out, " %s\n", ins.Loc)
		case Ldc:
			fmt.Fprintf(out, " %s\n", ins.Lit)
		case Ldg, Def, Defm:
			fmt.Fprintf(out, " %s\n", ins.Name)
		case App:
			fmt.Fprintf(out, " %d\n", ins.N)
		case Ldf:
			out.WriteString("\n")
			ins.Fn.write(out, depth+1)
		case Sel:
			out.WriteString(" conseq:\n")
			ins.Conseq.write(out, depth+1)
			fmt.Fprintf(out, "%s     alt:\n", indent)
			ins.Alt.write(out, depth+1)
		default:
			out.WriteString("\n")
		}
	}
}
