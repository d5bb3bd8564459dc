// Package interp is the shared driver threading one object.Global through
// repeated compile-then-run cycles: cmd/secd and repl both build an
// Interp, which loads the prelude once and then evaluates whatever
// top-level forms follow, the same two-stage prelude-then-user load order
// the standalone CLI and the REPL both need.
package interp

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/dr8co/secd/compiler"
	"github.com/dr8co/secd/lexer"
	"github.com/dr8co/secd/lib"
	"github.com/dr8co/secd/object"
	"github.com/dr8co/secd/parser"
	"github.com/dr8co/secd/primitives"
	"github.com/dr8co/secd/syntax"
	"github.com/dr8co/secd/vm"
)

// Interp owns one Global table, shared across every form it evaluates.
type Interp struct {
	Global object.Global
}

// New builds an Interp with a fresh primitive table and the standard
// prelude already loaded.
func New() (*Interp, error) {
	in := &Interp{Global: primitives.Global()}
	if _, err := in.Eval(lib.Base); err != nil {
		return nil, fmt.Errorf("loading prelude: %w", err)
	}
	return in, nil
}

// Parse lexes and parses src into a sequence of top-level syntax forms,
// without compiling or running them. Eval uses it for its first step.
func Parse(src string) ([]syntax.Node, error) {
	l := lexer.New(src)
	p := parser.New(l)
	return p.ParseProgram()
}

// Eval parses src into top-level forms and compiles and runs each in
// order against the shared Global, returning the value of the last form
// (or Undefined if src contained none).
func (in *Interp) Eval(src string) (object.Value, error) {
	forms, err := Parse(src)
	if err != nil {
		return nil, err
	}
	var result object.Value = object.Undefined{}
	for _, form := range forms {
		result, err = in.EvalForm(form)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// EvalForm compiles and runs one already-parsed top-level form against
// the shared Global.
func (in *Interp) EvalForm(form syntax.Node) (object.Value, error) {
	c, err := compiler.Compile(form, in.Global)
	if err != nil {
		return nil, err
	}
	log.WithField("instructions", len(c)).Debug("compiled form")
	log.WithField("disassembly", c.String()).Debug("bytecode")
	return vm.Run(nil, c, in.Global)
}

// EvalFile reads path and evaluates its contents as a sequence of
// top-level forms.
func (in *Interp) EvalFile(path string) (object.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return in.Eval(string(data))
}
