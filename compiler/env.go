package compiler

import (
	"github.com/dr8co/secd/code"
	"github.com/dr8co/secd/syntax"
)

// Env is the compiler's lexical environment: an ordered sequence of frames,
// each frame itself a syntax-tree node standing for a parameter list (a
// List for a fixed/variadic parameter list, or a bare Symbol for an
// all-rest lambda like `(lambda x x)`). Frame 0 is the outermost frame
// relative to wherever this Env is consulted; it mirrors exactly how the
// runtime object.Env is built, one frame per nested lambda call (see
// vm.Machine's App handling), so a Location resolved at compile time
// addresses the matching runtime frame.
type Env []syntax.Node

// extend returns a new Env with params pushed as the innermost frame. It
// always copies rather than mutating env in place, so compiling two
// sibling lambdas (e.g. the two branches of an `if`) never lets one leak
// its parameter frame into the other.
func (e Env) extend(params syntax.Node) Env {
	next := make(Env, len(e), len(e)+1)
	copy(next, e)
	return append(next, params)
}

// resolve finds the lexical address of sym, searching from the innermost
// frame outward and returning the first match, so that a nearer binding
// always shadows a farther one. See DESIGN.md for why this departs from a
// literal "search outermost frame first" reading.
func resolve(sym syntax.Symbol, env Env) (code.Location, bool) {
	for i := len(env) - 1; i >= 0; i-- {
		if pos, ok := position(sym, env[i]); ok {
			return code.Location{Frame: i, Pos: pos}, true
		}
	}
	return code.Location{}, false
}

// position locates sym within a single frame: a plain index within a
// proper-list frame, Rest(k) when sym names the improper tail of a List
// frame or the frame is itself a bare Symbol (an all-rest parameter list).
func position(sym syntax.Symbol, frame syntax.Node) (code.Position, bool) {
	switch f := frame.(type) {
	case syntax.List:
		for j, item := range f.Items {
			if s, ok := item.(syntax.Symbol); ok && s.Name == sym.Name {
				return code.Position{Index: j}, true
			}
		}
		if tail, ok := f.Tail.(syntax.Symbol); ok && tail.Name == sym.Name {
			return code.Position{Rest: true, Index: len(f.Items)}, true
		}
		return code.Position{}, false
	case syntax.Symbol:
		if f.Name == sym.Name {
			return code.Position{Rest: true, Index: 0}, true
		}
		return code.Position{}, false
	default:
		return code.Position{}, false
	}
}
