// Package vm implements the SECD machine: a stack, an environment, a code
// register with a program counter, and a dump recording how to resume an
// enclosing computation after a call (App/Rtn) or a branch (Sel/Join).
//
// The dump is backed by github.com/emirpasic/gods/stacks/arraystack — the
// natural fit for the strict push-once/pop-once discipline App/Rtn and
// Sel/Join observe, and the same container family the rest of the example
// corpus reaches for when it needs an explicit stack rather than a slice.
package vm

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/dr8co/secd/code"
	"github.com/dr8co/secd/object"
)

// Machine is one SECD run. Its code register advances forward (Code[PC] is
// the next instruction); Sel/Join and App/Rtn swap Code and PC out
// wholesale rather than offsetting into a single flat array, since each
// branch or closure body is its own code.Code value.
type Machine struct {
	Stack  []object.Value
	Env    object.Env
	Code   code.Code
	PC     int
	Dump   *arraystack.Stack
	Global object.Global
}

// dumpApp is pushed by App and popped by Rtn: everything needed to resume
// the caller once the call returns.
type dumpApp struct {
	stack []object.Value
	env   object.Env
	code  code.Code
	pc    int
}

// dumpSel is pushed by Sel and popped by Join: where to resume once the
// chosen branch finishes.
type dumpSel struct {
	code code.Code
	pc   int
}

// Run executes c against env and global from scratch, returning the value
// left on top of the stack when the code register is exhausted with
// nothing left to resume, or Undefined if the stack is empty at that
// point. Global is shared, not copied: a Def/Defm executed during this run
// (for instance while expanding a macro) is visible to the caller.
func Run(env object.Env, c code.Code, global object.Global) (object.Value, error) {
	m := &Machine{
		Env:    env,
		Code:   c,
		Global: global,
		Dump:   arraystack.New(),
	}
	for m.PC < len(m.Code) {
		instr := m.Code[m.PC]
		m.PC++
		if err := m.exec(instr); err != nil {
			return nil, err
		}
	}
	if len(m.Stack) == 0 {
		return object.Undefined{}, nil
	}
	return m.Stack[len(m.Stack)-1], nil
}

func (m *Machine) push(v object.Value) { m.Stack = append(m.Stack, v) }

func (m *Machine) pop() (object.Value, bool) {
	if len(m.Stack) == 0 {
		return nil, false
	}
	v := m.Stack[len(m.Stack)-1]
	m.Stack = m.Stack[:len(m.Stack)-1]
	return v, true
}

func (m *Machine) exec(instr code.Instr) error {
	switch instr.Op {
	case code.Ld:
		v, err := m.load(instr.Loc)
		if err != nil {
			return err
		}
		m.push(v)

	case code.Ldc:
		m.push(object.FromSyntax(instr.Lit))

	case code.Ldg:
		v, ok := m.Global.Lookup(instr.Name)
		if !ok {
			return fmt.Errorf("unbound variable: %s", instr.Name)
		}
		m.push(v)

	case code.Ldf:
		m.push(&object.Closure{Fn: instr.Fn, Env: m.Env})

	case code.App:
		return m.execApp(instr)

	case code.Rtn:
		return m.execRtn()

	case code.Sel:
		pred, ok := m.pop()
		if !ok {
			return fmt.Errorf("Runtime error: Sel")
		}
		m.Dump.Push(dumpSel{code: m.Code, pc: m.PC})
		if isTruthy(pred) {
			m.Code = instr.Conseq
		} else {
			m.Code = instr.Alt
		}
		m.PC = 0

	case code.Join:
		d, ok := m.Dump.Pop()
		if !ok {
			return fmt.Errorf("Runtime error: Join")
		}
		ds, ok := d.(dumpSel)
		if !ok {
			return fmt.Errorf("Runtime error: Join")
		}
		m.Code = ds.code
		m.PC = ds.pc

	case code.Def:
		v, ok := m.pop()
		if !ok {
			return fmt.Errorf("Runtime error: Def")
		}
		m.Global[instr.Name] = v
		m.push(object.Symbol{Name: instr.Name})

	case code.Defm:
		v, ok := m.pop()
		if !ok {
			return fmt.Errorf("Runtime error: Defm")
		}
		cl, ok := v.(*object.Closure)
		if !ok {
			return fmt.Errorf("Runtime error: Defm")
		}
		m.Global[instr.Name] = &object.Macro{Fn: cl.Fn, Env: cl.Env}
		m.push(object.Symbol{Name: instr.Name})

	case code.Pop:
		if _, ok := m.pop(); !ok {
			return fmt.Errorf("Runtime error: Pop")
		}

	default:
		return fmt.Errorf("Runtime error: unknown opcode %s", instr.Op)
	}
	return nil
}

func (m *Machine) execApp(instr code.Instr) error {
	fn, ok := m.pop()
	if !ok || len(m.Stack) < instr.N {
		return fmt.Errorf("Runtime error: App")
	}
	frame := make(object.Frame, instr.N)
	for i := instr.N - 1; i >= 0; i-- {
		frame[i], _ = m.pop()
	}

	switch callable := fn.(type) {
	case *object.Closure:
		m.Dump.Push(dumpApp{stack: m.Stack, env: m.Env, code: m.Code, pc: m.PC})
		newEnv := make(object.Env, len(callable.Env)+1)
		copy(newEnv, callable.Env)
		newEnv[len(callable.Env)] = frame
		m.Stack = nil
		m.Env = newEnv
		m.Code = callable.Fn
		m.PC = 0
	case *object.Primitive:
		result, err := callable.Fn(frame)
		if err != nil {
			return err
		}
		m.push(result)
	default:
		return fmt.Errorf("Runtime error: App")
	}
	return nil
}

func (m *Machine) execRtn() error {
	retVal, ok := m.pop()
	if !ok {
		return fmt.Errorf("Runtime error: Rtn")
	}
	d, ok := m.Dump.Pop()
	if !ok {
		return fmt.Errorf("Runtime error: Rtn")
	}
	da, ok := d.(dumpApp)
	if !ok {
		return fmt.Errorf("Runtime error: Rtn")
	}
	m.Stack = append(da.stack, retVal)
	m.Env = da.env
	m.Code = da.code
	m.PC = da.pc
	return nil
}

func (m *Machine) load(loc code.Location) (object.Value, error) {
	if loc.Frame < 0 || loc.Frame >= len(m.Env) {
		return nil, fmt.Errorf("Runtime error: Ld")
	}
	frame := m.Env[loc.Frame]
	if loc.Pos.Rest {
		if loc.Pos.Index < 0 || loc.Pos.Index > len(frame) {
			return nil, fmt.Errorf("Runtime error: Ld")
		}
		return object.FromSlice(frame[loc.Pos.Index:]), nil
	}
	if loc.Pos.Index < 0 || loc.Pos.Index >= len(frame) {
		return nil, fmt.Errorf("Runtime error: Ld")
	}
	return frame[loc.Pos.Index], nil
}

// isTruthy applies the language's one boolean-coercion rule: every value
// is truthy except the literal #f. In particular Nil (the empty list) and
// Integer{0} are truthy, matching Scheme and diverging from C-family
// languages.
func isTruthy(v object.Value) bool {
	b, ok := v.(object.Boolean)
	return !ok || b.Value
}
