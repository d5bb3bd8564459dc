// Package compiler translates syntax.Node trees into SECD code.Code:
// literal loading, global/lexical variable reference,
// quote/define/define-macro/lambda/if/begin, procedure calls, and macro
// expansion.
package compiler

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/dr8co/secd/code"
	"github.com/dr8co/secd/object"
	"github.com/dr8co/secd/syntax"
	"github.com/dr8co/secd/vm"
)

// Compile translates a single top-level form against global. Compiling is
// allowed to mutate global (define-macro expansion runs the VM, which can
// itself Def/Defm), which is why the same Global table must be threaded
// through every form of a program rather than rebuilt per form.
func Compile(node syntax.Node, global object.Global) (code.Code, error) {
	return compileNode(node, nil, global)
}

func compileNode(node syntax.Node, env Env, global object.Global) (code.Code, error) {
	switch n := node.(type) {
	case syntax.Symbol:
		if loc, ok := resolve(n, env); ok {
			return code.Code{{Op: code.Ld, Loc: loc}}, nil
		}
		return code.Code{{Op: code.Ldg, Name: n.Name}}, nil
	case syntax.List:
		return compileList(n, env, global)
	default:
		// Nil, Boolean, Integer, Undefined all self-evaluate.
		return code.Code{{Op: code.Ldc, Lit: node}}, nil
	}
}

func compileList(n syntax.List, env Env, global object.Global) (code.Code, error) {
	if _, proper := n.Tail.(syntax.Nil); !proper {
		return nil, fmt.Errorf("proper list required")
	}

	head, hasHead := syntax.Node(nil), false
	if len(n.Items) > 0 {
		head, hasHead = n.Items[0], true
	}

	if sym, ok := head.(syntax.Symbol); hasHead && ok {
		if m, ok := global.MacroAt(sym.Name); ok {
			return expandMacro(m, n.Items[1:], env, global)
		}
		switch sym.Name {
		case "quote":
			return compileQuote(n.Items)
		case "define":
			return compileDefine(n.Items, env, global)
		case "define-macro":
			return compileDefineMacro(n.Items, env, global)
		case "lambda":
			return compileLambdaForm(n.Items, env, global)
		case "if":
			return compileIf(n.Items, env, global)
		case "begin":
			if len(n.Items) < 2 {
				return code.Code{{Op: code.Ldc, Lit: syntax.Integer{Value: 0}}}, nil
			}
			return compileBegin(n.Items[1:], env, global)
		}
	}

	return compileCall(n.Items, env, global)
}

func compileQuote(items []syntax.Node) (code.Code, error) {
	if len(items) != 2 {
		return nil, fmt.Errorf("malformed quote")
	}
	return code.Code{{Op: code.Ldc, Lit: items[1]}}, nil
}

func compileDefine(items []syntax.Node, env Env, global object.Global) (code.Code, error) {
	valueCode, name, err := compileDefinitionBody(items, env, global, "define")
	if err != nil {
		return nil, err
	}
	return append(valueCode, code.Instr{Op: code.Def, Name: name}), nil
}

func compileDefineMacro(items []syntax.Node, env Env, global object.Global) (code.Code, error) {
	valueCode, name, err := compileDefinitionBody(items, env, global, "define-macro")
	if err != nil {
		return nil, err
	}
	return append(valueCode, code.Instr{Op: code.Defm, Name: name}), nil
}

// compileDefinitionBody implements the shape shared by `define` and
// `define-macro`: either `(keyword name value)` or
// `(keyword (name . params) body...)`, the latter sugar for binding name to
// a lambda.
func compileDefinitionBody(items []syntax.Node, env Env, global object.Global, keyword string) (code.Code, string, error) {
	if len(items) < 3 {
		return nil, "", fmt.Errorf("malformed %s", keyword)
	}
	head := items[1]
	body := items[2:]

	switch h := head.(type) {
	case syntax.Symbol:
		if len(body) != 1 {
			return nil, "", fmt.Errorf("malformed %s", keyword)
		}
		valueCode, err := compileNode(body[0], env, global)
		if err != nil {
			return nil, "", err
		}
		return valueCode, h.Name, nil
	case syntax.List:
		if len(h.Items) == 0 {
			return nil, "", fmt.Errorf("malformed %s", keyword)
		}
		nameSym, ok := h.Items[0].(syntax.Symbol)
		if !ok {
			return nil, "", fmt.Errorf("malformed %s", keyword)
		}
		params := syntax.NewList(h.Items[1:], h.Tail)
		lambdaCode, err := compileLambda(params, body, env, global)
		if err != nil {
			return nil, "", err
		}
		return lambdaCode, nameSym.Name, nil
	default:
		return nil, "", fmt.Errorf("malformed %s", keyword)
	}
}

func compileLambdaForm(items []syntax.Node, env Env, global object.Global) (code.Code, error) {
	if len(items) < 2 {
		return nil, fmt.Errorf("malformed lambda")
	}
	return compileLambda(items[1], items[2:], env, global)
}

// compileLambda compiles a parameter list and body into a single Ldf
// instruction. The body is compiled as an implicit `begin` with Rtn
// appended at the end, so it is the last thing the closure's code executes
// on every call.
func compileLambda(params syntax.Node, body []syntax.Node, env Env, global object.Global) (code.Code, error) {
	bodyCode, err := compileBegin(body, env.extend(params), global)
	if err != nil {
		return nil, err
	}
	full := make(code.Code, 0, len(bodyCode)+1)
	full = append(full, bodyCode...)
	full = append(full, code.Instr{Op: code.Rtn})
	return code.Code{{Op: code.Ldf, Fn: full}}, nil
}

// compileBegin compiles forms in order, discarding every value but the
// last with an interleaved Pop. An empty body evaluates to 0, matching the
// original's placeholder for "no body".
func compileBegin(body []syntax.Node, env Env, global object.Global) (code.Code, error) {
	if len(body) == 0 {
		return code.Code{{Op: code.Ldc, Lit: syntax.Integer{Value: 0}}}, nil
	}
	var out code.Code
	for i, form := range body {
		c, err := compileNode(form, env, global)
		if err != nil {
			return nil, err
		}
		out = append(out, c...)
		if i < len(body)-1 {
			out = append(out, code.Instr{Op: code.Pop})
		}
	}
	return out, nil
}

// compileIf compiles `(if pred conseq)` and `(if pred conseq alt)`; a
// missing alt defaults to Undefined.
func compileIf(items []syntax.Node, env Env, global object.Global) (code.Code, error) {
	if len(items) < 3 || len(items) > 4 {
		return nil, fmt.Errorf("malformed if")
	}
	predCode, err := compileNode(items[1], env, global)
	if err != nil {
		return nil, err
	}
	conseqCode, err := compileBranch(items[2], env, global)
	if err != nil {
		return nil, err
	}
	var altNode syntax.Node = syntax.Undefined{}
	if len(items) == 4 {
		altNode = items[3]
	}
	altCode, err := compileBranch(altNode, env, global)
	if err != nil {
		return nil, err
	}
	out := make(code.Code, 0, len(predCode)+1)
	out = append(out, predCode...)
	out = append(out, code.Instr{Op: code.Sel, Conseq: conseqCode, Alt: altCode})
	return out, nil
}

func compileBranch(node syntax.Node, env Env, global object.Global) (code.Code, error) {
	c, err := compileNode(node, env, global)
	if err != nil {
		return nil, err
	}
	return append(c, code.Instr{Op: code.Join}), nil
}

// compileCall compiles a procedure call `(f a1 … an)`. Arguments are
// compiled left to right, then the operator, then App(n): this means the
// callee expression is evaluated *after* its arguments, since App expects
// the callable on top of the stack with the argument frame already built
// beneath it. Side effects in argument position always happen before any
// side effect in operator position.
func compileCall(items []syntax.Node, env Env, global object.Global) (code.Code, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("empty combination")
	}
	var out code.Code
	for _, arg := range items[1:] {
		c, err := compileNode(arg, env, global)
		if err != nil {
			return nil, err
		}
		out = append(out, c...)
	}
	fnCode, err := compileNode(items[0], env, global)
	if err != nil {
		return nil, err
	}
	out = append(out, fnCode...)
	out = append(out, code.Instr{Op: code.App, N: len(items) - 1})
	return out, nil
}

// expandMacro re-enters the VM on the macro's stored code to produce a
// replacement syntax tree, then compiles that in the macro call's own
// place. Unlike a procedure call, argument forms are passed unevaluated:
// each is converted straight from syntax to a value with object.FromSyntax.
func expandMacro(m *object.Macro, argForms []syntax.Node, env Env, global object.Global) (code.Code, error) {
	args := make(object.Frame, len(argForms))
	for i, f := range argForms {
		args[i] = object.FromSyntax(f)
	}

	if len(m.Fn) == 0 || m.Fn[len(m.Fn)-1].Op != code.Rtn {
		return nil, fmt.Errorf("malformed macro")
	}
	body := m.Fn[:len(m.Fn)-1]

	// The macro runs in a fresh single-frame environment holding only its
	// arguments — its own lexical closure environment is not extended —
	// but shares the same Global table as the surrounding compilation, so
	// a macro expansion that calls `define` is visible to the rest of the
	// program.
	result, err := vm.Run(object.Env{args}, body, global)
	if err != nil {
		return nil, fmt.Errorf("macro expansion: %w", err)
	}

	expanded, err := object.ToSyntax(result)
	if err != nil {
		return nil, fmt.Errorf("macro expansion: %w", err)
	}
	log.WithField("expansion", expanded.String()).Debug("macro expanded")
	return compileNode(expanded, env, global)
}
