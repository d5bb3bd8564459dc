// Package primitives builds the built-in procedure table: pair operations,
// predicates, arithmetic, and ordered comparison. Every entry follows
// object.PrimitiveFunc's calling convention — an already-evaluated argument
// slice in, a value or error out.
package primitives

import (
	"fmt"

	"github.com/dr8co/secd/object"
)

// entry pairs a name with the function Global wraps in an
// object.Primitive under that name.
type entry struct {
	Name string
	Fn   object.PrimitiveFunc
}

// table lists every primitive this package provides.
var table = []entry{
	{"print", primPrint},
	{"undefined", primUndefined},
	{"cons", primCons},
	{"car", primCar},
	{"cdr", primCdr},
	{"eq?", primEq},
	{"pair?", primPairP},
	{"not", primNot},
	{"null?", primNullP},
	{"list", primList},
	{"+", primAdd},
	{"-", primSub},
	{"*", primMul},
	{"=", primNumEq},
	{">", primGt},
	{">=", primGe},
	{"<", primLt},
	{"<=", primLe},
}

// Global returns a fresh Global table with every primitive bound, ready to
// be handed to compiler.Compile/vm.Run for loading the prelude and any
// user program.
func Global() object.Global {
	g := make(object.Global, len(table))
	for _, e := range table {
		g[e.Name] = &object.Primitive{Name: e.Name, Fn: e.Fn}
	}
	return g
}

func wrongArgs(op string) error {
	return fmt.Errorf("wrong number of arguments: %s", op)
}

func notIntegers(op string) error {
	return fmt.Errorf("all arguments must be integers: %s", op)
}

func primPrint(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, wrongArgs("print")
	}
	fmt.Println(args[0].Inspect())
	return object.Undefined{}, nil
}

func primUndefined(_ []object.Value) (object.Value, error) {
	return object.Undefined{}, nil
}

func primCons(args []object.Value) (object.Value, error) {
	if len(args) != 2 {
		return nil, wrongArgs("cons")
	}
	return object.Cons(args[0], args[1]), nil
}

func primCar(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, wrongArgs("car")
	}
	c, ok := args[0].(*object.Cell)
	if !ok {
		return nil, fmt.Errorf("pair required: car")
	}
	return c.Car, nil
}

func primCdr(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, wrongArgs("cdr")
	}
	c, ok := args[0].(*object.Cell)
	if !ok {
		return nil, fmt.Errorf("pair required: cdr")
	}
	return c.Cdr, nil
}

// eq? is structural equality (object.Equal), not pointer identity. This
// means two freshly consed cells with equal contents compare equal, which
// is looser than a true identity test — inherited as-is from the system
// this was distilled from.
func primEq(args []object.Value) (object.Value, error) {
	if len(args) != 2 {
		return nil, wrongArgs("eq?")
	}
	return object.Boolean{Value: object.Equal(args[0], args[1])}, nil
}

func primPairP(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, wrongArgs("pair?")
	}
	_, ok := args[0].(*object.Cell)
	return object.Boolean{Value: ok}, nil
}

func primNot(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, wrongArgs("not")
	}
	return object.Boolean{Value: !isTruthy(args[0])}, nil
}

func primNullP(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, wrongArgs("null?")
	}
	_, ok := args[0].(object.Nil)
	return object.Boolean{Value: ok}, nil
}

func primList(args []object.Value) (object.Value, error) {
	return object.FromSlice(args), nil
}

func asInts(args []object.Value, op string) ([]int32, error) {
	out := make([]int32, len(args))
	for i, a := range args {
		n, ok := a.(object.Integer)
		if !ok {
			return nil, notIntegers(op)
		}
		out[i] = n.Value
	}
	return out, nil
}

func primAdd(args []object.Value) (object.Value, error) {
	ns, err := asInts(args, "+")
	if err != nil {
		return nil, err
	}
	var sum int32
	for _, n := range ns {
		sum += n
	}
	return object.Integer{Value: sum}, nil
}

func primSub(args []object.Value) (object.Value, error) {
	if len(args) == 0 {
		return nil, wrongArgs("-")
	}
	ns, err := asInts(args, "-")
	if err != nil {
		return nil, err
	}
	if len(ns) == 1 {
		return object.Integer{Value: -ns[0]}, nil
	}
	diff := ns[0]
	for _, n := range ns[1:] {
		diff -= n
	}
	return object.Integer{Value: diff}, nil
}

// primMul multiplies its arguments. (A prior version of this primitive
// folded with `+` here instead of `*` — fixed.)
func primMul(args []object.Value) (object.Value, error) {
	ns, err := asInts(args, "*")
	if err != nil {
		return nil, err
	}
	product := int32(1)
	for _, n := range ns {
		product *= n
	}
	return object.Integer{Value: product}, nil
}

// chainedOrd implements the shared shape of =, >, >=, <, <=: walk adjacent
// pairs left to right, comparing as it goes. A failed comparison returns
// Boolean(false) immediately, before any later argument's type is even
// looked at — only an argument actually reached by the walk has to be an
// Integer, so e.g. (< 3 2 #t) is false without #t ever being inspected.
func chainedOrd(args []object.Value, op string, cmp func(a, b int32) bool) (object.Value, error) {
	if len(args) < 2 {
		return nil, wrongArgs(op)
	}
	current, ok := args[0].(object.Integer)
	if !ok {
		return nil, notIntegers(op)
	}
	for _, a := range args[1:] {
		next, ok := a.(object.Integer)
		if !ok {
			return nil, notIntegers(op)
		}
		if !cmp(current.Value, next.Value) {
			return object.Boolean{Value: false}, nil
		}
		current = next
	}
	return object.Boolean{Value: true}, nil
}

func primNumEq(args []object.Value) (object.Value, error) {
	return chainedOrd(args, "=", func(a, b int32) bool { return a == b })
}

func primGt(args []object.Value) (object.Value, error) {
	return chainedOrd(args, ">", func(a, b int32) bool { return a > b })
}

func primGe(args []object.Value) (object.Value, error) {
	return chainedOrd(args, ">=", func(a, b int32) bool { return a >= b })
}

func primLt(args []object.Value) (object.Value, error) {
	return chainedOrd(args, "<", func(a, b int32) bool { return a < b })
}

func primLe(args []object.Value) (object.Value, error) {
	return chainedOrd(args, "<=", func(a, b int32) bool { return a <= b })
}

func isTruthy(v object.Value) bool {
	b, ok := v.(object.Boolean)
	return !ok || b.Value
}
