package vm

import (
	"unsafe"

	"src.ggexpr.dev/pkg/bytecode"
	"src.ggexpr.dev/pkg/persistent/hash"
	"src.ggexpr.dev/pkg/vals"
)

// Closure is a compiled function together with the values it captures. Each
// Closure has its unique identity.
//
// A closure never holds a reference to itself; a recursive function reaches
// itself through the frame it runs in.
type Closure struct {
	Prog *bytecode.Program
	// Index of the function in Prog.Funcs.
	Fn       int
	Captures []any
	// Host bindings of the evaluation that created the closure.
	Globals map[string]any
}

var (
	_ vals.Callable = &Closure{}
	_ vals.Kinder   = &Closure{}
)

func (c *Closure) fn() *bytecode.Function { return c.Prog.Funcs[c.Fn] }

// Name returns the name of the function, or "" if it is anonymous.
func (c *Closure) Name() string { return c.fn().Name }

// Arity returns the number of parameters of the function.
func (c *Closure) Arity() int { return c.fn().Params }

// Kind returns "fn".
func (*Closure) Kind() string { return "fn" }

// Equal compares by address.
func (c *Closure) Equal(rhs any) bool { return c == rhs }

// Hash returns the hash of the address of the closure.
func (c *Closure) Hash() uint32 { return hash.Pointer(unsafe.Pointer(c)) }

// Repr returns an opaque representation "<fn name>", or "<fn>" for anonymous
// functions.
func (c *Closure) Repr() string {
	if name := c.Name(); name != "" {
		return "<fn " + name + ">"
	}
	return "<fn>"
}

// Call calls the closure on a new VM.
func (c *Closure) Call(args []any) (any, error) {
	return New().Call(c, args)
}
