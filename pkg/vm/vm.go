// Package vm implements the virtual machine that runs compiled programs.
//
// The machine keeps one operand stack shared by all frames. A frame occupies
// a window of the stack starting with the function being called, followed by
// the local slots of the function (the arguments being the first slots) and
// the operands of the expression being evaluated:
//
//	... callee | slot 0 ... slot n-1 | operands ...
//	           ^ base
//
// A Return pops the whole window and pushes the result in place of the
// callee.
package vm

import (
	"src.ggexpr.dev/pkg/bytecode"
	"src.ggexpr.dev/pkg/diag"
	"src.ggexpr.dev/pkg/errs"
	"src.ggexpr.dev/pkg/logutil"
	"src.ggexpr.dev/pkg/vals"
)

var logger = logutil.GetLogger("[vm] ")

// DefaultMaxDepth is the default value of VM.MaxDepth.
const DefaultMaxDepth = 10000

// Only the innermost frames are kept in stack traces.
const maxTraceFrames = 64

// VM is a virtual machine. A VM runs one program at a time; multiple VMs may
// run the same program concurrently.
type VM struct {
	// Maximum number of active frames. Calls beyond this depth raise
	// errs.StackOverflow.
	MaxDepth int

	// Depth limit of the outermost VM, reported in errs.StackOverflow. Zero
	// unless the VM runs a callback from a Go function.
	rootMaxDepth int

	stack  []any
	frames []frame
}

type frame struct {
	cl   *Closure
	fn   *bytecode.Function
	base int
	ip   int
}

// New creates a new VM.
func New() *VM {
	return &VM{MaxDepth: DefaultMaxDepth}
}

// Run runs the top-level function of a program, using globals as the host
// bindings. It returns the value of the program, or an *Exception.
func (vm *VM) Run(prog *bytecode.Program, globals map[string]any) (any, error) {
	return vm.Call(&Closure{Prog: prog, Fn: 0, Globals: globals}, nil)
}

// Call calls a function value with the given arguments. It returns the result
// of the call, or an *Exception if the function is a *Closure and raises an
// error.
func (vm *VM) Call(f any, args []any) (any, error) {
	if len(vm.frames) > 0 {
		// Called from a Go function while running. The nested VM gets the
		// remaining depth.
		nested := New()
		nested.MaxDepth = vm.MaxDepth - len(vm.frames)
		nested.rootMaxDepth = vm.reportedMaxDepth()
		return nested.Call(f, args)
	}
	switch f := f.(type) {
	case *Closure:
		vm.push(f)
		vm.stack = append(vm.stack, args...)
		if err := vm.callClosure(f, len(args)); err != nil {
			return nil, vm.raise(err)
		}
		return vm.run()
	case vals.Callable:
		return f.Call(args)
	}
	return nil, errs.NotFn{Kind: vals.Kind(f)}
}

func (vm *VM) run() (any, error) {
	for {
		f := &vm.frames[len(vm.frames)-1]
		instr := &f.fn.Code[f.ip]
		f.ip++

		switch instr.Op {
		case bytecode.Const:
			vm.push(f.cl.Prog.Consts[instr.A])
		case bytecode.Null:
			vm.push(nil)
		case bytecode.True:
			vm.push(true)
		case bytecode.False:
			vm.push(false)
		case bytecode.LoadLocal:
			vm.push(vm.stack[f.base+instr.A])
		case bytecode.LoadCapture:
			vm.push(f.cl.Captures[instr.A])
		case bytecode.LoadSelf:
			vm.push(f.cl)
		case bytecode.LoadGlobal:
			name := f.cl.Prog.Consts[instr.A].(string)
			v, ok := f.cl.Globals[name]
			if !ok {
				return nil, vm.raise(errs.NoSuchBinding{Name: name})
			}
			vm.push(v)
		case bytecode.StoreLocal:
			vm.stack[f.base+instr.A] = vm.pop()
		case bytecode.Pop:
			vm.pop()
		case bytecode.Unary:
			v, err := vals.Unary(vals.UnaryOp(instr.A), vm.pop())
			if err != nil {
				return nil, vm.raise(err)
			}
			vm.push(v)
		case bytecode.Binary:
			b := vm.pop()
			a := vm.pop()
			v, err := vals.Binary(vals.BinaryOp(instr.A), a, b)
			if err != nil {
				return nil, vm.raise(err)
			}
			vm.push(v)
		case bytecode.CheckBool:
			if err := checkCondition(vm.top()); err != nil {
				return nil, vm.raise(err)
			}
		case bytecode.Jump:
			f.ip = instr.A
		case bytecode.JumpIfFalse, bytecode.JumpIfTrue:
			cond := vm.pop()
			if err := checkCondition(cond); err != nil {
				return nil, vm.raise(err)
			}
			if cond.(bool) == (instr.Op == bytecode.JumpIfTrue) {
				f.ip = instr.A
			}
		case bytecode.JumpIfNotNull:
			if vm.top() != nil {
				f.ip = instr.A
			} else {
				vm.pop()
			}
		case bytecode.MakeList:
			elems := make([]any, instr.A)
			copy(elems, vm.stack[len(vm.stack)-instr.A:])
			vm.popN(instr.A)
			vm.push(vals.MakeList(elems...))
		case bytecode.MakeMap:
			m := vals.EmptyMap
			for i := len(vm.stack) - 2*instr.A; i < len(vm.stack); i += 2 {
				m = m.Assoc(vm.stack[i], vm.stack[i+1])
			}
			vm.popN(2 * instr.A)
			vm.push(m)
		case bytecode.MakeClosure:
			captures := make([]any, len(instr.Captures))
			for i, src := range instr.Captures {
				switch src.Kind {
				case bytecode.FromLocal:
					captures[i] = vm.stack[f.base+src.Index]
				case bytecode.FromCapture:
					captures[i] = f.cl.Captures[src.Index]
				case bytecode.FromSelf:
					captures[i] = f.cl
				}
			}
			vm.push(&Closure{f.cl.Prog, instr.A, captures, f.cl.Globals})
		case bytecode.Call:
			if err := vm.call(instr.A); err != nil {
				return nil, vm.raise(err)
			}
		case bytecode.Index:
			k := vm.pop()
			a := vm.pop()
			var v any
			var err error
			if instr.A == 1 {
				v, err = vals.IndexNullable(a, k)
			} else {
				v, err = vals.Index(a, k)
			}
			if err != nil {
				return nil, vm.raise(err)
			}
			vm.push(v)
		case bytecode.Field:
			name := f.cl.Prog.Consts[instr.A].(string)
			a := vm.pop()
			var v any
			var err error
			if instr.B == 1 {
				v, err = vals.FieldNullable(a, name)
			} else {
				v, err = vals.Field(a, name)
			}
			if err != nil {
				return nil, vm.raise(err)
			}
			vm.push(v)
		case bytecode.Return:
			v := vm.pop()
			vm.popN(len(vm.stack) - (f.base - 1))
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				return v, nil
			}
			vm.push(v)
		default:
			panic("vm: bad opcode " + instr.Op.String())
		}
	}
}

func checkCondition(v any) error {
	if _, ok := v.(bool); !ok {
		return errs.BadType{What: "condition", Valid: "bool", Actual: vals.Kind(v)}
	}
	return nil
}

// Calls the function below the top n values of the stack, with those values
// as the arguments.
func (vm *VM) call(n int) error {
	calleeIdx := len(vm.stack) - 1 - n
	switch callee := vm.stack[calleeIdx].(type) {
	case *Closure:
		return vm.callClosure(callee, n)
	case vals.Callable:
		args := make([]any, n)
		copy(args, vm.stack[calleeIdx+1:])
		var v any
		var err error
		if goFn, ok := callee.(*GoFn); ok {
			v, err = goFn.call(vm, args)
		} else {
			v, err = callee.Call(args)
		}
		vm.popN(n + 1)
		if err != nil {
			return err
		}
		vm.push(vals.FromGo(v))
		return nil
	default:
		return errs.NotFn{Kind: vals.Kind(callee)}
	}
}

// Pushes a frame for a closure whose n arguments are on the top of the stack.
func (vm *VM) callClosure(cl *Closure, n int) error {
	fn := cl.fn()
	if n != fn.Params {
		return errs.ArityMismatch{What: "arguments",
			ValidLow: fn.Params, ValidHigh: fn.Params, Actual: n}
	}
	if len(vm.frames) >= vm.MaxDepth {
		return errs.StackOverflow{Depth: vm.reportedMaxDepth()}
	}
	base := len(vm.stack) - n
	for i := fn.Params; i < fn.Slots; i++ {
		vm.push(nil)
	}
	vm.frames = append(vm.frames, frame{cl, fn, base, 0})
	return nil
}

func (vm *VM) reportedMaxDepth() int {
	if vm.rootMaxDepth != 0 {
		return vm.rootMaxDepth
	}
	return vm.MaxDepth
}

// Builds an exception with the stack trace of active frames, and unwinds
// them.
func (vm *VM) raise(reason error) *Exception {
	var contexts []*diag.Context
	if exc, ok := reason.(*Exception); ok {
		// Raised by a closure called from a Go function.
		reason = exc.Reason
		for tb := exc.StackTrace; tb != nil; tb = tb.Next {
			contexts = append(contexts, tb.Head)
		}
	}
	for i := len(vm.frames) - 1; i >= 0 && len(contexts) < maxTraceFrames; i-- {
		f := &vm.frames[i]
		r := f.fn.Range()
		if f.ip > 0 {
			r = f.fn.Code[f.ip-1].Range()
		}
		src := f.cl.Prog.Source
		contexts = append(contexts, diag.NewContext(src.Name, src.Code, r))
	}
	if len(contexts) > maxTraceFrames {
		contexts = contexts[:maxTraceFrames]
	}
	var trace *StackTrace
	for i := len(contexts) - 1; i >= 0; i-- {
		trace = &StackTrace{contexts[i], trace}
	}
	vm.popN(len(vm.stack))
	vm.frames = vm.frames[:0]
	logger.Printf("exception: %v", reason)
	return &Exception{reason, trace}
}

func (vm *VM) push(v any) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() any {
	v := vm.stack[len(vm.stack)-1]
	vm.stack[len(vm.stack)-1] = nil
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) top() any { return vm.stack[len(vm.stack)-1] }

// Pops n values, clearing the references to them.
func (vm *VM) popN(n int) {
	newLen := len(vm.stack) - n
	for i := newLen; i < len(vm.stack); i++ {
		vm.stack[i] = nil
	}
	vm.stack = vm.stack[:newLen]
}
