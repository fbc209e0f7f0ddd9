// Package compile lowers checked syntax trees to bytecode programs.
package compile

import (
	"fmt"
	"math"

	"src.ggexpr.dev/pkg/bytecode"
	"src.ggexpr.dev/pkg/check"
	"src.ggexpr.dev/pkg/diag"
	"src.ggexpr.dev/pkg/logutil"
	"src.ggexpr.dev/pkg/parse"
	"src.ggexpr.dev/pkg/vals"
)

var logger = logutil.GetLogger("[compile] ")

// InternalError is the value of panics raised when the compiler finds the tree
// and the check results inconsistent. It indicates a bug and never results
// from user input.
type InternalError struct {
	Message string
	diag.Ranging
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal compiler error at %d-%d: %s", e.From, e.To, e.Message)
}

// compiler maintains the states needed when compiling a single tree.
type compiler struct {
	info   *check.Info
	prog   *bytecode.Program
	consts map[constKey]int
}

// Compile compiles a tree that has been checked, with info being the result
// of the check.
func Compile(tree parse.Tree, info *check.Info) *bytecode.Program {
	cp := &compiler{
		info:   info,
		prog:   &bytecode.Program{Source: tree.Source},
		consts: make(map[constKey]int),
	}
	cp.function(info.Top, tree.Root, tree.Root.Range())
	logger.Printf("compiled %s: %d functions, %d constants",
		tree.Source.Name, len(cp.prog.Funcs), len(cp.prog.Consts))
	return cp.prog
}

func internalErrorf(r diag.Ranger, format string, args ...any) {
	panic(&InternalError{fmt.Sprintf(format, args...), r.Range()})
}

// function compiles a function and returns its index.
func (cp *compiler) function(fi *check.FuncInfo, body parse.Node, r diag.Ranging) int {
	fn := &bytecode.Function{
		Name: fi.Name, Params: fi.Params, Slots: fi.Slots,
		Captures: len(fi.Captures), Ranging: r}
	// Reserve the index before compiling the body, which may add more
	// functions.
	idx := len(cp.prog.Funcs)
	cp.prog.Funcs = append(cp.prog.Funcs, fn)
	fc := &funcCompiler{cp, fn}
	fc.expr(body)
	fc.emit(bytecode.Return, 0, body)
	return idx
}

// funcCompiler emits code into one function.
type funcCompiler struct {
	*compiler
	fn *bytecode.Function
}

func (fc *funcCompiler) emit(op bytecode.Op, a int, r diag.Ranger) int {
	fc.fn.Code = append(fc.fn.Code, bytecode.Instr{Op: op, A: a, Ranging: r.Range()})
	return len(fc.fn.Code) - 1
}

// patch points the jump at ip to the next instruction to be emitted.
func (fc *funcCompiler) patch(ip int) {
	fc.fn.Code[ip].A = len(fc.fn.Code)
}

var unaryOps = map[parse.UnaryOp]vals.UnaryOp{
	parse.Neg: vals.Neg,
	parse.Not: vals.Not,
}

var binaryOps = map[parse.BinaryOp]vals.BinaryOp{
	parse.Add: vals.Add, parse.Sub: vals.Sub, parse.Mul: vals.Mul,
	parse.Div: vals.Div, parse.Rem: vals.Rem, parse.Pow: vals.Pow,
	parse.Eq: vals.Eq, parse.Ne: vals.Ne,
	parse.Lt: vals.Lt, parse.Le: vals.Le, parse.Gt: vals.Gt, parse.Ge: vals.Ge,
}

func (fc *funcCompiler) expr(n parse.Node) {
	if v, ok := constValue(n); ok {
		fc.constant(v, n)
		return
	}
	switch n := n.(type) {
	case *parse.Ident:
		fc.ident(n)
	case *parse.Unary:
		fc.expr(n.Operand)
		fc.emit(bytecode.Unary, int(unaryOps[n.Op]), n)
	case *parse.Binary:
		fc.binary(n)
	case *parse.Let:
		for _, b := range n.Bindings {
			slot, ok := fc.info.Bindings[b]
			if !ok {
				internalErrorf(b, "no slot for binding %s", b.Name.Name)
			}
			fc.expr(b.Value)
			fc.emit(bytecode.StoreLocal, slot, b)
		}
		fc.expr(n.Body)
	case *parse.If:
		fc.expr(n.Cond)
		jumpIfFalse := fc.emit(bytecode.JumpIfFalse, -1, n.Cond)
		fc.expr(n.Then)
		jumpToEnd := fc.emit(bytecode.Jump, -1, n)
		fc.patch(jumpIfFalse)
		fc.expr(n.Else)
		fc.patch(jumpToEnd)
	case *parse.When:
		jumpsToEnd := make([]int, len(n.Arms))
		for i, arm := range n.Arms {
			fc.expr(arm.Cond)
			jumpIfFalse := fc.emit(bytecode.JumpIfFalse, -1, arm.Cond)
			fc.expr(arm.Body)
			jumpsToEnd[i] = fc.emit(bytecode.Jump, -1, arm)
			fc.patch(jumpIfFalse)
		}
		if n.Else != nil {
			fc.expr(n.Else)
		} else {
			fc.emit(bytecode.Null, 0, n)
		}
		for _, ip := range jumpsToEnd {
			fc.patch(ip)
		}
	case *parse.Lambda:
		fc.lambda(n)
	case *parse.Call:
		fc.expr(n.Callee)
		for _, arg := range n.Args {
			fc.expr(arg)
		}
		fc.emit(bytecode.Call, len(n.Args), n)
	case *parse.Index:
		fc.expr(n.Target)
		fc.expr(n.Key)
		fc.emit(bytecode.Index, boolToInt(n.Nullable), n)
	case *parse.Field:
		fc.expr(n.Target)
		ip := fc.emit(bytecode.Field, fc.constIndex(n.Name), n)
		fc.fn.Code[ip].B = boolToInt(n.Nullable)
	case *parse.List:
		for _, elem := range n.Elems {
			fc.expr(elem)
		}
		fc.emit(bytecode.MakeList, len(n.Elems), n)
	case *parse.Map:
		for _, entry := range n.Entries {
			fc.expr(entry.Key)
			fc.expr(entry.Value)
		}
		fc.emit(bytecode.MakeMap, len(n.Entries), n)
	default:
		internalErrorf(n, "unexpected node %T", n)
	}
}

func (fc *funcCompiler) binary(n *parse.Binary) {
	fc.expr(n.Left)
	switch n.Op {
	case parse.And, parse.Or:
		// a && b: a; jump-if-false L1; b; check-bool; jump L2; L1: false; L2:
		// a || b: a; jump-if-true L1; b; check-bool; jump L2; L1: true; L2:
		jumpOp, shortValue := bytecode.JumpIfFalse, bytecode.False
		if n.Op == parse.Or {
			jumpOp, shortValue = bytecode.JumpIfTrue, bytecode.True
		}
		shortCircuit := fc.emit(jumpOp, -1, n.Left)
		fc.expr(n.Right)
		fc.emit(bytecode.CheckBool, 0, n.Right)
		jumpToEnd := fc.emit(bytecode.Jump, -1, n)
		fc.patch(shortCircuit)
		fc.emit(shortValue, 0, n)
		fc.patch(jumpToEnd)
	case parse.Coalesce:
		// a ?? b: a; jump-if-not-null L; b; L:
		jumpIfNotNull := fc.emit(bytecode.JumpIfNotNull, -1, n.Left)
		fc.expr(n.Right)
		fc.patch(jumpIfNotNull)
	default:
		op, ok := binaryOps[n.Op]
		if !ok {
			internalErrorf(n, "unknown binary operator %v", n.Op)
		}
		fc.expr(n.Right)
		fc.emit(bytecode.Binary, int(op), n)
	}
}

func (fc *funcCompiler) ident(n *parse.Ident) {
	r, ok := fc.info.Idents[n]
	if !ok {
		internalErrorf(n, "unresolved identifier %s", n.Name)
	}
	switch r.Kind {
	case check.Local:
		fc.emit(bytecode.LoadLocal, r.Index, n)
	case check.Captured:
		fc.emit(bytecode.LoadCapture, r.Index, n)
	case check.Self:
		fc.emit(bytecode.LoadSelf, 0, n)
	case check.Global:
		fc.emit(bytecode.LoadGlobal, fc.constIndex(r.Name), n)
	default:
		internalErrorf(n, "bad resolution %v", r)
	}
}

func (fc *funcCompiler) lambda(n *parse.Lambda) {
	fi, ok := fc.info.Funcs[n]
	if !ok {
		internalErrorf(n, "no function info")
	}
	idx := fc.function(fi, n.Body, n.Range())
	srcs := make([]bytecode.CaptureSource, len(fi.Captures))
	for i, c := range fi.Captures {
		switch c.From.Kind {
		case check.Local:
			srcs[i] = bytecode.CaptureSource{Kind: bytecode.FromLocal, Index: c.From.Index}
		case check.Captured:
			srcs[i] = bytecode.CaptureSource{Kind: bytecode.FromCapture, Index: c.From.Index}
		case check.Self:
			srcs[i] = bytecode.CaptureSource{Kind: bytecode.FromSelf}
		default:
			internalErrorf(n, "bad capture source %v for %s", c.From, c.Name)
		}
	}
	ip := fc.emit(bytecode.MakeClosure, idx, n)
	fc.fn.Code[ip].Captures = srcs
}

func (fc *funcCompiler) constant(v any, r diag.Ranger) {
	switch v {
	case nil:
		fc.emit(bytecode.Null, 0, r)
	case true:
		fc.emit(bytecode.True, 0, r)
	case false:
		fc.emit(bytecode.False, 0, r)
	default:
		fc.emit(bytecode.Const, fc.constIndex(v), r)
	}
}

// Constants are deduplicated by their kind and their exact content. Floats
// are keyed by their bits so that 0.0 and -0.0 stay distinct, and collections
// by their representation.
type constKey struct {
	kind string
	bits uint64
	text string
}

func keyOf(v any) constKey {
	switch v := v.(type) {
	case int32:
		return constKey{kind: "int", bits: uint64(uint32(v))}
	case float32:
		return constKey{kind: "float", bits: uint64(math.Float32bits(v))}
	case string:
		return constKey{kind: "string", text: v}
	default:
		return constKey{kind: vals.Kind(v), text: vals.Repr(v)}
	}
}

func (cp *compiler) constIndex(v any) int {
	key := keyOf(v)
	if i, ok := cp.consts[key]; ok {
		return i
	}
	i := len(cp.prog.Consts)
	cp.prog.Consts = append(cp.prog.Consts, v)
	cp.consts[key] = i
	return i
}

// constValue returns the value of an expression that can be evaluated at
// compile time: literals, negated number literals, and lists and maps made
// only of those.
func constValue(n parse.Node) (any, bool) {
	switch n := n.(type) {
	case *parse.Literal:
		return n.Value, true
	case *parse.Unary:
		if n.Op != parse.Neg {
			return nil, false
		}
		if lit, ok := n.Operand.(*parse.Literal); ok {
			switch lit.Value.(type) {
			case int32, float32:
				v, err := vals.Unary(vals.Neg, lit.Value)
				return v, err == nil
			}
		}
	case *parse.List:
		elems := make([]any, len(n.Elems))
		for i, elem := range n.Elems {
			v, ok := constValue(elem)
			if !ok {
				return nil, false
			}
			elems[i] = v
		}
		return vals.MakeList(elems...), true
	case *parse.Map:
		m := vals.EmptyMap
		for _, entry := range n.Entries {
			k, ok := constValue(entry.Key)
			if !ok {
				return nil, false
			}
			v, ok := constValue(entry.Value)
			if !ok {
				return nil, false
			}
			m = m.Assoc(k, v)
		}
		return m, true
	}
	return nil, false
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
