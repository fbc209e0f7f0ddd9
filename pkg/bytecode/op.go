package bytecode

import "fmt"

// Op is an opcode.
type Op uint8

// FormatVersion identifies the instruction set. It changes whenever an
// opcode is added, removed or changes meaning.
const FormatVersion = 1

// Opcodes. The stack effect of each instruction is noted as (before -- after).
const (
	// Pushes Consts[A]. ( -- v)
	Const Op = iota
	// ( -- null)
	Null
	// ( -- true)
	True
	// ( -- false)
	False
	// Pushes local slot A. ( -- v)
	LoadLocal
	// Pushes captured value A of the running closure. ( -- v)
	LoadCapture
	// Pushes the running closure. ( -- f)
	LoadSelf
	// Pushes the global binding whose name is Consts[A]. ( -- v)
	LoadGlobal
	// Pops into local slot A. (v -- )
	StoreLocal
	// (v -- )
	Pop
	// Applies the vals.UnaryOp A. (a -- r)
	Unary
	// Applies the vals.BinaryOp A. (a b -- r)
	Binary
	// Raises a type error unless the top of the stack is a bool. (b -- b)
	CheckBool
	// Continues at instruction A. ( -- )
	Jump
	// Pops a bool and continues at instruction A if it is false. (b -- )
	JumpIfFalse
	// Pops a bool and continues at instruction A if it is true. (b -- )
	JumpIfTrue
	// Continues at instruction A keeping the value if it is not null;
	// otherwise pops it. (v -- v) or (null -- )
	JumpIfNotNull
	// Builds a list from A values. (v1 ... vA -- l)
	MakeList
	// Builds a map from A key-value pairs. (k1 v1 ... kA vA -- m)
	MakeMap
	// Builds a closure of function A, capturing values from Captures.
	// ( -- f)
	MakeClosure
	// Calls a function with A arguments. (f a1 ... aA -- r)
	Call
	// Indexes a value; nullable if A is 1. (t k -- v)
	Index
	// Accesses the field named Consts[A]; nullable if B is 1. (t -- v)
	Field
	// Returns the top of the stack from the running function. (r -- )
	Return
)

var opNames = [...]string{
	Const:         "const",
	Null:          "null",
	True:          "true",
	False:         "false",
	LoadLocal:     "load-local",
	LoadCapture:   "load-capture",
	LoadSelf:      "load-self",
	LoadGlobal:    "load-global",
	StoreLocal:    "store-local",
	Pop:           "pop",
	Unary:         "unary",
	Binary:        "binary",
	CheckBool:     "check-bool",
	Jump:          "jump",
	JumpIfFalse:   "jump-if-false",
	JumpIfTrue:    "jump-if-true",
	JumpIfNotNull: "jump-if-not-null",
	MakeList:      "make-list",
	MakeMap:       "make-map",
	MakeClosure:   "make-closure",
	Call:          "call",
	Index:         "index",
	Field:         "field",
	Return:        "return",
}

func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return fmt.Sprintf("!(Op=%d)", int(op))
}
