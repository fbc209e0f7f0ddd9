// Package bytecode defines compiled programs: functions made of a flat
// sequence of instructions, and a constant pool shared by all functions of a
// program.
//
// A Program is immutable once built and can be run by many virtual machines at
// the same time.
package bytecode

import (
	"fmt"

	"src.ggexpr.dev/pkg/diag"
	"src.ggexpr.dev/pkg/parse"
)

// Program is a compiled program.
type Program struct {
	// Source the program was compiled from, used in error messages.
	Source parse.Source
	// Constant pool.
	Consts []any
	// Functions of the program. The first one is the top-level function,
	// which takes no arguments.
	Funcs []*Function
}

// Function is a compiled function.
type Function struct {
	// Name of the function, "" for anonymous functions.
	Name string
	// Number of parameters.
	Params int
	// Number of local slots, including those of the parameters.
	Slots int
	// Number of captured values.
	Captures int
	Code     []Instr
	// Range of the whole function in the source.
	diag.Ranging
}

// Instr is an instruction. The meaning of the operands depend on the opcode.
type Instr struct {
	Op Op
	A  int
	B  int
	// Sources of the captured values; only used by MakeClosure.
	Captures []CaptureSource
	// Source range of the expression the instruction is compiled from.
	diag.Ranging
}

// CaptureSource tells where a captured value comes from in the function
// creating the closure.
type CaptureSource struct {
	Kind  CaptureKind
	Index int
}

// CaptureKind is the kind of a CaptureSource.
type CaptureKind uint8

// Possible values of CaptureKind.
const (
	// A local slot.
	FromLocal CaptureKind = iota
	// A value captured by the creating closure.
	FromCapture
	// The creating closure itself.
	FromSelf
)

func (s CaptureSource) String() string {
	switch s.Kind {
	case FromLocal:
		return fmt.Sprintf("local %d", s.Index)
	case FromCapture:
		return fmt.Sprintf("capture %d", s.Index)
	case FromSelf:
		return "self"
	default:
		return fmt.Sprintf("!(CaptureKind=%d)", int(s.Kind))
	}
}
