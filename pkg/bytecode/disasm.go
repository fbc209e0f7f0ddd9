package bytecode

import (
	"fmt"
	"io"
	"strings"

	"src.ggexpr.dev/pkg/vals"
)

// Disassemble writes a listing of all the functions of the program.
func (p *Program) Disassemble(w io.Writer) {
	for i, fn := range p.Funcs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		name := fn.Name
		switch {
		case i == 0:
			name = "<top>"
		case name == "":
			name = "<anonymous>"
		}
		fmt.Fprintf(w, "fn %d %s params=%d slots=%d captures=%d\n",
			i, name, fn.Params, fn.Slots, fn.Captures)
		for ip, instr := range fn.Code {
			fmt.Fprintf(w, "%4d  %s\n", ip, p.FormatInstr(instr))
		}
	}
}

// FormatInstr formats a single instruction, resolving constant operands.
func (p *Program) FormatInstr(in Instr) string {
	switch in.Op {
	case Const:
		return fmt.Sprintf("const %d ; %s", in.A, vals.Repr(p.Consts[in.A]))
	case LoadGlobal:
		return fmt.Sprintf("load-global %s", p.Consts[in.A])
	case Field:
		s := fmt.Sprintf("field %s", p.Consts[in.A])
		if in.B == 1 {
			s += " nullable"
		}
		return s
	case Index:
		if in.A == 1 {
			return "index nullable"
		}
		return "index"
	case Unary:
		return "unary " + vals.UnaryOp(in.A).String()
	case Binary:
		return "binary " + vals.BinaryOp(in.A).String()
	case MakeClosure:
		srcs := make([]string, len(in.Captures))
		for i, c := range in.Captures {
			srcs[i] = c.String()
		}
		return fmt.Sprintf("make-closure %d [%s]", in.A, strings.Join(srcs, ", "))
	case LoadLocal, LoadCapture, StoreLocal, Jump, JumpIfFalse, JumpIfTrue,
		JumpIfNotNull, MakeList, MakeMap, Call:
		return fmt.Sprintf("%s %d", in.Op, in.A)
	default:
		return in.Op.String()
	}
}
