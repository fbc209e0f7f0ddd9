package vals

import "strconv"

// BinaryOp identifies a binary operator that operates on two evaluated
// operands. The short-circuiting operators &&, || and ?? are not BinaryOps;
// they are compiled to jumps.
type BinaryOp uint8

// Possible values of BinaryOp.
const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Rem
	Pow
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
)

var binaryOpNames = [...]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Rem: "%", Pow: "**",
	Eq: "==", Ne: "!=", Lt: "<", Le: "<=", Gt: ">", Ge: ">=",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "BinaryOp(" + strconv.Itoa(int(op)) + ")"
}

// UnaryOp identifies a prefix operator.
type UnaryOp uint8

// Possible values of UnaryOp.
const (
	Neg UnaryOp = iota
	Not
)

func (op UnaryOp) String() string {
	switch op {
	case Neg:
		return "-"
	case Not:
		return "!"
	}
	return "UnaryOp(" + strconv.Itoa(int(op)) + ")"
}

// Binary applies a binary operator.
func Binary(op BinaryOp, a, b any) (any, error) {
	switch op {
	case Add:
		return add(a, b)
	case Sub:
		return arith(op, a, b)
	case Mul:
		return mul(a, b)
	case Div:
		return div(a, b)
	case Rem:
		return rem(a, b)
	case Pow:
		return pow(a, b)
	case Eq:
		return Equal(a, b), nil
	case Ne:
		return !Equal(a, b), nil
	case Lt, Le, Gt, Ge:
		return compare(op, a, b)
	}
	panic("unknown binary operator " + op.String())
}

// Unary applies a unary operator.
func Unary(op UnaryOp, a any) (any, error) {
	switch op {
	case Neg:
		return neg(a)
	case Not:
		if b, ok := a.(bool); ok {
			return !b, nil
		}
		return nil, badOperand(op.String(), "bool", Kind(a))
	}
	panic("unknown unary operator " + op.String())
}
