package vals

import (
	"math"
	"strings"

	"src.ggexpr.dev/pkg/errs"
)

// Both int32 and float32 are numbers. Operations on two ints stay in ints
// unless the exact result does not fit in 32 bits, in which case the result is
// a float. Operations involving a float produce a float.

func fitsInt32(i int64) bool {
	return math.MinInt32 <= i && i <= math.MaxInt32
}

// Converts an exact integer result to a value: an int if it fits, a float
// otherwise.
func intResult(i int64) any {
	if fitsInt32(i) {
		return int32(i)
	}
	return float32(i)
}

// Returns the float32 value of a number, and whether the value is a number.
func toFloat(v any) (float32, bool) {
	switch v := v.(type) {
	case int32:
		return float32(v), true
	case float32:
		return v, true
	}
	return 0, false
}

// Like toFloat, but keeps all the precision of ints. The argument must be a
// number.
func toFloat64(v any) float64 {
	if i, ok := v.(int32); ok {
		return float64(i)
	}
	return float64(v.(float32))
}

func isNumber(v any) bool {
	_, ok := toFloat(v)
	return ok
}

func badOperand(op, valid, actual string) error {
	return errs.BadType{What: "operand of " + op, Valid: valid, Actual: actual}
}

func badOperands(op BinaryOp, valid string, a, b any) error {
	return errs.BadType{What: "operands of " + op.String(), Valid: valid, Actual: kinds(a, b)}
}

func add(a, b any) (any, error) {
	switch a := a.(type) {
	case string:
		if b, ok := b.(string); ok {
			return a + b, nil
		}
	case List:
		if b, ok := b.(List); ok {
			return a.Concat(b), nil
		}
	default:
		return arith(Add, a, b)
	}
	return nil, badOperands(Add, "numbers, strings or lists", a, b)
}

func mul(a, b any) (any, error) {
	switch a.(type) {
	case string, List:
		return repeat(a, b)
	}
	switch b.(type) {
	case string, List:
		return repeat(b, a)
	}
	return arith(Mul, a, b)
}

// Implements the arithmetic operators that are closed over both ints and
// floats: +, - and *.
func arith(op BinaryOp, a, b any) (any, error) {
	if ai, ok := a.(int32); ok {
		if bi, ok := b.(int32); ok {
			x, y := int64(ai), int64(bi)
			switch op {
			case Add:
				return intResult(x + y), nil
			case Sub:
				return intResult(x - y), nil
			case Mul:
				return intResult(x * y), nil
			}
		}
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return nil, badOperands(op, "numbers", a, b)
	}
	switch op {
	case Add:
		return af + bf, nil
	case Sub:
		return af - bf, nil
	case Mul:
		return af * bf, nil
	}
	panic("arith called with " + op.String())
}

func div(a, b any) (any, error) {
	if ai, ok := a.(int32); ok {
		if bi, ok := b.(int32); ok {
			if bi == 0 {
				return nil, errs.DivideByZero{Op: "/"}
			}
			x, y := int64(ai), int64(bi)
			if x%y == 0 {
				return intResult(x / y), nil
			}
			return float32(float64(x) / float64(y)), nil
		}
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return nil, badOperands(Div, "numbers", a, b)
	}
	return af / bf, nil
}

func rem(a, b any) (any, error) {
	if ai, ok := a.(int32); ok {
		if bi, ok := b.(int32); ok {
			if bi == 0 {
				return nil, errs.DivideByZero{Op: "%"}
			}
			return int32(int64(ai) % int64(bi)), nil
		}
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return nil, badOperands(Rem, "numbers", a, b)
	}
	return float32(math.Mod(float64(af), float64(bf))), nil
}

func pow(a, b any) (any, error) {
	if ai, ok := a.(int32); ok {
		if bi, ok := b.(int32); ok && bi >= 0 {
			if r, ok := intPow(int64(ai), int64(bi)); ok {
				return int32(r), nil
			}
		}
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return nil, badOperands(Pow, "numbers", a, b)
	}
	return float32(math.Pow(float64(af), float64(bf))), nil
}

// Computes base ** exp by squaring. It returns false as soon as the result is
// known not to fit in an int32.
func intPow(base, exp int64) (int64, bool) {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
			if !fitsInt32(result) {
				return 0, false
			}
		}
		exp >>= 1
		if exp > 0 {
			base *= base
			if !fitsInt32(base) {
				// The remaining bits of exp are not all zero, so base will
				// be multiplied into the result.
				return 0, false
			}
		}
	}
	return result, true
}

func neg(a any) (any, error) {
	switch a := a.(type) {
	case int32:
		return intResult(-int64(a)), nil
	case float32:
		return -a, nil
	}
	return nil, badOperand("-", "number", Kind(a))
}

func compare(op BinaryOp, a, b any) (any, error) {
	var c int
	switch {
	case isNumber(a) && isNumber(b):
		ai, aok := a.(int32)
		bi, bok := b.(int32)
		if aok && bok {
			c = cmpInt(int64(ai), int64(bi))
		} else {
			x, y := toFloat64(a), toFloat64(b)
			if math.IsNaN(x) || math.IsNaN(y) {
				// NaN is unordered.
				return false, nil
			}
			c = cmpFloat(x, y)
		}
	default:
		as, aok := a.(string)
		bs, bok := b.(string)
		if !aok || !bok {
			return nil, badOperands(op, "numbers or strings", a, b)
		}
		c = strings.Compare(as, bs)
	}
	switch op {
	case Lt:
		return c < 0, nil
	case Le:
		return c <= 0, nil
	case Gt:
		return c > 0, nil
	default:
		return c >= 0, nil
	}
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
