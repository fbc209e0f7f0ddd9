package builtins

import (
	"math"

	"src.ggexpr.dev/pkg/errs"
	"src.ggexpr.dev/pkg/vals"
)

// Numerical functions and constants.

func init() {
	addConsts(map[string]any{
		"pi":  float32(math.Pi),
		"tau": float32(2 * math.Pi),
		"e":   float32(math.E),
		"inf": float32(math.Inf(1)),
		"nan": float32(math.NaN()),
	})
	addFns(map[string]any{
		"floor": rounder("floor", math.Floor),
		"ceil":  rounder("ceil", math.Ceil),
		"round": rounder("round", math.Round),
		"trunc": rounder("trunc", math.Trunc),
		"abs":   abs,

		"sqrt":  math.Sqrt,
		"exp":   math.Exp,
		"ln":    math.Log,
		"log2":  math.Log2,
		"log10": math.Log10,
		"pow":   pow,

		"sin":   math.Sin,
		"cos":   math.Cos,
		"tan":   math.Tan,
		"asin":  math.Asin,
		"acos":  math.Acos,
		"atan":  math.Atan,
		"atan2": math.Atan2,
		"sinh":  math.Sinh,
		"cosh":  math.Cosh,
		"tanh":  math.Tanh,

		"min":   min,
		"max":   max,
		"clamp": clamp,
		"lerp":  lerp,
	})
	addDocs(map[string]string{
		"pi":  "pi: the ratio of a circle's circumference to its diameter",
		"tau": "tau: 2 * pi",
		"e":   "e: the base of natural logarithms",
		"inf": "inf: positive infinity",
		"nan": "nan: a float that is not a number",

		"floor": "floor(x): the greatest integer not greater than x",
		"ceil":  "ceil(x): the least integer not less than x",
		"round": "round(x): x rounded to the nearest integer, halves away from zero",
		"trunc": "trunc(x): the integer part of x",
		"abs":   "abs(x): the absolute value of x",

		"sqrt":  "sqrt(x): the square root of x",
		"exp":   "exp(x): e ** x",
		"ln":    "ln(x): the natural logarithm of x",
		"log2":  "log2(x): the binary logarithm of x",
		"log10": "log10(x): the decimal logarithm of x",
		"pow":   "pow(x, y): x ** y",

		"sin":   "sin(x): the sine of x radians",
		"cos":   "cos(x): the cosine of x radians",
		"tan":   "tan(x): the tangent of x radians",
		"asin":  "asin(x): the arcsine of x, in radians",
		"acos":  "acos(x): the arccosine of x, in radians",
		"atan":  "atan(x): the arctangent of x, in radians",
		"atan2": "atan2(y, x): the angle of the point (x, y), in radians",
		"sinh":  "sinh(x): the hyperbolic sine of x",
		"cosh":  "cosh(x): the hyperbolic cosine of x",
		"tanh":  "tanh(x): the hyperbolic tangent of x",

		"min":   "min(x, ...): the least argument",
		"max":   "max(x, ...): the greatest argument",
		"clamp": "clamp(x, lo, hi): x limited to the range from lo to hi",
		"lerp":  "lerp(a, b, t): linear interpolation from a to b",
	})
}

func badNumber(fn string, v any) error {
	return errs.BadType{What: "argument of " + fn, Valid: "number", Actual: vals.Kind(v)}
}

// Returns a function that applies f to floats and returns ints unchanged.
func rounder(name string, f func(float64) float64) func(any) (any, error) {
	return func(x any) (any, error) {
		switch x := x.(type) {
		case int32:
			return x, nil
		case float32:
			return float32(f(float64(x))), nil
		}
		return nil, badNumber(name, x)
	}
}

func abs(x any) (any, error) {
	switch x := x.(type) {
	case int32:
		if x < 0 {
			return vals.Unary(vals.Neg, x)
		}
		return x, nil
	case float32:
		return float32(math.Abs(float64(x))), nil
	}
	return nil, badNumber("abs", x)
}

func pow(x, y any) (any, error) {
	return vals.Binary(vals.Pow, x, y)
}

func min(first any, rest ...any) (any, error) {
	return extremum(vals.Lt, first, rest)
}

func max(first any, rest ...any) (any, error) {
	return extremum(vals.Gt, first, rest)
}

// Returns the argument that compares op to all the others. Ties are resolved
// in favor of the earliest argument.
func extremum(op vals.BinaryOp, first any, rest []any) (any, error) {
	result := first
	for _, v := range rest {
		better, err := vals.Binary(op, v, result)
		if err != nil {
			return nil, err
		}
		if better.(bool) {
			result = v
		}
	}
	return result, nil
}

func clamp(x, lo, hi any) (any, error) {
	for _, v := range []any{x, lo, hi} {
		if _, ok := v.(int32); !ok {
			if _, ok := v.(float32); !ok {
				return nil, badNumber("clamp", v)
			}
		}
	}
	if ok, _ := vals.Binary(vals.Gt, lo, hi); ok == true {
		return nil, errs.BadValue{What: "bounds of clamp", Valid: "ordered",
			Actual: vals.Repr(lo) + " > " + vals.Repr(hi)}
	}
	if below, _ := vals.Binary(vals.Lt, x, lo); below == true {
		return lo, nil
	}
	if above, _ := vals.Binary(vals.Gt, x, hi); above == true {
		return hi, nil
	}
	return x, nil
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
