package builtins

import (
	"math"
	"strconv"

	"src.ggexpr.dev/pkg/errs"
	"src.ggexpr.dev/pkg/vals"
)

// Conversion and introspection.

func init() {
	addFns(map[string]any{
		"str":   vals.ToString,
		"int":   intFn,
		"float": floatFn,
		"type":  vals.Kind,
	})
	addDocs(map[string]string{
		"str":   "str(v): v if it is a string, its representation otherwise",
		"int":   "int(v): v converted to an int, truncating floats toward zero",
		"float": "float(v): v converted to a float",
		"type":  "type(v): the kind of v, like \"int\" or \"list\"",
	})
}

func intFn(v any) (any, error) {
	switch v := v.(type) {
	case int32:
		return v, nil
	case float32:
		f := math.Trunc(float64(v))
		if math.IsNaN(f) || f < math.MinInt32 || f > math.MaxInt32 {
			return nil, errs.BadValue{What: "argument of int",
				Valid: "within the range of int", Actual: vals.Repr(v)}
		}
		return int32(f), nil
	case string:
		i, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return nil, errs.BadValue{What: "argument of int",
				Valid: "decimal integer", Actual: vals.Repr(v)}
		}
		return int32(i), nil
	}
	return nil, errs.BadType{What: "argument of int", Valid: "number or string", Actual: vals.Kind(v)}
}

func floatFn(v any) (any, error) {
	switch v := v.(type) {
	case int32:
		return float32(v), nil
	case float32:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return nil, errs.BadValue{What: "argument of float",
				Valid: "number", Actual: vals.Repr(v)}
		}
		return float32(f), nil
	}
	return nil, errs.BadType{What: "argument of float", Valid: "number or string", Actual: vals.Kind(v)}
}
