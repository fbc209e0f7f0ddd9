package vals

import (
	"strconv"
	"strings"

	"src.ggexpr.dev/pkg/errs"
)

// Repeats a string or a list. The count must be a non-negative int.
func repeat(v, count any) (any, error) {
	n, ok := count.(int32)
	if !ok {
		return nil, errs.BadType{
			What: "repeat count of " + Kind(v), Valid: "int", Actual: Kind(count)}
	}
	if n < 0 {
		return nil, errs.BadValue{
			What: "repeat count", Valid: "non-negative", Actual: strconv.Itoa(int(n))}
	}
	switch v := v.(type) {
	case string:
		return strings.Repeat(v, int(n)), nil
	case List:
		return v.Repeat(int(n)), nil
	}
	panic("repeat called with " + Kind(v))
}
