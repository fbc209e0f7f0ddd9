package vals

import (
	"fmt"
)

// Kinder wraps the Kind method.
type Kinder interface {
	Kind() string
}

// Kind returns the "kind" of the value, the name of its type in the
// language. It is implemented for the builtin types and types satisfying the
// Kinder interface. For other types, it returns the Go type name of the
// argument preceded by "!!".
func Kind(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case int32:
		return "int"
	case float32:
		return "float"
	case bool:
		return "bool"
	case string:
		return "string"
	case List:
		return "list"
	case Map:
		return "map"
	case Kinder:
		return v.Kind()
	default:
		return fmt.Sprintf("!!%T", v)
	}
}

// kinds returns the kinds of two values joined with "and", as used in error
// messages of binary operators.
func kinds(a, b any) string {
	return Kind(a) + " and " + Kind(b)
}
