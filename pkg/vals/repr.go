package vals

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"src.ggexpr.dev/pkg/parse"
)

// Reprer wraps the Repr method.
type Reprer interface {
	// Repr returns a string that represents a Value. The string is either a
	// literal of that Value that is preferably deep-equal to it (like `[1, 2]`
	// for a list), or a string enclosed in "<>" containing the kind and
	// identity of the Value (like `<fn f>`).
	Repr() string
}

// Repr returns the representation for a value, a string that is preferably
// (but not necessarily) an expression that evaluates to the argument. Map
// entries are sorted by the representation of their keys.
func Repr(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case int32:
		return strconv.Itoa(int(v))
	case float32:
		return formatFloat32(v)
	case string:
		return parse.Quote(v)
	case List:
		var sb strings.Builder
		sb.WriteByte('[')
		first := true
		for it := v.Iterator(); it.HasElem(); it.Next() {
			if !first {
				sb.WriteString(", ")
			}
			first = false
			sb.WriteString(Repr(it.Elem()))
		}
		sb.WriteByte(']')
		return sb.String()
	case Map:
		return reprMap(v)
	case Reprer:
		return v.Repr()
	default:
		return "<unknown " + Kind(v) + ">"
	}
}

func reprMap(m Map) string {
	if m.Len() == 0 {
		return "{}"
	}
	type entry struct{ k, v string }
	entries := make([]entry, 0, m.Len())
	for it := m.Iterator(); it.HasElem(); it.Next() {
		k, v := it.Elem()
		entries = append(entries, entry{reprKey(k), Repr(v)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].k < entries[j].k })
	var sb strings.Builder
	sb.WriteString("{ ")
	for i, e := range entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.k + " = " + e.v)
	}
	sb.WriteString(" }")
	return sb.String()
}

// Map keys are written the way they can be written in a map literal.
func reprKey(k any) string {
	if s, ok := k.(string); ok {
		if parse.IsIdentifier(s) {
			return s
		}
		return parse.Quote(s)
	}
	return "[" + Repr(k) + "]"
}

func formatFloat32(f float32) string {
	switch {
	case math.IsNaN(float64(f)):
		return "nan"
	case math.IsInf(float64(f), 1):
		return "inf"
	case math.IsInf(float64(f), -1):
		return "-inf"
	}
	s := strconv.FormatFloat(float64(f), 'g', -1, 32)
	if !strings.ContainsAny(s, ".e") {
		// Keep floats distinguishable from ints.
		s += ".0"
	}
	return s
}

// ToString converts a value to a string. Strings are returned as is, and other
// values are converted with Repr.
func ToString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return Repr(v)
}
