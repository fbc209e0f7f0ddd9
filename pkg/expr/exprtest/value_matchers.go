package exprtest

import (
	"fmt"
	"math"
	"regexp"

	"src.ggexpr.dev/pkg/vals"
)

// ValueMatcher is a value that can be passed to [Case.Evals] and has its own
// matching semantics.
type ValueMatcher interface {
	fmt.Stringer
	matchValue(any) bool
}

// Anything matches anything.
var Anything ValueMatcher = anything{}

type anything struct{}

func (anything) matchValue(any) bool { return true }
func (anything) String() string      { return "anything" }

// ApproximatelyThreshold defines the threshold for matching float values when
// using [Approximately].
const ApproximatelyThreshold = 1e-6

// Approximately matches a float within the relative threshold defined by
// [ApproximatelyThreshold].
func Approximately(f float64) ValueMatcher { return approximately{float32(f)} }

type approximately struct{ value float32 }

func (a approximately) matchValue(value any) bool {
	if value, ok := value.(float32); ok {
		return matchFloat32(a.value, value, ApproximatelyThreshold)
	}
	return false
}

func (a approximately) String() string {
	return "approximately " + vals.Repr(a.value)
}

func matchFloat32(a, b float32, threshold float64) bool {
	x, y := float64(a), float64(b)
	if math.IsNaN(x) && math.IsNaN(y) {
		return true
	}
	if math.IsInf(x, 0) || math.IsInf(y, 0) {
		return x == y
	}
	if threshold == 0 {
		return x == y
	}
	return math.Abs(x-y) <= threshold*math.Max(1, math.Abs(x))
}

// Repr matches any value with the given representation. It is useful for
// values that can't be constructed in tests, like functions.
func Repr(s string) ValueMatcher { return repr{s} }

type repr struct{ s string }

func (r repr) matchValue(value any) bool { return vals.Repr(value) == r.s }
func (r repr) String() string            { return r.s }

// StringMatching matches any string matching a regexp pattern. If the pattern
// is not a valid regexp, the function panics.
func StringMatching(p string) ValueMatcher { return stringMatching{regexp.MustCompile(p)} }

type stringMatching struct{ pattern *regexp.Regexp }

func (s stringMatching) matchValue(value any) bool {
	if value, ok := value.(string); ok {
		return s.pattern.MatchString(value)
	}
	return false
}

func (s stringMatching) String() string {
	return "string matching " + s.pattern.String()
}

// MapContaining matches any map that contains all the key-value pairs in the
// given map. The values in the argument itself can also be [ValueMatcher]s.
func MapContaining(m map[string]any) ValueMatcher { return mapContaining{m} }

type mapContaining struct{ m map[string]any }

func (m mapContaining) matchValue(value any) bool {
	if gotMap, ok := value.(vals.Map); ok {
		for k, wantValue := range m.m {
			if gotValue, ok := gotMap.Index(k); !ok || !match(gotValue, wantValue) {
				return false
			}
		}
		return true
	}
	return false
}

func (m mapContaining) String() string {
	return "map containing " + fmt.Sprint(m.m)
}
