package builtins

import (
	"strconv"
	"strings"

	"src.ggexpr.dev/pkg/errs"
	"src.ggexpr.dev/pkg/vals"
	"src.ggexpr.dev/pkg/vm"
)

// Strings, lists and maps.

func init() {
	addFns(map[string]any{
		"len":      lenFn,
		"keys":     keys,
		"values":   valuesFn,
		"push":     push,
		"contains": contains,
		"slice":    slice,
		"range":    rangeFn,

		"map":    mapFn,
		"filter": filter,
		"fold":   fold,
	})
	addDocs(map[string]string{
		"len":      "len(c): the number of code points of a string, or elements of a list or map",
		"keys":     "keys(m): the keys of a map, as a sorted list",
		"values":   "values(m): the values of a map, in the order of their keys",
		"push":     "push(l, v): l with v appended",
		"contains": "contains(c, x): whether a list has the element x, a map has the key x, or a string has the substring x",
		"slice":    "slice(c, from, to): the part of a list or string from index from up to index to",
		"range":    "range(lo, hi): the list of ints from lo up to hi",

		"map":    "map(l, f): the list of f(x) for each element x of l",
		"filter": "filter(l, f): the list of elements x of l for which f(x) is true",
		"fold":   "fold(l, init, f): f(...f(f(init, l[0]), l[1])..., l[n-1])",
	})
}

// Maximum length of lists built by range.
const maxRangeLen = 1 << 24

func lenFn(v any) (int, error) {
	if n := vals.Len(v); n >= 0 {
		return n, nil
	}
	return 0, errs.BadType{What: "argument of len", Valid: "string, list or map", Actual: vals.Kind(v)}
}

func keys(m vals.Map) vals.List {
	return vals.MakeList(vals.SortedKeys(m)...)
}

func valuesFn(m vals.Map) vals.List {
	ks := vals.SortedKeys(m)
	vs := make([]any, len(ks))
	for i, k := range ks {
		vs[i], _ = m.Index(k)
	}
	return vals.MakeList(vs...)
}

func push(l vals.List, v any) vals.List {
	return l.Conj(v)
}

func contains(c, x any) (bool, error) {
	switch c := c.(type) {
	case vals.List:
		for it := c.Iterator(); it.HasElem(); it.Next() {
			if vals.Equal(it.Elem(), x) {
				return true, nil
			}
		}
		return false, nil
	case vals.Map:
		_, ok := c.Index(x)
		return ok, nil
	case string:
		sub, ok := x.(string)
		if !ok {
			return false, errs.BadType{What: "substring", Valid: "string", Actual: vals.Kind(x)}
		}
		return strings.Contains(c, sub), nil
	}
	return false, errs.BadType{What: "argument 1 of contains", Valid: "list, map or string", Actual: vals.Kind(c)}
}

func slice(c any, from, to int) (any, error) {
	n := vals.Len(c)
	switch c.(type) {
	case vals.List, string:
	default:
		return nil, errs.BadType{What: "argument 1 of slice", Valid: "list or string", Actual: vals.Kind(c)}
	}
	if from < 0 || from > n {
		return nil, errs.OutOfRange{What: "slice start", ValidLow: 0, ValidHigh: n, Actual: strconv.Itoa(from)}
	}
	if to < from || to > n {
		return nil, errs.OutOfRange{What: "slice end", ValidLow: from, ValidHigh: n, Actual: strconv.Itoa(to)}
	}
	if s, ok := c.(string); ok {
		return vals.SliceString(s, from, to), nil
	}
	return c.(vals.List).Slice(from, to), nil
}

func rangeFn(lo, hi int) (vals.List, error) {
	if hi <= lo {
		return vals.EmptyList, nil
	}
	if hi-lo > maxRangeLen {
		return nil, errs.BadValue{What: "length of range", Valid: "at most " + strconv.Itoa(maxRangeLen),
			Actual: strconv.Itoa(hi - lo)}
	}
	vs := make([]any, hi-lo)
	for i := range vs {
		vs[i] = int32(lo + i)
	}
	return vals.MakeList(vs...), nil
}

func mapFn(m *vm.VM, l vals.List, f any) (vals.List, error) {
	vs := make([]any, 0, l.Len())
	for it := l.Iterator(); it.HasElem(); it.Next() {
		v, err := m.Call(f, []any{it.Elem()})
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vals.MakeList(vs...), nil
}

func filter(m *vm.VM, l vals.List, f any) (vals.List, error) {
	var vs []any
	for it := l.Iterator(); it.HasElem(); it.Next() {
		keep, err := m.Call(f, []any{it.Elem()})
		if err != nil {
			return nil, err
		}
		b, ok := keep.(bool)
		if !ok {
			return nil, errs.BadType{What: "result of filter function", Valid: "bool", Actual: vals.Kind(keep)}
		}
		if b {
			vs = append(vs, it.Elem())
		}
	}
	return vals.MakeList(vs...), nil
}

func fold(m *vm.VM, l vals.List, acc, f any) (any, error) {
	for it := l.Iterator(); it.HasElem(); it.Next() {
		var err error
		acc, err = m.Call(f, []any{acc, it.Elem()})
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}
