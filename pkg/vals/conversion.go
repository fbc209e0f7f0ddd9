package vals

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"src.ggexpr.dev/pkg/errs"
)

// Conversion between native Go values and values of the language.
//
// The language uses a handful of Go types directly: int32, float32, bool,
// string, plus the persistent List and Map. Host code uses a wider range of
// types, like int, float64, []string and map[string]int.
//
// Conversion from Go values happens without knowing the destination type:
// integers become int32 (or float32 if they don't fit), floats become float32,
// slices become lists and string-keyed maps become maps. The opposite
// direction depends on the destination type, and is done by ScanToGo.

// FromGo converts a Go value to a value of the language. Values of types that
// have no counterpart, including functions implemented in Go, are returned
// unchanged. Numbers, bools and strings of named types are converted by their
// underlying kind.
func FromGo(a any) any {
	switch a := a.(type) {
	case nil, bool, int32, float32, string, List, Map:
		return a
	case int:
		return intResult(int64(a))
	case int8:
		return int32(a)
	case int16:
		return int32(a)
	case int64:
		return intResult(a)
	case uint8:
		return int32(a)
	case uint16:
		return int32(a)
	case uint32:
		return intResult(int64(a))
	case uint, uint64, uintptr:
		return uintResult(reflect.ValueOf(a).Uint())
	case float64:
		return float32(a)
	case []any:
		return listFromSlice(reflect.ValueOf(a))
	case map[string]any:
		m := EmptyMap
		for k, v := range a {
			m = m.Assoc(k, FromGo(v))
		}
		return m
	}
	rv := reflect.ValueOf(a)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intResult(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintResult(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return float32(rv.Float())
	case reflect.String:
		return rv.String()
	case reflect.Slice, reflect.Array:
		return listFromSlice(rv)
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			m := EmptyMap
			for it := rv.MapRange(); it.Next(); {
				m = m.Assoc(it.Key().String(), FromGo(it.Value().Interface()))
			}
			return m
		}
	}
	return a
}

func uintResult(u uint64) any {
	if u <= math.MaxInt32 {
		return int32(u)
	}
	return float32(u)
}

func listFromSlice(rv reflect.Value) List {
	vs := make([]any, rv.Len())
	for i := range vs {
		vs[i] = FromGo(rv.Index(i).Interface())
	}
	return MakeList(vs...)
}

// ScanToGo converts a value to a Go value the pointer points to. It uses the
// type of the pointer to determine the destination type, and puts the
// converted value in the location the pointer points to. Numbers are converted
// between int and float types as long as no precision is lost; lists and maps
// can be scanned into []any and map[string]any.
func ScanToGo(src any, ptr any) error {
	switch ptr := ptr.(type) {
	case *int:
		i, err := toInt(src)
		if err == nil {
			*ptr = i
		}
		return err
	case *int32:
		i, err := toInt(src)
		if err == nil {
			*ptr = int32(i)
		}
		return err
	case *float32:
		f, ok := toFloat(src)
		if !ok {
			return wrongType("number", src)
		}
		*ptr = f
		return nil
	case *float64:
		if !isNumber(src) {
			return wrongType("number", src)
		}
		*ptr = toFloat64(src)
		return nil
	case *[]any:
		v, err := ToGo(src)
		if err != nil {
			return err
		}
		s, ok := v.([]any)
		if !ok {
			return wrongType("list", src)
		}
		*ptr = s
		return nil
	case *map[string]any:
		v, err := ToGo(src)
		if err != nil {
			return err
		}
		m, ok := v.(map[string]any)
		if !ok {
			return wrongType("map", src)
		}
		*ptr = m
		return nil
	case *List:
		l, ok := src.(List)
		if !ok {
			return wrongType("list", src)
		}
		*ptr = l
		return nil
	case *Map:
		m, ok := src.(Map)
		if !ok {
			return wrongType("map", src)
		}
		*ptr = m
		return nil
	case *Callable:
		f, ok := src.(Callable)
		if !ok {
			return wrongType("fn", src)
		}
		*ptr = f
		return nil
	case *any:
		*ptr = src
		return nil
	default:
		// Do a generic `*ptr = src` via reflection
		ptrType := reflect.TypeOf(ptr)
		if ptrType.Kind() != reflect.Pointer {
			return fmt.Errorf("internal bug: need pointer to scan to, got %T", ptr)
		}
		dstType := ptrType.Elem()
		if src == nil || !reflect.TypeOf(src).AssignableTo(dstType) {
			return wrongType(Kind(reflect.Zero(dstType).Interface()), src)
		}
		reflect.ValueOf(ptr).Elem().Set(reflect.ValueOf(src))
		return nil
	}
}

func wrongType(want string, v any) error {
	return errs.BadType{What: "value", Valid: want, Actual: Kind(v)}
}

func toInt(v any) (int, error) {
	switch v := v.(type) {
	case int32:
		return int(v), nil
	case float32:
		if f := float64(v); f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 {
			return int(f), nil
		}
		return 0, errs.BadValue{What: "value", Valid: "integer", Actual: Repr(v)}
	}
	return 0, wrongType("int", v)
}

// ToGo converts a value to a plain Go value: lists become []any, maps with
// string keys become map[string]any, and other values are returned as is. It
// fails if a map has a key that is not a string.
func ToGo(v any) (any, error) {
	switch v := v.(type) {
	case List:
		s := make([]any, 0, v.Len())
		for it := v.Iterator(); it.HasElem(); it.Next() {
			e, err := ToGo(it.Elem())
			if err != nil {
				return nil, err
			}
			s = append(s, e)
		}
		return s, nil
	case Map:
		m := make(map[string]any, v.Len())
		for it := v.Iterator(); it.HasElem(); it.Next() {
			k, e := it.Elem()
			ks, ok := k.(string)
			if !ok {
				return nil, errs.BadType{What: "map key", Valid: "string", Actual: Kind(k)}
			}
			ge, err := ToGo(e)
			if err != nil {
				return nil, err
			}
			m[ks] = ge
		}
		return m, nil
	}
	return v, nil
}

// SortedKeys returns the keys of a map, sorted by their representations.
func SortedKeys(m Map) []any {
	keys := make([]any, 0, m.Len())
	for it := m.Iterator(); it.HasElem(); it.Next() {
		k, _ := it.Elem()
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return Repr(keys[i]) < Repr(keys[j]) })
	return keys
}
