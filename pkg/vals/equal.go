package vals

import (
	"reflect"
)

// Equaler wraps the Equal method.
type Equaler interface {
	// Equal compares the receiver to another value. Two equal values must have
	// the same hash code.
	Equal(other any) bool
}

// Equal returns whether two values are equal. Lists and maps are compared
// structurally, and an int is equal to a float with the same numeric value.
// Values of other types are compared with their Equal method if they satisfy
// Equaler, by identity if they are comparable (this covers functions), and
// with reflect.DeepEqual otherwise.
func Equal(x, y any) bool {
	switch x := x.(type) {
	case nil:
		return y == nil
	case bool:
		return x == y
	case int32:
		switch y := y.(type) {
		case int32:
			return x == y
		case float32:
			return float64(x) == float64(y)
		}
		return false
	case float32:
		switch y := y.(type) {
		case int32:
			return float64(x) == float64(y)
		case float32:
			return x == y
		}
		return false
	case string:
		return x == y
	case List:
		if yy, ok := y.(List); ok {
			return equalList(x, yy)
		}
		return false
	case Map:
		if yy, ok := y.(Map); ok {
			return equalMap(x, yy)
		}
		return false
	case Equaler:
		return x.Equal(y)
	}
	if reflect.TypeOf(x) == reflect.TypeOf(y) && reflect.TypeOf(x).Comparable() {
		return x == y
	}
	return reflect.DeepEqual(x, y)
}

func equalList(x, y List) bool {
	if x == y {
		return true
	}
	if x.Len() != y.Len() {
		return false
	}
	ix := x.Iterator()
	iy := y.Iterator()
	for ix.HasElem() && iy.HasElem() {
		if !Equal(ix.Elem(), iy.Elem()) {
			return false
		}
		ix.Next()
		iy.Next()
	}
	return true
}

func equalMap(x, y Map) bool {
	if x == y {
		return true
	}
	if x.Len() != y.Len() {
		return false
	}
	for it := x.Iterator(); it.HasElem(); it.Next() {
		k, vx := it.Elem()
		vy, ok := y.Index(k)
		if !ok || !Equal(vx, vy) {
			return false
		}
	}
	return true
}
