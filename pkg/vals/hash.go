package vals

import (
	"math"
	"reflect"

	"src.ggexpr.dev/pkg/persistent/hash"
)

// Hasher wraps the Hash method.
type Hasher interface {
	// Hash computes the hash code of the receiver.
	Hash() uint32
}

// Hash returns the 32-bit hash of a value. It is consistent with Equal: an
// int and a float with the same numeric value hash the same. Pointers and
// other reference types hash by identity. Values of other types without a
// Hash method hash to 0.
func Hash(v any) uint32 {
	switch v := v.(type) {
	case nil:
		return 0
	case bool:
		if v {
			return 1
		}
		return 0
	case int32:
		return uint32(v)
	case float32:
		if f := float64(v); f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 {
			return uint32(int32(f))
		}
		return math.Float32bits(v)
	case string:
		return hash.String(v)
	case List:
		h := hash.Seed
		for it := v.Iterator(); it.HasElem(); it.Next() {
			h = hash.Combine(h, Hash(it.Elem()))
		}
		return h
	case Map:
		// Combine entries in an order-independent way.
		h := hash.Seed
		for it := v.Iterator(); it.HasElem(); it.Next() {
			k, v := it.Elem()
			h += hash.Of(Hash(k), Hash(v))
		}
		return h
	case Hasher:
		return v.Hash()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return hash.Pointer(rv.UnsafePointer())
	}
	return 0
}
