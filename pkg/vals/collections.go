package vals

import (
	"unicode/utf8"

	"src.ggexpr.dev/pkg/persistent/hashmap"
	"src.ggexpr.dev/pkg/persistent/rope"
)

// List is the type of list values.
type List = rope.Rope

// Map is the type of map values.
type Map = hashmap.Map

// EmptyList is an empty list.
var EmptyList = rope.Empty

// EmptyMap is an empty map.
var EmptyMap = hashmap.New(Equal, Hash)

// MakeList creates a new List from values.
func MakeList(vs ...any) List {
	return rope.FromSlice(vs)
}

// MakeMap creates a map from arguments that are alternately keys and values. It
// panics if the number of arguments is odd.
func MakeMap(a ...any) Map {
	if len(a)%2 == 1 {
		panic("odd number of arguments to MakeMap")
	}
	m := EmptyMap
	for i := 0; i < len(a); i += 2 {
		m = m.Assoc(a[i], a[i+1])
	}
	return m
}

// Len returns the length of a string in code points, the length of a list or
// map, and -1 for other values.
func Len(v any) int {
	switch v := v.(type) {
	case string:
		return utf8.RuneCountInString(v)
	case List:
		return v.Len()
	case Map:
		return v.Len()
	}
	return -1
}
