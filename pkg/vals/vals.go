// Package vals contains basic facilities for manipulating values of the
// expression language.
//
// The Go types used to represent values are:
//
//	null      nil
//	int       int32
//	float     float32
//	bool      bool
//	string    string
//	list      List, a persistent rope
//	map       Map, a persistent hash map
//	function  any type satisfying Kinder with the kind "fn"
//
// All values are immutable, and can be shared freely between goroutines.
package vals
