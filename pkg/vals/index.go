package vals

import (
	"errors"
	"unicode/utf8"

	"src.ggexpr.dev/pkg/errs"
)

// Index indexes a value with the given key. Lists and strings are indexed by
// ints, and maps by any value. Strings are indexed by code point, and indexing
// one yields a string of the single code point at the index.
func Index(a, k any) (any, error) {
	switch a := a.(type) {
	case List:
		i, err := intIndex("list index", a.Len(), k)
		if err != nil {
			return nil, err
		}
		v, _ := a.Index(i)
		return v, nil
	case Map:
		if v, ok := a.Index(k); ok {
			return v, nil
		}
		return nil, errs.NoSuchKey{Key: Repr(k)}
	case string:
		i, err := intIndex("string index", utf8.RuneCountInString(a), k)
		if err != nil {
			return nil, err
		}
		return SliceString(a, i, i+1), nil
	}
	return nil, errs.BadType{What: "indexee", Valid: "list, map or string", Actual: Kind(a)}
}

// SliceString returns the part of s from code point index from up to code
// point index to. It requires 0 <= from <= to <= utf8.RuneCountInString(s).
func SliceString(s string, from, to int) string {
	start, end := len(s), len(s)
	i := 0
	for off := range s {
		if i == from {
			start = off
		}
		if i == to {
			end = off
			break
		}
		i++
	}
	return s[start:end]
}

func intIndex(what string, n int, k any) (int, error) {
	i, ok := k.(int32)
	if !ok {
		return 0, errs.BadType{What: what, Valid: "int", Actual: Kind(k)}
	}
	if i < 0 || int(i) >= n {
		return 0, errs.OutOfRange{What: what, ValidLow: 0, ValidHigh: n - 1, Actual: Repr(k)}
	}
	return int(i), nil
}

// IndexNullable is like Index, but yields nil instead of an error when the
// indexee is nil, the index is out of range, or the key does not exist. Other
// errors, like an index of the wrong type, are still reported.
func IndexNullable(a, k any) (any, error) {
	if a == nil {
		return nil, nil
	}
	v, err := Index(a, k)
	if err != nil && isMiss(err) {
		return nil, nil
	}
	return v, err
}

func isMiss(err error) bool {
	return errors.As(err, new(errs.OutOfRange)) || errors.As(err, new(errs.NoSuchKey))
}

// Field accesses a field of a value. It is equivalent to indexing with the
// field name.
func Field(a any, name string) (any, error) {
	return Index(a, name)
}

// FieldNullable is like Field, but with the semantics of IndexNullable.
func FieldNullable(a any, name string) (any, error) {
	return IndexNullable(a, name)
}
