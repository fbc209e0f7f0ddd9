package vals

import (
	"testing"
)

// Tester is a helper for testing properties of a value.
type Tester struct {
	t *testing.T
	v any
}

// TestValue returns a ValueTester.
func TestValue(t *testing.T, v any) Tester {
	return Tester{t, v}
}

// Kind tests the Kind of the value.
func (vt Tester) Kind(wantKind string) Tester {
	vt.t.Helper()
	kind := Kind(vt.v)
	if kind != wantKind {
		vt.t.Errorf("Kind(v) = %s, want %s", kind, wantKind)
	}
	return vt
}

// Hash tests the Hash of the value.
func (vt Tester) Hash(wantHash uint32) Tester {
	vt.t.Helper()
	hash := Hash(vt.v)
	if hash != wantHash {
		vt.t.Errorf("Hash(v) = %v, want %v", hash, wantHash)
	}
	return vt
}

// Len tests the Len of the value.
func (vt Tester) Len(wantLen int) Tester {
	vt.t.Helper()
	n := Len(vt.v)
	if n != wantLen {
		vt.t.Errorf("Len(v) = %v, want %v", n, wantLen)
	}
	return vt
}

// Repr tests the Repr of the value.
func (vt Tester) Repr(wantRepr string) Tester {
	vt.t.Helper()
	repr := Repr(vt.v)
	if repr != wantRepr {
		vt.t.Errorf("Repr(v) = %s, want %s", repr, wantRepr)
	}
	return vt
}

// Equal tests that the value is Equal to every of the given values, and has
// the same hash.
func (vt Tester) Equal(others ...any) Tester {
	vt.t.Helper()
	for _, other := range others {
		if !Equal(vt.v, other) {
			vt.t.Errorf("Equal(v, %s) = false, want true", Repr(other))
		}
		if !Equal(other, vt.v) {
			vt.t.Errorf("Equal(%s, v) = false, want true", Repr(other))
		}
		if Hash(vt.v) != Hash(other) {
			vt.t.Errorf("Hash(v) != Hash(%s)", Repr(other))
		}
	}
	return vt
}

// NotEqual tests that the value is not Equal to any of the given values.
func (vt Tester) NotEqual(others ...any) Tester {
	vt.t.Helper()
	for _, other := range others {
		if Equal(vt.v, other) {
			vt.t.Errorf("Equal(v, %s) = true, want false", Repr(other))
		}
	}
	return vt
}

// Index tests that indexing the value with each key in turn yields the
// corresponding value; the arguments are alternately keys and values.
func (vt Tester) Index(kvs ...any) Tester {
	vt.t.Helper()
	for i := 0; i+1 < len(kvs); i += 2 {
		got, err := Index(vt.v, kvs[i])
		if err != nil {
			vt.t.Errorf("Index(v, %s) -> error %v", Repr(kvs[i]), err)
		} else if !Equal(got, kvs[i+1]) {
			vt.t.Errorf("Index(v, %s) -> %s, want %s", Repr(kvs[i]), Repr(got), Repr(kvs[i+1]))
		}
	}
	return vt
}
