package hashmap

import (
	"math/bits"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.ggexpr.dev/pkg/persistent/hash"
)

// Keys of type collidingKey hash to their value modulo 64, so that many keys
// share a hash and small key sets share long hash prefixes.
type collidingKey int

func equal(k1, k2 any) bool { return k1 == k2 }

func hashKey(k any) uint32 {
	switch k := k.(type) {
	case collidingKey:
		return uint32(k) % 64
	case int:
		return uint32(k)
	case string:
		return hash.String(k)
	}
	return 0
}

var empty = New(equal, hashKey)

func build(kvs ...any) Map {
	m := empty
	for i := 0; i+1 < len(kvs); i += 2 {
		m = m.Assoc(kvs[i], kvs[i+1])
	}
	return m
}

func collect(m Map) map[any]any {
	got := make(map[any]any)
	for it := m.Iterator(); it.HasElem(); it.Next() {
		k, v := it.Elem()
		if _, dup := got[k]; dup {
			panic("iterator yielded a key twice")
		}
		got[k] = v
	}
	return got
}

// Runs random Assoc and Dissoc operations against a native map.
func checkAgainstNative(t *testing.T, seed int64, nOps int, key func(*rand.Rand) any) {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	m := empty
	ref := make(map[any]any)
	for op := 0; op < nOps; op++ {
		k := key(r)
		if r.Intn(3) == 0 {
			delete(ref, k)
			m = m.Dissoc(k)
		} else {
			ref[k] = op
			m = m.Assoc(k, op)
		}
		if m.Len() != len(ref) {
			t.Fatalf("after op %d: Len() = %d, want %d", op, m.Len(), len(ref))
		}
		if v, ok := m.Index(k); ok != (ref[k] != nil) || (ok && v != ref[k]) {
			t.Fatalf("after op %d: Index(%v) = %v, %v; want %v", op, k, v, ok, ref[k])
		}
	}
	for k, v := range ref {
		if got, ok := m.Index(k); !ok || got != v {
			t.Errorf("Index(%v) = %v, %v; want %v, true", k, got, ok, v)
		}
	}
	if diff := cmp.Diff(ref, collect(m)); diff != "" {
		t.Errorf("iterated entries (-want +got):\n%s", diff)
	}
	checkTrie(t, m.(*hamt).root, true)
}

func checkTrie(t *testing.T, n *trie, isRoot bool) {
	t.Helper()
	if bits.OnesCount32(n.bitmap) != len(n.slots) {
		t.Errorf("bitmap %b does not match %d slots", n.bitmap, len(n.slots))
	}
	if !isRoot && len(n.slots) == 1 && n.slots[0].sub == nil {
		t.Errorf("subtrie holds a lone leaf")
	}
	for _, s := range n.slots {
		if s.sub != nil {
			checkTrie(t, s.sub, false)
		} else if len(s.entries) == 0 {
			t.Errorf("leaf with no entries")
		}
	}
}

func TestRandomOps_DistinctHashes(t *testing.T) {
	checkAgainstNative(t, 1, 20000, func(r *rand.Rand) any { return int(r.Int31()) })
}

func TestRandomOps_SmallKeySpace(t *testing.T) {
	// Keys are often reused, so Dissoc frequently hits present keys.
	checkAgainstNative(t, 2, 20000, func(r *rand.Rand) any { return r.Intn(500) })
}

func TestRandomOps_Collisions(t *testing.T) {
	checkAgainstNative(t, 3, 5000, func(r *rand.Rand) any { return collidingKey(r.Intn(400)) })
}

func TestCollisions_DissocKeepsOthers(t *testing.T) {
	m := build(collidingKey(1), "a", collidingKey(65), "b", collidingKey(129), "c")
	m = m.Dissoc(collidingKey(65))
	want := map[any]any{collidingKey(1): "a", collidingKey(129): "c"}
	if diff := cmp.Diff(want, collect(m)); diff != "" {
		t.Errorf("entries (-want +got):\n%s", diff)
	}
	if _, ok := m.Index(collidingKey(193)); ok {
		t.Errorf("found a colliding key that was never added")
	}
}

func TestSharedHashPrefix_CollapsesOnDissoc(t *testing.T) {
	// 1 and 1+1<<25 agree on their lowest 25 bits, forcing a deep split.
	m := build(1, "a", 1+1<<25, "b")
	m = m.Dissoc(1 + 1<<25)
	root := m.(*hamt).root
	if len(root.slots) != 1 || root.slots[0].sub != nil {
		t.Errorf("remaining leaf not moved up to the root")
	}
	if v, _ := m.Index(1); v != "a" {
		t.Errorf("Index(1) = %v, want a", v)
	}
}

func TestNilKey(t *testing.T) {
	m := empty.Assoc(nil, "x")
	if v, ok := m.Index(nil); !ok || v != "x" {
		t.Errorf("Index(nil) = %v, %v; want x, true", v, ok)
	}
	m = m.Assoc(nil, "y").Assoc("k", "v")
	if diff := cmp.Diff(map[any]any{nil: "y", "k": "v"}, collect(m)); diff != "" {
		t.Errorf("entries (-want +got):\n%s", diff)
	}
	if m = m.Dissoc(nil); m.Len() != 1 {
		t.Errorf("Len() = %d after Dissoc(nil), want 1", m.Len())
	}
}

func TestDissoc_AbsentKeyReturnsReceiver(t *testing.T) {
	m := build("a", 1, "b", 2)
	if m.Dissoc("c") != m {
		t.Errorf("Dissoc of an absent key created a new map")
	}
	if empty.Dissoc("a") != empty {
		t.Errorf("Dissoc on the empty map created a new map")
	}
}

func TestAssoc_Persistence(t *testing.T) {
	m := build("a", 1)
	m2 := m.Assoc("a", 2).Assoc("b", 3)
	if diff := cmp.Diff(map[any]any{"a": 1}, collect(m)); diff != "" {
		t.Errorf("original changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[any]any{"a": 2, "b": 3}, collect(m2)); diff != "" {
		t.Errorf("new map (-want +got):\n%s", diff)
	}
}

func TestIterator_Empty(t *testing.T) {
	if empty.Iterator().HasElem() {
		t.Errorf("iterator over the empty map has an element")
	}
}

func BenchmarkAssocSequential(b *testing.B) {
	for r := 0; r < b.N; r++ {
		m := empty
		for i := 0; i < 1000; i++ {
			m = m.Assoc(i, i)
		}
	}
}

func BenchmarkIndex(b *testing.B) {
	m := empty
	for i := 0; i < 1000; i++ {
		m = m.Assoc(i, i)
	}
	b.ResetTimer()
	for r := 0; r < b.N; r++ {
		m.Index(r % 1000)
	}
}
