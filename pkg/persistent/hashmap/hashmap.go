// Package hashmap implements a persistent hash array mapped trie.
//
// Each trie node consumes 5 bits of the 32-bit key hash and stores its
// occupied slots compactly, indexed by a bitmap. A slot holds either a
// subtrie or a leaf. A leaf records the full hash of its keys and all entries
// whose keys share that hash, so hash collisions need no separate node type.
package hashmap

import "math/bits"

const (
	levelBits = 5
	levelMask = 1<<levelBits - 1
)

// Map is a persistent map. Assoc and Dissoc return modified copies that share
// most of their structure with the receiver, which is never changed. All
// methods are safe for concurrent use.
type Map interface {
	// Len returns the number of entries.
	Len() int
	// Index returns the value associated with k and whether there is one.
	Index(k any) (any, bool)
	// Assoc returns a map in which k is associated with v.
	Assoc(k, v any) Map
	// Dissoc returns a map without k. If k is absent, it returns the
	// receiver.
	Dissoc(k any) Map
	// Iterator returns an iterator over the entries, in an unspecified but
	// stable order.
	Iterator() Iterator
}

// Iterator iterates over map entries:
//
//	for it := m.Iterator(); it.HasElem(); it.Next() {
//		k, v := it.Elem()
//	}
type Iterator interface {
	// Elem returns the current key and value.
	Elem() (any, any)
	// HasElem reports whether the iterator points to an entry.
	HasElem() bool
	// Next advances the iterator.
	Next()
}

// Equal reports whether two keys are equal.
type Equal func(k1, k2 any) bool

// Hash returns the hash of a key. Keys that are Equal must have the same
// hash.
type Hash func(k any) uint32

// New returns an empty Map that compares keys with eq and hashes them with h.
func New(eq Equal, h Hash) Map {
	return &hamt{0, emptyTrie, eq, h}
}

type hamt struct {
	count int
	root  *trie
	eq    Equal
	hash  Hash
}

func (m *hamt) Len() int { return m.count }

func (m *hamt) Index(k any) (any, bool) {
	return m.root.find(m.hash(k), k, m.eq)
}

func (m *hamt) Assoc(k, v any) Map {
	root, added := m.root.assoc(0, m.hash(k), k, v, m.eq)
	count := m.count
	if added {
		count++
	}
	return &hamt{count, root, m.eq, m.hash}
}

func (m *hamt) Dissoc(k any) Map {
	root, removed := m.root.dissoc(0, m.hash(k), k, m.eq)
	if !removed {
		return m
	}
	return &hamt{m.count - 1, root, m.eq, m.hash}
}

func (m *hamt) Iterator() Iterator {
	it := &iterator{stack: []frame{{m.root, 0}}}
	it.nextLeaf()
	return it
}

type entry struct {
	k, v any
}

// slot is either a subtrie (sub != nil) or a leaf.
type slot struct {
	sub     *trie
	hash    uint32
	entries []entry
}

type trie struct {
	bitmap uint32
	slots  []slot
}

var emptyTrie = &trie{}

func bitFor(shift, h uint32) uint32 {
	return 1 << ((h >> shift) & levelMask)
}

// Position of the slot for bit in the compact slots array.
func (t *trie) index(bit uint32) int {
	return bits.OnesCount32(t.bitmap & (bit - 1))
}

func (t *trie) find(h uint32, k any, eq Equal) (any, bool) {
	for shift := uint32(0); ; shift += levelBits {
		bit := bitFor(shift, h)
		if t.bitmap&bit == 0 {
			return nil, false
		}
		s := &t.slots[t.index(bit)]
		if s.sub != nil {
			t = s.sub
			continue
		}
		if s.hash != h {
			return nil, false
		}
		if i := entryIndex(s.entries, k, eq); i >= 0 {
			return s.entries[i].v, true
		}
		return nil, false
	}
}

func (t *trie) assoc(shift, h uint32, k, v any, eq Equal) (*trie, bool) {
	bit := bitFor(shift, h)
	i := t.index(bit)
	if t.bitmap&bit == 0 {
		return t.insert(bit, i, leaf(h, k, v)), true
	}
	s := t.slots[i]
	switch {
	case s.sub != nil:
		sub, added := s.sub.assoc(shift+levelBits, h, k, v, eq)
		return t.replace(i, slot{sub: sub}), added
	case s.hash == h:
		entries, added := assocEntry(s.entries, k, v, eq)
		return t.replace(i, slot{hash: h, entries: entries}), added
	default:
		return t.replace(i, slot{sub: split(shift+levelBits, s, leaf(h, k, v))}), true
	}
}

func (t *trie) dissoc(shift, h uint32, k any, eq Equal) (*trie, bool) {
	bit := bitFor(shift, h)
	if t.bitmap&bit == 0 {
		return t, false
	}
	i := t.index(bit)
	s := t.slots[i]
	if s.sub != nil {
		sub, removed := s.sub.dissoc(shift+levelBits, h, k, eq)
		if !removed {
			return t, false
		}
		if len(sub.slots) == 1 && sub.slots[0].sub == nil {
			// A lone leaf moves up to keep lookups short.
			return t.replace(i, sub.slots[0]), true
		}
		return t.replace(i, slot{sub: sub}), true
	}
	if s.hash != h {
		return t, false
	}
	j := entryIndex(s.entries, k, eq)
	switch {
	case j < 0:
		return t, false
	case len(s.entries) == 1:
		return t.remove(bit, i), true
	}
	entries := make([]entry, 0, len(s.entries)-1)
	entries = append(entries, s.entries[:j]...)
	entries = append(entries, s.entries[j+1:]...)
	return t.replace(i, slot{hash: h, entries: entries}), true
}

func leaf(h uint32, k, v any) slot {
	return slot{hash: h, entries: []entry{{k, v}}}
}

// split builds a subtrie holding two leaves with different hashes, starting
// at the given shift.
func split(shift uint32, a, b slot) *trie {
	bitA, bitB := bitFor(shift, a.hash), bitFor(shift, b.hash)
	switch {
	case bitA == bitB:
		return &trie{bitA, []slot{{sub: split(shift+levelBits, a, b)}}}
	case bitA > bitB:
		a, b = b, a
	}
	return &trie{bitA | bitB, []slot{a, b}}
}

func (t *trie) insert(bit uint32, i int, s slot) *trie {
	slots := make([]slot, len(t.slots)+1)
	copy(slots, t.slots[:i])
	slots[i] = s
	copy(slots[i+1:], t.slots[i:])
	return &trie{t.bitmap | bit, slots}
}

func (t *trie) replace(i int, s slot) *trie {
	slots := make([]slot, len(t.slots))
	copy(slots, t.slots)
	slots[i] = s
	return &trie{t.bitmap, slots}
}

func (t *trie) remove(bit uint32, i int) *trie {
	slots := make([]slot, 0, len(t.slots)-1)
	slots = append(slots, t.slots[:i]...)
	slots = append(slots, t.slots[i+1:]...)
	return &trie{t.bitmap &^ bit, slots}
}

func entryIndex(entries []entry, k any, eq Equal) int {
	for i, e := range entries {
		if eq(e.k, k) {
			return i
		}
	}
	return -1
}

func assocEntry(entries []entry, k, v any, eq Equal) ([]entry, bool) {
	if i := entryIndex(entries, k, eq); i >= 0 {
		newEntries := make([]entry, len(entries))
		copy(newEntries, entries)
		newEntries[i] = entry{k, v}
		return newEntries, false
	}
	newEntries := make([]entry, len(entries), len(entries)+1)
	copy(newEntries, entries)
	return append(newEntries, entry{k, v}), true
}

// iterator walks the trie depth first, keeping the path to the current leaf
// on a stack.
type iterator struct {
	stack   []frame
	entries []entry
	i       int
}

type frame struct {
	t    *trie
	next int
}

func (it *iterator) nextLeaf() {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if top.next == len(top.t.slots) {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		s := top.t.slots[top.next]
		top.next++
		if s.sub != nil {
			it.stack = append(it.stack, frame{s.sub, 0})
			continue
		}
		it.entries, it.i = s.entries, 0
		return
	}
	it.entries, it.i = nil, 0
}

func (it *iterator) Elem() (any, any) {
	e := it.entries[it.i]
	return e.k, e.v
}

func (it *iterator) HasElem() bool { return it.i < len(it.entries) }

func (it *iterator) Next() {
	it.i++
	if it.i >= len(it.entries) {
		it.nextLeaf()
	}
}
