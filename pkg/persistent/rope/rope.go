// Package rope implements a persistent sequence that supports efficient
// concatenation.
//
// A rope is a height-balanced (AVL) binary tree whose leaves are short
// immutable slices. Concatenating two ropes joins their trees in time
// proportional to the difference of their heights, reusing both operands as
// subtrees.
package rope

// Maximum number of elements in a leaf. Updating a leaf copies it, so this
// bounds the cost of Assoc and Conj.
const leafMax = 32

// Rope is a persistent sequential container for arbitrary values. It is
// immutable, and every operation that looks like a modification returns a new
// Rope sharing most of its structure with the receiver.
type Rope interface {
	// Len returns the length of the rope. It runs in O(1).
	Len() int
	// Index returns the i-th element of the rope, if it exists. The second
	// return value indicates whether the element exists. It runs in O(log n).
	Index(i int) (any, bool)
	// Assoc returns an almost identical Rope, with the i-th element replaced.
	// If the index is smaller than 0 or greater than the length of the rope,
	// it returns nil. If the index is equal to the length of the rope, it is
	// equivalent to Conj.
	Assoc(i int, val any) Rope
	// Conj returns an almost identical Rope, with an additional element
	// appended to the end.
	Conj(val any) Rope
	// Concat returns a Rope containing the elements of the receiver followed
	// by the elements of other. Both operands are shared as subtrees.
	Concat(other Rope) Rope
	// Repeat returns a Rope containing the elements of the receiver repeated n
	// times. It performs O(log n) concatenations. If n is negative, it
	// returns nil.
	Repeat(n int) Rope
	// Slice returns a Rope containing the elements from i up to but not
	// including j. If the range is invalid, it returns nil.
	Slice(i, j int) Rope
	// Iterator returns an iterator over the rope.
	Iterator() Iterator
}

// Iterator is an iterator over the elements of a Rope. Typical usage:
//
//	for it := r.Iterator(); it.HasElem(); it.Next() {
//		e := it.Elem()
//	}
type Iterator interface {
	// Elem returns the element at the current position.
	Elem() any
	// HasElem returns whether the iterator is pointing to an element.
	HasElem() bool
	// Next moves the iterator to the next position.
	Next()
}

type rope struct {
	// Children of an internal node. Both are nil for a leaf.
	left, right *rope
	// Content of a leaf, never modified once the leaf is built.
	leaf []any

	count int
	// Height of the tree, defined to be 0 for a leaf.
	height int
}

// Empty is an empty Rope.
var Empty Rope = emptyRope

var emptyRope = newLeaf(nil)

func newLeaf(s []any) *rope {
	return &rope{leaf: s, count: len(s)}
}

// Returns a copy of s with val appended, leaving s intact even if it shares
// its backing array with other leaves.
func appendCopy(s []any, vals ...any) []any {
	c := make([]any, len(s), len(s)+len(vals))
	copy(c, s)
	return append(c, vals...)
}

func branch(l, r *rope) *rope {
	h := l.height
	if r.height > h {
		h = r.height
	}
	return &rope{left: l, right: r, count: l.count + r.count, height: h + 1}
}

// FromSlice builds a Rope holding the elements of s in order.
func FromSlice(s []any) Rope {
	r := emptyRope
	for len(s) > 0 {
		n := len(s)
		if n > leafMax {
			n = leafMax
		}
		r = join(r, newLeaf(appendCopy(nil, s[:n]...)))
		s = s[n:]
	}
	return r
}

func (r *rope) isLeaf() bool { return r.left == nil }

func (r *rope) Len() int { return r.count }

func (r *rope) Index(i int) (any, bool) {
	if i < 0 || i >= r.count {
		return nil, false
	}
	n := r
	for !n.isLeaf() {
		if i < n.left.count {
			n = n.left
		} else {
			i -= n.left.count
			n = n.right
		}
	}
	return n.leaf[i], true
}

func (r *rope) Assoc(i int, val any) Rope {
	if i < 0 || i > r.count {
		return nil
	} else if i == r.count {
		return r.Conj(val)
	}
	return doAssoc(r, i, val)
}

// doAssoc copies the path to the i-th element, which must exist.
func doAssoc(n *rope, i int, val any) *rope {
	if n.isLeaf() {
		leaf := appendCopy(n.leaf)
		leaf[i] = val
		return newLeaf(leaf)
	}
	if i < n.left.count {
		return &rope{left: doAssoc(n.left, i, val), right: n.right, count: n.count, height: n.height}
	}
	return &rope{left: n.left, right: doAssoc(n.right, i-n.left.count, val), count: n.count, height: n.height}
}

func (r *rope) Conj(val any) Rope {
	last := r
	for !last.isLeaf() {
		last = last.right
	}
	if last.count >= leafMax {
		return join(r, newLeaf([]any{val}))
	}
	return appendLast(r, val)
}

// appendLast copies the right spine, appending val to the rightmost leaf.
// Heights do not change.
func appendLast(n *rope, val any) *rope {
	if n.isLeaf() {
		return newLeaf(appendCopy(n.leaf, val))
	}
	return &rope{left: n.left, right: appendLast(n.right, val), count: n.count + 1, height: n.height}
}

func (r *rope) Concat(other Rope) Rope {
	return join(r, other.(*rope))
}

// join concatenates two AVL ropes. It runs in O(|l.height - r.height|).
func join(l, r *rope) *rope {
	switch {
	case l.count == 0:
		return r
	case r.count == 0:
		return l
	case l.isLeaf() && r.isLeaf() && l.count+r.count <= leafMax:
		// Keep small leaves together so that short lists built by repeated
		// concatenation do not degrade into one leaf per element.
		return newLeaf(appendCopy(l.leaf, r.leaf...))
	case l.height > r.height+1:
		return balance(l.left, join(l.right, r))
	case r.height > l.height+1:
		return balance(join(l, r.left), r.right)
	default:
		return branch(l, r)
	}
}

// balance returns a node with the content of a followed by b, rotating when
// their heights differ by 2.
func balance(a, b *rope) *rope {
	switch {
	case a.height > b.height+1:
		if a.left.height >= a.right.height {
			return branch(a.left, branch(a.right, b))
		}
		return branch(branch(a.left, a.right.left), branch(a.right.right, b))
	case b.height > a.height+1:
		if b.right.height >= b.left.height {
			return branch(branch(a, b.left), b.right)
		}
		return branch(branch(a, b.left.left), branch(b.left.right, b.right))
	default:
		return branch(a, b)
	}
}

func (r *rope) Repeat(n int) Rope {
	if n < 0 {
		return nil
	}
	result := emptyRope
	base := r
	for n > 0 {
		if n&1 == 1 {
			result = join(result, base)
		}
		n >>= 1
		if n > 0 {
			base = join(base, base)
		}
	}
	return result
}

func (r *rope) Slice(i, j int) Rope {
	if i < 0 || i > j || j > r.count {
		return nil
	}
	return slice(r, i, j)
}

func slice(n *rope, i, j int) *rope {
	switch {
	case i == 0 && j == n.count:
		return n
	case i == j:
		return emptyRope
	case n.isLeaf():
		// Leaves are never modified, so the backing array can be shared.
		return newLeaf(n.leaf[i:j:j])
	case j <= n.left.count:
		return slice(n.left, i, j)
	case i >= n.left.count:
		return slice(n.right, i-n.left.count, j-n.left.count)
	default:
		return join(slice(n.left, i, n.left.count), slice(n.right, 0, j-n.left.count))
	}
}

func (r *rope) Iterator() Iterator {
	it := &iterator{}
	it.descend(r)
	return it
}

// iterator walks the leaves in order, keeping the right siblings that remain
// to be visited on a stack.
type iterator struct {
	pending []*rope
	// Remaining elements of the current leaf; empty when exhausted.
	current []any
}

func (it *iterator) descend(n *rope) {
	for n != nil {
		for !n.isLeaf() {
			it.pending = append(it.pending, n.right)
			n = n.left
		}
		if len(n.leaf) > 0 {
			it.current = n.leaf
			return
		}
		n = it.pop()
	}
	it.current = nil
}

func (it *iterator) pop() *rope {
	if len(it.pending) == 0 {
		return nil
	}
	n := it.pending[len(it.pending)-1]
	it.pending = it.pending[:len(it.pending)-1]
	return n
}

func (it *iterator) Elem() any {
	return it.current[0]
}

func (it *iterator) HasElem() bool {
	return len(it.current) > 0
}

func (it *iterator) Next() {
	it.current = it.current[1:]
	if len(it.current) == 0 {
		it.descend(it.pop())
	}
}
