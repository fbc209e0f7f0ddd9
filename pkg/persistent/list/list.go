// Package list implements a persistent singly linked list.
//
// The checker uses it for lexical scope chains: entering a scope conses onto
// the chain and leaving it restores the saved head, so no entry ever needs to
// be removed.
package list

// List is a persistent list. The zero value is an empty list.
type List[T any] struct {
	node *node[T]
}

type node[T any] struct {
	head T
	tail *node[T]
	n    int
}

// Empty returns an empty list.
func Empty[T any]() List[T] { return List[T]{} }

// Len returns the number of elements.
func (l List[T]) Len() int {
	if l.node == nil {
		return 0
	}
	return l.node.n
}

// Cons returns a new list with v in front of l. The receiver is unchanged.
func (l List[T]) Cons(v T) List[T] {
	return List[T]{&node[T]{v, l.node, l.Len() + 1}}
}

// First returns the first element. It panics on an empty list.
func (l List[T]) First() T { return l.node.head }

// Rest returns the list without its first element. It panics on an empty
// list.
func (l List[T]) Rest() List[T] { return List[T]{l.node.tail} }

// Find returns the first element, starting from the front, that satisfies
// pred.
func (l List[T]) Find(pred func(T) bool) (T, bool) {
	for n := l.node; n != nil; n = n.tail {
		if pred(n.head) {
			return n.head, true
		}
	}
	var zero T
	return zero, false
}

// Each calls f on every element from the front.
func (l List[T]) Each(f func(T)) {
	for n := l.node; n != nil; n = n.tail {
		f(n.head)
	}
}
