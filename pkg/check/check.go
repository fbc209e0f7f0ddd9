// Package check implements the static checker.
//
// The checker walks a syntax tree with a lexical scope chain, resolves every
// identifier to a local slot, a closure capture, a self-reference or a global
// binding, and rejects bindings that would make a value refer to itself.
package check

import (
	"fmt"
	"sort"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"src.ggexpr.dev/pkg/diag"
	"src.ggexpr.dev/pkg/parse"
	"src.ggexpr.dev/pkg/persistent/list"
)

// Error is a check error.
type Error = diag.Error[ErrorTag]

// ErrorTag parameterizes [diag.Error] to define [Error].
type ErrorTag struct{}

func (ErrorTag) ErrorTag() string { return "check error" }

// Names further than this from an unresolved identifier are not suggested.
const maxHintDistance = 2

// checker maintains the states needed when checking a single tree.
type checker struct {
	src     parse.Source
	globals map[string]bool
	info    *Info
}

// Per-function states. Each lambda starts a new funcCtx; the top level is a
// funcCtx without a parent.
type funcCtx struct {
	info     *FuncInfo
	parent   *funcCtx
	selfName string
	// Innermost first.
	scope    list.List[*entry]
	nextSlot int
	captures map[string]int
}

type entry struct {
	name  string
	slot  int
	state bindingState
	// Nil for lambda parameters.
	binding *parse.Binding
}

type bindingState int

const (
	// A let binding whose expression hasn't been checked yet.
	pending bindingState = iota
	// A let binding whose expression is being checked.
	inProgress
	bound
)

// Check checks a tree. The globals are the names that may be resolved outside
// of any lexical scope, such as builtins and bindings supplied by the host.
//
// The returned error, if not nil, is always an *Error.
func Check(tree parse.Tree, globals []string) (info *Info, err error) {
	ch := &checker{
		src:     tree.Source,
		globals: make(map[string]bool, len(globals)),
		info: &Info{
			Top:      &FuncInfo{},
			Idents:   make(map[*parse.Ident]Resolution),
			Bindings: make(map[*parse.Binding]int),
			Funcs:    make(map[*parse.Lambda]*FuncInfo),
		},
	}
	for _, name := range globals {
		ch.globals[name] = true
	}
	defer func() {
		r := recover()
		if r == nil {
			return
		} else if e, ok := r.(*Error); ok {
			info, err = nil, e
		} else {
			panic(r)
		}
	}()
	ch.expr(&funcCtx{info: ch.info.Top, scope: list.Empty[*entry]()}, tree.Root)
	return ch.info, nil
}

func (ch *checker) errorpf(r diag.Ranger, format string, args ...any) {
	// The panic is caught by the recover in Check.
	panic(&Error{
		Message: fmt.Sprintf(format, args...),
		Context: *diag.NewContext(ch.src.Name, ch.src.Code, r),
	})
}

func (ch *checker) expr(fc *funcCtx, n parse.Node) {
	switch n := n.(type) {
	case *parse.Ident:
		r, ok := ch.resolve(fc, n)
		if !ok {
			if hint := closestName(n.Name, ch.visibleNames(fc)); hint != "" {
				ch.errorpf(n, "unresolved identifier %s; did you mean %s?", n.Name, hint)
			}
			ch.errorpf(n, "unresolved identifier %s", n.Name)
		}
		ch.info.Idents[n] = r
	case *parse.Let:
		ch.let(fc, n)
	case *parse.Lambda:
		ch.lambda(fc, n, "")
	default:
		for _, child := range parse.Children(n) {
			ch.expr(fc, child)
		}
	}
}

func (ch *checker) let(fc *funcCtx, n *parse.Let) {
	savedScope, savedSlot := fc.scope, fc.nextSlot
	entries := make([]*entry, len(n.Bindings))
	seen := make(map[string]bool, len(n.Bindings))
	for i, b := range n.Bindings {
		name := b.Name.Name
		if seen[name] {
			ch.errorpf(b.Name, "duplicate binding %s", name)
		}
		seen[name] = true
		entries[i] = &entry{name: name, slot: fc.allocSlot(), binding: b}
		ch.info.Bindings[b] = entries[i].slot
		fc.scope = fc.scope.Cons(entries[i])
	}
	for i, b := range n.Bindings {
		e := entries[i]
		e.state = inProgress
		if lambda, ok := b.Value.(*parse.Lambda); ok {
			ch.lambda(fc, lambda, e.name)
		} else {
			ch.expr(fc, b.Value)
		}
		e.state = bound
	}
	ch.expr(fc, n.Body)
	fc.scope, fc.nextSlot = savedScope, savedSlot
}

// lambda checks a lambda. If the lambda is the whole expression of a let
// binding, selfName is the name of that binding.
func (ch *checker) lambda(parent *funcCtx, n *parse.Lambda, selfName string) {
	fi := &FuncInfo{Name: selfName, Params: len(n.Params)}
	ch.info.Funcs[n] = fi
	fc := &funcCtx{
		info: fi, parent: parent, selfName: selfName,
		scope: list.Empty[*entry](), captures: make(map[string]int)}
	seen := make(map[string]bool, len(n.Params))
	for _, p := range n.Params {
		if seen[p.Name] {
			ch.errorpf(p, "duplicate parameter %s", p.Name)
		}
		seen[p.Name] = true
		fc.scope = fc.scope.Cons(&entry{name: p.Name, slot: fc.allocSlot(), state: bound})
	}
	ch.expr(fc, n.Body)
}

func (fc *funcCtx) allocSlot() int {
	slot := fc.nextSlot
	fc.nextSlot++
	if fc.nextSlot > fc.info.Slots {
		fc.info.Slots = fc.nextSlot
	}
	return slot
}

// resolve resolves an identifier, adding captures to the enclosing functions
// as needed. It returns false if the name is not bound anywhere.
func (ch *checker) resolve(fc *funcCtx, id *parse.Ident) (Resolution, bool) {
	name := id.Name
	if e, ok := fc.scope.Find(func(e *entry) bool { return e.name == name }); ok {
		switch e.state {
		case inProgress:
			ch.errorpf(e.binding, "illegal recursive value: %s refers to itself", name)
		case pending:
			// The binding being checked belongs to the same let as e, and
			// its entry is the innermost one in progress.
			cur, _ := fc.scope.Find(func(e *entry) bool { return e.state == inProgress })
			ch.errorpf(cur.binding,
				"illegal recursive value: %s refers to %s, a later binding", cur.name, name)
		}
		return Resolution{Kind: Local, Index: e.slot}, true
	}
	if name == fc.selfName {
		return Resolution{Kind: Self}, true
	}
	if fc.parent != nil {
		if i, ok := fc.captures[name]; ok {
			return Resolution{Kind: Captured, Index: i}, true
		}
		from, ok := ch.resolve(fc.parent, id)
		if !ok || from.Kind == Global {
			return from, ok
		}
		i := len(fc.info.Captures)
		fc.info.Captures = append(fc.info.Captures, Capture{name, from})
		fc.captures[name] = i
		return Resolution{Kind: Captured, Index: i}, true
	}
	if ch.globals[name] {
		return Resolution{Kind: Global, Name: name}, true
	}
	return Resolution{}, false
}

// visibleNames returns the names in scope of a function context, for use in
// hints.
func (ch *checker) visibleNames(fc *funcCtx) []string {
	names := make(map[string]bool)
	for ; fc != nil; fc = fc.parent {
		fc.scope.Each(func(e *entry) {
			if e.state == bound {
				names[e.name] = true
			}
		})
		if fc.selfName != "" {
			names[fc.selfName] = true
		}
	}
	for name := range ch.globals {
		names[name] = true
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)
	return sorted
}

// closestName finds the name with the smallest Levenshtein distance from the
// needle. Ties are broken by the order of the haystack.
func closestName(needle string, haystack []string) string {
	match := ""
	closest := maxHintDistance + 1
	for _, name := range haystack {
		d := levenshtein.DistanceForStrings(
			[]rune(needle), []rune(name), levenshtein.DefaultOptionsWithSub)
		if d < closest {
			closest = d
			match = name
		}
	}
	return match
}
