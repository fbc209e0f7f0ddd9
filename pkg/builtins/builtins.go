// Package builtins implements the functions and constants that are in scope in
// every program.
package builtins

import (
	"sort"

	"src.ggexpr.dev/pkg/vm"
)

var (
	builtinValues = map[string]any{}
	builtinDocs   = map[string]string{}
)

func addFns(fns map[string]any) {
	for name, impl := range fns {
		builtinValues[name] = vm.NewGoFn(name, impl)
	}
}

func addConsts(consts map[string]any) {
	for name, v := range consts {
		builtinValues[name] = v
	}
}

func addDocs(d map[string]string) {
	for name, doc := range d {
		builtinDocs[name] = doc
	}
}

// Ns returns a new map from the names of all builtins to their values. The
// caller may modify the map.
func Ns() map[string]any {
	ns := make(map[string]any, len(builtinValues))
	for name, v := range builtinValues {
		ns[name] = v
	}
	return ns
}

// Names returns the names of all builtins, sorted.
func Names() []string {
	names := make([]string, 0, len(builtinValues))
	for name := range builtinValues {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Value returns the value of a builtin.
func Value(name string) (any, bool) {
	v, ok := builtinValues[name]
	return v, ok
}

// Doc returns a one-line usage description of a builtin.
func Doc(name string) string {
	return builtinDocs[name]
}
