package check

import (
	"fmt"

	"src.ggexpr.dev/pkg/parse"
)

// Info is the result of checking a tree, used by the compiler.
type Info struct {
	// The top-level function, which takes no parameters and has no captures.
	Top *FuncInfo
	// Resolutions of all identifiers that are references. Identifiers that
	// introduce names, like let binding names and lambda parameters, are not
	// included.
	Idents map[*parse.Ident]Resolution
	// Local slot of each let binding.
	Bindings map[*parse.Binding]int
	// Information about each lambda.
	Funcs map[*parse.Lambda]*FuncInfo
}

// FuncInfo describes a function: either the top level or a lambda.
type FuncInfo struct {
	// Name of the let binding the lambda is directly bound to, or "" if there
	// is no such binding.
	Name string
	// Number of parameters, which occupy the first local slots.
	Params int
	// Number of local slots needed, including those of the parameters.
	Slots int
	// Captured values, in the order of their capture indices.
	Captures []Capture
}

// Capture is a value captured by a closure when it is created.
type Capture struct {
	Name string
	// Where the value lives in the enclosing function. Never Global.
	From Resolution
}

// ResolutionKind is the kind of a Resolution.
type ResolutionKind int

// Possible values of ResolutionKind.
const (
	// A local slot of the current function.
	Local ResolutionKind = iota
	// A captured value of the current closure.
	Captured
	// The current closure itself.
	Self
	// A global binding, looked up by name at runtime.
	Global
)

// Resolution describes where the value of an identifier comes from.
type Resolution struct {
	Kind ResolutionKind
	// Slot index for Local, capture index for Capture.
	Index int
	// Name for Global.
	Name string
}

func (r Resolution) String() string {
	switch r.Kind {
	case Local:
		return fmt.Sprintf("local %d", r.Index)
	case Captured:
		return fmt.Sprintf("capture %d", r.Index)
	case Self:
		return "self"
	case Global:
		return "global " + r.Name
	default:
		return fmt.Sprintf("!(ResolutionKind=%d)", int(r.Kind))
	}
}
