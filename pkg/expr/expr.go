// Package expr is the interface for embedding the expression language in Go
// programs.
//
// A typical host compiles the source once and evaluates the resulting
// [Program] as many times as needed:
//
//	prog, err := expr.Compile(parse.Source{Name: "speed", Code: code},
//		expr.CompileCfg{Globals: []string{"t"}})
//	if err != nil {
//		// err is a *Diagnostic
//	}
//	v, err := prog.Eval(map[string]any{"t": 0.5})
//
// A Program is immutable and may be evaluated concurrently from multiple
// goroutines.
package expr

import (
	"errors"
	"reflect"
	"sort"

	"src.ggexpr.dev/pkg/builtins"
	"src.ggexpr.dev/pkg/bytecode"
	"src.ggexpr.dev/pkg/check"
	"src.ggexpr.dev/pkg/compile"
	"src.ggexpr.dev/pkg/diag"
	"src.ggexpr.dev/pkg/logutil"
	"src.ggexpr.dev/pkg/parse"
	"src.ggexpr.dev/pkg/vals"
	"src.ggexpr.dev/pkg/vm"
)

var logger = logutil.GetLogger("[expr] ")

// CompileCfg keeps configuration for [Compile].
type CompileCfg struct {
	// Names of the bindings the host will supply when evaluating the
	// program. Builtins are always in scope; a host binding with the same name
	// as a builtin shadows it.
	Globals []string
}

// Program is a compiled program.
type Program struct {
	src      parse.Source
	bytecode *bytecode.Program
}

// Compile parses, checks and compiles the source. The returned error is a
// *Diagnostic if it is not nil.
func Compile(src parse.Source, cfg CompileCfg) (*Program, error) {
	tree, err := parse.Parse(src)
	if err != nil {
		return nil, toDiagnostic(err)
	}
	info, err := check.Check(tree, globalNames(cfg.Globals))
	if err != nil {
		return nil, toDiagnostic(err)
	}
	bc := compile.Compile(tree, info)
	logger.Printf("compiled %s: %d functions, %d constants",
		src.Name, len(bc.Funcs), len(bc.Consts))
	return &Program{src, bc}, nil
}

func globalNames(host []string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, name := range append(builtins.Names(), host...) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Source returns the source the program was compiled from.
func (p *Program) Source() parse.Source { return p.src }

// Bytecode returns the compiled bytecode. The caller must not modify it.
func (p *Program) Bytecode() *bytecode.Program { return p.bytecode }

// Eval evaluates the program with the given host bindings. Values are
// converted with [vals.FromGo]; Go functions are wrapped with [vm.NewGoFn].
// The returned error is a *vm.Exception if it is not nil.
//
// Eval panics if a binding is a Go function with a signature that
// [vm.NewGoFn] does not support.
func (p *Program) Eval(bindings map[string]any) (any, error) {
	globals := builtins.Ns()
	for name, v := range bindings {
		globals[name] = fromHost(name, v)
	}
	return vm.New().Run(p.bytecode, globals)
}

// Evaluate is equivalent to prog.Eval(bindings).
func Evaluate(prog *Program, bindings map[string]any) (any, error) {
	return prog.Eval(bindings)
}

func fromHost(name string, v any) any {
	if v != nil && reflect.TypeOf(v).Kind() == reflect.Func {
		return vm.NewGoFn(name, v)
	}
	return vals.FromGo(v)
}

// DiagnosticKind identifies the stage that produced a [Diagnostic].
type DiagnosticKind int

// Possible values for DiagnosticKind.
const (
	LexError DiagnosticKind = iota
	ParseError
	CheckError
)

var diagnosticKindNames = [...]string{
	LexError:   "lex error",
	ParseError: "parse error",
	CheckError: "check error",
}

func (k DiagnosticKind) String() string {
	if 0 <= k && int(k) < len(diagnosticKindNames) {
		return diagnosticKindNames[k]
	}
	return "unknown diagnostic kind"
}

// Diagnostic is an error found when compiling a program.
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
	Context diag.Context

	err error
}

func newDiagnostic[T diag.ErrorTag](kind DiagnosticKind, e *diag.Error[T]) *Diagnostic {
	return &Diagnostic{kind, e.Message, e.Context, e}
}

func toDiagnostic(err error) error {
	var (
		lexErr   *parse.LexError
		parseErr *parse.Error
		checkErr *check.Error
	)
	switch {
	case errors.As(err, &lexErr):
		return newDiagnostic(LexError, lexErr)
	case errors.As(err, &parseErr):
		return newDiagnostic(ParseError, parseErr)
	case errors.As(err, &checkErr):
		return newDiagnostic(CheckError, checkErr)
	}
	return err
}

// Error returns a plain text representation of the diagnostic.
func (d *Diagnostic) Error() string { return d.err.Error() }

// Unwrap returns the underlying *parse.LexError, *parse.Error or *check.Error.
func (d *Diagnostic) Unwrap() error { return d.err }

// Range returns the range of the culprit.
func (d *Diagnostic) Range() diag.Ranging { return d.Context.Range() }

// Show shows the diagnostic along with the culprit in the source.
func (d *Diagnostic) Show(indent string) string {
	return d.err.(diag.Shower).Show(indent)
}
