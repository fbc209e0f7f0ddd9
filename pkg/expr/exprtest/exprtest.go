// Package exprtest provides a framework for testing programs of the expression
// language.
//
// The entry point for the framework is the Test function, which accepts a
// *testing.T and any number of test cases.
//
// Test cases are constructed using the That function, followed by method calls
// that add additional information to it.
//
// Example:
//
//	Test(t,
//		That("1 + 2").Evals(3),
//		That("1 / 0").ThrowsKind(errs.DivisionByZero),
//		That("x").DoesNotCompile(expr.CheckError))
//
// Host bindings are supplied with Case.WithGlobals or TestWithGlobals.
package exprtest

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.ggexpr.dev/pkg/errs"
	"src.ggexpr.dev/pkg/expr"
	"src.ggexpr.dev/pkg/parse"
	"src.ggexpr.dev/pkg/vals"
	"src.ggexpr.dev/pkg/vm"
)

// Case is a test case that can be used in Test.
type Case struct {
	code    string
	globals map[string]any
	want    result
}

type result struct {
	// Whether a value is expected. A nil Value means null.
	HasValue bool
	Value    any

	CompilationError error
	Exception        error
}

// That returns a new Case with the specified source code. Multiple arguments
// are joined with newlines.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that "1 + 2" evaluates to 3 reads:
//
//	That("1 + 2").Evals(3)
func That(lines ...string) Case {
	return Case{code: strings.Join(lines, "\n")}
}

// WithGlobals returns an altered Case that supplies the given host bindings.
// The bindings are also declared at compile time. They are merged with those
// passed to TestWithGlobals, taking precedence.
func (c Case) WithGlobals(globals map[string]any) Case {
	c.globals = globals
	return c
}

// Evals returns an altered Case that requires the source code to evaluate to
// the given value. The value is converted with vals.FromGo unless it is a
// ValueMatcher, so Evals(3) matches the int 3.
func (c Case) Evals(v any) Case {
	c.want.HasValue = true
	c.want.Value = v
	return c
}

// EvalsNull is equivalent to Evals(nil).
func (c Case) EvalsNull() Case {
	return c.Evals(nil)
}

// Throws returns an altered Case that requires the source code to throw an
// exception with the given reason. The reason supports special matcher values
// constructed by functions like ErrorWithKind.
//
// If at least one stacktrace string is given, the exception must also have a
// stacktrace matching the given source fragments, frame by frame (innermost
// frame first). If no stacktrace string is given, the stack trace of the
// exception is not checked.
func (c Case) Throws(reason error, stacks ...string) Case {
	c.want.Exception = exc{reason, stacks}
	return c
}

// ThrowsKind returns an altered Case that requires the source code to throw an
// exception of the given kind.
func (c Case) ThrowsKind(k errs.Kind) Case {
	return c.Throws(ErrorWithKind(k))
}

// DoesNotCompile returns an altered Case that requires the source code to fail
// compilation with a diagnostic of the given kind. If a message is given, the
// diagnostic must also have that message.
func (c Case) DoesNotCompile(kind expr.DiagnosticKind, msg ...string) Case {
	d := diagnostic{kind: kind}
	if len(msg) > 0 {
		d.msg = &msg[0]
	}
	c.want.CompilationError = d
	return c
}

// Test runs test cases without host bindings.
func Test(t *testing.T, tests ...Case) {
	t.Helper()
	TestWithGlobals(t, nil, tests...)
}

// TestWithGlobals runs test cases with the given host bindings, which are
// declared at compile time and supplied at evaluation.
func TestWithGlobals(t *testing.T, globals map[string]any, tests ...Case) {
	t.Helper()
	for _, tc := range tests {
		tc := tc
		t.Run(tc.code, func(t *testing.T) {
			t.Helper()
			r := compileAndEval(mergeGlobals(globals, tc.globals), tc.code)

			if tc.want.HasValue {
				if r.Exception != nil || r.CompilationError != nil {
					t.Errorf("got error %v, want value %s",
						firstNonNil(r.CompilationError, r.Exception), describe(tc.want.Value))
				} else if !match(r.Value, tc.want.Value) {
					t.Errorf("got value (-want +got):\n%s",
						cmp.Diff(describe(tc.want.Value), vals.Repr(r.Value)))
				}
			}
			if !matchErr(tc.want.CompilationError, r.CompilationError) {
				t.Errorf("got compilation error %v, want %v",
					r.CompilationError, tc.want.CompilationError)
			}
			if !matchErr(tc.want.Exception, r.Exception) {
				t.Errorf("unexpected exception")
				var e *vm.Exception
				if errors.As(r.Exception, &e) {
					t.Logf("got: %T: %v", e.Reason, e)
					t.Logf("stack trace: %#v", getStackTexts(e.StackTrace))
				} else {
					t.Logf("got: %T: %v", r.Exception, r.Exception)
				}
				t.Errorf("want: %v", tc.want.Exception)
			}
		})
	}
}

func compileAndEval(globals map[string]any, code string) result {
	var r result
	names := make([]string, 0, len(globals))
	for name := range globals {
		names = append(names, name)
	}
	sort.Strings(names)
	prog, err := expr.Compile(parse.Source{Name: "[test]", Code: code},
		expr.CompileCfg{Globals: names})
	if err != nil {
		r.CompilationError = err
		return r
	}
	v, err := prog.Eval(globals)
	if err != nil {
		r.Exception = err
		return r
	}
	r.HasValue = true
	r.Value = v
	return r
}

func mergeGlobals(base, override map[string]any) map[string]any {
	m := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		m[k] = v
	}
	for k, v := range override {
		m[k] = v
	}
	return m
}

func firstNonNil(es ...error) error {
	for _, err := range es {
		if err != nil {
			return err
		}
	}
	return nil
}

func describe(want any) string {
	if m, ok := want.(ValueMatcher); ok {
		return m.String()
	}
	return vals.Repr(vals.FromGo(want))
}

func match(got, want any) bool {
	if m, ok := want.(ValueMatcher); ok {
		return m.matchValue(got)
	}
	want = vals.FromGo(want)
	if g, ok := got.(float32); ok {
		if w, ok := want.(float32); ok {
			// NaN is not equal to itself, but a test expecting NaN should
			// match one.
			return matchFloat32(g, w, 0)
		}
	}
	return vals.Equal(got, want)
}

func matchErr(want, got error) bool {
	if want == nil {
		return got == nil
	}
	if matcher, ok := want.(errorMatcher); ok {
		return matcher.matchError(got)
	}
	return reflect.DeepEqual(want, got)
}
