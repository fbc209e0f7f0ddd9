package compile

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.ggexpr.dev/pkg/bytecode"
	"src.ggexpr.dev/pkg/check"
	"src.ggexpr.dev/pkg/parse"
	"src.ggexpr.dev/pkg/testutil"
	"src.ggexpr.dev/pkg/tt"
	"src.ggexpr.dev/pkg/vals"
)

var Args = tt.Args

func compileCode(code string, globals []string) *bytecode.Program {
	tree, err := parse.Parse(parse.Source{Name: "[test]", Code: code})
	if err != nil {
		panic(err)
	}
	info, err := check.Check(tree, globals)
	if err != nil {
		panic(err)
	}
	return Compile(tree, info)
}

func disassemble(code string, globals []string) string {
	var sb strings.Builder
	compileCode(code, globals).Disassemble(&sb)
	return sb.String()
}

func TestCompile(t *testing.T) {
	tt.Test(t, disassemble,
		Args("1 + 2", nil).Rets(testutil.Dedent(`
			fn 0 <top> params=0 slots=0 captures=0
			   0  const 0 ; 1
			   1  const 1 ; 2
			   2  binary +
			   3  return
			`)),
		Args("a && b", []string{"a", "b"}).Rets(testutil.Dedent(`
			fn 0 <top> params=0 slots=0 captures=0
			   0  load-global a
			   1  jump-if-false 5
			   2  load-global b
			   3  check-bool
			   4  jump 6
			   5  false
			   6  return
			`)),
		Args("a || !b", []string{"a", "b"}).Rets(testutil.Dedent(`
			fn 0 <top> params=0 slots=0 captures=0
			   0  load-global a
			   1  jump-if-true 6
			   2  load-global b
			   3  unary !
			   4  check-bool
			   5  jump 7
			   6  true
			   7  return
			`)),
		Args("x ?? 0", []string{"x"}).Rets(testutil.Dedent(`
			fn 0 <top> params=0 slots=0 captures=0
			   0  load-global x
			   1  jump-if-not-null 3
			   2  const 1 ; 0
			   3  return
			`)),
		Args("if a then null else true", []string{"a"}).Rets(testutil.Dedent(`
			fn 0 <top> params=0 slots=0 captures=0
			   0  load-global a
			   1  jump-if-false 4
			   2  null
			   3  jump 5
			   4  true
			   5  return
			`)),
		Args("when a then 1, b then 2", []string{"a", "b"}).Rets(testutil.Dedent(`
			fn 0 <top> params=0 slots=0 captures=0
			   0  load-global a
			   1  jump-if-false 4
			   2  const 1 ; 1
			   3  jump 9
			   4  load-global b
			   5  jump-if-false 8
			   6  const 3 ; 2
			   7  jump 9
			   8  null
			   9  return
			`)).Named("when without else yields null"),
		Args("x?.y[0]", []string{"x"}).Rets(testutil.Dedent(`
			fn 0 <top> params=0 slots=0 captures=0
			   0  load-global x
			   1  field y nullable
			   2  const 2 ; 0
			   3  index
			   4  return
			`)),
		Args("[x, 1, {k = x}]", []string{"x"}).Rets(testutil.Dedent(`
			fn 0 <top> params=0 slots=0 captures=0
			   0  load-global x
			   1  const 1 ; 1
			   2  const 2 ; "k"
			   3  load-global x
			   4  make-map 1
			   5  make-list 3
			   6  return
			`)),
		Args("let x = 1, f = fn(n): if n < 1 then x else f(n - 1) in f(3)", nil).
			Rets(testutil.Dedent(`
			fn 0 <top> params=0 slots=2 captures=0
			   0  const 0 ; 1
			   1  store-local 0
			   2  make-closure 1 [local 0]
			   3  store-local 1
			   4  load-local 1
			   5  const 1 ; 3
			   6  call 1
			   7  return

			fn 1 f params=1 slots=1 captures=1
			   0  load-local 0
			   1  const 0 ; 1
			   2  binary <
			   3  jump-if-false 6
			   4  load-capture 0
			   5  jump 11
			   6  load-self
			   7  load-local 0
			   8  const 0 ; 1
			   9  binary -
			  10  call 1
			  11  return
			`)).Named("recursive closure"),
		Args("fn(a): fn(): a", nil).Rets(testutil.Dedent(`
			fn 0 <top> params=0 slots=0 captures=0
			   0  make-closure 1 []
			   1  return

			fn 1 <anonymous> params=1 slots=1 captures=0
			   0  make-closure 2 [local 0]
			   1  return

			fn 2 <anonymous> params=0 slots=0 captures=1
			   0  load-capture 0
			   1  return
			`)),
	)
}

func TestCompile_FoldsConstantCollections(t *testing.T) {
	tt.Test(t, disassemble,
		Args(`[1, [2, -3], {a = 1, "b c" = -1.5}]`, nil).Rets(testutil.Dedent(`
			fn 0 <top> params=0 slots=0 captures=0
			   0  const 0 ; [1, [2, -3], { "b c" = -1.5, a = 1 }]
			   1  return
			`)),
		Args("-2147483648", nil).Rets(testutil.Dedent(`
			fn 0 <top> params=0 slots=0 captures=0
			   0  const 0 ; -2147483648
			   1  return
			`)),
	)
}

func TestCompile_DeduplicatesConstants(t *testing.T) {
	prog := compileCode(`[1, 1.0, -0.0, 0.0, "1", 1, "1", 0.0, x, x]`, []string{"x"})
	var reprs []string
	for _, c := range prog.Consts {
		reprs = append(reprs, vals.Repr(c))
	}
	want := []string{"1", "1.0", "-0.0", "0.0", `"1"`, `"x"`}
	if diff := cmp.Diff(want, reprs); diff != "" {
		t.Errorf("constants (-want +got):\n%s", diff)
	}
}

func TestCompile_InstructionRanges(t *testing.T) {
	prog := compileCode("a + b", []string{"a", "b"})
	code := prog.Funcs[0].Code
	if r := code[0].Range(); r.From != 0 || r.To != 1 {
		t.Errorf("load-global a has range %v, want 0-1", r)
	}
	if r := code[2].Range(); r.From != 0 || r.To != 5 {
		t.Errorf("binary + has range %v, want 0-5", r)
	}
}

func TestCompile_InconsistentInfo(t *testing.T) {
	tree, err := parse.Parse(parse.Source{Name: "[test]", Code: "x"})
	if err != nil {
		t.Fatal(err)
	}
	r := testutil.Recover(func() {
		Compile(tree, &check.Info{Top: &check.FuncInfo{}})
	})
	ie, ok := r.(*InternalError)
	if !ok {
		t.Fatalf("got panic %v, want *InternalError", r)
	}
	if want := "internal compiler error at 0-1: unresolved identifier x"; ie.Error() != want {
		t.Errorf("got %q, want %q", ie.Error(), want)
	}
}
