package check

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.ggexpr.dev/pkg/diag"
	"src.ggexpr.dev/pkg/parse"
	"src.ggexpr.dev/pkg/tt"
)

var Args = tt.Args

func mustParse(code string) parse.Tree {
	tree, err := parse.Parse(parse.Source{Name: "[test]", Code: code})
	if err != nil {
		panic(err)
	}
	return tree
}

// resolutions checks code and lists the resolution of each identifier
// reference, in source order.
func resolutions(code string, globals []string) []string {
	tree := mustParse(code)
	info, err := Check(tree, globals)
	if err != nil {
		return []string{"error: " + err.Error()}
	}
	var res []string
	parse.Walk(tree.Root, func(n parse.Node) bool {
		if id, ok := n.(*parse.Ident); ok {
			if r, ok := info.Idents[id]; ok {
				res = append(res, id.Name+": "+r.String())
			}
		}
		return true
	})
	return res
}

func TestCheck_Resolutions(t *testing.T) {
	tt.Test(t, resolutions,
		Args("let a = 1, b = a in a + b", nil).Rets(
			[]string{"a: local 0", "a: local 0", "b: local 1"}),
		Args("let x = 1 in let x = 2 in x", nil).Rets(
			[]string{"x: local 1"}).Named("inner binding shadows"),
		Args("let x = 1 in { x }", nil).Rets(
			[]string{"x: local 0"}).Named("bare map entry"),
		Args("fn(a, b): b", nil).Rets([]string{"b: local 1"}),
		Args("let f = fn(n): if n < 1 then 0 else f(n - 1) in f(3)", nil).Rets(
			[]string{"n: local 0", "f: self", "n: local 0", "f: local 0"}),
		Args("let f = fn(f): f in f", nil).Rets(
			[]string{"f: local 0", "f: local 0"}).Named("parameter shadows self"),
		Args("let x = 1 in fn(y): fn(): x + y", nil).Rets(
			[]string{"x: capture 0", "y: capture 1"}),
		Args("let f = fn(n): fn(): f(n) in f", nil).Rets(
			[]string{"f: capture 0", "n: capture 1", "f: local 0"}),
		Args("len(x)", []string{"len", "x"}).Rets(
			[]string{"len: global len", "x: global x"}),
		Args("fn(): len", []string{"len"}).Rets(
			[]string{"len: global len"}).Named("globals are not captured"),
		Args("let len = 1 in len", []string{"len"}).Rets(
			[]string{"len: local 0"}).Named("locals shadow globals"),
	)
}

func TestCheck_FuncInfo(t *testing.T) {
	tree := mustParse("let x = 1, f = fn(a): fn(b): [x, a, b, f] in f")
	info, err := Check(tree, nil)
	if err != nil {
		t.Fatal(err)
	}
	let := tree.Root.(*parse.Let)
	outer := let.Bindings[1].Value.(*parse.Lambda)
	inner := outer.Body.(*parse.Lambda)

	wantTop := &FuncInfo{Slots: 2}
	wantOuter := &FuncInfo{
		Name: "f", Params: 1, Slots: 1,
		Captures: []Capture{{"x", Resolution{Kind: Local, Index: 0}}},
	}
	wantInner := &FuncInfo{
		Params: 1, Slots: 1,
		Captures: []Capture{
			{"x", Resolution{Kind: Captured, Index: 0}},
			{"a", Resolution{Kind: Local, Index: 0}},
			{"f", Resolution{Kind: Self}},
		},
	}
	for _, test := range []struct {
		name string
		got  *FuncInfo
		want *FuncInfo
	}{
		{"top", info.Top, wantTop},
		{"outer", info.Funcs[outer], wantOuter},
		{"inner", info.Funcs[inner], wantInner},
	} {
		if diff := cmp.Diff(test.want, test.got); diff != "" {
			t.Errorf("%s function (-want +got):\n%s", test.name, diff)
		}
	}
	if slot := info.Bindings[let.Bindings[1]]; slot != 1 {
		t.Errorf("slot of f = %d, want 1", slot)
	}
}

func TestCheck_SlotsAreReused(t *testing.T) {
	for _, test := range []struct {
		code  string
		slots int
	}{
		{"1", 0},
		{"let a = 1 in let b = 2 in let c = 3 in a + b + c", 3},
		{"[let a = 1 in a, let b = 2, c = 3 in b + c]", 2},
	} {
		info, err := Check(mustParse(test.code), nil)
		if err != nil {
			t.Errorf("%s: unexpected error %v", test.code, err)
			continue
		}
		if info.Top.Slots != test.slots {
			t.Errorf("%s: got %d slots, want %d", test.code, info.Top.Slots, test.slots)
		}
	}
}

func checkError(code string, globals []string) (string, diag.Ranging) {
	_, err := Check(mustParse(code), globals)
	var checkErr *Error
	if errors.As(err, &checkErr) {
		return checkErr.Message, checkErr.Range()
	}
	return "", diag.Ranging{}
}

func TestCheck_Errors(t *testing.T) {
	tt.Test(t, checkError,
		Args("let x = [1, 2, x] in x", nil).Rets(
			"illegal recursive value: x refers to itself", diag.Ranging{From: 4, To: 17}),
		Args("let x = 1 in let x = x + 1 in x", nil).Rets(
			"illegal recursive value: x refers to itself", diag.Ranging{From: 17, To: 26}).
			Named("outer binding is not visible in its own shadowing binding"),
		Args("let x = let y = x in y in x", nil).Rets(
			"illegal recursive value: x refers to itself", diag.Ranging{From: 4, To: 22}),
		Args("let x = [fn(): x] in x", nil).Rets(
			"illegal recursive value: x refers to itself", diag.Ranging{From: 4, To: 17}).
			Named("only lambdas bound directly may refer to themselves"),
		Args("let a = b, b = 1 in a", nil).Rets(
			"illegal recursive value: a refers to b, a later binding", diag.Ranging{From: 4, To: 9}),
		Args("let f = fn(): g(), g = fn(): f() in f()", nil).Rets(
			"illegal recursive value: f refers to g, a later binding", diag.Ranging{From: 4, To: 17}),
		Args("let a = (let c = b, b = 1 in c) in a", nil).Rets(
			"illegal recursive value: c refers to b, a later binding", diag.Ranging{From: 13, To: 18}).
			Named("innermost binding in progress is reported"),
		Args("fn(a, a): a", nil).Rets("duplicate parameter a", diag.Ranging{From: 6, To: 7}),
		Args("let a = 1, a = 2 in a", nil).Rets("duplicate binding a", diag.Ranging{From: 11, To: 12}),
		Args("foo", nil).Rets("unresolved identifier foo", diag.Ranging{From: 0, To: 3}),
		Args("let value = 1 in valeu", nil).Rets(
			"unresolved identifier valeu; did you mean value?", diag.Ranging{From: 17, To: 22}),
		Args("flor(1)", []string{"floor", "ceil"}).Rets(
			"unresolved identifier flor; did you mean floor?", diag.Ranging{From: 0, To: 4}),
		Args("fn(abc): abd", nil).Rets(
			"unresolved identifier abd; did you mean abc?", diag.Ranging{From: 9, To: 12}),
	)
}

func TestCheck_ErrorString(t *testing.T) {
	_, err := Check(mustParse("\n  foo"), nil)
	if want := "check error: [test]:2:3: unresolved identifier foo"; err == nil || err.Error() != want {
		t.Errorf("got error %v, want %q", err, want)
	}
}
