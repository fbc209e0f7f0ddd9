package parse

import (
	"errors"
	"strings"
	"testing"

	"src.ggexpr.dev/pkg/diag"
	"src.ggexpr.dev/pkg/testutil"
	"src.ggexpr.dev/pkg/tt"
)

func mustParse(code string) Node {
	tree, err := Parse(Source{Name: "[test]", Code: code})
	if err != nil {
		panic(err)
	}
	return tree.Root
}

func ast(code string) string {
	var sb strings.Builder
	PPrintAST(mustParse(code), &sb)
	return sb.String()
}

var dedent = testutil.Dedent

func TestParse(t *testing.T) {
	tt.Test(t, ast,
		Args("1 + 2 * 3").Rets(dedent(`
			Binary Op=+
			  Literal Value=1
			  Binary Op=*
			    Literal Value=2
			    Literal Value=3
			`)),
		Args("1 - 2 - 3").Rets(dedent(`
			Binary Op=-
			  Binary Op=-
			    Literal Value=1
			    Literal Value=2
			  Literal Value=3
			`)).Named("left associative"),
		Args("(1 - 2) * 3").Rets(dedent(`
			Binary Op=*
			  Binary Op=-
			    Literal Value=1
			    Literal Value=2
			  Literal Value=3
			`)),
		Args("2 ** 3 ** 2").Rets(dedent(`
			Binary Op=**
			  Literal Value=2
			  Binary Op=**
			    Literal Value=3
			    Literal Value=2
			`)).Named("right associative"),
		Args("-2 ** 2").Rets(dedent(`
			Unary Op=-
			  Binary Op=**
			    Literal Value=2
			    Literal Value=2
			`)).Named("unary binds looser than **"),
		Args("2 ** -1").Rets(dedent(`
			Binary Op=**
			  Literal Value=2
			  Unary Op=-
			    Literal Value=1
			`)),
		Args("!a && b").Rets(dedent(`
			Binary Op=&&
			  Unary Op=!
			    Ident Name="a"
			  Ident Name="b"
			`)),
		Args("a || b && c ?? d").Rets(dedent(`
			Binary Op=??
			  Binary Op=||
			    Ident Name="a"
			    Binary Op=&&
			      Ident Name="b"
			      Ident Name="c"
			  Ident Name="d"
			`)),
		Args("a + 1 < b == c >= 2").Rets(dedent(`
			Binary Op===
			  Binary Op=<
			    Binary Op=+
			      Ident Name="a"
			      Literal Value=1
			    Ident Name="b"
			  Binary Op=>=
			    Ident Name="c"
			    Literal Value=2
			`)),
		Args("-2147483648").Rets("Literal Value=-2147483648\n"),
		Args("- -2147483648").Rets(dedent(`
			Unary Op=-
			  Literal Value=-2147483648
			`)),
		Args(`[1, 2.5, "s", null, true,]`).Rets(dedent(`
			List
			  Literal Value=1
			  Literal Value=2.5f
			  Literal Value="s"
			  Literal Value=null
			  Literal Value=true
			`)),
		Args("[]").Rets("List\n"),
		Args(`{ x, y = 1, "a b" = 2, [1] = 3, }`).Rets(dedent(`
			Map
			  MapEntry
			    Literal Value="x"
			    Ident Name="x"
			  MapEntry
			    Literal Value="y"
			    Literal Value=1
			  MapEntry
			    Literal Value="a b"
			    Literal Value=2
			  MapEntry
			    Literal Value=1
			    Literal Value=3
			`)),
		Args("f(x, 1,)[0]?.y?z?[k].w").Rets(dedent(`
			Field Name="w" Nullable=false
			  Index Nullable=true
			    Field Name="z" Nullable=true
			      Field Name="y" Nullable=true
			        Index Nullable=false
			          Call
			            Ident Name="f"
			            Ident Name="x"
			            Literal Value=1
			          Literal Value=0
			    Ident Name="k"
			`)),
		Args("f()()").Rets(dedent(`
			Call
			  Call
			    Ident Name="f"
			`)),
		Args("let a = 1, b = a, in b").Rets(dedent(`
			Let
			  Binding
			    Ident Name="a"
			    Literal Value=1
			  Binding
			    Ident Name="b"
			    Ident Name="a"
			  Ident Name="b"
			`)),
		Args("if c then 1 else 2 + 3").Rets(dedent(`
			If
			  Ident Name="c"
			  Literal Value=1
			  Binary Op=+
			    Literal Value=2
			    Literal Value=3
			`)).Named("else branch extends as far as possible"),
		Args("when a then 1, b then 2 else 3").Rets(dedent(`
			When
			  WhenArm
			    Ident Name="a"
			    Literal Value=1
			  WhenArm
			    Ident Name="b"
			    Literal Value=2
			  Literal Value=3
			`)),
		Args("when a then 1, else 3").Rets(dedent(`
			When
			  WhenArm
			    Ident Name="a"
			    Literal Value=1
			  Literal Value=3
			`)),
		Args("when a then 1").Rets(dedent(`
			When
			  WhenArm
			    Ident Name="a"
			    Literal Value=1
			`)),
		Args("fn(a, b,): a * b").Rets(dedent(`
			Lambda
			  Ident Name="a"
			  Ident Name="b"
			  Binary Op=*
			    Ident Name="a"
			    Ident Name="b"
			`)),
		Args("fn(): 1").Rets(dedent(`
			Lambda
			  Literal Value=1
			`)),
		Args("1 // comment\n+ 2").Rets(dedent(`
			Binary Op=+
			  Literal Value=1
			  Literal Value=2
			`)),
	)
}

func TestParse_Ranges(t *testing.T) {
	root := mustParse("f(a)[0] + -x")
	bin := root.(*Binary)
	tt.Test(t, tt.Fn("Range", func(n Node) diag.Ranging { return n.Range() }),
		Args(bin).Rets(diag.Ranging{From: 0, To: 12}),
		Args(bin.Left).Rets(diag.Ranging{From: 0, To: 7}),
		Args(bin.Left.(*Index).Target).Rets(diag.Ranging{From: 0, To: 4}),
		Args(bin.Right).Rets(diag.Ranging{From: 10, To: 12}),
	)
}

func parseError(code string) (string, diag.Ranging) {
	_, err := Parse(Source{Name: "[test]", Code: code})
	var parseErr *Error
	if errors.As(err, &parseErr) {
		return parseErr.Message, parseErr.Range()
	}
	return "", diag.Ranging{}
}

func TestParse_Errors(t *testing.T) {
	tt.Test(t, parseError,
		Args("").Rets("should be expression", diag.Ranging{From: 0, To: 0}),
		Args("1 +").Rets("should be expression", diag.Ranging{From: 3, To: 3}),
		Args("then").Rets("should be expression", diag.Ranging{From: 0, To: 4}),
		Args("(1").Rets("should be ')'", diag.Ranging{From: 2, To: 2}),
		Args("[1 2]").Rets("should be ',' or ']'", diag.Ranging{From: 3, To: 4}),
		Args("{a = 1 b}").Rets("should be ',' or '}'", diag.Ranging{From: 7, To: 8}),
		Args("f(1 2)").Rets("should be ',' or ')'", diag.Ranging{From: 4, To: 5}),
		Args("{ 1 = 2 }").Rets("should be identifier, string or '['", diag.Ranging{From: 2, To: 3}),
		Args(`{ "a" }`).Rets("should be '='", diag.Ranging{From: 6, To: 7}),
		Args("let x 1 in x").Rets("should be '='", diag.Ranging{From: 6, To: 7}),
		Args("let x = 1 x").Rets("should be ',' or 'in'", diag.Ranging{From: 10, To: 11}),
		Args("let in x").Rets("should be identifier", diag.Ranging{From: 4, To: 6}),
		Args("if a then b").Rets("should be 'else'", diag.Ranging{From: 11, To: 11}),
		Args("if a b").Rets("should be 'then'", diag.Ranging{From: 5, To: 6}),
		Args("when a, b").Rets("should be 'then'", diag.Ranging{From: 6, To: 7}),
		Args("fn x: x").Rets("should be '('", diag.Ranging{From: 3, To: 4}),
		Args("fn(x) x").Rets("should be ':'", diag.Ranging{From: 6, To: 7}),
		Args("fn(x, 1): x").Rets("should be identifier", diag.Ranging{From: 6, To: 7}),
		Args("fn(a, b) -> a").Rets("should be ':'", diag.Ranging{From: 9, To: 10}),
		Args("a.1").Rets("should be identifier", diag.Ranging{From: 2, To: 3}),
		Args("a.if").Rets("should be identifier", diag.Ranging{From: 2, To: 4}),
		Args("1 2").Rets(`unexpected integer literal "2"`, diag.Ranging{From: 2, To: 3}),
		Args("1 )").Rets("unexpected ')'", diag.Ranging{From: 2, To: 3}),
		Args("2147483648").Rets("integer literal out of range", diag.Ranging{From: 0, To: 10}),
		Args("-2147483648 ** 1").Rets("integer literal out of range", diag.Ranging{From: 1, To: 11}),
		Args("-2147483648[0]").Rets("integer literal out of range", diag.Ranging{From: 1, To: 11}),
	)
}

func TestParse_LexErrorsAbort(t *testing.T) {
	_, err := Parse(Source{Name: "[test]", Code: `1 + "abc`})
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("got error %v, want a *LexError", err)
	}
	if want := "lex error: [test]:1:5: string not terminated"; err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestWalk(t *testing.T) {
	var names []string
	Walk(mustParse("let f = fn(x): x + y in f({ z, k = [w] })"), func(n Node) bool {
		if id, ok := n.(*Ident); ok {
			names = append(names, id.Name)
		}
		return true
	})
	want := []string{"f", "x", "x", "y", "f", "z", "w"}
	if strings.Join(names, " ") != strings.Join(want, " ") {
		t.Errorf("got %v, want %v", names, want)
	}
}

func TestWalk_Prune(t *testing.T) {
	count := 0
	Walk(mustParse("[a, fn(b): c, d]"), func(n Node) bool {
		count++
		_, isLambda := n.(*Lambda)
		return !isLambda
	})
	// List, a, Lambda, d
	if count != 4 {
		t.Errorf("visited %d nodes, want 4", count)
	}
}
