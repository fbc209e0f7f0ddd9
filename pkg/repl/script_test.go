package repl

import (
	"testing"

	"src.ggexpr.dev/pkg/must"
	. "src.ggexpr.dev/pkg/prog/progtest"
	"src.ggexpr.dev/pkg/testutil"
)

func TestScript(t *testing.T) {
	testutil.InTempDir(t)
	must.WriteFile("sum.expr", "let xs = [1, 2, 3] in fold(xs, 0, fn(a, x): a + x)")
	must.WriteFile("invalid-utf8.expr", "\xff")
	must.WriteFile("bindings.yaml", "width: 640\ntags: [a, b]\n")
	must.WriteFile("bad-bindings.yaml", "width: [")

	Test(t, &Program{},
		That("sum.expr").WritesStdout("6\n"),
		That("-c", "1 + 2").WritesStdout("3\n"),
		That("-c", `"a" * 3`).WritesStdout(`"aaa"`+"\n"),
		That("-c", "{b = 2, a = [1, null]}").WritesStdout("{ a = [1, null], b = 2 }\n"),

		That("invalid-utf8.expr").
			ExitsWith(2).
			WritesStderrContaining("cannot read script"),
		That("non-existent.expr").
			ExitsWith(2).
			WritesStderrContaining("cannot read script"),

		// parse error
		That("-c", "1 +").
			ExitsWith(2).
			WritesStderrContaining("Parse error"),
		// parse error with -compileonly
		That("-compileonly", "-c", "1 +").
			ExitsWith(2).
			WritesStderrContaining("Parse error"),
		// check error with -compileonly -json
		That("-compileonly", "-json", "-c", "undefined_name").
			ExitsWith(2).
			WritesStdout(`[{"fileName":"code from -c","start":0,"end":14,"kind":"check error","message":"unresolved identifier undefined_name"}]`+"\n"),
		// no errors with -compileonly -json
		That("-compileonly", "-json", "-c", "1 + 2").
			WritesStdout("[]\n"),

		// check error
		That("-c", "undefined_name").
			ExitsWith(2).
			WritesStderrContaining("Check error"),

		// exception
		That("-c", "1 / 0").
			ExitsWith(2).
			WritesStdout("").
			WritesStderrContaining("Exception"),
		// exception with -compileonly
		That("-compileonly", "-c", "1 / 0").
			ExitsWith(0),

		// JSON output
		That("-json", "-c", "{a = [1, 2.5, true, null]}").
			WritesStdout(`{"a":[1,2.5,true,null]}`+"\n"),
		That("-json", "-c", "fn(x): x").
			ExitsWith(2).
			WritesStderrContaining("cannot convert value to JSON"),
		That("-json", "-c", "{[1] = 2}").
			ExitsWith(2).
			WritesStderrContaining("cannot convert value to JSON"),

		// bindings
		That("-bindings", "bindings.yaml", "-c", "width / 2").
			WritesStdout("320\n"),
		That("-bindings", "bindings.yaml", "-c", "tags").
			WritesStdout(`["a", "b"]`+"\n"),
		That("-bindings", "non-existent.yaml", "-c", "1").
			ExitsWith(2).
			WritesStderrContaining("cannot read bindings"),
		That("-bindings", "bad-bindings.yaml", "-c", "1").
			ExitsWith(2).
			WritesStderrContaining("cannot read bindings from bad-bindings.yaml"),
		That("-c", "width").
			ExitsWith(2).
			WritesStderrContaining("unresolved identifier width"),
	)
}

func TestScript_CodeInArgRequiresArgument(t *testing.T) {
	Test(t, &Program{},
		That("-c").
			ExitsWith(2).
			WritesStderrContaining("-c requires an argument"),
	)
}
