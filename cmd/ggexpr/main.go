// Ggexpr evaluates expressions of a small, purely functional expression
// language. It runs scripts, evaluates stdin line by line with a prompt when
// it is a terminal, and can act as a language server for editors.
package main

import (
	"os"

	"src.ggexpr.dev/pkg/buildinfo"
	"src.ggexpr.dev/pkg/lsp"
	"src.ggexpr.dev/pkg/pprof"
	"src.ggexpr.dev/pkg/prog"
	"src.ggexpr.dev/pkg/repl"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(
			&pprof.Program{}, &buildinfo.Program{}, &lsp.Program{}, &repl.Program{})))
}
