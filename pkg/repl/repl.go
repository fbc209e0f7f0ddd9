// Package repl is the entry point for evaluating expressions from the command
// line, either from a script or interactively.
package repl

import (
	"fmt"
	"os"

	"src.ggexpr.dev/pkg/expr"
	"src.ggexpr.dev/pkg/logutil"
	"src.ggexpr.dev/pkg/prog"
)

var logger = logutil.GetLogger("[repl] ")

// Program is the evaluator subprogram. It is the fallback subprogram and
// always runs.
type Program struct {
	codeInArg   bool
	compileOnly bool
	bindings    string

	json *bool
	db   *string
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.codeInArg, "c", false,
		"Take the first argument as code to evaluate")
	fs.BoolVar(&p.compileOnly, "compileonly", false,
		"Parse and check the code without evaluating it")
	fs.StringVar(&p.bindings, "bindings", "",
		"Path to a YAML file whose top-level mapping supplies host bindings")
	p.json = fs.JSON()
	p.db = fs.DB()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	bindings, err := readBindings(p.bindings)
	if err != nil {
		fmt.Fprintln(fds[2], err)
		return prog.Exit(2)
	}

	if len(args) > 0 {
		exit := script(fds, args, bindings, &scriptCfg{
			Cmd: p.codeInArg, CompileOnly: p.compileOnly, JSON: *p.json})
		return prog.Exit(exit)
	}
	if p.codeInArg {
		return prog.BadUsage("-c requires an argument")
	}

	db := *p.db
	if db == "" {
		var err error
		db, err = dbPath()
		if err != nil {
			fmt.Fprintln(fds[2], "Warning:", err)
			fmt.Fprintln(fds[2], "History and saved bindings will not be available.")
		}
	}
	interact(fds, &interactCfg{Bindings: bindings, DB: db})
	return nil
}

func readBindings(fname string) (map[string]any, error) {
	if fname == "" {
		return map[string]any{}, nil
	}
	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("cannot read bindings: %w", err)
	}
	defer f.Close()
	bindings, err := expr.LoadBindingsYAML(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read bindings from %s: %w", fname, err)
	}
	logger.Println("loaded", len(bindings), "bindings from", fname)
	return bindings, nil
}

func globalNames(bindings map[string]any) []string {
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	return names
}
