// Package lsp implements a language server for the expression language.
package lsp

import (
	"context"
	"os"
	"strings"

	"github.com/sourcegraph/jsonrpc2"
	"src.ggexpr.dev/pkg/errutil"
	"src.ggexpr.dev/pkg/logutil"
	"src.ggexpr.dev/pkg/prog"
)

var logger = logutil.GetLogger("[lsp] ")

// Program is the LSP subprogram.
type Program struct {
	run     bool
	globals string
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.run, "lsp", false, "Run language server instead of evaluator")
	fs.StringVar(&p.globals, "lsp-globals", "",
		"Comma-separated names of host bindings the language server assumes to exist")
}

func (p *Program) Run(fds [3]*os.File, _ []string) error {
	if !p.run {
		return prog.ErrNextProgram
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(transport{fds[0], fds[1]}, jsonrpc2.VSCodeObjectCodec{}),
		handler(newServer(splitGlobals(p.globals))))
	<-conn.DisconnectNotify()
	return nil
}

func splitGlobals(s string) []string {
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

type transport struct{ in, out *os.File }

func (c transport) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c transport) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c transport) Close() error {
	return errutil.Multi(c.in.Close(), c.out.Close())
}
