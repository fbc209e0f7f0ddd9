package lsp

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
	"src.ggexpr.dev/pkg/builtins"
	"src.ggexpr.dev/pkg/diag"
	"src.ggexpr.dev/pkg/expr"
	"src.ggexpr.dev/pkg/parse"
	"src.ggexpr.dev/pkg/vals"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

type server struct {
	// Names of host bindings assumed to be available.
	globals []string
	content map[lsp.DocumentURI]string
}

func newServer(globals []string) *server {
	return &server{globals, make(map[lsp.DocumentURI]string)}
}

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":              s.initialize,
		"textDocument/didOpen":    s.didOpen,
		"textDocument/didChange":  s.didChange,
		"textDocument/hover":      s.hover,
		"textDocument/completion": s.completion,

		"textDocument/didClose": s.didClose,
		// Required by spec.
		"initialized": noop,
		// Called by clients even when server doesn't advertise support:
		// https://microsoft.github.io/language-server-protocol/specification#workspace_didChangeWatchedFiles
		"workspace/didChangeWatchedFiles": noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

// Handler implementations. These are all called synchronously.

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	logger.Println("initializing")
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			CompletionProvider: &lsp.CompletionOptions{},
			HoverProvider:      true,
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri, content := params.TextDocument.URI, params.TextDocument.Text
	s.content[uri] = content
	go publishDiagnostics(ctx, conn, uri, diagnostics(uri, content, s.globals))
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}

	// ContentChanges includes full text since the server is only advertised to
	// support that; see the initialize method.
	uri, content := params.TextDocument.URI, params.ContentChanges[0].Text
	s.content[uri] = content
	go publishDiagnostics(ctx, conn, uri, diagnostics(uri, content, s.globals))
	return nil, nil
}

func (s *server) didClose(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	delete(s.content, params.TextDocument.URI)
	return nil, nil
}

func (s *server) hover(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	content := s.content[params.TextDocument.URI]
	tok, ok := wordAt(content, lspPositionToIdx(content, params.Position))
	if !ok || tok.Kind != parse.NameToken {
		return lsp.Hover{}, nil
	}
	doc := builtins.Doc(tok.Text)
	if doc == "" {
		return lsp.Hover{}, nil
	}
	rg := lspRangeFromRange(content, tok)
	return lsp.Hover{
		Contents: []lsp.MarkedString{lsp.RawMarkedString(doc)},
		Range:    &rg,
	}, nil
}

func (s *server) completion(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.CompletionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	content := s.content[params.TextDocument.URI]
	dot := lspPositionToIdx(content, params.Position)
	replace := diag.PointRanging(dot)
	if tok, ok := wordAt(content, dot); ok {
		replace = diag.Ranging{From: tok.From, To: dot}
	}
	prefix := content[replace.From:replace.To]
	lspRange := lspRangeFromRange(content, replace)

	items := []lsp.CompletionItem{}
	add := func(name string, kind lsp.CompletionItemKind, detail string) {
		if strings.HasPrefix(name, prefix) {
			items = append(items, lsp.CompletionItem{
				Label:  name,
				Kind:   kind,
				Detail: detail,
				TextEdit: &lsp.TextEdit{
					Range:   lspRange,
					NewText: name,
				},
			})
		}
	}
	for _, kw := range sortedKeywords() {
		add(kw, lsp.CIKKeyword, "")
	}
	for _, name := range builtins.Names() {
		kind := lsp.CIKConstant
		if v, _ := builtins.Value(name); isCallable(v) {
			kind = lsp.CIKFunction
		}
		add(name, kind, builtins.Doc(name))
	}
	for _, name := range s.globals {
		add(name, lsp.CIKVariable, "host binding")
	}
	return items, nil
}

func sortedKeywords() []string {
	kws := parse.Keywords()
	sort.Strings(kws)
	return kws
}

func isCallable(v any) bool {
	_, ok := v.(vals.Callable)
	return ok
}

// Finds the identifier or keyword whose range contains idx, including the
// position just after its end.
func wordAt(content string, idx int) (parse.Token, bool) {
	lx := parse.Tokenize(parse.Source{Code: content})
	for {
		tok, err := lx.Next()
		if err != nil {
			continue
		}
		if tok.Kind == parse.EOFToken || tok.From > idx {
			return parse.Token{}, false
		}
		if (tok.Kind == parse.NameToken || tok.Kind == parse.KeywordToken) &&
			tok.Touches(idx) {
			return tok, true
		}
	}
}

func publishDiagnostics(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, diags []lsp.Diagnostic) {
	conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: diags})
}

func diagnostics(uri lsp.DocumentURI, content string, globals []string) []lsp.Diagnostic {
	_, err := expr.Compile(parse.Source{Name: string(uri), Code: content},
		expr.CompileCfg{Globals: globals})
	if err == nil {
		return []lsp.Diagnostic{}
	}
	d, ok := err.(*expr.Diagnostic)
	if !ok {
		logger.Println("unexpected compilation error:", err)
		return []lsp.Diagnostic{}
	}
	return []lsp.Diagnostic{{
		Range:    lspRangeFromRange(content, d),
		Severity: lsp.Error,
		Source:   d.Kind.String(),
		Message:  d.Message,
	}}
}

func lspRangeFromRange(s string, r diag.Ranger) lsp.Range {
	rg := r.Range()
	return lsp.Range{
		Start: lspPositionFromIdx(s, rg.From),
		End:   lspPositionFromIdx(s, rg.To),
	}
}

func lspPositionToIdx(s string, pos lsp.Position) int {
	var idx int
	walkString(s, func(i int, p lsp.Position) bool {
		idx = i
		return p.Line < pos.Line || (p.Line == pos.Line && p.Character < pos.Character)
	})
	return idx
}

func lspPositionFromIdx(s string, idx int) lsp.Position {
	var pos lsp.Position
	walkString(s, func(i int, p lsp.Position) bool {
		pos = p
		return i < idx
	})
	return pos
}

// Generates (index, lspPosition) pairs in s, stopping if f returns false.
func walkString(s string, f func(i int, p lsp.Position) bool) {
	var p lsp.Position
	lastCR := false

	for i, r := range s {
		if !f(i, p) {
			return
		}
		switch {
		case r == '\r':
			p.Line++
			p.Character = 0
		case r == '\n':
			if lastCR {
				// Ignore \n if it's part of a \r\n sequence
			} else {
				p.Line++
				p.Character = 0
			}
		case r <= 0xFFFF:
			// Encoded in UTF-16 with one unit
			p.Character++
		default:
			// Encoded in UTF-16 with two units
			p.Character += 2
		}
		lastCR = r == '\r'
	}
	f(len(s), p)
}
