package lsp

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
	"src.ggexpr.dev/pkg/testutil"
)

var testURI = lsp.DocumentURI("file:///foo")

var diagTests = []struct {
	name      string
	text      string
	wantDiags []lsp.Diagnostic
}{
	{"empty", "1 + 2", []lsp.Diagnostic{}},
	{"parse error", "1 +", []lsp.Diagnostic{{
		Range:    lspRange(0, 3, 0, 3),
		Severity: lsp.Error, Source: "parse error", Message: "should be expression",
	}}},
	{"check error", "let speed = 1 in\nspeeed", []lsp.Diagnostic{{
		Range:    lspRange(1, 0, 1, 6),
		Severity: lsp.Error, Source: "check error", Message: "unresolved identifier speeed; did you mean speed?",
	}}},
	{"host binding", "width / 2", []lsp.Diagnostic{}},
}

func TestDidOpen_PublishesDiagnostics(t *testing.T) {
	f := setup(t)
	for _, test := range diagTests {
		t.Run(test.name, func(t *testing.T) {
			f.call(t, "textDocument/didOpen", didOpenParams(test.text), nil)
			checkDiag(t, f.nextDiag(t), test.wantDiags)
		})
	}
}

func TestDidChange_PublishesDiagnostics(t *testing.T) {
	f := setup(t)
	f.call(t, "textDocument/didOpen", didOpenParams(""), nil)
	f.nextDiag(t)
	for _, test := range diagTests {
		t.Run(test.name, func(t *testing.T) {
			f.call(t, "textDocument/didChange", didChangeParams(test.text), nil)
			checkDiag(t, f.nextDiag(t), test.wantDiags)
		})
	}
}

func TestDidChange_NoContentChanges(t *testing.T) {
	f := setup(t)
	err := f.conn.Call(context.Background(), "textDocument/didChange",
		lsp.DidChangeTextDocumentParams{
			TextDocument: lsp.VersionedTextDocumentIdentifier{
				TextDocumentIdentifier: lsp.TextDocumentIdentifier{URI: testURI}}},
		nil)
	if err == nil {
		t.Errorf("got nil error, want non-nil")
	}
}

func TestHover(t *testing.T) {
	f := setup(t)
	f.call(t, "textDocument/didOpen", didOpenParams("floor(x) + y"), nil)
	f.nextDiag(t)

	var hover struct {
		Contents []string  `json:"contents"`
		Range    lsp.Range `json:"range"`
	}
	f.call(t, "textDocument/hover", positionParams(0, 2), &hover)
	wantContents := []string{"floor(x): the greatest integer not greater than x"}
	if diff := cmp.Diff(wantContents, hover.Contents); diff != "" {
		t.Errorf("hover contents (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(lspRange(0, 0, 0, 5), hover.Range); diff != "" {
		t.Errorf("hover range (-want +got):\n%s", diff)
	}

	// Not a builtin.
	hover.Contents = nil
	f.call(t, "textDocument/hover", positionParams(0, 11), &hover)
	if len(hover.Contents) != 0 {
		t.Errorf("got hover contents %v, want empty", hover.Contents)
	}
}

func TestCompletion(t *testing.T) {
	f := setup(t)
	f.call(t, "textDocument/didOpen", didOpenParams("1 + floo"), nil)
	f.nextDiag(t)

	var items []lsp.CompletionItem
	f.call(t, "textDocument/completion", completionParams(0, 8), &items)
	want := []lsp.CompletionItem{{
		Label:  "floor",
		Kind:   lsp.CIKFunction,
		Detail: "floor(x): the greatest integer not greater than x",
		TextEdit: &lsp.TextEdit{
			Range:   lspRange(0, 4, 0, 8),
			NewText: "floor",
		},
	}}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("completion items (-want +got):\n%s", diff)
	}
}

func TestCompletion_KeywordsAndGlobals(t *testing.T) {
	f := setup(t)
	f.call(t, "textDocument/didOpen", didOpenParams("w"), nil)
	f.nextDiag(t)

	var items []lsp.CompletionItem
	f.call(t, "textDocument/completion", completionParams(0, 1), &items)
	var labels []string
	for _, item := range items {
		labels = append(labels, item.Label)
	}
	if diff := cmp.Diff([]string{"when", "width"}, labels); diff != "" {
		t.Errorf("completion labels (-want +got):\n%s", diff)
	}
}

func TestJSONRPCErrors(t *testing.T) {
	f := setup(t)
	for _, method := range []string{"textDocument/didOpen", "textDocument/didChange", "textDocument/hover", "textDocument/completion"} {
		t.Run(method, func(t *testing.T) {
			err := f.conn.Call(context.Background(), method, "not an object", nil)
			checkErr(t, err, errInvalidParams)
		})
	}
	t.Run("unknown method", func(t *testing.T) {
		err := f.conn.Call(context.Background(), "unknown/method", struct{}{}, nil)
		checkErr(t, err, errMethodNotFound)
	})
}

func TestInitialize(t *testing.T) {
	f := setup(t)
	var result lsp.InitializeResult
	f.call(t, "initialize", struct{}{}, &result)
	if !result.Capabilities.HoverProvider {
		t.Errorf("hover provider not advertised")
	}
	if result.Capabilities.CompletionProvider == nil {
		t.Errorf("completion provider not advertised")
	}
}

func TestSplitGlobals(t *testing.T) {
	got := splitGlobals(" width, ,scale,")
	if diff := cmp.Diff([]string{"width", "scale"}, got); diff != "" {
		t.Errorf("splitGlobals (-want +got):\n%s", diff)
	}
}

func didOpenParams(text string) lsp.DidOpenTextDocumentParams {
	return lsp.DidOpenTextDocumentParams{
		TextDocument: lsp.TextDocumentItem{URI: testURI, Text: text}}
}

func didChangeParams(text string) lsp.DidChangeTextDocumentParams {
	return lsp.DidChangeTextDocumentParams{
		TextDocument: lsp.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: lsp.TextDocumentIdentifier{URI: testURI}},
		ContentChanges: []lsp.TextDocumentContentChangeEvent{{Text: text}}}
}

func positionParams(line, char int) lsp.TextDocumentPositionParams {
	return lsp.TextDocumentPositionParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: testURI},
		Position:     lsp.Position{Line: line, Character: char}}
}

func completionParams(line, char int) lsp.CompletionParams {
	return lsp.CompletionParams{TextDocumentPositionParams: positionParams(line, char)}
}

func lspRange(l1, c1, l2, c2 int) lsp.Range {
	return lsp.Range{
		Start: lsp.Position{Line: l1, Character: c1},
		End:   lsp.Position{Line: l2, Character: c2},
	}
}

func checkDiag(t *testing.T, got lsp.PublishDiagnosticsParams, want []lsp.Diagnostic) {
	t.Helper()
	if got.URI != testURI {
		t.Errorf("got URI %v, want %v", got.URI, testURI)
	}
	if diff := cmp.Diff(want, got.Diagnostics); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}
}

func checkErr(t *testing.T, got error, want *jsonrpc2.Error) {
	t.Helper()
	rpcErr, ok := got.(*jsonrpc2.Error)
	if !ok || rpcErr.Code != want.Code {
		t.Errorf("got error %v, want %v", got, want)
	}
}

type clientFixture struct {
	conn  *jsonrpc2.Conn
	diags <-chan lsp.PublishDiagnosticsParams
}

func setup(t *testing.T) *clientFixture {
	r0, w0 := net.Pipe()
	r1, w1 := net.Pipe()
	ctx, cancel := context.WithCancel(context.Background())

	serverConn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(pipeRWC{r0, w1}, jsonrpc2.VSCodeObjectCodec{}),
		handler(newServer([]string{"width"})))

	diags := make(chan lsp.PublishDiagnosticsParams, 100)
	clientConn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(pipeRWC{r1, w0}, jsonrpc2.VSCodeObjectCodec{}),
		clientHandler{diags})

	t.Cleanup(func() {
		cancel()
		clientConn.Close()
		serverConn.Close()
	})
	return &clientFixture{clientConn, diags}
}

func (f *clientFixture) call(t *testing.T, method string, params, result any) {
	t.Helper()
	err := f.conn.Call(context.Background(), method, params, result)
	if err != nil {
		t.Fatalf("call %s: %v", method, err)
	}
}

func (f *clientFixture) nextDiag(t *testing.T) lsp.PublishDiagnosticsParams {
	t.Helper()
	select {
	case d := <-f.diags:
		return d
	case <-time.After(testutil.Scaled(time.Second)):
		t.Fatal("timed out waiting for diagnostics")
		return lsp.PublishDiagnosticsParams{}
	}
}

type clientHandler struct {
	diags chan<- lsp.PublishDiagnosticsParams
}

func (h clientHandler) Handle(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) {
	if req.Method == "textDocument/publishDiagnostics" && req.Params != nil {
		var params lsp.PublishDiagnosticsParams
		if json.Unmarshal(*req.Params, &params) == nil {
			h.diags <- params
		}
	}
}

type pipeRWC struct {
	r, w net.Conn
}

func (p pipeRWC) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p pipeRWC) Write(b []byte) (int, error) { return p.w.Write(b) }

func (p pipeRWC) Close() error {
	p.r.Close()
	return p.w.Close()
}
