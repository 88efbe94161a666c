package lsp

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/chomp/ebnf/lex"
	"github.com/dhamidi/chomp/ebnf/parse"
)

const grammar = `
Program   = { Statement } .
Statement = ident "=" number ";" .
ident     = letter { letter } .
number    = digit { digit } .
letter    = "a" … "z" .
digit     = "0" … "9" .
space     = " " | "\n" .
`

type published struct {
	method string
	params protocol.PublishDiagnosticsParams
}

func newTestServer(t *testing.T, src string) (*LSPServer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ebnf")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	ls, err := NewLSPServer("test", Config{Config: parse.Config{Grammar: path, Start: "Program", Skip: "space"}})
	require.NoError(t, err)
	return ls, path
}

func recorder(out *[]published) *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			*out = append(*out, published{method: method, params: params.(protocol.PublishDiagnosticsParams)})
		},
	}
}

func TestLSPServer_PublishesDiagnostics(t *testing.T) {
	ls, _ := newTestServer(t, grammar)

	var got []published
	ctx := recorder(&got)

	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: "file:///work/a.txt", Text: "a = 1;\nb = ;"},
	}))
	require.Len(t, got, 1)
	assert.Equal(t, protocol.ServerTextDocumentPublishDiagnostics, got[0].method)

	diags := got[0].params.Diagnostics
	require.Len(t, diags, 1)
	assert.Equal(t, protocol.UInteger(1), diags[0].Range.Start.Line)
	assert.Equal(t, protocol.UInteger(4), diags[0].Range.Start.Character)
	assert.Equal(t, protocol.UInteger(5), diags[0].Range.End.Character)
	assert.Contains(t, diags[0].Message, "found ';'")
	require.NotNil(t, diags[0].Severity)
	assert.Equal(t, protocol.DiagnosticSeverityError, *diags[0].Severity)

	f := ls.Workspace().GetFile("file:///work/a.txt")
	require.NotNil(t, f)
	assert.Equal(t, "/work/a.txt", f.Path)

	require.NoError(t, ls.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument:   protocol.VersionedTextDocumentIdentifier{TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: "file:///work/a.txt"}},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "a = 1;\nb = 2;"}},
	}))
	require.Len(t, got, 2)
	assert.Empty(t, got[1].params.Diagnostics)
	assert.NotNil(t, got[1].params.Diagnostics)

	require.NoError(t, ls.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///work/a.txt"},
	}))
	require.Len(t, got, 3)
	assert.Empty(t, got[2].params.Diagnostics)
	assert.Nil(t, ls.Workspace().GetFile("file:///work/a.txt"))
}

func TestLSPServer_ReloadGrammar(t *testing.T) {
	ls, path := newTestServer(t, grammar)

	var got []published
	ctx := recorder(&got)
	require.NoError(t, ls.initialized(ctx, &protocol.InitializedParams{}))
	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: "file:///work/a.txt", Text: "a = b;"},
	}))
	require.Len(t, got[0].params.Diagnostics, 1)

	relaxed := `
Program   = { Statement } .
Statement = ident "=" ( number | ident ) ";" .
ident     = letter { letter } .
number    = digit { digit } .
letter    = "a" … "z" .
digit     = "0" … "9" .
space     = " " | "\n" .
`
	require.NoError(t, os.WriteFile(path, []byte(relaxed), 0o644))
	require.NoError(t, ls.reloadGrammar())
	require.Len(t, got, 2)
	assert.Empty(t, got[1].params.Diagnostics)

	require.NoError(t, os.WriteFile(path, []byte("Program = ."+"\n"+"Broken = missing ."), 0o644))
	assert.Error(t, ls.reloadGrammar())
	assert.Len(t, got, 2)
	assert.NoError(t, ls.Workspace().GetFile("file:///work/a.txt").CheckErr)
}

func TestGrammarWatcher_Scan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.ebnf")
	require.NoError(t, os.WriteFile(path, []byte(grammar), 0o644))

	reloads := 0
	w := NewGrammarWatcher(path, func() error {
		reloads++
		return nil
	})
	assert.False(t, w.scan())

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	assert.True(t, w.scan())
	assert.False(t, w.scan())
	assert.Equal(t, 1, reloads)
}

func TestNewLSPServer_BadGrammar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.ebnf")
	require.NoError(t, os.WriteFile(path, []byte(grammar), 0o644))

	_, err := NewLSPServer("test", Config{Config: parse.Config{Grammar: path, Start: "Nope"}})
	assert.ErrorContains(t, err, `production "Nope" not found`)
}

func TestToPosition_UTF16(t *testing.T) {
	index := lex.NewIndex("", "ab\né😀x")

	pos := toPosition(index, index.Position(9))
	assert.Equal(t, protocol.UInteger(1), pos.Line)
	assert.Equal(t, protocol.UInteger(3), pos.Character)
}

func TestUriToPath(t *testing.T) {
	assert.Equal(t, "/tmp/a b.txt", uriToPath("file:///tmp/a%20b.txt"))
	assert.Equal(t, "untitled:1", uriToPath("untitled:1"))
}
