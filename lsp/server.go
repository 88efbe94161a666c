// Package lsp serves grammar diagnostics over the Language Server Protocol.
package lsp

import (
	"errors"
	"fmt"
	"sync"
	"unicode/utf16"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/chomp/ebnf/lex"
	"github.com/dhamidi/chomp/ebnf/parse"
)

const lsName = "chomp"

var log = commonlog.GetLogger("chomp.lsp")

// Config selects the grammar documents are checked against.
type Config struct {
	parse.Config
	Watch bool // reload the grammar when its file changes
}

type LSPServer struct {
	cfg       Config
	workspace *Workspace
	handler   protocol.Handler
	server    *server.Server
	version   string
	watcher   *GrammarWatcher

	mu     sync.Mutex
	notify glsp.NotifyFunc
}

func NewLSPServer(version string, cfg Config) (*LSPServer, error) {
	p, err := cfg.Load()
	if err != nil {
		return nil, fmt.Errorf("load grammar: %w", err)
	}

	ls := &LSPServer{
		cfg:       cfg,
		workspace: NewWorkspace(p),
		version:   version,
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls, nil
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) Workspace() *Workspace {
	return ls.workspace
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.mu.Lock()
	ls.notify = ctx.Notify
	ls.mu.Unlock()

	if ls.cfg.Watch && ls.watcher == nil {
		ls.watcher = NewGrammarWatcher(ls.cfg.Grammar, ls.reloadGrammar)
		ls.watcher.Start()
	}
	log.Infof("checking documents against %s (start %s)", ls.cfg.Grammar, ls.cfg.Start)
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Debugf("open %s", params.TextDocument.URI)
	f := ls.workspace.UpdateFile(params.TextDocument.URI, params.TextDocument.Text)
	publish(ctx.Notify, f)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			f := ls.workspace.UpdateFile(params.TextDocument.URI, textChange.Text)
			publish(ctx.Notify, f)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Debugf("close %s", params.TextDocument.URI)
	ls.workspace.RemoveFile(params.TextDocument.URI)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text == nil {
		return nil
	}
	f := ls.workspace.UpdateFile(params.TextDocument.URI, *params.Text)
	publish(ctx.Notify, f)
	return nil
}

// reloadGrammar swaps in a freshly loaded grammar and republishes the
// diagnostics of every open document. A grammar that fails to load keeps
// the previous one in place.
func (ls *LSPServer) reloadGrammar() error {
	p, err := ls.cfg.Load()
	if err != nil {
		return err
	}
	files := ls.workspace.SetParser(p)
	log.Infof("reloaded %s, rechecked %d documents", ls.cfg.Grammar, len(files))

	ls.mu.Lock()
	notify := ls.notify
	ls.mu.Unlock()
	if notify == nil {
		return nil
	}
	for _, f := range files {
		publish(notify, f)
	}
	return nil
}

func publish(notify glsp.NotifyFunc, f *FileInfo) {
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         f.URI,
		Diagnostics: toDiagnostics(f),
	})
}

func toDiagnostics(f *FileInfo) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	if f.CheckErr == nil {
		return diagnostics
	}

	severity := protocol.DiagnosticSeverityError
	source := lsName
	diagnostic := protocol.Diagnostic{
		Severity: &severity,
		Source:   &source,
		Message:  f.CheckErr.Error(),
	}

	var syntax *parse.SyntaxError
	if errors.As(f.CheckErr, &syntax) {
		diagnostic.Message = syntax.Message()
		diagnostic.Range = protocol.Range{
			Start: toPosition(syntax.Index, syntax.Position()),
			End:   toPosition(syntax.Index, syntax.End()),
		}
	}
	return append(diagnostics, diagnostic)
}

// toPosition converts to LSP coordinates: zero-based lines and UTF-16 code
// units from the start of the line.
func toPosition(index *lex.Index, p lex.Position) protocol.Position {
	start := index.LineStart(p.Line)
	units := 0
	for _, r := range index.Source()[start:p.Offset] {
		units += utf16.RuneLen(r)
	}
	return protocol.Position{
		Line:      protocol.UInteger(p.Line - 1),
		Character: protocol.UInteger(units),
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
