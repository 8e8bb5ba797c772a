package codebase

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/asls/angelscript/diag"
	"github.com/dhamidi/asls/angelscript/token"
	"github.com/dhamidi/asls/config"
)

const lsName = "asls"

var lspLog = commonlog.GetLogger("asls.lsp")

type LSPServer struct {
	codebase   *Codebase
	watcher    *Watcher
	handler    protocol.Handler
	server     *server.Server
	version    string
	configPath string

	// notify is captured from the first request so that watcher updates can
	// push diagnostics outside a request.
	mu     sync.Mutex
	notify glsp.NotifyFunc
	// open holds the documents the editor owns; disk changes to them are
	// ignored until they are closed.
	open map[string]bool
}

type ServerOption func(*LSPServer)

// WithConfigFile loads settings from path instead of the workspace's asls.toml.
func WithConfigFile(path string) ServerOption {
	return func(ls *LSPServer) {
		ls.configPath = path
	}
}

func NewLSPServer(version string, opts ...ServerOption) *LSPServer {
	ls := &LSPServer{
		version: version,
		open:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(ls)
	}

	ls.handler = protocol.Handler{
		Initialize:                     ls.initialize,
		Initialized:                    ls.initialized,
		Shutdown:                       ls.shutdown,
		SetTrace:                       ls.setTrace,
		TextDocumentDidOpen:            ls.textDocumentDidOpen,
		TextDocumentDidChange:          ls.textDocumentDidChange,
		TextDocumentDidClose:           ls.textDocumentDidClose,
		TextDocumentDidSave:            ls.textDocumentDidSave,
		TextDocumentCompletion:         ls.textDocumentCompletion,
		TextDocumentDefinition:         ls.textDocumentDefinition,
		TextDocumentReferences:         ls.textDocumentReferences,
		TextDocumentHover:              ls.textDocumentHover,
		TextDocumentSemanticTokensFull: ls.textDocumentSemanticTokensFull,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) RunTCP(address string) error {
	return ls.server.RunTCP(address)
}

func (ls *LSPServer) RunWebSocket(address string) error {
	return ls.server.RunWebSocket(address)
}

// SemanticTokenLegend lists the token types in the order of their indexes in
// semantic token data.
func SemanticTokenLegend() []string {
	var legend []string
	for _, h := range token.Highlights() {
		legend = append(legend, h.String())
	}
	return legend
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	ls.capture(ctx)

	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	cfg, err := ls.loadConfig(rootDir)
	if err != nil {
		lspLog.Errorf("%s", err)
		ls.showMessage(protocol.MessageTypeError, err.Error())
		cfg = config.Default()
	}
	if err := cfg.CheckVersion(ls.version); err != nil {
		lspLog.Warningf("%s", err)
		ls.showMessage(protocol.MessageTypeWarning, err.Error())
	}
	ls.codebase = New(rootDir, cfg)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{".", ":"},
	}
	capabilities.SemanticTokensProvider = &protocol.SemanticTokensOptions{
		Legend: protocol.SemanticTokensLegend{
			TokenTypes:     SemanticTokenLegend(),
			TokenModifiers: []string{},
		},
		Full: true,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) loadConfig(rootDir string) (*config.Config, error) {
	if ls.configPath != "" {
		return config.Load(ls.configPath)
	}
	return config.Find(rootDir)
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.capture(ctx)
	if err := ls.codebase.ScanAll(); err != nil {
		lspLog.Errorf("scan %s: %s", ls.codebase.RootDir(), err)
	}
	ls.publish(ls.codebase.Snapshots()...)

	if !ls.codebase.Config().ShouldWatch() {
		return nil
	}
	watcher, err := NewWatcher(ls.codebase, func(changed []*Snapshot, removed []string) {
		ls.publish(changed...)
		for _, path := range removed {
			ls.clearDiagnostics(path)
		}
	}, WithIgnore(ls.isOpen))
	if err != nil {
		lspLog.Warningf("file watching disabled: %s", err)
		return nil
	}
	ls.watcher = watcher
	ls.watcher.Start()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		if err := ls.watcher.Close(); err != nil {
			lspLog.Warningf("close watcher: %s", err)
		}
		ls.watcher = nil
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) capture(ctx *glsp.Context) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.notify == nil {
		ls.notify = ctx.Notify
	}
}

func (ls *LSPServer) send(method string, params any) {
	ls.mu.Lock()
	notify := ls.notify
	ls.mu.Unlock()
	if notify != nil {
		notify(method, params)
	}
}

func (ls *LSPServer) setOpen(path string, open bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if open {
		ls.open[path] = true
	} else {
		delete(ls.open, path)
	}
}

func (ls *LSPServer) isOpen(path string) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.open[path]
}

// lines returns the line index of the current snapshot of path, or nil.
func (ls *LSPServer) lines(path string) *lineIndex {
	if snap := ls.codebase.Get(path); snap != nil {
		return snap.lines
	}
	return nil
}

func (ls *LSPServer) showMessage(kind protocol.MessageType, message string) {
	ls.send(protocol.ServerWindowShowMessage, protocol.ShowMessageParams{Type: kind, Message: message})
}

func (ls *LSPServer) publish(snaps ...*Snapshot) {
	for _, snap := range snaps {
		diagnostics := snap.Diagnostics()
		lspLog.Debugf("publish %d diagnostics for %s (snapshot %s)", len(diagnostics), snap.Path, snap.ID)
		ls.send(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         pathToURI(snap.Path),
			Diagnostics: toProtocolDiagnostics(snap.lines, diagnostics),
		})
	}
}

func (ls *LSPServer) clearDiagnostics(path string) {
	ls.send(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         pathToURI(path),
		Diagnostics: []protocol.Diagnostic{},
	})
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.setOpen(path, true)
	ls.publish(ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text))...)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.publish(ls.codebase.UpdateFile(path, []byte(textChange.Text))...)
		}
	}
	return nil
}

// textDocumentDidClose hands the document back to the disk: unsaved edits
// are dropped and a document that was never saved is forgotten.
func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.setOpen(path, false)
	snaps, err := ls.codebase.ScanFile(path)
	if err != nil {
		ls.publish(ls.codebase.RemoveFile(path)...)
		ls.clearDiagnostics(path)
		return nil
	}
	ls.publish(snaps...)
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.publish(ls.codebase.UpdateFile(path, []byte(*params.Text))...)
		return nil
	}
	snaps, err := ls.codebase.ScanFile(path)
	if err != nil {
		lspLog.Warningf("reload %s: %s", path, err)
		return nil
	}
	ls.publish(snaps...)
	return nil
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}

	completions := ls.codebase.Completions(path, fromProtocolPosition(ls.lines(path), params.Position))
	if len(completions) == 0 {
		return nil, nil
	}

	items := make([]protocol.CompletionItem, 0, len(completions))
	for _, c := range completions {
		kind := toProtocolKind(c.Kind)
		item := protocol.CompletionItem{
			Label: c.Label,
			Kind:  &kind,
		}
		if c.Detail != "" {
			detail := c.Detail
			item.Detail = &detail
		}
		items = append(items, item)
	}
	return items, nil
}

func (ls *LSPServer) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	loc, ok := ls.codebase.Definition(path, fromProtocolPosition(ls.lines(path), params.Position))
	if !ok {
		return nil, nil
	}
	return toProtocolLocation(ls.lines(loc.Path), loc), nil
}

func (ls *LSPServer) textDocumentReferences(ctx *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	refs := ls.codebase.References(path, fromProtocolPosition(ls.lines(path), params.Position), params.Context.IncludeDeclaration)
	result := make([]protocol.Location, 0, len(refs))
	for _, ref := range refs {
		result = append(result, toProtocolLocation(ls.lines(ref.Path), ref))
	}
	return result, nil
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	snap := ls.codebase.Get(path)
	if snap == nil {
		return nil, nil
	}
	ref, ok := snap.Analysis.ReferenceAt(fromProtocolPosition(snap.lines, params.Position))
	if !ok {
		return nil, nil
	}
	r := toProtocolRange(snap.lines, ref.Token.Span())
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindPlainText,
			Value: Describe(ref.Symbol),
		},
		Range: &r,
	}, nil
}

func (ls *LSPServer) textDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	tokens := toUTF16Tokens(ls.lines(path), ls.codebase.SemanticTokens(path))
	return &protocol.SemanticTokens{Data: EncodeSemanticTokens(tokens)}, nil
}

// toUTF16Tokens converts byte columns and lengths to UTF-16 units.
func toUTF16Tokens(lines *lineIndex, tokens []SemanticToken) []SemanticToken {
	result := make([]SemanticToken, len(tokens))
	for i, t := range tokens {
		start := lines.utf16Column(t.Line, t.Column)
		end := lines.utf16Column(t.Line, t.Column+t.Length)
		t.Column, t.Length = start+1, end-start
		result[i] = t
	}
	return result
}

// EncodeSemanticTokens produces the relative five-integer encoding of the
// LSP semantic token data. Token types index SemanticTokenLegend.
func EncodeSemanticTokens(tokens []SemanticToken) []protocol.UInteger {
	data := make([]protocol.UInteger, 0, len(tokens)*5)
	prevLine, prevColumn := 1, 1
	for _, t := range tokens {
		deltaLine := t.Line - prevLine
		deltaStart := t.Column - 1
		if deltaLine == 0 {
			deltaStart = t.Column - prevColumn
		}
		data = append(data,
			protocol.UInteger(deltaLine),
			protocol.UInteger(deltaStart),
			protocol.UInteger(t.Length),
			protocol.UInteger(t.Tag-1),
			0,
		)
		prevLine, prevColumn = t.Line, t.Column
	}
	return data
}

func toProtocolDiagnostics(lines *lineIndex, diagnostics []diag.Diagnostic) []protocol.Diagnostic {
	result := make([]protocol.Diagnostic, 0, len(diagnostics))
	source := lsName
	for _, d := range diagnostics {
		severity := protocol.DiagnosticSeverity(d.Severity)
		result = append(result, protocol.Diagnostic{
			Range:    toProtocolRange(lines, d.Span),
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return result
}

// fromProtocolPosition converts a 0-based UTF-16 position to a 1-based byte
// position.
func fromProtocolPosition(lines *lineIndex, pos protocol.Position) token.Position {
	line := int(pos.Line) + 1
	return token.Position{Line: line, Column: lines.byteColumn(line, int(pos.Character))}
}

func toProtocolPosition(lines *lineIndex, pos token.Position) protocol.Position {
	line := pos.Line - 1
	if line < 0 {
		line = 0
	}
	column := lines.utf16Column(pos.Line, pos.Column)
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(column)}
}

func toProtocolRange(lines *lineIndex, span token.Span) protocol.Range {
	return protocol.Range{Start: toProtocolPosition(lines, span.Start), End: toProtocolPosition(lines, span.End)}
}

func toProtocolLocation(lines *lineIndex, loc Location) protocol.Location {
	return protocol.Location{URI: pathToURI(loc.Path), Range: toProtocolRange(lines, loc.Span)}
}

func toProtocolKind(kind CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case CompletionKindMethod:
		return protocol.CompletionItemKindMethod
	case CompletionKindField:
		return protocol.CompletionItemKindField
	case CompletionKindClass:
		return protocol.CompletionItemKindClass
	case CompletionKindInterface:
		return protocol.CompletionItemKindInterface
	case CompletionKindEnum:
		return protocol.CompletionItemKindEnum
	case CompletionKindFunction:
		return protocol.CompletionItemKindFunction
	case CompletionKindVariable:
		return protocol.CompletionItemKindVariable
	case CompletionKindBuiltin:
		return protocol.CompletionItemKindKeyword
	default:
		return protocol.CompletionItemKindText
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
