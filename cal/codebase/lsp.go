package codebase

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/dhamidi/cside/cal/parser"
	"github.com/dhamidi/cside/cal/symbols"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "cside"

type LSPServer struct {
	codebase   *Codebase
	handler    protocol.Handler
	server     *server.Server
	version    string
	extensions []string
}

func NewLSPServer(version string, extensions ...string) *LSPServer {
	ls := &LSPServer{
		version:    version,
		extensions: extensions,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentCompletion:     ls.textDocumentCompletion,
		TextDocumentDefinition:     ls.textDocumentDefinition,
		TextDocumentReferences:     ls.textDocumentReferences,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		WorkspaceSymbol:            ls.workspaceSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(rootDir, ls.extensions...)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{}
	capabilities.DefinitionProvider = boolPtr(true)
	capabilities.ReferencesProvider = boolPtr(true)
	capabilities.DocumentSymbolProvider = boolPtr(true)
	capabilities.WorkspaceSymbolProvider = boolPtr(true)

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.codebase.ScanAll()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text))
	ls.publishDiagnostics(ctx, params.TextDocument.URI, path)
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
			ls.codebase.UpdateFile(path, []byte(textChange.Text))
			ls.publishDiagnostics(ctx, params.TextDocument.URI, path)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.codebase.UpdateFile(path, []byte(*params.Text))
	} else {
		ls.codebase.ScanFile(path)
	}
	ls.publishDiagnostics(ctx, params.TextDocument.URI, path)
	return nil
}

// publishDiagnostics pushes the file's current parse diagnostics. An empty
// list clears earlier ones on the client.
func (ls *LSPServer) publishDiagnostics(ctx *glsp.Context, uri string, path string) {
	f := ls.codebase.GetFile(path)
	if f == nil {
		return
	}

	diagnostics := make([]protocol.Diagnostic, 0, len(f.Errors))
	severity := protocol.DiagnosticSeverityError
	source := lsName
	for _, e := range f.Errors {
		code := protocol.IntegerOrString{Value: e.Code}
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    spanToRange(e.Token.Span),
			Severity: &severity,
			Code:     &code,
			Source:   &source,
			Message:  e.Message,
		})
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, f, offset := ls.resolvePosition(params.TextDocument.URI, params.Position)
	if f == nil {
		return nil, nil
	}

	completions := ls.codebase.CompletionsAt(path, offset)
	if len(completions) == 0 {
		return nil, nil
	}

	items := make([]protocol.CompletionItem, 0, len(completions))
	for _, c := range completions {
		kind := toCompletionKind(c.Kind)
		detail := c.Detail
		items = append(items, protocol.CompletionItem{
			Label:  c.Label,
			Kind:   &kind,
			Detail: &detail,
		})
	}
	return items, nil
}

func (ls *LSPServer) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	path, f, offset := ls.resolvePosition(params.TextDocument.URI, params.Position)
	if f == nil {
		return nil, nil
	}

	loc := ls.codebase.DefinitionAt(path, offset)
	if loc == nil {
		return nil, nil
	}
	return protocol.Location{
		URI:   params.TextDocument.URI,
		Range: spanToRange(loc.Span),
	}, nil
}

func (ls *LSPServer) textDocumentReferences(ctx *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	path, f, offset := ls.resolvePosition(params.TextDocument.URI, params.Position)
	if f == nil {
		return nil, nil
	}

	refs := ls.codebase.ReferencesAt(path, offset)
	if len(refs) == 0 {
		return nil, nil
	}
	locations := make([]protocol.Location, 0, len(refs))
	for _, ref := range refs {
		locations = append(locations, protocol.Location{
			URI:   params.TextDocument.URI,
			Range: spanToRange(ref.Span),
		})
	}
	return locations, nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	infos := ls.codebase.DocumentSymbols(path)
	if len(infos) == 0 {
		return nil, nil
	}

	out := make([]protocol.SymbolInformation, 0, len(infos))
	for _, info := range infos {
		out = append(out, toSymbolInformation(info, params.TextDocument.URI))
	}
	return out, nil
}

func (ls *LSPServer) workspaceSymbol(ctx *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	infos := ls.codebase.WorkspaceSymbols(params.Query)
	if len(infos) == 0 {
		return nil, nil
	}
	out := make([]protocol.SymbolInformation, 0, len(infos))
	for _, info := range infos {
		out = append(out, toSymbolInformation(info, pathToURI(info.Path)))
	}
	return out, nil
}

// resolvePosition maps an LSP URI + position to the tracked file and a byte
// offset into its content.
func (ls *LSPServer) resolvePosition(uri string, pos protocol.Position) (string, *FileInfo, int) {
	path, err := uriToPath(uri)
	if err != nil {
		return "", nil, 0
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return path, nil, 0
	}
	return path, f, offsetForPosition(f.Content, int(pos.Line), int(pos.Character))
}

// offsetForPosition converts 0-based line/character into a byte offset,
// clamping past-end positions to the line or file end.
func offsetForPosition(content []byte, line, character int) int {
	offset := 0
	for line > 0 && offset < len(content) {
		if content[offset] == '\n' {
			line--
		}
		offset++
	}
	for character > 0 && offset < len(content) && content[offset] != '\n' {
		character--
		offset++
	}
	return offset
}

// spanToRange converts a 1-based token span to a 0-based protocol range.
func spanToRange(span parser.Span) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{
			Line:      uint32(max(span.Start.Line-1, 0)),
			Character: uint32(max(span.Start.Column-1, 0)),
		},
		End: protocol.Position{
			Line:      uint32(max(span.End.Line-1, 0)),
			Character: uint32(max(span.End.Column-1, 0)),
		},
	}
}

func toSymbolInformation(info SymbolInfo, uri string) protocol.SymbolInformation {
	si := protocol.SymbolInformation{
		Name: info.Name,
		Kind: toSymbolKind(info.Kind),
		Location: protocol.Location{
			URI:   uri,
			Range: spanToRange(info.Span),
		},
	}
	if info.Container != "" {
		container := info.Container
		si.ContainerName = &container
	}
	return si
}

func toCompletionKind(kind symbols.SymbolKind) protocol.CompletionItemKind {
	switch kind {
	case symbols.SymbolProcedure, symbols.SymbolFunction:
		return protocol.CompletionItemKindFunction
	case symbols.SymbolField:
		return protocol.CompletionItemKindField
	default:
		return protocol.CompletionItemKindVariable
	}
}

func toSymbolKind(kind symbols.SymbolKind) protocol.SymbolKind {
	switch kind {
	case symbols.SymbolProcedure, symbols.SymbolFunction:
		return protocol.SymbolKindFunction
	case symbols.SymbolField:
		return protocol.SymbolKindField
	case symbols.SymbolObject:
		return protocol.SymbolKindClass
	default:
		return protocol.SymbolKindVariable
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
	if strings.HasPrefix(path, "file://") {
		return path
	}
	return "file://" + filepath.ToSlash(path)
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
