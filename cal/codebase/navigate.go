package codebase

import (
	"strings"

	"github.com/dhamidi/cside/cal/parser"
	"github.com/dhamidi/cside/cal/symbols"
)

// Location is a resolved source position inside one file.
type Location struct {
	Path string
	Span parser.Span
}

// SymbolInfo is one named declaration for symbol listings.
type SymbolInfo struct {
	Name      string
	Kind      symbols.SymbolKind
	Container string
	Path      string
	Span      parser.Span
}

type CompletionItem struct {
	Label  string
	Kind   symbols.SymbolKind
	Detail string
}

// identifierAt finds the identifier token covering the byte offset. The
// offset may sit anywhere inside the token, including its closing quote.
func identifierAt(f *FileInfo, offset int) (parser.Token, bool) {
	for _, tok := range f.Tokens {
		if tok.Span.Start.Offset > offset {
			break
		}
		if !tok.Span.Contains(offset) {
			continue
		}
		if tok.Kind == parser.TokenIdent || tok.Kind == parser.TokenQuotedIdent {
			return tok, true
		}
	}
	return parser.Token{}, false
}

// CompletionsAt lists every symbol visible at the offset, innermost scope
// first.
func (c *Codebase) CompletionsAt(path string, offset int) []CompletionItem {
	f := c.GetFile(path)
	if f == nil || f.Table == nil {
		return nil
	}
	scope := f.Table.GetScopeAtOffset(offset)
	if scope == nil {
		return nil
	}
	var items []CompletionItem
	for _, sym := range f.Table.GetVisibleSymbols(scope.ID) {
		items = append(items, CompletionItem{
			Label:  sym.Name,
			Kind:   sym.Kind,
			Detail: sym.Type,
		})
	}
	return items
}

// DefinitionAt resolves the identifier at the offset to its declaration.
func (c *Codebase) DefinitionAt(path string, offset int) *Location {
	f := c.GetFile(path)
	if f == nil || f.Table == nil {
		return nil
	}
	tok, ok := identifierAt(f, offset)
	if !ok {
		return nil
	}
	sym := f.Table.GetSymbolAtOffset(offset, tok.Literal)
	if sym == nil {
		return nil
	}
	return &Location{Path: path, Span: sym.Token.Span}
}

// ReferencesAt lists every occurrence of the identifier at the offset within
// its file, declaration included. Matching ignores case and quoting.
func (c *Codebase) ReferencesAt(path string, offset int) []Location {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}
	tok, ok := identifierAt(f, offset)
	if !ok {
		return nil
	}
	var refs []Location
	for _, t := range f.Tokens {
		if t.Kind != parser.TokenIdent && t.Kind != parser.TokenQuotedIdent {
			continue
		}
		if strings.EqualFold(t.Literal, tok.Literal) {
			refs = append(refs, Location{Path: path, Span: t.Span})
		}
	}
	return refs
}

// DocumentSymbols lists the object and its top-level declarations in source
// order.
func (c *Codebase) DocumentSymbols(path string) []SymbolInfo {
	f := c.GetFile(path)
	if f == nil || f.AST == nil || f.AST.Object == nil {
		return nil
	}
	obj := f.AST.Object

	infos := []SymbolInfo{{
		Name: obj.Name,
		Kind: symbols.SymbolObject,
		Path: path,
		Span: obj.Span(),
	}}

	if f.Table != nil {
		if root := f.Table.GetRootScope(); root != nil {
			for _, sym := range root.Symbols() {
				infos = append(infos, SymbolInfo{
					Name:      sym.Name,
					Kind:      sym.Kind,
					Container: obj.Name,
					Path:      path,
					Span:      sym.Token.Span,
				})
			}
		}
	}
	return infos
}

// WorkspaceSymbols matches root-level symbols across all files by substring,
// ignoring case. An empty query matches everything.
func (c *Codebase) WorkspaceSymbols(query string) []SymbolInfo {
	query = strings.ToUpper(query)
	var infos []SymbolInfo
	for _, f := range c.Files() {
		for _, info := range c.DocumentSymbols(f.Path) {
			if query == "" || strings.Contains(strings.ToUpper(info.Name), query) {
				infos = append(infos, info)
			}
		}
	}
	return infos
}
