// Package symbols builds a queryable symbol graph from a parsed C/AL
// document: a tree of lexical scopes holding declared names, with position-
// and name-based lookup.
package symbols

import (
	"strings"

	"github.com/dhamidi/cside/cal/parser"
)

type SymbolKind int

const (
	SymbolField SymbolKind = iota
	SymbolVariable
	SymbolParameter
	SymbolProcedure
	SymbolFunction
	SymbolObject
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolField:
		return "field"
	case SymbolVariable:
		return "variable"
	case SymbolParameter:
		return "parameter"
	case SymbolProcedure:
		return "procedure"
	case SymbolFunction:
		return "function"
	case SymbolObject:
		return "object"
	default:
		return "unknown"
	}
}

// Symbol is one declared name. Token anchors the declaration in the source;
// Type is the raw data type text when the declaration has one.
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Token parser.Token
	Type  string
}

// ScopeID indexes into the table's scope arena. Parents are stored as
// indexes, not pointers, so the scope tree has no ownership cycles.
type ScopeID int

const NoScope ScopeID = -1

// Scope owns a case-insensitive name→symbol mapping and a parent reference.
// Scopes form a strict tree rooted at one root scope per document.
type Scope struct {
	ID      ScopeID
	Parent  ScopeID
	Span    parser.Span
	Name    string
	symbols map[string]*Symbol
	order   []*Symbol
}

func (s *Scope) declare(sym *Symbol) {
	key := strings.ToUpper(sym.Name)
	if _, exists := s.symbols[key]; !exists {
		s.order = append(s.order, sym)
	}
	s.symbols[key] = sym
}

// Lookup finds a symbol declared directly in this scope.
func (s *Scope) Lookup(name string) *Symbol {
	return s.symbols[strings.ToUpper(name)]
}

// Symbols returns the scope's own symbols in declaration order.
func (s *Scope) Symbols() []*Symbol {
	return s.order
}
