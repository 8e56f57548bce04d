package symbols

import (
	"strings"

	"github.com/dhamidi/cside/cal/parser"
)

// Table is the symbol table for one document. Scopes live in a flat arena
// and reference their parent by index; the root scope holds fields, global
// variables, and procedure names, and each procedure or trigger gets a
// child scope for its parameters and locals.
type Table struct {
	scopes []*Scope
}

// BuildFromAST walks a parsed document and collects every declaration into
// a fresh table. The walk is total: parse errors leave partial nodes behind,
// and whatever names they carry are still registered.
func BuildFromAST(doc *parser.Document) *Table {
	t := &Table{}
	root := t.newScope(NoScope, "")
	if doc == nil {
		return t
	}
	root.Span = doc.Span()
	if doc.Object == nil {
		return t
	}

	obj := doc.Object
	root.Name = obj.Name

	if obj.Fields != nil {
		for _, field := range obj.Fields.Fields {
			if field.FieldName == "" {
				continue
			}
			root.declare(&Symbol{
				Name:  field.FieldName,
				Kind:  SymbolField,
				Token: field.NameToken,
				Type:  typeText(field.DataType),
			})
		}
	}

	if obj.Code != nil {
		for _, global := range obj.Code.Variables {
			t.declareVariable(root, global)
		}
		for _, proc := range obj.Code.Procedures {
			t.addProcedure(root, proc)
		}
	}

	t.addTriggers(root, doc)
	return t
}

func (t *Table) newScope(parent ScopeID, name string) *Scope {
	s := &Scope{
		ID:      ScopeID(len(t.scopes)),
		Parent:  parent,
		Name:    name,
		symbols: make(map[string]*Symbol),
	}
	t.scopes = append(t.scopes, s)
	return s
}

func (t *Table) declareVariable(scope *Scope, v *parser.Variable) {
	if v.Name == "" {
		return
	}
	scope.declare(&Symbol{
		Name:  v.Name,
		Kind:  SymbolVariable,
		Token: v.NameToken,
		Type:  typeText(v.DataType),
	})
}

func (t *Table) addProcedure(root *Scope, proc *parser.Procedure) {
	kind := SymbolProcedure
	if proc.ProcedureKind == parser.ProcedureKindFunction {
		kind = SymbolFunction
	}
	if proc.Name != "" {
		root.declare(&Symbol{
			Name:  proc.Name,
			Kind:  kind,
			Token: proc.NameToken,
			Type:  typeText(proc.ReturnType),
		})
	}

	scope := t.newScope(root.ID, proc.Name)
	scope.Span = proc.Span()
	for _, param := range proc.Parameters {
		if param.Name == "" {
			continue
		}
		scope.declare(&Symbol{
			Name:  param.Name,
			Kind:  SymbolParameter,
			Token: param.NameToken,
			Type:  typeText(param.DataType),
		})
	}
	if proc.ReturnName != "" {
		scope.declare(&Symbol{
			Name: proc.ReturnName,
			Kind: SymbolVariable,
			Type: typeText(proc.ReturnType),
		})
	}
	for _, local := range proc.Locals {
		t.declareVariable(scope, local)
	}
}

// addTriggers finds every property-attached trigger with local variables and
// gives it its own scope, so OnValidate locals don't leak into the object.
func (t *Table) addTriggers(root *Scope, doc *parser.Document) {
	parser.Walk(doc, func(n parser.Node) bool {
		trig, ok := n.(*parser.Trigger)
		if !ok {
			return true
		}
		if len(trig.Locals) == 0 {
			return false
		}
		scope := t.newScope(root.ID, trig.Name)
		scope.Span = trig.Span()
		for _, local := range trig.Locals {
			t.declareVariable(scope, local)
		}
		return false
	})
}

// GetRootScope returns the document's outermost scope.
func (t *Table) GetRootScope() *Scope {
	if len(t.scopes) == 0 {
		return nil
	}
	return t.scopes[0]
}

// Scopes returns all scopes in creation order, root first.
func (t *Table) Scopes() []*Scope {
	return t.scopes
}

// GetSymbol resolves name starting from the given scope and walking the
// parent chain. Matching ignores case.
func (t *Table) GetSymbol(scope ScopeID, name string) *Symbol {
	for scope != NoScope && int(scope) < len(t.scopes) {
		s := t.scopes[scope]
		if sym := s.Lookup(name); sym != nil {
			return sym
		}
		scope = s.Parent
	}
	return nil
}

// GetGlobalSymbol resolves a name without a scope. The root scope is
// consulted first, then every procedure and trigger scope in declaration
// order; the first match wins.
func (t *Table) GetGlobalSymbol(name string) *Symbol {
	for _, s := range t.scopes {
		if sym := s.Lookup(name); sym != nil {
			return sym
		}
	}
	return nil
}

// GetScopeAtOffset returns the innermost scope whose span contains the
// byte offset. Falls back to the root when no nested scope matches.
func (t *Table) GetScopeAtOffset(offset int) *Scope {
	best := t.GetRootScope()
	if best == nil {
		return nil
	}
	for _, s := range t.scopes[1:] {
		if !s.Span.Contains(offset) {
			continue
		}
		if best.ID == 0 || spanWithin(s.Span, best.Span) {
			best = s
		}
	}
	return best
}

// GetSymbolAtOffset resolves name as seen from the code at offset.
func (t *Table) GetSymbolAtOffset(offset int, name string) *Symbol {
	scope := t.GetScopeAtOffset(offset)
	if scope == nil {
		return nil
	}
	return t.GetSymbol(scope.ID, name)
}

// GetVisibleSymbols returns every symbol visible from the scope, innermost
// declarations first. A name declared in an inner scope shadows the same
// name further out.
func (t *Table) GetVisibleSymbols(scope ScopeID) []*Symbol {
	var out []*Symbol
	seen := make(map[string]bool)
	for scope != NoScope && int(scope) < len(t.scopes) {
		s := t.scopes[scope]
		for _, sym := range s.Symbols() {
			key := strings.ToUpper(sym.Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, sym)
		}
		scope = s.Parent
	}
	return out
}

func spanWithin(inner, outer parser.Span) bool {
	return inner.Start.Offset >= outer.Start.Offset && inner.End.Offset <= outer.End.Offset
}

func typeText(ref *parser.TypeReference) string {
	if ref == nil {
		return ""
	}
	var b strings.Builder
	for i, tok := range ref.Tokens {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Literal)
	}
	return b.String()
}
