package symbols

import (
	"strings"
	"testing"

	"github.com/dhamidi/cside/cal/parser"
)

const codeunitSource = `OBJECT Codeunit 80 Sales-Post
{
  CODE
  {
    VAR
      SalesSetup@1000 : Record 311;
      Counter@1001 : Integer;

    PROCEDURE Post@1(VAR SalesHeader@1000 : Record 36) Posted : Boolean;
    VAR
      Counter@1001 : Integer;
      LineNo@1002 : Integer;
    BEGIN
      Counter := 0;
    END;

    LOCAL PROCEDURE CheckLine@2(LineNo@1000 : Integer);
    BEGIN
    END;

    BEGIN
    END.
  }
}`

func buildTable(t *testing.T, source string) *Table {
	t.Helper()
	doc, errs := parser.ParseText([]byte(source))
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return BuildFromAST(doc)
}

func TestBuildFromAST_RootSymbols(t *testing.T) {
	table := buildTable(t, codeunitSource)
	root := table.GetRootScope()
	if root == nil {
		t.Fatal("no root scope")
	}
	if root.Name != "Sales-Post" {
		t.Errorf("got root scope name %q, want object name", root.Name)
	}

	tests := []struct {
		name string
		kind SymbolKind
	}{
		{"SalesSetup", SymbolVariable},
		{"Counter", SymbolVariable},
		{"Post", SymbolProcedure},
		{"CheckLine", SymbolProcedure},
	}
	for _, tt := range tests {
		sym := root.Lookup(tt.name)
		if sym == nil {
			t.Errorf("%s not declared at root", tt.name)
			continue
		}
		if sym.Kind != tt.kind {
			t.Errorf("%s: got kind %v, want %v", tt.name, sym.Kind, tt.kind)
		}
	}
}

func TestBuildFromAST_FieldsAtRoot(t *testing.T) {
	table := buildTable(t, `OBJECT Table 18 Customer
{
  FIELDS
  {
    { 1 ; ; No. ; Code20 }
    { 2 ; ; "Credit Limit" ; Decimal }
  }
}`)
	root := table.GetRootScope()

	sym := root.Lookup("No.")
	if sym == nil || sym.Kind != SymbolField {
		t.Fatalf("got %+v, want field No.", sym)
	}
	if sym.Type != "Code20" {
		t.Errorf("got type %q, want Code20", sym.Type)
	}
	if root.Lookup("Credit Limit") == nil {
		t.Errorf("quoted field name not declared")
	}
}

func TestGetSymbol_CaseInsensitive(t *testing.T) {
	table := buildTable(t, codeunitSource)
	root := table.GetRootScope()
	for _, name := range []string{"salessetup", "SALESSETUP", "SalesSetup"} {
		if table.GetSymbol(root.ID, name) == nil {
			t.Errorf("lookup of %q failed", name)
		}
	}
}

func TestGetSymbol_WalksParentChain(t *testing.T) {
	table := buildTable(t, codeunitSource)

	var postScope *Scope
	for _, s := range table.Scopes() {
		if s.Name == "Post" {
			postScope = s
		}
	}
	if postScope == nil {
		t.Fatal("no scope for procedure Post")
	}

	// Locals and parameters resolve in the procedure scope.
	if sym := table.GetSymbol(postScope.ID, "SalesHeader"); sym == nil || sym.Kind != SymbolParameter {
		t.Errorf("parameter not visible in procedure scope: %+v", sym)
	}
	if sym := table.GetSymbol(postScope.ID, "LineNo"); sym == nil || sym.Kind != SymbolVariable {
		t.Errorf("local not visible in procedure scope: %+v", sym)
	}
	if sym := table.GetSymbol(postScope.ID, "Posted"); sym == nil {
		t.Errorf("named return value not declared in procedure scope")
	}

	// Globals resolve through the parent chain.
	if table.GetSymbol(postScope.ID, "SalesSetup") == nil {
		t.Errorf("global not reachable from procedure scope")
	}

	// Another procedure's locals stay invisible.
	var checkScope *Scope
	for _, s := range table.Scopes() {
		if s.Name == "CheckLine" {
			checkScope = s
		}
	}
	if table.GetSymbol(checkScope.ID, "SalesHeader") != nil {
		t.Errorf("parameter leaked across procedures")
	}
}

func TestGetSymbol_ShadowingInnermostWins(t *testing.T) {
	table := buildTable(t, codeunitSource)
	var postScope *Scope
	for _, s := range table.Scopes() {
		if s.Name == "Post" {
			postScope = s
		}
	}

	// Counter exists both as a global and as a local of Post. From inside
	// Post the local wins; its declaration token differs from the global's.
	global := table.GetRootScope().Lookup("Counter")
	inner := table.GetSymbol(postScope.ID, "Counter")
	if inner == nil || global == nil {
		t.Fatal("Counter missing")
	}
	if inner.Token.Span.Start.Offset == global.Token.Span.Start.Offset {
		t.Errorf("inner lookup returned the shadowed global")
	}
}

func TestGetGlobalSymbol_NameOnly(t *testing.T) {
	table := buildTable(t, codeunitSource)

	// Counter is declared both globally and as a local of Post; the root
	// declaration wins in a name-only lookup.
	sym := table.GetGlobalSymbol("Counter")
	if sym == nil {
		t.Fatal("Counter not found")
	}
	global := table.GetRootScope().Lookup("Counter")
	if sym.Token.Span.Start.Offset != global.Token.Span.Start.Offset {
		t.Errorf("name-only lookup skipped the root declaration")
	}

	// Names declared only inside a procedure still resolve.
	if s := table.GetGlobalSymbol("SalesHeader"); s == nil || s.Kind != SymbolParameter {
		t.Errorf("got %+v, want the Post parameter", s)
	}

	if table.GetGlobalSymbol("NoSuchName") != nil {
		t.Errorf("missing name resolved")
	}
}

func TestGetScopeAtOffset(t *testing.T) {
	source := codeunitSource
	table := buildTable(t, source)

	// An offset inside Post's body lands in Post's scope.
	bodyOffset := strings.Index(source, "Counter := 0")
	scope := table.GetScopeAtOffset(bodyOffset)
	if scope == nil || scope.Name != "Post" {
		t.Fatalf("got scope %+v, want Post", scope)
	}

	// An offset in the global VAR block resolves to the root.
	globalOffset := strings.Index(source, "SalesSetup")
	if s := table.GetScopeAtOffset(globalOffset); s == nil || s.ID != 0 {
		t.Errorf("got scope %+v, want root", s)
	}

	if sym := table.GetSymbolAtOffset(bodyOffset, "LineNo"); sym == nil {
		t.Errorf("local not resolvable by offset")
	}
}

func TestGetVisibleSymbols_DedupsShadowed(t *testing.T) {
	table := buildTable(t, codeunitSource)
	var postScope *Scope
	for _, s := range table.Scopes() {
		if s.Name == "Post" {
			postScope = s
		}
	}

	visible := table.GetVisibleSymbols(postScope.ID)
	counters := 0
	names := make(map[string]bool)
	for _, sym := range visible {
		if strings.EqualFold(sym.Name, "Counter") {
			counters++
		}
		names[strings.ToUpper(sym.Name)] = true
	}
	if counters != 1 {
		t.Errorf("got %d Counter entries, want the inner one only", counters)
	}
	for _, want := range []string{"SALESHEADER", "LINENO", "SALESSETUP", "POST", "CHECKLINE"} {
		if !names[want] {
			t.Errorf("%s not visible from procedure scope", want)
		}
	}
}

func TestBuildFromAST_TriggerLocals(t *testing.T) {
	table := buildTable(t, `OBJECT Table 18 Customer
{
  PROPERTIES
  {
    OnInsert=VAR
               Handler@1000 : Codeunit 80;
             BEGIN
               Handler.RUN;
             END;
  }
  FIELDS
  {
    { 1 ; ; No. ; Code20 }
  }
}`)

	var trigScope *Scope
	for _, s := range table.Scopes() {
		if s.Name == "OnInsert" {
			trigScope = s
		}
	}
	if trigScope == nil {
		t.Fatal("no scope for OnInsert trigger")
	}
	if trigScope.Lookup("Handler") == nil {
		t.Errorf("trigger local not declared")
	}
	if table.GetRootScope().Lookup("Handler") != nil {
		t.Errorf("trigger local leaked into root scope")
	}
}

func TestBuildFromAST_PartialDocument(t *testing.T) {
	// Broken input still yields whatever symbols parsed.
	doc, _ := parser.ParseText([]byte(`OBJECT Table 18 Customer
{
  FIELDS
  {
    { 1 ; ; No. ; Code20 }
    { 2 ; ; ; }
  }`))
	table := BuildFromAST(doc)
	if table.GetRootScope().Lookup("No.") == nil {
		t.Errorf("valid field lost when document is partial")
	}

	if empty := BuildFromAST(nil); empty.GetRootScope() == nil {
		t.Errorf("nil document must still produce a root scope")
	}
}
