package codebase

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/cside/cal/symbols"
)

const demoCodeunit = `OBJECT Codeunit 50000 Demo Mgt.
{
  CODE
  {
    VAR
      Total@1000 : Decimal;

    PROCEDURE AddLine@1(Amount@1000 : Decimal);
    BEGIN
      Total := Total + Amount;
    END;

    BEGIN
    END.
  }
}`

func newTestCodebase(t *testing.T) *Codebase {
	t.Helper()
	cb := New(t.TempDir())
	require.NoError(t, cb.UpdateFile("demo.txt", []byte(demoCodeunit)))
	return cb
}

func TestUpdateFile_RebuildsDerivedState(t *testing.T) {
	cb := newTestCodebase(t)

	f := cb.GetFile("demo.txt")
	require.NotNil(t, f)
	require.NotNil(t, f.AST)
	require.NotNil(t, f.AST.Object)
	assert.Equal(t, "Demo Mgt.", f.AST.Object.Name)
	assert.Empty(t, f.Errors)
	assert.NotNil(t, f.Table)

	// A full replacement swaps every derived structure.
	require.NoError(t, cb.UpdateFile("demo.txt", []byte("OBJECT Codeunit 1 Tiny\n{\n}")))
	f = cb.GetFile("demo.txt")
	assert.Equal(t, "Tiny", f.AST.Object.Name)
	assert.Nil(t, f.Table.GetRootScope().Lookup("Total"))
}

func TestUpdateFile_KeepsDiagnostics(t *testing.T) {
	cb := New(t.TempDir())
	require.NoError(t, cb.UpdateFile("broken.txt", []byte("OBJECT Table 1 T\n{\n  FIELDS\n  {\n")))

	f := cb.GetFile("broken.txt")
	require.NotNil(t, f)
	assert.NotEmpty(t, f.Errors)
	assert.NotNil(t, f.AST, "partial AST must survive parse errors")
}

func TestScanAll_PicksUpExportFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "demo.txt"), []byte(demoCodeunit), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("not an export"), 0o644))

	cb := New(dir)
	require.NoError(t, cb.ScanAll())

	assert.Len(t, cb.Files(), 1)
	assert.NotNil(t, cb.GetFile(filepath.Join(dir, "demo.txt")))
}

func TestScanAll_HonorsConfiguredExtensions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "demo.nav"), []byte(demoCodeunit), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "demo.txt"), []byte(demoCodeunit), 0o644))

	cb := New(dir, ".nav")
	require.NoError(t, cb.ScanAll())

	assert.Len(t, cb.Files(), 1)
	assert.NotNil(t, cb.GetFile(filepath.Join(dir, "demo.nav")))
	assert.Nil(t, cb.GetFile(filepath.Join(dir, "demo.txt")))
}

func TestCompletionsAt_ScopedSymbols(t *testing.T) {
	cb := newTestCodebase(t)
	offset := strings.Index(demoCodeunit, "Total := ")

	items := cb.CompletionsAt("demo.txt", offset)
	labels := make(map[string]symbols.SymbolKind)
	for _, item := range items {
		labels[item.Label] = item.Kind
	}

	assert.Equal(t, symbols.SymbolParameter, labels["Amount"])
	assert.Equal(t, symbols.SymbolVariable, labels["Total"])
	assert.Equal(t, symbols.SymbolProcedure, labels["AddLine"])
}

func TestDefinitionAt_ResolvesToDeclaration(t *testing.T) {
	cb := newTestCodebase(t)

	// The Amount inside the body resolves to the parameter declaration.
	use := strings.Index(demoCodeunit, "Total + Amount") + len("Total + ")
	decl := strings.Index(demoCodeunit, "Amount@1000")

	loc := cb.DefinitionAt("demo.txt", use)
	require.NotNil(t, loc)
	assert.Equal(t, decl, loc.Span.Start.Offset)
}

func TestReferencesAt_AllOccurrences(t *testing.T) {
	cb := newTestCodebase(t)
	offset := strings.Index(demoCodeunit, "Total@1000")

	refs := cb.ReferencesAt("demo.txt", offset)
	// Declaration plus the two uses in the assignment.
	assert.Len(t, refs, 3)
}

func TestDocumentSymbols_ObjectFirst(t *testing.T) {
	cb := newTestCodebase(t)

	infos := cb.DocumentSymbols("demo.txt")
	require.NotEmpty(t, infos)
	assert.Equal(t, "Demo Mgt.", infos[0].Name)
	assert.Equal(t, symbols.SymbolObject, infos[0].Kind)

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	assert.Contains(t, names, "Total")
	assert.Contains(t, names, "AddLine")
}

func TestWorkspaceSymbols_SubstringMatch(t *testing.T) {
	cb := newTestCodebase(t)

	infos := cb.WorkspaceSymbols("addl")
	require.Len(t, infos, 1)
	assert.Equal(t, "AddLine", infos[0].Name)

	assert.NotEmpty(t, cb.WorkspaceSymbols(""))
	assert.Empty(t, cb.WorkspaceSymbols("nosuchname"))
}

func TestFindObject_IgnoresCase(t *testing.T) {
	cb := newTestCodebase(t)
	assert.NotNil(t, cb.FindObject("demo mgt."))
	assert.Nil(t, cb.FindObject("Other"))
}

func TestOffsetForPosition(t *testing.T) {
	content := []byte("first\nsecond\nthird")

	assert.Equal(t, 0, offsetForPosition(content, 0, 0))
	assert.Equal(t, 6, offsetForPosition(content, 1, 0))
	assert.Equal(t, 9, offsetForPosition(content, 1, 3))
	// Past the line end clamps to the newline.
	assert.Equal(t, 12, offsetForPosition(content, 1, 99))
	// Past the file end clamps to the end.
	assert.Equal(t, len(content), offsetForPosition(content, 9, 9))
}
