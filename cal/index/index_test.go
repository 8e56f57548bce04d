package index

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/cside/cal/codebase"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return ix
}

func fileInfoFor(t *testing.T, cb *codebase.Codebase, path, source string) *codebase.FileInfo {
	t.Helper()
	require.NoError(t, cb.UpdateFile(path, []byte(source)))
	f := cb.GetFile(path)
	require.NotNil(t, f)
	return f
}

const customerSource = `OBJECT Table 18 Customer
{
  FIELDS
  {
    { 1 ; ; No. ; Code20 }
    { 2 ; ; Name ; Text50 }
  }
  CODE
  {
    PROCEDURE AssistEdit@1() : Boolean;
    BEGIN
    END;

    BEGIN
    END.
  }
}`

func TestMigrate_AppliesAllMigrations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db))

	var version int
	require.NoError(t, db.QueryRow(`SELECT version FROM schema_version`).Scan(&version))
	assert.Equal(t, len(All), version)

	// Running again is a no-op.
	require.NoError(t, Migrate(db))
}

func TestIndexFile_RecordsObjectAndSymbols(t *testing.T) {
	ix := openTestIndex(t)
	cb := codebase.New(t.TempDir())
	f := fileInfoFor(t, cb, "customer.txt", customerSource)

	require.NoError(t, ix.IndexFile(f))

	objs, err := ix.SearchObjects("cust")
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, "Table", objs[0].ObjectKind)
	assert.Equal(t, 18, objs[0].ObjectID)
	assert.Equal(t, "Customer", objs[0].Name)
	assert.Equal(t, "customer.txt", objs[0].FilePath)

	syms, err := ix.SearchSymbols("assistedit")
	require.NoError(t, err)
	require.Len(t, syms, 1)
	assert.Equal(t, "procedure", syms[0].Kind)
	assert.Equal(t, "Customer", syms[0].Container)
	assert.Greater(t, syms[0].Line, 0)
}

func TestIndexFile_ReplacesOldRows(t *testing.T) {
	ix := openTestIndex(t)
	cb := codebase.New(t.TempDir())

	f := fileInfoFor(t, cb, "obj.txt", customerSource)
	require.NoError(t, ix.IndexFile(f))

	f = fileInfoFor(t, cb, "obj.txt", `OBJECT Codeunit 50000 Renamed
{
}`)
	require.NoError(t, ix.IndexFile(f))

	objs, err := ix.SearchObjects("")
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, "Renamed", objs[0].Name)

	syms, err := ix.SearchSymbols("")
	require.NoError(t, err)
	assert.Empty(t, syms, "old symbol rows must not survive a reindex")
}

func TestDeleteFile_RemovesAllRows(t *testing.T) {
	ix := openTestIndex(t)
	cb := codebase.New(t.TempDir())
	f := fileInfoFor(t, cb, "obj.txt", customerSource)
	require.NoError(t, ix.IndexFile(f))

	require.NoError(t, ix.DeleteFile("obj.txt"))

	objs, err := ix.SearchObjects("")
	require.NoError(t, err)
	assert.Empty(t, objs)
}

func TestLookupObject_ExactNameIgnoringCase(t *testing.T) {
	ix := openTestIndex(t)
	cb := codebase.New(t.TempDir())
	require.NoError(t, ix.IndexFile(fileInfoFor(t, cb, "customer.txt", customerSource)))

	row, err := ix.LookupObject("CUSTOMER")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Customer", row.Name)

	missing, err := ix.LookupObject("Vendor")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestIndexCodebase_IndexesEveryFile(t *testing.T) {
	ix := openTestIndex(t)
	cb := codebase.New(t.TempDir())
	fileInfoFor(t, cb, "a.txt", customerSource)
	fileInfoFor(t, cb, "b.txt", `OBJECT Page 21 Customer Card
{
}`)

	require.NoError(t, ix.IndexCodebase(cb))

	objs, err := ix.SearchObjects("customer")
	require.NoError(t, err)
	assert.Len(t, objs, 2)
}
