// Package index keeps a persistent SQLite catalog of the objects and
// root-level symbols found in a workspace, so object lookup across thousands
// of export files does not require reparsing everything.
package index

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/dhamidi/cside/cal/codebase"
)

type Index struct {
	db *sql.DB
}

// ObjectRow is one indexed object declaration.
type ObjectRow struct {
	FilePath   string
	ObjectKind string
	ObjectID   int
	Name       string
}

// SymbolRow is one indexed root-level symbol.
type SymbolRow struct {
	FilePath  string
	Name      string
	Kind      string
	Container string
	Line      int
}

// Open opens (or creates) the index database at path and applies pending
// migrations. Use ":memory:" for a throwaway index.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening index at %s: %w", path, err)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Index{db: db}, nil
}

func (ix *Index) Close() error {
	return ix.db.Close()
}

// IndexFile replaces everything recorded for the file with the state of the
// parsed FileInfo. Files without a parsed object only have their old rows
// removed.
func (ix *Index) IndexFile(f *codebase.FileInfo) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning index update: %w", err)
	}
	defer tx.Rollback()

	if err := deleteFileRows(tx, f.Path); err != nil {
		return err
	}

	if f.AST != nil && f.AST.Object != nil {
		obj := f.AST.Object
		_, err = tx.Exec(
			`INSERT INTO objects (file_path, object_kind, object_id, name) VALUES (?, ?, ?, ?)`,
			f.Path, obj.ObjectKind.String(), obj.ID, obj.Name,
		)
		if err != nil {
			return fmt.Errorf("indexing object %s: %w", obj.Name, err)
		}

		if f.Table != nil {
			if root := f.Table.GetRootScope(); root != nil {
				for _, sym := range root.Symbols() {
					_, err = tx.Exec(
						`INSERT INTO object_symbols (file_path, name, kind, container, line) VALUES (?, ?, ?, ?, ?)`,
						f.Path, sym.Name, sym.Kind.String(), obj.Name, sym.Token.Span.Start.Line,
					)
					if err != nil {
						return fmt.Errorf("indexing symbol %s: %w", sym.Name, err)
					}
				}
			}
		}
	}

	return tx.Commit()
}

func deleteFileRows(tx *sql.Tx, path string) error {
	if _, err := tx.Exec(`DELETE FROM objects WHERE file_path = ?`, path); err != nil {
		return fmt.Errorf("clearing objects for %s: %w", path, err)
	}
	if _, err := tx.Exec(`DELETE FROM object_symbols WHERE file_path = ?`, path); err != nil {
		return fmt.Errorf("clearing symbols for %s: %w", path, err)
	}
	return nil
}

// DeleteFile removes every row recorded for the file.
func (ix *Index) DeleteFile(path string) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning index delete: %w", err)
	}
	defer tx.Rollback()
	if err := deleteFileRows(tx, path); err != nil {
		return err
	}
	return tx.Commit()
}

// SearchObjects finds objects whose name contains the query, ignoring case.
// An empty query lists every object.
func (ix *Index) SearchObjects(query string) ([]ObjectRow, error) {
	rows, err := ix.db.Query(
		`SELECT file_path, object_kind, object_id, name
		 FROM objects
		 WHERE name LIKE '%' || ? || '%' COLLATE NOCASE
		 ORDER BY object_kind, object_id`,
		query,
	)
	if err != nil {
		return nil, fmt.Errorf("searching objects: %w", err)
	}
	defer rows.Close()

	var out []ObjectRow
	for rows.Next() {
		var row ObjectRow
		if err := rows.Scan(&row.FilePath, &row.ObjectKind, &row.ObjectID, &row.Name); err != nil {
			return nil, fmt.Errorf("scanning object row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// SearchSymbols finds root-level symbols whose name contains the query,
// ignoring case.
func (ix *Index) SearchSymbols(query string) ([]SymbolRow, error) {
	rows, err := ix.db.Query(
		`SELECT file_path, name, kind, container, line
		 FROM object_symbols
		 WHERE name LIKE '%' || ? || '%' COLLATE NOCASE
		 ORDER BY name COLLATE NOCASE`,
		query,
	)
	if err != nil {
		return nil, fmt.Errorf("searching symbols: %w", err)
	}
	defer rows.Close()

	var out []SymbolRow
	for rows.Next() {
		var row SymbolRow
		if err := rows.Scan(&row.FilePath, &row.Name, &row.Kind, &row.Container, &row.Line); err != nil {
			return nil, fmt.Errorf("scanning symbol row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// LookupObject finds the single object with an exact name, ignoring case.
func (ix *Index) LookupObject(name string) (*ObjectRow, error) {
	var row ObjectRow
	err := ix.db.QueryRow(
		`SELECT file_path, object_kind, object_id, name FROM objects WHERE name = ? COLLATE NOCASE`,
		name,
	).Scan(&row.FilePath, &row.ObjectKind, &row.ObjectID, &row.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up object %s: %w", name, err)
	}
	return &row, nil
}

// IndexCodebase reindexes every file tracked by the codebase.
func (ix *Index) IndexCodebase(cb *codebase.Codebase) error {
	for _, f := range cb.Files() {
		if err := ix.IndexFile(f); err != nil {
			return err
		}
	}
	return nil
}
