// Package codebase maintains the parsed state of every C/SIDE export file in
// a workspace and answers the navigation queries the language server needs.
package codebase

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dhamidi/cside/cal/parser"
	"github.com/dhamidi/cside/cal/symbols"
)

type Codebase struct {
	mu         sync.RWMutex
	rootDir    string
	extensions []string
	files      map[string]*FileInfo
}

// FileInfo is the fully derived state of one file. Every update rebuilds all
// of it from the new content; nothing is patched incrementally.
type FileInfo struct {
	Path    string
	Content []byte
	Tokens  []parser.Token
	AST     *parser.Document
	Table   *symbols.Table
	Errors  []parser.ParseError
}

// New creates a codebase rooted at rootDir. Extensions name the export file
// suffixes to pick up during scans; when none are given the C/SIDE defaults
// apply.
func New(rootDir string, extensions ...string) *Codebase {
	if len(extensions) == 0 {
		extensions = []string{".txt", ".cal"}
	}
	return &Codebase{
		rootDir:    rootDir,
		extensions: extensions,
		files:      make(map[string]*FileInfo),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

func (c *Codebase) isExportFile(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range c.extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

func (c *Codebase) ScanAll() error {
	return filepath.Walk(c.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if c.isExportFile(path) {
			c.ScanFile(path)
		}
		return nil
	})
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.UpdateFile(path, content)
}

func (c *Codebase) UpdateFile(path string, content []byte) error {
	tokens := parser.Tokenize(content)
	p := parser.NewParser(tokens)
	ast := p.Parse()
	table := symbols.BuildFromAST(ast)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[path] = &FileInfo{
		Path:    path,
		Content: content,
		Tokens:  tokens,
		AST:     ast,
		Table:   table,
		Errors:  p.Errors(),
	}
	return nil
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Files returns a snapshot of all tracked files.
func (c *Codebase) Files() []*FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*FileInfo, 0, len(c.files))
	for _, f := range c.files {
		out = append(out, f)
	}
	return out
}

// FindObject returns the file declaring the object with the given name,
// ignoring case.
func (c *Codebase) FindObject(name string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, f := range c.files {
		if f.AST == nil || f.AST.Object == nil {
			continue
		}
		if strings.EqualFold(f.AST.Object.Name, name) {
			return f
		}
	}
	return nil
}
