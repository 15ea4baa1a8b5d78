// Package workspace keeps the parsed documents of a directory tree up to
// date and serves them to editors over the language server protocol.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/tagline/syntax"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("tagline.workspace")

// Ext is the file extension of documents picked up by ScanAll.
const Ext = ".tl"

type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	opts    []syntax.Option
	files   map[string]*FileInfo
}

// FileInfo is the latest parse of one file.
type FileInfo struct {
	Path    string
	Content []byte
	Doc     *syntax.Document
	Root    *syntax.Node
	Lines   []string
}

// Problem is a token the parser could not place, located in its file.
type Problem struct {
	Line    int
	Column  int
	Length  int
	Message string
}

func New(rootDir string, opts ...syntax.Option) *Workspace {
	return &Workspace{
		rootDir: rootDir,
		opts:    opts,
		files:   make(map[string]*FileInfo),
	}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

// SetOptions replaces the parse options and re-parses every known file.
func (w *Workspace) SetOptions(opts ...syntax.Option) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.opts = opts
	for path, f := range w.files {
		w.updateFileLocked(path, f.Content)
	}
}

func (w *Workspace) ScanAll() error {
	n := 0
	err := filepath.Walk(w.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != w.rootDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == Ext {
			if err := w.ScanFile(path); err == nil {
				n++
			}
		}
		return nil
	})
	log.Infof("scanned %d files below %s", n, w.rootDir)
	return err
}

func (w *Workspace) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Warningf("reading %s: %s", path, err)
		return err
	}
	return w.UpdateFile(path, content)
}

func (w *Workspace) UpdateFile(path string, content []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.updateFileLocked(path, content)
}

func (w *Workspace) updateFileLocked(path string, content []byte) error {
	doc := syntax.NewDocument(append([]syntax.Option{syntax.WithName(path)}, w.opts...)...)
	if err := doc.Append(string(content)); err != nil {
		return err
	}
	root := doc.Parse()

	w.files[path] = &FileInfo{
		Path:    path,
		Content: content,
		Doc:     doc,
		Root:    root,
		Lines:   strings.Split(string(content), "\n"),
	}
	log.Debugf("parsed %s", path)
	return nil
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

func (w *Workspace) GetFile(path string) *FileInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Files returns the known paths in sorted order.
func (w *Workspace) Files() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	paths := make([]string, 0, len(w.files))
	for path := range w.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Canon returns the canonical rendering of the file at path.
func (w *Workspace) Canon(path string) (string, bool) {
	f := w.GetFile(path)
	if f == nil {
		return "", false
	}
	return f.Root.Canon(), true
}

// NodeAt returns the innermost addressable node that starts at or before
// line, or nil.
func (f *FileInfo) NodeAt(line int) *syntax.Node {
	var found *syntax.Node
	syntax.Inspect(f.Root, func(n *syntax.Node) bool {
		if n.Line > line {
			return false
		}
		if !n.Invisible && !n.IsSeparator() && n.Line > 0 {
			found = n
		}
		return true
	})
	return found
}

// Problems lists every error token in the file.
func (f *FileInfo) Problems() []Problem {
	var problems []Problem
	syntax.Inspect(f.Root, func(n *syntax.Node) bool {
		for _, tok := range n.Errors {
			problems = append(problems, f.problem(n.Line, len(n.Escape)+tok.Offset, tok.Length, tok.Text))
		}
		return true
	})
	return problems
}

func (f *FileInfo) problem(line, offset, length int, text string) Problem {
	col := offset
	if line > 0 && line <= len(f.Lines) {
		raw := f.Lines[line-1]
		col += len(raw) - len(strings.TrimLeft(raw, " "))
	}
	return Problem{
		Line:    line,
		Column:  col,
		Length:  length,
		Message: fmt.Sprintf("cannot parse %q", text),
	}
}
