// Package codebase keeps the parsed and analyzed state of every document in a
// workspace and answers editor queries against it.
package codebase

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/asls/angelscript/diag"
	"github.com/dhamidi/asls/angelscript/parser"
	"github.com/dhamidi/asls/angelscript/symbols"
	"github.com/dhamidi/asls/config"
)

var log = commonlog.GetLogger("asls.codebase")

type Codebase struct {
	mu         sync.RWMutex
	rootDir    string
	config     *config.Config
	docs       map[string]*Snapshot
	predefined *Snapshot
}

// Snapshot is one version of a document. It is never modified after
// creation; every update replaces it.
type Snapshot struct {
	ID       uuid.UUID
	Path     string
	Content  []byte
	Parse    *parser.Result
	Analysis *symbols.Analysis

	lines *lineIndex
}

// Diagnostics returns the syntax diagnostics followed by the symbol
// diagnostics.
func (s *Snapshot) Diagnostics() []diag.Diagnostic {
	result := make([]diag.Diagnostic, 0, len(s.Parse.Diagnostics)+len(s.Analysis.Diagnostics))
	result = append(result, s.Parse.Diagnostics...)
	return append(result, s.Analysis.Diagnostics...)
}

func New(rootDir string, cfg *config.Config) *Codebase {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Codebase{
		rootDir: rootDir,
		config:  cfg,
		docs:    make(map[string]*Snapshot),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

func (c *Codebase) Config() *config.Config {
	return c.config
}

// Accepts reports whether path is a workspace document that is not excluded.
func (c *Codebase) Accepts(path string) bool {
	if !c.config.Accepts(path) {
		return false
	}
	rel, err := filepath.Rel(c.rootDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return true
	}
	return !c.config.Excluded(rel)
}

// ScanAll loads every document below the root. The predefined file is
// loaded first so the others are analyzed against it once.
func (c *Codebase) ScanAll() error {
	var paths []string
	err := filepath.WalkDir(c.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != c.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if rel, err := filepath.Rel(c.rootDir, path); err == nil && rel != "." && c.config.Excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if c.Accepts(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.SliceStable(paths, func(i, j int) bool {
		return c.config.IsPredefined(paths[i]) && !c.config.IsPredefined(paths[j])
	})
	for _, path := range paths {
		if _, err := c.ScanFile(path); err != nil {
			log.Warningf("scan %s: %s", path, err)
		}
	}
	log.Infof("scanned %d documents in %s", len(paths), c.rootDir)
	return nil
}

// ScanFile reads path from disk and updates it.
func (c *Codebase) ScanFile(path string) ([]*Snapshot, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return c.UpdateFile(path, content), nil
}

// UpdateFile replaces the document at path and returns every snapshot that
// changed: the document itself and, when it is the predefined file, every
// other document.
func (c *Codebase) UpdateFile(path string, content []byte) []*Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	parsed := parser.ParseSource(path, content, c.config.ParserOptions()...)
	if !c.config.IsPredefined(path) {
		snap := c.snapshotLocked(path, content, parsed)
		c.docs[path] = snap
		return []*Snapshot{snap}
	}

	c.predefined = c.snapshotLocked(path, content, parsed)
	return append([]*Snapshot{c.predefined}, c.reanalyzeLocked()...)
}

// RemoveFile forgets path and returns the snapshots that changed as a result.
func (c *Codebase) RemoveFile(path string) []*Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.predefined != nil && c.predefined.Path == path {
		c.predefined = nil
		return c.reanalyzeLocked()
	}
	delete(c.docs, path)
	return nil
}

func (c *Codebase) snapshotLocked(path string, content []byte, parsed *parser.Result) *Snapshot {
	var opts []symbols.Option
	if c.predefined != nil && c.predefined.Path != path {
		opts = append(opts, symbols.WithGlobal(c.predefined.Analysis.Global))
	}
	snap := &Snapshot{
		ID:       uuid.New(),
		Path:     path,
		Content:  content,
		Parse:    parsed,
		Analysis: symbols.Analyze(parsed.Script, opts...),
		lines:    newLineIndex(content),
	}
	log.Debugf("snapshot %s of %s: %d diagnostics", snap.ID, path, len(snap.Diagnostics()))
	return snap
}

// reanalyzeLocked rebinds every regular document against the current
// predefined scope without parsing again.
func (c *Codebase) reanalyzeLocked() []*Snapshot {
	var changed []*Snapshot
	for _, path := range c.pathsLocked() {
		old := c.docs[path]
		snap := c.snapshotLocked(path, old.Content, old.Parse)
		c.docs[path] = snap
		changed = append(changed, snap)
	}
	return changed
}

func (c *Codebase) pathsLocked() []string {
	paths := make([]string, 0, len(c.docs))
	for path := range c.docs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Get returns the current snapshot of path, or nil.
func (c *Codebase) Get(path string) *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.predefined != nil && c.predefined.Path == path {
		return c.predefined
	}
	return c.docs[path]
}

// Snapshots returns every document ordered by path, the predefined file first.
func (c *Codebase) Snapshots() []*Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var result []*Snapshot
	if c.predefined != nil {
		result = append(result, c.predefined)
	}
	for _, path := range c.pathsLocked() {
		result = append(result, c.docs[path])
	}
	return result
}
