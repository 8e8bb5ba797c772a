package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhamidi/asls/angelscript/codebase"
	"github.com/dhamidi/asls/config"
)

// loadDocuments analyzes paths the way the language server would: a
// predefined file next to any of them is loaded first and becomes the
// parent scope of the others. A codebase holds one predefined file, so the
// last one found wins. With no paths the whole working directory is scanned.
func loadDocuments(cfg *config.Config, paths []string) (*codebase.Codebase, []*codebase.Snapshot, error) {
	c := codebase.New(".", cfg)
	if len(paths) == 0 {
		if err := c.ScanAll(); err != nil {
			return nil, nil, fmt.Errorf("scan: %w", err)
		}
		return c, c.Snapshots(), nil
	}

	loaded := make(map[string]bool)
	for _, path := range paths {
		predefined := filepath.Join(filepath.Dir(path), cfg.Workspace.Predefined)
		if loaded[predefined] {
			continue
		}
		if _, err := os.Stat(predefined); err != nil {
			continue
		}
		if _, err := c.ScanFile(predefined); err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", predefined, err)
		}
		loaded[predefined] = true
	}

	snaps := make([]*codebase.Snapshot, 0, len(paths))
	for _, path := range paths {
		path = filepath.Clean(path)
		if !loaded[path] {
			if _, err := c.ScanFile(path); err != nil {
				return nil, nil, fmt.Errorf("read %s: %w", path, err)
			}
		}
		snaps = append(snaps, c.Get(path))
	}
	return c, snaps, nil
}
