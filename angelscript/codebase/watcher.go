package codebase

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

var watchLog = commonlog.GetLogger("asls.watcher")

// ChangeFunc receives the snapshots replaced by one batch of file events and
// the paths that were removed.
type ChangeFunc func(changed []*Snapshot, removed []string)

// Watcher keeps a codebase in sync with the files on disk. Events are
// collected until the configured debounce interval passes without new ones.
type Watcher struct {
	codebase *Codebase
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange ChangeFunc
	ignore   func(path string) bool
	done     chan struct{}
}

type WatcherOption func(*Watcher)

// WithIgnore skips every path for which ignore reports true, such as
// documents an editor holds unsaved changes for.
func WithIgnore(ignore func(path string) bool) WatcherOption {
	return func(w *Watcher) {
		w.ignore = ignore
	}
}

func NewWatcher(c *Codebase, onChange ChangeFunc, opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		codebase: c,
		watcher:  fw,
		debounce: c.Config().Workspace.Debounce.Duration,
		onChange: onChange,
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.addTree(c.RootDir()); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) Start() {
	w.done = make(chan struct{})
	go w.run()
}

// Close stops watching and waits for a started event loop to finish.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	if w.done != nil {
		<-w.done
	}
	return err
}

// addTree watches dir and every directory below it that is neither hidden
// nor excluded. fsnotify does not recurse on its own.
func (w *Watcher) addTree(dir string) error {
	root := w.codebase.RootDir()
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if rel, err := filepath.Rel(root, path); err == nil && rel != "." && w.codebase.Config().Excluded(rel) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) run() {
	defer close(w.done)

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						watchLog.Warningf("%s", err)
					}
					continue
				}
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !w.codebase.Accepts(event.Name) {
				continue
			}
			pending[event.Name] = true
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			watchLog.Errorf("watch error: %s", err)

		case <-timer.C:
			w.flush(pending)
			pending = make(map[string]bool)
		}
	}
}

func (w *Watcher) flush(pending map[string]bool) {
	paths := make([]string, 0, len(pending))
	for path := range pending {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var changed []*Snapshot
	var removed []string
	for _, path := range paths {
		if w.ignore != nil && w.ignore(path) {
			watchLog.Debugf("ignored change to open document %s", path)
			continue
		}
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			watchLog.Infof("removed %s", path)
			changed = append(changed, w.codebase.RemoveFile(path)...)
			removed = append(removed, path)
			continue
		}
		snaps, err := w.codebase.ScanFile(path)
		if err != nil {
			watchLog.Warningf("reload %s: %s", path, err)
			continue
		}
		watchLog.Infof("reloaded %s", path)
		changed = append(changed, snaps...)
	}
	if w.onChange != nil && (len(changed) > 0 || len(removed) > 0) {
		w.onChange(changed, removed)
	}
}
