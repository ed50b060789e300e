// Package watch triggers a full corpus rebuild when project files change.
// Changes are debounced into batches; each batch calls back once.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/semcouple/internal/corpus"
	"github.com/standardbeagle/semcouple/internal/debug"
)

// DefaultDebounce is used when Options.Debounce is zero
const DefaultDebounce = 300 * time.Millisecond

// Options selects what to watch
type Options struct {
	Scan     corpus.ScanOptions
	Debounce time.Duration
}

// ChangeFunc receives the sorted relative paths changed in one debounce window.
// An error is logged and watching continues.
type ChangeFunc func(ctx context.Context, changed []string) error

// Watcher monitors a project tree with fsnotify
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	scanner  *corpus.Scanner
	exclude  []string
	debounce time.Duration
}

// New creates a watcher and registers every non-excluded directory under the root
func New(opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	scanner := corpus.NewScanner(opts.Scan)
	w := &Watcher{
		fsw:      fsw,
		root:     scanner.Root(),
		scanner:  scanner,
		exclude:  opts.Scan.Exclude,
		debounce: opts.Debounce,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}

	if err := w.addWatches(w.root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// addWatches registers dir and its subdirectories, skipping symlink cycles
func (w *Watcher) addWatches(dir string) error {
	visited := make(map[string]bool)

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		real, err := filepath.EvalSymlinks(path)
		if err != nil || visited[real] {
			return filepath.SkipDir
		}
		visited[real] = true

		if path != w.root && w.ignoredDir(w.rel(path)) {
			return filepath.SkipDir
		}

		if err := w.fsw.Add(path); err != nil {
			debug.Log("WATCH", "failed to watch %s: %v\n", path, err)
		}
		return nil
	})
}

func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// ignoredDir reports hidden directories and directories named by "dir/**" exclusions
func (w *Watcher) ignoredDir(rel string) bool {
	if strings.HasPrefix(filepath.Base(rel), ".") {
		return true
	}
	for _, pattern := range w.exclude {
		if !strings.HasSuffix(pattern, "/**") {
			continue
		}
		if matched, err := doublestar.Match(strings.TrimSuffix(pattern, "/**"), rel); err == nil && matched {
			return true
		}
	}
	return false
}

// relevant reports whether a changed path could affect the corpus
func (w *Watcher) relevant(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") {
			return false
		}
	}
	return w.scanner.Matches(rel)
}

// Run processes events until ctx is done, then closes the watcher.
// onChange runs on the Run goroutine, so batches never overlap.
func (w *Watcher) Run(ctx context.Context, onChange ChangeFunc) error {
	defer w.fsw.Close()

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.handle(event, pending) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			debug.Log("WATCH", "watcher error: %v\n", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)

			debug.Log("WATCH", "%d paths changed, rebuilding\n", len(changed))
			if err := onChange(ctx, changed); err != nil {
				debug.Log("WATCH", "rebuild failed: %v\n", err)
			}
		}
	}
}

// handle records a relevant event and reports whether the debounce window restarts
func (w *Watcher) handle(event fsnotify.Event, pending map[string]bool) bool {
	rel := w.rel(event.Name)

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if w.ignoredDir(rel) {
				return false
			}
			if err := w.addWatches(event.Name); err != nil {
				debug.Log("WATCH", "failed to watch new directory %s: %v\n", rel, err)
			}
			// A moved-in or checked-out directory may already hold files
			// that produced no events of their own.
			pending[rel] = true
			return true
		}
	}

	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if !w.relevant(rel) {
		return false
	}

	pending[rel] = true
	return true
}
