// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Config.Debounce is not positive.
const DefaultDebounce = 300 * time.Millisecond

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/.*.swp",
	"**/*.swp",
	"**/*~",
	"**/.DS_Store",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Roots are catalog directories or files. Empty means the working
		// directory.
		Roots []string
		// Patterns select files below directory roots, matched against the
		// path relative to the root. Empty matches every file.
		Patterns []string
		// Ignore is merged with DefaultIgnores.
		Ignore   []string
		Debounce time.Duration
		Logger   *log.Logger
		// OnChange receives the changed absolute paths, sorted. An error is
		// logged and watching continues.
		OnChange func(ctx context.Context, changed []string) error
	}

	// Watcher monitors catalog roots. Run must be called at most once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		logger   *log.Logger
		ignores  []string
		debounce time.Duration
		// dirs are the absolute directory roots.
		dirs []string
		// files are the absolute file roots.
		files   map[string]bool
		started atomic.Bool
	}
)

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string { return slices.Clone(defaultIgnores) }

// New validates cfg and registers every root with fsnotify.
func New(cfg Config) (*Watcher, error) {
	if err := validatePatterns("watch", cfg.Patterns); err != nil {
		return nil, err
	}
	if err := validatePatterns("ignore", cfg.Ignore); err != nil {
		return nil, err
	}

	w := &Watcher{
		cfg:      cfg,
		logger:   cfg.Logger,
		ignores:  append(DefaultIgnores(), cfg.Ignore...),
		debounce: cfg.Debounce,
		files:    make(map[string]bool),
	}
	if w.logger == nil {
		w.logger = log.New(io.Discard)
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}

	roots := cfg.Roots
	if len(roots) == 0 {
		roots = []string{"."}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	w.fsw = fsw

	for _, root := range roots {
		if err := w.addRoot(root); err != nil {
			if closeErr := fsw.Close(); closeErr != nil {
				w.logger.Warn("close watcher after init failure", "error", closeErr)
			}
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addRoot(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("watch: resolve %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	if !info.IsDir() {
		// Editors often replace files by rename, so the parent is watched.
		w.files[abs] = true
		if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watch: add %q: %w", filepath.Dir(abs), err)
		}
		return nil
	}

	w.dirs = append(w.dirs, abs)
	return w.addTree(abs)
}

// addTree registers dir and every non-ignored directory below it.
// Unreadable directories are skipped with a warning.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.ignored(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add %q: %w", path, err)
		}
		return nil
	})
}

// Run processes events until ctx is done. It returns nil on cancellation,
// after any callback in flight has returned, and an error when the
// underlying watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close watcher", "error", err)
		}
	}()

	var (
		pending = make(map[string]bool)
		timer   = time.NewTimer(w.debounce)
		// done is non-nil while a callback runs.
		done chan struct{}
	)
	timer.Stop()
	defer timer.Stop()

	dispatch := func() {
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		done = make(chan struct{})
		go func(finished chan struct{}) {
			defer close(finished)
			if w.cfg.OnChange == nil {
				return
			}
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("change handler failed", "error", err)
			}
		}(done)
	}

	for {
		select {
		case <-ctx.Done():
			if done != nil {
				<-done
			}
			return nil

		case <-timer.C:
			if len(pending) > 0 && done == nil {
				dispatch()
			}

		case <-done:
			done = nil
			if len(pending) > 0 {
				dispatch()
			}

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			if !w.matches(evt.Name) {
				continue
			}
			w.logger.Debug("catalog changed", "path", evt.Name, "op", evt.Op.String())
			pending[evt.Name] = true
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed unexpectedly")
			}
			if exhausted(err) {
				if done != nil {
					<-done
				}
				return fmt.Errorf("watch: %w", err)
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || w.ignored(path) || w.rootOf(path) == "" {
		return
	}
	if err := w.addTree(path); err != nil {
		w.logger.Warn("cannot watch new directory", "path", path, "error", err)
	}
}

// matches reports whether an event on path concerns a catalog.
func (w *Watcher) matches(path string) bool {
	if w.files[path] {
		return true
	}
	root := w.rootOf(path)
	if root == "" || w.ignored(path) {
		return false
	}
	if len(w.cfg.Patterns) == 0 {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return slices.ContainsFunc(w.cfg.Patterns, func(p string) bool {
		ok, _ := doublestar.Match(p, rel)
		return ok
	})
}

// rootOf returns the deepest directory root containing path, or "".
func (w *Watcher) rootOf(path string) string {
	best := ""
	for _, dir := range w.dirs {
		rel, err := filepath.Rel(dir, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if len(dir) > len(best) {
			best = dir
		}
	}
	return best
}

// ignored matches path, relative to its root, against the ignore patterns.
func (w *Watcher) ignored(path string) bool {
	rel := path
	if root := w.rootOf(path); root != "" {
		if r, err := filepath.Rel(root, path); err == nil {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)
	return slices.ContainsFunc(w.ignores, func(p string) bool {
		ok, _ := doublestar.Match(p, rel)
		if !ok {
			// Directory patterns like "**/.git/**" should also cover the
			// directory itself.
			ok, _ = doublestar.Match(p, rel+"/")
		}
		return ok
	})
}

func validatePatterns(label string, patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("watch: invalid %s pattern %q: %w", label, p, doublestar.ErrBadPattern)
		}
	}
	return nil
}
