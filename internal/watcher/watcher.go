// Package watcher re-runs a callback when anything under a watched root
// changes, with fsnotify events debounced into a single signal.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/hyperjump/mitsuke/internal/exclude"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher watches a directory tree and invokes onChange after events settle.
// Excluded and hidden directories are not watched, mirroring what a search
// over the same root would visit.
type Watcher struct {
	root         string
	filter       *exclude.Filter
	searchHidden bool
	onChange     func()
	debounce     time.Duration
	watcher      *fsnotify.Watcher
	mu           sync.Mutex
	timer        *time.Timer
	done         chan struct{}
	started      bool
	stopOnce     sync.Once
	logger       *zap.Logger // optional; when set, logs debug events
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets a logger for debug output (watch additions, events).
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce overrides how long events must settle before onChange fires.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a watcher over root. filter decides which directories
// are ignored; searchHidden controls whether dot-directories are watched.
// onChange runs on a timer goroutine once events stop arriving for the
// debounce interval.
func NewWatcher(root string, filter *exclude.Filter, searchHidden bool, onChange func(), opts ...Option) *Watcher {
	w := &Watcher{
		root:         root,
		filter:       filter,
		searchHidden: searchHidden,
		onChange:     onChange,
		debounce:     defaultDebounce,
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching. It runs until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	abs, err := filepath.Abs(w.root)
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.root = abs
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.watcher = watcher
	w.started = true
	if err := w.addTreeLocked(w.root); err != nil {
		_ = w.watcher.Close()
		w.watcher = nil
		w.started = false
		w.mu.Unlock()
		return err
	}
	if w.logger != nil {
		w.logger.Debug("watcher started", zap.String("root", w.root))
	}
	w.mu.Unlock()
	go w.run(ctx)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if err != nil && w.logger != nil {
				w.logger.Debug("watcher error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod {
		return
	}
	rel, ok := w.relPath(ev.Name)
	if !ok || w.ignored(rel) {
		return
	}
	if w.logger != nil {
		w.logger.Debug("watcher event", zap.String("op", ev.Op.String()), zap.String("path", rel))
	}
	if ev.Op.Has(fsnotify.Create) {
		// A new directory (created or moved in) needs its own watches.
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			w.mu.Lock()
			if w.watcher != nil {
				_ = w.addTreeLocked(ev.Name)
			}
			w.mu.Unlock()
		}
	}
	w.bump()
}

// relPath turns an event path into a slash-separated path relative to the
// watched root, or reports false for anything outside it.
func (w *Watcher) relPath(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, filepath.Clean(path))
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// ignored reports whether rel would be invisible to a search over the same
// root, so its changes never trigger one.
func (w *Watcher) ignored(rel string) bool {
	if rel == "." {
		return false
	}
	if w.filter != nil && w.filter.ShouldPrune(rel) {
		return true
	}
	if !w.searchHidden {
		for _, seg := range strings.Split(rel, "/") {
			if strings.HasPrefix(seg, ".") {
				return true
			}
		}
	}
	return false
}

// addTreeLocked watches dir and every non-ignored directory under it.
// Callers hold w.mu.
func (w *Watcher) addTreeLocked(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped the same way traversal skips them.
			if path == dir {
				return err
			}
			return fs.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if rel, ok := w.relPath(path); ok && rel != "." && w.ignored(rel) {
			return fs.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			if w.logger != nil {
				w.logger.Debug("watcher failed to add directory", zap.String("path", path), zap.Error(err))
			}
			return nil
		}
		if w.logger != nil {
			w.logger.Debug("watcher added directory", zap.String("path", path))
		}
		return nil
	})
}

// bump restarts the debounce timer; onChange fires once it expires.
func (w *Watcher) bump() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if w.onChange != nil {
			w.onChange()
		}
	})
}

// Root returns the watched root directory.
func (w *Watcher) Root() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.root
}

// Stop stops the watcher and releases resources.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started || w.watcher == nil {
		w.mu.Unlock()
		return
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	_ = w.watcher.Close()
	w.watcher = nil
	w.started = false
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.done) })
}
