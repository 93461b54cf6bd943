// Package watcher turns raw file-system notifications under a project root
// into a bounded rate of settled-change callbacks, debounced per path.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the per-path settle window used when none is configured.
const DefaultDebounce = time.Second

// Config configures a Watcher.
type Config struct {
	Root       string
	Debounce   time.Duration
	IsIncluded func(absPath string) bool // filter consulted before arming a timer
	OnSettled  func(absPath string)      // invoked once per path per settle window
}

// Watcher owns one recursive fsnotify subscription and a map of per-path
// debounce timers. Each event for a path restarts that path's timer, so at
// most one settled callback is pending per path and the last event wins.
type Watcher struct {
	cfg       Config
	fsWatcher *fsnotify.Watcher

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

// New creates a watcher for the given config.
func New(cfg Config) (*Watcher, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("watcher root is required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		cfg:       cfg,
		fsWatcher: fsWatcher,
		timers:    make(map[string]*time.Timer),
	}, nil
}

// Run subscribes recursively under the root and blocks dispatching events
// until the context is cancelled. On return all pending debounce timers are
// cancelled and the subscription is released.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	if err := w.addRecursive(w.cfg.Root); err != nil {
		return fmt.Errorf("failed to watch project root: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			// Watch errors are transient; the subscription stays up.
		}
	}
}

// addRecursive adds dir and all subdirectories to the subscription.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && path != root {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			if isWatchLimitError(err) {
				return fmt.Errorf("watch limit reached for %s: %w", path, err)
			}
			return nil
		}
		return nil
	})
}

func isWatchLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "no space left on device") ||
		strings.Contains(msg, "too many open files")
}

// handleEvent filters one notification and restarts the path's timer.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	// New directories join the subscription so files created inside them
	// are observed too.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !strings.HasPrefix(filepath.Base(path), ".") {
				_ = w.addRecursive(path)
			}
			return
		}
	}

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		// A removed file must still trigger a cycle so its section is
		// dropped from the artifact.
	default:
		return // chmod
	}

	if w.cfg.IsIncluded != nil && !w.cfg.IsIncluded(path) {
		return
	}
	w.schedule(path)
}

// schedule starts or restarts the debounce timer for a path. Only after the
// window elapses without further events for that path does the settled
// callback fire.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.cfg.Debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		stopped := w.stopped
		w.mu.Unlock()

		if stopped || w.cfg.OnSettled == nil {
			return
		}
		w.cfg.OnSettled(path)
	})
}

// PendingCount returns the number of paths with an armed debounce timer.
func (w *Watcher) PendingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.timers)
}

// stop cancels all pending timers and releases the subscription.
func (w *Watcher) stop() {
	w.mu.Lock()
	w.stopped = true
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	_ = w.fsWatcher.Close()
}
