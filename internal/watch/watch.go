// Package watch implements the standalone recursive directory watcher
// backing `kconfig-lsp lint --watch`. It is a separate concurrency
// domain from the LSP server's single-threaded dispatch loop: nothing
// in internal/server or internal/kctx imports it.
//
// Grounded on standardbeagle-lci's internal/indexing.FileWatcher, with
// its per-event-type routing collapsed to a single onChange callback
// since a one-shot relint doesn't need to distinguish create/write/remove.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/kconfig-lsp/internal/debug"
)

// Watcher monitors a directory tree and invokes onChange with the set of
// paths that changed, batched and debounced, whenever one of them
// matches the configured glob patterns.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	patterns  []string
	excludes  []string
	root      string

	onChange func(paths []string)
	onError  func(err error)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	debouncer *debouncer
}

// New creates a Watcher rooted at root, matching patterns (doublestar
// globs, e.g. "**/Kconfig*", "**/*.conf") with events grouped over a
// debounceMs window before onChange fires.
func New(root string, patterns []string, debounceMs int, onChange func(paths []string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		fsWatcher: fsw,
		patterns:  patterns,
		root:      root,
		onChange:  onChange,
		ctx:       ctx,
		cancel:    cancel,
	}
	w.debouncer = newDebouncer(time.Duration(debounceMs)*time.Millisecond, w.flush)
	return w, nil
}

// OnError registers a callback for fsnotify errors; optional.
func (w *Watcher) OnError(f func(err error)) {
	w.onError = f
}

// SetExcludes adds glob patterns that veto an otherwise-matching path,
// e.g. so `--exclude` can pull board-specific defconfigs out of a
// broader `**/*.conf` watch pattern.
func (w *Watcher) SetExcludes(patterns []string) {
	w.excludes = patterns
}

// Start recursively adds watches under root and begins processing events.
func (w *Watcher) Start() error {
	if err := w.addWatches(w.root); err != nil {
		return fmt.Errorf("failed to add watches under %s: %w", w.root, err)
	}

	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// Stop closes the underlying fsnotify watcher and waits for the event
// loop to exit. Pending debounced events are deliberately not flushed:
// flush() would call onChange after the caller has already torn down
// whatever state it reads, the same deadlock-avoidance tradeoff a
// debounced relint callback always carries at shutdown.
func (w *Watcher) Stop() error {
	w.cancel()
	err := w.fsWatcher.Close()
	w.wg.Wait()
	w.debouncer.mu.Lock()
	if w.debouncer.timer != nil {
		w.debouncer.timer.Stop()
	}
	w.debouncer.events = make(map[string]struct{})
	w.debouncer.mu.Unlock()
	return err
}

func (w *Watcher) addWatches(root string) error {
	visited := make(map[string]bool)

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}

		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return nil
		}
		if visited[realPath] {
			return filepath.SkipDir
		}
		visited[realPath] = true

		if shouldIgnoreDir(path) {
			return filepath.SkipDir
		}

		if err := w.fsWatcher.Add(path); err != nil {
			debug.Log("watch", "failed to watch %s: %v", path, err)
		}
		return nil
	})
}

func shouldIgnoreDir(path string) bool {
	base := filepath.Base(path)
	switch base {
	case ".git", "build", ".west", "node_modules":
		return true
	}
	return false
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		if event.Op&fsnotify.Create != 0 && !shouldIgnoreDir(path) {
			if err := w.fsWatcher.Add(path); err != nil {
				debug.Log("watch", "failed to watch new directory %s: %v", path, err)
			}
		}
		return
	}

	if !w.shouldProcess(path) {
		return
	}
	w.debouncer.addEvent(path)
}

// shouldProcess reports whether path matches one of the watcher's glob
// patterns, tried both as an absolute path and relative to root, and
// none of its exclude patterns.
func (w *Watcher) shouldProcess(path string) bool {
	rel, relErr := filepath.Rel(w.root, path)

	for _, pattern := range w.excludes {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return false
		}
		if relErr == nil {
			if matched, err := doublestar.Match(pattern, filepath.ToSlash(rel)); err == nil && matched {
				return false
			}
		}
	}

	for _, pattern := range w.patterns {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
		if relErr == nil {
			if matched, err := doublestar.Match(pattern, filepath.ToSlash(rel)); err == nil && matched {
				return true
			}
		}
	}
	return false
}

func (w *Watcher) flush(paths map[string]struct{}) {
	if len(paths) == 0 || w.onChange == nil {
		return
	}
	list := make([]string, 0, len(paths))
	for p := range paths {
		list = append(list, p)
	}
	sort.Strings(list)
	w.onChange(list)
}

// debouncer batches path names over a fixed window before delivering
// them as one group, resetting the window on every new event.
type debouncer struct {
	mu      sync.Mutex
	events  map[string]struct{}
	window  time.Duration
	timer   *time.Timer
	deliver func(map[string]struct{})
}

func newDebouncer(window time.Duration, deliver func(map[string]struct{})) *debouncer {
	return &debouncer{
		events:  make(map[string]struct{}),
		window:  window,
		deliver: deliver,
	}
}

func (d *debouncer) addEvent(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.events[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flushLocked)
}

func (d *debouncer) flushLocked() {
	d.mu.Lock()
	events := d.events
	d.events = make(map[string]struct{})
	d.mu.Unlock()

	d.deliver(events)
}
