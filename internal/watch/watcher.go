// Package watch re-runs a valuation when its run file, product specs or tables change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a path must be quiet before its change is reported.
const DefaultDebounce = 300 * time.Millisecond

// Handler is called with the settled paths, sorted, once per batch of changes.
type Handler func(ctx context.Context, changed []string) error

// Stats counts watcher activity.
type Stats struct {
	Events        int
	Runs          int
	Errors        int
	LastRun       time.Time
	LastChanged   []string
	LastHandleErr error
}

// Watcher watches run files and data directories and calls a Handler after changes settle.
// A file target matches only that file; a directory target matches the YAML and CSV files in it.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	files       map[string]bool
	dirs        map[string]bool
	handler     Handler
	logger      *zap.Logger
	debounceDur time.Duration
	tick        time.Duration
	pending     map[string]time.Time
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	closed      bool
	stats       Stats
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period; the poll interval follows it.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounceDur = d
			w.tick = max(d/4, time.Millisecond)
		}
	}
}

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a watcher for the given targets. Every target must exist.
func New(targets []string, handler Handler, opts ...Option) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("watch: handler cannot be nil")
	}
	if len(targets) == 0 {
		return nil, errors.New("watch: no targets")
	}

	w := &Watcher{
		files:       make(map[string]bool),
		dirs:        make(map[string]bool),
		handler:     handler,
		logger:      zap.NewNop(),
		debounceDur: DefaultDebounce,
		tick:        DefaultDebounce / 4,
		pending:     make(map[string]time.Time),
		stopCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, t := range targets {
		abs, err := filepath.Abs(t)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %s: %w", t, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("watch: %w", err)
		}
		if info.IsDir() {
			w.dirs[abs] = true
		} else {
			w.files[abs] = true
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w.watcher = fw
	return w, nil
}

// Start begins watching. It is non-blocking; events are handled on a goroutine until
// Stop is called or ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return errors.New("watch: watcher is stopped")
	}
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	// Editors replace files by rename, so files are watched through their directory.
	for _, dir := range w.watchDirs() {
		if err := w.watcher.Add(dir); err != nil {
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			return fmt.Errorf("watch: add %s: %w", dir, err)
		}
		w.logger.Debug("watching directory", zap.String("dir", dir))
	}

	done := make(chan struct{})
	w.mu.Lock()
	w.doneCh = done
	w.mu.Unlock()
	go w.run(ctx, done)
	return nil
}

// Stop stops the watcher, waits for the event loop to exit and releases the
// underlying notifier. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	done := w.doneCh
	w.running = false
	w.closed = true
	w.mu.Unlock()

	close(w.stopCh)
	if done != nil {
		<-done
	}

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("error closing watcher", zap.Error(err))
	}
	w.logger.Debug("watcher stopped")
}

// Trigger runs the handler immediately with the file targets as the changed set.
func (w *Watcher) Trigger(ctx context.Context) error {
	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return w.dispatch(ctx, files)
}

// IsWatching reports whether the event loop is running.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// Stats returns a snapshot of the watcher counters.
func (w *Watcher) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s := w.stats
	s.LastChanged = append([]string(nil), w.stats.LastChanged...)
	return s
}

func (w *Watcher) watchDirs() []string {
	set := make(map[string]bool, len(w.dirs)+len(w.files))
	for d := range w.dirs {
		set[d] = true
	}
	for f := range w.files {
		set[filepath.Dir(f)] = true
	}
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func (w *Watcher) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case <-ticker.C:
			if changed := w.settled(time.Now()); len(changed) > 0 {
				_ = w.dispatch(ctx, changed)
			}
		}
	}
}

// Relevant reports whether a path is covered by the watcher's targets.
func (w *Watcher) Relevant(path string) bool {
	if w.files[path] {
		return true
	}
	if !w.dirs[filepath.Dir(path)] {
		return false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".csv":
		return true
	}
	return false
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	path := filepath.Clean(event.Name)
	if !w.Relevant(path) {
		return
	}
	w.logger.Debug("change", zap.String("path", path), zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.stats.Events++
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

// settled removes and returns the pending paths once every pending path has been quiet
// for the debounce period, so one burst of saves produces one run.
func (w *Watcher) settled(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return nil
	}
	for _, at := range w.pending {
		if now.Sub(at) < w.debounceDur {
			return nil
		}
	}
	out := make([]string, 0, len(w.pending))
	for p := range w.pending {
		out = append(out, p)
	}
	clear(w.pending)
	sort.Strings(out)
	return out
}

func (w *Watcher) dispatch(ctx context.Context, changed []string) error {
	w.logger.Info("re-running", zap.Strings("changed", changed))
	err := w.handler(ctx, changed)

	w.mu.Lock()
	w.stats.Runs++
	w.stats.LastRun = time.Now()
	w.stats.LastChanged = changed
	w.stats.LastHandleErr = err
	if err != nil {
		w.stats.Errors++
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Warn("run failed", zap.Error(err))
	}
	return err
}
