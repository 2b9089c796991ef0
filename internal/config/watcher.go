package config

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/coedit/internal/debounce"
)

// ErrWatcherClosed is returned when using a stopped watcher.
var ErrWatcherClosed = errors.New("config watcher is closed")

// ReloadHandler receives the freshly loaded configuration.
type ReloadHandler func(cfg Config)

// Watcher reloads the configuration file when it changes on disk.
// Rapid write bursts are debounced into a single reload.
type Watcher struct {
	mu       sync.Mutex
	path     string
	watcher  *fsnotify.Watcher
	reloader *debounce.Debouncer
	handler  ReloadHandler
	closed   bool
	done     chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*watcherConfig)

type watcherConfig struct {
	debounceDelay time.Duration
	clock         debounce.Clock
}

// WithReloadDebounce sets the quiet interval before a reload fires.
func WithReloadDebounce(d time.Duration) WatcherOption {
	return func(c *watcherConfig) {
		if d > 0 {
			c.debounceDelay = d
		}
	}
}

// WithWatcherClock sets the debounce timer source. Intended for tests.
func WithWatcherClock(clock debounce.Clock) WatcherOption {
	return func(c *watcherConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// NewWatcher watches path and calls handler with the reloaded
// configuration after each change. The parent directory is watched so
// atomic rename-into-place saves are seen too.
func NewWatcher(path string, handler ReloadHandler, opts ...WatcherOption) (*Watcher, error) {
	cfg := watcherConfig{
		debounceDelay: 250 * time.Millisecond,
		clock:         debounce.RealClock(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    absPath,
		watcher: fsw,
		handler: handler,
		done:    make(chan struct{}),
	}
	w.reloader = debounce.NewDebouncer(cfg.debounceDelay, w.reload,
		debounce.WithClock(cfg.clock))

	go w.loop()
	return w, nil
}

// loop forwards relevant fsnotify events into the reload debouncer.
func (w *Watcher) loop() {
	defer close(w.done)

	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Name != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.reloader.Call()
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are transient; the next event retriggers.
		}
	}
}

// reload loads the file and hands the result to the handler.
// Parse failures keep the previous configuration: the handler is not
// called.
func (w *Watcher) reload() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	handler := w.handler
	path := w.path
	w.mu.Unlock()

	cfg, err := Load(path)
	if err != nil {
		return
	}
	if handler != nil {
		handler(cfg)
	}
}

// Close stops watching. Pending reloads are canceled.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.closed = true
	w.mu.Unlock()

	w.reloader.Cancel()
	err := w.watcher.Close()
	<-w.done
	return err
}
