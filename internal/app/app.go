// Package app wires together the coedit components and manages the
// application lifecycle: configuration, the editing session, the Lua
// transform host, the simulated collaborator feed, and the terminal
// front end.
package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/coedit/internal/config"
	"github.com/dshills/coedit/internal/event"
	"github.com/dshills/coedit/internal/plugin"
	"github.com/dshills/coedit/internal/presence"
	"github.com/dshills/coedit/internal/session"
	"github.com/dshills/coedit/internal/ui"
)

// Application is the central coordinator for all coedit components.
type Application struct {
	mu sync.RWMutex

	cfg    config.Config
	logger *Logger

	sess    *session.Session
	host    *plugin.Host
	feed    presence.Feed
	watcher *config.Watcher

	editor *ui.Editor
	screen tcell.Screen

	running atomic.Bool

	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// ImportFile is a text file loaded into the session on startup.
	ImportFile string

	// Title overrides the document title.
	Title string

	// ExportDir is where exported documents are written.
	// Defaults to the current directory.
	ExportDir string

	// LogLevel sets the logging verbosity.
	LogLevel string

	// Logger overrides the default stderr logger.
	Logger *Logger
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}

	if err := app.bootstrap(); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Logger
	if app.opts.Logger != nil {
		app.logger = app.opts.Logger
	} else {
		logCfg := DefaultLoggerConfig()
		logCfg.Level = ParseLogLevel(app.opts.LogLevel)
		app.logger = NewLogger(logCfg)
	}

	// 2. Configuration
	cfg, err := config.Load(app.opts.ConfigPath)
	if err != nil {
		// Malformed config is non-fatal; run on defaults.
		app.logger.Warn("config load failed, using defaults: %v", err)
	}
	app.cfg = cfg

	// 3. Lua transform host
	app.host = plugin.NewHost()
	if dir := cfg.Plugin.Dir; dir != "" {
		if err := app.host.LoadDir(dir); err != nil {
			app.logger.Warn("plugin load failed: %v", err)
		}
	}

	// 4. Editing session
	sessOpts := []session.Option{
		session.WithQuietInterval(cfg.Commit.QuietInterval()),
		session.WithMaxHistory(cfg.History.MaxEntries),
		session.WithTransformer(app.host),
	}
	if app.opts.Title != "" {
		sessOpts = append(sessOpts, session.WithTitle(app.opts.Title))
	}
	app.sess = session.New(sessOpts...)

	if app.opts.ImportFile != "" {
		if err := app.sess.Import(app.opts.ImportFile); err != nil {
			return &InitError{Component: "import", Err: err}
		}
		app.logger.Info("imported %s", app.opts.ImportFile)
	}

	// 5. Simulated collaborators
	app.feed = presence.NewSimulatedFeed(app.sess, cfg.Presence.Collaborators,
		presence.WithInterval(cfg.Presence.Interval()),
		presence.WithLogger(app.logger.WithComponent("presence")))

	// 6. Config watcher
	if app.opts.ConfigPath != "" {
		watcher, err := config.NewWatcher(app.opts.ConfigPath, app.applyConfig)
		if err != nil {
			// Watching is best-effort; the loaded config stands.
			app.logger.Warn("config watch failed: %v", err)
		} else {
			app.watcher = watcher
		}
	}

	return nil
}

// applyConfig takes a reloaded configuration live. Only the log level
// changes at runtime; the rest applies on the next start. Subscribers
// are told either way.
func (app *Application) applyConfig(cfg config.Config) {
	app.mu.Lock()
	app.cfg = cfg
	app.mu.Unlock()

	app.logger.SetLevel(ParseLogLevel(cfg.Log.Level))
	app.logger.Info("configuration reloaded from %s", app.opts.ConfigPath)

	app.sess.Bus().Publish(event.ConfigReloaded{Path: app.opts.ConfigPath, At: time.Now()})
}

// SetScreen sets the terminal screen. Must be called before Run.
// Intended for tests with a simulation screen.
func (app *Application) SetScreen(s tcell.Screen) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.screen = s
	return nil
}

// Session returns the editing session.
func (app *Application) Session() *session.Session {
	return app.sess
}

// Config returns the active configuration.
func (app *Application) Config() config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.cfg
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Run starts the collaborator feed and the terminal front end.
// Blocks until the editor quits or ctx is canceled.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	uiOpts := []ui.Option{
		ui.WithLogger(app.logger.WithComponent("ui")),
	}
	if app.opts.ExportDir != "" {
		uiOpts = append(uiOpts, ui.WithExportDir(app.opts.ExportDir))
	}
	app.mu.Lock()
	if app.screen != nil {
		uiOpts = append(uiOpts, ui.WithScreen(app.screen))
	}
	app.mu.Unlock()

	editor, err := ui.NewEditor(app.sess, uiOpts...)
	if err != nil {
		return &InitError{Component: "editor", Err: err}
	}
	app.mu.Lock()
	app.editor = editor
	app.mu.Unlock()

	if err := app.feed.Start(ctx); err != nil {
		return &InitError{Component: "presence feed", Err: err}
	}
	defer app.feed.Stop()

	app.logger.Info("session %s started, %d transforms loaded",
		app.sess.ID(), len(app.host.Names()))

	return editor.Run(ctx)
}

// Stop makes Run return.
func (app *Application) Stop() {
	app.mu.RLock()
	editor := app.editor
	app.mu.RUnlock()

	if editor != nil {
		editor.Stop()
	}
}

// Shutdown releases all resources. Safe to call more than once and
// after a failed New.
func (app *Application) Shutdown() {
	app.Stop()

	if app.watcher != nil {
		_ = app.watcher.Close()
	}
	if app.feed != nil {
		app.feed.Stop()
	}
	if app.host != nil {
		app.host.Close()
	}
	if app.sess != nil {
		app.sess.Close()
	}
}
