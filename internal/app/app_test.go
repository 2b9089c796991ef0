package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/coedit/internal/event"
)

func newTestApp(t *testing.T, opts Options) *Application {
	t.Helper()

	if opts.Logger == nil {
		opts.Logger = NullLogger
	}
	application, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(application.Shutdown)
	return application
}

func TestNewDefaults(t *testing.T) {
	application := newTestApp(t, Options{})

	if application.Session() == nil {
		t.Fatal("no session created")
	}
	cfg := application.Config()
	if cfg.History.MaxEntries != 50 {
		t.Errorf("MaxEntries = %d, want 50", cfg.History.MaxEntries)
	}
	if cfg.Commit.QuietInterval() != time.Second {
		t.Errorf("QuietInterval = %v, want 1s", cfg.Commit.QuietInterval())
	}
}

func TestNewWithTitle(t *testing.T) {
	application := newTestApp(t, Options{Title: "meeting-notes"})

	if got := application.Session().Title(); got != "meeting-notes" {
		t.Errorf("title = %q, want %q", got, "meeting-notes")
	}
}

func TestNewImportsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.txt")
	if err := os.WriteFile(path, []byte("imported body"), 0o644); err != nil {
		t.Fatal(err)
	}

	application := newTestApp(t, Options{ImportFile: path})

	sess := application.Session()
	if got := sess.Content(); got != "imported body" {
		t.Errorf("content = %q, want %q", got, "imported body")
	}
	if got := sess.Title(); got != "draft" {
		t.Errorf("title = %q, want %q", got, "draft")
	}
}

func TestNewImportFailure(t *testing.T) {
	_, err := New(Options{
		ImportFile: filepath.Join(t.TempDir(), "missing.txt"),
		Logger:     NullLogger,
	})

	var initErr *InitError
	if !errors.As(err, &initErr) {
		t.Fatalf("err = %v, want *InitError", err)
	}
	if initErr.Component != "import" {
		t.Errorf("component = %q, want import", initErr.Component)
	}
}

func TestNewLoadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coedit.toml")
	if err := os.WriteFile(path, []byte("[commit]\nquiet_interval_ms = 250\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	application := newTestApp(t, Options{ConfigPath: path})

	if got := application.Config().Commit.QuietInterval(); got != 250*time.Millisecond {
		t.Errorf("QuietInterval = %v, want 250ms", got)
	}
}

func TestConfigReloadPublishesEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coedit.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	application := newTestApp(t, Options{ConfigPath: path})

	reloaded := make(chan event.Event, 1)
	_, err := application.Session().Bus().Subscribe(event.TopicConfigReloaded, func(ev event.Event) {
		select {
		case reloaded <- ev:
		default:
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("[history]\nmax_entries = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("no reload event")
	}
	if got := application.Config().History.MaxEntries; got != 7 {
		t.Errorf("MaxEntries after reload = %d, want 7", got)
	}
}

func TestRunAndStop(t *testing.T) {
	application := newTestApp(t, Options{})

	sim := tcell.NewSimulationScreen("UTF-8")
	if err := application.SetScreen(sim); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- application.Run(context.Background()) }()

	deadline := time.After(5 * time.Second)
	for {
		application.Stop()
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			return
		case <-deadline:
			t.Fatal("Run did not stop")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRunTwice(t *testing.T) {
	application := newTestApp(t, Options{})

	sim := tcell.NewSimulationScreen("UTF-8")
	if err := application.SetScreen(sim); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- application.Run(context.Background()) }()

	// Wait until the first Run is marked running.
	deadline := time.Now().Add(5 * time.Second)
	for !application.running.Load() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if err := application.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run: err = %v, want ErrAlreadyRunning", err)
	}

	application.Stop()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("first Run did not stop")
	}
}
