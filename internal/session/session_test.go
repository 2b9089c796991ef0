package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/coedit/internal/debounce"
	"github.com/dshills/coedit/internal/event"
)

// Helper to create a session with a manual clock.
func newTestSession(t *testing.T, opts ...Option) (*Session, *debounce.ManualClock) {
	t.Helper()
	clock := debounce.NewManualClock()
	opts = append(opts, WithClock(clock))
	s := New(opts...)
	t.Cleanup(s.Close)
	return s, clock
}

func TestNewSessionDefaults(t *testing.T) {
	s, _ := newTestSession(t)
	if s.ID() == "" {
		t.Error("empty session ID")
	}
	if s.Content() != "" {
		t.Errorf("content = %q, want empty", s.Content())
	}
	// The initial content is the first history entry.
	if s.HistoryLen() != 1 {
		t.Errorf("HistoryLen() = %d, want 1", s.HistoryLen())
	}
	users := s.Participants()
	if len(users) != 1 || users[0].ID != s.LocalUserID() {
		t.Errorf("Participants() = %v, want just the local user", users)
	}
}

func TestDebouncedCommitSingleEntry(t *testing.T) {
	s, clock := newTestSession(t)

	// Rapid edits within the quiet interval produce exactly one commit,
	// timed from the last edit.
	s.SetContent("h")
	clock.Advance(500 * time.Millisecond)
	s.SetContent("he")
	clock.Advance(500 * time.Millisecond)
	s.SetContent("hel")

	if s.HistoryLen() != 1 {
		t.Fatalf("HistoryLen() = %d before quiet period, want 1", s.HistoryLen())
	}

	clock.Advance(time.Second)
	if s.HistoryLen() != 2 {
		t.Errorf("HistoryLen() = %d after quiet period, want 2", s.HistoryLen())
	}
}

func TestUndoFlushesPendingEdits(t *testing.T) {
	s, _ := newTestSession(t, WithContent("base"))

	s.SetContent("edited")
	// No quiet period has elapsed; Undo must still see the edit.
	if !s.Undo() {
		t.Fatal("Undo() = false with a pending edit")
	}
	if s.Content() != "base" {
		t.Errorf("content = %q after undo, want base", s.Content())
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s, clock := newTestSession(t)

	s.SetContent("a")
	clock.Advance(time.Second)
	s.SetContent("ab")
	clock.Advance(time.Second)

	if !s.Undo() {
		t.Fatal("Undo() failed")
	}
	if s.Content() != "a" {
		t.Fatalf("content = %q, want a", s.Content())
	}
	if !s.Redo() {
		t.Fatal("Redo() failed")
	}
	if s.Content() != "ab" {
		t.Errorf("content = %q, want ab", s.Content())
	}
}

func TestEditAfterUndoInvalidatesRedo(t *testing.T) {
	s, clock := newTestSession(t)

	s.SetContent("a")
	clock.Advance(time.Second)
	s.SetContent("ab")
	clock.Advance(time.Second)

	s.Undo()
	s.SetContent("az")
	clock.Advance(time.Second)

	if s.Redo() {
		t.Error("Redo() succeeded after a new edit")
	}
	if s.CanRedo() {
		t.Error("CanRedo() = true after a new edit")
	}
}

func TestUndoAtBoundary(t *testing.T) {
	s, _ := newTestSession(t)
	if s.Undo() {
		t.Error("Undo() = true on fresh session")
	}
}

func TestVersionBumpsOnUndo(t *testing.T) {
	s, clock := newTestSession(t)

	s.SetContent("a")
	clock.Advance(time.Second)
	before := s.Snapshot().Version

	s.Undo()
	if v := s.Snapshot().Version; v <= before {
		t.Errorf("version = %d after undo, want > %d", v, before)
	}
}

func TestInsertAt(t *testing.T) {
	s, _ := newTestSession(t, WithContent("hell"))

	s.InsertAt(4, "o")
	if s.Content() != "hello" {
		t.Errorf("content = %q, want hello", s.Content())
	}
	if s.LocalCursorOffset() != 5 {
		t.Errorf("cursor = %d, want 5", s.LocalCursorOffset())
	}
}

func TestInsertAtClampsOffset(t *testing.T) {
	s, _ := newTestSession(t, WithContent("ab"))

	s.InsertAt(99, "c")
	if s.Content() != "abc" {
		t.Errorf("content = %q, want abc", s.Content())
	}
}

func TestDeleteRange(t *testing.T) {
	s, _ := newTestSession(t, WithContent("hello world"))

	s.DeleteRange(5, 11)
	if s.Content() != "hello" {
		t.Errorf("content = %q, want hello", s.Content())
	}
	if s.LocalCursorOffset() != 5 {
		t.Errorf("cursor = %d, want 5", s.LocalCursorOffset())
	}
}

func TestDeleteRangeEmptyNoOp(t *testing.T) {
	s, _ := newTestSession(t, WithContent("ab"))
	v := s.Snapshot().Version
	s.DeleteRange(1, 1)
	if s.Snapshot().Version != v {
		t.Error("version bumped on empty delete")
	}
}

func TestRemoteCursorClamped(t *testing.T) {
	s, _ := newTestSession(t, WithContent("short"))

	s.AddParticipant("r1", "Remote", "#00ff00")
	s.UpdateRemoteCursor("r1", 100)

	offset, ok := s.ParticipantOffset("r1")
	if !ok || offset != 5 {
		t.Errorf("ParticipantOffset = %d, %v, want 5, true", offset, ok)
	}
}

func TestRemoteCursorUnknownUserDropped(t *testing.T) {
	s, _ := newTestSession(t)
	s.UpdateRemoteCursor("ghost", 3)
	if _, ok := s.ParticipantOffset("ghost"); ok {
		t.Error("unknown participant stored")
	}
}

func TestRemoteCursorStaleAfterShrink(t *testing.T) {
	s, _ := newTestSession(t, WithContent("a longer document"))

	s.AddParticipant("r1", "Remote", "#00ff00")
	s.UpdateRemoteCursor("r1", 15)
	s.SetContent("tiny")

	offset, ok := s.ParticipantOffset("r1")
	if !ok || offset > len("tiny") {
		t.Errorf("ParticipantOffset = %d, %v, want clamped to 4", offset, ok)
	}
}

func TestLocalSelectionClampedAfterShrink(t *testing.T) {
	s, _ := newTestSession(t, WithContent("abcdef"))

	s.MoveLocalCursor(6)
	s.SetContent("ab")
	if got := s.LocalCursorOffset(); got != 2 {
		t.Errorf("cursor = %d after shrink, want 2", got)
	}
}

func TestImportCommitsImmediately(t *testing.T) {
	s, _ := newTestSession(t)

	path := filepath.Join(t.TempDir(), "minutes.txt")
	if err := os.WriteFile(path, []byte("imported text"), 0o644); err != nil {
		t.Fatal(err)
	}

	before := s.HistoryLen()
	if err := s.Import(path); err != nil {
		t.Fatalf("Import: %v", err)
	}

	if s.Title() != "minutes" {
		t.Errorf("title = %q, want minutes", s.Title())
	}
	if s.Content() != "imported text" {
		t.Errorf("content = %q", s.Content())
	}
	// No clock advance needed: import bypasses the debounce interval.
	if s.HistoryLen() != before+1 {
		t.Errorf("HistoryLen() = %d, want %d", s.HistoryLen(), before+1)
	}
}

func TestImportBadFile(t *testing.T) {
	s, _ := newTestSession(t, WithContent("keep me"))

	err := s.Import(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("Import of missing file succeeded")
	}
	if s.Content() != "keep me" {
		t.Errorf("content = %q after failed import, want keep me", s.Content())
	}
}

func TestExport(t *testing.T) {
	s, _ := newTestSession(t, WithTitle("report"), WithContent("body"))

	dir := t.TempDir()
	path, err := s.Export(dir)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if filepath.Base(path) != "report.txt" {
		t.Errorf("path = %q, want report.txt basename", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "body" {
		t.Errorf("exported = %q, want body", data)
	}
}

func TestEventsPublished(t *testing.T) {
	s, clock := newTestSession(t)

	var docEvents, histEvents int
	s.Bus().Subscribe(event.TopicDocumentChanged, func(event.Event) { docEvents++ })
	s.Bus().Subscribe(event.TopicHistoryChanged, func(event.Event) { histEvents++ })

	s.SetContent("x")
	clock.Advance(time.Second)

	if docEvents == 0 {
		t.Error("no DocumentChanged events")
	}
	if histEvents == 0 {
		t.Error("no HistoryChanged events after commit")
	}
}

func TestCloseCancelsPendingCommit(t *testing.T) {
	clock := debounce.NewManualClock()
	s := New(WithClock(clock))

	s.SetContent("pending")
	before := s.HistoryLen()
	s.Close()
	clock.Advance(2 * time.Second)

	if s.HistoryLen() != before {
		t.Errorf("HistoryLen() = %d after Close, want %d", s.HistoryLen(), before)
	}
}

func TestCanUndoReflectsPendingEdit(t *testing.T) {
	s, _ := newTestSession(t)
	if s.CanUndo() {
		t.Error("CanUndo() = true on fresh session")
	}
	s.SetContent("x")
	if !s.CanUndo() {
		t.Error("CanUndo() = false with a pending edit")
	}
}
