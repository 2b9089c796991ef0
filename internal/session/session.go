package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/coedit/internal/debounce"
	"github.com/dshills/coedit/internal/engine/cursor"
	"github.com/dshills/coedit/internal/engine/document"
	"github.com/dshills/coedit/internal/engine/history"
	"github.com/dshills/coedit/internal/event"
	"github.com/dshills/coedit/internal/transfer"
)

// ErrNoTransformer is returned by ApplyTransform when no transform
// provider was configured.
var ErrNoTransformer = errors.New("no transformer configured")

// Transformer applies a named text transform to a selection.
type Transformer interface {
	Apply(name, text string) (string, error)
}

// Session is the state of one collaborative editing session: document,
// history, participant cursors, and the debounced commit policy.
// All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id       string
	store    *document.Store
	log      *history.Log
	registry *cursor.Registry
	bus      *event.Bus

	committer   *debounce.Debouncer
	transformer Transformer

	localID   string
	selection cursor.Selection
	closed    bool
}

// New creates a session and registers the local participant.
// The initial content becomes the first history entry.
func New(opts ...Option) *Session {
	cfg := config{
		quietInterval: DefaultQuietInterval,
		clock:         debounce.RealClock(),
		localName:     DefaultLocalName,
		localColor:    DefaultLocalColor,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var storeOpts []document.Option
	if cfg.title != "" {
		storeOpts = append(storeOpts, document.WithTitle(cfg.title))
	}
	if cfg.content != "" {
		storeOpts = append(storeOpts, document.WithContent(cfg.content))
	}

	var logOpts []history.Option
	if cfg.maxHistory > 0 {
		logOpts = append(logOpts, history.WithMaxEntries(cfg.maxHistory))
	}

	s := &Session{
		id:          uuid.NewString(),
		store:       document.NewStore(storeOpts...),
		log:         history.NewLog(logOpts...),
		registry:    cursor.NewRegistry(),
		bus:         event.NewBus(),
		transformer: cfg.transformer,
		localID:     uuid.NewString(),
	}

	s.committer = debounce.NewDebouncer(cfg.quietInterval, s.commitNow,
		debounce.WithClock(cfg.clock))

	s.registry.Add(s.localID, cfg.localName, cfg.localColor)
	s.log.Commit(s.store.Content())

	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// LocalUserID returns the local participant's user ID.
func (s *Session) LocalUserID() string {
	return s.localID
}

// Bus returns the session event bus.
func (s *Session) Bus() *event.Bus {
	return s.bus
}

// Close tears the session down, canceling any pending commit.
// Edits already made but not yet committed are dropped from history.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.committer.Cancel()
}

// Snapshot returns an immutable copy of the document state.
func (s *Session) Snapshot() document.Snapshot {
	return s.store.Snapshot()
}

// Content returns the current document content.
func (s *Session) Content() string {
	return s.store.Content()
}

// Title returns the current document title.
func (s *Session) Title() string {
	return s.store.Title()
}

// SetTitle renames the document. The version counter is untouched.
func (s *Session) SetTitle(title string) {
	s.store.SetTitle(title)
	s.publishDocumentChanged()
}

// SetContent replaces the document content and reschedules the
// debounced history commit.
func (s *Session) SetContent(text string) {
	s.store.SetContent(text)
	s.clampLocalSelection()
	s.committer.Call()
	s.publishDocumentChanged()
}

// InsertAt splices text into the content at offset and moves the local
// cursor past the insertion. Offsets outside the content are clamped.
func (s *Session) InsertAt(offset int, text string) {
	if text == "" {
		return
	}

	s.mu.Lock()
	content := s.store.Content()
	offset = clampOffset(offset, len(content))
	next := content[:offset] + text + content[offset:]
	s.selection = cursor.NewCursorSelection(offset + len(text))
	s.mu.Unlock()

	s.store.SetContent(next)
	s.committer.Call()
	s.publishDocumentChanged()
	s.publishLocalCursor()
}

// DeleteRange removes content[start:end] and collapses the local cursor
// to the start of the removed range. Bounds are clamped; an empty range
// is a no-op.
func (s *Session) DeleteRange(start, end int) {
	s.mu.Lock()
	content := s.store.Content()
	start = clampOffset(start, len(content))
	end = clampOffset(end, len(content))
	if start > end {
		start, end = end, start
	}
	if start == end {
		s.mu.Unlock()
		return
	}
	next := content[:start] + content[end:]
	s.selection = cursor.NewCursorSelection(start)
	s.mu.Unlock()

	s.store.SetContent(next)
	s.committer.Call()
	s.publishDocumentChanged()
	s.publishLocalCursor()
}

// Commit flushes any pending debounced commit immediately.
func (s *Session) Commit() {
	s.committer.CallImmediate()
}

// commitNow appends the current content to the history log.
// Debouncer callback; also the immediate-commit path.
func (s *Session) commitNow() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.log.Commit(s.store.Content())
	s.publishHistoryChanged()
}

// Undo steps the history back one entry and applies it to the document.
// A pending debounced commit is flushed first so the newest edits are
// undoable. Returns false at the history boundary.
func (s *Session) Undo() bool {
	s.committer.CallImmediate()

	content, ok := s.log.Undo()
	if !ok {
		return false
	}
	s.applyHistoryContent(content)
	return true
}

// Redo steps the history forward one entry and applies it.
// Returns false at the boundary or when a new edit invalidated redo.
func (s *Session) Redo() bool {
	s.committer.CallImmediate()

	content, ok := s.log.Redo()
	if !ok {
		return false
	}
	s.applyHistoryContent(content)
	return true
}

// applyHistoryContent puts an undo/redo snapshot into the store without
// rescheduling a commit, which would truncate the redo tail.
func (s *Session) applyHistoryContent(content string) {
	s.store.SetContent(content)
	s.clampLocalSelection()
	s.publishDocumentChanged()
	s.publishHistoryChanged()
	s.publishLocalCursor()
}

// CanUndo returns true if an undo is available.
func (s *Session) CanUndo() bool {
	return s.log.CanUndo() || s.committer.IsPending()
}

// CanRedo returns true if a redo is available.
func (s *Session) CanRedo() bool {
	return s.log.CanRedo()
}

// HistoryLen returns the number of committed history entries.
func (s *Session) HistoryLen() int {
	return s.log.Len()
}

// Import replaces the document with the contents of a text file.
// The title comes from the filename and the result is committed to
// history immediately, bypassing the debounce interval.
func (s *Session) Import(path string) error {
	doc, err := transfer.Import(path)
	if err != nil {
		return err
	}

	s.committer.Cancel()
	s.store.SetTitle(doc.Title)
	s.store.SetContent(doc.Content)
	s.clampLocalSelection()
	s.log.Commit(doc.Content)

	s.publishDocumentChanged()
	s.publishHistoryChanged()
	s.publishLocalCursor()
	return nil
}

// Export writes the document content to "<title>.txt" in dir and
// returns the written path.
func (s *Session) Export(dir string) (string, error) {
	snap := s.store.Snapshot()
	return transfer.Export(dir, snap.Title, snap.Content)
}

// MoveLocalCursor collapses the local selection to a cursor at offset.
func (s *Session) MoveLocalCursor(offset int) {
	s.mu.Lock()
	offset = clampOffset(offset, s.store.Len())
	s.selection = cursor.NewCursorSelection(offset)
	s.mu.Unlock()

	s.registry.Update(s.localID, offset, s.store.Len())
	s.publishLocalCursor()
}

// ExtendLocalSelection moves the selection head, keeping the anchor.
func (s *Session) ExtendLocalSelection(offset int) {
	s.mu.Lock()
	offset = clampOffset(offset, s.store.Len())
	s.selection = s.selection.Extend(offset)
	s.mu.Unlock()

	s.registry.Update(s.localID, offset, s.store.Len())
	s.publishLocalCursor()
}

// Selection returns the local selection, clamped to the content.
func (s *Session) Selection() cursor.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Clamp(s.store.Len())
}

// LocalCursorOffset returns the local cursor offset.
func (s *Session) LocalCursorOffset() int {
	return s.Selection().Head
}

// LocalPosition returns the local cursor's display position.
func (s *Session) LocalPosition() cursor.Point {
	snap := s.store.Snapshot()
	sel := s.Selection()
	return cursor.PositionAt(snap.Content, sel.Head)
}

// AddParticipant registers a remote participant.
func (s *Session) AddParticipant(id, name, color string) {
	s.registry.Add(id, name, color)
	s.bus.Publish(event.PresenceChanged{UserID: id, Active: true})
}

// RemoveParticipant drops a remote participant.
func (s *Session) RemoveParticipant(id string) {
	s.registry.Remove(id)
	s.bus.Publish(event.PresenceChanged{UserID: id, Active: false})
}

// SetParticipantActive toggles a participant's active flag.
func (s *Session) SetParticipantActive(id string, active bool) {
	s.registry.SetActive(id, active)
	s.bus.Publish(event.PresenceChanged{UserID: id, Active: active})
}

// UpdateRemoteCursor applies an inbound cursor update for a remote
// participant, last-write-wins. Offsets are clamped to the content and
// updates for unknown participants are dropped.
func (s *Session) UpdateRemoteCursor(id string, offset int) {
	maxOffset := s.store.Len()
	s.registry.Update(id, offset, maxOffset)

	if clamped, ok := s.registry.Offset(id, maxOffset); ok {
		s.bus.Publish(event.CursorMoved{
			UserID:   id,
			Offset:   clamped,
			Position: cursor.PositionAt(s.store.Content(), clamped),
		})
	}
}

// Participants returns all active participants in registration order.
func (s *Session) Participants() []cursor.User {
	return s.registry.ActiveUsers()
}

// ParticipantPosition returns a participant's display position.
func (s *Session) ParticipantPosition(id string) (cursor.Point, bool) {
	return s.registry.Position(id, s.store.Content())
}

// ParticipantOffset returns a participant's clamped cursor offset.
func (s *Session) ParticipantOffset(id string) (int, bool) {
	return s.registry.Offset(id, s.store.Len())
}

// clampLocalSelection re-clamps the selection after content changes.
func (s *Session) clampLocalSelection() {
	s.mu.Lock()
	maxOffset := s.store.Len()
	s.selection = s.selection.Clamp(maxOffset)
	head := s.selection.Head
	s.mu.Unlock()

	s.registry.Update(s.localID, head, maxOffset)
}

func (s *Session) publishDocumentChanged() {
	snap := s.store.Snapshot()
	s.bus.Publish(event.DocumentChanged{
		Title:   snap.Title,
		Version: snap.Version,
		Len:     len(snap.Content),
	})
}

func (s *Session) publishHistoryChanged() {
	s.bus.Publish(event.HistoryChanged{
		CanUndo: s.log.CanUndo(),
		CanRedo: s.log.CanRedo(),
		Entries: s.log.Len(),
	})
}

func (s *Session) publishLocalCursor() {
	sel := s.Selection()
	s.bus.Publish(event.CursorMoved{
		UserID:   s.localID,
		Offset:   sel.Head,
		Position: cursor.PositionAt(s.store.Content(), sel.Head),
	})
}

func clampOffset(offset, max int) int {
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}
