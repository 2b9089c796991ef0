package ui

import (
	"context"
	"errors"
	"sync"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/coedit/internal/event"
	"github.com/dshills/coedit/internal/session"
)

// ErrEditorClosed is returned when running a stopped editor.
var ErrEditorClosed = errors.New("editor is closed")

// Logger receives editor diagnostics.
type Logger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}

// Editor is the terminal front end for a session.
type Editor struct {
	mu        sync.Mutex
	screen    tcell.Screen
	sess      *session.Session
	logger    Logger
	exportDir string
	scroll    int
	status    string
	closed    bool
}

// Option configures the editor.
type Option func(*Editor)

// WithScreen sets the tcell screen. Intended for tests with a
// simulation screen.
func WithScreen(s tcell.Screen) Option {
	return func(e *Editor) {
		if s != nil {
			e.screen = s
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithExportDir sets the directory Export writes into.
func WithExportDir(dir string) Option {
	return func(e *Editor) {
		if dir != "" {
			e.exportDir = dir
		}
	}
}

// NewEditor creates an editor for sess. Without WithScreen a real
// terminal screen is allocated.
func NewEditor(sess *session.Session, opts ...Option) (*Editor, error) {
	e := &Editor{
		sess:      sess,
		logger:    nopLogger{},
		exportDir: ".",
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		e.screen = screen
	}
	return e, nil
}

// Run initializes the screen and processes events until quit or ctx
// cancellation. Blocks.
func (e *Editor) Run(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEditorClosed
	}
	e.mu.Unlock()

	if err := e.screen.Init(); err != nil {
		return err
	}
	defer e.screen.Fini()

	// Remote activity arrives outside the event loop; an interrupt
	// wakes PollEvent so the new cursor positions get drawn.
	wake := func(event.Event) { _ = e.screen.PostEvent(tcell.NewEventInterrupt(nil)) }
	bus := e.sess.Bus()
	for _, topic := range []event.Topic{
		event.TopicCursorMoved,
		event.TopicPresenceChanged,
		event.TopicDocumentChanged,
	} {
		sub, err := bus.Subscribe(topic, wake)
		if err != nil {
			return err
		}
		defer bus.Unsubscribe(sub)
	}

	stop := context.AfterFunc(ctx, func() {
		_ = e.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		e.draw()

		ev := e.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if ctx.Err() != nil || e.isClosed() {
			return nil
		}

		switch tev := ev.(type) {
		case *tcell.EventKey:
			if !e.handleKey(tev) {
				return nil
			}
		case *tcell.EventResize:
			e.screen.Sync()
		case *tcell.EventInterrupt:
			// Redraw on the next loop pass.
		}
	}
}

// Stop wakes the event loop and makes Run return. Posting repeats on
// every call: a wake posted before the screen is initialized can be
// dropped.
func (e *Editor) Stop() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	_ = e.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

func (e *Editor) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// handleKey applies one key event to the session. Returns false on
// quit.
func (e *Editor) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyEscape:
		return false

	case tcell.KeyCtrlZ:
		if !e.sess.Undo() {
			e.setStatus("nothing to undo")
		}
	case tcell.KeyCtrlY:
		if !e.sess.Redo() {
			e.setStatus("nothing to redo")
		}

	case tcell.KeyCtrlB:
		e.applyStyle(session.StyleBold)
	case tcell.KeyCtrlE:
		e.applyStyle(session.StyleItalic)
	case tcell.KeyCtrlU:
		e.applyStyle(session.StyleUnderline)

	case tcell.KeyCtrlS:
		path, err := e.sess.Export(e.exportDir)
		if err != nil {
			e.logger.Error("export failed: %v", err)
			e.setStatus("export failed")
		} else {
			e.logger.Debug("exported to %s", path)
			e.setStatus("exported " + path)
		}

	case tcell.KeyEnter:
		e.insertText("\n")
	case tcell.KeyTab:
		e.insertText("\t")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		e.deleteBackward()
	case tcell.KeyDelete:
		e.deleteForward()

	case tcell.KeyLeft:
		e.moveCursor(e.offsetLeft(), ev.Modifiers()&tcell.ModShift != 0)
	case tcell.KeyRight:
		e.moveCursor(e.offsetRight(), ev.Modifiers()&tcell.ModShift != 0)
	case tcell.KeyUp:
		e.moveCursor(e.offsetVertical(-1), ev.Modifiers()&tcell.ModShift != 0)
	case tcell.KeyDown:
		e.moveCursor(e.offsetVertical(1), ev.Modifiers()&tcell.ModShift != 0)
	case tcell.KeyHome:
		e.moveCursor(e.offsetLineStart(), ev.Modifiers()&tcell.ModShift != 0)
	case tcell.KeyEnd:
		e.moveCursor(e.offsetLineEnd(), ev.Modifiers()&tcell.ModShift != 0)

	case tcell.KeyRune:
		e.insertText(string(ev.Rune()))
	}
	return true
}

// insertText replaces the selection, if any, with text.
func (e *Editor) insertText(text string) {
	sel := e.sess.Selection()
	if !sel.IsEmpty() {
		e.sess.DeleteRange(sel.Start(), sel.End())
	}
	e.sess.InsertAt(e.sess.LocalCursorOffset(), text)
	e.clearStatus()
}

func (e *Editor) deleteBackward() {
	sel := e.sess.Selection()
	if !sel.IsEmpty() {
		e.sess.DeleteRange(sel.Start(), sel.End())
		return
	}
	cur := e.sess.LocalCursorOffset()
	if cur == 0 {
		return
	}
	_, size := utf8.DecodeLastRuneInString(e.sess.Content()[:cur])
	e.sess.DeleteRange(cur-size, cur)
}

func (e *Editor) deleteForward() {
	sel := e.sess.Selection()
	if !sel.IsEmpty() {
		e.sess.DeleteRange(sel.Start(), sel.End())
		return
	}
	cur := e.sess.LocalCursorOffset()
	content := e.sess.Content()
	if cur >= len(content) {
		return
	}
	_, size := utf8.DecodeRuneInString(content[cur:])
	e.sess.DeleteRange(cur, cur+size)
}

func (e *Editor) moveCursor(offset int, extend bool) {
	if extend {
		e.sess.ExtendLocalSelection(offset)
	} else {
		e.sess.MoveLocalCursor(offset)
	}
}

func (e *Editor) applyStyle(st session.Style) {
	if !e.sess.ApplyStyle(st) {
		e.setStatus("select text to style")
	}
}

// offsetLeft is the byte offset one rune before the cursor.
func (e *Editor) offsetLeft() int {
	cur := e.sess.LocalCursorOffset()
	if cur == 0 {
		return 0
	}
	_, size := utf8.DecodeLastRuneInString(e.sess.Content()[:cur])
	return cur - size
}

// offsetRight is the byte offset one rune past the cursor.
func (e *Editor) offsetRight() int {
	cur := e.sess.LocalCursorOffset()
	content := e.sess.Content()
	if cur >= len(content) {
		return cur
	}
	_, size := utf8.DecodeRuneInString(content[cur:])
	return cur + size
}

// offsetVertical is the offset delta lines away, keeping the column
// when the target line is long enough.
func (e *Editor) offsetVertical(delta int) int {
	content := e.sess.Content()
	cur := e.sess.LocalCursorOffset()
	starts := lineStarts(content)

	line := lineOf(starts, cur)
	col := cur - starts[line]

	target := line + delta
	if target < 0 || target >= len(starts) {
		return cur
	}
	end := lineEnd(content, starts, target)
	off := starts[target] + col
	if off > end {
		off = end
	}
	return off
}

func (e *Editor) offsetLineStart() int {
	content := e.sess.Content()
	starts := lineStarts(content)
	return starts[lineOf(starts, e.sess.LocalCursorOffset())]
}

func (e *Editor) offsetLineEnd() int {
	content := e.sess.Content()
	starts := lineStarts(content)
	return lineEnd(content, starts, lineOf(starts, e.sess.LocalCursorOffset()))
}

func (e *Editor) setStatus(msg string) {
	e.mu.Lock()
	e.status = msg
	e.mu.Unlock()
}

func (e *Editor) clearStatus() {
	e.setStatus("")
}

// lineStarts returns the byte offset of each line's first byte.
func lineStarts(content string) []int {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineOf returns the index of the line containing offset.
func lineOf(starts []int, offset int) int {
	line := 0
	for line+1 < len(starts) && starts[line+1] <= offset {
		line++
	}
	return line
}

// lineEnd returns the offset just before line's terminating newline,
// or the content end for the last line.
func lineEnd(content string, starts []int, line int) int {
	if line+1 < len(starts) {
		return starts[line+1] - 1
	}
	return len(content)
}
