package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/coedit/internal/engine/cursor"
)

var (
	styleDefault   = tcell.StyleDefault
	styleSelection = tcell.StyleDefault.Reverse(true)
	styleStatus    = tcell.StyleDefault.Reverse(true).Bold(true)
)

// draw renders the full screen: document area, remote cursors, and the
// status line on the bottom row.
func (e *Editor) draw() {
	width, height := e.screen.Size()
	if width == 0 || height == 0 {
		return
	}
	textRows := height - 1

	snap := e.sess.Snapshot()
	content := snap.Content
	sel := e.sess.Selection()
	local := e.sess.LocalPosition()

	e.scrollTo(local.Line-1, textRows)

	e.screen.Clear()

	lines := strings.Split(content, "\n")
	starts := lineStarts(content)
	for row := 0; row < textRows; row++ {
		line := e.scroll + row
		if line >= len(lines) {
			break
		}
		e.drawLine(row, lines[line], starts[line], sel, width)
	}

	e.drawRemoteCursors(textRows, width)
	e.drawStatusLine(snap.Title, snap.Version, local, height-1, width)

	e.screen.ShowCursor(local.Column-1, local.Line-1-e.scroll)
	e.screen.Show()
}

// scrollTo keeps the cursor line inside the visible text rows.
func (e *Editor) scrollTo(cursorLine, textRows int) {
	if textRows <= 0 {
		return
	}
	if cursorLine < e.scroll {
		e.scroll = cursorLine
	}
	if cursorLine >= e.scroll+textRows {
		e.scroll = cursorLine - textRows + 1
	}
}

// drawLine renders one document line, highlighting the local selection.
func (e *Editor) drawLine(row int, line string, lineStart int, sel cursor.Selection, width int) {
	col := 0
	for i, r := range line {
		if col >= width {
			break
		}
		style := styleDefault
		off := lineStart + i
		if !sel.IsEmpty() && off >= sel.Start() && off < sel.End() {
			style = styleSelection
		}
		e.screen.SetContent(col, row, r, nil, style)
		col++
	}
}

// drawRemoteCursors overlays each active remote participant's position
// in that participant's color.
func (e *Editor) drawRemoteCursors(textRows, width int) {
	localID := e.sess.LocalUserID()
	for _, u := range e.sess.Participants() {
		if u.ID == localID || !u.Active {
			continue
		}
		pt, ok := e.sess.ParticipantPosition(u.ID)
		if !ok {
			continue
		}
		row := pt.Line - 1 - e.scroll
		col := pt.Column - 1
		if row < 0 || row >= textRows || col < 0 || col >= width {
			continue
		}
		style := tcell.StyleDefault.Background(tcell.GetColor(u.Color)).Foreground(tcell.ColorBlack)
		r, _, _, _ := e.screen.GetContent(col, row)
		if r == 0 {
			r = ' '
		}
		e.screen.SetContent(col, row, r, nil, style)
	}
}

// drawStatusLine renders the bottom row: title, version, cursor
// position, undo/redo availability, and participant count.
func (e *Editor) drawStatusLine(title string, version int64, local cursor.Point, row, width int) {
	e.mu.Lock()
	notice := e.status
	e.mu.Unlock()

	undo, redo := " ", " "
	if e.sess.CanUndo() {
		undo = "u"
	}
	if e.sess.CanRedo() {
		redo = "r"
	}

	active := 0
	localID := e.sess.LocalUserID()
	for _, u := range e.sess.Participants() {
		if u.Active && u.ID != localID {
			active++
		}
	}

	text := fmt.Sprintf(" %s  v%d  Ln %d, Col %d  [%s%s]  %d online", title, version, local.Line, local.Column, undo, redo, active)
	if notice != "" {
		text += "  | " + notice
	}

	col := 0
	for _, r := range text {
		if col >= width {
			break
		}
		e.screen.SetContent(col, row, r, nil, styleStatus)
		col++
	}
	for ; col < width; col++ {
		e.screen.SetContent(col, row, ' ', nil, styleStatus)
	}
}
