package cursor

import "fmt"

// Cursor represents an insertion point in the document.
// Cursor is an immutable value type; offsets are character indexes into
// the document content.
type Cursor struct {
	offset int
}

// New creates a cursor at the given offset.
// Negative offsets are pinned to 0.
func New(offset int) Cursor {
	if offset < 0 {
		offset = 0
	}
	return Cursor{offset: offset}
}

// Offset returns the cursor's offset.
func (c Cursor) Offset() int {
	return c.offset
}

// MoveTo returns a new cursor at the given offset.
func (c Cursor) MoveTo(offset int) Cursor {
	return New(offset)
}

// MoveBy returns a new cursor shifted by delta characters.
func (c Cursor) MoveBy(delta int) Cursor {
	return New(c.offset + delta)
}

// Clamp returns a cursor clamped to the valid range [0, maxOffset].
func (c Cursor) Clamp(maxOffset int) Cursor {
	if maxOffset < 0 {
		maxOffset = 0
	}
	if c.offset > maxOffset {
		return Cursor{offset: maxOffset}
	}
	return c
}

// Before returns true if c is before other.
func (c Cursor) Before(other Cursor) bool {
	return c.offset < other.offset
}

// Equals returns true if two cursors are at the same position.
func (c Cursor) Equals(other Cursor) bool {
	return c.offset == other.offset
}

// String returns a string representation of the cursor.
func (c Cursor) String() string {
	return fmt.Sprintf("Cursor(%d)", c.offset)
}
