package cursor

import "strings"

// Point is a 1-based line/column position for display.
type Point struct {
	Line   int
	Column int
}

// PositionAt derives the display position of an offset within content.
// Offsets outside [0, len(content)] are clamped first. Line and column
// are both 1-based; an offset just past a trailing newline lands on the
// empty final line at column 1.
func PositionAt(content string, offset int) Point {
	if offset < 0 {
		offset = 0
	}
	if offset > len(content) {
		offset = len(content)
	}

	before := content[:offset]
	line := strings.Count(before, "\n") + 1

	lastBreak := strings.LastIndexByte(before, '\n')
	column := len(before) - lastBreak // lastBreak is -1 when no newline

	return Point{Line: line, Column: column}
}
