package session

import (
	"fmt"

	"github.com/dshills/coedit/internal/engine/cursor"
)

// Style is an inline markdown-style formatting marker.
type Style int

const (
	// StyleBold wraps the selection in "**".
	StyleBold Style = iota
	// StyleItalic wraps the selection in "*".
	StyleItalic
	// StyleUnderline wraps the selection in "__".
	StyleUnderline
)

// String returns the style name.
func (st Style) String() string {
	switch st {
	case StyleBold:
		return "bold"
	case StyleItalic:
		return "italic"
	case StyleUnderline:
		return "underline"
	default:
		return "unknown"
	}
}

// marker returns the literal marker spliced around the selection.
func (st Style) marker() string {
	switch st {
	case StyleBold:
		return "**"
	case StyleItalic:
		return "*"
	case StyleUnderline:
		return "__"
	default:
		return ""
	}
}

// ApplyStyle wraps the current local selection in the style's literal
// markers. This is lexical markup insertion: re-applying a style stacks
// another layer of markers, and there is no toggle-off. An empty
// selection is a no-op and returns false.
func (s *Session) ApplyStyle(st Style) bool {
	marker := st.marker()
	if marker == "" {
		return false
	}

	s.mu.Lock()
	content := s.store.Content()
	sel := s.selection.Clamp(len(content))
	if sel.IsEmpty() {
		s.mu.Unlock()
		return false
	}

	start, end := sel.Start(), sel.End()
	next := content[:start] + marker + content[start:end] + marker + content[end:]

	// Keep the original text selected inside the new markers.
	s.selection = cursor.NewSelection(start+len(marker), end+len(marker))
	s.mu.Unlock()

	s.store.SetContent(next)
	s.committer.Call()
	s.publishDocumentChanged()
	s.publishLocalCursor()
	return true
}

// ApplyTransform runs a named transform over the current local
// selection and splices the result back in. An empty selection is a
// no-op. The transform provider is typically the Lua plugin host.
func (s *Session) ApplyTransform(name string) error {
	s.mu.Lock()
	tr := s.transformer
	content := s.store.Content()
	sel := s.selection.Clamp(len(content))
	s.mu.Unlock()

	if tr == nil {
		return ErrNoTransformer
	}
	if sel.IsEmpty() {
		return nil
	}

	start, end := sel.Start(), sel.End()
	replaced, err := tr.Apply(name, content[start:end])
	if err != nil {
		return fmt.Errorf("transform %q: %w", name, err)
	}

	s.mu.Lock()
	next := content[:start] + replaced + content[end:]
	s.selection = cursor.NewSelection(start, start+len(replaced))
	s.mu.Unlock()

	s.store.SetContent(next)
	s.committer.Call()
	s.publishDocumentChanged()
	s.publishLocalCursor()
	return nil
}
