package history

import (
	"sync"
	"time"
)

// DefaultMaxEntries bounds the log when no capacity is configured.
const DefaultMaxEntries = 50

// Entry is an immutable content snapshot taken at commit time.
type Entry struct {
	Content   string
	Timestamp time.Time
}

// Log manages undo/redo state for a document.
// All methods are safe for concurrent use.
type Log struct {
	mu         sync.Mutex
	entries    []Entry
	index      int
	maxEntries int
}

// Option configures a Log.
type Option func(*Log)

// WithMaxEntries sets the log capacity.
// Values <= 0 fall back to DefaultMaxEntries.
func WithMaxEntries(max int) Option {
	return func(l *Log) {
		if max > 0 {
			l.maxEntries = max
		}
	}
}

// NewLog creates an empty history log.
func NewLog(opts ...Option) *Log {
	l := &Log{
		index:      -1,
		maxEntries: DefaultMaxEntries,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Commit appends content as a new entry after the current index.
// Entries beyond the index are discarded first, which makes redo
// unavailable after a new edit follows an undo. The oldest entries are
// evicted once the log exceeds its capacity.
func (l *Log) Commit(content string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Drop the redo tail.
	l.entries = l.entries[:l.index+1]

	l.entries = append(l.entries, Entry{
		Content:   content,
		Timestamp: time.Now(),
	})

	if len(l.entries) > l.maxEntries {
		excess := len(l.entries) - l.maxEntries
		l.entries = l.entries[excess:]
	}

	l.index = len(l.entries) - 1
}

// Undo moves the index back one entry and returns its content.
// Returns ok=false without changing state when already at the oldest
// entry (or the log is empty).
func (l *Log) Undo() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.index <= 0 {
		return "", false
	}
	l.index--
	return l.entries[l.index].Content, true
}

// Redo moves the index forward one entry and returns its content.
// Returns ok=false without changing state when already at the newest
// entry.
func (l *Log) Redo() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.index >= len(l.entries)-1 {
		return "", false
	}
	l.index++
	return l.entries[l.index].Content, true
}

// CanUndo returns true if an undo is available.
func (l *Log) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.index > 0
}

// CanRedo returns true if a redo is available.
func (l *Log) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.index < len(l.entries)-1
}

// Current returns the content at the current index.
// Returns ok=false when the log is empty.
func (l *Log) Current() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.index < 0 || l.index >= len(l.entries) {
		return "", false
	}
	return l.entries[l.index].Content, true
}

// Len returns the number of entries in the log.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Index returns the current entry index, or -1 when the log is empty.
func (l *Log) Index() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.index
}

// MaxEntries returns the log capacity.
func (l *Log) MaxEntries() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.maxEntries
}

// Entries returns a copy of all entries, oldest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]Entry, len(l.entries))
	copy(result, l.entries)
	return result
}

// Clear removes all entries and resets the index.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.index = -1
}
