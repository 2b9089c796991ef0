package document

import (
	"strings"
	"sync"
	"time"
)

// DefaultTitle is used for documents that have not been named yet.
const DefaultTitle = "Untitled"

// Snapshot is an immutable copy of the document state.
type Snapshot struct {
	Title        string
	Content      string
	Version      int64
	LastModified time.Time
}

// Store holds the document state for a session.
// All methods are safe for concurrent use.
type Store struct {
	mu           sync.RWMutex
	title        string
	content      string
	version      int64
	lastModified time.Time
	now          func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithTitle sets the initial title.
func WithTitle(title string) Option {
	return func(s *Store) {
		if title != "" {
			s.title = title
		}
	}
}

// WithContent sets the initial content.
func WithContent(content string) Option {
	return func(s *Store) {
		s.content = content
	}
}

// WithClock sets the time source used for LastModified stamps.
// Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates a document store.
// The version counter starts at 1.
func NewStore(opts ...Option) *Store {
	s := &Store{
		title:   DefaultTitle,
		version: 1,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastModified = s.now()
	return s
}

// SetContent replaces the document content, bumps the version, and
// updates the last-modified stamp. Any content is accepted, including
// empty.
func (s *Store) SetContent(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = text
	s.version++
	s.lastModified = s.now()
}

// SetTitle replaces the document title. The version is not affected.
func (s *Store) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = title
}

// Content returns the current document content.
func (s *Store) Content() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.content
}

// Title returns the current document title.
func (s *Store) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title
}

// Version returns the current version counter.
func (s *Store) Version() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Len returns the content length in bytes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.content)
}

// LineCount returns the number of lines in the content.
// An empty document has one line.
func (s *Store) LineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return strings.Count(s.content, "\n") + 1
}

// Snapshot returns an immutable copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Title:        s.title,
		Content:      s.content,
		Version:      s.version,
		LastModified: s.lastModified,
	}
}
