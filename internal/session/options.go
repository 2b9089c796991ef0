package session

import (
	"time"

	"github.com/dshills/coedit/internal/debounce"
)

// Defaults for session configuration.
const (
	DefaultQuietInterval = time.Second
	DefaultLocalName     = "You"
	DefaultLocalColor    = "#4f8fff"
)

// Option configures a Session.
type Option func(*config)

type config struct {
	title         string
	content       string
	quietInterval time.Duration
	maxHistory    int
	clock         debounce.Clock
	localName     string
	localColor    string
	transformer   Transformer
}

// WithTitle sets the initial document title.
func WithTitle(title string) Option {
	return func(c *config) { c.title = title }
}

// WithContent sets the initial document content.
func WithContent(content string) Option {
	return func(c *config) { c.content = content }
}

// WithQuietInterval sets the debounce interval for history commits.
func WithQuietInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.quietInterval = d
		}
	}
}

// WithMaxHistory sets the history log capacity.
func WithMaxHistory(max int) Option {
	return func(c *config) { c.maxHistory = max }
}

// WithClock sets the timer source for the commit debouncer.
// Intended for tests.
func WithClock(clock debounce.Clock) Option {
	return func(c *config) { c.clock = clock }
}

// WithLocalUser sets the local participant's display name and color.
func WithLocalUser(name, color string) Option {
	return func(c *config) {
		if name != "" {
			c.localName = name
		}
		if color != "" {
			c.localColor = color
		}
	}
}

// WithTransformer sets the named-transform provider used by
// ApplyTransform.
func WithTransformer(tr Transformer) Option {
	return func(c *config) { c.transformer = tr }
}
