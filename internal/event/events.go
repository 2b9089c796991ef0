package event

import (
	"time"

	"github.com/dshills/coedit/internal/engine/cursor"
)

// Topics published by the session.
const (
	TopicDocumentChanged Topic = "document.changed"
	TopicHistoryChanged  Topic = "history.changed"
	TopicCursorMoved     Topic = "cursor.moved"
	TopicPresenceChanged Topic = "presence.changed"
	TopicConfigReloaded  Topic = "config.reloaded"
)

// DocumentChanged fires whenever document content or title changes.
type DocumentChanged struct {
	Title   string
	Version int64
	Len     int
}

// EventTopic implements Event.
func (DocumentChanged) EventTopic() Topic { return TopicDocumentChanged }

// HistoryChanged fires on commit, undo, and redo.
type HistoryChanged struct {
	CanUndo bool
	CanRedo bool
	Entries int
}

// EventTopic implements Event.
func (HistoryChanged) EventTopic() Topic { return TopicHistoryChanged }

// CursorMoved fires when any tracked cursor changes position.
type CursorMoved struct {
	UserID   string
	Offset   int
	Position cursor.Point
}

// EventTopic implements Event.
func (CursorMoved) EventTopic() Topic { return TopicCursorMoved }

// PresenceChanged fires when a participant joins, leaves, or changes
// active state.
type PresenceChanged struct {
	UserID string
	Active bool
}

// EventTopic implements Event.
func (PresenceChanged) EventTopic() Topic { return TopicPresenceChanged }

// ConfigReloaded fires after the config watcher applies a new file.
type ConfigReloaded struct {
	Path string
	At   time.Time
}

// EventTopic implements Event.
func (ConfigReloaded) EventTopic() Topic { return TopicConfigReloaded }
