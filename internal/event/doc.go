// Package event provides a small topic-keyed pub/sub bus for session
// events.
//
// Delivery is synchronous and in subscription order, matching the
// session's single-writer, event-driven model: every handler runs to
// completion before Publish returns. Handlers that need concurrency can
// hand off to their own goroutines.
package event
