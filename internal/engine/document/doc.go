// Package document provides the in-memory document store for an editing
// session.
//
// A Store holds the current text content, the display title, and a
// monotonically increasing version counter. Content mutations bump the
// version; title changes do not. Snapshots are immutable value copies
// safe to hand to other goroutines.
//
// The Store has exactly one logical writer (the local editing session).
// The mutex exists so readers such as the renderer can take snapshots
// while an edit is in flight.
package document
