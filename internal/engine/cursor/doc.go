// Package cursor tracks per-user cursor positions within a document.
//
// A Registry maps user IDs to character offsets into the document
// content. Updates are last-write-wins and offsets are always clamped to
// the current content bounds, never rejected — a stale cursor after the
// document shrinks must not crash anything downstream.
//
// PositionAt derives a 1-based {line, column} Point from an offset for
// display. Registration order is preserved so participant lists render
// stably.
//
// The local user's cursor is driven by input events; remote users are
// driven by an inbound update stream (see the presence package). Each
// user's record has exactly one writer, so no cross-user ordering is
// defined or needed here.
package cursor
