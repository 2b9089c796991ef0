// Package session owns the state of one collaborative editing session.
//
// A Session ties together the document store, the history log, and the
// cursor registry, and owns the debounce policy that turns a burst of
// edits into a single history commit after a quiet interval. It is the
// explicit session object with a clear lifecycle: created by New, torn
// down by Close, passed by reference to whoever needs it — never
// ambient.
//
// Control flow: input mutates the document and reschedules the commit
// debouncer; once the quiet interval passes the current content is
// committed to history. Cursor updates bypass the debouncer entirely.
// Remote participants are fed through UpdateRemoteCursor with
// last-write-wins semantics; ordering across users is not defined here.
package session
