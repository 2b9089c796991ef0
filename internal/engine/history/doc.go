// Package history provides undo/redo for a document editing session.
//
// The Log is a bounded, append-only sequence of content snapshots with a
// movable index identifying the current entry:
//
//	log := history.NewLog()
//	log.Commit("a")
//	log.Commit("ab")
//
//	if content, ok := log.Undo(); ok {
//		// content == "a"
//	}
//
// Commit truncates everything after the current index before appending,
// so redo becomes unavailable after a new edit follows an undo. Once the
// log reaches its capacity the oldest entries are evicted first.
//
// Undo and Redo at the boundaries are silent no-ops; CanUndo and CanRedo
// expose the boundary state so a UI can disable the controls instead of
// surfacing errors.
//
// Commit debouncing is the caller's concern, not the Log's.
package history
