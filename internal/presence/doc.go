// Package presence feeds remote-participant cursor updates into a
// session.
//
// A Feed is the inbound half of a collaboration channel: a stream of
// (userID, offset, timestamp) updates applied with last-write-wins
// semantics. Ordering and consistency across users are explicitly not
// guaranteed here; a real multi-writer deployment would put a
// synchronization protocol behind the same interface.
//
// SimulatedFeed is the shipped implementation: a handful of fake
// collaborators whose cursors random-walk the document on a timer. It
// exists so the rest of the system can be exercised without a network
// counterpart.
package presence
