// Package transfer moves documents in and out of the session as plain
// text files.
//
// Import reads a text file and derives the document title from the
// filename with its extension stripped. Unreadable or binary files
// produce a recoverable *ImportError rather than failing silently.
// Export writes the content as "<title>.txt" with no metadata.
package transfer
