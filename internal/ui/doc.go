// Package ui renders a collaborative editing session in the terminal.
//
// The Editor draws the document, the local selection, and each remote
// participant's cursor in that participant's color, with a status line
// showing the title, version, and cursor position. Input is translated
// into session operations. A tcell simulation screen can be injected
// for tests.
package ui
