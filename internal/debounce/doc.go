// Package debounce provides a cancellable delayed-callback primitive.
//
// A Debouncer groups rapid successive calls into a single callback after
// a quiet period, timed from the last call. Rescheduling invalidates the
// previously scheduled callback rather than merely ignoring it, so a
// stale timer can never fire after a newer one was armed.
//
// The timer source is abstracted behind the Clock interface; tests use a
// ManualClock and never sleep.
package debounce
