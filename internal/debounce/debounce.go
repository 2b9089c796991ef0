package debounce

import (
	"sync"
	"time"
)

// Debouncer groups rapid successive calls into a single callback after a
// quiet period.
//
// Thread-safety: all methods are safe for concurrent use. The callback
// is never invoked concurrently with itself from the debouncer.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	clock    Clock
	timer    Timer
	pending  bool
	seq      uint64 // sequence number to detect stale callbacks
	callback func()
}

// DebouncerOption configures a Debouncer.
type DebouncerOption func(*Debouncer)

// WithClock sets the timer source. Defaults to the wall clock.
func WithClock(clock Clock) DebouncerOption {
	return func(d *Debouncer) {
		if clock != nil {
			d.clock = clock
		}
	}
}

// NewDebouncer creates a debouncer that invokes callback after no new
// calls have been made for at least delay.
func NewDebouncer(delay time.Duration, callback func(), opts ...DebouncerOption) *Debouncer {
	d := &Debouncer{
		delay:    delay,
		clock:    RealClock(),
		callback: callback,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Call schedules the callback to run after the debounce delay.
//
// Calling again within the delay reschedules: only the last call's
// timing is honored and the previously scheduled callback is
// invalidated.
func (d *Debouncer) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = true
	d.seq++
	currentSeq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// Only execute if this is still the current scheduled callback
		// and we're still pending.
		if d.pending && d.seq == currentSeq && d.callback != nil {
			d.pending = false
			d.mu.Unlock()
			d.callback()
		} else {
			d.mu.Unlock()
		}
	})
}

// CallImmediate runs the callback now if a call is pending, canceling
// the scheduled one.
func (d *Debouncer) CallImmediate() {
	d.mu.Lock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	// Invalidate any timer callback already in flight.
	d.seq++

	if d.pending && d.callback != nil {
		d.pending = false
		d.mu.Unlock()
		d.callback()
	} else {
		d.mu.Unlock()
	}
}

// Cancel cancels any pending debounced call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = false
}

// IsPending returns true if a debounced call is waiting to fire.
func (d *Debouncer) IsPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Delay returns the configured quiet interval.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}
