// Package debounce provides a trailing-edge debounce primitive: rapid
// successive triggers collapse into a single invocation after a quiet
// period.
package debounce

import (
	"sync"
	"time"
)

// Debounce returns a function that delays calling fn until duration has
// elapsed since the last invocation of the returned function.
func Debounce(duration time.Duration, fn func()) func() {
	d := New(duration, fn)
	return d.Trigger
}

// Debouncer is a cancellable debounce handle. Unlike the plain Debounce
// function it can be stopped, so a pending invocation never fires
// against torn-down state.
type Debouncer struct {
	duration time.Duration
	fn       func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// New creates a Debouncer that invokes fn after duration of quiet.
func New(duration time.Duration, fn func()) *Debouncer {
	return &Debouncer{
		duration: duration,
		fn:       fn,
	}
}

// Trigger schedules an invocation of fn, resetting the quiet-period
// timer if one is already pending.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.fn)
}

// Stop cancels any pending invocation. Subsequent Triggers are no-ops.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
