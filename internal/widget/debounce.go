package widget

import (
	"sync"
	"time"
)

// DebounceDelay is how long connectivity evaluation is deferred after the
// last notification. Profile switches fire several link events back to
// back; without this each one would blink separately.
const DebounceDelay = 16 * time.Millisecond

// Debouncer coalesces bursts of notifications into a single deferred call,
// timed from the last notification.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func()
	timer *time.Timer
}

// NewDebouncer creates a Debouncer that invokes fn delay after the most
// recent Notify.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Notify (re)schedules the deferred call, replacing any pending one.
func (d *Debouncer) Notify() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.fn)
		return
	}
	d.timer.Reset(d.delay)
}

// Stop cancels any pending call. A call already started is not interrupted.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
