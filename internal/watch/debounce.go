package watch

import (
	"sync"
	"time"
)

// Debouncer collapses bursts of triggers into few calls of fn.
//
// Without callNow, fn runs once after delay has passed with no new trigger. With
// callNow, the first trigger of a burst runs fn right away and opens a window of
// delay; triggers inside the window extend it, and fn runs once more when the
// window closes if anything arrived during it.
type Debouncer struct {
	delay   time.Duration
	callNow bool
	fn      func()

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending bool
	stopped bool
}

// NewDebouncer creates a debouncer for fn.
func NewDebouncer(delay time.Duration, callNow bool, fn func()) *Debouncer {
	return &Debouncer{delay: delay, callNow: callNow, fn: fn}
}

// Trigger records one change.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}

	if d.timer != nil {
		d.timer.Stop()
		d.pending = true
		d.schedule()
		d.mu.Unlock()
		return
	}

	d.schedule()
	runNow := d.callNow
	d.pending = !runNow
	d.mu.Unlock()

	if runNow {
		d.fn()
	}
}

// schedule starts a new timer. A timer that already fired but lost the race for
// mu sees a newer generation and does nothing. Caller holds mu.
func (d *Debouncer) schedule() {
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	run := d.pending
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	if run {
		d.fn()
	}
}

// Stop cancels any pending call. Triggers after Stop are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
