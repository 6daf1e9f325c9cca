package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration coalesces the burst of events one save produces.
const DefaultDebounceDuration = 250 * time.Millisecond

// Debouncer runs the most recently triggered func once triggers stop
// arriving for its duration.
type Debouncer struct {
	mu       sync.Mutex
	duration time.Duration
	timer    *time.Timer
}

// NewDebouncer creates a debouncer with duration d.
func NewDebouncer(d time.Duration) *Debouncer {
	return &Debouncer{duration: d}
}

// Trigger schedules fn, replacing any pending func.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel drops any pending func.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
