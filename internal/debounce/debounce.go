// Package debounce coalesces bursts of search input into a single
// callback after a quiet period.
package debounce

import (
	"sync"
	"time"
)

// DefaultWait is the quiet period applied to search boxes.
const DefaultWait = 300 * time.Millisecond

// Debouncer runs the most recent function once no new call has arrived
// for the configured wait. Earlier pending calls are discarded.
type Debouncer struct {
	mu    sync.Mutex
	wait  time.Duration
	timer *time.Timer
}

func New(wait time.Duration) *Debouncer {
	if wait <= 0 {
		wait = DefaultWait
	}
	return &Debouncer{wait: wait}
}

// Do schedules fn; any previously pending fn is cancelled.
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, fn)
}

// Stop cancels any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
