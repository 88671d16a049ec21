package watcher

import (
	"sync"
	"time"
)

// DefaultDebounce is the default debounce window. Editors often write a file
// several times in quick succession (truncate, write, rename); one rebuild
// per burst is enough.
const DefaultDebounce = 250 * time.Millisecond

// debouncer coalesces rapid triggers into a single callback invocation.
// Only the last callback scheduled within the window runs.
type debouncer struct {
	window time.Duration
	mu     sync.Mutex
	timer  *time.Timer
	seq    uint64
}

func newDebouncer(window time.Duration) *debouncer {
	if window <= 0 {
		window = DefaultDebounce
	}
	return &debouncer{window: window}
}

// trigger schedules fn after the debounce window, cancelling any previously
// scheduled callback.
func (d *debouncer) trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		// A timer can fire between Stop() and rescheduling; the sequence
		// number ensures only the most recent callback runs.
		stale := seq != d.seq
		if !stale {
			d.timer = nil
		}
		d.mu.Unlock()
		if stale {
			return
		}
		fn()
	})
}

// cancel drops any pending callback.
func (d *debouncer) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
