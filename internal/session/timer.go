package session

import (
	"sync"
	"time"
)

// resettableTimer is an owned arm/cancel timer. Arming replaces any pending
// fire; a callback from a superseded arming never runs, even if the platform
// timer had already expired when it was replaced.
type resettableTimer struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// Arm schedules fn after d, cancelling any previously armed callback.
func (t *resettableTimer) Arm(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		live := gen == t.gen
		t.mu.Unlock()
		if live {
			fn()
		}
	})
}

// Cancel discards any pending fire.
func (t *resettableTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
}
