package session

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTimerFires(t *testing.T) {
	var fired atomic.Int32
	var tm resettableTimer

	tm.Arm(10*time.Millisecond, func() { fired.Add(1) })
	time.Sleep(50 * time.Millisecond)

	if fired.Load() != 1 {
		t.Errorf("fired %d times, want 1", fired.Load())
	}
}

func TestTimerRearmReplaces(t *testing.T) {
	var first, second atomic.Int32
	var tm resettableTimer

	tm.Arm(20*time.Millisecond, func() { first.Add(1) })
	tm.Arm(20*time.Millisecond, func() { second.Add(1) })
	time.Sleep(60 * time.Millisecond)

	if first.Load() != 0 {
		t.Error("superseded callback should not run")
	}
	if second.Load() != 1 {
		t.Errorf("second fired %d times, want 1", second.Load())
	}
}

func TestTimerCancel(t *testing.T) {
	var fired atomic.Int32
	var tm resettableTimer

	tm.Arm(20*time.Millisecond, func() { fired.Add(1) })
	tm.Cancel()
	time.Sleep(60 * time.Millisecond)

	if fired.Load() != 0 {
		t.Error("cancelled callback should not run")
	}
}

func TestTimerCancelIdempotent(t *testing.T) {
	var tm resettableTimer
	tm.Cancel()
	tm.Cancel()

	var fired atomic.Int32
	tm.Arm(10*time.Millisecond, func() { fired.Add(1) })
	time.Sleep(50 * time.Millisecond)
	if fired.Load() != 1 {
		t.Errorf("fired %d times after cancel+arm, want 1", fired.Load())
	}
}
