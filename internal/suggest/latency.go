package suggest

import "sync"

// LatencyTracker keeps a fixed-size rolling window of suggestion round-trip
// times. It is purely observational and never gates control flow.
type LatencyTracker struct {
	mu      sync.Mutex
	samples []int64
	max     int
}

// NewLatencyTracker creates a tracker holding up to max samples.
func NewLatencyTracker(max int) *LatencyTracker {
	if max <= 0 {
		max = DefaultLatencyHistory
	}
	return &LatencyTracker{
		samples: make([]int64, 0, max),
		max:     max,
	}
}

// Record pushes a sample in milliseconds; the oldest drops when full.
func (t *LatencyTracker) Record(ms int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.samples = append(t.samples, ms)
	if len(t.samples) > t.max {
		t.samples = t.samples[len(t.samples)-t.max:]
	}
}

// Average returns the arithmetic mean of the current window, or false when
// no samples have been recorded.
func (t *LatencyTracker) Average() (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.samples) == 0 {
		return 0, false
	}
	var sum int64
	for _, s := range t.samples {
		sum += s
	}
	return float64(sum) / float64(len(t.samples)), true
}

// Count returns the number of samples currently in the window.
func (t *LatencyTracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.samples)
}
