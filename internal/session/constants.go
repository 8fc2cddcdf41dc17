// Package session owns the per-recording-session suggestion engine.
package session

import "time"

// Engine timing defaults
const (
	// Pause window after the last transcript update before suggestions show.
	DefaultPauseDelay = time.Second

	// Operator-configurable bounds for the pause window.
	MinPauseDelay = 500 * time.Millisecond
	MaxPauseDelay = 3 * time.Second

	// Quiet period that collapses a burst of transcript updates into one
	// prefetch.
	DefaultPrefetchDebounce = 200 * time.Millisecond

	// Displayed suggestions hide after this long without newer text.
	DefaultAutoHide = 20 * time.Second

	// Minimum words in the transcript before suggestions are requested.
	DefaultMinWords = 3
)

// ClampPauseDelay bounds d to the configurable pause-delay range. A
// non-positive d yields the default.
func ClampPauseDelay(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultPauseDelay
	}
	if d < MinPauseDelay {
		return MinPauseDelay
	}
	if d > MaxPauseDelay {
		return MaxPauseDelay
	}
	return d
}
