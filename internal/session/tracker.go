package session

import (
	"strings"
	"sync"
)

// Tracker aggregates interim and final speech events into the current
// best-known full transcript string. Interim text is provisional and replaced
// by each update; final text accumulates.
type Tracker struct {
	mu      sync.Mutex
	finals  []string
	interim string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Update records a speech event. Final text is appended to the accumulated
// transcript and clears the interim segment; interim text replaces it.
func (t *Tracker) Update(text string, final bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	text = strings.TrimSpace(text)
	if final {
		if text != "" {
			t.finals = append(t.finals, text)
		}
		t.interim = ""
		return
	}
	t.interim = text
}

// Append adds text as a final segment, as if the user had spoken it. Used
// when a suggestion is applied.
func (t *Tracker) Append(text string) {
	t.Update(text, true)
}

// Current returns the full transcript: accumulated finals plus any interim.
func (t *Tracker) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	parts := t.finals
	if t.interim != "" {
		parts = append(parts[:len(parts):len(parts)], t.interim)
	}
	return strings.Join(parts, " ")
}

// Clear discards all transcript state.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.finals = nil
	t.interim = ""
}
