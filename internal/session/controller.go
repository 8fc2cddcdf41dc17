package session

import (
	"context"
	"sync"
	"time"

	"github.com/dictaflow/platform/internal/suggest"
	"github.com/dictaflow/platform/internal/syncx"
	"github.com/dictaflow/platform/internal/trace"
)

// State of the pause controller.
type State uint32

const (
	// StateIdle means no pause timer is running and nothing is shown.
	StateIdle State = iota
	// StateAwaitingPause means the pause timer is running for the last text.
	StateAwaitingPause
	// StateDisplaying means suggestions are currently shown.
	StateDisplaying
)

func (s State) String() string {
	return [...]string{"idle", "awaiting_pause", "displaying"}[s]
}

// Display is the single record of what the user currently sees.
type Display struct {
	Suggestions []string
	Key         suggest.Key
	Source      suggest.Source
	LatencyMs   int64
	Persisted   bool
}

// Events carries the controller's outbound callbacks. Either field may be
// nil. Callbacks run with internal state settled and must not block.
type Events struct {
	OnSuggestions func(Display)
	OnCleared     func()
}

// Controller decides what to display when the speaker pauses: a valid cached
// hit, the persisted last-good set while a fresh call runs, or the result of
// a direct call. All display mutation is serialized behind one mutex; async
// completions re-check the current key before touching the display, so a
// stale completion only ever lands in the cache.
type Controller struct {
	fetcher  *Fetcher
	cache    *suggest.Cache
	autoHide time.Duration
	minWords int
	events   Events

	mu         sync.Mutex
	state      State
	lastText   string
	lastGood   Display
	pauseDelay time.Duration

	display    *syncx.RWGuard[Display]
	pauseTimer resettableTimer
	hideTimer  resettableTimer
}

// NewController creates a controller. Delays outside their valid ranges fall
// back to defaults; pauseDelay is clamped to the configurable range.
func NewController(fetcher *Fetcher, cache *suggest.Cache, pauseDelay, autoHide time.Duration, minWords int, events Events) *Controller {
	if autoHide <= 0 {
		autoHide = DefaultAutoHide
	}
	if minWords <= 0 {
		minWords = DefaultMinWords
	}
	return &Controller{
		fetcher:    fetcher,
		cache:      cache,
		autoHide:   autoHide,
		minWords:   minWords,
		events:     events,
		pauseDelay: ClampPauseDelay(pauseDelay),
		display:    syncx.NewGuard(Display{}),
	}
}

// OnTranscript restarts the pause window for the latest full transcript. The
// auto-hide timer is cancelled since newer text supersedes the display.
func (c *Controller) OnTranscript(text string) {
	c.mu.Lock()
	c.lastText = text
	c.state = StateAwaitingPause
	delay := c.pauseDelay
	c.mu.Unlock()

	c.hideTimer.Cancel()
	c.pauseTimer.Arm(delay, func() { c.onPause(text) })
}

// SetPauseDelay adjusts the pause window at runtime, clamped to the valid
// range. Takes effect on the next transcript update.
func (c *Controller) SetPauseDelay(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pauseDelay = ClampPauseDelay(d)
}

// PauseDelay returns the current pause window.
func (c *Controller) PauseDelay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pauseDelay
}

// Current returns what is shown right now.
func (c *Controller) Current() Display {
	return c.display.Get()
}

// StateNow returns the controller state.
func (c *Controller) StateNow() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// onPause fires when no new transcript text arrived during the pause window.
func (c *Controller) onPause(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if text != c.lastText {
		// Superseded while the timer callback was in flight.
		return
	}
	if suggest.WordCount(text) < c.minWords {
		return
	}

	key := suggest.Normalize(text)
	if e, ok := c.cache.Get(key); ok {
		c.showLocked(Display{
			Suggestions: e.Suggestions,
			Key:         key,
			Source:      suggest.SourceCached,
			LatencyMs:   0,
		})
		return
	}

	if len(c.lastGood.Suggestions) > 0 {
		// Keep last-good visible while the fresh call runs.
		c.showLocked(Display{
			Suggestions: c.lastGood.Suggestions,
			Key:         c.lastGood.Key,
			Source:      suggest.SourcePersisted,
			LatencyMs:   c.lastGood.LatencyMs,
			Persisted:   true,
		})
	}
	go c.fetchAndShow(text)
}

// fetchAndShow resolves suggestions for text and applies them through the
// stale-completion gate.
func (c *Controller) fetchAndShow(text string) {
	ctx, span := trace.StartSpan(context.Background(), "pause_fetch")
	defer span.End()

	entry := c.fetcher.Fetch(ctx, text)
	c.RefreshIfCurrent(entry)
}

// RefreshIfCurrent replaces the display with entry only if its key still
// matches the text being spoken. Stale completions are dropped here; their
// entries remain in the cache for reuse.
func (c *Controller) RefreshIfCurrent(entry suggest.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry.Key != suggest.Normalize(c.lastText) {
		return
	}
	if len(entry.Suggestions) == 0 {
		return
	}
	c.showLocked(Display{
		Suggestions: entry.Suggestions,
		Key:         entry.Key,
		Source:      entry.Source,
		LatencyMs:   entry.LatencyMs,
	})
}

// OnPrefetchResolved silently swaps in a freshly completed prefetch when its
// key is exactly what is on screen. It never reveals suggestions on its own;
// display only ever starts from a pause.
func (c *Controller) OnPrefetchResolved(entry suggest.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateDisplaying {
		return
	}
	if entry.Key != c.display.Get().Key {
		return
	}
	if len(entry.Suggestions) == 0 {
		return
	}
	c.showLocked(Display{
		Suggestions: entry.Suggestions,
		Key:         entry.Key,
		Source:      entry.Source,
		LatencyMs:   entry.LatencyMs,
	})
}

// ApplySuggestion treats the chosen suggestion as newly spoken text: the
// caller folds it into the transcript and re-arms the pause window via
// OnTranscript. The display clears until the next pause.
func (c *Controller) ApplySuggestion() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked(false)
}

// Clear hides the display and forgets the persisted last-good set.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastText = ""
	c.clearLocked(true)
}

// End terminates the session's display activity.
func (c *Controller) End() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastText = ""
	c.clearLocked(true)
}

// showLocked replaces the display and notifies listeners. Non-persisted
// results become the new last-good set. Must hold c.mu.
func (c *Controller) showLocked(d Display) {
	c.state = StateDisplaying
	c.display.Set(d)
	if !d.Persisted {
		c.lastGood = d
	}
	c.hideTimer.Arm(c.autoHide, c.onAutoHide)
	if c.events.OnSuggestions != nil {
		c.events.OnSuggestions(d)
	}
}

// onAutoHide blanks a display that sat unchanged for the auto-hide window.
// Persisted suggestions are exempt: something is better than nothing.
func (c *Controller) onAutoHide() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateDisplaying {
		return
	}
	if c.display.Get().Persisted {
		return
	}
	c.clearLocked(false)
}

// clearLocked transitions to Idle and empties the display. Must hold c.mu.
func (c *Controller) clearLocked(dropLastGood bool) {
	wasShowing := len(c.display.Get().Suggestions) > 0
	c.state = StateIdle
	c.display.Set(Display{})
	if dropLastGood {
		c.lastGood = Display{}
	}
	c.pauseTimer.Cancel()
	c.hideTimer.Cancel()
	if wasShowing && c.events.OnCleared != nil {
		c.events.OnCleared()
	}
}
