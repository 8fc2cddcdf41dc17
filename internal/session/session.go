package session

import (
	"time"

	"github.com/dictaflow/platform/internal/generate"
	"github.com/dictaflow/platform/internal/suggest"
)

// Options configures a Session. Zero values fall back to package defaults.
type Options struct {
	Generator        generate.Generator
	PauseDelay       time.Duration
	PrefetchDebounce time.Duration
	CacheTTL         time.Duration
	MaxCacheSize     int
	MinWords         int
	LatencyHistory   int
	AutoHide         time.Duration
	GenerateTimeout  time.Duration
	Events           Events
}

// Session owns the suggestion engine for one recording session: transcript
// aggregation, the cache and in-flight registry, the prefetcher, and the
// pause controller. Cache and registry are scoped to the session; nothing is
// shared across sessions.
type Session struct {
	tracker    *Tracker
	cache      *suggest.Cache
	registry   *suggest.Registry
	latency    *suggest.LatencyTracker
	fetcher    *Fetcher
	prefetcher *Prefetcher
	controller *Controller
}

// New wires a session from its options.
func New(opts Options) *Session {
	s := &Session{
		tracker:  NewTracker(),
		cache:    suggest.NewCache(opts.CacheTTL, opts.MaxCacheSize),
		registry: suggest.NewRegistry(),
		latency:  suggest.NewLatencyTracker(opts.LatencyHistory),
	}
	s.fetcher = NewFetcher(opts.Generator, s.cache, s.registry, s.latency, opts.GenerateTimeout)
	s.controller = NewController(s.fetcher, s.cache, opts.PauseDelay, opts.AutoHide, opts.MinWords, opts.Events)
	s.prefetcher = NewPrefetcher(s.fetcher, s.cache, opts.PrefetchDebounce, opts.MinWords, s.controller.OnPrefetchResolved)
	return s
}

// HandleTranscript feeds one speech event into the engine: the transcript is
// updated, a prefetch is (re)scheduled, and the pause window restarts.
func (s *Session) HandleTranscript(text string, final bool) {
	s.tracker.Update(text, final)
	current := s.tracker.Current()
	s.prefetcher.Observe(current)
	s.controller.OnTranscript(current)
}

// ApplySuggestion folds a chosen suggestion into the transcript as if the
// user had spoken it, then restarts the pause window.
func (s *Session) ApplySuggestion(text string) {
	s.controller.ApplySuggestion()
	s.tracker.Append(text)
	current := s.tracker.Current()
	s.prefetcher.Observe(current)
	s.controller.OnTranscript(current)
}

// Clear resets the session on an explicit user clear: transcript, cache, and
// display all empty.
func (s *Session) Clear() {
	s.prefetcher.Stop()
	s.tracker.Clear()
	s.cache.Clear()
	s.controller.Clear()
}

// End terminates the session when recognition stops.
func (s *Session) End() {
	s.prefetcher.Stop()
	s.controller.End()
}

// SetPauseDelay adjusts the pause window at runtime.
func (s *Session) SetPauseDelay(d time.Duration) {
	s.controller.SetPauseDelay(d)
}

// Transcript returns the current best-known full transcript.
func (s *Session) Transcript() string {
	return s.tracker.Current()
}

// LatencyAverage reports the rolling mean suggestion round trip in
// milliseconds, or false when nothing has been recorded.
func (s *Session) LatencyAverage() (float64, bool) {
	return s.latency.Average()
}
