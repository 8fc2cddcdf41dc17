package session

import (
	"context"
	"time"

	"github.com/dictaflow/platform/internal/suggest"
)

// Prefetcher turns the noisy stream of transcript updates into a rate-limited
// series of background suggestion fetches. Each update restarts the debounce
// timer; only a timer that fires uninterrupted triggers a fetch, so a burst
// of updates collapses into one call carrying the last text.
type Prefetcher struct {
	fetcher  *Fetcher
	cache    *suggest.Cache
	debounce time.Duration
	minWords int
	timer    resettableTimer

	// onReady receives every completed prefetch entry so the display can be
	// silently refreshed when the key is still current.
	onReady func(suggest.Entry)
}

// NewPrefetcher creates a prefetcher. onReady may be nil.
func NewPrefetcher(fetcher *Fetcher, cache *suggest.Cache, debounce time.Duration, minWords int, onReady func(suggest.Entry)) *Prefetcher {
	if debounce <= 0 {
		debounce = DefaultPrefetchDebounce
	}
	if minWords <= 0 {
		minWords = DefaultMinWords
	}
	return &Prefetcher{
		fetcher:  fetcher,
		cache:    cache,
		debounce: debounce,
		minWords: minWords,
		onReady:  onReady,
	}
}

// Observe feeds one transcript update into the debounce window. Updates below
// the word-count gate are ignored entirely.
func (p *Prefetcher) Observe(text string) {
	if suggest.WordCount(text) < p.minWords {
		return
	}
	p.timer.Arm(p.debounce, func() { p.fire(text) })
}

// Stop cancels any pending prefetch.
func (p *Prefetcher) Stop() {
	p.timer.Cancel()
}

// fire runs on the timer goroutine once the debounce window elapses.
func (p *Prefetcher) fire(text string) {
	key := suggest.Normalize(text)
	if _, ok := p.cache.Get(key); ok {
		return
	}

	entry := p.fetcher.Fetch(context.Background(), text)
	if p.onReady != nil {
		p.onReady(entry)
	}
}
