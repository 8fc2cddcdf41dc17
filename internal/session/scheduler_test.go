package session

import (
	"context"
	"sync"
	"testing"
	"time"

	apperrors "github.com/dictaflow/platform/internal/errors"
	"github.com/dictaflow/platform/internal/resilience"
	"github.com/dictaflow/platform/internal/suggest"
)

// fakeGenerator records calls and serves canned suggestions.
type fakeGenerator struct {
	mu    sync.Mutex
	calls []string
	delay time.Duration
	fail  bool
}

func (g *fakeGenerator) Generate(ctx context.Context, text string) ([]string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, text)
	g.mu.Unlock()

	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if g.fail {
		// Non-retryable so failure tests settle on the first attempt.
		return nil, apperrors.New(apperrors.CodeGenerationFailed, "generator down")
	}
	return []string{"and then we left", "which was great"}, nil
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *fakeGenerator) lastCall() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.calls) == 0 {
		return ""
	}
	return g.calls[len(g.calls)-1]
}

func newTestFetcher(g *fakeGenerator) (*Fetcher, *suggest.Cache) {
	cache := suggest.NewCache(0, 0)
	f := NewFetcher(g, cache, suggest.NewRegistry(), suggest.NewLatencyTracker(0), 0)
	f.retry = resilience.RetryConfig{
		MaxRetries: 1,
		BaseDelay:  time.Millisecond,
		MaxDelay:   2 * time.Millisecond,
	}
	return f, cache
}

func TestPrefetchDebounceCollapsing(t *testing.T) {
	gen := &fakeGenerator{}
	fetcher, cache := newTestFetcher(gen)
	p := NewPrefetcher(fetcher, cache, 30*time.Millisecond, 0, nil)

	p.Observe("I'm planning a")
	time.Sleep(5 * time.Millisecond)
	p.Observe("I'm planning a trip")
	time.Sleep(5 * time.Millisecond)
	p.Observe("I'm planning a trip to Spain")

	time.Sleep(150 * time.Millisecond)

	if gen.callCount() != 1 {
		t.Fatalf("made %d calls, want 1", gen.callCount())
	}
	if gen.lastCall() != "I'm planning a trip to Spain" {
		t.Errorf("called with %q, want last observed text", gen.lastCall())
	}
}

func TestPrefetchWordGate(t *testing.T) {
	gen := &fakeGenerator{}
	fetcher, cache := newTestFetcher(gen)
	p := NewPrefetcher(fetcher, cache, 10*time.Millisecond, 3, nil)

	p.Observe("hello there")
	time.Sleep(60 * time.Millisecond)

	if gen.callCount() != 0 {
		t.Errorf("made %d calls for short text, want 0", gen.callCount())
	}
}

func TestPrefetchCacheHitSkipsCall(t *testing.T) {
	gen := &fakeGenerator{}
	fetcher, cache := newTestFetcher(gen)
	p := NewPrefetcher(fetcher, cache, 10*time.Millisecond, 0, nil)

	text := "I'm planning a trip"
	fetcher.Fetch(context.Background(), text)
	if gen.callCount() != 1 {
		t.Fatalf("warmup made %d calls, want 1", gen.callCount())
	}

	p.Observe(text)
	time.Sleep(60 * time.Millisecond)

	if gen.callCount() != 1 {
		t.Errorf("made %d calls, want 1: valid cache entry should short-circuit", gen.callCount())
	}
}

func TestPrefetchWritesCache(t *testing.T) {
	gen := &fakeGenerator{}
	fetcher, cache := newTestFetcher(gen)
	p := NewPrefetcher(fetcher, cache, 10*time.Millisecond, 0, nil)

	p.Observe("I'm planning a trip")
	time.Sleep(100 * time.Millisecond)

	e, ok := cache.Get(suggest.Normalize("I'm planning a trip"))
	if !ok {
		t.Fatal("prefetch should populate the cache")
	}
	if e.Source != suggest.SourceGenerated {
		t.Errorf("source = %q, want %q", e.Source, suggest.SourceGenerated)
	}
}

func TestPrefetchFailureCachesFallback(t *testing.T) {
	gen := &fakeGenerator{fail: true}
	fetcher, cache := newTestFetcher(gen)
	p := NewPrefetcher(fetcher, cache, 10*time.Millisecond, 0, nil)

	p.Observe("I'm planning a trip")
	time.Sleep(100 * time.Millisecond)

	e, ok := cache.Get(suggest.Normalize("I'm planning a trip"))
	if !ok {
		t.Fatal("failed prefetch should still cache a fallback entry")
	}
	if e.Source != suggest.SourceFallback {
		t.Errorf("source = %q, want %q", e.Source, suggest.SourceFallback)
	}
	if len(e.Suggestions) == 0 {
		t.Error("fallback entry must never be empty")
	}
}

func TestPrefetchOnReady(t *testing.T) {
	gen := &fakeGenerator{}
	fetcher, cache := newTestFetcher(gen)

	var mu sync.Mutex
	var got []suggest.Entry
	p := NewPrefetcher(fetcher, cache, 10*time.Millisecond, 0, func(e suggest.Entry) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	})

	p.Observe("I'm planning a trip")
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("onReady fired %d times, want 1", len(got))
	}
	if got[0].Key != suggest.Normalize("I'm planning a trip") {
		t.Errorf("onReady key = %q, want normalized text", got[0].Key)
	}
}

func TestPrefetchStop(t *testing.T) {
	gen := &fakeGenerator{}
	fetcher, cache := newTestFetcher(gen)
	p := NewPrefetcher(fetcher, cache, 20*time.Millisecond, 0, nil)

	p.Observe("I'm planning a trip")
	p.Stop()
	time.Sleep(80 * time.Millisecond)

	if gen.callCount() != 0 {
		t.Errorf("made %d calls after Stop, want 0", gen.callCount())
	}
}
