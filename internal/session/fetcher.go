package session

import (
	"context"
	"time"

	"github.com/dictaflow/platform/internal/generate"
	"github.com/dictaflow/platform/internal/resilience"
	"github.com/dictaflow/platform/internal/suggest"
	"github.com/dictaflow/platform/internal/trace"
)

// Fetcher is the single call path for suggestion generation. Every fetch is
// deduplicated through the registry, guarded by the circuit breaker, retried
// on transient errors, and always resolves to a cache entry: a failed call
// yields the local fallback set instead of an error.
type Fetcher struct {
	generator generate.Generator
	cache     *suggest.Cache
	registry  *suggest.Registry
	latency   *suggest.LatencyTracker
	breaker   *resilience.Breaker
	retry     resilience.RetryConfig
	timeout   time.Duration
}

// NewFetcher creates a fetcher. A non-positive timeout disables the
// per-call deadline.
func NewFetcher(generator generate.Generator, cache *suggest.Cache, registry *suggest.Registry, latency *suggest.LatencyTracker, timeout time.Duration) *Fetcher {
	return &Fetcher{
		generator: generator,
		cache:     cache,
		registry:  registry,
		latency:   latency,
		breaker:   resilience.NewBreaker(resilience.BreakerConfig{}),
		retry:     resilience.DefaultRetryConfig(),
		timeout:   timeout,
	}
}

// Fetch resolves suggestions for text, joining any call already in flight
// for the same normalized key. The entry is written to the cache before it
// is returned. If ctx ends while waiting on a joined call, the fallback set
// is returned immediately; the shared call still completes and populates the
// cache.
func (f *Fetcher) Fetch(ctx context.Context, text string) suggest.Entry {
	key := suggest.Normalize(text)

	entry, err := f.registry.BeginOrJoin(ctx, key, func(callCtx context.Context) suggest.Entry {
		return f.call(callCtx, key, text)
	})
	if err != nil {
		return suggest.NewEntry(key, suggest.Fallback(key), suggest.SourceFallback, 0)
	}
	return entry
}

// call performs one deduplicated generation round trip.
func (f *Fetcher) call(ctx context.Context, key suggest.Key, text string) suggest.Entry {
	ctx, span := trace.StartSpan(ctx, "suggestion_fetch")
	defer span.End()
	span.SetAttr("key", string(key))

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	log := trace.Logger(ctx)
	start := time.Now()

	var suggestions []string
	err := f.breaker.Execute(func() error {
		return resilience.Retry(ctx, f.retry, func() error {
			s, genErr := f.generator.Generate(ctx, text)
			if genErr != nil {
				return genErr
			}
			suggestions = s
			return nil
		})
	})

	elapsed := time.Since(start)
	f.latency.Record(elapsed.Milliseconds())
	span.SetAttr("latency_ms", elapsed.Milliseconds())

	var entry suggest.Entry
	if err != nil {
		span.SetAttr("error", err.Error())
		log.Warn("suggestion generation failed, using fallback", "error", err, "key", key)
		entry = suggest.NewEntry(key, suggest.Fallback(key), suggest.SourceFallback, elapsed)
	} else {
		log.Debug("suggestions generated", "key", key, "count", len(suggestions), "latency_ms", elapsed.Milliseconds())
		entry = suggest.NewEntry(key, suggestions, suggest.SourceGenerated, elapsed)
	}

	f.cache.Put(entry)
	return entry
}
