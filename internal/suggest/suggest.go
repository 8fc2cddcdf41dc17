// Package suggest implements the suggestion cache engine: normalized keys,
// time-expiring cached results, in-flight call deduplication, and latency
// accounting for the dictation suggestion pipeline.
package suggest

import (
	"strings"
	"time"
)

// Key is a normalized transcript string, the sole cache and registry key.
type Key string

// Normalize derives a Key from raw transcript text. Texts that differ only by
// surrounding whitespace or letter case map to the same Key.
func Normalize(text string) Key {
	return Key(strings.ToLower(strings.TrimSpace(text)))
}

// WordCount returns the number of whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Source tags where a set of suggestions came from.
type Source string

const (
	// SourceGenerated marks suggestions produced by the remote generator.
	SourceGenerated Source = "generated"
	// SourceFallback marks the local static suggestions substituted when the
	// remote generator failed.
	SourceFallback Source = "fallback"
	// SourceCached marks a display served straight from the cache.
	SourceCached Source = "cached"
	// SourcePersisted marks last-good suggestions kept visible past a cache
	// miss so the display never goes blank.
	SourcePersisted Source = "persisted"
)

// Entry is one cached suggestion result. Entries are never mutated after
// creation; a new Entry under the same Key replaces the old one.
type Entry struct {
	Key         Key
	Suggestions []string
	Source      Source
	CreatedAt   time.Time
	LatencyMs   int64
}

// NewEntry builds an Entry, clamping the suggestion list to MaxSuggestions.
func NewEntry(key Key, suggestions []string, source Source, latency time.Duration) Entry {
	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	return Entry{
		Key:         key,
		Suggestions: suggestions,
		Source:      source,
		CreatedAt:   time.Now(),
		LatencyMs:   latency.Milliseconds(),
	}
}
