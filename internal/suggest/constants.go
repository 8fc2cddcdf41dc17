// Package suggest implements the suggestion cache engine.
package suggest

import "time"

// Cache engine defaults
const (
	// Validity window for a cached entry; validity is a pure function of
	// CreatedAt, never a mutable flag.
	DefaultTTL = 10 * time.Second

	// Upper bound on cached entries; inserts beyond it evict the oldest
	// entry by CreatedAt.
	DefaultMaxSize = 20

	// Suggestions stored per entry.
	MaxSuggestions = 5

	// Rolling window capacity for latency samples.
	DefaultLatencyHistory = 10
)
