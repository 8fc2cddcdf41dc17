// Package server provides HTTP and WebSocket handlers
package server

import "time"

// Server configuration constants
const (
	// Per-connection message rate limiting (sliding window)
	RateLimitMessages = 30          // Max messages per connection per window
	RateLimitWindow   = time.Second // Sliding window duration

	// Outbound queue depth per connection; suggestion pushes beyond this
	// are dropped rather than blocking the engine.
	OutboundBuffer = 16

	// Timeout for a single outbound WebSocket write.
	WriteTimeout = 5 * time.Second
)
