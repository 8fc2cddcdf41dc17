package suggest

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// StartFn produces the entry for a key when no call is already outstanding.
// It must not be cancelled mid-flight by any single caller: results are
// shared, and a completed call is still useful to the cache even when the
// caller that triggered it has moved on.
type StartFn func(ctx context.Context) Entry

// Registry coalesces concurrent suggestion calls per key so that at most one
// remote call is outstanding for any given text. Callers for the same key
// join the in-flight call and receive the identical entry. The key is
// released exactly once when the call settles, regardless of outcome.
type Registry struct {
	group   singleflight.Group
	started atomic.Int64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// BeginOrJoin starts a call for key via start, or joins the call already in
// flight for it. The underlying call is detached from the caller's
// cancellation so it always runs to completion and can populate the cache;
// only the wait itself is abandoned when ctx ends, in which case the zero
// entry and ctx's error are returned.
func (r *Registry) BeginOrJoin(ctx context.Context, key Key, start StartFn) (Entry, error) {
	ch := r.group.DoChan(string(key), func() (any, error) {
		r.started.Add(1)
		return start(context.WithoutCancel(ctx)), nil
	})

	select {
	case res := <-ch:
		return res.Val.(Entry), nil
	case <-ctx.Done():
		return Entry{}, ctx.Err()
	}
}

// Started returns the number of calls actually begun (joins excluded).
func (r *Registry) Started() int64 {
	return r.started.Load()
}
