package suggest

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestBeginOrJoinCoalesces(t *testing.T) {
	r := NewRegistry()
	release := make(chan struct{})

	start := func(ctx context.Context) Entry {
		<-release
		return NewEntry("shared key", []string{"one"}, SourceGenerated, 0)
	}

	const callers = 4
	results := make([]Entry, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := r.BeginOrJoin(context.Background(), "shared key", start)
			if err != nil {
				t.Errorf("caller %d: %v", i, err)
				return
			}
			results[i] = e
		}(i)
	}

	// Give all callers time to join before the call settles.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := r.Started(); got != 1 {
		t.Fatalf("started %d calls, want 1", got)
	}
	for i, e := range results {
		if e.Key != "shared key" || len(e.Suggestions) != 1 {
			t.Errorf("caller %d got unexpected entry: %+v", i, e)
		}
	}
}

func TestBeginOrJoinReleasesKeyAfterSettle(t *testing.T) {
	r := NewRegistry()
	start := func(ctx context.Context) Entry {
		return NewEntry("k", nil, SourceFallback, 0)
	}

	if _, err := r.BeginOrJoin(context.Background(), "k", start); err != nil {
		t.Fatal(err)
	}
	if _, err := r.BeginOrJoin(context.Background(), "k", start); err != nil {
		t.Fatal(err)
	}

	if got := r.Started(); got != 2 {
		t.Errorf("started %d calls, want 2 (key released after settle)", got)
	}
}

func TestBeginOrJoinDistinctKeys(t *testing.T) {
	r := NewRegistry()
	start := func(ctx context.Context) Entry {
		return NewEntry("x", nil, SourceGenerated, 0)
	}

	var wg sync.WaitGroup
	for _, key := range []Key{"first key", "second key"} {
		wg.Add(1)
		go func(k Key) {
			defer wg.Done()
			_, _ = r.BeginOrJoin(context.Background(), k, start)
		}(key)
	}
	wg.Wait()

	if got := r.Started(); got != 2 {
		t.Errorf("started %d calls, want 2 for distinct keys", got)
	}
}

func TestBeginOrJoinCallerCancel(t *testing.T) {
	r := NewRegistry()
	release := make(chan struct{})
	completed := make(chan struct{})

	start := func(ctx context.Context) Entry {
		<-release
		close(completed)
		return NewEntry("k", nil, SourceGenerated, 0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.BeginOrJoin(ctx, "k", start); err == nil {
		t.Error("expected context error for cancelled caller")
	}

	// The call itself keeps running and settles.
	close(release)
	select {
	case <-completed:
	case <-time.After(time.Second):
		t.Error("in-flight call should run to completion after caller cancel")
	}
}
