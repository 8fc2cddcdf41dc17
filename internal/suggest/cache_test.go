package suggest

import (
	"fmt"
	"testing"
	"time"
)

func entryFor(key Key) Entry {
	return NewEntry(key, []string{"a", "b"}, SourceGenerated, 50*time.Millisecond)
}

// backdate shifts an entry's CreatedAt without going through the public API.
func backdate(c *Cache, key Key, by time.Duration) {
	c.mu.Lock()
	e := c.entries[key]
	e.CreatedAt = e.CreatedAt.Add(-by)
	c.entries[key] = e
	c.mu.Unlock()
}

func TestCacheGetAfterPut(t *testing.T) {
	c := NewCache(10*time.Second, 20)
	c.Put(entryFor("hello world"))

	e, ok := c.Get("hello world")
	if !ok {
		t.Fatal("expected hit immediately after Put")
	}
	if e.Source != SourceGenerated {
		t.Errorf("source = %q, want %q", e.Source, SourceGenerated)
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	c := NewCache(10*time.Second, 20)
	c.Put(entryFor("hello world"))

	backdate(c, "hello world", 9*time.Second)
	if _, ok := c.Get("hello world"); !ok {
		t.Error("entry at 9s of a 10s TTL should still be valid")
	}

	backdate(c, "hello world", 2*time.Second)
	if _, ok := c.Get("hello world"); ok {
		t.Error("entry past TTL should be absent")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be purged on access, len = %d", c.Len())
	}
}

func TestCacheBoundedSize(t *testing.T) {
	c := NewCache(time.Minute, 5)
	for i := 0; i < 9; i++ {
		key := Key(fmt.Sprintf("entry number %d", i))
		c.Put(entryFor(key))
		// Spread CreatedAt so eviction order is unambiguous.
		backdate(c, key, time.Duration(9-i)*time.Second)
	}

	if c.Len() != 5 {
		t.Fatalf("len = %d, want 5", c.Len())
	}
	// The 5 most recently created survive.
	for i := 4; i < 9; i++ {
		if _, ok := c.Get(Key(fmt.Sprintf("entry number %d", i))); !ok {
			t.Errorf("entry %d should have been retained", i)
		}
	}
	for i := 0; i < 4; i++ {
		if _, ok := c.Get(Key(fmt.Sprintf("entry number %d", i))); ok {
			t.Errorf("entry %d should have been evicted", i)
		}
	}
}

func TestCacheOverwrite(t *testing.T) {
	c := NewCache(time.Minute, 5)
	c.Put(NewEntry("k", []string{"old"}, SourceFallback, 0))
	c.Put(NewEntry("k", []string{"new"}, SourceGenerated, 0))

	e, ok := c.Get("k")
	if !ok {
		t.Fatal("expected hit")
	}
	if len(e.Suggestions) != 1 || e.Suggestions[0] != "new" {
		t.Errorf("suggestions = %v, want [new]", e.Suggestions)
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
}

func TestCacheClear(t *testing.T) {
	c := NewCache(time.Minute, 5)
	c.Put(entryFor("one two three"))
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("len after Clear = %d, want 0", c.Len())
	}
	if _, ok := c.Get("one two three"); ok {
		t.Error("Get after Clear should miss")
	}
}

func TestCachePutPurgesExpired(t *testing.T) {
	c := NewCache(10*time.Second, 20)
	c.Put(entryFor("stale"))
	backdate(c, "stale", 11*time.Second)

	c.Put(entryFor("fresh"))
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1 (expired entry purged on Put)", c.Len())
	}
}
