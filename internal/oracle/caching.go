package oracle

import (
	"context"
	"sync"
	"time"

	"github.com/Mshivam2409/rustduino/internal/util/sets"
)

// Caching memoizes answers of another oracle for a fixed time. Watch mode
// validates the same ids repeatedly; a short TTL keeps remote lookups rare
// while still noticing new documents.
type Caching struct {
	next Oracle
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	exists  bool
	expires time.Time
}

// NewCaching wraps next. A non-positive ttl caches forever.
func NewCaching(next Oracle, ttl time.Duration) *Caching {
	return &Caching{next: next, ttl: ttl, now: time.Now, entries: make(map[string]cacheEntry)}
}

func (c *Caching) Exists(ctx context.Context, id string) (bool, error) {
	found, err := c.ExistsBatch(ctx, []string{id})
	if err != nil {
		return false, err
	}
	return found.Has(id), nil
}

// ExistsBatch answers cached ids locally and forwards the rest in one lookup.
// Failed lookups are not cached.
func (c *Caching) ExistsBatch(ctx context.Context, ids []string) (sets.Set[string], error) {
	found := sets.New[string]()
	var missing []string

	c.mu.Lock()
	now := c.now()
	for _, id := range ids {
		e, ok := c.entries[id]
		if ok && (c.ttl <= 0 || now.Before(e.expires)) {
			if e.exists {
				found.Add(id)
			}
			continue
		}
		missing = append(missing, id)
	}
	c.mu.Unlock()

	if len(missing) == 0 {
		return found, nil
	}
	fresh, err := Lookup(ctx, c.next, missing)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	expires := c.now().Add(c.ttl)
	for _, id := range missing {
		exists := fresh.Has(id)
		c.entries[id] = cacheEntry{exists: exists, expires: expires}
		if exists {
			found.Add(id)
		}
	}
	return found, nil
}

// Invalidate drops every cached answer.
func (c *Caching) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
