package cms

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// cache keeps the last good resolution per resource for a short TTL and coalesces concurrent
// loads of the same resource. Failed resolutions are never stored so the next call retries.
type cache struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu      sync.Mutex
	entries map[Resource]cacheEntry
}

type cacheEntry struct {
	value   any
	expires time.Time
}

func newCache(ttl time.Duration) *cache {
	return &cache{
		ttl:     ttl,
		now:     time.Now,
		entries: map[Resource]cacheEntry{},
	}
}

func (c *cache) get(key Resource) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.value, true
}

func (c *cache) put(key Resource, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expires: c.now().Add(c.ttl)}
}

// cached serves key from c or loads it once for all concurrent callers. The first caller's
// context governs the shared load.
func cached[T any](ctx context.Context, c *cache, key Resource, load func(context.Context) Resolution[T]) Resolution[T] {
	if v, ok := c.get(key); ok {
		return v.(Resolution[T])
	}
	v, _, _ := c.group.Do(string(key), func() (any, error) {
		if v, ok := c.get(key); ok {
			return v, nil
		}
		res := load(ctx)
		if res.Source != SourceFailed {
			c.put(key, res)
		}
		return res, nil
	})
	return v.(Resolution[T])
}
