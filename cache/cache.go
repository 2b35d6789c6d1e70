// ABOUTME: Keyed query cache for backend reads with in-flight de-duplication
// ABOUTME: Entries live until invalidated; there is no TTL and no eviction
package cache

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ProposalsKey is the key of a user's proposal list.
func ProposalsKey(userID string) string {
	return "proposals:" + userID
}

// ProposalKey is the key of a single proposal.
func ProposalKey(id string) string {
	return "proposal:" + id
}

type Loader func(ctx context.Context) (any, error)

// Cache is safe for concurrent use. Concurrent fetches of one key share a
// single loader call, and failed loads are never stored.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]any
	// gen is bumped on every write or invalidation so a load that started
	// before an invalidation cannot store its stale result.
	gen   map[string]uint64
	group singleflight.Group
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]any),
		gen:     make(map[string]uint64),
	}
}

// Fetch returns the cached value for key, loading it on a miss.
func (c *Cache) Fetch(ctx context.Context, key string, load Loader) (any, error) {
	if v, ok := c.Peek(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.Peek(key); ok {
			return v, nil
		}

		c.mu.RLock()
		started := c.gen[key]
		c.mu.RUnlock()

		v, err := load(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.gen[key] == started {
			c.entries[key] = v
		}
		c.mu.Unlock()
		return v, nil
	})
	return v, err
}

// Get is the typed form of Fetch.
func Get[T any](ctx context.Context, c *Cache, key string, load func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache entry %q has type %T", key, v)
	}
	return typed, nil
}

func (c *Cache) Peek(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Set replaces the entry for key.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen[key]++
	c.entries[key] = value
}

// Invalidate drops the given keys; the next Fetch reloads them.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	for _, k := range keys {
		c.gen[k]++
		delete(c.entries, k)
	}
	c.mu.Unlock()

	for _, k := range keys {
		c.group.Forget(k)
	}
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
