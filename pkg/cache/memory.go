package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryCache is an in-process LRU layered in front of another backend.
// Reads check the LRU first and fall through to next on a miss; writes go to
// both. Entries keep the TTL they were written with.
type MemoryCache struct {
	lru  *lru.Cache[string, memEntry]
	next Cache
}

type memEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates an LRU holding up to size entries in front of next.
// A nil next behaves like [NullCache].
func NewMemoryCache(size int, next Cache) (*MemoryCache, error) {
	l, err := lru.New[string, memEntry](size)
	if err != nil {
		return nil, err
	}
	if next == nil {
		next = NullCache{}
	}
	return &MemoryCache{lru: l, next: next}, nil
}

// Get returns the entry from memory, or from the next backend (promoting it).
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if e, ok := c.lru.Get(key); ok {
		if e.expiresAt.IsZero() || time.Now().Before(e.expiresAt) {
			return e.data, true, nil
		}
		c.lru.Remove(key)
	}

	data, ok, err := c.next.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	c.lru.Add(key, memEntry{data: data})
	return data, true, nil
}

// Set writes the entry to memory and to the next backend.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := memEntry{data: data}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	c.lru.Add(key, e)
	return c.next.Set(ctx, key, data, ttl)
}

// Delete removes the entry from both layers.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.lru.Remove(key)
	return c.next.Delete(ctx, key)
}

// Len returns the number of entries held in memory.
func (c *MemoryCache) Len() int { return c.lru.Len() }

// Close purges memory and closes the next backend.
func (c *MemoryCache) Close() error {
	c.lru.Purge()
	return c.next.Close()
}

var _ Cache = (*MemoryCache)(nil)
