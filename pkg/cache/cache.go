// Package cache provides byte-oriented cache backends for registry responses.
//
// Three backends are available:
//   - [FileCache]: one JSON file per key under the user cache directory (CLI default)
//   - [RedisCache]: shared cache for teams running audits from several machines
//   - [NullCache]: disables caching (--no-cache)
//
// [MemoryCache] layers an in-process LRU in front of any backend so that the
// same marketplace entry fetched by the resolver and again by the enricher is
// decoded from memory the second time.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads by key with an optional TTL.
//
// Get returns (nil, false, nil) on a miss. Expired entries are reported as
// misses. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
