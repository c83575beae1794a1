// Package cache stores rendered map artifacts between requests.
//
// The [Cache] interface has three implementations:
//   - [FileCache]: entries as JSON files under the XDG cache directory (CLI)
//   - [RedisCache]: a shared Redis instance (multi-process server)
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so every backend sees the same layout. Use
// [NewScopedKeyer] to isolate repositories that share one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
// A ttl of zero means the entry never expires.
type Cache interface {
	// Get returns the value and true on a hit, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
