package cache

import (
	"context"
	"time"

	"github.com/bowmanhq/bowman/pkg/observability"
)

// GetOrCompute returns the cached value for key, or runs compute, stores its
// result with ttl, and returns it. keyType labels the hook events ("map",
// "dot"). Backend read and write failures fall through to compute.
func GetOrCompute(ctx context.Context, c Cache, key, keyType string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, error) {
	hooks := observability.Cache()

	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		hooks.OnCacheHit(ctx, keyType)
		return data, nil
	}
	hooks.OnCacheMiss(ctx, keyType)

	data, err := compute()
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, key, data, ttl); err == nil {
		hooks.OnCacheSet(ctx, keyType, len(data))
	}
	return data, nil
}
