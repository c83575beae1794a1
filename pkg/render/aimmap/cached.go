package aimmap

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bowmanhq/bowman/pkg/cache"
	"github.com/bowmanhq/bowman/pkg/store"
)

// GraphHash fingerprints a graph snapshot for cache keys.
func GraphHash(g store.Graph) (string, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("hash graph: %w", err)
	}
	return cache.Hash(data), nil
}

// Cached renders g through c. keyer may be nil.
func Cached(ctx context.Context, c cache.Cache, keyer cache.Keyer, ttl time.Duration, g store.Graph, opts ...Option) ([]byte, error) {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	h, err := GraphHash(g)
	if err != nil {
		return nil, err
	}
	r := newRenderer(opts)
	key := keyer.MapKey(h, cache.MapKeyOpts{Padding: r.padding, Labels: r.labels, StatusColors: r.statusColors})
	return cache.GetOrCompute(ctx, c, key, "map", ttl, func() ([]byte, error) {
		return Render(ctx, g, opts...), nil
	})
}
