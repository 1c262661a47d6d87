// README: TTL-cached view over any route source; the catalog changes rarely.
package routing

import (
	"context"
	"time"

	"smartride/internal/cache"
)

const catalogKey = "catalog"

// Source supplies route catalog snapshots.
type Source interface {
	ListRoutes(ctx context.Context) ([]Route, error)
}

// CachedSource serves catalog snapshots from memory for ttl before asking the
// wrapped source again. Callers must treat the returned slice as read-only.
type CachedSource struct {
	src   Source
	cache *cache.Cache[[]Route]
}

func NewCachedSource(src Source, ttl time.Duration) *CachedSource {
	return &CachedSource{src: src, cache: cache.New[[]Route](ttl)}
}

func (c *CachedSource) ListRoutes(ctx context.Context) ([]Route, error) {
	if routes, ok := c.cache.Get(catalogKey); ok {
		return routes, nil
	}
	routes, err := c.src.ListRoutes(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Set(catalogKey, routes)
	return routes, nil
}

// Invalidate drops the cached snapshot so the next call reloads.
func (c *CachedSource) Invalidate() {
	c.cache.Delete(catalogKey)
}

func (c *CachedSource) Close() {
	c.cache.Close()
}
