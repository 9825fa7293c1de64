package rates

import (
	"context"
	"time"

	"juros/internal/cache"
	"juros/internal/core"
	applog "juros/internal/log"
)

const cacheKey = "reference_rates"

// CachedCatalog keeps the last successful List result for a while.
type CachedCatalog struct {
	next   Catalog
	cache  *cache.LRUCache[[]core.ReferenceRate]
	logger *applog.Logger
}

func NewCachedCatalog(next Catalog, ttl time.Duration, logger *applog.Logger) *CachedCatalog {
	if logger == nil {
		logger = applog.Discard()
	}
	return &CachedCatalog{
		next:   next,
		cache:  cache.NewLRUCache[[]core.ReferenceRate](1, ttl),
		logger: logger.WithComponent(applog.ComponentRates),
	}
}

func (c *CachedCatalog) List(ctx context.Context) ([]core.ReferenceRate, error) {
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached, nil
	}

	list, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Set(cacheKey, list)
	c.logger.DebugContext(ctx, "Reference rates cached", "count", len(list))
	return list, nil
}

// Invalidate drops the cached list so the next call reaches the source.
func (c *CachedCatalog) Invalidate() {
	c.cache.Delete(cacheKey)
}

// Cache exposes the underlying cache so it can be swept and reported.
func (c *CachedCatalog) Cache() *cache.LRUCache[[]core.ReferenceRate] {
	return c.cache
}
