package storecache

import (
	"context"
	"iter"
	"log/slog"

	"github.com/goliatone/go-plant-catalog/cache"
	"github.com/goliatone/go-plant-catalog/catalog"
	"github.com/puzpuzpuz/xsync/v3"
)

// Interface assertion to ensure CachedStore implements catalog.PlantStore
var _ catalog.PlantStore = (*CachedStore)(nil)

// CachedStore decorates a base PlantStore with read-through caching.
// One-shot queries (All, ByZone) are cached; observable and streaming
// queries pass through untouched, since a live stream already reflects
// every mutation and must never serve a memoized result.
type CachedStore struct {
	base          catalog.PlantStore
	cache         cache.CacheService
	keySerializer cache.KeySerializer
	keyRegistry   *xsync.MapOf[string, struct{}] // Track active cache keys for invalidation
	logger        *slog.Logger
}

// Option configures a CachedStore.
type Option func(*CachedStore)

// WithLogger sets the logger used for cache invalidation failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CachedStore) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a CachedStore that wraps the base store with caching.
func New(base catalog.PlantStore, cacheService cache.CacheService, keySerializer cache.KeySerializer, opts ...Option) *CachedStore {
	c := &CachedStore{
		base:          base,
		cache:         cacheService,
		keySerializer: keySerializer,
		keyRegistry:   xsync.NewMapOf[string, struct{}](),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// All returns every plant, serving repeat calls from the cache.
func (c *CachedStore) All(ctx context.Context) ([]catalog.Plant, error) {
	key := c.keySerializer.SerializeKey("All")
	c.trackKey(key)
	return cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) ([]catalog.Plant, error) {
		return c.base.All(ctx)
	})
}

// ByZone returns the plants in the given zone, serving repeat calls from
// the cache. Each zone gets its own cache entry.
func (c *CachedStore) ByZone(ctx context.Context, zone catalog.GrowZone) ([]catalog.Plant, error) {
	key := c.keySerializer.SerializeKey("ByZone", zone)
	c.trackKey(key)
	return cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) ([]catalog.Plant, error) {
		return c.base.ByZone(ctx, zone)
	})
}

// ObserveAll delegates to the base store.
func (c *CachedStore) ObserveAll(ctx context.Context) (<-chan []catalog.Plant, error) {
	return c.base.ObserveAll(ctx)
}

// ObserveByZone delegates to the base store.
func (c *CachedStore) ObserveByZone(ctx context.Context, zone catalog.GrowZone) (<-chan []catalog.Plant, error) {
	return c.base.ObserveByZone(ctx, zone)
}

// StreamAll delegates to the base store.
func (c *CachedStore) StreamAll(ctx context.Context) iter.Seq2[[]catalog.Plant, error] {
	return c.base.StreamAll(ctx)
}

// StreamByZone delegates to the base store.
func (c *CachedStore) StreamByZone(ctx context.Context, zone catalog.GrowZone) iter.Seq2[[]catalog.Plant, error] {
	return c.base.StreamByZone(ctx, zone)
}

// UpsertAll writes through to the base store and, on success, drops every
// tracked read key. An upsert can move a plant between zones, so every
// cached zone listing is suspect, not just the zones in the batch.
//
// The returned error is always the base store's. Invalidation failures are
// logged and swallowed so a successful write is never reported as failed.
func (c *CachedStore) UpsertAll(ctx context.Context, plants []catalog.Plant) error {
	if err := c.base.UpsertAll(ctx, plants); err != nil {
		return err
	}
	c.invalidateTracked(ctx)
	return nil
}

// trackKey registers a cache key in the key registry for later invalidation
func (c *CachedStore) trackKey(key string) {
	c.keyRegistry.Store(key, struct{}{})
}

// invalidateTracked removes every tracked key from the cache and the registry.
func (c *CachedStore) invalidateTracked(ctx context.Context) {
	var keys []string
	c.keyRegistry.Range(func(key string, _ struct{}) bool {
		keys = append(keys, key)
		return true
	})
	if len(keys) == 0 {
		return
	}

	if err := c.cache.InvalidateKeys(ctx, keys); err != nil {
		c.logger.WarnContext(ctx, "cache invalidation failed; stale reads possible until TTL expiry",
			"keys", len(keys), "error", err)
		return
	}
	for _, key := range keys {
		c.keyRegistry.Delete(key)
	}
}
