// Package storecache provides a cached decorator for catalog.PlantStore.
//
// # Overview
//
// This package implements the decorator pattern to add read-through caching
// to an existing PlantStore implementation. The cached store wraps a base
// store and intercepts one-shot read operations, while delegating writes
// and live result streams directly to the base store.
//
// # Basic Usage
//
// Wrap any catalog.PlantStore; the di container does this for the store it
// builds, and tests wrap fakes the same way:
//
//	cacheService, err := cache.NewCacheService(cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//
//	cached := storecache.New(base, cacheService, cache.NewDefaultKeySerializer())
//
//	// Use exactly like the base store.
//	plants, err := cached.All(ctx)
//	zoned, err := cached.ByZone(ctx, catalog.GrowZone{Number: 9})
//
// # Cached vs Pass-through Operations
//
// Cached (read-through):
//   - All
//   - ByZone
//
// Pass-through:
//   - UpsertAll (write, then invalidates the cached reads)
//   - ObserveAll, ObserveByZone
//   - StreamAll, StreamByZone
//
// Live streams are never cached: each emission must reflect the store as it
// is at that moment, and the base store already conflates deliveries so a
// subscriber only sees the latest result.
//
// # Invalidation
//
// Every cache key produced by a read is tracked in a key registry. A
// successful UpsertAll invalidates all tracked keys in one batch: a batch
// may move plants between zones, so no cached zone listing can be trusted
// after a write. Invalidation failures are logged and do not surface as
// write errors; the cache TTL bounds how long a stale entry can survive.
//
// # See Also
//
// For cache configuration and key serialization details, see the cache
// package. For the persistent store implementation, see internal/storeinfra.
package storecache
