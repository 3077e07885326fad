// Package cache provides the caching primitives the plant repository is
// built on: a single-flight success-only memo cell, a read-through cache
// service contract, and key serialization for store-level caching.
//
// # Overview
//
// The package exports three cooperating pieces:
//
//   - Cell[T]: memoizes the first successful fetch for its lifetime,
//     coalescing concurrent callers into one shared attempt
//   - CacheService: a generic read-through contract with TTL-style
//     backends behind it (see internal/cacheinfra for the sturdyc one)
//   - KeySerializer: builds stable cache keys from method names and args
//
// Cell and CacheService solve different problems and are both used by the
// repository: the Cell guards the remote sort-order fetch, which must
// resolve at most once and never expire, while CacheService accelerates
// repeated store reads, which may expire and be invalidated after writes.
//
// # The Success Cell
//
// Cell[T] has three states: empty, one attempt in flight, or resolved.
// Any number of goroutines may call GetOrFetch concurrently; exactly one
// underlying fetch runs at a time, and every concurrent caller shares its
// outcome. Success is permanent. Failure is not recorded at all: the
// callers of the failed attempt receive their fallback value and the next
// call starts over.
//
//	cell := cache.NewCell[[]string]()
//	order := cell.GetOrFetch(ctx,
//		func(ctx context.Context) ([]string, error) { return svc.CustomSortOrder(ctx) },
//		func() []string { return nil },
//	)
//
// The fallback also covers a waiter whose own context is cancelled while
// the shared attempt is still running; the attempt itself is detached
// from caller contexts and keeps going for the benefit of other callers.
//
// # Key Serialization Strategy
//
// The default key serializer joins the method name and each argument with
// "::". Pointers are dereferenced, slices and structs are serialized
// recursively, basic types print as themselves, and everything else falls
// back to JSON. Zone-scoped reads therefore produce keys like:
//
//	serializer.SerializeKey("ByZone", catalog.GrowZone{Number: 9})
//	// ByZone::struct:{Number:9}
//
// Custom serializers can replace the default wherever different namespacing
// or backend-specific key constraints apply; implement KeySerializer and
// hand it to the store decorator.
//
// # Error Handling
//
// GetOrFetch (the generic helper) surfaces ErrInvalidResultType when a
// cached value cannot be converted back to the requested type, which
// indicates two differently typed reads sharing one key. The Cell never
// returns errors: failures are absorbed by the caller-supplied fallback.
//
// # See Also
//
// For the sturdyc-backed CacheService see internal/cacheinfra. For the
// store decorator that combines the service with key tracking and
// write-through invalidation, see the storecache package.
package cache
