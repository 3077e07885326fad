package cache

import (
	"context"
	"errors"
	"fmt"
)

// KeySerializer builds a cache key from a method name + arbitrary args.
// It is responsible for producing stable keys across calls.
type KeySerializer interface {
	SerializeKey(method string, args ...any) string
}

// FetchFn is the function signature CacheService expects when fetching from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// ErrInvalidResultType reports that a cached value could not be converted
// back to the type the caller asked for. It indicates a key collision
// between two differently typed reads sharing one key.
var ErrInvalidResultType = errors.New("cache: invalid result type")

// CacheService exposes the read-through caching operations we need when decorating stores.
// It is exported so that other packages can reuse the default serializer or provide alternate cache backends.
// The fetch parameter is spelled as a bare func type so implementations in
// other packages never need to import this one.
type CacheService interface {
	GetOrFetch(ctx context.Context, key string, fetchFn func(ctx context.Context) (any, error)) (any, error)
	Delete(ctx context.Context, key string) error
	InvalidateKeys(ctx context.Context, keys []string) error
}

// GetOrFetch is a type-safe wrapper function that provides generic support for CacheService.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetchFn FetchFn[T]) (T, error) {
	var zero T

	result, err := service.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetchFn(ctx)
	})
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}

	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("%w: key %q holds %T", ErrInvalidResultType, key, result)
	}
	return typed, nil
}
