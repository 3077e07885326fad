package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FallbackFn produces the value handed to a waiter when a fetch attempt
// fails, or when the waiter's own context ends before the attempt settles.
type FallbackFn[T any] func() T

// Cell memoizes the first successful result of a fetch for its own
// lifetime. It has exactly three observable states: empty, one shared
// attempt in flight, or resolved. Once resolved the value is never
// replaced or cleared, and the fetch function is never invoked again.
//
// Failed attempts are not memoized: every waiter of the failed attempt
// receives the fallback value, and the next GetOrFetch call starts a
// brand-new attempt. The cell is generic over the fetched type and knows
// nothing about where values come from.
type Cell[T any] struct {
	flight singleflight.Group

	mu     sync.RWMutex
	value  T
	loaded bool
}

// NewCell returns an empty cell.
func NewCell[T any]() *Cell[T] {
	return &Cell[T]{}
}

// Every GetOrFetch shares one flight key; the group drops the key when a
// call settles, which is what lets a failed attempt be retried.
const cellFlightKey = "fetch"

// GetOrFetch returns the memoized value when present. Otherwise it joins
// the attempt in flight, starting one if none is running, and returns that
// attempt's value on success or fallback() on failure. A waiter whose ctx
// ends mid-flight receives fallback() immediately; the shared attempt
// keeps running so other waiters can still get the real value.
func (c *Cell[T]) GetOrFetch(ctx context.Context, fetch FetchFn[T], fallback FallbackFn[T]) T {
	if v, ok := c.Get(); ok {
		return v
	}

	// The attempt is shared by every concurrent caller, so it must not
	// inherit any single caller's cancellation.
	detached := context.WithoutCancel(ctx)

	ch := c.flight.DoChan(cellFlightKey, func() (any, error) {
		// A previous flight may have resolved the cell between this
		// caller's miss and the group admitting a new call.
		if v, ok := c.Get(); ok {
			return v, nil
		}

		v, err := fetch(detached)
		if err != nil {
			return nil, err
		}
		c.resolve(v)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return callFallback(fallback)
		}
		return res.Val.(T)
	case <-ctx.Done():
		return callFallback(fallback)
	}
}

// Get returns the resolved value, if any, without triggering a fetch.
func (c *Cell[T]) Get() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value, c.loaded
}

// Loaded reports whether the cell has resolved.
func (c *Cell[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *Cell[T]) resolve(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		c.value = v
		c.loaded = true
	}
}

func callFallback[T any](fallback FallbackFn[T]) T {
	if fallback == nil {
		var zero T
		return zero
	}
	return fallback()
}
