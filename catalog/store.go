package catalog

import (
	"context"
	"errors"
	"iter"
)

// ErrStoreClosed is returned by store operations invoked after Close.
var ErrStoreClosed = errors.New("catalog: store is closed")

// PlantStore is the locally persisted plant collection. Implementations
// own their synchronization: every method is safe for concurrent use.
//
// The observable queries are cold-to-hot streams: each subscription emits
// the current query result immediately, then a fresh result after every
// successful mutation of the store. Deliveries are conflated, so a slow
// consumer only ever sees the latest result and never blocks a writer.
// The returned channel closes when ctx is done or the store closes; it is
// never closed because a requery failed (those are logged and skipped).
type PlantStore interface {
	// All returns every plant, ordered by name.
	All(ctx context.Context) ([]Plant, error)

	// ByZone returns the plants in the given zone, ordered by name.
	// The NoGrowZone sentinel makes it equivalent to All.
	ByZone(ctx context.Context, zone GrowZone) ([]Plant, error)

	// ObserveAll streams the result of All, re-emitting on every change.
	ObserveAll(ctx context.Context) (<-chan []Plant, error)

	// ObserveByZone streams the result of ByZone, re-emitting on every change.
	ObserveByZone(ctx context.Context, zone GrowZone) (<-chan []Plant, error)

	// StreamAll is the pull-based iterator form of ObserveAll.
	StreamAll(ctx context.Context) iter.Seq2[[]Plant, error]

	// StreamByZone is the pull-based iterator form of ObserveByZone.
	StreamByZone(ctx context.Context, zone GrowZone) iter.Seq2[[]Plant, error]

	// UpsertAll inserts or replaces the given plants in one batch and,
	// on success, notifies every active observer.
	UpsertAll(ctx context.Context, plants []Plant) error
}
