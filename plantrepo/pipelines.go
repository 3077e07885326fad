package plantrepo

import (
	"context"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/goliatone/go-plant-catalog/catalog"
	"github.com/goliatone/go-plant-catalog/pubsub"
)

// ObserveAllSorted streams the full catalog in custom sort order. The order
// is resolved once per subscription: every emission of this subscription is
// ranked by that single value, even when it was the empty-order fallback.
// Deliveries are conflated; the channel closes when ctx is done or the
// store closes.
func (r *Repository) ObserveAllSorted(ctx context.Context) (<-chan []catalog.Plant, error) {
	upstream, err := r.store.ObserveAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan []catalog.Plant, 1)
	go func() {
		defer close(out)

		order := r.customOrder(ctx)
		for plants := range upstream {
			pubsub.OfferLatest(out, catalog.SortByCustomOrder(plants, order))
		}
	}()
	return out, nil
}

// ObserveZoneSorted streams one zone in custom sort order, resolving the
// order anew for every upstream emission. After the first successful
// resolution the lookup is a memoized read; until then each emission gives
// the fetch another chance, so an early fallback emission can be followed
// by correctly ranked ones. Sorting runs inline in the pipeline goroutine.
func (r *Repository) ObserveZoneSorted(ctx context.Context, zone catalog.GrowZone) (<-chan []catalog.Plant, error) {
	upstream, err := r.store.ObserveByZone(ctx, zone)
	if err != nil {
		return nil, err
	}

	out := make(chan []catalog.Plant, 1)
	go func() {
		defer close(out)

		for plants := range upstream {
			order := r.customOrder(ctx)
			pubsub.OfferLatest(out, catalog.SortByCustomOrder(plants, order))
		}
	}()
	return out, nil
}

// ObserveZoneSortedLatest is ObserveZoneSorted with the per-emission
// lookup and sort handed to the configured sort executor, keeping the
// receiving goroutine free to take the next upstream emission. When a
// newer emission arrives while an older sort is still in flight, the older
// result is dropped: only the newest emission reaches the subscriber.
func (r *Repository) ObserveZoneSortedLatest(ctx context.Context, zone catalog.GrowZone) (<-chan []catalog.Plant, error) {
	upstream, err := r.store.ObserveByZone(ctx, zone)
	if err != nil {
		return nil, err
	}

	out := make(chan []catalog.Plant, 1)
	go func() {
		var (
			wg  sync.WaitGroup
			mu  sync.Mutex
			gen atomic.Uint64
		)
		// In-flight sorts hold wg, so Wait runs before the channel closes.
		defer close(out)
		defer wg.Wait()

		for plants := range upstream {
			myGen := gen.Add(1)
			wg.Add(1)
			r.sortExec.Execute(func() {
				defer wg.Done()

				order := r.customOrder(ctx)
				sorted := catalog.SortByCustomOrder(plants, order)

				// mu serializes the generation check with the delivery, so
				// a superseded sort can never land after its successor.
				mu.Lock()
				defer mu.Unlock()
				if gen.Load() != myGen {
					return
				}
				pubsub.OfferLatest(out, sorted)
			})
		}
	}()
	return out, nil
}

// StreamZoneSorted is the pull-based iterator form of ObserveZoneSorted.
// Each range over the sequence opens its own subscription and closes it
// when the loop ends. A subscribe-time error is yielded once; afterwards
// the error value is always nil.
func (r *Repository) StreamZoneSorted(ctx context.Context, zone catalog.GrowZone) iter.Seq2[[]catalog.Plant, error] {
	return func(yield func([]catalog.Plant, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		ch, err := r.ObserveZoneSorted(ctx, zone)
		if err != nil {
			yield(nil, err)
			return
		}

		for plants := range ch {
			if !yield(plants, nil) {
				return
			}
		}
	}
}
