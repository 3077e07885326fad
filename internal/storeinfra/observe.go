package storeinfra

import (
	"context"
	"iter"

	"github.com/goliatone/go-plant-catalog/catalog"
	"github.com/goliatone/go-plant-catalog/pubsub"
)

// ObserveAll streams the result of All, re-emitting on every change.
func (s *Store) ObserveAll(ctx context.Context) (<-chan []catalog.Plant, error) {
	return s.observe(ctx, s.All)
}

// ObserveByZone streams the result of ByZone, re-emitting on every change.
func (s *Store) ObserveByZone(ctx context.Context, zone catalog.GrowZone) (<-chan []catalog.Plant, error) {
	return s.observe(ctx, func(ctx context.Context) ([]catalog.Plant, error) {
		return s.ByZone(ctx, zone)
	})
}

// StreamAll is the pull-based iterator form of ObserveAll. Each range over
// the sequence opens its own subscription and closes it when the loop ends.
func (s *Store) StreamAll(ctx context.Context) iter.Seq2[[]catalog.Plant, error] {
	return s.stream(ctx, s.ObserveAll)
}

// StreamByZone is the pull-based iterator form of ObserveByZone.
func (s *Store) StreamByZone(ctx context.Context, zone catalog.GrowZone) iter.Seq2[[]catalog.Plant, error] {
	return s.stream(ctx, func(ctx context.Context) (<-chan []catalog.Plant, error) {
		return s.ObserveByZone(ctx, zone)
	})
}

// observe runs query once for the initial emission, then re-runs it after
// every store change. Deliveries are conflated: an emission the consumer
// has not read yet is replaced by the next one. The returned channel closes
// when ctx is done or the store closes; requery failures are logged and the
// previous emission stands.
func (s *Store) observe(ctx context.Context, query func(context.Context) ([]catalog.Plant, error)) (<-chan []catalog.Plant, error) {
	if s.closed.Load() {
		return nil, catalog.ErrStoreClosed
	}

	initial, err := query(ctx)
	if err != nil {
		return nil, err
	}

	sub := s.hub.Subscribe()
	out := make(chan []catalog.Plant, 1)
	out <- initial

	go func() {
		defer close(out)
		defer sub.Cancel()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sub.Updates():
				if !ok {
					return
				}
				if ctx.Err() != nil {
					return
				}
				plants, err := query(ctx)
				if err != nil {
					s.logger.WarnContext(ctx, "observer requery failed, keeping previous emission", "error", err)
					continue
				}
				pubsub.OfferLatest(out, plants)
			}
		}
	}()

	return out, nil
}

// stream adapts an observable query into an iter.Seq2. A subscribe-time
// error is yielded once; afterwards the error value is always nil because
// observers never fail mid-stream.
func (s *Store) stream(ctx context.Context, observe func(context.Context) (<-chan []catalog.Plant, error)) iter.Seq2[[]catalog.Plant, error] {
	return func(yield func([]catalog.Plant, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		ch, err := observe(ctx)
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
