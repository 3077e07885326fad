package pubsub

import (
	"sync"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
)

// Hub fans values out to any number of subscribers with latest-value-wins
// delivery: each subscriber owns a capacity-one channel, and a value that
// was never consumed is replaced by the next one. Publishers therefore
// never block on slow subscribers.
//
// The zero value is not usable; construct hubs with NewHub.
type Hub[T any] struct {
	subs *xsync.MapOf[string, chan T]

	// mu orders Publish/Subscribe (read side) against Close and Cancel
	// (write side) so a channel is never closed mid-send.
	mu     sync.RWMutex
	closed bool
}

// NewHub creates an empty hub.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{
		subs: xsync.NewMapOf[string, chan T](),
	}
}

// Subscribe registers a new subscriber and returns its subscription.
// Subscribing to a closed hub yields a subscription whose channel is
// already closed.
func (h *Hub[T]) Subscribe() *Subscription[T] {
	ch := make(chan T, 1)
	sub := &Subscription[T]{id: uuid.NewString(), ch: ch, hub: h}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		close(ch)
		return sub
	}

	h.subs.Store(sub.id, ch)
	return sub
}

// Publish offers v to every current subscriber, replacing any value a
// subscriber has not consumed yet. Publishing to a closed hub is a no-op.
func (h *Hub[T]) Publish(v T) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	h.subs.Range(func(_ string, ch chan T) bool {
		OfferLatest(ch, v)
		return true
	})
}

// Close terminates every subscription and marks the hub closed.
// Further Publish calls are no-ops; Close is idempotent.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	h.subs.Range(func(id string, ch chan T) bool {
		h.subs.Delete(id)
		close(ch)
		return true
	})
}

// Len reports the number of active subscriptions.
func (h *Hub[T]) Len() int {
	return h.subs.Size()
}

func (h *Hub[T]) cancel(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subs.LoadAndDelete(id); ok {
		close(ch)
	}
}

// Subscription is one receiver attached to a Hub.
type Subscription[T any] struct {
	id  string
	ch  chan T
	hub *Hub[T]
}

// Updates returns the channel values are delivered on. It closes when the
// subscription is cancelled or the hub closes.
func (s *Subscription[T]) Updates() <-chan T {
	return s.ch
}

// Cancel detaches the subscription from the hub and closes its channel.
// Cancel is idempotent and safe to call after the hub has closed.
func (s *Subscription[T]) Cancel() {
	s.hub.cancel(s.id)
}

// OfferLatest delivers v on ch without ever blocking: when a previously
// offered value is still buffered it is dropped in favor of v. ch must be
// a capacity-one channel used only through OfferLatest on the send side.
func OfferLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
