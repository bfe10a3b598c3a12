// Package live carries full-collection snapshots from the backend to
// subscribers. A subscriber always ends on the newest snapshot; when it falls
// behind, older undelivered snapshots are replaced, never reordered.
package live

import (
	"sync"

	"balalaika/internal/metrics"
)

// Feed holds the latest value of a stream and fans it out to subscribers.
type Feed[T any] struct {
	name    string
	mu      sync.Mutex
	cur     T
	has     bool
	subs    map[*Subscription[T]]struct{}
	onEmpty func()
}

func NewFeed[T any](name string) *Feed[T] {
	return &Feed[T]{name: name, subs: map[*Subscription[T]]struct{}{}}
}

// Publish replaces the current value and offers it to every subscriber.
func (f *Feed[T]) Publish(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cur, f.has = v, true
	for s := range f.subs {
		s.offer(v)
	}
	metrics.SnapshotsPublished.WithLabelValues(f.name).Inc()
}

// Subscribe registers a subscriber. If a value was already published it is
// delivered first, like a live query firing with the current result set.
func (f *Feed[T]) Subscribe() *Subscription[T] {
	s := &Subscription[T]{feed: f, ch: make(chan T, 1)}
	f.mu.Lock()
	f.subs[s] = struct{}{}
	if f.has {
		s.offer(f.cur)
	}
	f.mu.Unlock()
	metrics.LiveSubscribers.WithLabelValues(f.name).Inc()
	return s
}

// Subscribers reports how many subscriptions are open.
func (f *Feed[T]) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *Feed[T]) remove(s *Subscription[T]) {
	f.mu.Lock()
	delete(f.subs, s)
	empty := len(f.subs) == 0
	onEmpty := f.onEmpty
	f.mu.Unlock()
	metrics.LiveSubscribers.WithLabelValues(f.name).Dec()
	if empty && onEmpty != nil {
		onEmpty()
	}
}

// Subscription is one consumer of a Feed.
type Subscription[T any] struct {
	feed *Feed[T]
	ch   chan T
	once sync.Once
}

// C yields snapshots; it is closed by Close.
func (s *Subscription[T]) C() <-chan T { return s.ch }

// Close unsubscribes. Safe to call more than once.
func (s *Subscription[T]) Close() {
	s.once.Do(func() {
		s.feed.remove(s)
		close(s.ch)
	})
}

// offer must be called with the feed lock held. Only the lock holder sends,
// so after draining the slot the send cannot block.
func (s *Subscription[T]) offer(v T) {
	select {
	case <-s.ch:
	default:
	}
	s.ch <- v
}
