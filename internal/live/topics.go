package live

import "sync"

// Topics is a set of feeds keyed by K, created on first use and dropped when
// their last subscriber leaves.
type Topics[K comparable, T any] struct {
	name  string
	mu    sync.Mutex
	feeds map[K]*Feed[T]
}

func NewTopics[K comparable, T any](name string) *Topics[K, T] {
	return &Topics[K, T]{name: name, feeds: map[K]*Feed[T]{}}
}

// feedLocked must be called with t.mu held.
func (t *Topics[K, T]) feedLocked(k K) *Feed[T] {
	f, ok := t.feeds[k]
	if !ok {
		f = NewFeed[T](t.name)
		f.onEmpty = func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			if t.feeds[k] == f && f.Subscribers() == 0 {
				delete(t.feeds, k)
			}
		}
		t.feeds[k] = f
	}
	return f
}

// Publish sends v to the subscribers of k. Nothing is retained when k has none.
func (t *Topics[K, T]) Publish(k K, v T) {
	t.mu.Lock()
	f, ok := t.feeds[k]
	t.mu.Unlock()
	if ok {
		f.Publish(v)
	}
}

// Subscribe opens a subscription on k, seeded with initial.
func (t *Topics[K, T]) Subscribe(k K, initial T) *Subscription[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	f := t.feedLocked(k)
	f.Publish(initial)
	return f.Subscribe()
}

// size reports how many keys currently have a feed.
func (t *Topics[K, T]) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.feeds)
}
