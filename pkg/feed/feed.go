package feed

import "sync"

// UnsubscribeFunc removes a subscription. Safe to call multiple times.
type UnsubscribeFunc func()

// Feed delivers published values to subscriber callbacks.
//
// Delivery is at-least-once with last-value-wins coalescing: a slow
// subscriber may skip intermediate values but always observes the most
// recent one. Late subscribers immediately receive the last published
// value, if any. Each subscriber's callback runs sequentially on its
// own goroutine, so callbacks never block publishers or each other.
type Feed[T any] struct {
	mu     sync.Mutex
	subs   map[*subscriber[T]]struct{}
	last   *T
	closed bool
	wg     sync.WaitGroup
}

// New creates an empty feed.
func New[T any]() *Feed[T] {
	return &Feed[T]{
		subs: make(map[*subscriber[T]]struct{}),
	}
}

// Subscribe registers a callback and returns its unsubscribe handle.
// If a value was published before subscribing, the callback receives it
// immediately (last-value replay). A nil callback is ignored and yields
// a no-op unsubscribe. Subscribing to a closed feed is a no-op.
func (f *Feed[T]) Subscribe(fn func(T)) UnsubscribeFunc {
	if fn == nil {
		return func() {}
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return func() {}
	}

	sub := newSubscriber(fn)
	f.subs[sub] = struct{}{}
	if f.last != nil {
		sub.offer(*f.last)
	}
	f.mu.Unlock()

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		sub.run()
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, sub)
			f.mu.Unlock()
			sub.stop()
		})
	}
}

// Publish delivers a value to all current subscribers and records it
// for last-value replay. Publishing to a closed feed is a no-op.
func (f *Feed[T]) Publish(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}

	f.last = &v
	for sub := range f.subs {
		sub.offer(v)
	}
}

// Close stops delivery and waits for in-flight callbacks to finish.
// Close is idempotent.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	for sub := range f.subs {
		sub.stop()
	}
	clear(f.subs)
	f.mu.Unlock()

	f.wg.Wait()
}

// subscriber holds a single-slot mailbox. Publishers overwrite the slot
// when the consumer lags, which is what gives the feed its
// last-value-wins behavior.
type subscriber[T any] struct {
	fn       func(T)
	slot     chan T
	done     chan struct{}
	stopOnce sync.Once
}

func newSubscriber[T any](fn func(T)) *subscriber[T] {
	return &subscriber[T]{
		fn:   fn,
		slot: make(chan T, 1),
		done: make(chan struct{}),
	}
}

// offer places a value in the mailbox, displacing an undelivered one.
func (s *subscriber[T]) offer(v T) {
	for {
		select {
		case s.slot <- v:
			return
		default:
			select {
			case <-s.slot:
			default:
			}
		}
	}
}

func (s *subscriber[T]) run() {
	for {
		select {
		case <-s.done:
			return
		case v := <-s.slot:
			s.fn(v)
		}
	}
}

func (s *subscriber[T]) stop() {
	s.stopOnce.Do(func() { close(s.done) })
}
