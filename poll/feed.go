// Package poll provides a subscription-based stand-in for server push:
// one feed per resource fetches on a fixed interval and fans the result
// out to every subscribed view, instead of each view running its own
// timer and request against the same endpoint.
//
// Fetches are serialized, so a slow response can never arrive after a
// newer one and overwrite it with stale data. Cancelling the feed's
// context stops the loop and the in-flight request with it.
package poll

import (
	"context"
	"sync"
	"time"
)

// Fetch loads the current value of the polled resource.
type Fetch[T any] func(ctx context.Context) (T, error)

// Update is one poll result. Err is set when the fetch failed; the
// previous value stays current in that case and the operation is simply
// reported, not retried.
type Update[T any] struct {
	Value T
	Err   error
	At    time.Time
}

type Feed[T any] struct {
	fetch    Fetch[T]
	interval time.Duration

	mu     sync.Mutex
	subs   map[int]chan Update[T]
	nextID int
	latest *Update[T]
}

func NewFeed[T any](fetch Fetch[T], interval time.Duration) *Feed[T] {
	return &Feed[T]{
		fetch:    fetch,
		interval: interval,
		subs:     make(map[int]chan Update[T]),
	}
}

// Run fetches once immediately, then once per interval, publishing each
// result to all subscribers. It blocks until ctx is cancelled.
func (f *Feed[T]) Run(ctx context.Context) {
	f.poll(ctx)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.poll(ctx)
		}
	}
}

func (f *Feed[T]) poll(ctx context.Context) {
	// Bound each request by the interval so one stuck call cannot
	// stack up behind the ticker.
	fetchCtx, cancel := context.WithTimeout(ctx, f.interval)
	defer cancel()

	value, err := f.fetch(fetchCtx)
	if ctx.Err() != nil {
		// The feed was torn down; a late response must not mutate
		// anything the views can still observe.
		return
	}
	f.publish(Update[T]{Value: value, Err: err, At: time.Now()})
}

func (f *Feed[T]) publish(u Update[T]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest = &u
	for _, ch := range f.subs {
		// Latest-wins delivery: a subscriber that has not drained the
		// previous update gets it replaced, never a growing backlog.
		select {
		case <-ch:
		default:
		}
		ch <- u
	}
}

// Subscribe registers a view with the feed. The returned cancel func
// must be called on view teardown; after that the channel receives
// nothing further. A subscriber joining after the first poll gets the
// latest update immediately.
func (f *Feed[T]) Subscribe() (<-chan Update[T], func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	ch := make(chan Update[T], 1)
	f.subs[id] = ch
	if f.latest != nil {
		ch <- *f.latest
	}

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
	return ch, cancel
}

// Latest returns the most recent update, if any poll has completed yet.
func (f *Feed[T]) Latest() (Update[T], bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.latest == nil {
		return Update[T]{}, false
	}
	return *f.latest, true
}
