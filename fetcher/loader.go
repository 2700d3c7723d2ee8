// Package fetcher provides a small loading primitive for list data fetched
// from a remote service. A Loader runs its fetch eagerly when created, exposes
// the current items together with an in-flight flag, and can be refetched at
// any time. When refetches overlap, the one started last wins: results from
// fetches that were superseded before finishing are discarded.
package fetcher

import (
	"context"
	"log/slog"
	"sync"
)

// FetchFunc produces a fresh snapshot of the list.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Loader caches the most recent successful result of a FetchFunc. It is safe
// for concurrent use.
type Loader[T any] struct {
	fetch   FetchFunc[T]
	onError func(error)
	updates chan struct{}

	mu         sync.Mutex
	items      []T
	err        error
	inflight   int
	generation uint64
}

// Option customises a Loader at construction time.
type Option[T any] func(*Loader[T])

// WithErrorHandler installs a callback invoked whenever a fetch fails. The
// failed fetch never clears previously loaded items.
func WithErrorHandler[T any](handler func(error)) Option[T] {
	return func(l *Loader[T]) {
		if handler != nil {
			l.onError = handler
		}
	}
}

// New builds a Loader and starts its first fetch immediately in the
// background. The context bounds that initial fetch only.
func New[T any](ctx context.Context, fetch FetchFunc[T], opts ...Option[T]) *Loader[T] {
	if fetch == nil {
		panic("fetcher: fetch function is required")
	}

	l := &Loader[T]{
		fetch:   fetch,
		updates: make(chan struct{}, 1),
		onError: func(err error) {
			slog.Default().Warn("list fetch failed", "error", err)
		},
	}
	for _, opt := range opts {
		opt(l)
	}

	go l.run(ctx)
	return l
}

// State returns a copy of the current items and whether a fetch is in flight.
func (l *Loader[T]) State() ([]T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]T, len(l.items))
	copy(items, l.items)
	return items, l.inflight > 0
}

// Err returns the error of the most recent fetch whose outcome was applied,
// or nil after a success.
func (l *Loader[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Updates returns a channel that receives a signal after every state change.
// Signals are coalesced: a slow consumer sees at least one signal for a burst
// of changes and should re-read State.
func (l *Loader[T]) Updates() <-chan struct{} {
	return l.updates
}

// Refetch runs the fetch again and blocks until it settles. It returns the
// fetch error even when a newer refetch superseded this one.
func (l *Loader[T]) Refetch(ctx context.Context) error {
	return l.run(ctx)
}

func (l *Loader[T]) run(ctx context.Context) error {
	l.mu.Lock()
	l.generation++
	gen := l.generation
	l.inflight++
	l.mu.Unlock()
	l.notify()

	items, err := l.fetch(ctx)

	l.mu.Lock()
	l.inflight--
	latest := gen == l.generation
	if latest {
		if err == nil {
			l.items = items
		}
		l.err = err
	}
	l.mu.Unlock()
	l.notify()

	if err != nil {
		l.onError(err)
	}
	return err
}

func (l *Loader[T]) notify() {
	select {
	case l.updates <- struct{}{}:
	default:
	}
}
