package liveview

import (
	"context"
	"sync"

	"parkpass/internal/pkg/errs"
)

// Snapshot is a full copy of a view. Err is set when the view could not be
// refreshed; the subscription stays open and later snapshots may succeed.
type Snapshot[T any] struct {
	Items []T
	Err   error
}

type Subscription[T any] struct {
	// C always holds the latest undelivered snapshot; stale ones are dropped.
	C <-chan Snapshot[T]

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Unsubscribe stops the subscription and waits for its goroutine to exit.
// C is closed when it returns. Safe to call more than once.
func (s *Subscription[T]) Unsubscribe() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

// Done is closed once the subscription has stopped.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

func subscribe[T any](
	ctx context.Context,
	hub *Hub,
	interested func(Change) bool,
	load func(ctx context.Context) ([]T, error),
) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan Snapshot[T], 1)
	sub := &Subscription[T]{
		C:      out,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	id, l := hub.register(interested)

	go func() {
		defer close(sub.done)
		defer close(out)
		defer hub.unregister(id)

		refresh := func() {
			items, err := load(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				deliver(out, Snapshot[T]{Err: errs.Mark(err, errs.ErrStoreUnavailable)})
				return
			}
			deliver(out, Snapshot[T]{Items: items})
		}

		refresh()
		for {
			select {
			case <-ctx.Done():
				return
			case <-l.signal:
				reload, err := l.take()
				if err != nil {
					deliver(out, Snapshot[T]{Err: errs.Mark(err, errs.ErrStoreUnavailable)})
				}
				if reload {
					refresh()
				}
			}
		}
	}()

	return sub
}

// deliver replaces any unread snapshot. Only the subscription goroutine
// sends on out, so the final send cannot block.
func deliver[T any](out chan Snapshot[T], snap Snapshot[T]) {
	select {
	case out <- snap:
		return
	default:
	}
	select {
	case <-out:
	default:
	}
	out <- snap
}
