package liveview

import (
	"context"
	"log/slog"
	"sync"

	"parkpass/internal/pkg/errs"
)

type Hub struct {
	feed ChangeFeed

	mu        sync.Mutex
	listeners map[uint64]*listener
	nextID    uint64

	cancel context.CancelFunc
	done   chan struct{}
}

func NewHub(feed ChangeFeed) *Hub {
	return &Hub{
		feed:      feed,
		listeners: make(map[uint64]*listener),
	}
}

// Start runs the change feed in the background until Stop.
func (h *Hub) Start(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.done = make(chan struct{})

	go func() {
		defer close(h.done)
		if err := h.feed.Run(runCtx, h.Publish); err != nil && runCtx.Err() == nil {
			slog.Error("change feed stopped", "error", err.Error())
			h.Publish(Change{Err: errs.Mark(err, errs.ErrStoreUnavailable)})
		}
	}()
}

func (h *Hub) Stop() {
	h.mu.Lock()
	cancel, done := h.cancel, h.done
	h.cancel, h.done = nil, nil
	h.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Publish fans a change out to every interested listener without blocking.
func (h *Hub) Publish(c Change) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, l := range h.listeners {
		if c.Err != nil {
			l.fail(c.Err)
			continue
		}
		if c.IsResync() || l.interested(c) {
			l.poke()
		}
	}
}

func (h *Hub) register(interested func(Change) bool) (uint64, *listener) {
	l := &listener{
		interested: interested,
		signal:     make(chan struct{}, 1),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	h.listeners[h.nextID] = l
	return h.nextID, l
}

func (h *Hub) unregister(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.listeners, id)
}

func (h *Hub) listenerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}

// listener coalesces signals: at most one wake-up is pending at a time.
type listener struct {
	interested func(Change) bool
	signal     chan struct{}

	mu     sync.Mutex
	reload bool
	err    error
}

func (l *listener) poke() {
	l.mu.Lock()
	l.reload = true
	l.mu.Unlock()
	l.wake()
}

func (l *listener) fail(err error) {
	l.mu.Lock()
	l.err = err
	l.mu.Unlock()
	l.wake()
}

func (l *listener) wake() {
	select {
	case l.signal <- struct{}{}:
	default:
	}
}

func (l *listener) take() (reload bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	reload, err = l.reload, l.err
	l.reload, l.err = false, nil
	return reload, err
}
