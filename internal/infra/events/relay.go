package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"parkpass/internal/usecase/shared"
)

const (
	publishTimeout = 5 * time.Second
	maxRetryDelay  = 5 * time.Minute
)

// OutboxSource hands due outbox messages to deliver and records the outcome.
// Messages deliver rejects are rescheduled for retryAt(attempts).
type OutboxSource interface {
	Drain(
		ctx context.Context,
		limit int,
		deliver func(ctx context.Context, msg shared.OutboxMessage) error,
		retryAt func(attempts int) time.Time,
	) (int, error)
}

// Relay moves committed outbox messages to the broker. Delivery is at least
// once: a crash between publish and bookkeeping resends the message.
type Relay struct {
	source    OutboxSource
	publisher Publisher
	interval  time.Duration
	batch     int

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRelay(source OutboxSource, publisher Publisher, interval time.Duration, batch int) *Relay {
	if interval <= 0 {
		interval = time.Second
	}
	if batch <= 0 {
		batch = 50
	}
	return &Relay{
		source:    source,
		publisher: publisher,
		interval:  interval,
		batch:     batch,
	}
}

func (r *Relay) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			r.flush(runCtx)
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func (r *Relay) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// flush drains full batches until the backlog is gone.
func (r *Relay) flush(ctx context.Context) {
	for ctx.Err() == nil {
		n, err := r.RunOnce(ctx)
		if err != nil {
			if ctx.Err() == nil {
				slog.Error("outbox drain failed", "error", err.Error())
			}
			return
		}
		if n < r.batch {
			return
		}
	}
}

// RunOnce drains a single batch and returns how many messages were sent.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	return r.source.Drain(ctx, r.batch, r.deliver, retryAt)
}

func (r *Relay) deliver(ctx context.Context, msg shared.OutboxMessage) error {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := r.publisher.Publish(pubCtx, msg); err != nil {
		slog.Warn("event publish failed",
			"outbox_id", msg.ID.String(),
			"routing_key", msg.RoutingKey,
			"attempts", msg.Attempts+1,
			"error", err.Error())
		return err
	}
	return nil
}

func retryAt(attempts int) time.Time {
	return time.Now().Add(RetryDelay(attempts))
}

// RetryDelay doubles from one second per failed attempt, capped at five minutes.
func RetryDelay(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	if attempts > 10 {
		return maxRetryDelay
	}
	return min(time.Second<<(attempts-1), maxRetryDelay)
}
