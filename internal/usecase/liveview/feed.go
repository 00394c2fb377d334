package liveview

import "context"

type Collection string

const (
	CollectionSlots    Collection = "slots"
	CollectionBookings Collection = "bookings"
)

// Change is one signal from the store's change feed.
// A zero Collection with nil Err asks every view to resync; a non-nil Err
// reports that the feed itself is degraded.
type Change struct {
	Collection Collection
	ID         string
	UserID     string
	Err        error
}

func Resync() Change {
	return Change{}
}

func (c Change) IsResync() bool {
	return c.Collection == "" && c.Err == nil
}

// ChangeFeed pushes committed-write signals to emit until ctx ends.
// Implementations reconnect on their own and must not return early on
// transient failures; they report them as Change.Err instead.
type ChangeFeed interface {
	Run(ctx context.Context, emit func(Change)) error
}
