package liveview

import (
	"context"

	"parkpass/internal/usecase/queries"
)

type Projections interface {
	WatchSlots(ctx context.Context) *Subscription[*queries.SlotView]
	WatchUserBookings(ctx context.Context, userID string) *Subscription[*queries.BookingView]
	WatchAllBookings(ctx context.Context) *Subscription[*queries.BookingView]
}

// BookingLister is the unpaged slice of queries.BookingReadStore that live
// snapshots need.
type BookingLister interface {
	ListByUser(ctx context.Context, userID string) ([]*queries.BookingView, error)
	ListAll(ctx context.Context) ([]*queries.BookingView, error)
}

type projectionsImpl struct {
	hub      *Hub
	slots    queries.SlotReadStore
	bookings BookingLister
}

func NewProjections(hub *Hub, slots queries.SlotReadStore, bookings BookingLister) Projections {
	return &projectionsImpl{
		hub:      hub,
		slots:    slots,
		bookings: bookings,
	}
}

func (p *projectionsImpl) WatchSlots(ctx context.Context) *Subscription[*queries.SlotView] {
	return subscribe(ctx, p.hub,
		func(c Change) bool { return c.Collection == CollectionSlots },
		p.slots.List,
	)
}

// WatchUserBookings lists the owner's bookings newest first. Changes without
// an owner id are treated as relevant.
func (p *projectionsImpl) WatchUserBookings(ctx context.Context, userID string) *Subscription[*queries.BookingView] {
	return subscribe(ctx, p.hub,
		func(c Change) bool {
			return c.Collection == CollectionBookings && (c.UserID == "" || c.UserID == userID)
		},
		func(ctx context.Context) ([]*queries.BookingView, error) {
			return p.bookings.ListByUser(ctx, userID)
		},
	)
}

func (p *projectionsImpl) WatchAllBookings(ctx context.Context) *Subscription[*queries.BookingView] {
	return subscribe(ctx, p.hub,
		func(c Change) bool { return c.Collection == CollectionBookings },
		p.bookings.ListAll,
	)
}
