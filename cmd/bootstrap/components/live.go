package components

import (
	"context"

	"parkpass/internal/usecase/liveview"
	"parkpass/internal/usecase/queries"

	"go.uber.org/fx"
)

var LiveModule = fx.Module("live",
	fx.Provide(
		NewHub,
		NewProjections,
	),
)

func NewProjections(hub *liveview.Hub, slots queries.SlotReadStore, bookings queries.BookingReadStore) liveview.Projections {
	return liveview.NewProjections(hub, slots, bookings)
}

// NewHub runs the change feed for the lifetime of the app, independent of
// the start hook's deadline.
func NewHub(lc fx.Lifecycle, feed liveview.ChangeFeed) *liveview.Hub {
	hub := liveview.NewHub(feed)
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			hub.Start(context.Background())
			return nil
		},
		OnStop: func(_ context.Context) error {
			hub.Stop()
			return nil
		},
	})
	return hub
}
