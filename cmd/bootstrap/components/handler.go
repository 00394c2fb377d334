package components

import (
	"parkpass/internal/handler"
	"parkpass/internal/handler/api"
	"parkpass/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewSlotHandler,
		api.NewBookingHandler,
		api.NewLiveHandler,
		middleware.NewAuthMiddleware,
		func(slots *api.SlotHandler, bookings *api.BookingHandler, live *api.LiveHandler) handler.Handlers {
			return handler.Handlers{Slots: slots, Bookings: bookings, Live: live}
		},
	),
	fx.Invoke(handler.NewRouter),
)
