package components

import (
	"parkpass/internal/domain/booking"
	"parkpass/internal/pkg/clock"
	"parkpass/internal/pkg/config"
	"parkpass/internal/usecase"
	"parkpass/internal/usecase/commands"
	"parkpass/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		booking.NewHourlyPriceCalculator,
		fx.As(new(booking.PriceCalculator)),
	),
	func(cfg config.Config) commands.PaymentSettings {
		return commands.PaymentSettings{FallbackEmail: cfg.Payment.FallbackEmail}
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewSlotQueries,
		queries.NewBookingQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
