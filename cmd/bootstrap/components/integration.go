package components

import (
	"context"
	"log/slog"

	"parkpass/internal/infra/events"
	"parkpass/internal/infra/payment"
	"parkpass/internal/pkg/config"
	"parkpass/internal/pkg/errs"
	"parkpass/internal/usecase/commands"

	"go.uber.org/fx"
)

var IntegrationModule = fx.Module("integration",
	fx.Provide(
		NewPaymentGateway,
		NewEventPublisher,
		NewOutboxRelay,
	),
	fx.Invoke(func(*events.Relay) {}),
)

// NewPaymentGateway falls back to a gateway that rejects every charge when
// no Omise keys are configured.
func NewPaymentGateway(cfg config.Config) (commands.PaymentGateway, error) {
	gateway, err := payment.NewOmiseGateway(cfg.Payment)
	if errs.Is(err, payment.ErrGatewayNotConfigured) {
		slog.Warn("payment gateway disabled", "reason", err.Error())
		return payment.Disabled{}, nil
	}
	if err != nil {
		return nil, err
	}
	return gateway, nil
}

func NewEventPublisher(lc fx.Lifecycle, cfg config.Config) (events.Publisher, error) {
	if cfg.Events.AMQPURL == "" {
		slog.Info("event publishing disabled")
		return events.Nop{}, nil
	}

	publisher, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}

// NewOutboxRelay drains the outbox for the lifetime of the app. Hooks run in
// reverse on stop, so the relay halts before the publisher closes.
func NewOutboxRelay(lc fx.Lifecycle, cfg config.Config, source events.OutboxSource, publisher events.Publisher) *events.Relay {
	relay := events.NewRelay(source, publisher, cfg.Events.RelayInterval, cfg.Events.RelayBatchSize)
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			relay.Start(context.Background())
			return nil
		},
		OnStop: func(_ context.Context) error {
			relay.Stop()
			return nil
		},
	})
	return relay
}
