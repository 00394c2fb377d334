package payment

import (
	"context"
	"log/slog"

	"parkpass/internal/pkg/config"
	"parkpass/internal/pkg/errs"
	"parkpass/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
)

var ErrGatewayNotConfigured = errs.New("payment gateway is not configured")

// omiseAPI is the slice of the Omise client the gateway needs.
type omiseAPI interface {
	CreateSource(req *operations.CreateSource) (*omise.Source, error)
	CreateCharge(req *operations.CreateCharge) (*omise.Charge, error)
}

type clientAPI struct {
	client *omise.Client
}

func (c clientAPI) CreateSource(req *operations.CreateSource) (*omise.Source, error) {
	src := &omise.Source{}
	if err := c.client.Do(src, req); err != nil {
		return nil, err
	}
	return src, nil
}

func (c clientAPI) CreateCharge(req *operations.CreateCharge) (*omise.Charge, error) {
	ch := &omise.Charge{}
	if err := c.client.Do(ch, req); err != nil {
		return nil, err
	}
	return ch, nil
}

// OmiseGateway charges bookings through an Omise source (PromptPay by
// default) and hands back the charge id and authorize URI.
type OmiseGateway struct {
	api        omiseAPI
	currency   string
	sourceType string
}

func NewOmiseGateway(cfg config.PaymentConfig) (*OmiseGateway, error) {
	if cfg.OmisePublicKey == "" || cfg.OmiseSecretKey == "" {
		return nil, ErrGatewayNotConfigured
	}
	client, err := omise.NewClient(cfg.OmisePublicKey, cfg.OmiseSecretKey)
	if err != nil {
		return nil, errs.Wrap(err, "create omise client")
	}
	client.SetDebug(false)
	return newOmiseGateway(clientAPI{client: client}, cfg), nil
}

func newOmiseGateway(api omiseAPI, cfg config.PaymentConfig) *OmiseGateway {
	return &OmiseGateway{
		api:        api,
		currency:   cfg.Currency,
		sourceType: cfg.SourceType,
	}
}

func (g *OmiseGateway) CreateCharge(ctx context.Context, bookingID uuid.UUID, amount int64, payerEmail string) (commands.PaymentHandle, error) {
	if amount <= 0 {
		return commands.PaymentHandle{}, errs.Newf("omise cannot charge amount %d", amount)
	}
	if err := ctx.Err(); err != nil {
		return commands.PaymentHandle{}, err
	}

	src, err := g.api.CreateSource(&operations.CreateSource{
		Type:     g.sourceType,
		Amount:   amount,
		Currency: g.currency,
	})
	if err != nil {
		return commands.PaymentHandle{}, errs.Wrap(err, "create omise source")
	}

	ch, err := g.api.CreateCharge(&operations.CreateCharge{
		Amount:      amount,
		Currency:    g.currency,
		Source:      src.ID,
		Description: "parking booking " + bookingID.String(),
		Metadata: map[string]any{
			"booking_id": bookingID.String(),
			"email":      payerEmail,
		},
	})
	if err != nil {
		return commands.PaymentHandle{}, errs.Wrap(err, "create omise charge")
	}

	slog.Info("omise charge created",
		"booking_id", bookingID.String(),
		"charge_id", ch.ID,
		"status", string(ch.Status))

	return commands.PaymentHandle{
		Reference:    ch.ID,
		AuthorizeURL: ch.AuthorizeURI,
	}, nil
}

// Disabled is used when no Omise keys are configured; every charge fails.
type Disabled struct{}

func (Disabled) CreateCharge(context.Context, uuid.UUID, int64, string) (commands.PaymentHandle, error) {
	return commands.PaymentHandle{}, ErrGatewayNotConfigured
}
