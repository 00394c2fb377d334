package commands

import (
	"context"

	"github.com/google/uuid"
)

// PaymentHandle is what the client needs to complete payment.
type PaymentHandle struct {
	Reference    string `json:"reference"`
	AuthorizeURL string `json:"authorize_url,omitempty"`
}

type PaymentGateway interface {
	CreateCharge(ctx context.Context, bookingID uuid.UUID, amount int64, payerEmail string) (PaymentHandle, error)
}

// Routing keys of the events written to the outbox.
const (
	EventBookingReserved  = "booking.reserved"
	EventSlotReleased     = "slot.released"
	EventPaymentInitiated = "booking.payment_initiated"
)
