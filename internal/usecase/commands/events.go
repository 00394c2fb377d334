package commands

import (
	"time"

	"github.com/google/uuid"
)

type BookingReservedEvent struct {
	BookingID uuid.UUID `json:"booking_id"`
	SlotID    uuid.UUID `json:"slot_id"`
	UserID    string    `json:"user_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

type SlotReleasedEvent struct {
	SlotID     uuid.UUID  `json:"slot_id"`
	BookingID  *uuid.UUID `json:"booking_id,omitempty"`
	ReleasedAt time.Time  `json:"released_at"`
}

type PaymentInitiatedEvent struct {
	BookingID uuid.UUID `json:"booking_id"`
	Reference string    `json:"reference"`
	Amount    int64     `json:"amount"`
}
