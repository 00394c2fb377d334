package shared

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyRecord ties a client-chosen key to the booking it produced.
type IdempotencyRecord struct {
	Key         uuid.UUID
	UserID      string
	RequestHash string
	BookingID   uuid.UUID
	ExpiresAt   time.Time
}

func (r *IdempotencyRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// OutboxMessage is an event written in the same transaction as the change it
// describes and delivered to the broker afterwards.
type OutboxMessage struct {
	ID         uuid.UUID
	RoutingKey string
	Payload    []byte
	CreatedAt  time.Time
	Attempts   int
}
