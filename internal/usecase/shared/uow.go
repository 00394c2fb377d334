package shared

import (
	"context"

	"parkpass/internal/domain/booking"
	"parkpass/internal/domain/slot"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within runs fn in one serializable read-modify-write transaction.
	// Conflicts re-run fn from the start; fn must therefore be free of
	// side effects outside tx.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Slots() SlotRepository
	Bookings() BookingRepository
	Idempotency() IdempotencyRepository
	Outbox() OutboxRepository
}

type SlotRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*slot.Slot, error)
	// Update persists hold state if the stored version still equals s.Version().
	// A lost race returns an infra.KindConflict error.
	Update(ctx context.Context, s *slot.Slot) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// SetPaymentRef records ref only while the stored booking is still pending.
	SetPaymentRef(ctx context.Context, id uuid.UUID, ref string) error
}

type IdempotencyRepository interface {
	// Find returns an infra.KindNotFound error when no record exists.
	Find(ctx context.Context, userID string, key uuid.UUID) (*IdempotencyRecord, error)
	// Save inserts rec or replaces an existing record for the same key.
	Save(ctx context.Context, rec IdempotencyRecord) error
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, msg OutboxMessage) error
}
