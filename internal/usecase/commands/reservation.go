package commands

//go:generate mockgen -source=$GOFILE -destination=../../../tests/mock/commands/reservation.go -package=commandsmock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"parkpass/internal/domain/booking"
	"parkpass/internal/domain/slot"
	"parkpass/internal/domain/user"
	"parkpass/internal/infra"
	"parkpass/internal/pkg/clock"
	"parkpass/internal/pkg/errs"
	"parkpass/internal/pkg/patch"
	"parkpass/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReserveRequest struct {
	SlotID    uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	// Amount is the price the client displayed; nil skips the check.
	Amount *int64
	// IdempotencyKey makes a retried request return the first booking.
	// uuid.Nil disables replay.
	IdempotencyKey uuid.UUID
}

// IdempotencyTTL is how long a key replays its booking.
const IdempotencyTTL = 24 * time.Hour

type ReservationCommands interface {
	Reserve(ctx context.Context, identity *user.Identity, req ReserveRequest) (uuid.UUID, error)
	Release(ctx context.Context, slotID uuid.UUID) error
	InitiatePayment(ctx context.Context, identity *user.Identity, bookingID uuid.UUID) (*PaymentHandle, error)
}

type PaymentSettings struct {
	FallbackEmail string
}

type reservationCommandsImpl struct {
	uow        shared.UnitOfWork
	calculator booking.PriceCalculator
	gateway    PaymentGateway
	clock      clock.Clock
	payment    PaymentSettings
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	calculator booking.PriceCalculator,
	gateway PaymentGateway,
	clock clock.Clock,
	payment PaymentSettings,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:        uow,
		calculator: calculator,
		gateway:    gateway,
		clock:      clock,
		payment:    payment,
	}
}

// Reserve runs to completion once called: request cancellation is ignored
// so a disconnecting client cannot leave the outcome undecided.
func (r *reservationCommandsImpl) Reserve(ctx context.Context, identity *user.Identity, req ReserveRequest) (uuid.UUID, error) {
	if identity == nil {
		return uuid.Nil, errs.ErrUnauthenticated
	}

	window, err := booking.NewTimeWindow(req.StartTime, req.EndTime)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrInvalidTimeWindow)
	}

	ctx = context.WithoutCancel(ctx)
	requestHash := reserveRequestHash(req)

	var (
		reserved *booking.Booking
		replayed uuid.UUID
	)
	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		reserved, replayed = nil, uuid.Nil
		now := r.clock.Now()

		if req.IdempotencyKey != uuid.Nil {
			prior, err := r.findLiveKey(ctx, tx, identity.Subject(), req.IdempotencyKey, now)
			if err != nil {
				return err
			}
			if prior != nil {
				if prior.RequestHash != requestHash {
					return errs.ErrIdempotencyKeyReused
				}
				replayed = prior.BookingID
				return nil
			}
		}

		s, err := tx.Slots().FindByID(ctx, req.SlotID)
		if err != nil {
			return mapRepoErr(err, errs.ErrSlotNotFound)
		}
		if !s.IsAvailable() {
			return errs.ErrSlotUnavailable
		}

		amount, err := r.calculator.Calculate(s.HourlyPrice(), window)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		if req.Amount != nil && *req.Amount != amount.Minor() {
			return errs.ErrPriceChanged
		}

		b, err := booking.NewPendingBooking(
			identity.Subject(),
			identity.Email(),
			s.ID(),
			s.Name(),
			window,
			amount,
			now,
		)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		if err := tx.Bookings().Create(ctx, b); err != nil {
			return err
		}

		if err := s.Hold(b.ID(), b.ReservedUntil()); err != nil {
			return errs.Mark(err, errs.ErrSlotUnavailable)
		}
		if err := tx.Slots().Update(ctx, s); err != nil {
			return err
		}

		if req.IdempotencyKey != uuid.Nil {
			if err := tx.Idempotency().Save(ctx, shared.IdempotencyRecord{
				Key:         req.IdempotencyKey,
				UserID:      identity.Subject(),
				RequestHash: requestHash,
				BookingID:   b.ID(),
				ExpiresAt:   now.Add(IdempotencyTTL),
			}); err != nil {
				return err
			}
		}

		if err := enqueue(ctx, tx, now, EventBookingReserved, BookingReservedEvent{
			BookingID: b.ID(),
			SlotID:    b.SlotID(),
			UserID:    b.UserID(),
			StartTime: b.StartTime(),
			EndTime:   b.EndTime(),
			Amount:    b.Amount().Minor(),
			CreatedAt: b.CreatedAt(),
		}); err != nil {
			return err
		}

		reserved = b
		return nil
	})
	if err != nil {
		return uuid.Nil, finalizeTxErr(err)
	}

	if replayed != uuid.Nil {
		slog.Info("reservation replayed",
			"booking_id", replayed.String(),
			"idempotency_key", req.IdempotencyKey.String(),
			"user_id", identity.Subject())
		return replayed, nil
	}

	slog.Info("slot reserved",
		"booking_id", reserved.ID().String(),
		"slot_id", reserved.SlotID().String(),
		"user_id", reserved.UserID(),
		"amount", reserved.Amount().Minor())

	return reserved.ID(), nil
}

// findLiveKey returns nil when the key is unknown or has expired.
func (r *reservationCommandsImpl) findLiveKey(
	ctx context.Context,
	tx shared.Tx,
	userID string,
	key uuid.UUID,
	now time.Time,
) (*shared.IdempotencyRecord, error) {
	rec, err := tx.Idempotency().Find(ctx, userID, key)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if rec.Expired(now) {
		return nil, nil
	}
	return rec, nil
}

// Release makes the slot available whatever its state. Releasing an
// available slot is a no-op.
func (r *reservationCommandsImpl) Release(ctx context.Context, slotID uuid.UUID) error {
	var changed bool
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		changed = false

		s, err := tx.Slots().FindByID(ctx, slotID)
		if err != nil {
			return mapRepoErr(err, errs.ErrSlotNotFound)
		}
		if s.Status() == slot.StatusAvailable {
			return nil
		}

		bookingID := s.CurrentBookingID()
		s.Release()
		if err := tx.Slots().Update(ctx, s); err != nil {
			return err
		}

		now := r.clock.Now()
		if err := enqueue(ctx, tx, now, EventSlotReleased, SlotReleasedEvent{
			SlotID:     slotID,
			BookingID:  bookingID,
			ReleasedAt: now,
		}); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return finalizeTxErr(err)
	}

	if changed {
		slog.Info("slot released", "slot_id", slotID.String())
	}
	return nil
}

// InitiatePayment asks the gateway for a payment handle for the caller's
// own pending booking. The gateway is called outside any transaction and
// never retried; the reference is recorded only if the booking is still
// pending afterwards.
func (r *reservationCommandsImpl) InitiatePayment(ctx context.Context, identity *user.Identity, bookingID uuid.UUID) (*PaymentHandle, error) {
	if identity == nil {
		return nil, errs.ErrUnauthenticated
	}

	var b *booking.Booking
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		found, err := tx.Bookings().FindByID(ctx, bookingID)
		if err != nil {
			return mapRepoErr(err, errs.ErrBookingNotFound)
		}
		b = found
		return nil
	})
	if err != nil {
		return nil, finalizeTxErr(err)
	}
	if !b.IsOwnedBy(identity.Subject()) {
		return nil, errs.ErrBookingAccess
	}
	if err := b.CanInitiatePayment(); err != nil {
		return nil, errs.Mark(err, errs.ErrPaymentNotPending)
	}

	handle, err := r.gateway.CreateCharge(ctx, b.ID(), b.Amount().Minor(), r.payerEmail(identity, b))
	if err != nil {
		slog.Warn("payment initiation failed", "booking_id", b.ID().String(), "error", err.Error())
		return nil, errs.Mark(err, errs.ErrPaymentInitiationFailed)
	}

	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Bookings().FindByID(ctx, b.ID())
		if err != nil {
			return mapRepoErr(err, errs.ErrBookingNotFound)
		}
		if err := current.AttachPaymentRef(handle.Reference); err != nil {
			return markPaymentRefErr(err)
		}
		if err := tx.Bookings().SetPaymentRef(ctx, current.ID(), *current.PaymentRef()); err != nil {
			return markPaymentRefErr(mapRepoErr(err, errs.ErrBookingNotFound))
		}
		return enqueue(ctx, tx, r.clock.Now(), EventPaymentInitiated, PaymentInitiatedEvent{
			BookingID: current.ID(),
			Reference: handle.Reference,
			Amount:    current.Amount().Minor(),
		})
	})
	if err != nil {
		slog.Error("payment reference not recorded",
			"booking_id", b.ID().String(),
			"reference", handle.Reference,
			"error", err.Error())
		return nil, finalizeTxErr(err)
	}

	return &handle, nil
}

func markPaymentRefErr(err error) error {
	switch {
	case errs.Is(err, booking.ErrPaymentSettled):
		return errs.Mark(err, errs.ErrPaymentNotPending)
	case errs.Is(err, booking.ErrEmptyPaymentRef):
		return errs.Mark(err, errs.ErrPaymentInitiationFailed)
	default:
		return err
	}
}

func (r *reservationCommandsImpl) payerEmail(identity *user.Identity, b *booking.Booking) string {
	return patch.Coalesce(identity.Email(), patch.Coalesce(b.UserEmail(), r.payment.FallbackEmail))
}

// enqueue writes the event to the outbox inside tx; the relay publishes it
// after commit.
func enqueue(ctx context.Context, tx shared.Tx, now time.Time, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errs.Wrapf(err, "failed to encode %s event", key)
	}
	return tx.Outbox().Enqueue(ctx, shared.OutboxMessage{
		ID:         uuid.New(),
		RoutingKey: key,
		Payload:    data,
		CreatedAt:  now,
	})
}

func reserveRequestHash(req ReserveRequest) string {
	data, _ := json.Marshal(struct {
		SlotID    uuid.UUID `json:"slot_id"`
		StartTime time.Time `json:"start_time"`
		EndTime   time.Time `json:"end_time"`
		Amount    *int64    `json:"amount,omitempty"`
	}{req.SlotID, req.StartTime.UTC(), req.EndTime.UTC(), req.Amount})
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// mapRepoErr turns not-found into the given sentinel and leaves other
// errors intact so the unit of work can classify them.
func mapRepoErr(err error, notFound error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, notFound)
	}
	return err
}

var domainErrors = []error{
	errs.ErrUnauthenticated,
	errs.ErrSlotNotFound,
	errs.ErrSlotUnavailable,
	errs.ErrBookingNotFound,
	errs.ErrBookingAccess,
	errs.ErrInvalidTimeWindow,
	errs.ErrPriceChanged,
	errs.ErrPaymentNotPending,
	errs.ErrPaymentInitiationFailed,
	errs.ErrIdempotencyKeyReused,
	errs.ErrDomainValidation,
	errs.ErrStoreUnavailable,
}

// finalizeTxErr marks anything that is not a domain outcome as a store failure.
func finalizeTxErr(err error) error {
	for _, known := range domainErrors {
		if errs.Is(err, known) {
			return err
		}
	}
	return errs.Mark(err, errs.ErrStoreUnavailable)
}
