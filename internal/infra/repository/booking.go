package repository

import (
	"context"

	"parkpass/internal/domain/booking"
	"parkpass/internal/infra"
	"parkpass/internal/infra/pgstore"
	"parkpass/internal/infra/repository/converter"
	"parkpass/internal/pkg/errs"
	"parkpass/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type BookingWriteQueries interface {
	CreateBooking(ctx context.Context, db pgstore.DBTX, arg pgstore.CreateBookingParams) error
	GetBookingByID(ctx context.Context, db pgstore.DBTX, id uuid.UUID) (pgstore.Booking, error)
	SetBookingPaymentRef(ctx context.Context, db pgstore.DBTX, id uuid.UUID, ref string) (int64, error)
	NotifyChange(ctx context.Context, db pgstore.DBTX, payload pgstore.ChangePayload) error
}

type BookingRepository struct {
	queries BookingWriteQueries
	db      pgstore.DBTX
}

func NewBookingRepository(queries BookingWriteQueries, db pgstore.DBTX) *BookingRepository {
	return &BookingRepository{
		queries: queries,
		db:      db,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	if err := r.queries.CreateBooking(ctx, r.db, converter.BookingToInfra(b)); err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return r.notify(ctx, b.ID(), b.UserID())
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row, err := r.queries.GetBookingByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	b, err := converter.BookingToDomain(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert booking row", err)
	}
	return b, nil
}

func (r *BookingRepository) SetPaymentRef(ctx context.Context, id uuid.UUID, ref string) error {
	row, err := r.queries.GetBookingByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return infra.WrapRepoErr("failed to find booking by ID", err)
	}

	if row.PaymentStatus != booking.PaymentPending.String() {
		return errs.Wrapf(booking.ErrPaymentSettled, "booking %s is %s", id, row.PaymentStatus)
	}

	affected, err := r.queries.SetBookingPaymentRef(ctx, r.db, id, ref)
	if err != nil {
		return infra.WrapRepoErr("failed to set booking payment reference", err)
	}
	if affected == 0 {
		// Settled between the read and the guarded update.
		return infra.WrapRepoErr("booking payment status changed concurrently", nil, infra.KindConflict)
	}
	return r.notify(ctx, id, row.UserID)
}

func (r *BookingRepository) notify(ctx context.Context, id uuid.UUID, userID string) error {
	payload := pgstore.ChangePayload{
		Collection: pgstore.CollectionBookings,
		ID:         id.String(),
		UserID:     userID,
	}
	if err := r.queries.NotifyChange(ctx, r.db, payload); err != nil {
		return infra.WrapRepoErr("failed to queue booking change notification", err)
	}
	return nil
}
