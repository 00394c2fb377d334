package readstore

import (
	"context"

	"parkpass/internal/infra"
	"parkpass/internal/infra/pgstore"
	"parkpass/internal/pkg/pgconv"
	"parkpass/internal/usecase/queries"

	"github.com/google/uuid"
	"gopkg.in/guregu/null.v4"
)

type BookingReadQueries interface {
	GetBookingByID(ctx context.Context, db pgstore.DBTX, id uuid.UUID) (pgstore.Booking, error)
	ListBookingsByUser(ctx context.Context, db pgstore.DBTX, userID string) ([]pgstore.Booking, error)
	ListBookings(ctx context.Context, db pgstore.DBTX) ([]pgstore.Booking, error)
	ListBookingsByUserPage(ctx context.Context, db pgstore.DBTX, userID string, after pgstore.BookingKeyset, limit int32) ([]pgstore.Booking, error)
	ListBookingsPage(ctx context.Context, db pgstore.DBTX, after pgstore.BookingKeyset, limit int32) ([]pgstore.Booking, error)
}

type BookingReadStore struct {
	queries BookingReadQueries
	db      pgstore.DBTX
}

func NewBookingReadStore(queries BookingReadQueries, db pgstore.DBTX) *BookingReadStore {
	return &BookingReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row, err := r.queries.GetBookingByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return ToBookingView(row), nil
}

func (r *BookingReadStore) ListByUser(ctx context.Context, userID string) ([]*queries.BookingView, error) {
	rows, err := r.queries.ListBookingsByUser(ctx, r.db, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by user", err)
	}
	return toBookingViews(rows), nil
}

func (r *BookingReadStore) ListAll(ctx context.Context) ([]*queries.BookingView, error) {
	rows, err := r.queries.ListBookings(ctx, r.db)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	return toBookingViews(rows), nil
}

func (r *BookingReadStore) ListByUserPage(ctx context.Context, userID string, after *queries.Keyset, limit int) ([]*queries.BookingView, error) {
	rows, err := r.queries.ListBookingsByUserPage(ctx, r.db, userID, toKeyset(after), int32(limit))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to page bookings by user", err)
	}
	return toBookingViews(rows), nil
}

func (r *BookingReadStore) ListAllPage(ctx context.Context, after *queries.Keyset, limit int) ([]*queries.BookingView, error) {
	rows, err := r.queries.ListBookingsPage(ctx, r.db, toKeyset(after), int32(limit))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to page bookings", err)
	}
	return toBookingViews(rows), nil
}

func toKeyset(after *queries.Keyset) pgstore.BookingKeyset {
	if after == nil {
		return pgstore.BookingKeyset{}
	}
	return pgstore.BookingKeyset{
		CreatedAt: null.TimeFrom(after.CreatedAt),
		ID:        after.ID,
	}
}

func toBookingViews(rows []pgstore.Booking) []*queries.BookingView {
	result := make([]*queries.BookingView, len(rows))
	for i, row := range rows {
		result[i] = ToBookingView(row)
	}
	return result
}
