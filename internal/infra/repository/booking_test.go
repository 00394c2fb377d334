//go:build unit

package repository

import (
	"context"
	"testing"
	"time"

	"parkpass/internal/domain/booking"
	"parkpass/internal/infra"
	"parkpass/internal/infra/pgstore"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v4"
)

type MockBookingWriteQueries struct {
	mock.Mock
}

func (m *MockBookingWriteQueries) CreateBooking(ctx context.Context, db pgstore.DBTX, arg pgstore.CreateBookingParams) error {
	args := m.Called(ctx, db, arg)
	return args.Error(0)
}

func (m *MockBookingWriteQueries) GetBookingByID(ctx context.Context, db pgstore.DBTX, id uuid.UUID) (pgstore.Booking, error) {
	args := m.Called(ctx, db, id)
	return args.Get(0).(pgstore.Booking), args.Error(1)
}

func (m *MockBookingWriteQueries) SetBookingPaymentRef(ctx context.Context, db pgstore.DBTX, id uuid.UUID, ref string) (int64, error) {
	args := m.Called(ctx, db, id, ref)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingWriteQueries) NotifyChange(ctx context.Context, db pgstore.DBTX, payload pgstore.ChangePayload) error {
	args := m.Called(ctx, db, payload)
	return args.Error(0)
}

func pendingBooking(t *testing.T) *booking.Booking {
	t.Helper()
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	window, err := booking.NewTimeWindow(start, start.Add(90*time.Minute))
	require.NoError(t, err)
	amount, err := booking.NewMoney(20)
	require.NoError(t, err)
	b, err := booking.NewPendingBooking("uid-1", nil, uuid.New(), "A-01", window, amount, start)
	require.NoError(t, err)
	return b
}

func TestBookingRepository_Create(t *testing.T) {
	t.Run("inserts and notifies owner feed", func(t *testing.T) {
		b := pendingBooking(t)

		mockQueries := new(MockBookingWriteQueries)
		mockQueries.On("CreateBooking", mock.Anything, mock.Anything, mock.MatchedBy(func(p pgstore.CreateBookingParams) bool {
			return p.ID == b.ID() &&
				p.UserID == "uid-1" &&
				!p.UserEmail.Valid &&
				p.Amount == 20 &&
				p.PaymentStatus == "pending" &&
				p.ReservedUntil.Equal(b.EndTime())
		})).Return(nil)
		mockQueries.On("NotifyChange", mock.Anything, mock.Anything, pgstore.ChangePayload{
			Collection: pgstore.CollectionBookings,
			ID:         b.ID().String(),
			UserID:     "uid-1",
		}).Return(nil)

		require.NoError(t, NewBookingRepository(mockQueries, nil).Create(context.Background(), b))
		mockQueries.AssertExpectations(t)
	})

	t.Run("database error", func(t *testing.T) {
		mockQueries := new(MockBookingWriteQueries)
		mockQueries.On("CreateBooking", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

		err := NewBookingRepository(mockQueries, nil).Create(context.Background(), pendingBooking(t))
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}

func TestBookingRepository_FindByID(t *testing.T) {
	id := uuid.New()
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	row := pgstore.Booking{
		ID:            id,
		UserID:        "uid-1",
		UserEmail:     null.StringFrom("driver@example.com"),
		SlotID:        uuid.New(),
		SlotName:      "A-01",
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		Amount:        10,
		PaymentStatus: "confirmed",
		PaymentRef:    null.StringFrom("chrg_test_1"),
		ReservedUntil: start.Add(time.Hour),
		CreatedAt:     start,
	}

	t.Run("maps nullable columns", func(t *testing.T) {
		mockQueries := new(MockBookingWriteQueries)
		mockQueries.On("GetBookingByID", mock.Anything, mock.Anything, id).Return(row, nil)

		b, err := NewBookingRepository(mockQueries, nil).FindByID(context.Background(), id)
		require.NoError(t, err)
		require.NotNil(t, b.UserEmail())
		assert.Equal(t, "driver@example.com", *b.UserEmail())
		require.NotNil(t, b.PaymentRef())
		assert.Equal(t, "chrg_test_1", *b.PaymentRef())
		assert.Equal(t, booking.PaymentConfirmed, b.PaymentStatus())
	})

	t.Run("not found", func(t *testing.T) {
		mockQueries := new(MockBookingWriteQueries)
		mockQueries.On("GetBookingByID", mock.Anything, mock.Anything, id).Return(pgstore.Booking{}, pgx.ErrNoRows)

		_, err := NewBookingRepository(mockQueries, nil).FindByID(context.Background(), id)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

func TestBookingRepository_SetPaymentRef(t *testing.T) {
	id := uuid.New()

	t.Run("records reference and notifies", func(t *testing.T) {
		mockQueries := new(MockBookingWriteQueries)
		mockQueries.On("GetBookingByID", mock.Anything, mock.Anything, id).Return(pgstore.Booking{ID: id, UserID: "uid-9", PaymentStatus: "pending"}, nil)
		mockQueries.On("SetBookingPaymentRef", mock.Anything, mock.Anything, id, "chrg_1").Return(int64(1), nil)
		mockQueries.On("NotifyChange", mock.Anything, mock.Anything, pgstore.ChangePayload{
			Collection: pgstore.CollectionBookings,
			ID:         id.String(),
			UserID:     "uid-9",
		}).Return(nil)

		require.NoError(t, NewBookingRepository(mockQueries, nil).SetPaymentRef(context.Background(), id, "chrg_1"))
		mockQueries.AssertExpectations(t)
	})

	t.Run("missing booking", func(t *testing.T) {
		mockQueries := new(MockBookingWriteQueries)
		mockQueries.On("GetBookingByID", mock.Anything, mock.Anything, id).Return(pgstore.Booking{}, pgx.ErrNoRows)

		err := NewBookingRepository(mockQueries, nil).SetPaymentRef(context.Background(), id, "chrg_1")
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
		mockQueries.AssertNotCalled(t, "SetBookingPaymentRef", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("settled booking is left alone", func(t *testing.T) {
		mockQueries := new(MockBookingWriteQueries)
		mockQueries.On("GetBookingByID", mock.Anything, mock.Anything, id).
			Return(pgstore.Booking{ID: id, UserID: "uid-9", PaymentStatus: "confirmed", PaymentRef: null.StringFrom("chrg_already_paid")}, nil)

		err := NewBookingRepository(mockQueries, nil).SetPaymentRef(context.Background(), id, "chrg_2")
		require.ErrorIs(t, err, booking.ErrPaymentSettled)
		mockQueries.AssertNotCalled(t, "SetBookingPaymentRef", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockQueries.AssertNotCalled(t, "NotifyChange", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("settled concurrently", func(t *testing.T) {
		mockQueries := new(MockBookingWriteQueries)
		mockQueries.On("GetBookingByID", mock.Anything, mock.Anything, id).Return(pgstore.Booking{ID: id, UserID: "uid-9", PaymentStatus: "pending"}, nil)
		mockQueries.On("SetBookingPaymentRef", mock.Anything, mock.Anything, id, "chrg_2").Return(int64(0), nil)

		err := NewBookingRepository(mockQueries, nil).SetPaymentRef(context.Background(), id, "chrg_2")
		assert.True(t, infra.IsKind(err, infra.KindConflict))
	})
}
