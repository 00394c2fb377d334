//go:build unit

package booking_test

import (
	"testing"
	"time"

	"parkpass/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nine = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

func window(t *testing.T, d time.Duration) booking.TimeWindow {
	t.Helper()
	w, err := booking.NewTimeWindow(nine, nine.Add(d))
	require.NoError(t, err)
	return w
}

func TestTimeWindow(t *testing.T) {
	t.Run("end must follow start", func(t *testing.T) {
		_, err := booking.NewTimeWindow(nine, nine)
		assert.ErrorIs(t, err, booking.ErrInvalidTimeWindow)

		_, err = booking.NewTimeWindow(nine, nine.Add(-time.Minute))
		assert.ErrorIs(t, err, booking.ErrInvalidTimeWindow)
	})

	t.Run("length is capped", func(t *testing.T) {
		w, err := booking.NewTimeWindow(nine, nine.Add(booking.MaxWindowLength))
		require.NoError(t, err)
		assert.Equal(t, int64(366*24), w.BillableHours())

		_, err = booking.NewTimeWindow(nine, nine.Add(booking.MaxWindowLength+time.Nanosecond))
		assert.ErrorIs(t, err, booking.ErrWindowTooLong)

		// Far enough apart that Sub saturates.
		_, err = booking.NewTimeWindow(nine, nine.AddDate(300, 0, 0))
		assert.ErrorIs(t, err, booking.ErrWindowTooLong)
		_, err = booking.NewTimeWindow(time.Time{}, nine)
		assert.ErrorIs(t, err, booking.ErrWindowTooLong)
	})

	t.Run("billable hours round up", func(t *testing.T) {
		tests := []struct {
			d    time.Duration
			want int64
		}{
			{time.Nanosecond, 1},
			{time.Minute, 1},
			{time.Hour, 1},
			{time.Hour + time.Second, 2},
			{90 * time.Minute, 2},
			{3 * time.Hour, 3},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.want, window(t, tt.d).BillableHours(), tt.d.String())
		}
	})
}

func TestHourlyPriceCalculator(t *testing.T) {
	calc := booking.NewHourlyPriceCalculator()

	amount, err := calc.Calculate(10, window(t, 90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(20), amount.Minor())

	free, err := calc.Calculate(0, window(t, 5*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), free.Minor())

	_, err = calc.Calculate(-5, window(t, time.Hour))
	assert.ErrorIs(t, err, booking.ErrNegativeAmount)
}

func TestMoney(t *testing.T) {
	a, err := booking.NewMoney(150)
	require.NoError(t, err)
	b, _ := booking.NewMoney(150)
	c, _ := booking.NewMoney(151)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))

	_, err = booking.NewMoney(-1)
	assert.ErrorIs(t, err, booking.ErrNegativeAmount)
}

func TestNewPendingBooking(t *testing.T) {
	email := "driver@example.com"
	slotID := uuid.New()
	w := window(t, 2*time.Hour)
	amount, _ := booking.NewMoney(20)
	createdAt := nine.Add(-time.Hour)

	b, err := booking.NewPendingBooking("uid-1", &email, slotID, "A-01", w, amount, createdAt)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, b.ID())
	assert.Equal(t, booking.PaymentPending, b.PaymentStatus())
	assert.Nil(t, b.PaymentRef())
	assert.Equal(t, "A-01", b.SlotName())
	assert.True(t, b.ReservedUntil().Equal(w.End()))
	assert.True(t, b.IsOwnedBy("uid-1"))
	assert.False(t, b.IsOwnedBy("uid-2"))

	_, err = booking.NewPendingBooking("  ", nil, slotID, "A-01", w, amount, createdAt)
	assert.ErrorIs(t, err, booking.ErrEmptyUserID)
}

func TestBooking_AttachPaymentRef(t *testing.T) {
	amount, _ := booking.NewMoney(10)
	b, err := booking.NewPendingBooking("uid-1", nil, uuid.New(), "A-01", window(t, time.Hour), amount, nine)
	require.NoError(t, err)

	assert.ErrorIs(t, b.AttachPaymentRef(""), booking.ErrEmptyPaymentRef)
	assert.Nil(t, b.PaymentRef())

	require.NoError(t, b.AttachPaymentRef("chrg_test_1"))
	require.NotNil(t, b.PaymentRef())
	assert.Equal(t, "chrg_test_1", *b.PaymentRef())
	assert.Equal(t, booking.PaymentPending, b.PaymentStatus())
}

func TestBooking_SettledPaymentIsFinal(t *testing.T) {
	amount, _ := booking.NewMoney(10)
	w := window(t, time.Hour)
	ref := "chrg_already_paid"

	for _, status := range []booking.PaymentStatus{booking.PaymentConfirmed, booking.PaymentFailed} {
		t.Run(status.String(), func(t *testing.T) {
			b, err := booking.ReconstructBooking(uuid.New(), "uid-1", nil, uuid.New(), "A-01", w, amount,
				status, &ref, w.End(), nine)
			require.NoError(t, err)

			assert.ErrorIs(t, b.CanInitiatePayment(), booking.ErrPaymentSettled)
			assert.ErrorIs(t, b.AttachPaymentRef("chrg_second"), booking.ErrPaymentSettled)
			assert.Equal(t, ref, *b.PaymentRef())
		})
	}
}

func TestNewPendingBooking_TruncatesCreatedAt(t *testing.T) {
	amount, _ := booking.NewMoney(10)
	createdAt := nine.Add(1500 * time.Nanosecond)
	b, err := booking.NewPendingBooking("uid-1", nil, uuid.New(), "A-01", window(t, time.Hour), amount, createdAt)
	require.NoError(t, err)
	assert.True(t, b.CreatedAt().Equal(nine.Add(time.Microsecond)))
}

func TestReconstructBooking_RejectsUnknownStatus(t *testing.T) {
	amount, _ := booking.NewMoney(10)
	w := window(t, time.Hour)
	_, err := booking.ReconstructBooking(uuid.New(), "uid-1", nil, uuid.New(), "A-01", w, amount,
		booking.PaymentStatus("refunded"), nil, w.End(), nine)
	assert.ErrorIs(t, err, booking.ErrInvalidPaymentStatus)
}
