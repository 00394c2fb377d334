//go:build unit || e2e

package builder

import (
	"time"

	"parkpass/internal/domain/booking"
	reqdto "parkpass/internal/handler/dto/request"
	"parkpass/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID            uuid.UUID
	UserID        string
	UserEmail     *string
	SlotID        uuid.UUID
	SlotName      string
	StartTime     time.Time
	EndTime       time.Time
	Amount        int64
	PaymentStatus string
	PaymentRef    *string
	CreatedAt     time.Time
}

func NewBookingBuilder() *BookingBuilder {
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	email := "driver@example.com"
	return &BookingBuilder{
		ID:            uuid.New(),
		UserID:        "uid-driver",
		UserEmail:     &email,
		SlotID:        uuid.New(),
		SlotName:      "A-01",
		StartTime:     start,
		EndTime:       start.Add(90 * time.Minute),
		Amount:        20,
		PaymentStatus: "pending",
		CreatedAt:     start.Add(-time.Hour),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) ForUser(userID string) *BookingBuilder {
	b.UserID = userID
	return b
}

func (b *BookingBuilder) WithPayment(status string, ref *string) *BookingBuilder {
	b.PaymentStatus = status
	b.PaymentRef = ref
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	window, err := booking.NewTimeWindow(b.StartTime, b.EndTime)
	if err != nil {
		return nil, err
	}
	amount, err := booking.NewMoney(b.Amount)
	if err != nil {
		return nil, err
	}
	return booking.ReconstructBooking(
		b.ID, b.UserID, b.UserEmail, b.SlotID, b.SlotName,
		window, amount,
		booking.PaymentStatus(b.PaymentStatus), b.PaymentRef,
		b.EndTime, b.CreatedAt,
	)
}

func (b *BookingBuilder) MustBuildDomain() *booking.Booking {
	bk, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return bk
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	return &queries.BookingView{
		ID:            b.ID,
		UserID:        b.UserID,
		UserEmail:     b.UserEmail,
		SlotID:        b.SlotID,
		SlotName:      b.SlotName,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Amount:        b.Amount,
		PaymentStatus: b.PaymentStatus,
		PaymentRef:    b.PaymentRef,
		ReservedUntil: b.EndTime,
		CreatedAt:     b.CreatedAt,
	}
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	amount := b.Amount
	return reqdto.CreateBookingRequest{
		SlotID:    b.SlotID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Amount:    &amount,
	}
}
