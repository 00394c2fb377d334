package converter

import (
	"parkpass/internal/domain/booking"
	"parkpass/internal/infra/pgstore"

	"gopkg.in/guregu/null.v4"
)

func BookingToInfra(b *booking.Booking) pgstore.CreateBookingParams {
	return pgstore.CreateBookingParams{
		ID:            b.ID(),
		UserID:        b.UserID(),
		UserEmail:     null.StringFromPtr(b.UserEmail()),
		SlotID:        b.SlotID(),
		SlotName:      b.SlotName(),
		StartTime:     b.StartTime(),
		EndTime:       b.EndTime(),
		Amount:        b.Amount().Minor(),
		PaymentStatus: b.PaymentStatus().String(),
		ReservedUntil: b.ReservedUntil(),
		CreatedAt:     b.CreatedAt(),
	}
}

func BookingToDomain(row pgstore.Booking) (*booking.Booking, error) {
	window, err := booking.NewTimeWindow(row.StartTime, row.EndTime)
	if err != nil {
		return nil, err
	}
	amount, err := booking.NewMoney(row.Amount)
	if err != nil {
		return nil, err
	}
	status, err := booking.NewPaymentStatus(row.PaymentStatus)
	if err != nil {
		return nil, err
	}
	return booking.ReconstructBooking(
		row.ID,
		row.UserID,
		row.UserEmail.Ptr(),
		row.SlotID,
		row.SlotName,
		window,
		amount,
		status,
		row.PaymentRef.Ptr(),
		row.ReservedUntil,
		row.CreatedAt,
	)
}
