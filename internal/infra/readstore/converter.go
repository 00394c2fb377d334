package readstore

import (
	"parkpass/internal/domain/slot"
	"parkpass/internal/infra/pgstore"
	"parkpass/internal/pkg/pgconv"
	"parkpass/internal/usecase/queries"
)

func ToSlotView(row pgstore.ParkingSlot) *queries.SlotView {
	return &queries.SlotView{
		ID:               row.ID,
		Name:             row.Name,
		Location:         row.Location,
		HourlyPrice:      row.HourlyPrice,
		TotalSpaces:      int(row.TotalSpaces),
		AvailableSpaces:  int(row.AvailableSpaces),
		Features:         slot.NormalizeFeatures(row.Features),
		Status:           row.Status,
		CurrentBookingID: pgconv.UUIDPtrFromPgtype(row.CurrentBookingID),
		ReservedUntil:    row.ReservedUntil.Ptr(),
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

func ToBookingView(row pgstore.Booking) *queries.BookingView {
	return &queries.BookingView{
		ID:            row.ID,
		UserID:        row.UserID,
		UserEmail:     row.UserEmail.Ptr(),
		SlotID:        row.SlotID,
		SlotName:      row.SlotName,
		StartTime:     row.StartTime,
		EndTime:       row.EndTime,
		Amount:        row.Amount,
		PaymentStatus: row.PaymentStatus,
		PaymentRef:    row.PaymentRef.Ptr(),
		ReservedUntil: row.ReservedUntil,
		CreatedAt:     row.CreatedAt,
	}
}
