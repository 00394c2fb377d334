package converter

import (
	"parkpass/internal/domain/slot"
	"parkpass/internal/infra/pgstore"
	"parkpass/internal/pkg/pgconv"

	"gopkg.in/guregu/null.v4"
)

func SlotToDomain(row pgstore.ParkingSlot) (*slot.Slot, error) {
	status, err := slot.NewStatus(row.Status)
	if err != nil {
		return nil, err
	}
	return slot.ReconstructSlot(
		row.ID,
		row.Name,
		row.Location,
		row.HourlyPrice,
		int(row.TotalSpaces),
		int(row.AvailableSpaces),
		row.Features,
		status,
		pgconv.UUIDPtrFromPgtype(row.CurrentBookingID),
		row.ReservedUntil.Ptr(),
		row.Version,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func SlotToHoldParams(s *slot.Slot) pgstore.UpdateSlotHoldParams {
	return pgstore.UpdateSlotHoldParams{
		ID:               s.ID(),
		Status:           s.Status().String(),
		CurrentBookingID: pgconv.UUIDPtrToPgtype(s.CurrentBookingID()),
		ReservedUntil:    null.TimeFromPtr(s.ReservedUntil()),
		Version:          s.Version(),
	}
}
