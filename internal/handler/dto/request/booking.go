package request

import (
	"time"

	"parkpass/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	SlotID    uuid.UUID `json:"slot_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	// Amount is the total shown to the user; the server rejects it if stale.
	Amount *int64 `json:"amount,omitempty" binding:"omitempty,min=0"`
}

func (r CreateBookingRequest) ToCommand() commands.ReserveRequest {
	return commands.ReserveRequest{
		SlotID:    r.SlotID,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Amount:    r.Amount,
	}
}
