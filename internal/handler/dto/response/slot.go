package response

import (
	"time"

	"parkpass/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotResponse struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Location         string     `json:"location"`
	HourlyPrice      int64      `json:"hourly_price"`
	TotalSpaces      int        `json:"total_spaces"`
	AvailableSpaces  int        `json:"available_spaces"`
	Features         []string   `json:"features"`
	Status           string     `json:"status"`
	CurrentBookingID *uuid.UUID `json:"current_booking_id,omitempty"`
	ReservedUntil    *time.Time `json:"reserved_until,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func FromSlotView(v *queries.SlotView) *SlotResponse {
	return mapInto[SlotResponse](v)
}

func FromSlotViews(vs []*queries.SlotView) []*SlotResponse {
	return mapAll[SlotResponse](vs)
}

type SlotStatsResponse struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Reserved  int `json:"reserved"`
	Booked    int `json:"booked"`
}

func FromSlotStats(s *queries.SlotStats) *SlotStatsResponse {
	return mapInto[SlotStatsResponse](s)
}

type QuoteResponse struct {
	SlotID        uuid.UUID `json:"slot_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	BillableHours int64     `json:"billable_hours"`
	HourlyPrice   int64     `json:"hourly_price"`
	Amount        int64     `json:"amount"`
}

func FromQuote(q *queries.Quote) *QuoteResponse {
	return mapInto[QuoteResponse](q)
}
