package queries

import (
	"time"

	"github.com/google/uuid"
)

// SlotView represents read-optimized slot data
type SlotView struct {
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
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// BookingView represents read-optimized booking data
type BookingView struct {
	ID            uuid.UUID `json:"id"`
	UserID        string    `json:"user_id"`
	UserEmail     *string   `json:"user_email,omitempty"`
	SlotID        uuid.UUID `json:"slot_id"`
	SlotName      string    `json:"slot_name"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Amount        int64     `json:"amount"`
	PaymentStatus string    `json:"payment_status"`
	PaymentRef    *string   `json:"payment_ref,omitempty"`
	ReservedUntil time.Time `json:"reserved_until"`
	CreatedAt     time.Time `json:"created_at"`
}

// SlotStats holds dashboard availability counters
type SlotStats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Reserved  int `json:"reserved"`
	Booked    int `json:"booked"`
}

// Quote is the amount Reserve would charge for a window
type Quote struct {
	SlotID        uuid.UUID `json:"slot_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	BillableHours int64     `json:"billable_hours"`
	HourlyPrice   int64     `json:"hourly_price"`
	Amount        int64     `json:"amount"`
}
