package pgstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"gopkg.in/guregu/null.v4"
)

type ParkingSlot struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	Location         string      `json:"location"`
	HourlyPrice      int64       `json:"hourly_price"`
	TotalSpaces      int32       `json:"total_spaces"`
	AvailableSpaces  int32       `json:"available_spaces"`
	Features         []string    `json:"features"`
	Status           string      `json:"status"`
	CurrentBookingID pgtype.UUID `json:"current_booking_id"`
	ReservedUntil    null.Time   `json:"reserved_until"`
	Version          int64       `json:"version"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

type Booking struct {
	ID            uuid.UUID   `json:"id"`
	UserID        string      `json:"user_id"`
	UserEmail     null.String `json:"user_email"`
	SlotID        uuid.UUID   `json:"slot_id"`
	SlotName      string      `json:"slot_name"`
	StartTime     time.Time   `json:"start_time"`
	EndTime       time.Time   `json:"end_time"`
	Amount        int64       `json:"amount"`
	PaymentStatus string      `json:"payment_status"`
	PaymentRef    null.String `json:"payment_ref"`
	ReservedUntil time.Time   `json:"reserved_until"`
	CreatedAt     time.Time   `json:"created_at"`
}

// ChangePayload is the NOTIFY body emitted after every write.
type ChangePayload struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
	UserID     string `json:"user_id,omitempty"`
}

const (
	CollectionSlots    = "slots"
	CollectionBookings = "bookings"
)
