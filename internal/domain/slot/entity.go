package slot

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus    = errors.New("invalid slot status")
	ErrAlreadyHeld      = errors.New("slot is already reserved or booked")
	ErrNegativePrice    = errors.New("hourly price cannot be negative")
	ErrInvalidSpaces    = errors.New("available spaces must be between 0 and total spaces")
	ErrInconsistentHold = errors.New("slot hold fields are inconsistent with status")
)

type Slot struct {
	id               uuid.UUID
	name             string
	location         string
	hourlyPrice      int64
	totalSpaces      int
	availableSpaces  int
	features         []string
	status           Status
	currentBookingID *uuid.UUID
	reservedUntil    *time.Time
	version          int64
	createdAt        time.Time
	updatedAt        time.Time
}

func NewSlot(name, location string, hourlyPrice int64, totalSpaces int, features []string) (*Slot, error) {
	if hourlyPrice < 0 {
		return nil, ErrNegativePrice
	}
	if totalSpaces < 0 {
		return nil, ErrInvalidSpaces
	}
	return &Slot{
		id:              uuid.New(),
		name:            name,
		location:        location,
		hourlyPrice:     hourlyPrice,
		totalSpaces:     totalSpaces,
		availableSpaces: totalSpaces,
		features:        NormalizeFeatures(features),
		status:          StatusAvailable,
	}, nil
}

func ReconstructSlot(
	id uuid.UUID,
	name, location string,
	hourlyPrice int64,
	totalSpaces, availableSpaces int,
	features []string,
	status Status,
	currentBookingID *uuid.UUID,
	reservedUntil *time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) (*Slot, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if status.IsHeld() != (currentBookingID != nil) {
		return nil, ErrInconsistentHold
	}
	if status == StatusAvailable && reservedUntil != nil {
		return nil, ErrInconsistentHold
	}
	return &Slot{
		id:               id,
		name:             name,
		location:         location,
		hourlyPrice:      hourlyPrice,
		totalSpaces:      totalSpaces,
		availableSpaces:  availableSpaces,
		features:         NormalizeFeatures(features),
		status:           status,
		currentBookingID: currentBookingID,
		reservedUntil:    reservedUntil,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}, nil
}

func (s *Slot) ID() uuid.UUID                { return s.id }
func (s *Slot) Name() string                 { return s.name }
func (s *Slot) Location() string             { return s.location }
func (s *Slot) HourlyPrice() int64           { return s.hourlyPrice }
func (s *Slot) TotalSpaces() int             { return s.totalSpaces }
func (s *Slot) AvailableSpaces() int         { return s.availableSpaces }
func (s *Slot) Features() []string           { return append([]string(nil), s.features...) }
func (s *Slot) Status() Status               { return s.status }
func (s *Slot) CurrentBookingID() *uuid.UUID { return s.currentBookingID }
func (s *Slot) ReservedUntil() *time.Time    { return s.reservedUntil }
func (s *Slot) Version() int64               { return s.version }
func (s *Slot) CreatedAt() time.Time         { return s.createdAt }
func (s *Slot) UpdatedAt() time.Time         { return s.updatedAt }

func (s *Slot) IsAvailable() bool {
	return !s.status.IsHeld()
}

// Hold marks the slot reserved for bookingID until the given time.
// The stored version is left untouched; repositories compare against it.
func (s *Slot) Hold(bookingID uuid.UUID, until time.Time) error {
	if s.status.IsHeld() {
		return ErrAlreadyHeld
	}
	id := bookingID
	u := until
	s.status = StatusReserved
	s.currentBookingID = &id
	s.reservedUntil = &u
	return nil
}

// Release returns the slot to available regardless of its current state.
func (s *Slot) Release() {
	s.status = StatusAvailable
	s.currentBookingID = nil
	s.reservedUntil = nil
}
