package boltstore

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"parkpass/internal/domain/booking"
	"parkpass/internal/domain/slot"
	"parkpass/internal/usecase/queries"
	"parkpass/internal/usecase/shared"

	"github.com/google/uuid"
)

type slotRecord struct {
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
	Version          int64      `json:"version"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type bookingRecord struct {
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

func slotToRecord(s *slot.Slot) slotRecord {
	now := time.Now().UTC()
	created := s.CreatedAt()
	if created.IsZero() {
		created = now
	}
	return slotRecord{
		ID:               s.ID(),
		Name:             s.Name(),
		Location:         s.Location(),
		HourlyPrice:      s.HourlyPrice(),
		TotalSpaces:      s.TotalSpaces(),
		AvailableSpaces:  s.AvailableSpaces(),
		Features:         s.Features(),
		Status:           s.Status().String(),
		CurrentBookingID: s.CurrentBookingID(),
		ReservedUntil:    s.ReservedUntil(),
		Version:          s.Version(),
		CreatedAt:        created,
		UpdatedAt:        now,
	}
}

func (r slotRecord) toDomain() (*slot.Slot, error) {
	status, err := slot.NewStatus(r.Status)
	if err != nil {
		return nil, err
	}
	return slot.ReconstructSlot(
		r.ID, r.Name, r.Location, r.HourlyPrice,
		r.TotalSpaces, r.AvailableSpaces, r.Features,
		status, r.CurrentBookingID, r.ReservedUntil,
		r.Version, r.CreatedAt, r.UpdatedAt,
	)
}

func (r slotRecord) toView() *queries.SlotView {
	return &queries.SlotView{
		ID:               r.ID,
		Name:             r.Name,
		Location:         r.Location,
		HourlyPrice:      r.HourlyPrice,
		TotalSpaces:      r.TotalSpaces,
		AvailableSpaces:  r.AvailableSpaces,
		Features:         slot.NormalizeFeatures(r.Features),
		Status:           r.Status,
		CurrentBookingID: r.CurrentBookingID,
		ReservedUntil:    r.ReservedUntil,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func bookingToRecord(b *booking.Booking) bookingRecord {
	return bookingRecord{
		ID:            b.ID(),
		UserID:        b.UserID(),
		UserEmail:     b.UserEmail(),
		SlotID:        b.SlotID(),
		SlotName:      b.SlotName(),
		StartTime:     b.StartTime(),
		EndTime:       b.EndTime(),
		Amount:        b.Amount().Minor(),
		PaymentStatus: b.PaymentStatus().String(),
		PaymentRef:    b.PaymentRef(),
		ReservedUntil: b.ReservedUntil(),
		CreatedAt:     b.CreatedAt(),
	}
}

func (r bookingRecord) toDomain() (*booking.Booking, error) {
	window, err := booking.NewTimeWindow(r.StartTime, r.EndTime)
	if err != nil {
		return nil, err
	}
	amount, err := booking.NewMoney(r.Amount)
	if err != nil {
		return nil, err
	}
	status, err := booking.NewPaymentStatus(r.PaymentStatus)
	if err != nil {
		return nil, err
	}
	return booking.ReconstructBooking(
		r.ID, r.UserID, r.UserEmail, r.SlotID, r.SlotName,
		window, amount, status, r.PaymentRef,
		r.ReservedUntil, r.CreatedAt,
	)
}

func (r bookingRecord) toView() *queries.BookingView {
	return &queries.BookingView{
		ID:            r.ID,
		UserID:        r.UserID,
		UserEmail:     r.UserEmail,
		SlotID:        r.SlotID,
		SlotName:      r.SlotName,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Amount:        r.Amount,
		PaymentStatus: r.PaymentStatus,
		PaymentRef:    r.PaymentRef,
		ReservedUntil: r.ReservedUntil,
		CreatedAt:     r.CreatedAt,
	}
}

type idempotencyRecord struct {
	Key         uuid.UUID `json:"key"`
	UserID      string    `json:"user_id"`
	RequestHash string    `json:"request_hash"`
	BookingID   uuid.UUID `json:"booking_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func idempotencyToRecord(r shared.IdempotencyRecord) idempotencyRecord {
	return idempotencyRecord{
		Key:         r.Key,
		UserID:      r.UserID,
		RequestHash: r.RequestHash,
		BookingID:   r.BookingID,
		ExpiresAt:   r.ExpiresAt,
	}
}

func (r idempotencyRecord) toShared() *shared.IdempotencyRecord {
	return &shared.IdempotencyRecord{
		Key:         r.Key,
		UserID:      r.UserID,
		RequestHash: r.RequestHash,
		BookingID:   r.BookingID,
		ExpiresAt:   r.ExpiresAt,
	}
}

type outboxRecord struct {
	ID          uuid.UUID       `json:"id"`
	RoutingKey  string          `json:"routing_key"`
	Payload     json.RawMessage `json:"payload"`
	Attempts    int             `json:"attempts"`
	LastError   string          `json:"last_error,omitempty"`
	AvailableAt time.Time       `json:"available_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

func outboxToRecord(m shared.OutboxMessage) outboxRecord {
	return outboxRecord{
		ID:          m.ID,
		RoutingKey:  m.RoutingKey,
		Payload:     json.RawMessage(m.Payload),
		Attempts:    m.Attempts,
		AvailableAt: m.CreatedAt,
		CreatedAt:   m.CreatedAt,
	}
}

func (r outboxRecord) toShared() shared.OutboxMessage {
	return shared.OutboxMessage{
		ID:         r.ID,
		RoutingKey: r.RoutingKey,
		Payload:    []byte(r.Payload),
		CreatedAt:  r.CreatedAt,
		Attempts:   r.Attempts,
	}
}

// outboxKey orders the bucket by enqueue sequence.
func outboxKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}
