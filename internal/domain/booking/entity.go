package booking

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrEmptyUserID          = errors.New("user id is required")
	ErrEmptyPaymentRef      = errors.New("payment reference is required")
	ErrPaymentSettled       = errors.New("payment is no longer pending")
)

type Booking struct {
	id            uuid.UUID
	userID        string
	userEmail     *string
	slotID        uuid.UUID
	slotName      string
	window        TimeWindow
	amount        Money
	paymentStatus PaymentStatus
	paymentRef    *string
	reservedUntil time.Time
	createdAt     time.Time
}

// NewPendingBooking creates a booking awaiting payment. slotName is a
// snapshot and is never re-synced with the slot afterwards.
func NewPendingBooking(
	userID string,
	userEmail *string,
	slotID uuid.UUID,
	slotName string,
	window TimeWindow,
	amount Money,
	createdAt time.Time,
) (*Booking, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrEmptyUserID
	}
	return &Booking{
		id:            uuid.New(),
		userID:        userID,
		userEmail:     userEmail,
		slotID:        slotID,
		slotName:      slotName,
		window:        window,
		amount:        amount,
		paymentStatus: PaymentPending,
		reservedUntil: window.End(),
		// Stores and list cursors keep microseconds.
		createdAt: createdAt.UTC().Truncate(time.Microsecond),
	}, nil
}

func ReconstructBooking(
	id uuid.UUID,
	userID string,
	userEmail *string,
	slotID uuid.UUID,
	slotName string,
	window TimeWindow,
	amount Money,
	paymentStatus PaymentStatus,
	paymentRef *string,
	reservedUntil, createdAt time.Time,
) (*Booking, error) {
	if !paymentStatus.IsValid() {
		return nil, ErrInvalidPaymentStatus
	}
	return &Booking{
		id:            id,
		userID:        userID,
		userEmail:     userEmail,
		slotID:        slotID,
		slotName:      slotName,
		window:        window,
		amount:        amount,
		paymentStatus: paymentStatus,
		paymentRef:    paymentRef,
		reservedUntil: reservedUntil,
		createdAt:     createdAt,
	}, nil
}

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) UserID() string               { return b.userID }
func (b *Booking) UserEmail() *string           { return b.userEmail }
func (b *Booking) SlotID() uuid.UUID            { return b.slotID }
func (b *Booking) SlotName() string             { return b.slotName }
func (b *Booking) Window() TimeWindow           { return b.window }
func (b *Booking) StartTime() time.Time         { return b.window.Start() }
func (b *Booking) EndTime() time.Time           { return b.window.End() }
func (b *Booking) Amount() Money                { return b.amount }
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }
func (b *Booking) PaymentRef() *string          { return b.paymentRef }
func (b *Booking) ReservedUntil() time.Time     { return b.reservedUntil }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }

func (b *Booking) IsOwnedBy(userID string) bool {
	return b.userID == userID
}

// CanInitiatePayment reports ErrPaymentSettled once an external process has
// confirmed or failed the payment.
func (b *Booking) CanInitiatePayment() error {
	if b.paymentStatus != PaymentPending {
		return ErrPaymentSettled
	}
	return nil
}

func (b *Booking) AttachPaymentRef(ref string) error {
	if err := b.CanInitiatePayment(); err != nil {
		return err
	}
	if strings.TrimSpace(ref) == "" {
		return ErrEmptyPaymentRef
	}
	r := ref
	b.paymentRef = &r
	return nil
}
