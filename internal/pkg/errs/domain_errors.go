package errs

import "errors"

// Domain-specific sentinel errors shared by the usecase and handler layers
var (
	// Identity errors
	ErrUnauthenticated = errors.New("unauthenticated")

	// Slot errors
	ErrSlotNotFound    = errors.New("slot not found")
	ErrSlotUnavailable = errors.New("slot unavailable")

	// Booking errors
	ErrBookingNotFound   = errors.New("booking not found")
	ErrBookingAccess     = errors.New("booking belongs to another user")
	ErrInvalidTimeWindow = errors.New("invalid time window")
	ErrPriceChanged      = errors.New("price changed")
	ErrPaymentNotPending = errors.New("booking payment already settled")
	ErrInvalidCursor     = errors.New("invalid cursor")

	// Idempotency errors
	ErrIdempotencyKeyReused = errors.New("idempotency key reused with a different request")

	// Payment errors
	ErrPaymentInitiationFailed = errors.New("payment initiation failed")

	// Store errors
	ErrStoreUnavailable = errors.New("store unavailable")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")
)
