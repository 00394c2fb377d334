package pgstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gopkg.in/guregu/null.v4"
)

const bookingColumns = `id, user_id, user_email, slot_id, slot_name, start_time, end_time, amount, payment_status, payment_ref, reserved_until, created_at`

func scanBooking(row rowScanner) (Booking, error) {
	var i Booking
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.UserEmail,
		&i.SlotID,
		&i.SlotName,
		&i.StartTime,
		&i.EndTime,
		&i.Amount,
		&i.PaymentStatus,
		&i.PaymentRef,
		&i.ReservedUntil,
		&i.CreatedAt,
	)
	return i, err
}

func collectBookings(ctx context.Context, db DBTX, query string, args ...any) ([]Booking, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Booking{}
	for rows.Next() {
		i, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createBooking = `-- name: CreateBooking :exec
INSERT INTO bookings (id, user_id, user_email, slot_id, slot_name, start_time, end_time, amount, payment_status, reserved_until, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

type CreateBookingParams struct {
	ID            uuid.UUID   `json:"id"`
	UserID        string      `json:"user_id"`
	UserEmail     null.String `json:"user_email"`
	SlotID        uuid.UUID   `json:"slot_id"`
	SlotName      string      `json:"slot_name"`
	StartTime     time.Time   `json:"start_time"`
	EndTime       time.Time   `json:"end_time"`
	Amount        int64       `json:"amount"`
	PaymentStatus string      `json:"payment_status"`
	ReservedUntil time.Time   `json:"reserved_until"`
	CreatedAt     time.Time   `json:"created_at"`
}

func (q *Queries) CreateBooking(ctx context.Context, db DBTX, arg CreateBookingParams) error {
	_, err := db.Exec(ctx, createBooking,
		arg.ID,
		arg.UserID,
		arg.UserEmail,
		arg.SlotID,
		arg.SlotName,
		arg.StartTime,
		arg.EndTime,
		arg.Amount,
		arg.PaymentStatus,
		arg.ReservedUntil,
		arg.CreatedAt,
	)
	return err
}

const getBookingByID = `-- name: GetBookingByID :one
SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1
`

func (q *Queries) GetBookingByID(ctx context.Context, db DBTX, id uuid.UUID) (Booking, error) {
	row := db.QueryRow(ctx, getBookingByID, id)
	return scanBooking(row)
}

const listBookingsByUser = `-- name: ListBookingsByUser :many
SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC, id DESC
`

func (q *Queries) ListBookingsByUser(ctx context.Context, db DBTX, userID string) ([]Booking, error) {
	return collectBookings(ctx, db, listBookingsByUser, userID)
}

const listBookings = `-- name: ListBookings :many
SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC, id DESC
`

func (q *Queries) ListBookings(ctx context.Context, db DBTX) ([]Booking, error) {
	return collectBookings(ctx, db, listBookings)
}

const listBookingsByUserPage = `-- name: ListBookingsByUserPage :many
SELECT ` + bookingColumns + ` FROM bookings
WHERE user_id = $1
  AND ($2::timestamptz IS NULL OR (created_at, id) < ($2::timestamptz, $3::uuid))
ORDER BY created_at DESC, id DESC
LIMIT $4
`

// BookingKeyset is the position of the last row of the previous page; a null
// CreatedAt starts from the newest booking.
type BookingKeyset struct {
	CreatedAt null.Time `json:"created_at"`
	ID        uuid.UUID `json:"id"`
}

func (q *Queries) ListBookingsByUserPage(ctx context.Context, db DBTX, userID string, after BookingKeyset, limit int32) ([]Booking, error) {
	return collectBookings(ctx, db, listBookingsByUserPage, userID, after.CreatedAt, after.ID, limit)
}

const listBookingsPage = `-- name: ListBookingsPage :many
SELECT ` + bookingColumns + ` FROM bookings
WHERE ($1::timestamptz IS NULL OR (created_at, id) < ($1::timestamptz, $2::uuid))
ORDER BY created_at DESC, id DESC
LIMIT $3
`

func (q *Queries) ListBookingsPage(ctx context.Context, db DBTX, after BookingKeyset, limit int32) ([]Booking, error) {
	return collectBookings(ctx, db, listBookingsPage, after.CreatedAt, after.ID, limit)
}

const setBookingPaymentRef = `-- name: SetBookingPaymentRef :execrows
UPDATE bookings SET payment_ref = $2 WHERE id = $1 AND payment_status = 'pending'
`

func (q *Queries) SetBookingPaymentRef(ctx context.Context, db DBTX, id uuid.UUID, ref string) (int64, error) {
	result, err := db.Exec(ctx, setBookingPaymentRef, id, ref)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
