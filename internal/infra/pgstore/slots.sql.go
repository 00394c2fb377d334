package pgstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"gopkg.in/guregu/null.v4"
)

const slotColumns = `id, name, location, hourly_price, total_spaces, available_spaces, features, status, current_booking_id, reserved_until, version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParkingSlot(row rowScanner) (ParkingSlot, error) {
	var i ParkingSlot
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Location,
		&i.HourlyPrice,
		&i.TotalSpaces,
		&i.AvailableSpaces,
		&i.Features,
		&i.Status,
		&i.CurrentBookingID,
		&i.ReservedUntil,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getSlotByID = `-- name: GetSlotByID :one
SELECT ` + slotColumns + ` FROM parking_slots WHERE id = $1
`

func (q *Queries) GetSlotByID(ctx context.Context, db DBTX, id uuid.UUID) (ParkingSlot, error) {
	row := db.QueryRow(ctx, getSlotByID, id)
	return scanParkingSlot(row)
}

const listSlots = `-- name: ListSlots :many
SELECT ` + slotColumns + ` FROM parking_slots ORDER BY name, id
`

func (q *Queries) ListSlots(ctx context.Context, db DBTX) ([]ParkingSlot, error) {
	rows, err := db.Query(ctx, listSlots)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ParkingSlot{}
	for rows.Next() {
		i, err := scanParkingSlot(rows)
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

const countSlotsByStatus = `-- name: CountSlotsByStatus :many
SELECT status, count(*) AS total FROM parking_slots GROUP BY status
`

type CountSlotsByStatusRow struct {
	Status string `json:"status"`
	Total  int64  `json:"total"`
}

func (q *Queries) CountSlotsByStatus(ctx context.Context, db DBTX) ([]CountSlotsByStatusRow, error) {
	rows, err := db.Query(ctx, countSlotsByStatus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CountSlotsByStatusRow{}
	for rows.Next() {
		var i CountSlotsByStatusRow
		if err := rows.Scan(&i.Status, &i.Total); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateSlotHold = `-- name: UpdateSlotHold :execrows
UPDATE parking_slots
SET status = $2, current_booking_id = $3, reserved_until = $4, version = version + 1, updated_at = now()
WHERE id = $1 AND version = $5
`

type UpdateSlotHoldParams struct {
	ID               uuid.UUID   `json:"id"`
	Status           string      `json:"status"`
	CurrentBookingID pgtype.UUID `json:"current_booking_id"`
	ReservedUntil    null.Time   `json:"reserved_until"`
	Version          int64       `json:"version"`
}

// UpdateSlotHold returns 0 rows when the version no longer matches.
func (q *Queries) UpdateSlotHold(ctx context.Context, db DBTX, arg UpdateSlotHoldParams) (int64, error) {
	result, err := db.Exec(ctx, updateSlotHold,
		arg.ID,
		arg.Status,
		arg.CurrentBookingID,
		arg.ReservedUntil,
		arg.Version,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const createSlot = `-- name: CreateSlot :exec
INSERT INTO parking_slots (id, name, location, hourly_price, total_spaces, available_spaces, features, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, 'available', $8, $8)
`

type CreateSlotParams struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Location        string    `json:"location"`
	HourlyPrice     int64     `json:"hourly_price"`
	TotalSpaces     int32     `json:"total_spaces"`
	AvailableSpaces int32     `json:"available_spaces"`
	Features        []string  `json:"features"`
	CreatedAt       time.Time `json:"created_at"`
}

func (q *Queries) CreateSlot(ctx context.Context, db DBTX, arg CreateSlotParams) error {
	_, err := db.Exec(ctx, createSlot,
		arg.ID,
		arg.Name,
		arg.Location,
		arg.HourlyPrice,
		arg.TotalSpaces,
		arg.AvailableSpaces,
		arg.Features,
		arg.CreatedAt,
	)
	return err
}
