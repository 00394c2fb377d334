package pgstore

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type IdempotencyKey struct {
	UserID      string    `json:"user_id"`
	Key         uuid.UUID `json:"key"`
	RequestHash string    `json:"request_hash"`
	BookingID   uuid.UUID `json:"booking_id"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

const getIdempotencyKey = `-- name: GetIdempotencyKey :one
SELECT user_id, key, request_hash, booking_id, expires_at, created_at
FROM idempotency_keys
WHERE user_id = $1 AND key = $2
`

func (q *Queries) GetIdempotencyKey(ctx context.Context, db DBTX, userID string, key uuid.UUID) (IdempotencyKey, error) {
	row := db.QueryRow(ctx, getIdempotencyKey, userID, key)
	var i IdempotencyKey
	err := row.Scan(
		&i.UserID,
		&i.Key,
		&i.RequestHash,
		&i.BookingID,
		&i.ExpiresAt,
		&i.CreatedAt,
	)
	return i, err
}

const upsertIdempotencyKey = `-- name: UpsertIdempotencyKey :execrows
INSERT INTO idempotency_keys (user_id, key, request_hash, booking_id, expires_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id, key) DO UPDATE
SET request_hash = EXCLUDED.request_hash,
    booking_id = EXCLUDED.booking_id,
    expires_at = EXCLUDED.expires_at,
    created_at = now()
WHERE idempotency_keys.expires_at <= now()
`

type UpsertIdempotencyKeyParams struct {
	UserID      string    `json:"user_id"`
	Key         uuid.UUID `json:"key"`
	RequestHash string    `json:"request_hash"`
	BookingID   uuid.UUID `json:"booking_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UpsertIdempotencyKey replaces only expired rows; zero rows affected means a
// live record already holds the key.
func (q *Queries) UpsertIdempotencyKey(ctx context.Context, db DBTX, arg UpsertIdempotencyKeyParams) (int64, error) {
	result, err := db.Exec(ctx, upsertIdempotencyKey,
		arg.UserID,
		arg.Key,
		arg.RequestHash,
		arg.BookingID,
		arg.ExpiresAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
