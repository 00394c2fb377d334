package pgstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gopkg.in/guregu/null.v4"
)

type OutboxEvent struct {
	ID          uuid.UUID   `json:"id"`
	RoutingKey  string      `json:"routing_key"`
	Payload     []byte      `json:"payload"`
	Status      string      `json:"status"`
	Attempts    int32       `json:"attempts"`
	LastError   null.String `json:"last_error"`
	AvailableAt time.Time   `json:"available_at"`
	CreatedAt   time.Time   `json:"created_at"`
	SentAt      null.Time   `json:"sent_at"`
}

const (
	OutboxStatusQueued = "queued"
	OutboxStatusSent   = "sent"
)

const createOutboxEvent = `-- name: CreateOutboxEvent :exec
INSERT INTO event_outbox (id, routing_key, payload, status, available_at, created_at)
VALUES ($1, $2, $3, 'queued', $4, $4)
`

type CreateOutboxEventParams struct {
	ID         uuid.UUID `json:"id"`
	RoutingKey string    `json:"routing_key"`
	Payload    []byte    `json:"payload"`
	CreatedAt  time.Time `json:"created_at"`
}

func (q *Queries) CreateOutboxEvent(ctx context.Context, db DBTX, arg CreateOutboxEventParams) error {
	_, err := db.Exec(ctx, createOutboxEvent,
		arg.ID,
		arg.RoutingKey,
		string(arg.Payload),
		arg.CreatedAt,
	)
	return err
}

const claimDueOutboxEvents = `-- name: ClaimDueOutboxEvents :many
SELECT id, routing_key, payload, status, attempts, last_error, available_at, created_at, sent_at
FROM event_outbox
WHERE status = 'queued' AND available_at <= now()
ORDER BY created_at, id
LIMIT $1
FOR UPDATE SKIP LOCKED
`

// ClaimDueOutboxEvents locks due rows for the calling transaction; concurrent
// relays skip them.
func (q *Queries) ClaimDueOutboxEvents(ctx context.Context, db DBTX, limit int32) ([]OutboxEvent, error) {
	rows, err := db.Query(ctx, claimDueOutboxEvents, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OutboxEvent{}
	for rows.Next() {
		var i OutboxEvent
		if err := rows.Scan(
			&i.ID,
			&i.RoutingKey,
			&i.Payload,
			&i.Status,
			&i.Attempts,
			&i.LastError,
			&i.AvailableAt,
			&i.CreatedAt,
			&i.SentAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const markOutboxEventSent = `-- name: MarkOutboxEventSent :exec
UPDATE event_outbox SET status = 'sent', sent_at = now(), attempts = attempts + 1, last_error = NULL
WHERE id = $1
`

func (q *Queries) MarkOutboxEventSent(ctx context.Context, db DBTX, id uuid.UUID) error {
	_, err := db.Exec(ctx, markOutboxEventSent, id)
	return err
}

const rescheduleOutboxEvent = `-- name: RescheduleOutboxEvent :exec
UPDATE event_outbox SET attempts = attempts + 1, last_error = $2, available_at = $3
WHERE id = $1
`

type RescheduleOutboxEventParams struct {
	ID          uuid.UUID   `json:"id"`
	LastError   null.String `json:"last_error"`
	AvailableAt time.Time   `json:"available_at"`
}

func (q *Queries) RescheduleOutboxEvent(ctx context.Context, db DBTX, arg RescheduleOutboxEventParams) error {
	_, err := db.Exec(ctx, rescheduleOutboxEvent, arg.ID, arg.LastError, arg.AvailableAt)
	return err
}
