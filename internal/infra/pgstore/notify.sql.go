package pgstore

import (
	"context"
	"encoding/json"
)

const notifyChange = `-- name: NotifyChange :exec
SELECT pg_notify($1, $2)
`

// NotifyChange queues a notification on the configured channel. Inside a
// transaction PostgreSQL delivers it only on commit.
func (q *Queries) NotifyChange(ctx context.Context, db DBTX, payload ChangePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, notifyChange, q.notifyChannel, string(body))
	return err
}
