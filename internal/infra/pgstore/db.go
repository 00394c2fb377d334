package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Queries holds no connection; every method takes the DBTX to run on so the
// same value serves pools and transactions.
type Queries struct {
	notifyChannel string
}

func New(notifyChannel string) *Queries {
	return &Queries{notifyChannel: notifyChannel}
}

func (q *Queries) NotifyChannel() string {
	return q.notifyChannel
}
