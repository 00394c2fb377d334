package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"parkpass/internal/infra"
	"parkpass/internal/infra/pgstore"
	"parkpass/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/guregu/null.v4"
)

type OutboxWriteQueries interface {
	CreateOutboxEvent(ctx context.Context, db pgstore.DBTX, arg pgstore.CreateOutboxEventParams) error
}

// OutboxRepository writes events inside the caller's transaction.
type OutboxRepository struct {
	queries OutboxWriteQueries
	db      pgstore.DBTX
}

func NewOutboxRepository(queries OutboxWriteQueries, db pgstore.DBTX) *OutboxRepository {
	return &OutboxRepository{
		queries: queries,
		db:      db,
	}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, msg shared.OutboxMessage) error {
	err := r.queries.CreateOutboxEvent(ctx, r.db, pgstore.CreateOutboxEventParams{
		ID:         msg.ID,
		RoutingKey: msg.RoutingKey,
		Payload:    msg.Payload,
		CreatedAt:  msg.CreatedAt,
	})
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue outbox event", err)
	}
	return nil
}

type OutboxRelayQueries interface {
	ClaimDueOutboxEvents(ctx context.Context, db pgstore.DBTX, limit int32) ([]pgstore.OutboxEvent, error)
	MarkOutboxEventSent(ctx context.Context, db pgstore.DBTX, id uuid.UUID) error
	RescheduleOutboxEvent(ctx context.Context, db pgstore.DBTX, arg pgstore.RescheduleOutboxEventParams) error
}

// OutboxStore drains queued events for the relay. Rows stay locked for the
// whole batch so several relay instances never deliver the same row at once.
type OutboxStore struct {
	queries OutboxRelayQueries
	pool    *pgxpool.Pool
}

func NewOutboxStore(queries OutboxRelayQueries, pool *pgxpool.Pool) *OutboxStore {
	return &OutboxStore{
		queries: queries,
		pool:    pool,
	}
}

func (s *OutboxStore) Drain(
	ctx context.Context,
	limit int,
	deliver func(ctx context.Context, msg shared.OutboxMessage) error,
	retryAt func(attempts int) time.Time,
) (int, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return 0, infra.WrapRepoErr("failed to begin outbox transaction", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.Warn("outbox rollback failed", "error", rbErr.Error())
		}
	}()

	rows, err := s.queries.ClaimDueOutboxEvents(ctx, tx, int32(limit))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to claim outbox events", err)
	}

	sent := 0
	for _, row := range rows {
		msg := shared.OutboxMessage{
			ID:         row.ID,
			RoutingKey: row.RoutingKey,
			Payload:    row.Payload,
			CreatedAt:  row.CreatedAt,
			Attempts:   int(row.Attempts),
		}
		if deliverErr := deliver(ctx, msg); deliverErr != nil {
			err = s.queries.RescheduleOutboxEvent(ctx, tx, pgstore.RescheduleOutboxEventParams{
				ID:          row.ID,
				LastError:   null.StringFrom(deliverErr.Error()),
				AvailableAt: retryAt(msg.Attempts + 1),
			})
			if err != nil {
				return sent, infra.WrapRepoErr("failed to reschedule outbox event", err)
			}
			continue
		}
		if err := s.queries.MarkOutboxEventSent(ctx, tx, row.ID); err != nil {
			return sent, infra.WrapRepoErr("failed to mark outbox event sent", err)
		}
		sent++
	}

	if err := tx.Commit(ctx); err != nil {
		return sent, infra.WrapRepoErr("failed to commit outbox batch", err)
	}
	return sent, nil
}
