package repository

import (
	"context"

	"parkpass/internal/infra"
	"parkpass/internal/infra/pgstore"
	"parkpass/internal/pkg/pgconv"
	"parkpass/internal/usecase/shared"

	"github.com/google/uuid"
)

type IdempotencyWriteQueries interface {
	GetIdempotencyKey(ctx context.Context, db pgstore.DBTX, userID string, key uuid.UUID) (pgstore.IdempotencyKey, error)
	UpsertIdempotencyKey(ctx context.Context, db pgstore.DBTX, arg pgstore.UpsertIdempotencyKeyParams) (int64, error)
}

type IdempotencyRepository struct {
	queries IdempotencyWriteQueries
	db      pgstore.DBTX
}

func NewIdempotencyRepository(queries IdempotencyWriteQueries, db pgstore.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{
		queries: queries,
		db:      db,
	}
}

func (r *IdempotencyRepository) Find(ctx context.Context, userID string, key uuid.UUID) (*shared.IdempotencyRecord, error) {
	row, err := r.queries.GetIdempotencyKey(ctx, r.db, userID, key)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}
	return &shared.IdempotencyRecord{
		Key:         row.Key,
		UserID:      row.UserID,
		RequestHash: row.RequestHash,
		BookingID:   row.BookingID,
		ExpiresAt:   row.ExpiresAt,
	}, nil
}

// Save maps a concurrent claim of the same key to KindConflict so the unit of
// work re-runs and the retry finds the winner's record.
func (r *IdempotencyRepository) Save(ctx context.Context, rec shared.IdempotencyRecord) error {
	affected, err := r.queries.UpsertIdempotencyKey(ctx, r.db, pgstore.UpsertIdempotencyKeyParams{
		UserID:      rec.UserID,
		Key:         rec.Key,
		RequestHash: rec.RequestHash,
		BookingID:   rec.BookingID,
		ExpiresAt:   rec.ExpiresAt,
	})
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.WrapRepoErr("idempotency key claimed concurrently", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to save idempotency key", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("idempotency key claimed concurrently", nil, infra.KindConflict)
	}
	return nil
}
