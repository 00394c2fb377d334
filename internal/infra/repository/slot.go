package repository

import (
	"context"

	"parkpass/internal/domain/slot"
	"parkpass/internal/infra"
	"parkpass/internal/infra/pgstore"
	"parkpass/internal/infra/repository/converter"
	"parkpass/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type SlotWriteQueries interface {
	GetSlotByID(ctx context.Context, db pgstore.DBTX, id uuid.UUID) (pgstore.ParkingSlot, error)
	UpdateSlotHold(ctx context.Context, db pgstore.DBTX, arg pgstore.UpdateSlotHoldParams) (int64, error)
	NotifyChange(ctx context.Context, db pgstore.DBTX, payload pgstore.ChangePayload) error
}

type SlotRepository struct {
	queries SlotWriteQueries
	db      pgstore.DBTX
}

func NewSlotRepository(queries SlotWriteQueries, db pgstore.DBTX) *SlotRepository {
	return &SlotRepository{
		queries: queries,
		db:      db,
	}
}

func (r *SlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*slot.Slot, error) {
	row, err := r.queries.GetSlotByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("slot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find slot by ID", err)
	}

	s, err := converter.SlotToDomain(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert slot row", err)
	}
	return s, nil
}

func (r *SlotRepository) Update(ctx context.Context, s *slot.Slot) error {
	affected, err := r.queries.UpdateSlotHold(ctx, r.db, converter.SlotToHoldParams(s))
	if err != nil {
		return infra.WrapRepoErr("failed to update slot", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("slot version changed concurrently", nil, infra.KindConflict)
	}

	payload := pgstore.ChangePayload{Collection: pgstore.CollectionSlots, ID: s.ID().String()}
	if err := r.queries.NotifyChange(ctx, r.db, payload); err != nil {
		return infra.WrapRepoErr("failed to queue slot change notification", err)
	}
	return nil
}
