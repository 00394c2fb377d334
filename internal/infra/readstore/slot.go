package readstore

import (
	"context"

	"parkpass/internal/infra"
	"parkpass/internal/infra/pgstore"
	"parkpass/internal/pkg/pgconv"
	"parkpass/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotReadQueries interface {
	GetSlotByID(ctx context.Context, db pgstore.DBTX, id uuid.UUID) (pgstore.ParkingSlot, error)
	ListSlots(ctx context.Context, db pgstore.DBTX) ([]pgstore.ParkingSlot, error)
	CountSlotsByStatus(ctx context.Context, db pgstore.DBTX) ([]pgstore.CountSlotsByStatusRow, error)
}

type SlotReadStore struct {
	queries SlotReadQueries
	db      pgstore.DBTX
}

func NewSlotReadStore(queries SlotReadQueries, db pgstore.DBTX) *SlotReadStore {
	return &SlotReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *SlotReadStore) List(ctx context.Context) ([]*queries.SlotView, error) {
	rows, err := r.queries.ListSlots(ctx, r.db)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list slots", err)
	}

	result := make([]*queries.SlotView, len(rows))
	for i, row := range rows {
		result[i] = ToSlotView(row)
	}
	return result, nil
}

func (r *SlotReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.SlotView, error) {
	row, err := r.queries.GetSlotByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("slot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find slot by ID", err)
	}
	return ToSlotView(row), nil
}

func (r *SlotReadStore) Stats(ctx context.Context) (*queries.SlotStats, error) {
	rows, err := r.queries.CountSlotsByStatus(ctx, r.db)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to count slots by status", err)
	}

	stats := &queries.SlotStats{}
	for _, row := range rows {
		n := int(row.Total)
		stats.Total += n
		switch row.Status {
		case "available":
			stats.Available = n
		case "reserved":
			stats.Reserved = n
		case "booked":
			stats.Booked = n
		}
	}
	return stats, nil
}
