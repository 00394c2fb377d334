package queries

//go:generate mockgen -source=$GOFILE -destination=../../../tests/mock/queries/slot.go -package=queriesmock

import (
	"context"
	"time"

	"parkpass/internal/domain/booking"
	"parkpass/internal/domain/slot"
	"parkpass/internal/infra"
	"parkpass/internal/pkg/errs"

	"github.com/google/uuid"
)

type SlotReadStore interface {
	List(ctx context.Context) ([]*SlotView, error)
	FindByID(ctx context.Context, id uuid.UUID) (*SlotView, error)
	Stats(ctx context.Context) (*SlotStats, error)
}

type SlotQueries interface {
	List(ctx context.Context) ([]*SlotView, error)
	Get(ctx context.Context, id uuid.UUID) (*SlotView, error)
	Stats(ctx context.Context) (*SlotStats, error)
	Quote(ctx context.Context, id uuid.UUID, start, end time.Time) (*Quote, error)
}

type slotQueriesImpl struct {
	store      SlotReadStore
	calculator booking.PriceCalculator
}

func NewSlotQueries(store SlotReadStore, calculator booking.PriceCalculator) SlotQueries {
	return &slotQueriesImpl{store: store, calculator: calculator}
}

func (q *slotQueriesImpl) List(ctx context.Context) ([]*SlotView, error) {
	slots, err := q.store.List(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStoreUnavailable)
	}
	return slots, nil
}

func (q *slotQueriesImpl) Get(ctx context.Context, id uuid.UUID) (*SlotView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		return nil, mapReadErr(err, errs.ErrSlotNotFound)
	}
	return view, nil
}

func (q *slotQueriesImpl) Stats(ctx context.Context) (*SlotStats, error) {
	stats, err := q.store.Stats(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStoreUnavailable)
	}
	return stats, nil
}

func (q *slotQueriesImpl) Quote(ctx context.Context, id uuid.UUID, start, end time.Time) (*Quote, error) {
	window, err := booking.NewTimeWindow(start, end)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidTimeWindow)
	}

	view, err := q.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	amount, err := q.calculator.Calculate(view.HourlyPrice, window)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	return &Quote{
		SlotID:        id,
		StartTime:     start,
		EndTime:       end,
		BillableHours: window.BillableHours(),
		HourlyPrice:   view.HourlyPrice,
		Amount:        amount.Minor(),
	}, nil
}

// CountSlots tallies statuses for stores without an aggregate query.
func CountSlots(slots []*SlotView) *SlotStats {
	stats := &SlotStats{Total: len(slots)}
	for _, s := range slots {
		switch slot.Status(s.Status) {
		case slot.StatusAvailable:
			stats.Available++
		case slot.StatusReserved:
			stats.Reserved++
		case slot.StatusBooked:
			stats.Booked++
		}
	}
	return stats
}

func mapReadErr(err error, notFound error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, notFound)
	}
	return errs.Mark(err, errs.ErrStoreUnavailable)
}
