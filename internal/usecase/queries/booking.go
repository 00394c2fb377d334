package queries

//go:generate mockgen -source=$GOFILE -destination=../../../tests/mock/queries/booking.go -package=queriesmock

import (
	"context"

	"parkpass/internal/domain/user"
	"parkpass/internal/pkg/errs"

	"github.com/google/uuid"
)

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByUser(ctx context.Context, userID string) ([]*BookingView, error)
	ListAll(ctx context.Context) ([]*BookingView, error)
	// Page methods return up to limit rows ordered by (created_at, id) descending,
	// strictly after the keyset when one is given.
	ListByUserPage(ctx context.Context, userID string, after *Keyset, limit int) ([]*BookingView, error)
	ListAllPage(ctx context.Context, after *Keyset, limit int) ([]*BookingView, error)
}

type BookingQueries interface {
	Get(ctx context.Context, actor *user.Identity, id uuid.UUID) (*BookingView, error)
	ListByUser(ctx context.Context, userID string, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error)
	ListAll(ctx context.Context, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

// Get allows the owner and operators or above.
func (q *bookingQueriesImpl) Get(ctx context.Context, actor *user.Identity, id uuid.UUID) (*BookingView, error) {
	if actor == nil {
		return nil, errs.ErrUnauthenticated
	}

	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		return nil, mapReadErr(err, errs.ErrBookingNotFound)
	}

	if view.UserID != actor.Subject() && !actor.Role().AtLeast(user.RoleOperator) {
		return nil, errs.ErrBookingAccess
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByUser(ctx context.Context, userID string, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error) {
	return q.page(cursor, limit, func(after *Keyset, n int) ([]*BookingView, error) {
		return q.store.ListByUserPage(ctx, userID, after, n)
	})
}

func (q *bookingQueriesImpl) ListAll(ctx context.Context, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error) {
	return q.page(cursor, limit, func(after *Keyset, n int) ([]*BookingView, error) {
		return q.store.ListAllPage(ctx, after, n)
	})
}

// page reads one row past the limit to know whether a next cursor exists.
func (q *bookingQueriesImpl) page(
	cursor *Cursor,
	limit int,
	fetch func(after *Keyset, n int) ([]*BookingView, error),
) ([]*BookingView, *Cursor, error) {
	after, err := keysetFrom(cursor)
	if err != nil {
		return nil, nil, err
	}
	limit = ValidateLimit(limit)

	views, err := fetch(after, limit+1)
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrStoreUnavailable)
	}
	if views == nil {
		views = []*BookingView{}
	}
	if len(views) <= limit {
		return views, nil, nil
	}

	views = views[:limit]
	last := views[limit-1]
	return views, &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}, nil
}
