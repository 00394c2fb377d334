//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"parkpass/internal/domain/booking"
	"parkpass/internal/domain/slot"
	"parkpass/internal/domain/user"
	"parkpass/internal/infra"
	"parkpass/internal/pkg/errs"
	"parkpass/internal/usecase/queries"
	"parkpass/tests/common/authtest"
	"parkpass/tests/common/builder"
	queriesmock "parkpass/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func notFound() error {
	return infra.WrapRepoErr("not found", errors.New("no rows"), infra.KindNotFound)
}

func TestSlotQueries_Quote(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := queriesmock.NewMockSlotReadStore(ctrl)
	q := queries.NewSlotQueries(store, booking.NewHourlyPriceCalculator())

	view := builder.NewSlotBuilder().WithHourlyPrice(10).BuildView()
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	t.Run("rounds partial hours up", func(t *testing.T) {
		store.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)

		quote, err := q.Quote(context.Background(), view.ID, start, start.Add(90*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, int64(2), quote.BillableHours)
		assert.Equal(t, int64(10), quote.HourlyPrice)
		assert.Equal(t, int64(20), quote.Amount)
	})

	t.Run("inverted window is rejected before any read", func(t *testing.T) {
		_, err := q.Quote(context.Background(), view.ID, start, start.Add(-time.Minute))
		assert.True(t, errs.Is(err, errs.ErrInvalidTimeWindow))
	})

	t.Run("unknown slot", func(t *testing.T) {
		id := uuid.New()
		store.EXPECT().FindByID(gomock.Any(), id).Return(nil, notFound())

		_, err := q.Quote(context.Background(), id, start, start.Add(time.Hour))
		assert.True(t, errs.Is(err, errs.ErrSlotNotFound))
	})
}

func TestSlotQueries_ErrorMapping(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := queriesmock.NewMockSlotReadStore(ctrl)
	q := queries.NewSlotQueries(store, booking.NewHourlyPriceCalculator())
	down := infra.WrapRepoErr("query failed", errors.New("connection refused"))

	store.EXPECT().List(gomock.Any()).Return(nil, down)
	_, err := q.List(context.Background())
	assert.True(t, errs.Is(err, errs.ErrStoreUnavailable))

	store.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(nil, down)
	_, err = q.Get(context.Background(), uuid.New())
	assert.True(t, errs.Is(err, errs.ErrStoreUnavailable))
	assert.False(t, errs.Is(err, errs.ErrSlotNotFound))

	store.EXPECT().Stats(gomock.Any()).Return(nil, down)
	_, err = q.Stats(context.Background())
	assert.True(t, errs.Is(err, errs.ErrStoreUnavailable))
}

func TestCountSlots(t *testing.T) {
	slots := []*queries.SlotView{
		builder.NewSlotBuilder().BuildView(),
		builder.NewSlotBuilder().BuildView(),
		builder.NewSlotBuilder().Held(slot.StatusReserved).BuildView(),
		builder.NewSlotBuilder().Held(slot.StatusBooked).BuildView(),
	}

	assert.Equal(t, &queries.SlotStats{Total: 4, Available: 2, Reserved: 1, Booked: 1}, queries.CountSlots(slots))
	assert.Equal(t, &queries.SlotStats{}, queries.CountSlots(nil))
}

func TestBookingQueries_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := queriesmock.NewMockBookingReadStore(ctrl)
	q := queries.NewBookingQueries(store)

	view := builder.NewBookingBuilder().ForUser("uid-owner").BuildView()

	cases := []struct {
		name    string
		actor   *user.Identity
		wantErr error
	}{
		{"owner", authtest.MustIdentity(t, "uid-owner", "", user.RoleViewer), nil},
		{"operator", authtest.MustIdentity(t, "uid-gate", "", user.RoleOperator), nil},
		{"admin", authtest.MustIdentity(t, "uid-admin", "", user.RoleAdmin), nil},
		{"other viewer", authtest.MustIdentity(t, "uid-other", "", user.RoleViewer), errs.ErrBookingAccess},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)

			got, err := q.Get(context.Background(), tc.actor, view.ID)
			if tc.wantErr != nil {
				assert.True(t, errs.Is(err, tc.wantErr), "got %v", err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, view, got)
		})
	}

	t.Run("anonymous", func(t *testing.T) {
		_, err := q.Get(context.Background(), nil, view.ID)
		assert.True(t, errs.Is(err, errs.ErrUnauthenticated))
	})

	t.Run("unknown booking", func(t *testing.T) {
		id := uuid.New()
		store.EXPECT().FindByID(gomock.Any(), id).Return(nil, notFound())

		_, err := q.Get(context.Background(), authtest.MustIdentity(t, "uid-owner", "", user.RoleViewer), id)
		assert.True(t, errs.Is(err, errs.ErrBookingNotFound))
	})
}

func TestCursor_RoundTrip(t *testing.T) {
	at := time.Date(2025, 3, 1, 8, 30, 0, 123456789, time.UTC)
	id := uuid.New()

	gotAt, gotID, err := queries.DecodeAfterCursor(queries.EncodeAfterCursor(at, id))
	require.NoError(t, err)
	assert.True(t, gotAt.Equal(at.Truncate(time.Microsecond)), "got %v", gotAt)
	assert.Equal(t, id, gotID)
}

func TestCursor_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"not base64":    "%%%",
		"no version":    "MTIzLWFiYw==",
		"bad timestamp": "djE6eHl6LTAwMDAwMDAwLTAwMDAtMDAwMC0wMDAwLTAwMDAwMDAwMDAwMA==",
		"bad uuid":      "djE6MTIzLW5vdC1hLXV1aWQ=",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := queries.DecodeAfterCursor(raw)
			assert.True(t, errs.Is(err, errs.ErrInvalidCursor), "got %v", err)
		})
	}
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(0))
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(-5))
	assert.Equal(t, 7, queries.ValidateLimit(7))
	assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(10_000))
}

func TestBookingQueries_ListByUserPages(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := queriesmock.NewMockBookingReadStore(ctrl)
	q := queries.NewBookingQueries(store)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	views := make([]*queries.BookingView, 3)
	for i := range views {
		views[i] = builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.CreatedAt = base.Add(-time.Duration(i) * time.Minute)
		}).BuildView()
	}

	t.Run("first page carries a cursor when more rows exist", func(t *testing.T) {
		store.EXPECT().ListByUserPage(gomock.Any(), "uid-driver", (*queries.Keyset)(nil), 3).Return(views, nil)

		got, next, err := q.ListByUser(context.Background(), "uid-driver", nil, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.NotNil(t, next)

		at, id, err := queries.DecodeAfterCursor(next.After)
		require.NoError(t, err)
		assert.True(t, at.Equal(views[1].CreatedAt))
		assert.Equal(t, views[1].ID, id)
	})

	t.Run("cursor is passed down as a keyset", func(t *testing.T) {
		cursor := &queries.Cursor{After: queries.EncodeAfterCursor(views[1].CreatedAt, views[1].ID)}
		store.EXPECT().ListByUserPage(gomock.Any(), "uid-driver", gomock.Any(), 3).
			DoAndReturn(func(_ context.Context, _ string, after *queries.Keyset, _ int) ([]*queries.BookingView, error) {
				require.NotNil(t, after)
				assert.True(t, after.CreatedAt.Equal(views[1].CreatedAt))
				assert.Equal(t, views[1].ID, after.ID)
				return views[2:], nil
			})

		got, next, err := q.ListByUser(context.Background(), "uid-driver", cursor, 2)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Nil(t, next)
	})

	t.Run("bad cursor", func(t *testing.T) {
		_, _, err := q.ListByUser(context.Background(), "uid-driver", &queries.Cursor{After: "garbage"}, 2)
		assert.True(t, errs.Is(err, errs.ErrInvalidCursor), "got %v", err)
	})

	t.Run("empty result is not nil", func(t *testing.T) {
		store.EXPECT().ListAllPage(gomock.Any(), (*queries.Keyset)(nil), queries.DefaultListLimit+1).Return(nil, nil)

		got, next, err := q.ListAll(context.Background(), nil, 0)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.Nil(t, next)
	})

	t.Run("store failure", func(t *testing.T) {
		store.EXPECT().ListAllPage(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("down"))

		_, _, err := q.ListAll(context.Background(), nil, 5)
		assert.True(t, errs.Is(err, errs.ErrStoreUnavailable))
	})
}
