//go:build unit

package boltstore_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"parkpass/internal/domain/booking"
	"parkpass/internal/infra"
	"parkpass/internal/infra/boltstore"
	"parkpass/internal/usecase/queries"
	"parkpass/internal/usecase/shared"
	"parkpass/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *boltstore.Store {
	t.Helper()
	store, err := boltstore.Open(filepath.Join(t.TempDir(), "parkpass.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func enqueue(t *testing.T, store *boltstore.Store, keys ...string) {
	t.Helper()
	err := boltstore.NewBoltUoW(store).Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		for _, k := range keys {
			if err := tx.Outbox().Enqueue(ctx, shared.OutboxMessage{
				ID:         uuid.New(),
				RoutingKey: k,
				Payload:    []byte(`{}`),
				CreatedAt:  time.Now(),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestOutboxStore_Drain(t *testing.T) {
	store := openStore(t)
	outbox := boltstore.NewOutboxStore(store)
	enqueue(t, store, "a", "b", "c")

	var (
		delivered []string
		attempts  = map[string]int{}
	)
	deliver := func(_ context.Context, msg shared.OutboxMessage) error {
		attempts[msg.RoutingKey] = msg.Attempts
		if msg.RoutingKey == "b" {
			return errors.New("broker down")
		}
		delivered = append(delivered, msg.RoutingKey)
		return nil
	}
	later := func(int) time.Time { return time.Now().Add(time.Hour) }

	n, err := outbox.Drain(context.Background(), 10, deliver, later)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a", "c"}, delivered)

	n, err = outbox.Drain(context.Background(), 10, deliver, later)
	require.NoError(t, err)
	assert.Zero(t, n, "rescheduled message is not due yet")
	assert.Equal(t, []string{"a", "c"}, delivered)

	enqueue(t, store, "d")
	n, err = outbox.Drain(context.Background(), 1, deliver, later)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "a message queued behind a rescheduled one still goes out")
	assert.Equal(t, []string{"a", "c", "d"}, delivered)
	assert.Equal(t, 0, attempts["b"])
}

func TestOutboxStore_RetriesFailedMessages(t *testing.T) {
	store := openStore(t)
	outbox := boltstore.NewOutboxStore(store)
	enqueue(t, store, "a")

	fail := func(context.Context, shared.OutboxMessage) error { return errors.New("broker down") }
	past := func(int) time.Time { return time.Now().Add(-time.Second) }

	_, err := outbox.Drain(context.Background(), 10, fail, past)
	require.NoError(t, err)

	var seen shared.OutboxMessage
	n, err := outbox.Drain(context.Background(), 10, func(_ context.Context, msg shared.OutboxMessage) error {
		seen = msg
		return nil
	}, past)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "a", seen.RoutingKey)
	assert.Equal(t, 1, seen.Attempts)

	n, err = outbox.Drain(context.Background(), 10, fail, past)
	require.NoError(t, err)
	assert.Zero(t, n, "sent messages are gone")
}

func TestIdempotencyRepository(t *testing.T) {
	store := openStore(t)
	uow := boltstore.NewBoltUoW(store)
	key := uuid.New()
	rec := shared.IdempotencyRecord{
		Key:         key,
		UserID:      "uid-1",
		RequestHash: "abc",
		BookingID:   uuid.New(),
		ExpiresAt:   time.Now().Add(time.Hour),
	}

	err := uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Idempotency().Find(ctx, "uid-1", key)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
		return tx.Idempotency().Save(ctx, rec)
	})
	require.NoError(t, err)

	err = uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		got, err := tx.Idempotency().Find(ctx, "uid-1", key)
		require.NoError(t, err)
		assert.Equal(t, rec.BookingID, got.BookingID)
		assert.Equal(t, "abc", got.RequestHash)

		_, err = tx.Idempotency().Find(ctx, "uid-2", key)
		assert.True(t, infra.IsKind(err, infra.KindNotFound), "keys are per user")

		err = tx.Idempotency().Save(ctx, rec)
		assert.True(t, infra.IsKind(err, infra.KindConflict), "live key cannot be replaced")
		return nil
	})
	require.NoError(t, err)
}

func TestBookingRepository_SetPaymentRefOnSettled(t *testing.T) {
	store := openStore(t)
	paid := "chrg_paid"
	seeded := builder.NewBookingBuilder().WithPayment("confirmed", &paid).MustBuildDomain()
	require.NoError(t, store.PutBooking(context.Background(), seeded))

	err := boltstore.NewBoltUoW(store).Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Bookings().SetPaymentRef(ctx, seeded.ID(), "chrg_again")
	})
	assert.True(t, errors.Is(err, booking.ErrPaymentSettled), "got %v", err)

	view, err := boltstore.NewBookingReadStore(store).FindByID(context.Background(), seeded.ID())
	require.NoError(t, err)
	require.NotNil(t, view.PaymentRef)
	assert.Equal(t, paid, *view.PaymentRef)
}

func TestBookingReadStore_Pages(t *testing.T) {
	store := openStore(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		b := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.CreatedAt = base.Add(time.Duration(i) * time.Minute)
			if i == 4 {
				b.UserID = "uid-other"
			}
		}).MustBuildDomain()
		require.NoError(t, store.PutBooking(context.Background(), b))
	}
	reads := boltstore.NewBookingReadStore(store)

	var (
		seen  []*queries.BookingView
		after *queries.Keyset
	)
	for {
		page, err := reads.ListByUserPage(context.Background(), "uid-driver", after, 2)
		require.NoError(t, err)
		seen = append(seen, page...)
		if len(page) < 2 {
			break
		}
		last := page[len(page)-1]
		after = &queries.Keyset{CreatedAt: last.CreatedAt, ID: last.ID}
	}

	require.Len(t, seen, 4)
	for i := 1; i < len(seen); i++ {
		assert.True(t, seen[i-1].CreatedAt.After(seen[i].CreatedAt), "newest first")
	}

	all, err := reads.ListAllPage(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, "uid-other", all[0].UserID)
}
