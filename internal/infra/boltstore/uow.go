package boltstore

import (
	"context"
	"time"

	"parkpass/internal/domain/booking"
	"parkpass/internal/domain/slot"
	"parkpass/internal/infra"
	"parkpass/internal/pkg/errs"
	"parkpass/internal/usecase/liveview"
	"parkpass/internal/usecase/shared"

	"github.com/boltdb/bolt"
	"github.com/google/uuid"
)

type BoltUoW struct {
	store *Store
}

func NewBoltUoW(store *Store) shared.UnitOfWork {
	return &BoltUoW{store: store}
}

// Within holds bolt's writer lock for the whole of fn. Changes are broadcast
// only after a successful commit.
func (u *BoltUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var pending []liveview.Change
	err := u.store.db.Update(func(btx *bolt.Tx) error {
		tx := &boltTx{btx: btx}
		if err := fn(ctx, tx); err != nil {
			return err
		}
		pending = tx.changes
		return nil
	})
	if err != nil {
		return err
	}

	u.store.feed.broadcast(pending)
	return nil
}

type boltTx struct {
	btx     *bolt.Tx
	changes []liveview.Change
}

func (t *boltTx) Slots() shared.SlotRepository              { return &slotRepository{tx: t} }
func (t *boltTx) Bookings() shared.BookingRepository        { return &bookingRepository{tx: t} }
func (t *boltTx) Idempotency() shared.IdempotencyRepository { return &idempotencyRepository{tx: t} }
func (t *boltTx) Outbox() shared.OutboxRepository           { return &outboxRepository{tx: t} }

type slotRepository struct {
	tx *boltTx
}

func (r *slotRepository) FindByID(_ context.Context, id uuid.UUID) (*slot.Slot, error) {
	var rec slotRecord
	found, err := getJSON(r.tx.btx.Bucket(bucketSlots), id.String(), &rec)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode slot", err)
	}
	if !found {
		return nil, infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
	}

	s, err := rec.toDomain()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert slot record", err)
	}
	return s, nil
}

func (r *slotRepository) Update(_ context.Context, s *slot.Slot) error {
	b := r.tx.btx.Bucket(bucketSlots)

	var current slotRecord
	found, err := getJSON(b, s.ID().String(), &current)
	if err != nil {
		return infra.WrapRepoErr("failed to decode slot", err)
	}
	if !found {
		return infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
	}
	if current.Version != s.Version() {
		return infra.WrapRepoErr("slot version changed concurrently", nil, infra.KindConflict)
	}

	rec := slotToRecord(s)
	rec.CreatedAt = current.CreatedAt
	rec.Version = current.Version + 1
	if err := putJSON(b, s.ID().String(), rec); err != nil {
		return infra.WrapRepoErr("failed to update slot", err)
	}

	r.tx.changes = append(r.tx.changes, liveview.Change{
		Collection: liveview.CollectionSlots,
		ID:         s.ID().String(),
	})
	return nil
}

type bookingRepository struct {
	tx *boltTx
}

func (r *bookingRepository) Create(_ context.Context, bk *booking.Booking) error {
	b := r.tx.btx.Bucket(bucketBookings)
	if b.Get([]byte(bk.ID().String())) != nil {
		return infra.WrapRepoErr("booking already exists", nil, infra.KindConflict)
	}
	if err := putJSON(b, bk.ID().String(), bookingToRecord(bk)); err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	r.record(bk.ID(), bk.UserID())
	return nil
}

func (r *bookingRepository) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	rec, err := r.load(id)
	if err != nil {
		return nil, err
	}
	bk, err := rec.toDomain()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert booking record", err)
	}
	return bk, nil
}

func (r *bookingRepository) SetPaymentRef(_ context.Context, id uuid.UUID, ref string) error {
	rec, err := r.load(id)
	if err != nil {
		return err
	}
	if rec.PaymentStatus != booking.PaymentPending.String() {
		return errs.Wrapf(booking.ErrPaymentSettled, "booking %s is %s", id, rec.PaymentStatus)
	}
	rec.PaymentRef = &ref
	if err := putJSON(r.tx.btx.Bucket(bucketBookings), id.String(), rec); err != nil {
		return infra.WrapRepoErr("failed to set booking payment reference", err)
	}
	r.record(id, rec.UserID)
	return nil
}

func (r *bookingRepository) load(id uuid.UUID) (bookingRecord, error) {
	var rec bookingRecord
	found, err := getJSON(r.tx.btx.Bucket(bucketBookings), id.String(), &rec)
	if err != nil {
		return rec, infra.WrapRepoErr("failed to decode booking", err)
	}
	if !found {
		return rec, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return rec, nil
}

func (r *bookingRepository) record(id uuid.UUID, userID string) {
	r.tx.changes = append(r.tx.changes, liveview.Change{
		Collection: liveview.CollectionBookings,
		ID:         id.String(),
		UserID:     userID,
	})
}

type idempotencyRepository struct {
	tx *boltTx
}

func idempotencyKey(userID string, key uuid.UUID) string {
	return userID + "\x00" + key.String()
}

func (r *idempotencyRepository) Find(_ context.Context, userID string, key uuid.UUID) (*shared.IdempotencyRecord, error) {
	var rec idempotencyRecord
	found, err := getJSON(r.tx.btx.Bucket(bucketIdempotency), idempotencyKey(userID, key), &rec)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode idempotency key", err)
	}
	if !found {
		return nil, infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return rec.toShared(), nil
}

func (r *idempotencyRepository) Save(_ context.Context, rec shared.IdempotencyRecord) error {
	b := r.tx.btx.Bucket(bucketIdempotency)
	k := idempotencyKey(rec.UserID, rec.Key)

	var current idempotencyRecord
	found, err := getJSON(b, k, &current)
	if err != nil {
		return infra.WrapRepoErr("failed to decode idempotency key", err)
	}
	if found && time.Now().Before(current.ExpiresAt) {
		return infra.WrapRepoErr("idempotency key claimed concurrently", nil, infra.KindConflict)
	}
	if err := putJSON(b, k, idempotencyToRecord(rec)); err != nil {
		return infra.WrapRepoErr("failed to save idempotency key", err)
	}
	return nil
}

type outboxRepository struct {
	tx *boltTx
}

func (r *outboxRepository) Enqueue(_ context.Context, msg shared.OutboxMessage) error {
	b := r.tx.btx.Bucket(bucketOutbox)
	seq, err := b.NextSequence()
	if err != nil {
		return infra.WrapRepoErr("failed to allocate outbox sequence", err)
	}
	if err := putJSONKey(b, outboxKey(seq), outboxToRecord(msg)); err != nil {
		return infra.WrapRepoErr("failed to enqueue outbox event", err)
	}
	return nil
}
