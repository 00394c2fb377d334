package boltstore

import (
	"context"
	"encoding/json"
	"sort"

	"parkpass/internal/infra"
	"parkpass/internal/usecase/queries"

	"github.com/boltdb/bolt"
	"github.com/google/uuid"
)

type SlotReadStore struct {
	store *Store
}

func NewSlotReadStore(store *Store) *SlotReadStore {
	return &SlotReadStore{store: store}
}

func (r *SlotReadStore) List(_ context.Context) ([]*queries.SlotView, error) {
	var views []*queries.SlotView
	err := r.store.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSlots).ForEach(func(_, v []byte) error {
			var rec slotRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			views = append(views, rec.toView())
			return nil
		})
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list slots", err)
	}

	sort.Slice(views, func(i, j int) bool {
		if views[i].Name != views[j].Name {
			return views[i].Name < views[j].Name
		}
		return views[i].ID.String() < views[j].ID.String()
	})
	if views == nil {
		views = []*queries.SlotView{}
	}
	return views, nil
}

func (r *SlotReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.SlotView, error) {
	var (
		rec   slotRecord
		found bool
	)
	err := r.store.db.View(func(tx *bolt.Tx) error {
		var err error
		found, err = getJSON(tx.Bucket(bucketSlots), id.String(), &rec)
		return err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find slot by ID", err)
	}
	if !found {
		return nil, infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
	}
	return rec.toView(), nil
}

func (r *SlotReadStore) Stats(ctx context.Context) (*queries.SlotStats, error) {
	views, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return queries.CountSlots(views), nil
}

type BookingReadStore struct {
	store *Store
}

func NewBookingReadStore(store *Store) *BookingReadStore {
	return &BookingReadStore{store: store}
}

func (r *BookingReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var (
		rec   bookingRecord
		found bool
	)
	err := r.store.db.View(func(tx *bolt.Tx) error {
		var err error
		found, err = getJSON(tx.Bucket(bucketBookings), id.String(), &rec)
		return err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	if !found {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return rec.toView(), nil
}

func (r *BookingReadStore) ListByUser(_ context.Context, userID string) ([]*queries.BookingView, error) {
	return r.list(func(rec bookingRecord) bool { return rec.UserID == userID })
}

func (r *BookingReadStore) ListAll(_ context.Context) ([]*queries.BookingView, error) {
	return r.list(func(bookingRecord) bool { return true })
}

func (r *BookingReadStore) ListByUserPage(_ context.Context, userID string, after *queries.Keyset, limit int) ([]*queries.BookingView, error) {
	views, err := r.list(func(rec bookingRecord) bool { return rec.UserID == userID })
	if err != nil {
		return nil, err
	}
	return pageAfter(views, after, limit), nil
}

func (r *BookingReadStore) ListAllPage(_ context.Context, after *queries.Keyset, limit int) ([]*queries.BookingView, error) {
	views, err := r.list(func(bookingRecord) bool { return true })
	if err != nil {
		return nil, err
	}
	return pageAfter(views, after, limit), nil
}

// pageAfter expects views newest first, as list returns them.
func pageAfter(views []*queries.BookingView, after *queries.Keyset, limit int) []*queries.BookingView {
	start := 0
	if after != nil {
		start = sort.Search(len(views), func(i int) bool {
			v := views[i]
			if !v.CreatedAt.Equal(after.CreatedAt) {
				return v.CreatedAt.Before(after.CreatedAt)
			}
			return v.ID.String() < after.ID.String()
		})
	}
	end := min(start+limit, len(views))
	return views[start:end]
}

// list returns matching bookings newest first.
func (r *BookingReadStore) list(match func(bookingRecord) bool) ([]*queries.BookingView, error) {
	views := []*queries.BookingView{}
	err := r.store.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBookings).ForEach(func(_, v []byte) error {
			var rec bookingRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if match(rec) {
				views = append(views, rec.toView())
			}
			return nil
		})
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}

	sort.Slice(views, func(i, j int) bool {
		if !views[i].CreatedAt.Equal(views[j].CreatedAt) {
			return views[i].CreatedAt.After(views[j].CreatedAt)
		}
		return views[i].ID.String() > views[j].ID.String()
	})
	return views, nil
}
