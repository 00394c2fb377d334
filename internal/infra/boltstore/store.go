package boltstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"parkpass/internal/domain/booking"
	"parkpass/internal/domain/slot"
	"parkpass/internal/infra"
	"parkpass/internal/usecase/liveview"

	"github.com/boltdb/bolt"
)

var (
	bucketSlots       = []byte("parking_slots")
	bucketBookings    = []byte("bookings")
	bucketIdempotency = []byte("idempotency_keys")
	bucketOutbox      = []byte("event_outbox")
)

// Store is a single-file embedded store. bolt allows one writer at a time,
// so every Update transaction is serializable.
type Store struct {
	db   *bolt.DB
	feed *Feed
}

func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketSlots, bucketBookings, bucketIdempotency, bucketOutbox} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bolt buckets: %w", err)
	}

	return &Store{db: db, feed: newFeed()}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Feed returns the in-process change feed fed after each commit.
func (s *Store) Feed() *Feed {
	return s.feed
}

// PutSlot inserts or replaces a slot. Used for seeding.
func (s *Store) PutSlot(_ context.Context, sl *slot.Slot) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return putJSON(tx.Bucket(bucketSlots), sl.ID().String(), slotToRecord(sl))
	})
	if err != nil {
		return infra.WrapRepoErr("failed to put slot", err)
	}
	s.feed.broadcast([]liveview.Change{{Collection: liveview.CollectionSlots, ID: sl.ID().String()}})
	return nil
}

// PutBooking inserts or replaces a booking. Used for seeding.
func (s *Store) PutBooking(_ context.Context, b *booking.Booking) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return putJSON(tx.Bucket(bucketBookings), b.ID().String(), bookingToRecord(b))
	})
	if err != nil {
		return infra.WrapRepoErr("failed to put booking", err)
	}
	s.feed.broadcast([]liveview.Change{{Collection: liveview.CollectionBookings, ID: b.ID().String(), UserID: b.UserID()}})
	return nil
}

func putJSON(b *bolt.Bucket, key string, v any) error {
	return putJSONKey(b, []byte(key), v)
}

func putJSONKey(b *bolt.Bucket, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put(key, data)
}

func getJSON(b *bolt.Bucket, key string, v any) (bool, error) {
	data := b.Get([]byte(key))
	if data == nil {
		return false, nil
	}
	return true, json.Unmarshal(data, v)
}

// Feed fans committed changes out to Run callers.
type Feed struct {
	mu    sync.Mutex
	emits map[int]func(liveview.Change)
	next  int
}

func newFeed() *Feed {
	return &Feed{emits: make(map[int]func(liveview.Change))}
}

func (f *Feed) Run(ctx context.Context, emit func(liveview.Change)) error {
	f.mu.Lock()
	id := f.next
	f.next++
	f.emits[id] = emit
	f.mu.Unlock()

	// Commits before registration were not seen by this caller.
	emit(liveview.Resync())

	<-ctx.Done()

	f.mu.Lock()
	delete(f.emits, id)
	f.mu.Unlock()
	return nil
}

func (f *Feed) broadcast(changes []liveview.Change) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range changes {
		for _, emit := range f.emits {
			emit(c)
		}
	}
}
