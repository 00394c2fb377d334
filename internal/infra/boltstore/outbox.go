package boltstore

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"parkpass/internal/infra"
	"parkpass/internal/usecase/shared"

	"github.com/boltdb/bolt"
)

// OutboxStore drains the outbox bucket. Delivery happens outside bolt's
// writer lock so a slow broker never stalls reservations; one process owns
// the file, so no other relay can pick the same entries.
type OutboxStore struct {
	store *Store
}

func NewOutboxStore(store *Store) *OutboxStore {
	return &OutboxStore{store: store}
}

type dueEntry struct {
	key []byte
	rec outboxRecord
}

func (s *OutboxStore) Drain(
	ctx context.Context,
	limit int,
	deliver func(ctx context.Context, msg shared.OutboxMessage) error,
	retryAt func(attempts int) time.Time,
) (int, error) {
	due, err := s.due(limit, time.Now())
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	failures := make(map[string]error, len(due))
	for _, e := range due {
		if err := deliver(ctx, e.rec.toShared()); err != nil {
			failures[string(e.key)] = err
		}
	}

	sent := 0
	err = s.store.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketOutbox)
		for _, e := range due {
			deliverErr, failed := failures[string(e.key)]
			if !failed {
				if err := b.Delete(e.key); err != nil {
					return err
				}
				sent++
				continue
			}
			rec := e.rec
			rec.Attempts++
			rec.LastError = deliverErr.Error()
			rec.AvailableAt = retryAt(rec.Attempts)
			if err := putJSONKey(b, e.key, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, infra.WrapRepoErr("failed to record outbox delivery", err)
	}
	return sent, nil
}

func (s *OutboxStore) due(limit int, now time.Time) ([]dueEntry, error) {
	var due []dueEntry
	err := s.store.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketOutbox).Cursor()
		for k, v := c.First(); k != nil && len(due) < limit; k, v = c.Next() {
			var rec outboxRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if rec.AvailableAt.After(now) {
				continue
			}
			due = append(due, dueEntry{key: bytes.Clone(k), rec: rec})
		}
		return nil
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read outbox", err)
	}
	return due, nil
}
