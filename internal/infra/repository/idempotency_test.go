//go:build unit

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"parkpass/internal/infra"
	"parkpass/internal/infra/pgstore"
	"parkpass/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockIdempotencyWriteQueries struct {
	mock.Mock
}

func (m *MockIdempotencyWriteQueries) GetIdempotencyKey(ctx context.Context, db pgstore.DBTX, userID string, key uuid.UUID) (pgstore.IdempotencyKey, error) {
	args := m.Called(ctx, db, userID, key)
	return args.Get(0).(pgstore.IdempotencyKey), args.Error(1)
}

func (m *MockIdempotencyWriteQueries) UpsertIdempotencyKey(ctx context.Context, db pgstore.DBTX, arg pgstore.UpsertIdempotencyKeyParams) (int64, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(int64), args.Error(1)
}

func TestIdempotencyRepository_Find(t *testing.T) {
	key := uuid.New()

	t.Run("maps the row", func(t *testing.T) {
		row := pgstore.IdempotencyKey{
			UserID:      "uid-1",
			Key:         key,
			RequestHash: "abc",
			BookingID:   uuid.New(),
			ExpiresAt:   time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		}
		mockQueries := new(MockIdempotencyWriteQueries)
		mockQueries.On("GetIdempotencyKey", mock.Anything, mock.Anything, "uid-1", key).Return(row, nil)

		got, err := NewIdempotencyRepository(mockQueries, nil).Find(context.Background(), "uid-1", key)
		require.NoError(t, err)
		assert.Equal(t, &shared.IdempotencyRecord{
			Key:         key,
			UserID:      "uid-1",
			RequestHash: "abc",
			BookingID:   row.BookingID,
			ExpiresAt:   row.ExpiresAt,
		}, got)
	})

	t.Run("unknown key is not found", func(t *testing.T) {
		mockQueries := new(MockIdempotencyWriteQueries)
		mockQueries.On("GetIdempotencyKey", mock.Anything, mock.Anything, "uid-1", key).
			Return(pgstore.IdempotencyKey{}, pgx.ErrNoRows)

		_, err := NewIdempotencyRepository(mockQueries, nil).Find(context.Background(), "uid-1", key)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

func TestIdempotencyRepository_Save(t *testing.T) {
	rec := shared.IdempotencyRecord{
		Key:         uuid.New(),
		UserID:      "uid-1",
		RequestHash: "abc",
		BookingID:   uuid.New(),
		ExpiresAt:   time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	params := pgstore.UpsertIdempotencyKeyParams{
		UserID:      rec.UserID,
		Key:         rec.Key,
		RequestHash: rec.RequestHash,
		BookingID:   rec.BookingID,
		ExpiresAt:   rec.ExpiresAt,
	}

	tests := []struct {
		name     string
		affected int64
		err      error
		wantKind infra.RepositoryErrorKind
	}{
		{name: "stored", affected: 1},
		{name: "live key held by another request", affected: 0, wantKind: infra.KindConflict},
		{name: "concurrent insert", err: &pgconn.PgError{Code: "23505"}, wantKind: infra.KindConflict},
		{name: "driver failure", err: errors.New("conn reset"), wantKind: infra.KindDBFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockQueries := new(MockIdempotencyWriteQueries)
			mockQueries.On("UpsertIdempotencyKey", mock.Anything, mock.Anything, params).Return(tt.affected, tt.err)

			err := NewIdempotencyRepository(mockQueries, nil).Save(context.Background(), rec)
			if tt.wantKind == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, infra.IsKind(err, tt.wantKind), "got %v", err)
		})
	}
}
