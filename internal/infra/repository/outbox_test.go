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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOutboxWriteQueries struct {
	mock.Mock
}

func (m *MockOutboxWriteQueries) CreateOutboxEvent(ctx context.Context, db pgstore.DBTX, arg pgstore.CreateOutboxEventParams) error {
	args := m.Called(ctx, db, arg)
	return args.Error(0)
}

func TestOutboxRepository_Enqueue(t *testing.T) {
	msg := shared.OutboxMessage{
		ID:         uuid.New(),
		RoutingKey: "booking.reserved",
		Payload:    []byte(`{"booking_id":"b-1"}`),
		CreatedAt:  time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
	}
	params := pgstore.CreateOutboxEventParams{
		ID:         msg.ID,
		RoutingKey: msg.RoutingKey,
		Payload:    msg.Payload,
		CreatedAt:  msg.CreatedAt,
	}

	t.Run("writes the row", func(t *testing.T) {
		mockQueries := new(MockOutboxWriteQueries)
		mockQueries.On("CreateOutboxEvent", mock.Anything, mock.Anything, params).Return(nil)

		require.NoError(t, NewOutboxRepository(mockQueries, nil).Enqueue(context.Background(), msg))
		mockQueries.AssertExpectations(t)
	})

	t.Run("driver failure", func(t *testing.T) {
		mockQueries := new(MockOutboxWriteQueries)
		mockQueries.On("CreateOutboxEvent", mock.Anything, mock.Anything, params).Return(errors.New("conn reset"))

		err := NewOutboxRepository(mockQueries, nil).Enqueue(context.Background(), msg)
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}
