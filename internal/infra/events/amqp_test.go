//go:build unit

package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"parkpass/internal/usecase/shared"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedPublish struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	published []recordedPublish
	err       error
	closed    bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, recordedPublish{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch, exchange: "parkpass.events"}

	msg := shared.OutboxMessage{
		ID:         uuid.New(),
		RoutingKey: "slot.released",
		Payload:    []byte(`{"slot_id":"s-1"}`),
		CreatedAt:  time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), msg))

	require.Len(t, ch.published, 1)
	got := ch.published[0]
	assert.Equal(t, "parkpass.events", got.exchange)
	assert.Equal(t, "slot.released", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, msg.ID.String(), got.msg.MessageId)
	assert.Equal(t, msg.CreatedAt, got.msg.Timestamp)
	assert.JSONEq(t, `{"slot_id":"s-1"}`, string(got.msg.Body))

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestAMQPPublisher_BrokerFailure(t *testing.T) {
	p := &AMQPPublisher{ch: &fakeChannel{err: errors.New("channel closed")}, exchange: "x"}
	err := p.Publish(context.Background(), shared.OutboxMessage{ID: uuid.New(), RoutingKey: "booking.reserved"})
	assert.ErrorContains(t, err, "channel closed")
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), shared.OutboxMessage{}))
}
