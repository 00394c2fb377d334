package events

import (
	"context"
	"sync"

	"parkpass/internal/pkg/errs"
	"parkpass/internal/usecase/shared"

	amqp "github.com/rabbitmq/amqp091-go"
)

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher delivers one outbox message to the broker.
type Publisher interface {
	Publish(ctx context.Context, msg shared.OutboxMessage) error
}

// AMQPPublisher publishes outbox messages to a durable topic exchange. The
// outbox id becomes the AMQP message id so consumers can drop redeliveries.
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string

	// amqp channels are not safe for concurrent publishing.
	mu sync.Mutex
	ch amqpChannel
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errs.Wrap(err, "dial rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "open channel")
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errs.Wrapf(err, "declare exchange %s", exchange)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, msg shared.OutboxMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.ch.PublishWithContext(ctx, p.exchange, msg.RoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID.String(),
		Timestamp:    msg.CreatedAt.UTC(),
		Type:         msg.RoutingKey,
		Body:         msg.Payload,
	})
	if err != nil {
		return errs.Wrapf(err, "publish %s", msg.RoutingKey)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Nop drops every message. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, shared.OutboxMessage) error { return nil }
