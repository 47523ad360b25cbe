package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dwikikusuma/storefront/internal/checkout/app"
	"github.com/dwikikusuma/storefront/internal/checkout/domain"
	"github.com/dwikikusuma/storefront/internal/checkout/infra/publisher"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	exchangeName = "checkout.events"
	routingKey   = "checkout.initiated"
	queueName    = "checkout.initiated.q"
)

var ErrNacked = errors.New("broker rejected message")

// Publisher sends checkout hand-offs to a topic exchange and waits for the
// broker confirm. An amqp.Channel is not safe for concurrent publishing, so
// publishes are serialized.
type Publisher struct {
	mu sync.Mutex
	ch *amqp.Channel
}

// NewPublisher declares the exchange, queue and binding once at startup.
func NewPublisher(ch *amqp.Channel) (*Publisher, error) {
	if err := ch.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, routingKey, exchangeName, false, nil); err != nil {
		return nil, fmt.Errorf("queue bind: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}

	return &Publisher{ch: ch}, nil
}

func (p *Publisher) PublishInitiated(ctx context.Context, msg domain.Initiated) error {
	pub, err := publishing(msg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	confirm, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, exchangeName, routingKey, false, false, pub)
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("await confirm: %w", err)
	}
	if !acked {
		return ErrNacked
	}
	return nil
}

func publishing(msg domain.Initiated) (amqp.Publishing, error) {
	body, err := json.Marshal(publisher.ToMessage(msg))
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal message: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.CheckoutID,
		Timestamp:    msg.CreatedAt,
		Body:         body,
	}, nil
}

var _ app.Publisher = (*Publisher)(nil)
