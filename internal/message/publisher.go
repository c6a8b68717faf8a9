package message

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const leasingQueueName = "leasing.events"

// LeasingEvent is the wire form of a lifecycle notification pushed to the
// event queue for downstream consumers (mail, push, analytics).
type LeasingEvent struct {
	LeasingID  string    `json:"leasing_id"`
	Kind       string    `json:"kind"`
	FromUserID string    `json:"from_user_id"`
	ToUserID   string    `json:"to_user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher pushes leasing events to an external queue. Implementations
// must be safe to fail: publishing is strictly best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, event LeasingEvent) error
}

// AMQPPublisher publishes events to a durable RabbitMQ queue. Connections
// are opened per publish; the event volume is a handful per leasing, far
// below where channel pooling would pay off.
type AMQPPublisher struct {
	url string
}

func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url}
}

func (p *AMQPPublisher) Publish(ctx context.Context, event LeasingEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(leasingQueueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", leasingQueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, LeasingEvent) error { return nil }
