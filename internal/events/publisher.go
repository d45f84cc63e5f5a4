// Package events publishes order lifecycle events to a RabbitMQ topic
// exchange so downstream consumers (kitchen displays, notifications,
// analytics) can react without polling the database.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"feastly/internal/model"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Routing keys for the order lifecycle.
const (
	RouteOrderCreated   = "order.created"
	RouteOrderCancelled = "order.cancelled"
	RoutePaymentSettled = "payment.settled"
)

// OrderEvent is the wire format for order lifecycle events.
type OrderEvent struct {
	OrderID     uuid.UUID         `json:"orderId"`
	UserID      uuid.UUID         `json:"userId"`
	Status      model.OrderStatus `json:"status"`
	TotalAmount string            `json:"totalAmount"`
	OccurredAt  time.Time         `json:"occurredAt"`
}

// Publisher emits order lifecycle events. Publishing is best effort: callers
// log failures but never fail the request over them.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event OrderEvent) error
	Close() error
}

// amqpPublisher publishes events to a RabbitMQ topic exchange.
type amqpPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   zerolog.Logger
}

// NewPublisher connects to RabbitMQ and declares the topic exchange.
func NewPublisher(url, exchange string, logger zerolog.Logger) (Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,      // args
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &amqpPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger.With().Str("component", "event_publisher").Logger(),
	}, nil
}

// Publish emits one event to the exchange.
func (p *amqpPublisher) Publish(ctx context.Context, routingKey string, event OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("routing_key", routingKey).
			Str("order_id", event.OrderID.String()).
			Msg("failed to publish event")
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug().
		Str("routing_key", routingKey).
		Str("order_id", event.OrderID.String()).
		Msg("event published")

	return nil
}

// Close closes the channel and connection.
func (p *amqpPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// NopPublisher discards all events. Used when event publishing is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, routingKey string, event OrderEvent) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
