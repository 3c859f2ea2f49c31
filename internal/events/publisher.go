// Package events publishes order lifecycle events to Kafka and consumes PIX
// payment confirmations relayed by the bank integration.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alebarre/italicita/internal/domain"
	"github.com/alebarre/italicita/internal/pricing"
	"github.com/segmentio/kafka-go"
)

const (
	OrdersTopic = "storefront-orders"

	EventOrderPlaced      = "order.placed"
	EventPaymentConfirmed = "payment.confirmed"
)

// OrderEvent is the payload of every event on the orders topic.
type OrderEvent struct {
	OrderID       string    `json:"order_id"`
	Number        string    `json:"number"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	Total         string    `json:"total"`
	ItemCount     int       `json:"item_count"`
	PaymentID     string    `json:"payment_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  OrdersTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w}
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, EventOrderPlaced, newOrderEvent(order, ""))
}

func (p *Publisher) PublishPaymentConfirmed(ctx context.Context, order *domain.Order, paymentID string) error {
	return p.publish(ctx, EventPaymentConfirmed, newOrderEvent(order, paymentID))
}

func (p *Publisher) publish(ctx context.Context, eventType string, event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID), // keeps one order's events in order
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s event: %w", eventType, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func newOrderEvent(order *domain.Order, paymentID string) OrderEvent {
	count := 0
	for _, l := range order.Items {
		count += l.Quantity
	}
	return OrderEvent{
		OrderID:       order.ID.String(),
		Number:        order.Number,
		PaymentMethod: string(order.PaymentMethod),
		Status:        order.Status.String(),
		Total:         pricing.Fixed(order.Total),
		ItemCount:     count,
		PaymentID:     paymentID,
		OccurredAt:    time.Now().UTC(),
	}
}

// Noop drops every event. Used when no brokers are configured.
type Noop struct{}

func (Noop) PublishOrderPlaced(context.Context, *domain.Order) error { return nil }

func (Noop) PublishPaymentConfirmed(context.Context, *domain.Order, string) error { return nil }

func (Noop) Close() error { return nil }
