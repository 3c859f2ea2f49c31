package events

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alebarre/italicita/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

func setupKafka(t *testing.T) (string, func()) {
	ctx := context.Background()

	kafkaContainer, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err)

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers, "broker address should not be empty")

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate kafka container: %v", err)
		}
	}

	return brokers[0], cleanup
}

func createTopic(t *testing.T, brokerAddr, topic string) {
	conn, err := kafkaGo.Dial("tcp", brokerAddr)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkaGo.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	require.NoError(t, err)
	defer controllerConn.Close()

	err = controllerConn.CreateTopics(kafkaGo.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		t.Logf("topic creation error (may already exist): %v", err)
	}
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:     uuid.New(),
		Number: "IT123456789",
		Items: []domain.CartLine{
			{Quantity: 2, FinalPrice: decimal.RequireFromString("40.90")},
			{Quantity: 1, FinalPrice: decimal.RequireFromString("10.90")},
		},
		Total:         decimal.RequireFromString("97.7"),
		PaymentMethod: domain.PaymentMethodPix,
		Status:        domain.OrderStatusPendingPayment,
	}
}

func TestNewOrderEvent(t *testing.T) {
	order := sampleOrder()

	event := newOrderEvent(order, "pay-1")

	assert.Equal(t, order.ID.String(), event.OrderID)
	assert.Equal(t, "97.70", event.Total)
	assert.Equal(t, 3, event.ItemCount)
	assert.Equal(t, "pix", event.PaymentMethod)
	assert.Equal(t, "pending_payment", event.Status)
	assert.Equal(t, "pay-1", event.PaymentID)
}

func TestNoop(t *testing.T) {
	var n Noop
	assert.NoError(t, n.PublishOrderPlaced(context.Background(), sampleOrder()))
	assert.NoError(t, n.PublishPaymentConfirmed(context.Background(), sampleOrder(), "pay-1"))
	assert.NoError(t, n.Close())
}

func TestPublisher_WritesOrderPlaced(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping kafka container test in short mode")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	broker, cleanup := setupKafka(t)
	defer cleanup()
	createTopic(t, broker, OrdersTopic)

	pub := NewPublisher(broker)
	defer pub.Close()

	order := sampleOrder()
	require.NoError(t, pub.PublishOrderPlaced(ctx, order))

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers: []string{broker},
		Topic:   OrdersTopic,
	})
	defer reader.Close()

	m, err := reader.ReadMessage(ctx)
	require.NoError(t, err)

	assert.Equal(t, order.ID.String(), string(m.Key))
	require.Len(t, m.Headers, 1)
	assert.Equal(t, "event_type", m.Headers[0].Key)
	assert.Equal(t, EventOrderPlaced, string(m.Headers[0].Value))

	var event OrderEvent
	require.NoError(t, json.Unmarshal(m.Value, &event))
	assert.Equal(t, "IT123456789", event.Number)
}
