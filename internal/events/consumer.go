package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alebarre/italicita/internal/domain"
	"github.com/alebarre/italicita/internal/payment"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	ConfirmationsTopic = "pix-confirmations"
	ConsumerGroup      = "storefront"
)

var ErrMalformedConfirmation = errors.New("malformed payment confirmation")

// Confirmer settles a PIX payment session.
type Confirmer interface {
	ConfirmPayment(ctx context.Context, paymentID string) (*domain.Order, error)
}

type paymentConfirmation struct {
	PaymentID string `json:"payment_id"`
}

// Consumer reads PIX confirmations and settles the matching sessions.
type Consumer struct {
	confirmer Confirmer
	reader    *kafka.Reader
	logger    *zap.Logger
}

func NewConsumer(confirmer Confirmer, logger *zap.Logger, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    ConfirmationsTopic,
		GroupID:  ConsumerGroup,
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{confirmer: confirmer, reader: reader, logger: logger}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			c.logger.Error("read confirmation failed", zap.Error(err))
			continue
		}
		if err := c.handle(ctx, m); err != nil {
			c.logger.Warn("confirmation skipped",
				zap.Int64("offset", m.Offset),
				zap.Error(err))
		}
	}
}

// handle confirms the payment named by one message. Sessions that are
// already settled are not an error: the relay may deliver twice.
func (c *Consumer) handle(ctx context.Context, m kafka.Message) error {
	var msg paymentConfirmation
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedConfirmation, err)
	}
	if msg.PaymentID == "" {
		return fmt.Errorf("%w: missing payment_id", ErrMalformedConfirmation)
	}

	order, err := c.confirmer.ConfirmPayment(ctx, msg.PaymentID)
	switch {
	case errors.Is(err, payment.ErrInvalidStatus):
		c.logger.Info("payment already settled", zap.String("payment_id", msg.PaymentID))
		return nil
	case err != nil:
		return fmt.Errorf("confirm payment %s: %w", msg.PaymentID, err)
	}

	c.logger.Info("payment confirmed from relay",
		zap.String("payment_id", msg.PaymentID),
		zap.String("order_id", order.ID.String()))
	return nil
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
