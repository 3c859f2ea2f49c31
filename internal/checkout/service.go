// Package checkout turns a session cart into a submitted order and drives the
// payment handoff that follows.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alebarre/italicita/internal/cart"
	"github.com/alebarre/italicita/internal/domain"
	"github.com/alebarre/italicita/internal/orders"
	"github.com/alebarre/italicita/internal/payment"
	"github.com/alebarre/italicita/internal/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart        = errors.New("cart is empty, nothing to checkout")
	ErrSubmissionFailed = errors.New("order submission failed")
)

const (
	numberAttempts = 3
	settleAttempts = 3
	settleBackoff  = 100 * time.Millisecond
)

// Carts is the part of the session store checkout needs.
type Carts interface {
	Update(ctx context.Context, sessionID string, fn func(*cart.Cart) error) (domain.CartState, error)
}

// Publisher emits order lifecycle events.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, order *domain.Order) error
	PublishPaymentConfirmed(ctx context.Context, order *domain.Order, paymentID string) error
}

// Recorder receives checkout outcomes for metrics.
type Recorder interface {
	OrderPlaced(method domain.PaymentMethod)
	SubmissionFailed()
	PaymentSettled(outcome payment.SessionStatus)
}

type Config struct {
	DeliveryFee decimal.Decimal
	// SettleTimeout bounds the order update run when a PIX session expires
	SettleTimeout time.Duration
}

// Result is what the customer gets back after placing an order.
type Result struct {
	Order        *domain.Order
	WhatsAppLink string
	Payment      *payment.Session
}

type Service struct {
	carts     Carts
	orders    orders.Store
	pix       *payment.PixGenerator
	whatsapp  *payment.WhatsApp
	payments  *payment.SessionStore
	publisher Publisher
	recorder  Recorder
	cfg       Config
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(
	carts Carts,
	store orders.Store,
	pix *payment.PixGenerator,
	whatsapp *payment.WhatsApp,
	payments *payment.SessionStore,
	publisher Publisher,
	recorder Recorder,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if cfg.DeliveryFee.IsZero() {
		cfg.DeliveryFee = pricing.DefaultDeliveryFee
	}
	if cfg.SettleTimeout <= 0 {
		cfg.SettleTimeout = 5 * time.Second
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}

	s := &Service{
		carts:     carts,
		orders:    store,
		pix:       pix,
		whatsapp:  whatsapp,
		payments:  payments,
		publisher: publisher,
		recorder:  recorder,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
	payments.OnExpire(s.handleExpiry)
	return s
}

// PlaceOrder submits the cart of a session. The cart lock is held for the
// whole submission so a session cannot check out the same cart twice.
// A failed submission leaves the cart as it was.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, method domain.PaymentMethod, delivery domain.DeliveryInfo) (*Result, error) {
	if _, err := domain.ParsePaymentMethod(string(method)); err != nil {
		return nil, err
	}
	if err := delivery.Validate(); err != nil {
		return nil, err
	}

	var result *Result
	_, err := s.carts.Update(ctx, sessionID, func(c *cart.Cart) error {
		state := c.State()
		if state.IsEmpty() {
			return ErrEmptyCart
		}

		order, err := s.submit(ctx, sessionID, state, method, delivery)
		if err != nil {
			s.recorder.SubmissionFailed()
			s.logger.Error("order submission failed",
				zap.String("session_id", sessionID),
				zap.Error(err))
			return fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
		}
		s.recorder.OrderPlaced(method)

		result = &Result{Order: order}
		switch method {
		case domain.PaymentMethodCard:
			result.WhatsAppLink = s.whatsapp.Link(order)
			c.Clear()
		case domain.PaymentMethodPix:
			h := payment.Handoff{OrderID: order.ID.String(), OrderNumber: order.Number, Amount: order.Total}
			sess := s.payments.Open(sessionID, h, s.pix.Payload(h))
			result.Payment = &sess
			result.WhatsAppLink = s.whatsapp.Link(order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order placed",
		zap.String("order_id", result.Order.ID.String()),
		zap.String("number", result.Order.Number),
		zap.String("payment_method", string(method)),
		zap.String("total", result.Order.Total.String()))

	if err := s.publisher.PublishOrderPlaced(ctx, result.Order); err != nil {
		s.logger.Warn("publish order placed failed",
			zap.String("order_id", result.Order.ID.String()),
			zap.Error(err))
	}
	return result, nil
}

func (s *Service) submit(ctx context.Context, sessionID string, state domain.CartState, method domain.PaymentMethod, delivery domain.DeliveryInfo) (*domain.Order, error) {
	status := domain.OrderStatusPreparing
	if method == domain.PaymentMethodPix {
		status = domain.OrderStatusPendingPayment
	}

	now := s.now().UTC()
	order := &domain.Order{
		ID:            uuid.New(),
		SessionID:     sessionID,
		Items:         state.Items,
		Subtotal:      state.Total,
		DeliveryFee:   s.cfg.DeliveryFee,
		Total:         pricing.OrderAmount(state.Total, s.cfg.DeliveryFee),
		PaymentMethod: method,
		Delivery:      delivery,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var err error
	for range numberAttempts {
		order.Number = domain.NewOrderNumber(now)
		err = s.orders.CreateOrder(ctx, order)
		if !errors.Is(err, orders.ErrDuplicateOrder) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ConfirmPayment settles a PIX session: the order moves to preparing and the
// ordered lines leave the cart. When the order cannot be updated the session
// goes back to pending so the shopper can retry.
func (s *Service) ConfirmPayment(ctx context.Context, paymentID string) (*domain.Order, error) {
	sess, err := s.payments.Confirm(paymentID)
	if err != nil {
		return nil, err
	}

	order, err := s.settle(ctx, sess, domain.OrderStatusPreparing)
	if err != nil {
		s.reopen(sess, err)
		return nil, err
	}
	s.recorder.PaymentSettled(payment.SessionConfirmed)

	if err := s.publisher.PublishPaymentConfirmed(ctx, order, sess.ID); err != nil {
		s.logger.Warn("publish payment confirmed failed",
			zap.String("payment_id", sess.ID),
			zap.Error(err))
	}
	return order, nil
}

// CancelPayment abandons a PIX session and cancels its order.
func (s *Service) CancelPayment(ctx context.Context, paymentID string) (*domain.Order, error) {
	sess, err := s.payments.Cancel(paymentID)
	if err != nil {
		return nil, err
	}

	order, err := s.settle(ctx, sess, domain.OrderStatusCanceled)
	if err != nil {
		s.reopen(sess, err)
		return nil, err
	}
	s.recorder.PaymentSettled(payment.SessionCancelled)
	return order, nil
}

func (s *Service) reopen(sess payment.Session, cause error) {
	// a refused transition will not succeed on retry
	if errors.Is(cause, domain.ErrInvalidTransition) {
		return
	}
	if err := s.payments.Reopen(sess.ID, sess.Status); err != nil {
		s.logger.Error("reopen payment session failed",
			zap.String("payment_id", sess.ID),
			zap.Error(err))
	}
}

// handleExpiry cancels the order of an expired session. The session is already
// terminal, so transient store failures are retried here.
func (s *Service) handleExpiry(sess payment.Session) {
	s.recorder.PaymentSettled(payment.SessionExpired)

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SettleTimeout)
	defer cancel()

	var err error
	for attempt := range settleAttempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(settleBackoff * time.Duration(attempt)):
			}
		}
		if _, err = s.settle(ctx, sess, domain.OrderStatusCanceled); err == nil ||
			errors.Is(err, domain.ErrInvalidTransition) || ctx.Err() != nil {
			break
		}
	}
	if err != nil {
		s.logger.Error("cancel expired order failed",
			zap.String("payment_id", sess.ID),
			zap.String("order_id", sess.OrderID),
			zap.Error(err))
	}
}

// settle moves the order of a payment session to status and, once the order
// is updated, takes the ordered lines off the session cart. Lines added after
// the order was placed stay in the cart.
func (s *Service) settle(ctx context.Context, sess payment.Session, status domain.OrderStatus) (*domain.Order, error) {
	id, err := uuid.Parse(sess.OrderID)
	if err != nil {
		return nil, fmt.Errorf("parse order id: %w", err)
	}

	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load order %s: %w", sess.OrderID, err)
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, order.Status, status)
	}
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update order %s to %s: %w", sess.OrderID, status, err)
	}
	order.Status = status
	order.UpdatedAt = s.now().UTC()

	s.releaseCart(ctx, sess.CartSessionID, order.Items)

	s.logger.Info("payment settled",
		zap.String("payment_id", sess.ID),
		zap.String("order_id", sess.OrderID),
		zap.String("payment_status", string(sess.Status)),
		zap.String("order_status", status.String()))

	return order, nil
}

func (s *Service) releaseCart(ctx context.Context, sessionID string, lines []domain.CartLine) {
	_, err := s.carts.Update(ctx, sessionID, func(c *cart.Cart) error {
		for _, l := range lines {
			c.Deduct(l.ID, l.Quantity)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("release ordered lines failed",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}
}

func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

// ListOrders returns the orders placed from a shopper session, newest first.
func (s *Service) ListOrders(ctx context.Context, sessionID string) ([]*domain.Order, error) {
	return s.orders.ListOrdersBySession(ctx, sessionID)
}

func (s *Service) GetPayment(paymentID string) (payment.Session, time.Duration, error) {
	sess, err := s.payments.Get(paymentID)
	if err != nil {
		return payment.Session{}, 0, err
	}
	return sess, sess.Remaining(s.payments.Now()), nil
}

type nopRecorder struct{}

func (nopRecorder) OrderPlaced(domain.PaymentMethod) {}
func (nopRecorder) SubmissionFailed() {}
func (nopRecorder) PaymentSettled(payment.SessionStatus) {}
