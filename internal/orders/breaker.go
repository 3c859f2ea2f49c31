package orders

import (
	"context"
	"errors"
	"time"

	"github.com/alebarre/italicita/internal/domain"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

type BreakerSettings struct {
	// ConsecutiveFailures trips the breaker
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing
	OpenTimeout time.Duration
}

// BreakerStore fails fast while the wrapped store keeps failing.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[any]
}

func NewBreakerStore(next Store, settings BreakerSettings, logger *zap.Logger) *BreakerStore {
	if settings.ConsecutiveFailures == 0 {
		settings.ConsecutiveFailures = 5
	}
	if settings.OpenTimeout <= 0 {
		settings.OpenTimeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "order-store",
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			// domain answers mean the backend is healthy
			return err == nil ||
				errors.Is(err, ErrDuplicateOrder) ||
				errors.Is(err, ErrOrderNotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &BreakerStore{next: next, cb: cb}
}

func (b *BreakerStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.next.CreateOrder(ctx, order)
	})
	return err
}

func (b *BreakerStore) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.next.GetOrder(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Order), nil
}

func (b *BreakerStore) ListOrdersBySession(ctx context.Context, sessionID string) ([]*domain.Order, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.next.ListOrdersBySession(ctx, sessionID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Order), nil
}

func (b *BreakerStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.next.UpdateStatus(ctx, id, status)
	})
	return err
}

// State reports the breaker state, e.g. for health checks.
func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerStore) Close() error {
	return b.next.Close()
}
