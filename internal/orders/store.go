// Package orders persists submitted orders.
package orders

import (
	"context"
	"errors"
	"time"

	"github.com/alebarre/italicita/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order with this number already exists")
)

// Store is the order submission backend.
type Store interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	// ListOrdersBySession returns the orders of a shopper session, newest first.
	ListOrdersBySession(ctx context.Context, sessionID string) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	Close() error
}

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// stampOrder fills in timestamps the caller left zero.
func stampOrder(order *domain.Order) {
	now := time.Now().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}
}
