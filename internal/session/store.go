// Package session keeps one cart per shopper session in memory.
package session

import (
	"context"
	"errors"

	"github.com/alebarre/italicita/internal/cart"
	"github.com/alebarre/italicita/internal/domain"
)

var ErrEmptySessionID = errors.New("session id is required")

// Store owns the carts of live sessions.
type Store interface {
	// Get returns the cart of a session; unknown sessions have an empty cart.
	Get(ctx context.Context, sessionID string) (domain.CartState, error)

	// Update runs fn with exclusive access to the session cart and returns
	// the resulting state. A session is created on first update.
	Update(ctx context.Context, sessionID string, fn func(*cart.Cart) error) (domain.CartState, error)

	// Clear empties the cart of a session. Clearing an unknown session is not an error.
	Clear(ctx context.Context, sessionID string) error

	// Close shuts down the store and any background processes
	Close() error
}
