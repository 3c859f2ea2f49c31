// Package catalog publishes the menu: the dishes and the option catalogs
// each dish offers.
package catalog

import (
	"context"
	"errors"

	"github.com/alebarre/italicita/internal/domain"
)

var (
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrCacheMiss        = errors.New("cache miss")
)

// Provider is the read side of the catalog used by the storefront.
type Provider interface {
	ListMenuItems(ctx context.Context) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error)
}

// Repository is the persistent catalog.
// Consumers define this interface, not the SQLite implementation
type Repository interface {
	Provider
	Seed(ctx context.Context, items []domain.MenuItem) error
}

// MenuCache holds the whole menu as one value.
type MenuCache interface {
	Get(ctx context.Context) ([]domain.MenuItem, error)
	Set(ctx context.Context, items []domain.MenuItem) error
	Delete(ctx context.Context) error
}
