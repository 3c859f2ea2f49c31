package orders

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/alebarre/italicita/internal/domain"
	"github.com/google/uuid"
)

// MemoryStore keeps orders in process. Used for local runs without a database.
type MemoryStore struct {
	mu       sync.RWMutex
	orders   map[uuid.UUID]*domain.Order
	byNumber map[string]uuid.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders:   make(map[uuid.UUID]*domain.Order),
		byNumber: make(map[string]uuid.UUID),
	}
}

func (s *MemoryStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return ErrDuplicateOrder
	}
	if _, exists := s.byNumber[order.Number]; exists {
		return ErrDuplicateOrder
	}

	stampOrder(order)

	stored := *order
	stored.Items = slices.Clone(order.Items)
	s.orders[order.ID] = &stored
	s.byNumber[order.Number] = order.ID
	return nil
}

func (s *MemoryStore) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	out := *o
	out.Items = slices.Clone(o.Items)
	return &out, nil
}

func (s *MemoryStore) ListOrdersBySession(ctx context.Context, sessionID string) ([]*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Order
	for _, o := range s.orders {
		if o.SessionID != sessionID {
			continue
		}
		cp := *o
		cp.Items = slices.Clone(o.Items)
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *domain.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
