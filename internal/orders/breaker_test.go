package orders

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alebarre/italicita/internal/domain"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type flakyStore struct {
	*MemoryStore
	fail  atomic.Bool
	calls atomic.Int32
}

var errConnRefused = errors.New("dial tcp: connection refused")

func (f *flakyStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	f.calls.Add(1)
	if f.fail.Load() {
		return errConnRefused
	}
	return f.MemoryStore.CreateOrder(ctx, order)
}

func TestBreakerStore_OpensAfterConsecutiveFailures(t *testing.T) {
	next := &flakyStore{MemoryStore: NewMemoryStore()}
	next.fail.Store(true)
	store := NewBreakerStore(next, BreakerSettings{ConsecutiveFailures: 3, OpenTimeout: time.Minute}, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, store.CreateOrder(ctx, newTestOrder()), errConnRefused)
	}
	assert.Equal(t, gobreaker.StateOpen, store.State())

	err := store.CreateOrder(ctx, newTestOrder())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(3), next.calls.Load(), "open breaker must not reach the store")
}

func TestBreakerStore_HalfOpenRecovers(t *testing.T) {
	next := &flakyStore{MemoryStore: NewMemoryStore()}
	next.fail.Store(true)
	store := NewBreakerStore(next, BreakerSettings{ConsecutiveFailures: 1, OpenTimeout: 20 * time.Millisecond}, zap.NewNop())
	ctx := context.Background()

	require.Error(t, store.CreateOrder(ctx, newTestOrder()))
	require.Equal(t, gobreaker.StateOpen, store.State())

	next.fail.Store(false)
	require.Eventually(t, func() bool {
		return store.State() == gobreaker.StateHalfOpen
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, store.CreateOrder(ctx, newTestOrder()))
	assert.Equal(t, gobreaker.StateClosed, store.State())
}

func TestBreakerStore_DomainErrorsDoNotTrip(t *testing.T) {
	store := NewBreakerStore(NewMemoryStore(), BreakerSettings{ConsecutiveFailures: 1}, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.GetOrder(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrOrderNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, store.State())
}

func TestBreakerStore_PassesThrough(t *testing.T) {
	store := NewBreakerStore(NewMemoryStore(), BreakerSettings{}, zap.NewNop())
	ctx := context.Background()
	order := newTestOrder()

	require.NoError(t, store.CreateOrder(ctx, order))
	require.NoError(t, store.UpdateStatus(ctx, order.ID, domain.OrderStatusPreparing))

	got, err := store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPreparing, got.Status)
}
