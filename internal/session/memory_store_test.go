package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alebarre/italicita/internal/cart"
	"github.com/alebarre/italicita/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupStore(t *testing.T) *MemoryStore {
	store := NewMemoryStore(time.Hour, time.Hour, zap.NewNop())
	t.Cleanup(func() { store.Close() })
	return store
}

var refrigerante = domain.MenuItem{ID: "item-7", Name: "Refrigerante 2L", BasePrice: decimal.RequireFromString("10.90"), IsAvailable: true}

func addRefrigerante(c *cart.Cart) error {
	c.AddItem(refrigerante, domain.Selection{Size: domain.DefaultSize})
	return nil
}

func TestMemoryStore_GetUnknownSession(t *testing.T) {
	store := setupStore(t)

	state, err := store.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, state.Items)
	assert.True(t, state.Total.IsZero())
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_UpdateCreatesSession(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	state, err := store.Update(ctx, "s1", addRefrigerante)
	require.NoError(t, err)
	assert.Equal(t, 1, state.ItemCount)

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, state, got)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_SessionsAreIsolated(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, err := store.Update(ctx, "s1", addRefrigerante)
	require.NoError(t, err)

	other, err := store.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

func TestMemoryStore_UpdatePropagatesError(t *testing.T) {
	store := setupStore(t)
	boom := errors.New("boom")

	_, err := store.Update(context.Background(), "s1", func(*cart.Cart) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestMemoryStore_EmptySessionID(t *testing.T) {
	store := setupStore(t)

	_, err := store.Update(context.Background(), "", addRefrigerante)
	assert.ErrorIs(t, err, ErrEmptySessionID)

	_, err = store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptySessionID)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store := setupStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Update(ctx, "s1", addRefrigerante)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStore_Clear(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, err := store.Update(ctx, "s1", addRefrigerante)
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx, "s1"))
	require.NoError(t, store.Clear(ctx, "s1"))
	require.NoError(t, store.Clear(ctx, "unknown"))

	state, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, state.Items)
}

func TestMemoryStore_ConcurrentUpdatesSerialize(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, "s1", addRefrigerante)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, state.Items, 1)
	assert.Equal(t, 50, state.ItemCount)
	assert.True(t, decimal.RequireFromString("545.00").Equal(state.Total))
}

func TestMemoryStore_ExpireIdleSessions(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }

	_, err := store.Update(ctx, "old", addRefrigerante)
	require.NoError(t, err)

	now = now.Add(30 * time.Minute)
	_, err = store.Update(ctx, "fresh", addRefrigerante)
	require.NoError(t, err)

	now = now.Add(45 * time.Minute)
	assert.Equal(t, 1, store.expireSessions())

	old, err := store.Get(ctx, "old")
	require.NoError(t, err)
	assert.Empty(t, old.Items)

	fresh, err := store.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Len(t, fresh.Items, 1)
}

func TestMemoryStore_BackgroundCleanup(t *testing.T) {
	store := NewMemoryStore(10*time.Millisecond, 5*time.Millisecond, zap.NewNop())
	defer store.Close()

	_, err := store.Update(context.Background(), "s1", addRefrigerante)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return store.Len() == 0
	}, time.Second, 10*time.Millisecond)
}
