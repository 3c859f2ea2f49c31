package session

import (
	"context"
	"sync"
	"time"

	"github.com/alebarre/italicita/internal/cart"
	"github.com/alebarre/italicita/internal/domain"
	"go.uber.org/zap"
)

const (
	// DefaultTTL is how long an idle session keeps its cart
	DefaultTTL = 2 * time.Hour

	// DefaultCleanupInterval is how often idle sessions are swept
	DefaultCleanupInterval = time.Minute
)

type entry struct {
	mu       sync.Mutex
	cart     *cart.Cart
	lastSeen time.Time
	evicted  bool
}

// MemoryStore implements Store with one mutex per session cart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

func NewMemoryStore(ttl, cleanupInterval time.Duration, logger *zap.Logger) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	s := &MemoryStore{
		sessions:    make(map[string]*entry),
		ttl:         ttl,
		now:         time.Now,
		logger:      logger,
		stopCleanup: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop(cleanupInterval)

	return s
}

func (s *MemoryStore) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.expireSessions()
		case <-s.stopCleanup:
			return
		}
	}
}

// expireSessions drops carts idle for longer than the TTL. Sessions in the
// middle of an update are skipped and looked at on the next sweep.
func (s *MemoryStore) expireSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	expired := 0
	for id, e := range s.sessions {
		if !e.mu.TryLock() {
			continue
		}
		if e.lastSeen.Before(cutoff) {
			e.evicted = true
			delete(s.sessions, id)
			expired++
		}
		e.mu.Unlock()
	}
	if expired > 0 {
		s.logger.Debug("expired idle sessions", zap.Int("count", expired))
	}
	return expired
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string) (domain.CartState, error) {
	if err := ctx.Err(); err != nil {
		return domain.CartState{}, err
	}
	if sessionID == "" {
		return domain.CartState{}, ErrEmptySessionID
	}

	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return cart.New().State(), nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.State(), nil
}

func (s *MemoryStore) Update(ctx context.Context, sessionID string, fn func(*cart.Cart) error) (domain.CartState, error) {
	if err := ctx.Err(); err != nil {
		return domain.CartState{}, err
	}
	if sessionID == "" {
		return domain.CartState{}, ErrEmptySessionID
	}

	for {
		e := s.entry(sessionID)

		e.mu.Lock()
		if e.evicted {
			// lost a race with the cleanup sweep; pick up a fresh entry
			e.mu.Unlock()
			continue
		}
		err := fn(e.cart)
		e.lastSeen = s.now()
		state := e.cart.State()
		e.mu.Unlock()

		return state, err
	}
}

func (s *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart.Clear()
	e.lastSeen = s.now()
	return nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *MemoryStore) entry(sessionID string) *entry {
	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[sessionID]; ok {
		return e
	}
	e = &entry{cart: cart.New(), lastSeen: s.now()}
	s.sessions[sessionID] = e
	return e
}

// Close stops the background cleanup and waits for it to finish
func (s *MemoryStore) Close() error {
	close(s.stopCleanup)
	s.wg.Wait()
	return nil
}
