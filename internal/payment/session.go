package payment

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// SessionTTL is how long a PIX charge waits for payment
	SessionTTL = 30 * time.Minute

	// CleanupInterval is how often pending sessions are checked for expiry
	CleanupInterval = 15 * time.Second
)

var (
	ErrSessionNotFound = errors.New("payment session not found")
	ErrSessionExpired  = errors.New("payment session has expired")
	ErrInvalidStatus   = errors.New("invalid payment session status for this operation")
)

type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionConfirmed SessionStatus = "confirmed"
	SessionCancelled SessionStatus = "cancelled"
	SessionExpired   SessionStatus = "expired"
)

func (s SessionStatus) IsTerminal() bool {
	return s != SessionPending
}

// Session is a PIX charge waiting for the customer to pay.
type Session struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	CartSessionID string          `json:"-"`
	Amount        decimal.Decimal `json:"amount"`
	Code          string          `json:"code"`
	Status        SessionStatus   `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	ExpiresAt     time.Time       `json:"expires_at"`
}

func (s Session) expiredAt(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Remaining is the time left to pay, zero once expired or settled.
func (s Session) Remaining(now time.Time) time.Duration {
	if s.Status != SessionPending || s.expiredAt(now) {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}

// SessionStore keeps PIX sessions in memory and expires unpaid ones.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	onExpire func(Session)

	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

func NewSessionStore(ttl, cleanupInterval time.Duration, logger *zap.Logger) *SessionStore {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = CleanupInterval
	}
	s := &SessionStore{
		sessions:    make(map[string]*Session),
		ttl:         ttl,
		now:         time.Now,
		logger:      logger,
		stopCleanup: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop(cleanupInterval)

	return s
}

// OnExpire registers fn to run, outside the store lock, for every session that expires.
func (s *SessionStore) OnExpire(fn func(Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpire = fn
}

func (s *SessionStore) cleanupLoop(interval time.Duration) {
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

func (s *SessionStore) expireSessions() int {
	s.mu.Lock()
	now := s.now()
	var expired []Session
	for _, sess := range s.sessions {
		if sess.Status == SessionPending && sess.expiredAt(now) {
			sess.Status = SessionExpired
			expired = append(expired, *sess)
		}
	}
	fn := s.onExpire
	s.mu.Unlock()

	for _, sess := range expired {
		s.logger.Info("payment session expired",
			zap.String("payment_id", sess.ID),
			zap.String("order_id", sess.OrderID))
		if fn != nil {
			fn(sess)
		}
	}
	return len(expired)
}

// Open starts a pending session for a cart session and its handoff.
func (s *SessionStore) Open(cartSessionID string, h Handoff, code string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := &Session{
		ID:            uuid.New().String(),
		OrderID:       h.OrderID,
		OrderNumber:   h.OrderNumber,
		CartSessionID: cartSessionID,
		Amount:        h.Amount,
		Code:          code,
		Status:        SessionPending,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.ttl),
	}
	s.sessions[sess.ID] = sess
	return *sess
}

func (s *SessionStore) Get(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return *sess, nil
}

// Confirm settles a pending session.
func (s *SessionStore) Confirm(id string) (Session, error) {
	return s.settle(id, SessionConfirmed)
}

// Cancel abandons a pending session.
func (s *SessionStore) Cancel(id string) (Session, error) {
	return s.settle(id, SessionCancelled)
}

func (s *SessionStore) settle(id string, to SessionStatus) (Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return Session{}, ErrSessionNotFound
	}
	if sess.Status != SessionPending {
		out := *sess
		s.mu.Unlock()
		return out, ErrInvalidStatus
	}
	if sess.expiredAt(s.now()) {
		sess.Status = SessionExpired
		out := *sess
		fn := s.onExpire
		s.mu.Unlock()

		if fn != nil {
			fn(out)
		}
		return out, ErrSessionExpired
	}

	sess.Status = to
	out := *sess
	s.mu.Unlock()
	return out, nil
}

// Reopen puts a session that was just confirmed or cancelled back to pending,
// for when the order behind it could not be updated. A session already past its
// deadline is picked up by the next expiry sweep.
func (s *SessionStore) Reopen(id string, from SessionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if from == SessionPending || sess.Status != from {
		return ErrInvalidStatus
	}
	sess.Status = SessionPending
	return nil
}

// Now returns the store clock; handlers use it to compute the remaining time.
func (s *SessionStore) Now() time.Time {
	return s.now()
}

// Close stops the background cleanup and waits for it to finish
func (s *SessionStore) Close() error {
	close(s.stopCleanup)
	s.wg.Wait()
	return nil
}
