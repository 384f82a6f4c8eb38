// Package session holds coaching sessions in process memory.
//
// Each session owns its own mutex so that tool calls and chat turns against
// one session are serialized while different sessions proceed in parallel.
package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/metrics"
	"github.com/jonathan/career-coach/internal/types"
)

// ErrNotFound is returned for unknown or expired session IDs
var ErrNotFound = errors.New("session not found")

const (
	DefaultTTL             = 2 * time.Hour
	DefaultCleanupInterval = 5 * time.Minute
)

// Session is the mutable view handed to Update callbacks
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time
	State     *types.SessionState
	History   []*genai.Content
}

type entry struct {
	mu         sync.Mutex
	sess       Session
	lastAccess atomic.Int64 // unix nanos
}

func (e *entry) touch(now time.Time) {
	e.lastAccess.Store(now.UnixNano())
}

// Store is an in-memory session registry with idle expiry
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*entry

	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
	stopOnce      sync.Once
}

// Option configures a Store
type Option func(*Store)

// WithTTL sets the idle time after which a session is swept.
// Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty store
func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[uuid.UUID]*entry),
		ttl:      DefaultTTL,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartCleanup sweeps expired sessions every interval until Stop is called
func (s *Store) StartCleanup(interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 || s.cleanupTicker != nil {
		return
	}
	s.cleanupTicker = time.NewTicker(interval)
	s.cleanupStop = make(chan struct{})
	go s.cleanup()
}

func (s *Store) cleanup() {
	for {
		select {
		case <-s.cleanupTicker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Info("expired sessions removed", zap.Int("count", n))
			}
		case <-s.cleanupStop:
			return
		}
	}
}

// Stop stops the cleanup goroutine
func (s *Store) Stop() {
	s.stopOnce.Do(func() {
		if s.cleanupTicker != nil {
			s.cleanupTicker.Stop()
		}
		if s.cleanupStop != nil {
			close(s.cleanupStop)
		}
	})
}

// Create registers a new session with a default state and returns its ID
// together with a snapshot of the state
func (s *Store) Create() (uuid.UUID, *types.SessionState) {
	id := uuid.New()
	now := s.now()

	e := &entry{
		sess: Session{
			ID:        id,
			CreatedAt: now,
			State:     types.NewSessionState(),
			History:   []*genai.Content{},
		},
	}
	e.touch(now)
	snapshot := e.sess.State.Clone()

	s.mu.Lock()
	s.sessions[id] = e
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	s.logger.Debug("session created", zap.String("session_id", id.String()))
	return id, snapshot
}

func (s *Store) lookup(id uuid.UUID) (*entry, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// Get returns a deep copy of the session state
func (s *Store) Get(id uuid.UUID) (*types.SessionState, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touch(s.now())
	return e.sess.State.Clone(), nil
}

// Update runs fn with exclusive access to the session. Changes fn makes to
// the session are kept even when it returns an error.
func (s *Store) Update(id uuid.UUID, fn func(*Session) error) error {
	e, err := s.lookup(id)
	if err != nil {
		return err
	}
	e.touch(s.now())

	e.mu.Lock()
	defer e.mu.Unlock()
	defer func() { e.touch(s.now()) }()
	return fn(&e.sess)
}

// Delete removes a session
func (s *Store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	metrics.ActiveSessions.Set(float64(n))
	s.logger.Debug("session deleted", zap.String("session_id", id.String()))
	return nil
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl).UnixNano()

	s.mu.Lock()
	removed := 0
	for id, e := range s.sessions {
		if e.lastAccess.Load() < cutoff {
			delete(s.sessions, id)
			removed++
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	if removed > 0 {
		metrics.ActiveSessions.Set(float64(n))
	}
	return removed
}
