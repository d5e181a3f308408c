package memory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"triforge-backend/domain/config"
	"triforge-backend/domain/core/aggregates"
	"triforge-backend/domain/core/valueobjects"
)

// SessionStore keeps every user's conversation session in process memory.
//
// The outer lock guards only the map. Each entry carries its own mutex so a
// slow generation flow for one user never blocks another user's session, and
// the placeholder-then-final write pair stays atomic per user.
type SessionStore struct {
	mu         sync.RWMutex
	sessions   map[string]*sessionEntry
	windowSize int
	logger     *zap.Logger
}

type sessionEntry struct {
	mu      sync.Mutex
	session *aggregates.Session
}

// NewSessionStore creates an empty store with the configured window size
func NewSessionStore(cfg *config.DomainConfig, logger *zap.Logger) *SessionStore {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SessionStore{
		sessions:   make(map[string]*sessionEntry),
		windowSize: cfg.MemoryWindowSize,
		logger:     logger,
	}
}

// Update runs fn against the user's session under that session's lock,
// creating an empty session first when the user has none
func (s *SessionStore) Update(ctx context.Context, userID valueobjects.UserID, fn func(*aggregates.Session) error) error {
	entry := s.getOrCreate(userID)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.session)
}

// View runs fn against the user's session under that session's lock without
// creating one. It reports whether a session existed.
func (s *SessionStore) View(ctx context.Context, userID valueobjects.UserID, fn func(*aggregates.Session) error) (bool, error) {
	s.mu.RLock()
	entry, exists := s.sessions[userID.String()]
	s.mu.RUnlock()

	if !exists {
		return false, nil
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return true, fn(entry.session)
}

// Clear removes the user's session entirely. It returns the number of turns
// dropped and whether a session existed.
func (s *SessionStore) Clear(ctx context.Context, userID valueobjects.UserID) (int, bool) {
	key := userID.String()

	s.mu.Lock()
	entry, exists := s.sessions[key]
	if exists {
		delete(s.sessions, key)
	}
	s.mu.Unlock()

	if !exists {
		return 0, false
	}

	// The entry is already unreachable from the map; the lock closes the
	// race with an Update still holding it.
	entry.mu.Lock()
	defer entry.mu.Unlock()

	dropped := entry.session.Len()
	s.logger.Debug("session cleared",
		zap.String("user_id", key),
		zap.Int("turns_dropped", dropped),
	)
	return dropped, true
}

// ActiveSessions returns the number of users with a live session
func (s *SessionStore) ActiveSessions(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// getOrCreate returns the user's entry, creating it on first use. The
// double-checked lookup keeps the common path on the read lock.
func (s *SessionStore) getOrCreate(userID valueobjects.UserID) *sessionEntry {
	key := userID.String()

	s.mu.RLock()
	entry, exists := s.sessions[key]
	s.mu.RUnlock()
	if exists {
		return entry
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, exists = s.sessions[key]; exists {
		return entry
	}

	entry = &sessionEntry{session: aggregates.NewSession(userID, s.windowSize)}
	s.sessions[key] = entry
	s.logger.Debug("session created", zap.String("user_id", key))
	return entry
}
