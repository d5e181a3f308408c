package aggregates

import (
	"errors"
	"time"

	"triforge-backend/domain/config"
	"triforge-backend/domain/core/entities"
	"triforge-backend/domain/core/valueobjects"
	"triforge-backend/domain/events"
)

// ErrNoTurns is returned when an operation needs at least one recorded turn
var ErrNoTurns = errors.New("session has no recorded turns")

// Session is the aggregate root for one user's conversational memory: a
// bounded FIFO window of turns. Appending beyond the window evicts the oldest
// turn. The aggregate itself is not goroutine safe; the store serializes
// access per user.
type Session struct {
	userID     valueobjects.UserID
	turns      []entities.Turn
	windowSize int
	createdAt  time.Time
	updatedAt  time.Time
	version    int
	events     []events.DomainEvent
}

// NewSession creates an empty session for a user. A non-positive windowSize
// falls back to the default configuration.
func NewSession(userID valueobjects.UserID, windowSize int) *Session {
	if windowSize <= 0 {
		windowSize = config.DefaultDomainConfig().MemoryWindowSize
	}

	now := time.Now()
	return &Session{
		userID:     userID,
		turns:      make([]entities.Turn, 0, windowSize),
		windowSize: windowSize,
		createdAt:  now,
		updatedAt:  now,
		version:    1,
	}
}

// ReconstructSession recreates a session from stored state without raising events
func ReconstructSession(userID valueobjects.UserID, turns []entities.Turn, windowSize int, createdAt, updatedAt time.Time) *Session {
	if windowSize <= 0 {
		windowSize = config.DefaultDomainConfig().MemoryWindowSize
	}

	kept := turns
	if len(kept) > windowSize {
		kept = kept[len(kept)-windowSize:]
	}

	session := &Session{
		userID:     userID,
		turns:      make([]entities.Turn, len(kept)),
		windowSize: windowSize,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
		version:    1,
	}
	copy(session.turns, kept)
	return session
}

// UserID returns the owner of the session
func (s *Session) UserID() valueobjects.UserID {
	return s.userID
}

// WindowSize returns the maximum number of retained turns
func (s *Session) WindowSize() int {
	return s.windowSize
}

// Turns returns a copy of the retained turns, oldest first
func (s *Session) Turns() []entities.Turn {
	result := make([]entities.Turn, len(s.turns))
	copy(result, s.turns)
	return result
}

// Len returns the number of retained turns
func (s *Session) Len() int {
	return len(s.turns)
}

// IsEmpty reports whether the session has no turns
func (s *Session) IsEmpty() bool {
	return len(s.turns) == 0
}

// AddTurn appends a turn, evicting the oldest one beyond the window
func (s *Session) AddTurn(input, output string) {
	s.turns = append(s.turns, entities.NewTurn(input, output))

	evicted := false
	if len(s.turns) > s.windowSize {
		s.turns = s.turns[len(s.turns)-s.windowSize:]
		evicted = true
	}

	s.updatedAt = time.Now()
	s.version++
	s.raiseEvent(events.NewTurnRecorded(s.userID, len(s.turns), evicted, s.updatedAt))
}

// LastOutput returns the newest turn's assistant text
func (s *Session) LastOutput() (string, bool) {
	if len(s.turns) == 0 {
		return "", false
	}
	return s.turns[len(s.turns)-1].Output(), true
}

// AmendLastOutput replaces the newest turn's assistant text in place. Used to
// reconcile a placeholder turn after the invocation it announced has failed.
func (s *Session) AmendLastOutput(output string) error {
	if len(s.turns) == 0 {
		return ErrNoTurns
	}

	last := len(s.turns) - 1
	s.turns[last] = s.turns[last].WithOutput(output)
	s.updatedAt = time.Now()
	s.version++
	return nil
}

// Clear drops all turns and returns how many were dropped
func (s *Session) Clear() int {
	dropped := len(s.turns)
	s.turns = s.turns[:0]
	s.updatedAt = time.Now()
	s.version++
	s.raiseEvent(events.NewSessionCleared(s.userID, dropped, s.updatedAt))
	return dropped
}

// CreatedAt returns when the session was first created
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// UpdatedAt returns when the session last changed
func (s *Session) UpdatedAt() time.Time {
	return s.updatedAt
}

// Version returns the aggregate version
func (s *Session) Version() int {
	return s.version
}

// GetUncommittedEvents returns events raised since the last commit
func (s *Session) GetUncommittedEvents() []events.DomainEvent {
	return s.events
}

// MarkEventsAsCommitted clears the uncommitted event list
func (s *Session) MarkEventsAsCommitted() {
	s.events = nil
}

func (s *Session) raiseEvent(event events.DomainEvent) {
	s.events = append(s.events, event)
}
