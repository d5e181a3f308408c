package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"triforge-backend/application/ports"
	"triforge-backend/domain/core/aggregates"
	"triforge-backend/domain/core/entities"
	"triforge-backend/domain/core/valueobjects"
)

// ContentCandidate pairs an artifact kind with the value the caller supplied
// for it, if any. Candidate order is the caller's precedence order.
type ContentCandidate struct {
	Kind     valueobjects.ArtifactKind
	Explicit string
}

// ResolvedContent is the outcome of a successful resolution
type ResolvedContent struct {
	Text       string
	Kind       valueobjects.ArtifactKind
	FromMemory bool
}

// Resolver locates prior artifact content for an operation, either from the
// request itself or from the caller's conversation history. The shape
// heuristics live behind this interface so operations never inspect turn
// text directly.
type Resolver interface {
	// Resolve picks content for the first satisfiable candidate. Explicit
	// values win in candidate order; only when every explicit value is empty
	// is the session scanned, one kind at a time, newest turn first.
	Resolve(ctx context.Context, userID valueobjects.UserID, candidates ...ContentCandidate) (ResolvedContent, bool, error)

	// LastOutput returns the newest assistant text for the user regardless
	// of shape
	LastOutput(ctx context.Context, userID valueobjects.UserID) (string, bool, error)
}

// ContentResolver is the session-backed Resolver implementation
type ContentResolver struct {
	sessions ports.SessionStore
	logger   *zap.Logger
}

// NewContentResolver creates a content resolver over the session store
func NewContentResolver(sessions ports.SessionStore, logger *zap.Logger) *ContentResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentResolver{
		sessions: sessions,
		logger:   logger,
	}
}

// Resolve implements Resolver
func (r *ContentResolver) Resolve(ctx context.Context, userID valueobjects.UserID, candidates ...ContentCandidate) (ResolvedContent, bool, error) {
	for _, candidate := range candidates {
		if candidate.Explicit != "" {
			return ResolvedContent{
				Text: candidate.Explicit,
				Kind: candidate.Kind,
			}, true, nil
		}
	}

	turns, existed, err := r.snapshot(ctx, userID)
	if err != nil {
		return ResolvedContent{}, false, err
	}
	if !existed {
		return ResolvedContent{}, false, nil
	}

	for _, candidate := range candidates {
		if text, ok := findInTurns(turns, candidate.Kind); ok {
			r.logger.Debug("Resolved content from conversation history",
				zap.String("user_id", userID.String()),
				zap.String("artifact", candidate.Kind.String()),
			)
			return ResolvedContent{
				Text:       text,
				Kind:       candidate.Kind,
				FromMemory: true,
			}, true, nil
		}
	}

	return ResolvedContent{}, false, nil
}

// LastOutput implements Resolver
func (r *ContentResolver) LastOutput(ctx context.Context, userID valueobjects.UserID) (string, bool, error) {
	var (
		output string
		ok     bool
	)
	existed, err := r.sessions.View(ctx, userID, func(session *aggregates.Session) error {
		output, ok = session.LastOutput()
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return output, existed && ok, nil
}

func (r *ContentResolver) snapshot(ctx context.Context, userID valueobjects.UserID) ([]entities.Turn, bool, error) {
	var turns []entities.Turn
	existed, err := r.sessions.View(ctx, userID, func(session *aggregates.Session) error {
		turns = session.Turns()
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return turns, existed, nil
}

// findInTurns scans assistant outputs newest first for the given shape.
// Diagram and code hits are returned trimmed; story hits keep the stored
// text verbatim, surrounding whitespace included.
func findInTurns(turns []entities.Turn, kind valueobjects.ArtifactKind) (string, bool) {
	for i := len(turns) - 1; i >= 0; i-- {
		output := turns[i].Output()
		if !kind.Matches(output) {
			continue
		}
		if kind == valueobjects.ArtifactJiraStories {
			return output, true
		}
		return strings.TrimSpace(output), true
	}
	return "", false
}
