package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"triforge-backend/application/ports"
	"triforge-backend/domain/config"
	"triforge-backend/domain/core/aggregates"
	"triforge-backend/domain/core/entities"
	"triforge-backend/domain/core/valueobjects"
)

// NoContextPlaceholder is the literal the technology-detection prompt
// receives when the user has no usable history
const NoContextPlaceholder = "No previous context available"

// ContextBuilder renders conversation history into the text forms the prompt
// chains consume: the running transcript fed to chat_history slots and the
// labeled context block the project pipeline gathers before detection.
type ContextBuilder struct {
	sessions ports.SessionStore
	cfg      *config.DomainConfig
	logger   *zap.Logger
}

// NewContextBuilder creates a context builder over the session store
func NewContextBuilder(sessions ports.SessionStore, cfg *config.DomainConfig, logger *zap.Logger) *ContextBuilder {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContextBuilder{
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
	}
}

// ChatHistory renders the user's retained turns as a transcript, oldest
// first. A missing or empty session renders as the empty string.
func (b *ContextBuilder) ChatHistory(ctx context.Context, userID valueobjects.UserID) (string, error) {
	turns, err := b.snapshot(ctx, userID)
	if err != nil {
		return "", err
	}
	return RenderHistory(turns), nil
}

// RenderHistory renders turns as alternating Human/AI transcript lines. This
// is the exact form the chain templates substitute for chat_history, so the
// rendering is shared by every operation that loads history.
func RenderHistory(turns []entities.Turn) string {
	if len(turns) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, turn := range turns {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("Human: ")
		sb.WriteString(turn.Input())
		sb.WriteByte('\n')
		sb.WriteString("AI: ")
		sb.WriteString(turn.Output())
	}
	return sb.String()
}

// GatherProjectContext assembles the labeled context block for the project
// pipeline: prior stories, diagram, and code found in the user's history,
// plus a short tail of recent turns. When none of those exist the literal
// no-context placeholder is returned and the pipeline proceeds with it.
func (b *ContextBuilder) GatherProjectContext(ctx context.Context, userID valueobjects.UserID) (string, error) {
	turns, err := b.snapshot(ctx, userID)
	if err != nil {
		return "", err
	}

	sections := make([]string, 0, 4)
	if stories, ok := findInTurns(turns, valueobjects.ArtifactJiraStories); ok {
		sections = append(sections, "Requirements (Jira Stories):\n"+stories)
	}
	if diagram, ok := findInTurns(turns, valueobjects.ArtifactDiagram); ok {
		sections = append(sections, "Diagram:\n"+diagram)
	}
	if code, ok := findInTurns(turns, valueobjects.ArtifactCode); ok {
		sections = append(sections, "Code:\n"+code)
	}
	if recent := b.renderRecentTurns(turns); recent != "" {
		sections = append(sections, "Recent Conversation:\n"+recent)
	}

	if len(sections) == 0 {
		b.logger.Debug("No pipeline context found", zap.String("user_id", userID.String()))
		return NoContextPlaceholder, nil
	}
	return strings.Join(sections, "\n\n"), nil
}

func (b *ContextBuilder) snapshot(ctx context.Context, userID valueobjects.UserID) ([]entities.Turn, error) {
	var turns []entities.Turn
	_, err := b.sessions.View(ctx, userID, func(session *aggregates.Session) error {
		turns = session.Turns()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return turns, nil
}

// renderRecentTurns renders the newest turns as a short transcript, each side
// cut to a fixed rune budget so one long artifact cannot crowd the prompt
func (b *ContextBuilder) renderRecentTurns(turns []entities.Turn) string {
	if len(turns) == 0 {
		return ""
	}

	tail := turns
	if len(tail) > b.cfg.ContextTurnLimit {
		tail = tail[len(tail)-b.cfg.ContextTurnLimit:]
	}

	lines := make([]string, 0, len(tail))
	for _, turn := range tail {
		lines = append(lines,
			"Human: "+truncateRunes(turn.Input(), b.cfg.ContextTurnMaxChars)+
				"\nAI: "+truncateRunes(turn.Output(), b.cfg.ContextTurnMaxChars))
	}
	return strings.Join(lines, "\n")
}

func truncateRunes(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
