package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"triforge-backend/application/commands"
	"triforge-backend/application/ports"
	"triforge-backend/domain/core/valueobjects"
	"triforge-backend/domain/events"
	pkgerrors "triforge-backend/pkg/errors"
)

// ClearSessionHandler handles session clear commands. Clearing a user with
// no session is a no-op, matching the memory store contract.
type ClearSessionHandler struct {
	sessions  ports.SessionStore
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewClearSessionHandler creates a new clear session handler
func NewClearSessionHandler(
	sessions ports.SessionStore,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *ClearSessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClearSessionHandler{
		sessions:  sessions,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the clear session command
func (h *ClearSessionHandler) Handle(ctx context.Context, cmd commands.ClearSessionCommand) error {
	if err := cmd.Validate(); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	userID, err := valueobjects.NewUserIDFromString(cmd.UserID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	dropped, existed := h.sessions.Clear(ctx, userID)
	if !existed {
		h.logger.Debug("No session to clear", zap.String("userID", cmd.UserID))
		return nil
	}

	if h.publisher != nil {
		event := events.NewSessionCleared(userID, dropped, time.Now())
		if err := h.publisher.Publish(ctx, event); err != nil {
			h.logger.Warn("Failed to publish event",
				zap.String("event_type", event.GetEventType()),
				zap.Error(err),
			)
		}
	}

	h.logger.Info("Session cleared",
		zap.String("userID", cmd.UserID),
		zap.Int("turnsDropped", dropped),
	)
	return nil
}
