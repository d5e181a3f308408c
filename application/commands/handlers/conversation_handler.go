package handlers

import (
	"context"

	"go.uber.org/zap"

	"triforge-backend/application/commands"
	"triforge-backend/application/sagas"
	"triforge-backend/domain/chains"
	"triforge-backend/domain/core/valueobjects"
	pkgerrors "triforge-backend/pkg/errors"
)

// ConversationHandler handles free-form conversational messages. Unlike the
// artifact operations there is no placeholder turn; the exchange is committed
// to memory exactly once, after the model answers.
type ConversationHandler struct {
	saga   *sagas.GenerationSaga
	logger *zap.Logger
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(saga *sagas.GenerationSaga, logger *zap.Logger) *ConversationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationHandler{saga: saga, logger: logger}
}

// Converse executes the conversation command
func (h *ConversationHandler) Converse(ctx context.Context, cmd commands.ConverseCommand) (*commands.GenerationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	userID, err := valueobjects.NewUserIDFromString(cmd.UserID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	output, err := h.saga.Execute(ctx, sagas.GenerationPlan{
		UserID:     userID,
		Chain:      chains.Conversation,
		Vars:       map[string]string{"input": cmd.Content},
		FinalInput: cmd.Content,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Error in conversation")
	}

	return &commands.GenerationResult{UserID: cmd.UserID, Response: output}, nil
}
