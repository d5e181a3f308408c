package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"triforge-backend/application/commands"
	apphandlers "triforge-backend/application/commands/handlers"
	pkgerrors "triforge-backend/pkg/errors"
	"triforge-backend/pkg/utils"
)

// ConversationHandler handles free-form conversation HTTP requests
type ConversationHandler struct {
	app    *apphandlers.ConversationHandler
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(
	app *apphandlers.ConversationHandler,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *ConversationHandler {
	return &ConversationHandler{
		app:    app,
		errors: errorHandler,
		logger: logger,
	}
}

// MessageRequest represents a free-form chat message. Agent and format
// hints are accepted so existing clients keep working; routing is decided
// by the conversation chain itself.
type MessageRequest struct {
	UserID              string `json:"user_id"`
	Content             string `json:"content" validate:"required,min=1"`
	AgentType           string `json:"agent_type"`
	DiagramFormat       string `json:"diagram_format"`
	ProgrammingLanguage string `json:"programming_language"`
}

// Converse handles POST /api/v1/conversation
func (h *ConversationHandler) Converse(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	cmd := commands.ConverseCommand{
		UserID:  resolveUserID(r, req.UserID),
		Content: req.Content,
	}

	result, err := h.app.Converse(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, result)
}
