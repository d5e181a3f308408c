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

// DocumentationHandler handles Jira story generation HTTP requests
type DocumentationHandler struct {
	app    *apphandlers.DocumentationHandler
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewDocumentationHandler creates a new documentation handler
func NewDocumentationHandler(
	app *apphandlers.DocumentationHandler,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *DocumentationHandler {
	return &DocumentationHandler{
		app:    app,
		errors: errorHandler,
		logger: logger,
	}
}

// GenerateStoriesRequest represents the request body for generating stories
type GenerateStoriesRequest struct {
	UserID      string `json:"user_id"`
	Requirement string `json:"requirement" validate:"required,min=1"`
	// Stories always render as Jira-style markdown; the field is accepted
	// so existing clients keep working.
	DocumentFormat string `json:"document_format"`
}

// ModifyStoriesRequest represents the request body for modifying stories
type ModifyStoriesRequest struct {
	UserID             string `json:"user_id"`
	ModificationPrompt string `json:"modification_prompt" validate:"required,min=1"`
	OriginalStories    string `json:"original_stories"`
}

// GenerateStories handles POST /api/v1/documentation/generate
func (h *DocumentationHandler) GenerateStories(w http.ResponseWriter, r *http.Request) {
	var req GenerateStoriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	cmd := commands.GenerateStoriesCommand{
		UserID:      resolveUserID(r, req.UserID),
		Requirement: req.Requirement,
	}

	result, err := h.app.GenerateStories(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, result)
}

// ModifyStories handles POST /api/v1/documentation/modify
func (h *DocumentationHandler) ModifyStories(w http.ResponseWriter, r *http.Request) {
	var req ModifyStoriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	cmd := commands.ModifyStoriesCommand{
		UserID:             resolveUserID(r, req.UserID),
		ModificationPrompt: req.ModificationPrompt,
		OriginalStories:    req.OriginalStories,
	}

	result, err := h.app.ModifyStories(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, result)
}
