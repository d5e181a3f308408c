package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"triforge-backend/application/commands"
	apphandlers "triforge-backend/application/commands/handlers"
	"triforge-backend/application/queries"
	querybus "triforge-backend/application/queries/bus"
	pkgerrors "triforge-backend/pkg/errors"
	"triforge-backend/pkg/utils"
)

// JiraHandler handles Jira Cloud integration HTTP requests
type JiraHandler struct {
	app      *apphandlers.JiraHandler
	queryBus *querybus.QueryBus
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewJiraHandler creates a new Jira handler
func NewJiraHandler(
	app *apphandlers.JiraHandler,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *JiraHandler {
	return &JiraHandler{
		app:      app,
		queryBus: queryBus,
		errors:   errorHandler,
		logger:   logger,
	}
}

// ValidateJiraRequest represents the request body for validating Jira
// credentials. The API token is never echoed back or logged.
type ValidateJiraRequest struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email" validate:"required,email"`
	APIToken   string `json:"api_token" validate:"required"`
	Domain     string `json:"domain" validate:"required"`
	ProjectKey string `json:"project_key"`
}

// UploadStoriesRequest represents the request body for uploading stories
// to a Jira project
type UploadStoriesRequest struct {
	UserID          string `json:"user_id"`
	Email           string `json:"email" validate:"required,email"`
	APIToken        string `json:"api_token" validate:"required"`
	Domain          string `json:"domain" validate:"required"`
	ProjectKey      string `json:"project_key" validate:"required"`
	StoriesMarkdown string `json:"stories_markdown"`
}

// Validate handles POST /api/v1/jira/validate
func (h *JiraHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateJiraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	cmd := commands.ValidateJiraCommand{
		UserID:     resolveUserID(r, req.UserID),
		Email:      req.Email,
		APIToken:   req.APIToken,
		Domain:     req.Domain,
		ProjectKey: req.ProjectKey,
	}

	result, err := h.app.Validate(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, result)
}

// Upload handles POST /api/v1/jira/upload
func (h *JiraHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req UploadStoriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	cmd := commands.UploadStoriesCommand{
		UserID:          resolveUserID(r, req.UserID),
		Email:           req.Email,
		APIToken:        req.APIToken,
		Domain:          req.Domain,
		ProjectKey:      req.ProjectKey,
		StoriesMarkdown: req.StoriesMarkdown,
	}

	result, err := h.app.Upload(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, result)
}

// GetStories handles GET /api/v1/jira/stories and returns the newest
// story-shaped content from the caller's conversation memory.
func (h *JiraHandler) GetStories(w http.ResponseWriter, r *http.Request) {
	userID := callerUserID(r)
	if userID == "" {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "user_id is required")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetStoriesQuery{UserID: userID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, result)
}
