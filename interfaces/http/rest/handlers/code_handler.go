package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"triforge-backend/application/commands"
	apphandlers "triforge-backend/application/commands/handlers"
	pkgerrors "triforge-backend/pkg/errors"
	"triforge-backend/pkg/utils"
)

// CodeHandler handles code generation HTTP requests
type CodeHandler struct {
	app    *apphandlers.CodeHandler
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewCodeHandler creates a new code handler
func NewCodeHandler(
	app *apphandlers.CodeHandler,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *CodeHandler {
	return &CodeHandler{
		app:    app,
		errors: errorHandler,
		logger: logger,
	}
}

// GenerateCodeRequest represents the request body for generating code.
// The language defaults to Python when the client does not pick one.
type GenerateCodeRequest struct {
	UserID              string `json:"user_id"`
	ProgrammingLanguage string `json:"programming_language"`
	DiagramCode         string `json:"diagram_code"`
	JiraStories         string `json:"jira_stories"`
}

// ModifyCodeRequest represents the request body for modifying code
type ModifyCodeRequest struct {
	UserID             string `json:"user_id"`
	ModificationPrompt string `json:"modification_prompt" validate:"required,min=1"`
	OriginalCode       string `json:"original_code"`
}

// Generate handles POST /api/v1/code/generate
func (h *CodeHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	language := strings.TrimSpace(req.ProgrammingLanguage)
	if language == "" {
		language = "Python"
	}

	cmd := commands.GenerateCodeCommand{
		UserID:              resolveUserID(r, req.UserID),
		ProgrammingLanguage: language,
		DiagramCode:         req.DiagramCode,
		JiraStories:         req.JiraStories,
	}

	result, err := h.app.Generate(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, result)
}

// Modify handles POST /api/v1/code/modify
func (h *CodeHandler) Modify(w http.ResponseWriter, r *http.Request) {
	var req ModifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	cmd := commands.ModifyCodeCommand{
		UserID:             resolveUserID(r, req.UserID),
		ModificationPrompt: req.ModificationPrompt,
		OriginalCode:       req.OriginalCode,
	}

	result, err := h.app.Modify(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, result)
}
