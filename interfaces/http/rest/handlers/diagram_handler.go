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

// DiagramHandler handles Mermaid diagram HTTP requests
type DiagramHandler struct {
	app    *apphandlers.DiagramHandler
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewDiagramHandler creates a new diagram handler
func NewDiagramHandler(
	app *apphandlers.DiagramHandler,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *DiagramHandler {
	return &DiagramHandler{
		app:    app,
		errors: errorHandler,
		logger: logger,
	}
}

// GenerateDiagramRequest represents the request body for generating a diagram.
// The diagram type is checked against the supported set downstream so the
// error names the valid types.
type GenerateDiagramRequest struct {
	UserID      string `json:"user_id"`
	DiagramType string `json:"diagram_type"`
	JiraStories string `json:"jira_stories"`
	// Diagrams always render as Mermaid.js; the field is accepted so
	// existing clients keep working.
	DiagramFormat string `json:"diagram_format"`
}

// ModifyDiagramRequest represents the request body for modifying a diagram
type ModifyDiagramRequest struct {
	UserID              string `json:"user_id"`
	ModificationPrompt  string `json:"modification_prompt" validate:"required,min=1"`
	OriginalDiagramCode string `json:"original_diagram_code"`
}

// Generate handles POST /api/v1/diagrams/generate
func (h *DiagramHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateDiagramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	cmd := commands.GenerateDiagramCommand{
		UserID:      resolveUserID(r, req.UserID),
		DiagramType: req.DiagramType,
		JiraStories: req.JiraStories,
	}

	result, err := h.app.Generate(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, result)
}

// Modify handles POST /api/v1/diagrams/modify
func (h *DiagramHandler) Modify(w http.ResponseWriter, r *http.Request) {
	var req ModifyDiagramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	cmd := commands.ModifyDiagramCommand{
		UserID:              resolveUserID(r, req.UserID),
		ModificationPrompt:  req.ModificationPrompt,
		OriginalDiagramCode: req.OriginalDiagramCode,
	}

	result, err := h.app.Modify(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, result)
}
