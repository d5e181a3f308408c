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

// RequirementsHandler handles document refinement HTTP requests
type RequirementsHandler struct {
	app    *apphandlers.RequirementsHandler
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewRequirementsHandler creates a new requirements handler
func NewRequirementsHandler(
	app *apphandlers.RequirementsHandler,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *RequirementsHandler {
	return &RequirementsHandler{
		app:    app,
		errors: errorHandler,
		logger: logger,
	}
}

// RefineRequirementsRequest represents the request body for refining a raw
// document into structured requirements. Acceptance criteria are included
// unless the client opts out.
type RefineRequirementsRequest struct {
	UserID                    string `json:"user_id"`
	RawDocument               string `json:"raw_document" validate:"required"`
	OutputFormat              string `json:"output_format"`
	TargetAudience            string `json:"target_audience"`
	IncludeAcceptanceCriteria *bool  `json:"include_acceptance_criteria"`
}

// AnalyzeRequirementsRequest represents the request body for analyzing a
// document without refining it
type AnalyzeRequirementsRequest struct {
	UserID      string `json:"user_id"`
	RawDocument string `json:"raw_document" validate:"required"`
}

// Refine handles POST /api/v1/requirements/refine
func (h *RequirementsHandler) Refine(w http.ResponseWriter, r *http.Request) {
	var req RefineRequirementsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	includeCriteria := true
	if req.IncludeAcceptanceCriteria != nil {
		includeCriteria = *req.IncludeAcceptanceCriteria
	}

	cmd := commands.RefineRequirementsCommand{
		UserID:                    resolveUserID(r, req.UserID),
		RawDocument:               req.RawDocument,
		OutputFormat:              req.OutputFormat,
		TargetAudience:            req.TargetAudience,
		IncludeAcceptanceCriteria: includeCriteria,
	}

	result, err := h.app.Refine(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, result)
}

// Analyze handles POST /api/v1/requirements/analyze
func (h *RequirementsHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequirementsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	cmd := commands.AnalyzeRequirementsCommand{
		UserID:      resolveUserID(r, req.UserID),
		RawDocument: req.RawDocument,
	}

	result, err := h.app.Analyze(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, result)
}
