package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"triforge-backend/application/commands"
	"triforge-backend/application/commands/bus"
	apphandlers "triforge-backend/application/commands/handlers"
	"triforge-backend/application/queries"
	querybus "triforge-backend/application/queries/bus"
	"triforge-backend/pkg/common"
	pkgerrors "triforge-backend/pkg/errors"
	"triforge-backend/pkg/utils"
)

// ProjectHandler handles project generation and registry HTTP requests
type ProjectHandler struct {
	pipeline   *apphandlers.ProjectPipelineHandler
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(
	pipeline *apphandlers.ProjectPipelineHandler,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *ProjectHandler {
	return &ProjectHandler{
		pipeline:   pipeline,
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errorHandler,
		logger:     logger,
	}
}

// GenerateProjectRequest represents the request body for generating a
// complete project
type GenerateProjectRequest struct {
	UserID string `json:"user_id"`
	Prompt string `json:"prompt" validate:"required,min=1"`
}

// Generate handles POST /api/v1/projects/generate
func (h *ProjectHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	cmd := commands.GenerateProjectCommand{
		UserID: resolveUserID(r, req.UserID),
		Prompt: req.Prompt,
	}

	result, err := h.pipeline.Generate(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusCreated, result)
}

// List handles GET /api/v1/projects
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := callerUserID(r)
	if userID == "" {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "user_id is required")
		return
	}

	params := common.ExtractPaginationParams(r)
	query := queries.ListProjectsQuery{
		UserID:   userID,
		Page:     params.Page,
		PageSize: params.PageSize,
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, result)
}

// Get handles GET /api/v1/projects/{projectID}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if projectID == "" {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Project ID is required")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetProjectQuery{ProjectID: projectID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, result)
}

// Download handles GET /api/v1/projects/{projectID}/download and streams
// the packaged project as a ZIP attachment.
func (h *ProjectHandler) Download(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if projectID == "" {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Project ID is required")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.DownloadProjectQuery{ProjectID: projectID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	archive, ok := result.(*queries.ProjectArchive)
	if !ok {
		h.errors.HandleStatus(w, r, http.StatusInternalServerError, "Failed to package project")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archive.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(archive.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(archive.Content); err != nil {
		h.logger.Error("Failed to stream project archive",
			zap.String("project_id", projectID),
			zap.Error(err),
		)
	}
}

// Delete handles DELETE /api/v1/projects/{projectID}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if projectID == "" {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Project ID is required")
		return
	}

	cmd := commands.DeleteProjectCommand{ProjectID: projectID}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
