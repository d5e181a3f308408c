package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"triforge-backend/application/ports"
	"triforge-backend/application/queries"
	"triforge-backend/domain/core/valueobjects"
	pkgerrors "triforge-backend/pkg/errors"
)

// GetProjectHandler handles project detail queries
type GetProjectHandler struct {
	registry ports.ProjectRegistry
	logger   *zap.Logger
}

// NewGetProjectHandler creates a new get project handler
func NewGetProjectHandler(registry ports.ProjectRegistry, logger *zap.Logger) *GetProjectHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GetProjectHandler{
		registry: registry,
		logger:   logger,
	}
}

// Handle executes the get project query. File contents are omitted; the
// download query serves those as an archive.
func (h *GetProjectHandler) Handle(ctx context.Context, query queries.GetProjectQuery) (*queries.GetProjectResult, error) {
	if err := query.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	projectID, err := valueobjects.NewProjectIDFromString(query.ProjectID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	project, ok := h.registry.Get(ctx, projectID)
	if !ok {
		return nil, pkgerrors.ErrProjectNotFound
	}

	projectFiles := project.Files()
	files := make([]queries.ProjectFileInfo, 0, len(projectFiles))
	for _, file := range projectFiles {
		files = append(files, queries.ProjectFileInfo{
			Path:     file.Path,
			Language: file.Language,
			Size:     len(file.Content),
		})
	}

	return &queries.GetProjectResult{
		ProjectID:    project.ID().String(),
		UserID:       project.UserID().String(),
		Requirement:  project.Requirement(),
		Technologies: project.Technologies(),
		FileCount:    project.FileCount(),
		Structure:    project.Structure(),
		Files:        files,
		CreatedAt:    project.CreatedAt().Format(time.RFC3339),
	}, nil
}
