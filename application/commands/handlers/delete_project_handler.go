package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"triforge-backend/application/commands"
	"triforge-backend/application/ports"
	"triforge-backend/application/queries"
	"triforge-backend/domain/core/valueobjects"
	"triforge-backend/domain/events"
	pkgerrors "triforge-backend/pkg/errors"
)

// DeleteProjectHandler handles project deletion commands. Deletion also
// invalidates any cached archive for the project so the registry stays the
// single source of truth.
type DeleteProjectHandler struct {
	registry  ports.ProjectRegistry
	cache     ports.Cache
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewDeleteProjectHandler creates a new delete project handler
func NewDeleteProjectHandler(
	registry ports.ProjectRegistry,
	cache ports.Cache,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *DeleteProjectHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeleteProjectHandler{
		registry:  registry,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the delete project command
func (h *DeleteProjectHandler) Handle(ctx context.Context, cmd commands.DeleteProjectCommand) error {
	if err := cmd.Validate(); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	projectID, err := valueobjects.NewProjectIDFromString(cmd.ProjectID)
	if err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}

	if !h.registry.Delete(ctx, projectID) {
		return pkgerrors.ErrProjectNotFound
	}

	if h.cache != nil {
		if err := h.cache.Delete(ctx, queries.ArchiveCacheKey(cmd.ProjectID)); err != nil {
			h.logger.Warn("Failed to invalidate archive cache",
				zap.String("projectID", cmd.ProjectID),
				zap.Error(err),
			)
		}
	}

	if h.publisher != nil {
		event := events.NewProjectDeleted(projectID, time.Now())
		if err := h.publisher.Publish(ctx, event); err != nil {
			h.logger.Warn("Failed to publish event",
				zap.String("event_type", event.GetEventType()),
				zap.Error(err),
			)
		}
	}

	h.logger.Info("Project deleted", zap.String("projectID", cmd.ProjectID))
	return nil
}
