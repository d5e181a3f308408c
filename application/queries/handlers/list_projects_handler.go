package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"triforge-backend/application/ports"
	"triforge-backend/application/queries"
	"triforge-backend/domain/core/valueobjects"
	"triforge-backend/pkg/common"
	pkgerrors "triforge-backend/pkg/errors"
)

// ListProjectsHandler handles project listing queries
type ListProjectsHandler struct {
	registry ports.ProjectRegistry
	logger   *zap.Logger
}

// NewListProjectsHandler creates a new list projects handler
func NewListProjectsHandler(registry ports.ProjectRegistry, logger *zap.Logger) *ListProjectsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListProjectsHandler{
		registry: registry,
		logger:   logger,
	}
}

// Handle executes the list projects query. Projects come back newest first
// from the registry; pagination slices that ordering.
func (h *ListProjectsHandler) Handle(ctx context.Context, query queries.ListProjectsQuery) (*queries.ListProjectsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	userID, err := valueobjects.NewUserIDFromString(query.UserID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	params := common.DefaultPaginationParams()
	if query.Page > 0 {
		params.Page = query.Page
	}
	if query.PageSize > 0 {
		params.PageSize = query.PageSize
	}

	all := h.registry.ListByUser(ctx, userID)
	total := len(all)

	offset := params.CalculateOffset()
	page := all[:0:0]
	if offset < total {
		end := offset + params.PageSize
		if end > total {
			end = total
		}
		page = all[offset:end]
	}

	summaries := make([]queries.ProjectSummary, 0, len(page))
	for _, project := range page {
		summaries = append(summaries, queries.ProjectSummary{
			ProjectID:    project.ID().String(),
			Technologies: project.Technologies(),
			FileCount:    project.FileCount(),
			CreatedAt:    project.CreatedAt().Format(time.RFC3339),
		})
	}

	return &queries.ListProjectsResult{
		Projects:   summaries,
		Pagination: common.BuildPaginationMeta(params.Page, params.PageSize, total),
	}, nil
}
