package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"triforge-backend/application/queries"
	"triforge-backend/application/services"
	"triforge-backend/domain/core/entities"
	"triforge-backend/domain/core/valueobjects"
	pkgerrors "triforge-backend/pkg/errors"
)

// GetStoriesHandler handles queries for stories held in conversation memory
type GetStoriesHandler struct {
	resolver services.Resolver
	logger   *zap.Logger
}

// NewGetStoriesHandler creates a new get stories handler
func NewGetStoriesHandler(resolver services.Resolver, logger *zap.Logger) *GetStoriesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GetStoriesHandler{
		resolver: resolver,
		logger:   logger,
	}
}

// Handle executes the get stories query by scanning memory for story-shaped
// content and parsing it into individual stories for the count
func (h *GetStoriesHandler) Handle(ctx context.Context, query queries.GetStoriesQuery) (*queries.GetStoriesResult, error) {
	if err := query.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	userID, err := valueobjects.NewUserIDFromString(query.UserID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	resolved, found, err := h.resolver.Resolve(ctx, userID, services.ContentCandidate{
		Kind: valueobjects.ArtifactJiraStories,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Error retrieving stories from memory")
	}
	if !found {
		return nil, pkgerrors.NewMissingContentError(
			valueobjects.ArtifactJiraStories.String(),
			fmt.Sprintf("No Jira stories found in conversation history for user %s. Please generate stories first.", query.UserID),
		)
	}

	stories := entities.ParseStories(resolved.Text)

	return &queries.GetStoriesResult{
		UserID:          query.UserID,
		StoriesFound:    true,
		StoriesMarkdown: resolved.Text,
		StoryCount:      len(stories),
		Message:         fmt.Sprintf("Found %d stories in conversation history", len(stories)),
	}, nil
}
