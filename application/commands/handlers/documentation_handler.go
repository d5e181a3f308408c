package handlers

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"triforge-backend/application/commands"
	"triforge-backend/application/sagas"
	"triforge-backend/application/services"
	"triforge-backend/domain/chains"
	"triforge-backend/domain/config"
	"triforge-backend/domain/core/valueobjects"
	pkgerrors "triforge-backend/pkg/errors"
)

// DocumentationHandler handles story generation and story modification.
// Generation runs the requirement through AI grading first; a rejected
// requirement short-circuits with the rejection reason and never touches
// memory or the generation chain.
type DocumentationHandler struct {
	saga     *sagas.GenerationSaga
	grader   *services.RequirementValidator
	resolver services.Resolver
	cfg      *config.DomainConfig
	logger   *zap.Logger
}

// NewDocumentationHandler creates a new documentation handler
func NewDocumentationHandler(
	saga *sagas.GenerationSaga,
	grader *services.RequirementValidator,
	resolver services.Resolver,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *DocumentationHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentationHandler{
		saga:     saga,
		grader:   grader,
		resolver: resolver,
		cfg:      cfg,
		logger:   logger,
	}
}

// GenerateStories executes the story generation command
func (h *DocumentationHandler) GenerateStories(ctx context.Context, cmd commands.GenerateStoriesCommand) (*commands.StoriesResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	userID, err := valueobjects.NewUserIDFromString(cmd.UserID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	outcome := h.grader.Validate(ctx, cmd.Requirement)
	if !outcome.Valid {
		h.logger.Info("Requirement rejected by grading",
			zap.String("userID", cmd.UserID),
			zap.String("reason", outcome.Reason),
		)
		return &commands.StoriesResult{
			UserID:  cmd.UserID,
			Stories: outcome.Reason,
			IsValid: false,
		}, nil
	}

	output, err := h.saga.Execute(ctx, sagas.GenerationPlan{
		UserID:   userID,
		Chain:    chains.JiraGeneration,
		Artifact: valueobjects.ArtifactJiraStories,
		Vars:     map[string]string{"requirement": cmd.Requirement},
		Placeholder: sagas.TurnDraft{
			Input:  fmt.Sprintf("Requirement: %s", cmd.Requirement),
			Output: "I'll generate Jira stories for this requirement.",
		},
		FinalInput: "Please generate Jira stories",
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Jira stories generation error")
	}

	return &commands.StoriesResult{
		UserID:  cmd.UserID,
		Stories: strings.TrimSpace(output),
		IsValid: true,
	}, nil
}

// ModifyStories executes the story modification command. The stories to
// modify come from the request when provided, otherwise from the last
// assistant output in memory regardless of its shape.
func (h *DocumentationHandler) ModifyStories(ctx context.Context, cmd commands.ModifyStoriesCommand) (*commands.GenerationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	userID, err := valueobjects.NewUserIDFromString(cmd.UserID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	prompt, err := valueobjects.NewModificationPromptWithConfig(cmd.ModificationPrompt, h.cfg)
	if err != nil {
		return nil, err
	}

	original := cmd.OriginalStories
	if original == "" {
		last, found, lookupErr := h.resolver.LastOutput(ctx, userID)
		if lookupErr != nil {
			return nil, pkgerrors.Wrap(lookupErr, "Error modifying Jira stories")
		}
		if !found {
			return nil, pkgerrors.NewMissingContentError(
				valueobjects.ArtifactJiraStories.String(),
				fmt.Sprintf("No conversation history found for user %s", cmd.UserID),
			)
		}
		original = last
	}

	combined := fmt.Sprintf("Original Jira Stories:\n%s\n\nAdditional Requirements/Feedback:\n\"%s\"\n", original, prompt.Text())

	output, err := h.saga.Execute(ctx, sagas.GenerationPlan{
		UserID:   userID,
		Chain:    chains.JiraModification,
		Artifact: valueobjects.ArtifactJiraStories,
		Vars:     map[string]string{"input": combined},
		Placeholder: sagas.TurnDraft{
			Input:  fmt.Sprintf("Request to modify Jira stories: %s", prompt.Text()),
			Output: "Processing modification request...",
		},
		FinalInput: "Please update the Jira stories",
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Error modifying Jira stories")
	}

	return &commands.GenerationResult{UserID: cmd.UserID, Response: output}, nil
}
