package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"triforge-backend/application/commands"
	"triforge-backend/application/sagas"
	"triforge-backend/application/services"
	"triforge-backend/domain/chains"
	"triforge-backend/domain/config"
	"triforge-backend/domain/core/valueobjects"
	pkgerrors "triforge-backend/pkg/errors"
)

// DiagramHandler handles Mermaid.js diagram generation and modification
type DiagramHandler struct {
	saga     *sagas.GenerationSaga
	resolver services.Resolver
	cfg      *config.DomainConfig
	logger   *zap.Logger
}

// NewDiagramHandler creates a new diagram handler
func NewDiagramHandler(
	saga *sagas.GenerationSaga,
	resolver services.Resolver,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *DiagramHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiagramHandler{
		saga:     saga,
		resolver: resolver,
		cfg:      cfg,
		logger:   logger,
	}
}

// Generate executes the diagram generation command. Stories come from the
// request when provided, otherwise from the newest story-shaped content in
// memory.
func (h *DiagramHandler) Generate(ctx context.Context, cmd commands.GenerateDiagramCommand) (*commands.GenerationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	userID, err := valueobjects.NewUserIDFromString(cmd.UserID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	diagramType, err := valueobjects.NewDiagramType(cmd.DiagramType)
	if err != nil {
		return nil, err
	}

	resolved, found, err := h.resolver.Resolve(ctx, userID, services.ContentCandidate{
		Kind:     valueobjects.ArtifactJiraStories,
		Explicit: cmd.JiraStories,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Error generating diagram")
	}
	if !found {
		return nil, pkgerrors.NewMissingContentError(
			valueobjects.ArtifactJiraStories.String(),
			"No Jira stories provided or found in conversation history. Please generate stories first or provide them.",
		)
	}

	combined := fmt.Sprintf("Jira User Stories:\n%s\n\nDiagram Type: %s\n", resolved.Text, diagramType.Normalized())

	output, err := h.saga.Execute(ctx, sagas.GenerationPlan{
		UserID:   userID,
		Chain:    chains.DiagramGeneration,
		Artifact: valueobjects.ArtifactDiagram,
		Vars:     map[string]string{"input": combined},
		Placeholder: sagas.TurnDraft{
			Input:  fmt.Sprintf("Generate a %s diagram for these Jira stories", diagramType.Normalized()),
			Output: "Processing diagram generation request...",
		},
		FinalInput: fmt.Sprintf("Generate a %s diagram", diagramType.Normalized()),
		Normalize:  chains.CleanMermaidResponse,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Error generating diagram")
	}

	return &commands.GenerationResult{UserID: cmd.UserID, Response: output}, nil
}

// Modify executes the diagram modification command
func (h *DiagramHandler) Modify(ctx context.Context, cmd commands.ModifyDiagramCommand) (*commands.GenerationResult, error) {
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

	resolved, found, err := h.resolver.Resolve(ctx, userID, services.ContentCandidate{
		Kind:     valueobjects.ArtifactDiagram,
		Explicit: cmd.OriginalDiagramCode,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Error modifying diagram")
	}
	if !found {
		return nil, pkgerrors.NewMissingContentError(
			valueobjects.ArtifactDiagram.String(),
			"No original diagram code provided or found in conversation history. Please generate a diagram first or provide the code.",
		)
	}

	combined := fmt.Sprintf("Existing Mermaid.js Diagram:\n%s\n\nModification Request:\n\"%s\"\n", resolved.Text, prompt.Text())

	output, err := h.saga.Execute(ctx, sagas.GenerationPlan{
		UserID:   userID,
		Chain:    chains.DiagramModification,
		Artifact: valueobjects.ArtifactDiagram,
		Vars:     map[string]string{"input": combined},
		Placeholder: sagas.TurnDraft{
			Input:  fmt.Sprintf("Request to modify diagram: %s", prompt.Text()),
			Output: "Processing diagram modification request...",
		},
		FinalInput: "Please update the diagram",
		Normalize:  chains.CleanMermaidResponse,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Error modifying diagram")
	}

	return &commands.GenerationResult{UserID: cmd.UserID, Response: output}, nil
}
