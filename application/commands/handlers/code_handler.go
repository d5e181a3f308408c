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

// CodeHandler handles code generation and modification
type CodeHandler struct {
	saga     *sagas.GenerationSaga
	resolver services.Resolver
	cfg      *config.DomainConfig
	logger   *zap.Logger
}

// NewCodeHandler creates a new code handler
func NewCodeHandler(
	saga *sagas.GenerationSaga,
	resolver services.Resolver,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *CodeHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CodeHandler{
		saga:     saga,
		resolver: resolver,
		cfg:      cfg,
		logger:   logger,
	}
}

// Generate executes the code generation command. An explicit diagram beats
// explicit stories; memory content beats nothing, again preferring diagrams
// over stories.
func (h *CodeHandler) Generate(ctx context.Context, cmd commands.GenerateCodeCommand) (*commands.GenerationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	userID, err := valueobjects.NewUserIDFromString(cmd.UserID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	if cmd.ProgrammingLanguage == "" {
		return nil, pkgerrors.ErrLanguageRequired
	}

	resolved, found, err := h.resolver.Resolve(ctx, userID,
		services.ContentCandidate{Kind: valueobjects.ArtifactDiagram, Explicit: cmd.DiagramCode},
		services.ContentCandidate{Kind: valueobjects.ArtifactJiraStories, Explicit: cmd.JiraStories},
	)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Error generating code")
	}
	if !found {
		return nil, pkgerrors.NewMissingContentError(
			"diagram or jira stories",
			"No diagram or Jira stories provided or found in conversation history. Cannot generate code.",
		)
	}

	var content string
	if resolved.Kind == valueobjects.ArtifactDiagram {
		content = fmt.Sprintf("Diagram:\n%s", resolved.Text)
	} else {
		content = fmt.Sprintf("Jira Stories:\n%s", resolved.Text)
	}
	source := resolved.Kind.String()

	language := cmd.ProgrammingLanguage
	output, err := h.saga.Execute(ctx, sagas.GenerationPlan{
		UserID:   userID,
		Chain:    chains.CodeGeneration,
		Artifact: valueobjects.ArtifactCode,
		Vars:     map[string]string{"input": fmt.Sprintf("Programming Language: %s\n%s", language, content)},
		Placeholder: sagas.TurnDraft{
			Input:  fmt.Sprintf("Generate %s code based on %s", language, source),
			Output: "Processing code generation request...",
		},
		FinalInput: fmt.Sprintf("Generated %s code", language),
		Normalize: func(response string) string {
			return chains.CleanCodeResponse(response, language)
		},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Error generating code")
	}

	return &commands.GenerationResult{UserID: cmd.UserID, Response: output}, nil
}

// Modify executes the code modification command
func (h *CodeHandler) Modify(ctx context.Context, cmd commands.ModifyCodeCommand) (*commands.GenerationResult, error) {
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
		Kind:     valueobjects.ArtifactCode,
		Explicit: cmd.OriginalCode,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Error modifying code")
	}
	if !found {
		return nil, pkgerrors.NewMissingContentError(
			valueobjects.ArtifactCode.String(),
			"No original code provided or found in conversation history. Please generate code first or provide the code.",
		)
	}

	combined := fmt.Sprintf("Existing Code:\n%s\n\nModification Request:\n\"%s\"\n", resolved.Text, prompt.Text())

	output, err := h.saga.Execute(ctx, sagas.GenerationPlan{
		UserID:   userID,
		Chain:    chains.CodeModification,
		Artifact: valueobjects.ArtifactCode,
		Vars:     map[string]string{"input": combined},
		Placeholder: sagas.TurnDraft{
			Input:  fmt.Sprintf("Request to modify code: %s", prompt.Text()),
			Output: "Processing code modification request...",
		},
		FinalInput: "Please update the code",
		Normalize: func(response string) string {
			return chains.CleanCodeResponse(response, "")
		},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Error modifying code")
	}

	return &commands.GenerationResult{UserID: cmd.UserID, Response: output}, nil
}
