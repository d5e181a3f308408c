package handlers

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"triforge-backend/application/commands"
	"triforge-backend/application/sagas"
	"triforge-backend/domain/chains"
	"triforge-backend/domain/config"
	"triforge-backend/domain/core/valueobjects"
	pkgerrors "triforge-backend/pkg/errors"
)

// RequirementsHandler handles document refinement and requirements analysis.
// Refinement enforces document length bounds and records a placeholder turn
// before the chain runs; analysis is the lightweight path with neither.
type RequirementsHandler struct {
	saga   *sagas.GenerationSaga
	cfg    *config.DomainConfig
	logger *zap.Logger
}

// NewRequirementsHandler creates a new requirements handler
func NewRequirementsHandler(
	saga *sagas.GenerationSaga,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *RequirementsHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequirementsHandler{
		saga:   saga,
		cfg:    cfg,
		logger: logger,
	}
}

// Refine executes the requirements refinement command
func (h *RequirementsHandler) Refine(ctx context.Context, cmd commands.RefineRequirementsCommand) (*commands.RefinementResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	userID, err := valueobjects.NewUserIDFromString(cmd.UserID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	doc, err := valueobjects.NewDocumentWithConfig(cmd.RawDocument, h.cfg)
	if err != nil {
		return nil, err
	}

	outputFormat := cmd.OutputFormat
	if outputFormat == "" {
		outputFormat = "structured_requirements"
	}
	targetAudience := cmd.TargetAudience
	if targetAudience == "" {
		targetAudience = "development_team"
	}
	criteria := "False"
	if cmd.IncludeAcceptanceCriteria {
		criteria = "True"
	}

	combined := fmt.Sprintf("Raw Document:\n%s\n\nOutput Format: %s\n\nTarget Audience: %s\n\nInclude Acceptance Criteria: %s",
		doc.Text(), outputFormat, targetAudience, criteria)

	output, err := h.saga.Execute(ctx, sagas.GenerationPlan{
		UserID: userID,
		Chain:  chains.RequirementsRefinement,
		Vars:   map[string]string{"input": combined},
		Placeholder: sagas.TurnDraft{
			Input:  fmt.Sprintf("Raw document to refine: %s...", doc.Preview(100)),
			Output: "Processing document refinement...",
		},
		FinalInput: "Refine document into requirements",
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Error refining requirements")
	}

	h.logger.Info("Successfully refined requirements",
		zap.String("userID", cmd.UserID),
	)

	return &commands.RefinementResult{
		UserID:              cmd.UserID,
		RefinedRequirements: strings.TrimSpace(output),
	}, nil
}

// Analyze executes the requirements analysis command. The document is passed
// through as-is; only the final turn is committed to memory.
func (h *RequirementsHandler) Analyze(ctx context.Context, cmd commands.AnalyzeRequirementsCommand) (*commands.RefinementResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	userID, err := valueobjects.NewUserIDFromString(cmd.UserID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	output, err := h.saga.Execute(ctx, sagas.GenerationPlan{
		UserID:     userID,
		Chain:      chains.RequirementsAnalysis,
		Vars:       map[string]string{"input": cmd.RawDocument},
		FinalInput: "Analyze document for requirements",
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Error analyzing requirements")
	}

	return &commands.RefinementResult{
		UserID:              cmd.UserID,
		RefinedRequirements: strings.TrimSpace(output),
	}, nil
}
