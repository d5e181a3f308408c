package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"triforge-backend/application/commands"
	"triforge-backend/application/ports"
	"triforge-backend/application/services"
	"triforge-backend/domain/chains"
	"triforge-backend/domain/config"
	"triforge-backend/domain/core/aggregates"
	"triforge-backend/domain/core/entities"
	"triforge-backend/domain/core/validators"
	"triforge-backend/domain/core/valueobjects"
	pkgerrors "triforge-backend/pkg/errors"
)

// ProjectPipelineHandler runs the multi-stage project pipeline: gather
// context from the user's history, detect the requested technologies, then
// generate the full file bundle. The stages run sequentially and a parse
// failure at any stage aborts the run; no partial project is ever registered.
//
// The pipeline drives the completion client directly rather than through the
// generation saga: it makes two model calls per run and commits a single
// summary turn at the end, with no placeholder to compensate.
type ProjectPipelineHandler struct {
	completions ports.CompletionClient
	contexts    *services.ContextBuilder
	sessions    ports.SessionStore
	registry    ports.ProjectRegistry
	publisher   ports.EventPublisher
	validator   *validators.ProjectValidator
	cfg         *config.DomainConfig
	logger      *zap.Logger
}

// NewProjectPipelineHandler creates a new project pipeline handler
func NewProjectPipelineHandler(
	completions ports.CompletionClient,
	contexts *services.ContextBuilder,
	sessions ports.SessionStore,
	registry ports.ProjectRegistry,
	publisher ports.EventPublisher,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *ProjectPipelineHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectPipelineHandler{
		completions: completions,
		contexts:    contexts,
		sessions:    sessions,
		registry:    registry,
		publisher:   publisher,
		validator:   validators.NewProjectValidator(cfg),
		cfg:         cfg,
		logger:      logger,
	}
}

// Generate executes the project generation command
func (h *ProjectPipelineHandler) Generate(ctx context.Context, cmd commands.GenerateProjectCommand) (*commands.ProjectGenerationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	userID, err := valueobjects.NewUserIDFromString(cmd.UserID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	projectContext, err := h.contexts.GatherProjectContext(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Error generating project")
	}
	history, err := h.contexts.ChatHistory(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Error generating project")
	}

	technologies, err := h.detectTechnologies(ctx, cmd.Prompt, projectContext)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Error generating project")
	}
	if err := h.validator.ValidateTechnologies(technologies); err != nil {
		return nil, asRequestError(err)
	}

	h.logger.Info("Detected technologies",
		zap.String("userID", cmd.UserID),
		zap.Int("count", len(technologies)),
	)

	files, err := h.generateFiles(ctx, cmd.Prompt, projectContext, history, technologies)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Error generating project")
	}
	if err := h.validator.ValidateFiles(files); err != nil {
		return nil, asRequestError(err)
	}

	project, err := entities.NewGeneratedProject(userID, cmd.Prompt, technologies, files)
	if err != nil {
		return nil, err
	}

	if err := h.registry.Put(ctx, project); err != nil {
		return nil, pkgerrors.Wrap(err, "Error generating project")
	}
	h.drainProjectEvents(ctx, project)

	err = h.sessions.Update(ctx, userID, func(session *aggregates.Session) error {
		session.AddTurn(
			fmt.Sprintf("Generate a complete project: %s...", promptPreview(cmd.Prompt, 100)),
			fmt.Sprintf("Generated project with technologies: %s. Created %d files.",
				strings.Join(project.TechnologyNames(), ", "), project.FileCount()),
		)
		h.drainSessionEvents(ctx, session)
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Error generating project")
	}

	h.logger.Info("Project generated",
		zap.String("userID", cmd.UserID),
		zap.String("projectID", project.ID().String()),
		zap.Int("fileCount", project.FileCount()),
	)

	return &commands.ProjectGenerationResult{
		UserID:       cmd.UserID,
		ProjectID:    project.ID().String(),
		Technologies: project.Technologies(),
		FileCount:    project.FileCount(),
		Structure:    project.Structure(),
	}, nil
}

// detectTechnologies runs the technology detection chain and parses its JSON
// payload. Categories default to "unknown" when the model omits them.
func (h *ProjectPipelineHandler) detectTechnologies(ctx context.Context, prompt, projectContext string) ([]entities.Technology, error) {
	raw, err := h.invoke(ctx, chains.TechnologyDetection, map[string]string{
		"prompt":  prompt,
		"context": projectContext,
	})
	if err != nil {
		return nil, err
	}

	cleaned := chains.CleanJSONResponse(raw)

	var payload struct {
		Technologies []entities.Technology `json:"technologies"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		h.logger.Error("Failed to parse technologies JSON",
			zap.Error(err),
			zap.String("response", cleaned),
		)
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("Invalid technology detection response: %v", err))
	}

	for i := range payload.Technologies {
		if payload.Technologies[i].Category == "" {
			payload.Technologies[i].Category = "unknown"
		}
	}
	return payload.Technologies, nil
}

// generateFiles runs the project code generation chain over the detected
// technologies plus everything gathered from memory, and parses the file
// bundle. Languages default to "text" when the model omits them.
func (h *ProjectPipelineHandler) generateFiles(
	ctx context.Context,
	prompt, projectContext, history string,
	technologies []entities.Technology,
) ([]entities.ProjectFile, error) {
	techJSON, err := json.Marshal(technologies)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Technologies: %s\n\nOriginal Request: %s\n\nAvailable Context:\n%s", techJSON, prompt, projectContext)
	if history != "" {
		fmt.Fprintf(&sb, "\n\nConversation History:\n%s", history)
	}

	raw, err := h.invoke(ctx, chains.ProjectCodeGeneration, map[string]string{"input": sb.String()})
	if err != nil {
		return nil, err
	}

	cleaned := chains.CleanJSONResponse(raw)

	var payload struct {
		Files []entities.ProjectFile `json:"files"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		h.logger.Error("Failed to parse project files JSON",
			zap.Error(err),
			zap.Int("responseLength", len(cleaned)),
		)
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("Invalid project files response: %v", err))
	}

	for i := range payload.Files {
		if payload.Files[i].Language == "" {
			payload.Files[i].Language = "text"
		}
	}
	return payload.Files, nil
}

// invoke renders one chain and calls the model under the generation timeout
func (h *ProjectPipelineHandler) invoke(ctx context.Context, chain chains.ChainName, vars map[string]string) (string, error) {
	spec, err := chains.Lookup(chain)
	if err != nil {
		return "", err
	}
	prompt, err := spec.Render(vars)
	if err != nil {
		return "", err
	}

	invokeCtx, cancel := context.WithTimeout(ctx, h.cfg.GenerationTimeout)
	defer cancel()

	started := time.Now()
	raw, err := h.completions.Complete(invokeCtx, prompt, ports.CompletionOptions{
		Chain:           string(chain),
		Temperature:     spec.Temperature,
		MaxOutputTokens: spec.MaxOutputTokens,
	})
	if err != nil {
		return "", pkgerrors.NewUpstreamError(h.completions.Provider(), err)
	}

	h.logger.Debug("Pipeline stage completed",
		zap.String("chain", string(chain)),
		zap.String("provider", h.completions.Provider()),
		zap.Duration("latency", time.Since(started)),
	)
	return raw, nil
}

func (h *ProjectPipelineHandler) drainProjectEvents(ctx context.Context, project *entities.GeneratedProject) {
	pending := project.GetUncommittedEvents()
	if len(pending) == 0 {
		return
	}
	project.MarkEventsAsCommitted()

	if h.publisher == nil {
		return
	}
	if err := h.publisher.PublishBatch(ctx, pending); err != nil {
		h.logger.Warn("Failed to publish project events", zap.Error(err))
	}
}

func (h *ProjectPipelineHandler) drainSessionEvents(ctx context.Context, session *aggregates.Session) {
	pending := session.GetUncommittedEvents()
	if len(pending) == 0 {
		return
	}
	session.MarkEventsAsCommitted()

	if h.publisher == nil {
		return
	}
	if err := h.publisher.PublishBatch(ctx, pending); err != nil {
		h.logger.Warn("Failed to publish session events", zap.Error(err))
	}
}

// asRequestError keeps typed domain errors intact and flattens aggregated
// field failures into a single 400, so invalid model output never surfaces
// as a masked 500.
func asRequestError(err error) error {
	var ve *pkgerrors.ValidationErrors
	if errors.As(err, &ve) {
		return pkgerrors.NewValidationError(ve.Error())
	}
	return err
}

func promptPreview(text string, maxRunes int) string {
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return string(runes[:maxRunes])
}
