package handlers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"triforge-backend/application/commands"
	"triforge-backend/application/ports"
	"triforge-backend/application/services"
	"triforge-backend/domain/core/aggregates"
	"triforge-backend/domain/core/entities"
	"triforge-backend/domain/core/valueobjects"
	"triforge-backend/domain/events"
	pkgerrors "triforge-backend/pkg/errors"
)

// JiraHandler handles Jira connection checks and story uploads. Uploads
// validate credentials and project access before any issue is created, and
// the upload outcome is committed to the user's conversation memory so later
// requests can refer back to it.
type JiraHandler struct {
	jira      ports.JiraGateway
	sessions  ports.SessionStore
	resolver  services.Resolver
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewJiraHandler creates a new Jira handler
func NewJiraHandler(
	jira ports.JiraGateway,
	sessions ports.SessionStore,
	resolver services.Resolver,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *JiraHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JiraHandler{
		jira:      jira,
		sessions:  sessions,
		resolver:  resolver,
		publisher: publisher,
		logger:    logger,
	}
}

// Validate executes the Jira connection validation command. A failed
// credential check is a normal response, not an error; only the transport
// layer treats it differently.
func (h *JiraHandler) Validate(ctx context.Context, cmd commands.ValidateJiraCommand) (*commands.JiraValidationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	creds := ports.JiraCredentials{
		Domain:   cmd.Domain,
		Email:    cmd.Email,
		APIToken: cmd.APIToken,
	}

	credsResult := h.jira.ValidateCredentials(ctx, creds)
	if !credsResult.Success {
		return &commands.JiraValidationResult{
			UserID:  cmd.UserID,
			IsValid: false,
			Message: credsResult.Message,
		}, nil
	}

	finalMessage := credsResult.Message
	var projectValidated *bool

	if cmd.ProjectKey != "" {
		projectResult := h.jira.ValidateProject(ctx, creds, cmd.ProjectKey)
		projectValidated = &projectResult.Success
		finalMessage = fmt.Sprintf("%s. %s", credsResult.Message, projectResult.Message)
	}

	return &commands.JiraValidationResult{
		UserID:           cmd.UserID,
		IsValid:          true,
		Message:          finalMessage,
		ProjectValidated: projectValidated,
	}, nil
}

// Upload executes the story upload command. Stories come from the request
// when provided, otherwise from story-shaped content in conversation memory.
func (h *JiraHandler) Upload(ctx context.Context, cmd commands.UploadStoriesCommand) (*commands.JiraUploadResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	userID, err := valueobjects.NewUserIDFromString(cmd.UserID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	resolved, found, err := h.resolver.Resolve(ctx, userID, services.ContentCandidate{
		Kind:     valueobjects.ArtifactJiraStories,
		Explicit: cmd.StoriesMarkdown,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Error uploading stories to Jira")
	}
	if !found {
		return nil, pkgerrors.NewMissingContentError(
			valueobjects.ArtifactJiraStories.String(),
			"No Jira stories provided in request or found in conversation history. Please generate stories first or provide them in the request.",
		)
	}

	creds := ports.JiraCredentials{
		Domain:   cmd.Domain,
		Email:    cmd.Email,
		APIToken: cmd.APIToken,
	}

	h.logger.Info("Validating Jira connection",
		zap.String("userID", cmd.UserID),
	)
	credsResult := h.jira.ValidateCredentials(ctx, creds)
	if !credsResult.Success {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("Jira credentials invalid: %s", credsResult.Message))
	}

	projectResult := h.jira.ValidateProject(ctx, creds, cmd.ProjectKey)
	if !projectResult.Success {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("Jira project invalid: %s", projectResult.Message))
	}

	h.logger.Info("Parsing Jira stories from markdown",
		zap.String("userID", cmd.UserID),
	)
	stories := entities.ParseStories(resolved.Text)
	if len(stories) == 0 {
		return nil, pkgerrors.NewValidationError(
			"No valid stories found in the provided markdown. Please ensure stories are properly formatted with ## headers.",
		)
	}

	h.logger.Info("Uploading stories to Jira",
		zap.String("userID", cmd.UserID),
		zap.String("projectKey", cmd.ProjectKey),
		zap.Int("storyCount", len(stories)),
	)

	upload := h.jira.UploadStories(ctx, creds, cmd.ProjectKey, stories)

	err = h.sessions.Update(ctx, userID, func(session *aggregates.Session) error {
		session.AddTurn(
			fmt.Sprintf("Upload %d stories to Jira project %s", len(stories), cmd.ProjectKey),
			upload.Message,
		)
		h.drainEvents(ctx, session)
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Error uploading stories to Jira")
	}

	h.publish(ctx, events.NewStoriesUploaded(userID, cmd.ProjectKey, len(upload.Created), len(upload.Failed), time.Now()))

	if upload.Success {
		h.logger.Info("Successfully uploaded stories",
			zap.String("userID", cmd.UserID),
			zap.String("message", upload.Message),
		)
	} else {
		h.logger.Warn("Upload completed with issues",
			zap.String("userID", cmd.UserID),
			zap.String("message", upload.Message),
		)
	}

	created := upload.Created
	if created == nil {
		created = []ports.JiraCreatedIssue{}
	}
	failed := upload.Failed
	if failed == nil {
		failed = []ports.JiraFailedIssue{}
	}

	return &commands.JiraUploadResult{
		UserID:            cmd.UserID,
		Success:           upload.Success,
		Message:           upload.Message,
		CreatedIssues:     created,
		FailedIssues:      failed,
		TotalStories:      len(stories),
		SuccessfulUploads: len(upload.Created),
	}, nil
}

func (h *JiraHandler) drainEvents(ctx context.Context, session *aggregates.Session) {
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

func (h *JiraHandler) publish(ctx context.Context, event events.DomainEvent) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish event",
			zap.String("event_type", event.GetEventType()),
			zap.Error(err),
		)
	}
}
