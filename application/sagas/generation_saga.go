package sagas

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"triforge-backend/application/ports"
	"triforge-backend/application/services"
	"triforge-backend/domain/chains"
	"triforge-backend/domain/config"
	"triforge-backend/domain/core/aggregates"
	"triforge-backend/domain/core/valueobjects"
	"triforge-backend/domain/events"
	pkgerrors "triforge-backend/pkg/errors"
)

// GenerationState is the lifecycle state of one generation run
type GenerationState string

const (
	StatePending     GenerationState = "PENDING"
	StateResolving   GenerationState = "RESOLVING_INPUT"
	StateInvoking    GenerationState = "INVOKING"
	StateNormalizing GenerationState = "NORMALIZING"
	StateCommitting  GenerationState = "COMMITTING"
	StateCompleted   GenerationState = "COMPLETED"
	StateFailed      GenerationState = "FAILED"
	StateCompensated GenerationState = "COMPENSATED"
)

// TurnDraft is a turn to be committed during the run
type TurnDraft struct {
	Input  string
	Output string
}

// IsZero reports whether the draft is unset
func (d TurnDraft) IsZero() bool {
	return d.Input == "" && d.Output == ""
}

// GenerationPlan describes one orchestrated chain invocation. Handlers
// resolve the operation's content first and hand the saga a fully determined
// plan; the saga owns the lifecycle from there.
type GenerationPlan struct {
	UserID valueobjects.UserID
	Chain  chains.ChainName

	// Artifact names the shape the run produces, when it produces one.
	// Conversation-style runs leave it empty.
	Artifact valueobjects.ArtifactKind

	// Vars are the template variables beyond chat_history, which the saga
	// supplies itself when the chain asks for it
	Vars map[string]string

	// Placeholder is committed before invocation so the request is visible
	// in history immediately. A zero draft skips the pre-commit; such runs
	// write memory exactly once.
	Placeholder TurnDraft

	// FinalInput labels the committed result turn
	FinalInput string

	// Normalize post-processes the raw completion; nil keeps it verbatim
	Normalize func(string) string
}

// GenerationSaga runs a plan through ResolveInput, Invoke, Normalize and
// Commit, with failure reachable from every state. The model is called at
// most once per run, under the configured timeout, and a failure after the
// placeholder commit amends that turn instead of leaving it dangling.
type GenerationSaga struct {
	sessions    ports.SessionStore
	completions ports.CompletionClient
	publisher   ports.EventPublisher
	cfg         *config.DomainConfig
	logger      *zap.Logger
}

// NewGenerationSaga creates the generation saga
func NewGenerationSaga(
	sessions ports.SessionStore,
	completions ports.CompletionClient,
	publisher ports.EventPublisher,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *GenerationSaga {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationSaga{
		sessions:    sessions,
		completions: completions,
		publisher:   publisher,
		cfg:         cfg,
		logger:      logger,
	}
}

type generationRun struct {
	id                   string
	plan                 GenerationPlan
	state                GenerationState
	placeholderCommitted bool
}

// Execute runs the plan and returns the committed output text
func (s *GenerationSaga) Execute(ctx context.Context, plan GenerationPlan) (string, error) {
	run := &generationRun{
		id:    fmt.Sprintf("gen_%d", time.Now().UnixNano()),
		plan:  plan,
		state: StatePending,
	}

	s.logger.Debug("Starting generation run",
		zap.String("run_id", run.id),
		zap.String("chain", string(plan.Chain)),
		zap.String("user_id", plan.UserID.String()),
	)

	run.state = StateResolving
	spec, err := chains.Lookup(plan.Chain)
	if err != nil {
		return "", s.fail(ctx, run, err)
	}

	// The placeholder commit and the history snapshot happen under one
	// session lock, so the rendered history always includes the placeholder
	// and never a turn from an interleaved request.
	var history string
	err = s.sessions.Update(ctx, plan.UserID, func(session *aggregates.Session) error {
		if !plan.Placeholder.IsZero() {
			session.AddTurn(plan.Placeholder.Input, plan.Placeholder.Output)
			run.placeholderCommitted = true
		}
		if requiresHistory(spec) {
			history = services.RenderHistory(session.Turns())
		}
		s.drainEvents(ctx, session)
		return nil
	})
	if err != nil {
		return "", s.fail(ctx, run, err)
	}

	vars := make(map[string]string, len(plan.Vars)+1)
	for name, value := range plan.Vars {
		vars[name] = value
	}
	if requiresHistory(spec) {
		vars["chat_history"] = history
	}

	prompt, err := spec.Render(vars)
	if err != nil {
		return "", s.fail(ctx, run, err)
	}

	run.state = StateInvoking
	started := time.Now()
	invokeCtx, cancel := context.WithTimeout(ctx, s.cfg.GenerationTimeout)
	defer cancel()

	raw, err := s.completions.Complete(invokeCtx, prompt, ports.CompletionOptions{
		Chain:           string(plan.Chain),
		Temperature:     spec.Temperature,
		MaxOutputTokens: spec.MaxOutputTokens,
	})
	if err != nil {
		return "", s.fail(ctx, run, err)
	}

	s.logger.Debug("Chain invocation completed",
		zap.String("run_id", run.id),
		zap.String("chain", string(plan.Chain)),
		zap.String("provider", s.completions.Provider()),
		zap.Duration("latency", time.Since(started)),
	)

	run.state = StateNormalizing
	output := raw
	if plan.Normalize != nil {
		output = plan.Normalize(raw)
	}

	run.state = StateCommitting
	err = s.sessions.Update(ctx, plan.UserID, func(session *aggregates.Session) error {
		session.AddTurn(plan.FinalInput, output)
		s.drainEvents(ctx, session)
		return nil
	})
	if err != nil {
		return "", s.fail(ctx, run, err)
	}

	run.state = StateCompleted
	if plan.Artifact != "" {
		s.publish(ctx, events.NewArtifactGenerated(plan.UserID, plan.Artifact, string(plan.Chain), time.Now()))
	}
	s.logger.Info("Generation run completed",
		zap.String("run_id", run.id),
		zap.String("chain", string(plan.Chain)),
		zap.String("user_id", plan.UserID.String()),
		zap.Duration("duration", time.Since(started)),
	)

	return output, nil
}

// fail marks the run failed, reconciles the placeholder turn when one was
// committed, and returns the error the handler should surface
func (s *GenerationSaga) fail(ctx context.Context, run *generationRun, cause error) error {
	run.state = StateFailed
	s.logger.Error("Generation run failed",
		zap.String("run_id", run.id),
		zap.String("chain", string(run.plan.Chain)),
		zap.String("state", string(StateFailed)),
		zap.Bool("placeholder_committed", run.placeholderCommitted),
		zap.Error(cause),
	)

	if run.placeholderCommitted {
		s.compensate(ctx, run, cause)
	}

	s.publish(ctx, events.NewArtifactGenerationFailed(
		run.plan.UserID, string(run.plan.Chain), failureReason(cause), time.Now()))

	return classify(cause, s.completions.Provider())
}

// compensate overwrites the placeholder output so the session never keeps a
// permanent in-progress entry. The parent context is used deliberately: the
// store must be reconciled even when the invocation context was cancelled.
func (s *GenerationSaga) compensate(ctx context.Context, run *generationRun, cause error) {
	err := s.sessions.Update(ctx, run.plan.UserID, func(session *aggregates.Session) error {
		return session.AmendLastOutput("Request failed: " + failureReason(cause))
	})
	if err != nil {
		s.logger.Error("Placeholder compensation failed",
			zap.String("run_id", run.id),
			zap.String("user_id", run.plan.UserID.String()),
			zap.Error(err),
		)
		return
	}
	run.state = StateCompensated
	s.logger.Debug("Placeholder turn reconciled", zap.String("run_id", run.id))
}

// drainEvents moves the session's uncommitted events to the publisher.
// Publishing is best effort; generation never fails because of it.
func (s *GenerationSaga) drainEvents(ctx context.Context, session *aggregates.Session) {
	pending := session.GetUncommittedEvents()
	if len(pending) == 0 {
		return
	}
	session.MarkEventsAsCommitted()

	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishBatch(ctx, pending); err != nil {
		s.logger.Warn("Failed to publish session events", zap.Error(err))
	}
}

func (s *GenerationSaga) publish(ctx context.Context, event events.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("event_type", event.GetEventType()),
			zap.Error(err),
		)
	}
}

func requiresHistory(spec chains.ChainSpec) bool {
	for _, name := range spec.RequiredVariables {
		if name == "chat_history" {
			return true
		}
	}
	return false
}

// failureReason extracts a short human message for the amended turn
func failureReason(err error) string {
	var appErr *pkgerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	var domainErr *pkgerrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}

// classify keeps typed errors as they are and wraps everything else as an
// upstream failure of the active provider
func classify(err error, provider string) error {
	var appErr *pkgerrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	var domainErr *pkgerrors.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return pkgerrors.NewUpstreamError(provider, err)
}
