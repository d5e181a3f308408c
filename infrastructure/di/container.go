package di

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"triforge-backend/application/commands/bus"
	"triforge-backend/application/ports"
	querybus "triforge-backend/application/queries/bus"
	domainconfig "triforge-backend/domain/config"
	"triforge-backend/infrastructure/config"
	"triforge-backend/infrastructure/persistence/memory"
	"triforge-backend/pkg/auth"
	"triforge-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Domain      *domainconfig.DomainConfig
	Logger      *zap.Logger
	Sessions    ports.SessionStore
	Registry    ports.ProjectRegistry
	Cache       ports.Cache
	Completions ports.CompletionClient
	Publisher   ports.EventPublisher
	CommandBus  *bus.CommandBus
	QueryBus    *querybus.QueryBus
	Metrics     *observability.Metrics
	Tracer      *observability.Tracer
	Users       *auth.UserStore
	Tokens      *auth.JWTService
	Limiter     auth.RateLimiter
	Handler     http.Handler
}

// NewContainer wires the full dependency graph
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	dc := ProvideDomainConfig(cfg)

	awsCfg, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	metrics := ProvideMetrics(ProvideCloudWatchClient(awsCfg), cfg, logger)
	tracer := ProvideTracer(cfg)

	sessions := ProvideSessionStore(dc, logger)
	registry, err := ProvideProjectRegistry(dc, logger)
	if err != nil {
		return nil, fmt.Errorf("project registry: %w", err)
	}
	cache := ProvideCache()

	completions, err := ProvideCompletionClient(cfg, metrics, tracer, logger)
	if err != nil {
		return nil, fmt.Errorf("completion client: %w", err)
	}

	publisher := ProvideEventPublisher(dc, metrics, logger)
	resolver := ProvideContentResolver(sessions, logger)
	contexts := ProvideContextBuilder(sessions, dc, logger)
	grader := ProvideRequirementValidator(completions, dc, logger)
	saga := ProvideGenerationSaga(sessions, completions, publisher, dc, logger)

	documentation := ProvideDocumentationHandler(saga, grader, resolver, dc, logger)
	diagram := ProvideDiagramHandler(saga, resolver, dc, logger)
	code := ProvideCodeHandler(saga, resolver, dc, logger)
	conversation := ProvideConversationHandler(saga, logger)
	requirements := ProvideRequirementsHandler(saga, dc, logger)
	jiraHandler := ProvideJiraHandler(ProvideJiraGateway(dc, logger), sessions, resolver, publisher, logger)
	pipeline := ProvideProjectPipelineHandler(completions, contexts, sessions, registry, publisher, dc, logger)

	commandBus, err := ProvideCommandBus(sessions, registry, cache, publisher, logger)
	if err != nil {
		return nil, fmt.Errorf("command bus: %w", err)
	}

	queryBus, err := ProvideQueryBus(resolver, registry, ProvideArchiver(logger), cache, dc, metrics, logger)
	if err != nil {
		return nil, fmt.Errorf("query bus: %w", err)
	}

	users, err := ProvideUserStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("auth users: %w", err)
	}
	tokens := ProvideJWTService(cfg)
	limiter := ProvideRateLimiter(cfg)
	errorHandler := ProvideErrorHandler(cfg, logger)

	restHandlers := ProvideRESTHandlers(
		users, tokens, sessions, commandBus, queryBus,
		documentation, diagram, code, conversation, requirements,
		pipeline, jiraHandler, errorHandler, logger,
	)

	handler := ProvideRouter(cfg, restHandlers, tokens, limiter, tracer, logger)

	logger.Info("Container initialized",
		zap.String("environment", cfg.Environment),
		zap.String("provider", completions.Provider()),
		zap.Int("auth_users", users.Len()),
		zap.Bool("metrics_enabled", metrics != nil),
		zap.Bool("tracing_enabled", tracer.Enabled()),
	)

	return &Container{
		Config:      cfg,
		Domain:      dc,
		Logger:      logger,
		Sessions:    sessions,
		Registry:    registry,
		Cache:       cache,
		Completions: completions,
		Publisher:   publisher,
		CommandBus:  commandBus,
		QueryBus:    queryBus,
		Metrics:     metrics,
		Tracer:      tracer,
		Users:       users,
		Tokens:      tokens,
		Limiter:     limiter,
		Handler:     handler,
	}, nil
}

// Shutdown releases background resources held by the container
func (c *Container) Shutdown() {
	if cache, ok := c.Cache.(*memory.TTLCache); ok {
		cache.Stop()
	}
	_ = c.Logger.Sync()
}
