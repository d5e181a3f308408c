package di

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"triforge-backend/application/commands"
	"triforge-backend/application/commands/bus"
	commands_handlers "triforge-backend/application/commands/handlers"
	"triforge-backend/application/ports"
	"triforge-backend/application/queries"
	querybus "triforge-backend/application/queries/bus"
	queries_handlers "triforge-backend/application/queries/handlers"
	"triforge-backend/application/sagas"
	"triforge-backend/application/services"
	domainconfig "triforge-backend/domain/config"
	"triforge-backend/infrastructure/archive"
	"triforge-backend/infrastructure/config"
	"triforge-backend/infrastructure/jira"
	"triforge-backend/infrastructure/llm"
	"triforge-backend/infrastructure/messaging"
	"triforge-backend/infrastructure/persistence/memory"
	"triforge-backend/interfaces/http/rest"
	"triforge-backend/interfaces/http/rest/handlers"
	"triforge-backend/pkg/auth"
	pkgerrors "triforge-backend/pkg/errors"
	"triforge-backend/pkg/observability"
)

const serviceName = "triforge-backend"

// jwtAudience is the audience claim stamped into issued tokens
var jwtAudience = []string{"triforge-api"}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zapCfg.Build()
}

// ProvideDomainConfig derives the business rules from the environment and
// applies the operator's overrides
func ProvideDomainConfig(cfg *config.Config) *domainconfig.DomainConfig {
	dc := domainconfig.LoadDomainConfig(cfg.Environment)
	if cfg.MemoryWindowSize > 0 {
		dc.MemoryWindowSize = cfg.MemoryWindowSize
	}
	if cfg.ProjectRegistrySize > 0 {
		dc.ProjectRegistryCapacity = cfg.ProjectRegistrySize
	}
	if cfg.LLMTimeout > 0 {
		dc.GenerationTimeout = cfg.LLMTimeout
	}
	if cfg.JiraTimeout > 0 {
		dc.JiraTimeout = cfg.JiraTimeout
	}
	return dc
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideMetrics creates the metrics emitter. Disabled metrics mean a nil
// instance, which every consumer treats as a no-op.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	if !cfg.MetricsEnabled {
		return nil
	}
	return observability.NewMetrics(cfg.Environment, client, logger)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(serviceName, cfg.TracingEnabled)
}

// ProvideSessionStore creates the in-process conversation store
func ProvideSessionStore(dc *domainconfig.DomainConfig, logger *zap.Logger) ports.SessionStore {
	return memory.NewSessionStore(dc, logger)
}

// ProvideProjectRegistry creates the LRU-bounded project registry
func ProvideProjectRegistry(dc *domainconfig.DomainConfig, logger *zap.Logger) (ports.ProjectRegistry, error) {
	return memory.NewProjectRegistry(dc, logger)
}

// ProvideCache creates the archive cache
func ProvideCache() ports.Cache {
	return memory.NewTTLCache(time.Minute)
}

// ProvideJiraGateway creates the Jira Cloud client
func ProvideJiraGateway(dc *domainconfig.DomainConfig, logger *zap.Logger) ports.JiraGateway {
	return jira.NewClient(dc, logger)
}

// ProvideArchiver creates the ZIP packager
func ProvideArchiver(logger *zap.Logger) ports.Archiver {
	return archive.NewZipWriter(logger)
}

// ProvideCompletionClient creates the configured model client wrapped with
// instrumentation
func ProvideCompletionClient(
	cfg *config.Config,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) (ports.CompletionClient, error) {
	client, err := llm.NewCompletionClient(llm.Options{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.ProviderAPIKey(),
		Model:    cfg.DefaultModel,
	}, logger)
	if err != nil {
		return nil, err
	}
	defaulted := llm.WithDefaults(client, cfg.DefaultTemperature, cfg.MaxOutputTokens)
	return llm.Instrument(defaulted, metrics, tracer), nil
}

// ProvideEventPublisher creates the logging event publisher with its
// metrics sink
func ProvideEventPublisher(
	dc *domainconfig.DomainConfig,
	metrics *observability.Metrics,
	logger *zap.Logger,
) ports.EventPublisher {
	var sink messaging.MetricsSink
	if metrics != nil {
		sink = metrics
	}
	return messaging.NewPublisher(logger, sink, dc.EnableEventPublishing)
}

// ProvideContentResolver creates the session content resolver
func ProvideContentResolver(sessions ports.SessionStore, logger *zap.Logger) services.Resolver {
	return services.NewContentResolver(sessions, logger)
}

// ProvideContextBuilder creates the pipeline context builder
func ProvideContextBuilder(sessions ports.SessionStore, dc *domainconfig.DomainConfig, logger *zap.Logger) *services.ContextBuilder {
	return services.NewContextBuilder(sessions, dc, logger)
}

// ProvideRequirementValidator creates the requirement grader
func ProvideRequirementValidator(completions ports.CompletionClient, dc *domainconfig.DomainConfig, logger *zap.Logger) *services.RequirementValidator {
	return services.NewRequirementValidator(completions, dc, logger)
}

// ProvideGenerationSaga creates the shared generation saga
func ProvideGenerationSaga(
	sessions ports.SessionStore,
	completions ports.CompletionClient,
	publisher ports.EventPublisher,
	dc *domainconfig.DomainConfig,
	logger *zap.Logger,
) *sagas.GenerationSaga {
	return sagas.NewGenerationSaga(sessions, completions, publisher, dc, logger)
}

// ProvideDocumentationHandler creates the story generation handler
func ProvideDocumentationHandler(
	saga *sagas.GenerationSaga,
	grader *services.RequirementValidator,
	resolver services.Resolver,
	dc *domainconfig.DomainConfig,
	logger *zap.Logger,
) *commands_handlers.DocumentationHandler {
	return commands_handlers.NewDocumentationHandler(saga, grader, resolver, dc, logger)
}

// ProvideDiagramHandler creates the diagram handler
func ProvideDiagramHandler(
	saga *sagas.GenerationSaga,
	resolver services.Resolver,
	dc *domainconfig.DomainConfig,
	logger *zap.Logger,
) *commands_handlers.DiagramHandler {
	return commands_handlers.NewDiagramHandler(saga, resolver, dc, logger)
}

// ProvideCodeHandler creates the code handler
func ProvideCodeHandler(
	saga *sagas.GenerationSaga,
	resolver services.Resolver,
	dc *domainconfig.DomainConfig,
	logger *zap.Logger,
) *commands_handlers.CodeHandler {
	return commands_handlers.NewCodeHandler(saga, resolver, dc, logger)
}

// ProvideConversationHandler creates the conversation handler
func ProvideConversationHandler(saga *sagas.GenerationSaga, logger *zap.Logger) *commands_handlers.ConversationHandler {
	return commands_handlers.NewConversationHandler(saga, logger)
}

// ProvideRequirementsHandler creates the requirements refinement handler
func ProvideRequirementsHandler(
	saga *sagas.GenerationSaga,
	dc *domainconfig.DomainConfig,
	logger *zap.Logger,
) *commands_handlers.RequirementsHandler {
	return commands_handlers.NewRequirementsHandler(saga, dc, logger)
}

// ProvideJiraHandler creates the Jira upload handler
func ProvideJiraHandler(
	gateway ports.JiraGateway,
	sessions ports.SessionStore,
	resolver services.Resolver,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *commands_handlers.JiraHandler {
	return commands_handlers.NewJiraHandler(gateway, sessions, resolver, publisher, logger)
}

// ProvideProjectPipelineHandler creates the multi-stage project handler
func ProvideProjectPipelineHandler(
	completions ports.CompletionClient,
	contexts *services.ContextBuilder,
	sessions ports.SessionStore,
	registry ports.ProjectRegistry,
	publisher ports.EventPublisher,
	dc *domainconfig.DomainConfig,
	logger *zap.Logger,
) *commands_handlers.ProjectPipelineHandler {
	return commands_handlers.NewProjectPipelineHandler(completions, contexts, sessions, registry, publisher, dc, logger)
}

// ProvideCommandBus creates a command bus with the effect-only commands
// registered behind the logging pipeline. Generation commands are not here;
// their handlers return payloads and are called directly by the transport.
func ProvideCommandBus(
	sessions ports.SessionStore,
	registry ports.ProjectRegistry,
	cache ports.Cache,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus()
	pipeline := bus.NewPipeline(bus.LoggingMiddleware(&zapLoggerAdapter{logger}))

	clearSession := commands_handlers.NewClearSessionHandler(sessions, publisher, logger)
	if err := commandBus.Register(commands.ClearSessionCommand{}, pipeline.Execute(bus.HandlerFor(clearSession.Handle))); err != nil {
		return nil, err
	}

	deleteProject := commands_handlers.NewDeleteProjectHandler(registry, cache, publisher, logger)
	if err := commandBus.Register(commands.DeleteProjectCommand{}, pipeline.Execute(bus.HandlerFor(deleteProject.Handle))); err != nil {
		return nil, err
	}

	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	resolver services.Resolver,
	registry ports.ProjectRegistry,
	archiver ports.Archiver,
	cache ports.Cache,
	dc *domainconfig.DomainConfig,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()

	var wrap func(querybus.QueryHandler) querybus.QueryHandler
	if metrics != nil {
		mw := querybus.NewMetricsMiddleware(&queryMetricsAdapter{metrics: metrics})
		wrap = mw.Wrap
	} else {
		wrap = func(h querybus.QueryHandler) querybus.QueryHandler { return h }
	}

	getStories := queries_handlers.NewGetStoriesHandler(resolver, logger)
	if err := queryBus.Register(queries.GetStoriesQuery{}, wrap(querybus.HandlerFor(getStories.Handle))); err != nil {
		return nil, err
	}

	listProjects := queries_handlers.NewListProjectsHandler(registry, logger)
	if err := queryBus.Register(queries.ListProjectsQuery{}, wrap(querybus.HandlerFor(listProjects.Handle))); err != nil {
		return nil, err
	}

	getProject := queries_handlers.NewGetProjectHandler(registry, logger)
	if err := queryBus.Register(queries.GetProjectQuery{}, wrap(querybus.HandlerFor(getProject.Handle))); err != nil {
		return nil, err
	}

	downloadProject := queries_handlers.NewDownloadProjectHandler(registry, archiver, cache, dc, logger)
	if err := queryBus.Register(queries.DownloadProjectQuery{}, wrap(querybus.HandlerFor(downloadProject.Handle))); err != nil {
		return nil, err
	}

	return queryBus, nil
}

// ProvideUserStore parses the configured credentials
func ProvideUserStore(cfg *config.Config) (*auth.UserStore, error) {
	return auth.ParseUsers(cfg.AuthUsers)
}

// ProvideJWTService creates the token issuer and validator
func ProvideJWTService(cfg *config.Config) *auth.JWTService {
	return auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, jwtAudience, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
}

// ProvideRateLimiter creates the per-client limiter. A non-positive limit
// disables rate limiting.
func ProvideRateLimiter(cfg *config.Config) auth.RateLimiter {
	if cfg.RateLimitRPM <= 0 {
		return nil
	}
	return auth.NewSlidingWindowLimiter(cfg.RateLimitRPM, time.Minute)
}

// ProvideErrorHandler creates the shared HTTP error responder
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideRESTHandlers bundles the HTTP handlers for the router
func ProvideRESTHandlers(
	users *auth.UserStore,
	tokens *auth.JWTService,
	sessions ports.SessionStore,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	documentation *commands_handlers.DocumentationHandler,
	diagram *commands_handlers.DiagramHandler,
	code *commands_handlers.CodeHandler,
	conversation *commands_handlers.ConversationHandler,
	requirements *commands_handlers.RequirementsHandler,
	pipeline *commands_handlers.ProjectPipelineHandler,
	jiraHandler *commands_handlers.JiraHandler,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) rest.Handlers {
	return rest.Handlers{
		Auth:          handlers.NewAuthHandler(users, tokens, commandBus, sessions, errorHandler, logger),
		Documentation: handlers.NewDocumentationHandler(documentation, errorHandler, logger),
		Diagram:       handlers.NewDiagramHandler(diagram, errorHandler, logger),
		Code:          handlers.NewCodeHandler(code, errorHandler, logger),
		Conversation:  handlers.NewConversationHandler(conversation, errorHandler, logger),
		Requirements:  handlers.NewRequirementsHandler(requirements, errorHandler, logger),
		Project:       handlers.NewProjectHandler(pipeline, commandBus, queryBus, errorHandler, logger),
		Jira:          handlers.NewJiraHandler(jiraHandler, queryBus, errorHandler, logger),
	}
}

// ProvideRouter creates the configured HTTP router
func ProvideRouter(
	cfg *config.Config,
	h rest.Handlers,
	tokens *auth.JWTService,
	limiter auth.RateLimiter,
	tracer *observability.Tracer,
	logger *zap.Logger,
) http.Handler {
	return rest.NewRouter(cfg, h, tokens, limiter, tracer, logger).Setup()
}

// zapLoggerAdapter adapts zap.Logger to the bus logging interface
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, fields ...interface{}) {
	a.logger.Info(msg, fieldsToZap(fields)...)
}

func (a *zapLoggerAdapter) Error(msg string, fields ...interface{}) {
	a.logger.Error(msg, fieldsToZap(fields)...)
}

func fieldsToZap(fields []interface{}) []zap.Field {
	var zapFields []zap.Field
	for i := 0; i+1 < len(fields); i += 2 {
		key, _ := fields[i].(string)
		zapFields = append(zapFields, zap.Any(key, fields[i+1]))
	}
	return zapFields
}

// queryMetricsAdapter adapts the CloudWatch emitter to the query bus
// metrics interface
type queryMetricsAdapter struct {
	metrics *observability.Metrics
}

func (a *queryMetricsAdapter) StartTimer(metric, label string) querybus.Timer {
	return &queryTimer{
		metrics: a.metrics,
		metric:  metric,
		label:   label,
		started: time.Now(),
	}
}

func (a *queryMetricsAdapter) Increment(metric, label string) {
	a.metrics.Count(context.Background(), metric, label)
}

type queryTimer struct {
	metrics *observability.Metrics
	metric  string
	label   string
	started time.Time
}

func (t *queryTimer) Stop() {
	t.metrics.Timing(context.Background(), t.metric, t.label, time.Since(t.started))
}
