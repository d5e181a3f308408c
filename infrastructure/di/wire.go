//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"triforge-backend/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideAWSConfig,
	ProvideCloudWatchClient,
	ProvideMetrics,
	ProvideTracer,
	ProvideSessionStore,
	ProvideProjectRegistry,
	ProvideCache,
	ProvideJiraGateway,
	ProvideArchiver,
	ProvideCompletionClient,
	ProvideEventPublisher,
	ProvideContentResolver,
	ProvideContextBuilder,
	ProvideRequirementValidator,
	ProvideGenerationSaga,
	ProvideDocumentationHandler,
	ProvideDiagramHandler,
	ProvideCodeHandler,
	ProvideConversationHandler,
	ProvideRequirementsHandler,
	ProvideJiraHandler,
	ProvideProjectPipelineHandler,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideUserStore,
	ProvideJWTService,
	ProvideRateLimiter,
	ProvideErrorHandler,
	ProvideRESTHandlers,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
