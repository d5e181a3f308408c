package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"triforge-backend/application/commands"
	"triforge-backend/application/commands/bus"
	apphandlers "triforge-backend/application/commands/handlers"
	"triforge-backend/application/ports"
	"triforge-backend/application/queries"
	querybus "triforge-backend/application/queries/bus"
	queries_handlers "triforge-backend/application/queries/handlers"
	"triforge-backend/application/sagas"
	"triforge-backend/application/services"
	"triforge-backend/domain/config"
	"triforge-backend/domain/core/aggregates"
	"triforge-backend/domain/core/valueobjects"
	"triforge-backend/infrastructure/archive"
	"triforge-backend/infrastructure/persistence/memory"
	"triforge-backend/pkg/auth"
	pkgerrors "triforge-backend/pkg/errors"
	"triforge-backend/tests/mocks"
)

const (
	testStories = "## As a user, I want to log in so that I can access my account\n\n**Story Points:** 3"
	testDiagram = "graph TD\n    A[Login] --> B[Dashboard]"
)

// restFixture wires the HTTP handlers against a real session store,
// registry, and saga with mocked external collaborators
type restFixture struct {
	cfg       *config.DomainConfig
	store     *memory.SessionStore
	client    *mocks.MockCompletionClient
	publisher *mocks.MockEventPublisher
	jira      *mocks.MockJiraGateway
	registry  ports.ProjectRegistry
	cache     ports.Cache
	resolver  *services.ContentResolver
	saga      *sagas.GenerationSaga
	errors    *pkgerrors.ErrorHandler
	users     *auth.UserStore
	tokens    *auth.JWTService
}

func newRestFixture(t *testing.T) *restFixture {
	t.Helper()

	cfg := config.DefaultDomainConfig()
	store := memory.NewSessionStore(cfg, nil)
	client := new(mocks.MockCompletionClient)
	publisher := new(mocks.MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	publisher.On("PublishBatch", mock.Anything, mock.Anything).Return(nil).Maybe()

	registry, err := memory.NewProjectRegistry(cfg, nil)
	require.NoError(t, err)

	cache := memory.NewTTLCache(time.Minute)
	t.Cleanup(cache.Stop)

	users, err := auth.ParseUsers("alice:wonderland:alice@example.com")
	require.NoError(t, err)

	return &restFixture{
		cfg:       cfg,
		store:     store,
		client:    client,
		publisher: publisher,
		jira:      new(mocks.MockJiraGateway),
		registry:  registry,
		cache:     cache,
		resolver:  services.NewContentResolver(store, nil),
		saga:      sagas.NewGenerationSaga(store, client, publisher, cfg, nil),
		errors:    pkgerrors.NewErrorHandler(zap.NewNop(), false),
		users:     users,
		tokens:    auth.NewJWTService("test-secret", "triforge-backend", []string{"triforge-api"}, 30*time.Minute, 24*time.Hour),
	}
}

func (f *restFixture) documentation() *DocumentationHandler {
	grader := services.NewRequirementValidator(f.client, f.cfg, nil)
	app := apphandlers.NewDocumentationHandler(f.saga, grader, f.resolver, f.cfg, nil)
	return NewDocumentationHandler(app, f.errors, zap.NewNop())
}

func (f *restFixture) diagram() *DiagramHandler {
	app := apphandlers.NewDiagramHandler(f.saga, f.resolver, f.cfg, nil)
	return NewDiagramHandler(app, f.errors, zap.NewNop())
}

func (f *restFixture) code() *CodeHandler {
	app := apphandlers.NewCodeHandler(f.saga, f.resolver, f.cfg, nil)
	return NewCodeHandler(app, f.errors, zap.NewNop())
}

func (f *restFixture) conversation() *ConversationHandler {
	app := apphandlers.NewConversationHandler(f.saga, nil)
	return NewConversationHandler(app, f.errors, zap.NewNop())
}

func (f *restFixture) requirements() *RequirementsHandler {
	app := apphandlers.NewRequirementsHandler(f.saga, f.cfg, nil)
	return NewRequirementsHandler(app, f.errors, zap.NewNop())
}

func (f *restFixture) jiraHandler(t *testing.T) *JiraHandler {
	app := apphandlers.NewJiraHandler(f.jira, f.store, f.resolver, f.publisher, nil)
	return NewJiraHandler(app, f.queryBus(t), f.errors, zap.NewNop())
}

func (f *restFixture) project(t *testing.T) *ProjectHandler {
	contexts := services.NewContextBuilder(f.store, f.cfg, nil)
	pipeline := apphandlers.NewProjectPipelineHandler(f.client, contexts, f.store, f.registry, f.publisher, f.cfg, nil)
	return NewProjectHandler(pipeline, f.commandBus(t), f.queryBus(t), f.errors, zap.NewNop())
}

func (f *restFixture) authHandler(t *testing.T) *AuthHandler {
	return NewAuthHandler(f.users, f.tokens, f.commandBus(t), f.store, f.errors, zap.NewNop())
}

func (f *restFixture) commandBus(t *testing.T) *bus.CommandBus {
	t.Helper()
	commandBus := bus.NewCommandBus()

	clearSession := apphandlers.NewClearSessionHandler(f.store, f.publisher, nil)
	err := commandBus.Register(commands.ClearSessionCommand{}, bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) error {
		return clearSession.Handle(ctx, cmd.(commands.ClearSessionCommand))
	}))
	require.NoError(t, err)

	deleteProject := apphandlers.NewDeleteProjectHandler(f.registry, f.cache, f.publisher, nil)
	err = commandBus.Register(commands.DeleteProjectCommand{}, bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) error {
		return deleteProject.Handle(ctx, cmd.(commands.DeleteProjectCommand))
	}))
	require.NoError(t, err)

	return commandBus
}

func (f *restFixture) queryBus(t *testing.T) *querybus.QueryBus {
	t.Helper()
	queryBus := querybus.NewQueryBus()

	getStories := queries_handlers.NewGetStoriesHandler(f.resolver, nil)
	err := queryBus.Register(queries.GetStoriesQuery{}, querybus.QueryHandlerFunc(func(ctx context.Context, query querybus.Query) (interface{}, error) {
		return getStories.Handle(ctx, query.(queries.GetStoriesQuery))
	}))
	require.NoError(t, err)

	listProjects := queries_handlers.NewListProjectsHandler(f.registry, nil)
	err = queryBus.Register(queries.ListProjectsQuery{}, querybus.QueryHandlerFunc(func(ctx context.Context, query querybus.Query) (interface{}, error) {
		return listProjects.Handle(ctx, query.(queries.ListProjectsQuery))
	}))
	require.NoError(t, err)

	getProject := queries_handlers.NewGetProjectHandler(f.registry, nil)
	err = queryBus.Register(queries.GetProjectQuery{}, querybus.QueryHandlerFunc(func(ctx context.Context, query querybus.Query) (interface{}, error) {
		return getProject.Handle(ctx, query.(queries.GetProjectQuery))
	}))
	require.NoError(t, err)

	downloadProject := queries_handlers.NewDownloadProjectHandler(f.registry, archive.NewZipWriter(nil), f.cache, f.cfg, nil)
	err = queryBus.Register(queries.DownloadProjectQuery{}, querybus.QueryHandlerFunc(func(ctx context.Context, query querybus.Query) (interface{}, error) {
		return downloadProject.Handle(ctx, query.(queries.DownloadProjectQuery))
	}))
	require.NoError(t, err)

	return queryBus
}

// seedTurns appends alternating input/output turns to the user's session
func (f *restFixture) seedTurns(t *testing.T, user string, outputs ...string) {
	t.Helper()
	userID, err := valueobjects.NewUserIDFromString(user)
	require.NoError(t, err)
	err = f.store.Update(context.Background(), userID, func(session *aggregates.Session) error {
		for i, output := range outputs {
			session.AddTurn(fmt.Sprintf("request %d", i+1), output)
		}
		return nil
	})
	require.NoError(t, err)
}

func (f *restFixture) sessionExists(t *testing.T, user string) bool {
	t.Helper()
	userID, err := valueobjects.NewUserIDFromString(user)
	require.NoError(t, err)
	existed, err := f.store.View(context.Background(), userID, func(*aggregates.Session) error { return nil })
	require.NoError(t, err)
	return existed
}

func postJSON(handler http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func getRequest(handler http.HandlerFunc, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}
