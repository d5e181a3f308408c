package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triforge-backend/application/queries"
	"triforge-backend/domain/config"
	"triforge-backend/domain/core/entities"
	"triforge-backend/domain/core/valueobjects"
	"triforge-backend/infrastructure/persistence/memory"
	pkgerrors "triforge-backend/pkg/errors"
)

// queryFixture wires the query handlers against real in-memory stores
type queryFixture struct {
	cfg      *config.DomainConfig
	store    *memory.SessionStore
	registry *memory.ProjectRegistry
}

func newQueryFixture(t *testing.T) *queryFixture {
	t.Helper()
	cfg := config.DefaultDomainConfig()
	registry, err := memory.NewProjectRegistry(cfg, nil)
	require.NoError(t, err)
	return &queryFixture{
		cfg:      cfg,
		store:    memory.NewSessionStore(cfg, nil),
		registry: registry,
	}
}

func (f *queryFixture) addProject(t *testing.T, user, prompt string) *entities.GeneratedProject {
	t.Helper()
	userID, err := valueobjects.NewUserIDFromString(user)
	require.NoError(t, err)
	project, err := entities.NewGeneratedProject(userID, prompt,
		[]entities.Technology{{Name: "Python", Category: "language"}},
		[]entities.ProjectFile{
			{Path: "app/main.py", Content: "print('hello')", Language: "python"},
			{Path: "README.md", Content: "# Demo", Language: "markdown"},
		},
	)
	require.NoError(t, err)
	require.NoError(t, f.registry.Put(context.Background(), project))
	// keep CreatedAt strictly ordered across successive calls
	time.Sleep(time.Millisecond)
	return project
}

func TestListProjectsNewestFirstPagination(t *testing.T) {
	f := newQueryFixture(t)
	first := f.addProject(t, "alice", "first project")
	second := f.addProject(t, "alice", "second project")
	third := f.addProject(t, "alice", "third project")
	f.addProject(t, "bob", "unrelated project")

	handler := NewListProjectsHandler(f.registry, nil)

	page1, err := handler.Handle(context.Background(), queries.ListProjectsQuery{
		UserID:   "alice",
		Page:     1,
		PageSize: 2,
	})
	require.NoError(t, err)
	require.Len(t, page1.Projects, 2)
	assert.Equal(t, third.ID().String(), page1.Projects[0].ProjectID)
	assert.Equal(t, second.ID().String(), page1.Projects[1].ProjectID)
	require.NotNil(t, page1.Pagination)
	assert.Equal(t, 3, page1.Pagination.Total)
	assert.Equal(t, 2, page1.Pagination.TotalPages)
	assert.True(t, page1.Pagination.HasNext)
	assert.False(t, page1.Pagination.HasPrev)

	page2, err := handler.Handle(context.Background(), queries.ListProjectsQuery{
		UserID:   "alice",
		Page:     2,
		PageSize: 2,
	})
	require.NoError(t, err)
	require.Len(t, page2.Projects, 1)
	assert.Equal(t, first.ID().String(), page2.Projects[0].ProjectID)
	assert.False(t, page2.Pagination.HasNext)
	assert.True(t, page2.Pagination.HasPrev)
}

func TestListProjectsDefaultPagination(t *testing.T) {
	f := newQueryFixture(t)
	project := f.addProject(t, "alice", "only project")

	handler := NewListProjectsHandler(f.registry, nil)
	result, err := handler.Handle(context.Background(), queries.ListProjectsQuery{UserID: "alice"})

	require.NoError(t, err)
	require.Len(t, result.Projects, 1)
	assert.Equal(t, project.ID().String(), result.Projects[0].ProjectID)
	assert.Equal(t, 2, result.Projects[0].FileCount)
	assert.Equal(t, 1, result.Pagination.Page)
	assert.Equal(t, 20, result.Pagination.PageSize)

	_, err = time.Parse(time.RFC3339, result.Projects[0].CreatedAt)
	assert.NoError(t, err)
}

func TestListProjectsPageBeyondRange(t *testing.T) {
	f := newQueryFixture(t)
	f.addProject(t, "alice", "only project")

	handler := NewListProjectsHandler(f.registry, nil)
	result, err := handler.Handle(context.Background(), queries.ListProjectsQuery{
		UserID:   "alice",
		Page:     5,
		PageSize: 10,
	})

	require.NoError(t, err)
	assert.Empty(t, result.Projects)
	assert.Equal(t, 1, result.Pagination.Total)
}

func TestListProjectsNoProjects(t *testing.T) {
	f := newQueryFixture(t)

	handler := NewListProjectsHandler(f.registry, nil)
	result, err := handler.Handle(context.Background(), queries.ListProjectsQuery{UserID: "alice"})

	require.NoError(t, err)
	assert.Empty(t, result.Projects)
	assert.Equal(t, 0, result.Pagination.Total)
}

func TestListProjectsMissingUserID(t *testing.T) {
	f := newQueryFixture(t)

	handler := NewListProjectsHandler(f.registry, nil)
	_, err := handler.Handle(context.Background(), queries.ListProjectsQuery{})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}
