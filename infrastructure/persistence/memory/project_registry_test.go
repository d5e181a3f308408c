package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triforge-backend/domain/config"
	"triforge-backend/domain/core/entities"
	"triforge-backend/domain/core/valueobjects"
)

func registryWithCapacity(t *testing.T, capacity int) *ProjectRegistry {
	t.Helper()
	cfg := config.DefaultDomainConfig()
	cfg.ProjectRegistryCapacity = capacity

	registry, err := NewProjectRegistry(cfg, nil)
	require.NoError(t, err)
	return registry
}

func storedProject(t *testing.T, owner string, createdAt time.Time) *entities.GeneratedProject {
	t.Helper()
	user, err := valueobjects.NewUserIDFromString(owner)
	require.NoError(t, err)

	files := []entities.ProjectFile{{Path: "main.go", Content: "package main", Language: "go"}}
	structure, err := entities.BuildFileTree(files)
	require.NoError(t, err)

	return entities.ReconstructGeneratedProject(
		valueobjects.NewProjectID(),
		user,
		"Build a service",
		[]entities.Technology{{Name: "Go", Category: "backend"}},
		files,
		structure,
		createdAt,
	)
}

func TestProjectRegistryPutGet(t *testing.T) {
	registry := registryWithCapacity(t, 4)
	ctx := context.Background()

	project := storedProject(t, "owner-1", time.Now())
	require.NoError(t, registry.Put(ctx, project))

	got, ok := registry.Get(ctx, project.ID())
	require.True(t, ok)
	assert.Equal(t, project.ID(), got.ID())
	assert.Equal(t, 1, registry.Len(ctx))

	_, ok = registry.Get(ctx, valueobjects.NewProjectID())
	assert.False(t, ok)
}

func TestProjectRegistryCapacityEviction(t *testing.T) {
	registry := registryWithCapacity(t, 2)
	ctx := context.Background()

	oldest := storedProject(t, "owner-1", time.Now())
	middle := storedProject(t, "owner-1", time.Now())
	newest := storedProject(t, "owner-1", time.Now())

	require.NoError(t, registry.Put(ctx, oldest))
	require.NoError(t, registry.Put(ctx, middle))
	require.NoError(t, registry.Put(ctx, newest))

	assert.Equal(t, 2, registry.Len(ctx))
	_, ok := registry.Get(ctx, oldest.ID())
	assert.False(t, ok, "least recently used project must be evicted")
	_, ok = registry.Get(ctx, newest.ID())
	assert.True(t, ok)
}

func TestProjectRegistryGetRefreshesRecency(t *testing.T) {
	registry := registryWithCapacity(t, 2)
	ctx := context.Background()

	first := storedProject(t, "owner-1", time.Now())
	second := storedProject(t, "owner-1", time.Now())
	third := storedProject(t, "owner-1", time.Now())

	require.NoError(t, registry.Put(ctx, first))
	require.NoError(t, registry.Put(ctx, second))

	// Touch first so second becomes the eviction candidate
	_, ok := registry.Get(ctx, first.ID())
	require.True(t, ok)

	require.NoError(t, registry.Put(ctx, third))

	_, ok = registry.Get(ctx, first.ID())
	assert.True(t, ok)
	_, ok = registry.Get(ctx, second.ID())
	assert.False(t, ok)
}

func TestProjectRegistryListByUser(t *testing.T) {
	registry := registryWithCapacity(t, 8)
	ctx := context.Background()
	base := time.Now()

	older := storedProject(t, "alice", base.Add(-2*time.Hour))
	newer := storedProject(t, "alice", base.Add(-1*time.Hour))
	other := storedProject(t, "bob", base)

	require.NoError(t, registry.Put(ctx, older))
	require.NoError(t, registry.Put(ctx, newer))
	require.NoError(t, registry.Put(ctx, other))

	alice, err := valueobjects.NewUserIDFromString("alice")
	require.NoError(t, err)

	projects := registry.ListByUser(ctx, alice)
	require.Len(t, projects, 2)
	assert.Equal(t, newer.ID(), projects[0].ID(), "newest project listed first")
	assert.Equal(t, older.ID(), projects[1].ID())

	carol, err := valueobjects.NewUserIDFromString("carol")
	require.NoError(t, err)
	assert.Empty(t, registry.ListByUser(ctx, carol))
}

func TestProjectRegistryDelete(t *testing.T) {
	registry := registryWithCapacity(t, 4)
	ctx := context.Background()

	project := storedProject(t, "owner-1", time.Now())
	require.NoError(t, registry.Put(ctx, project))

	assert.True(t, registry.Delete(ctx, project.ID()))
	assert.False(t, registry.Delete(ctx, project.ID()))
	assert.Equal(t, 0, registry.Len(ctx))
}

func TestTTLCache(t *testing.T) {
	cache := NewTTLCache(time.Minute)
	defer cache.Stop()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "archive", []byte{1, 2, 3}, 60))
	value, ok := cache.Get(ctx, "archive")
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, value)

	// A zero TTL entry is expired by the time it is read back
	require.NoError(t, cache.Set(ctx, "stale", "x", 0))
	time.Sleep(time.Millisecond)
	_, ok = cache.Get(ctx, "stale")
	assert.False(t, ok)

	require.NoError(t, cache.Delete(ctx, "archive"))
	_, ok = cache.Get(ctx, "archive")
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "a", 1, 60))
	require.NoError(t, cache.Set(ctx, "b", 2, 60))
	require.NoError(t, cache.Clear(ctx))
	_, ok = cache.Get(ctx, "a")
	assert.False(t, ok)

	cache.Stop()
	cache.Stop() // safe to call repeatedly
}
