package memory

import (
	"context"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"triforge-backend/domain/config"
	"triforge-backend/domain/core/entities"
	"triforge-backend/domain/core/valueobjects"
)

// ProjectRegistry keeps generated projects in a bounded LRU cache keyed by
// project ID. Once the configured capacity is reached the least recently
// used project is dropped, so the registry cannot grow without bound under
// sustained pipeline traffic.
type ProjectRegistry struct {
	cache  *lru.Cache[string, *entities.GeneratedProject]
	logger *zap.Logger
}

// NewProjectRegistry creates a registry with the configured capacity
func NewProjectRegistry(cfg *config.DomainConfig, logger *zap.Logger) (*ProjectRegistry, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := &ProjectRegistry{logger: logger}

	cache, err := lru.NewWithEvict(cfg.ProjectRegistryCapacity, registry.onRemove)
	if err != nil {
		return nil, err
	}
	registry.cache = cache
	return registry, nil
}

// onRemove fires for both capacity evictions and explicit deletes
func (r *ProjectRegistry) onRemove(key string, project *entities.GeneratedProject) {
	r.logger.Debug("project removed from registry",
		zap.String("project_id", key),
		zap.String("user_id", project.UserID().String()),
		zap.Int("file_count", project.FileCount()),
	)
}

// Put registers a generated project, possibly evicting the least recently
// used entry
func (r *ProjectRegistry) Put(ctx context.Context, project *entities.GeneratedProject) error {
	r.cache.Add(project.ID().String(), project)
	return nil
}

// Get retrieves a project by its ID, marking it recently used
func (r *ProjectRegistry) Get(ctx context.Context, id valueobjects.ProjectID) (*entities.GeneratedProject, bool) {
	return r.cache.Get(id.String())
}

// ListByUser retrieves all projects owned by a user, newest first. Peek is
// used so listing does not disturb the eviction order.
func (r *ProjectRegistry) ListByUser(ctx context.Context, userID valueobjects.UserID) []*entities.GeneratedProject {
	result := make([]*entities.GeneratedProject, 0)

	for _, key := range r.cache.Keys() {
		project, ok := r.cache.Peek(key)
		if !ok {
			continue
		}
		if project.UserID().Equals(userID) {
			result = append(result, project)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt().After(result[j].CreatedAt())
	})
	return result
}

// Delete removes a project and reports whether it existed
func (r *ProjectRegistry) Delete(ctx context.Context, id valueobjects.ProjectID) bool {
	return r.cache.Remove(id.String())
}

// Len returns the number of registered projects
func (r *ProjectRegistry) Len(ctx context.Context) int {
	return r.cache.Len()
}
