package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"triforge-backend/application/ports"
	"triforge-backend/application/queries"
	"triforge-backend/domain/config"
	"triforge-backend/domain/core/valueobjects"
	pkgerrors "triforge-backend/pkg/errors"
)

// DownloadProjectHandler handles project download queries. Packaged archives
// are cached so repeated downloads of the same project do not rebuild the
// ZIP; the registry stays authoritative for existence.
type DownloadProjectHandler struct {
	registry ports.ProjectRegistry
	archiver ports.Archiver
	cache    ports.Cache
	cfg      *config.DomainConfig
	logger   *zap.Logger
}

// NewDownloadProjectHandler creates a new download project handler
func NewDownloadProjectHandler(
	registry ports.ProjectRegistry,
	archiver ports.Archiver,
	cache ports.Cache,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *DownloadProjectHandler {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DownloadProjectHandler{
		registry: registry,
		archiver: archiver,
		cache:    cache,
		cfg:      cfg,
		logger:   logger,
	}
}

// Handle executes the download project query
func (h *DownloadProjectHandler) Handle(ctx context.Context, query queries.DownloadProjectQuery) (*queries.ProjectArchive, error) {
	if err := query.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	projectID, err := valueobjects.NewProjectIDFromString(query.ProjectID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	project, ok := h.registry.Get(ctx, projectID)
	if !ok {
		return nil, pkgerrors.ErrProjectNotFound
	}

	fileName := fmt.Sprintf("project_%s.zip", query.ProjectID)

	if h.cacheEnabled() {
		if cached, found := h.cache.Get(ctx, queries.ArchiveCacheKey(query.ProjectID)); found {
			if content, isBytes := cached.([]byte); isBytes {
				h.logger.Debug("Serving cached archive", zap.String("projectID", query.ProjectID))
				return &queries.ProjectArchive{FileName: fileName, Content: content}, nil
			}
		}
	}

	content, err := h.archiver.Package(ctx, project)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "Error creating ZIP file")
	}

	if h.cacheEnabled() {
		ttl := int(h.cfg.ArchiveCacheTTL.Seconds())
		if err := h.cache.Set(ctx, queries.ArchiveCacheKey(query.ProjectID), content, ttl); err != nil {
			h.logger.Warn("Failed to cache archive",
				zap.String("projectID", query.ProjectID),
				zap.Error(err),
			)
		}
	}

	h.logger.Info("Created ZIP archive",
		zap.String("projectID", query.ProjectID),
		zap.Int("bytes", len(content)),
	)
	return &queries.ProjectArchive{FileName: fileName, Content: content}, nil
}

func (h *DownloadProjectHandler) cacheEnabled() bool {
	return h.cache != nil && h.cfg.EnableArchiveCache
}
