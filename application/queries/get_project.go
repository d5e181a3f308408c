package queries

import (
	"errors"

	"triforge-backend/domain/core/entities"
)

// GetProjectQuery represents a query for one project's structure and metadata
type GetProjectQuery struct {
	ProjectID string
}

// Validate validates the query
func (q GetProjectQuery) Validate() error {
	if q.ProjectID == "" {
		return errors.New("project ID is required")
	}
	return nil
}

// GetProjectResult represents a generated project without file contents
type GetProjectResult struct {
	ProjectID    string                `json:"project_id"`
	UserID       string                `json:"user_id"`
	Requirement  string                `json:"requirement"`
	Technologies []entities.Technology `json:"technologies"`
	FileCount    int                   `json:"file_count"`
	Structure    entities.FileTree     `json:"structure"`
	Files        []ProjectFileInfo     `json:"files"`
	CreatedAt    string                `json:"created_at"`
}

// ProjectFileInfo describes one generated file without its content
type ProjectFileInfo struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	Size     int    `json:"size"`
}
