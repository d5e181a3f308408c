package queries

import (
	"errors"

	"triforge-backend/domain/core/entities"
	"triforge-backend/pkg/common"
)

// ListProjectsQuery represents a query to list a user's generated projects
type ListProjectsQuery struct {
	UserID   string
	Page     int
	PageSize int
}

// Validate validates the query
func (q ListProjectsQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.Page < 0 {
		return errors.New("page cannot be negative")
	}
	if q.PageSize < 0 {
		return errors.New("page size cannot be negative")
	}
	return nil
}

// ListProjectsResult represents the result of listing projects
type ListProjectsResult struct {
	Projects   []ProjectSummary       `json:"projects"`
	Pagination *common.PaginationInfo `json:"pagination"`
}

// ProjectSummary represents a summary of one generated project
type ProjectSummary struct {
	ProjectID    string                `json:"project_id"`
	Technologies []entities.Technology `json:"technologies"`
	FileCount    int                   `json:"file_count"`
	CreatedAt    string                `json:"created_at"`
}
