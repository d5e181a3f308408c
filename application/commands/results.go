package commands

import (
	"triforge-backend/application/ports"
	"triforge-backend/domain/core/entities"
)

// GenerationResult is the payload shared by the artifact operations that
// return a single generated text: diagrams, code, conversation replies and
// story modifications.
type GenerationResult struct {
	UserID   string `json:"user_id"`
	Response string `json:"response"`
}

// StoriesResult is the payload for story generation. When the requirement is
// rejected by AI grading, Stories carries the rejection reason and IsValid is
// false; nothing is generated or committed to memory in that case.
type StoriesResult struct {
	UserID  string `json:"user_id"`
	Stories string `json:"jira_stories"`
	IsValid bool   `json:"is_valid"`
}

// RefinementResult is the payload for document refinement and analysis
type RefinementResult struct {
	UserID              string `json:"user_id"`
	RefinedRequirements string `json:"refined_requirements"`
}

// ProjectGenerationResult is the payload for the project pipeline
type ProjectGenerationResult struct {
	UserID       string                `json:"user_id"`
	ProjectID    string                `json:"project_id"`
	Technologies []entities.Technology `json:"technologies"`
	FileCount    int                   `json:"file_count"`
	Structure    entities.FileTree     `json:"structure"`
}

// JiraValidationResult is the payload for a Jira connection check.
// ProjectValidated is nil when no project key was supplied.
type JiraValidationResult struct {
	UserID           string `json:"user_id"`
	IsValid          bool   `json:"is_valid"`
	Message          string `json:"message"`
	ProjectValidated *bool  `json:"project_validated"`
}

// JiraUploadResult is the payload for a story upload, including per-issue
// created/failed accounting.
type JiraUploadResult struct {
	UserID            string                   `json:"user_id"`
	Success           bool                     `json:"success"`
	Message           string                   `json:"message"`
	CreatedIssues     []ports.JiraCreatedIssue `json:"created_issues"`
	FailedIssues      []ports.JiraFailedIssue  `json:"failed_issues"`
	TotalStories      int                      `json:"total_stories"`
	SuccessfulUploads int                      `json:"successful_uploads"`
}
