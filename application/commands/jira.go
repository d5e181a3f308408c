package commands

import (
	"triforge-backend/pkg/utils"
)

// ValidateJiraCommand checks caller-supplied Atlassian credentials and,
// when a project key is given, access to that project.
type ValidateJiraCommand struct {
	UserID     string `json:"user_id" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	APIToken   string `json:"api_token" validate:"required"`
	Domain     string `json:"domain" validate:"required"`
	ProjectKey string `json:"project_key"`
}

// Validate validates the command
func (cmd ValidateJiraCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// UploadStoriesCommand uploads Jira stories to an Atlassian Cloud project.
// StoriesMarkdown is optional; when empty the handler scans conversation
// memory for story-shaped content.
type UploadStoriesCommand struct {
	UserID          string `json:"user_id" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	APIToken        string `json:"api_token" validate:"required"`
	Domain          string `json:"domain" validate:"required"`
	ProjectKey      string `json:"project_key" validate:"required"`
	StoriesMarkdown string `json:"stories_markdown"`
}

// Validate validates the command
func (cmd UploadStoriesCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}
