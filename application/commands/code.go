package commands

import (
	"triforge-backend/pkg/utils"
)

// GenerateCodeCommand requests code for the latest diagram or Jira stories.
// An explicit diagram takes precedence over explicit stories; when neither is
// supplied the handler scans conversation memory, again preferring diagrams.
type GenerateCodeCommand struct {
	UserID              string `json:"user_id" validate:"required"`
	ProgrammingLanguage string `json:"programming_language"`
	DiagramCode         string `json:"diagram_code"`
	JiraStories         string `json:"jira_stories"`
}

// Validate validates the command
func (cmd GenerateCodeCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// ModifyCodeCommand requests a revision of existing code. OriginalCode is
// optional; when empty the handler scans conversation memory for code-shaped
// content.
type ModifyCodeCommand struct {
	UserID             string `json:"user_id" validate:"required"`
	ModificationPrompt string `json:"modification_prompt" validate:"required,min=1"`
	OriginalCode       string `json:"original_code"`
}

// Validate validates the command
func (cmd ModifyCodeCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}
