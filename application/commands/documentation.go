package commands

import (
	"triforge-backend/pkg/utils"
)

// GenerateStoriesCommand requests Jira-style user stories for a requirement.
// Requirement bounds and AI grading happen in the handler so that a rejected
// requirement still produces a normal response with is_valid=false.
type GenerateStoriesCommand struct {
	UserID      string `json:"user_id" validate:"required"`
	Requirement string `json:"requirement" validate:"required,min=1"`
}

// Validate validates the command
func (cmd GenerateStoriesCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// ModifyStoriesCommand requests a revision of previously generated stories.
// OriginalStories is optional; when empty the handler falls back to the last
// assistant output in the user's conversation memory.
type ModifyStoriesCommand struct {
	UserID             string `json:"user_id" validate:"required"`
	ModificationPrompt string `json:"modification_prompt" validate:"required,min=1"`
	OriginalStories    string `json:"original_stories"`
}

// Validate validates the command
func (cmd ModifyStoriesCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}
