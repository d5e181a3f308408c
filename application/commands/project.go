package commands

import (
	"triforge-backend/pkg/utils"
)

// GenerateProjectCommand runs the multi-stage project pipeline: context
// gathering, technology detection, project generation, structuring and
// registration.
type GenerateProjectCommand struct {
	UserID string `json:"user_id" validate:"required"`
	Prompt string `json:"prompt" validate:"required,min=1"`
}

// Validate validates the command
func (cmd GenerateProjectCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// DeleteProjectCommand removes a generated project from the registry and
// drops any cached archive for it.
type DeleteProjectCommand struct {
	ProjectID string `json:"project_id" validate:"required,uuid4"`
}

// Validate validates the command
func (cmd DeleteProjectCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}
