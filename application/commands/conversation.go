package commands

import (
	"triforge-backend/pkg/utils"
)

// ConverseCommand sends a free-form conversational message through the
// conversation chain. The exchange is committed to memory as a single turn.
type ConverseCommand struct {
	UserID  string `json:"user_id" validate:"required"`
	Content string `json:"content" validate:"required,min=1"`
}

// Validate validates the command
func (cmd ConverseCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}
