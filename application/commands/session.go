package commands

import (
	"triforge-backend/pkg/utils"
)

// ClearSessionCommand drops a user's conversation memory entirely. Issued on
// logout and available to callers that want a clean slate.
type ClearSessionCommand struct {
	UserID string `json:"user_id" validate:"required"`
}

// Validate validates the command
func (cmd ClearSessionCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}
