package commands

import (
	"triforge-backend/pkg/utils"
)

// RefineRequirementsCommand turns a raw free-text document into structured
// software requirements. Document bounds are enforced in the handler.
type RefineRequirementsCommand struct {
	UserID                    string `json:"user_id" validate:"required"`
	RawDocument               string `json:"raw_document" validate:"required"`
	OutputFormat              string `json:"output_format"`
	TargetAudience            string `json:"target_audience"`
	IncludeAcceptanceCriteria bool   `json:"include_acceptance_criteria"`
}

// Validate validates the command
func (cmd RefineRequirementsCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// AnalyzeRequirementsCommand extracts key requirements from a document
// without full refinement. Unlike refinement, no length bounds apply and no
// placeholder turn is recorded.
type AnalyzeRequirementsCommand struct {
	UserID      string `json:"user_id" validate:"required"`
	RawDocument string `json:"raw_document" validate:"required"`
}

// Validate validates the command
func (cmd AnalyzeRequirementsCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}
