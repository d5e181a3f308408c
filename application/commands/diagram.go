package commands

import (
	"triforge-backend/pkg/utils"
)

// GenerateDiagramCommand requests a Mermaid.js diagram for a set of Jira
// stories. JiraStories is optional; when empty the handler scans conversation
// memory for story-shaped content.
type GenerateDiagramCommand struct {
	UserID      string `json:"user_id" validate:"required"`
	DiagramType string `json:"diagram_type"`
	JiraStories string `json:"jira_stories"`
}

// Validate validates the command. The diagram type itself is validated in
// the handler against the supported set so the caller gets the full list of
// accepted values back.
func (cmd GenerateDiagramCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}

// ModifyDiagramCommand requests a revision of an existing diagram.
// OriginalDiagramCode is optional; when empty the handler scans conversation
// memory for diagram-shaped content.
type ModifyDiagramCommand struct {
	UserID              string `json:"user_id" validate:"required"`
	ModificationPrompt  string `json:"modification_prompt" validate:"required,min=1"`
	OriginalDiagramCode string `json:"original_diagram_code"`
}

// Validate validates the command
func (cmd ModifyDiagramCommand) Validate() error {
	return utils.ValidateStruct(cmd)
}
