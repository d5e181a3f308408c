package valueobjects

import (
	"fmt"
	"strings"

	pkgerrors "triforge-backend/pkg/errors"
)

// supportedDiagramTypes are the caller-facing diagram type names, in the
// order they are reported back on a validation failure
var supportedDiagramTypes = []string{
	"flowchart", "flow", "sequence", "class", "er",
	"entity-relationship", "state", "gantt", "user journey", "journey",
}

// diagramTypeMapping normalizes caller aliases to the canonical name used in
// prompts. Unmapped supported values fall back to their lowercase form.
var diagramTypeMapping = map[string]string{
	"flow":                "flowchart",
	"flowchart":           "flowchart",
	"sequence":            "sequence",
	"class":               "class",
	"er":                  "entity-relationship",
	"entity relationship": "entity-relationship",
	"state":               "state",
	"gantt":               "gantt",
	"user journey":        "user journey",
	"journey":             "user journey",
}

// DiagramType is a value object for a validated, normalized diagram type
type DiagramType struct {
	raw        string
	normalized string
}

// NewDiagramType validates a caller-supplied diagram type and normalizes it
func NewDiagramType(raw string) (DiagramType, error) {
	if raw == "" {
		return DiagramType{}, pkgerrors.ErrDiagramTypeRequired
	}

	lower := strings.ToLower(raw)
	if !isSupportedDiagramType(lower) {
		return DiagramType{}, pkgerrors.NewDomainError(
			pkgerrors.DomainValidationError,
			"UNSUPPORTED_DIAGRAM_TYPE",
			fmt.Sprintf("Unsupported diagram type. Supported types: %s", strings.Join(supportedDiagramTypes, ", ")),
		).WithDetail("diagram_type", raw)
	}

	normalized, ok := diagramTypeMapping[lower]
	if !ok {
		normalized = lower
	}

	return DiagramType{raw: raw, normalized: normalized}, nil
}

// Raw returns the diagram type exactly as the caller supplied it
func (d DiagramType) Raw() string {
	return d.raw
}

// Normalized returns the canonical diagram type used in prompts
func (d DiagramType) Normalized() string {
	return d.normalized
}

// String returns the canonical diagram type
func (d DiagramType) String() string {
	return d.normalized
}

// IsZero checks if the DiagramType is the zero value
func (d DiagramType) IsZero() bool {
	return d.normalized == ""
}

func isSupportedDiagramType(lower string) bool {
	for _, t := range supportedDiagramTypes {
		if lower == t {
			return true
		}
	}
	return false
}
