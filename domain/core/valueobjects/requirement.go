package valueobjects

import (
	"strings"
	"unicode/utf8"

	"triforge-backend/domain/config"
	pkgerrors "triforge-backend/pkg/errors"
)

// Requirement is a value object for a natural-language software requirement
type Requirement struct {
	text string
}

// NewRequirement creates a requirement with validation using default configuration
func NewRequirement(text string) (Requirement, error) {
	return NewRequirementWithConfig(text, config.DefaultDomainConfig())
}

// NewRequirementWithConfig creates a requirement with validation and configuration
func NewRequirementWithConfig(text string, cfg *config.DomainConfig) (Requirement, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Requirement{}, pkgerrors.ErrRequirementEmpty
	}
	if utf8.RuneCountInString(trimmed) < cfg.MinRequirementLength {
		return Requirement{}, pkgerrors.ErrRequirementTooShort
	}
	// The upper bound counts the raw input, whitespace included
	if utf8.RuneCountInString(text) > cfg.MaxRequirementLength {
		return Requirement{}, pkgerrors.ErrRequirementTooLong
	}

	return Requirement{text: trimmed}, nil
}

// Text returns the requirement text
func (r Requirement) Text() string {
	return r.text
}

// IsZero checks if the requirement is the zero value
func (r Requirement) IsZero() bool {
	return r.text == ""
}

// Equals checks if two requirements are equal
func (r Requirement) Equals(other Requirement) bool {
	return r.text == other.text
}

// Document is a value object for a free-text document submitted for refinement
type Document struct {
	text string
}

// NewDocument creates a document with validation using default configuration
func NewDocument(text string) (Document, error) {
	return NewDocumentWithConfig(text, config.DefaultDomainConfig())
}

// NewDocumentWithConfig creates a document with validation and configuration
func NewDocumentWithConfig(text string, cfg *config.DomainConfig) (Document, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if utf8.RuneCountInString(strings.TrimSpace(text)) < cfg.MinDocumentLength {
		return Document{}, pkgerrors.ErrDocumentTooShort
	}
	if utf8.RuneCountInString(text) > cfg.MaxDocumentLength {
		return Document{}, pkgerrors.ErrDocumentTooLong
	}

	return Document{text: text}, nil
}

// Text returns the document text
func (d Document) Text() string {
	return d.text
}

// IsZero checks if the document is the zero value
func (d Document) IsZero() bool {
	return d.text == ""
}

// Preview returns the first maxRunes runes of the document
func (d Document) Preview(maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(d.text)
	if len(runes) <= maxRunes {
		return d.text
	}
	return string(runes[:maxRunes])
}

// ModificationPrompt is a value object for a request to change a prior artifact
type ModificationPrompt struct {
	text string
}

// NewModificationPrompt creates a modification prompt with validation using default configuration
func NewModificationPrompt(text string) (ModificationPrompt, error) {
	return NewModificationPromptWithConfig(text, config.DefaultDomainConfig())
}

// NewModificationPromptWithConfig creates a modification prompt with validation and configuration
func NewModificationPromptWithConfig(text string, cfg *config.DomainConfig) (ModificationPrompt, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ModificationPrompt{}, pkgerrors.ErrModificationEmpty
	}
	if utf8.RuneCountInString(trimmed) < cfg.MinModificationLength {
		return ModificationPrompt{}, pkgerrors.ErrModificationTooShort
	}

	return ModificationPrompt{text: trimmed}, nil
}

// Text returns the modification prompt text
func (m ModificationPrompt) Text() string {
	return m.text
}

// IsZero checks if the modification prompt is the zero value
func (m ModificationPrompt) IsZero() bool {
	return m.text == ""
}
