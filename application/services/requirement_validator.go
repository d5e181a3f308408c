package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"triforge-backend/application/ports"
	"triforge-backend/domain/chains"
	"triforge-backend/domain/config"
)

// ValidationOutcome is the graded result for a submitted requirement. An
// invalid requirement carries the reason the grader gave; the caller returns
// it to the client instead of failing the request.
type ValidationOutcome struct {
	Valid  bool
	Reason string
}

// RequirementValidator grades a requirement before any expensive generation
// happens. Bounds are checked locally; everything in bounds is graded by the
// validation chain, whose verdict must be the literal "true" to pass.
type RequirementValidator struct {
	completions ports.CompletionClient
	cfg         *config.DomainConfig
	logger      *zap.Logger
}

// NewRequirementValidator creates a requirement validator
func NewRequirementValidator(completions ports.CompletionClient, cfg *config.DomainConfig, logger *zap.Logger) *RequirementValidator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequirementValidator{
		completions: completions,
		cfg:         cfg,
		logger:      logger,
	}
}

// Validate grades the requirement. Grader failures are reported as an invalid
// outcome, never as an error; generation simply does not start.
func (v *RequirementValidator) Validate(ctx context.Context, requirement string) ValidationOutcome {
	trimmed := strings.TrimSpace(requirement)
	if trimmed == "" {
		return ValidationOutcome{Reason: "Requirement cannot be empty"}
	}
	if utf8.RuneCountInString(trimmed) < v.cfg.MinRequirementLength {
		return ValidationOutcome{Reason: "Requirement is too short. Please provide more details."}
	}
	// The upper bound counts the raw input, whitespace included
	if utf8.RuneCountInString(requirement) > v.cfg.MaxRequirementLength {
		return ValidationOutcome{Reason: fmt.Sprintf("Requirement is too long. Please keep it under %d characters.", v.cfg.MaxRequirementLength)}
	}

	spec, err := chains.Lookup(chains.ValidationRequirements)
	if err != nil {
		return v.graderFailure(err)
	}
	prompt, err := spec.Render(map[string]string{"requirement": trimmed})
	if err != nil {
		return v.graderFailure(err)
	}

	result, err := v.completions.Complete(ctx, prompt, ports.CompletionOptions{
		Chain:           string(chains.ValidationRequirements),
		Temperature:     spec.Temperature,
		MaxOutputTokens: spec.MaxOutputTokens,
	})
	if err != nil {
		return v.graderFailure(err)
	}

	// The grader is instructed to answer with the bare literal; anything
	// else, trailing whitespace included, is treated as a rejection reason
	if result == "true" {
		return ValidationOutcome{Valid: true}
	}

	v.logger.Debug("Requirement rejected by grader",
		zap.Int("requirement_length", utf8.RuneCountInString(trimmed)),
	)
	return ValidationOutcome{Reason: strings.TrimSpace(result)}
}

func (v *RequirementValidator) graderFailure(err error) ValidationOutcome {
	v.logger.Warn("Requirement validation unavailable", zap.Error(err))
	return ValidationOutcome{Reason: "Validation service error: " + err.Error()}
}
