package llm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"triforge-backend/application/ports"
	"triforge-backend/pkg/errors"
)

// Provider names understood by the factory
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Options selects and configures the completion provider
type Options struct {
	Provider string
	APIKey   string
	Model    string
}

// NewCompletionClient builds the configured provider's client. An empty
// provider name selects Gemini.
func NewCompletionClient(opts Options, logger *zap.Logger) (ports.CompletionClient, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = ProviderGemini
	}

	if opts.APIKey == "" {
		return nil, errors.ErrProviderNotConfigured
	}

	switch provider {
	case ProviderGemini:
		return NewGeminiClient(opts.APIKey, opts.Model, logger), nil
	case ProviderAnthropic:
		return NewAnthropicClient(opts.APIKey, opts.Model, logger), nil
	case ProviderOpenAI:
		return NewOpenAIClient(opts.APIKey, opts.Model, logger), nil
	default:
		return nil, errors.NewDomainError(
			errors.DomainInfrastructureError,
			"UNKNOWN_PROVIDER",
			fmt.Sprintf("Unknown completion provider '%s'", provider),
		)
	}
}
