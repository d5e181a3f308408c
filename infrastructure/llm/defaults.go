package llm

import (
	"context"

	"triforge-backend/application/ports"
)

// defaultedClient fills the configured fallback generation parameters for
// callers that pass options without a token budget. Chain invocations always
// carry their own budget and temperature, so those pass through untouched.
type defaultedClient struct {
	inner           ports.CompletionClient
	temperature     float64
	maxOutputTokens int
}

// WithDefaults wraps the client with the configured generation defaults. A
// non-positive default budget disables the wrapper.
func WithDefaults(inner ports.CompletionClient, temperature float64, maxOutputTokens int) ports.CompletionClient {
	if maxOutputTokens <= 0 {
		return inner
	}
	return &defaultedClient{
		inner:           inner,
		temperature:     temperature,
		maxOutputTokens: maxOutputTokens,
	}
}

// Complete applies the defaults when the options carry no token budget. A
// zero budget marks the options as unset; temperature zero by itself is a
// valid deterministic setting and passes through.
func (c *defaultedClient) Complete(ctx context.Context, prompt string, opts ports.CompletionOptions) (string, error) {
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = c.maxOutputTokens
		opts.Temperature = c.temperature
	}
	return c.inner.Complete(ctx, prompt, opts)
}

// Provider returns the wrapped provider's name
func (c *defaultedClient) Provider() string {
	return c.inner.Provider()
}
