package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triforge-backend/application/ports"
)

type captureClient struct {
	opts ports.CompletionOptions
}

func (c *captureClient) Complete(_ context.Context, _ string, opts ports.CompletionOptions) (string, error) {
	c.opts = opts
	return "ok", nil
}

func (c *captureClient) Provider() string { return "stub" }

func TestWithDefaultsFillsUnsetOptions(t *testing.T) {
	inner := &captureClient{}
	client := WithDefaults(inner, 0.2, 400)

	_, err := client.Complete(context.Background(), "prompt", ports.CompletionOptions{})
	require.NoError(t, err)
	assert.Equal(t, 400, inner.opts.MaxOutputTokens)
	assert.Equal(t, 0.2, inner.opts.Temperature)
}

func TestWithDefaultsKeepsChainParameters(t *testing.T) {
	// Diagram and code chains run at temperature zero with their own budget.
	// Carrying a budget must protect the zero temperature from the default.
	inner := &captureClient{}
	client := WithDefaults(inner, 0.2, 400)

	_, err := client.Complete(context.Background(), "prompt",
		ports.CompletionOptions{Temperature: 0, MaxOutputTokens: 300})
	require.NoError(t, err)
	assert.Equal(t, 300, inner.opts.MaxOutputTokens)
	assert.Zero(t, inner.opts.Temperature)
}

func TestWithDefaultsDisabledWithoutBudget(t *testing.T) {
	inner := &captureClient{}
	assert.Same(t, inner, WithDefaults(inner, 0.2, 0))
}
