package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"triforge-backend/application/ports"
	"triforge-backend/pkg/errors"
)

// AnthropicClient adapts the official Anthropic SDK to the completion port
type AnthropicClient struct {
	client *anthropic.Client
	model  string
	logger *zap.Logger
}

// NewAnthropicClient creates an Anthropic completion client
func NewAnthropicClient(apiKey, model string, logger *zap.Logger) *AnthropicClient {
	if model == "" {
		model = "claude-sonnet-4-5"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicClient{
		client: &client,
		model:  model,
		logger: logger,
	}
}

// Complete sends the prompt and returns the model text
func (a *AnthropicClient) Complete(ctx context.Context, prompt string, opts ports.CompletionOptions) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(opts.MaxOutputTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(opts.Temperature),
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", errors.NewUpstreamError("anthropic", err)
	}

	var text string
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			text += tb.Text
		}
	}

	if text == "" {
		return "", errors.NewUpstreamError("anthropic",
			fmt.Errorf("empty completion: stop reason %s", msg.StopReason))
	}

	a.logger.Debug("anthropic completion",
		zap.String("model", a.model),
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("response_chars", len(text)),
	)
	return text, nil
}

// Provider returns the provider name
func (a *AnthropicClient) Provider() string {
	return ProviderAnthropic
}
