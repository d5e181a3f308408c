package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"triforge-backend/application/ports"
	"triforge-backend/pkg/errors"
)

// OpenAIClient adapts the OpenAI chat completion API to the completion port
type OpenAIClient struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIClient creates an OpenAI completion client
func NewOpenAIClient(apiKey, model string, logger *zap.Logger) *OpenAIClient {
	if model == "" {
		model = "gpt-4o"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

// Complete sends the prompt and returns the model text
func (o *OpenAIClient) Complete(ctx context.Context, prompt string, opts ports.CompletionOptions) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   opts.MaxOutputTokens,
		Temperature: float32(opts.Temperature),
	})
	if err != nil {
		return "", errors.NewUpstreamError("openai", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.NewUpstreamError("openai", fmt.Errorf("empty completion"))
	}
	text := resp.Choices[0].Message.Content

	o.logger.Debug("openai completion",
		zap.String("model", o.model),
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("response_chars", len(text)),
	)
	return text, nil
}

// Provider returns the provider name
func (o *OpenAIClient) Provider() string {
	return ProviderOpenAI
}
