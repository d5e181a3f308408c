package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"triforge-backend/application/ports"
	"triforge-backend/pkg/errors"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiClient talks to the Gemini REST API. The official Go SDK is not
// used; the generateContent surface is small enough for typed structs.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewGeminiClient creates a Gemini completion client
func NewGeminiClient(apiKey, model string, logger *zap.Logger) *GeminiClient {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: geminiBaseURL,
		client:  &http.Client{},
		logger:  logger,
	}
}

// geminiGenerateRequest is the request body for the generateContent API
type geminiGenerateRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// geminiGenerationConfig carries sampling parameters. Temperature is sent
// even at zero: several chains rely on deterministic output and the API
// default is not zero.
type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

type geminiGenerateResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *geminiError      `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Complete sends the prompt and returns the model text
func (g *GeminiClient) Complete(ctx context.Context, prompt string, opts ports.CompletionOptions) (string, error) {
	genReq := geminiGenerateRequest{
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: prompt}},
			},
		},
		GenerationConfig: geminiGenerationConfig{
			MaxOutputTokens: opts.MaxOutputTokens,
			Temperature:     opts.Temperature,
			TopP:            0.95,
			TopK:            40,
		},
	}

	body, err := json.Marshal(genReq)
	if err != nil {
		return "", errors.NewUpstreamError("gemini", fmt.Errorf("marshal request: %w", err))
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", errors.NewUpstreamError("gemini", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", errors.NewUpstreamError("gemini", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", errors.NewUpstreamError("gemini",
			fmt.Errorf("status %d: %s", resp.StatusCode, truncateBody(respBody)))
	}

	var genResp geminiGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", errors.NewUpstreamError("gemini", fmt.Errorf("decode response: %w", err))
	}

	if genResp.Error != nil {
		return "", errors.NewUpstreamError("gemini",
			fmt.Errorf("api error %d: %s", genResp.Error.Code, genResp.Error.Message))
	}

	var parts []string
	for _, cand := range genResp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				parts = append(parts, part.Text)
			}
		}
	}
	text := strings.Join(parts, "")

	if text == "" {
		reason := "no candidates"
		if len(genResp.Candidates) > 0 && genResp.Candidates[0].FinishReason != "" {
			reason = "finish reason " + genResp.Candidates[0].FinishReason
		}
		return "", errors.NewUpstreamError("gemini", fmt.Errorf("empty completion: %s", reason))
	}

	g.logger.Debug("gemini completion",
		zap.String("model", g.model),
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("response_chars", len(text)),
	)
	return text, nil
}

// Provider returns the provider name
func (g *GeminiClient) Provider() string {
	return ProviderGemini
}

// truncateBody keeps upstream error payloads readable in logs
func truncateBody(body []byte) string {
	const limit = 512
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
