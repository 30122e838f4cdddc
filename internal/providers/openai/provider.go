package openai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/flashforge/flashforge-backend/internal/config"
	"github.com/flashforge/flashforge-backend/internal/generation"
)

// requestTimeout is the fixed deadline per completion call. A hung provider
// call surfaces as API_CALL_FAILED when it expires.
const requestTimeout = 60 * time.Second

// Provider implements the OpenAI provider
type Provider struct {
	config config.OpenAIConfig
	client *openai.Client
}

// NewProvider creates a new OpenAI provider. A missing API key is a
// configuration error, reported as MISSING_API_KEY.
func NewProvider(cfg config.OpenAIConfig) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, generation.NewError(generation.KindMissingCredential,
			"OpenAI API key not configured", nil)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Provider{
		config: cfg,
		client: openai.NewClientWithConfig(clientCfg),
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "openai"
}

// Complete performs a single non-streaming completion with the fixed model
// and sampling parameters from configuration. It never retries.
func (p *Provider) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: p.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userText},
		},
		MaxTokens:   p.config.MaxTokens,
		Temperature: p.config.Temperature,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", generation.NewError(generation.KindUnexpectedFormat,
			"no content in provider response", nil)
	}

	return resp.Choices[0].Message.Content, nil
}

// classifyError maps go-openai errors onto the generation error taxonomy.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return generation.NewError(generation.KindAPIRequestFailed,
			"provider request failed", err).
			WithDetail("status", apiErr.HTTPStatusCode).
			WithDetail("provider_message", apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		// A 2xx or error body the client could not decode usually means the
		// endpoint answered with HTML or some other non-JSON payload.
		if strings.Contains(reqErr.Error(), "invalid character") {
			return generation.NewError(generation.KindUnexpectedFormat,
				"provider returned an unexpected response format", err).
				WithDetail("status", reqErr.HTTPStatusCode)
		}
		return generation.NewError(generation.KindAPIRequestFailed,
			"provider request failed", err).
			WithDetail("status", reqErr.HTTPStatusCode)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return generation.NewError(generation.KindAPICallFailed,
			"provider call timed out", err)
	}

	return generation.NewError(generation.KindAPICallFailed,
		"failed to call provider", err)
}
