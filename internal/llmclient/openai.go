// File: internal/llmclient/openai.go
package llmclient

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/pagelens/pagelens/api/schemas"
	"github.com/pagelens/pagelens/internal/config"
)

// OpenAIClient serves one model through the chat completions API. A custom
// endpoint makes it work against any OpenAI-compatible server.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	maxElapsed  time.Duration
	logger      *zap.Logger
}

// NewOpenAIClient initializes the client for one model.
func NewOpenAIClient(cfg config.LLMConfig, model string, logger *zap.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientCfg.BaseURL = cfg.Endpoint
	}
	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		maxElapsed:  cfg.RetryMaxElapsed,
		logger:      logger.Named("llm_client.openai"),
	}, nil
}

// Generate sends the prompts and returns the completion text, retrying
// transient failures with exponential backoff.
func (c *OpenAIClient) Generate(ctx context.Context, req schemas.GenerationRequest) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: float32(c.effectiveTemperature(req)),
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
	}
	if req.Options.MaxOutputTokens > 0 {
		chatReq.MaxTokens = req.Options.MaxOutputTokens
	}
	if req.Options.ForceJSONFormat {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	b := backoff.NewExponentialBackOff()
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = c.maxElapsed

	var out string
	operation := func() error {
		start := time.Now()
		resp, err := c.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			if isPermanentProviderError(err) {
				return backoff.Permanent(err)
			}
			c.logger.Warn("transient openai error, retrying", zap.Error(err))
			return err
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			return backoff.Permanent(fmt.Errorf("openai returned no completion"))
		}
		c.logger.Debug("generation complete",
			zap.String("model", c.model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Int("prompt_tokens", resp.Usage.PromptTokens),
			zap.Int("completion_tokens", resp.Usage.CompletionTokens))
		out = resp.Choices[0].Message.Content
		return nil
	}
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", fmt.Errorf("openai generation failed: %w", err)
	}
	return out, nil
}

// Close releases nothing; the client is plain HTTP.
func (c *OpenAIClient) Close() error { return nil }

func (c *OpenAIClient) effectiveTemperature(req schemas.GenerationRequest) float64 {
	if req.Options.Temperature > 0 {
		return req.Options.Temperature
	}
	return c.temperature
}
