// File: internal/llmclient/gemini.go

// Package llmclient provides the model clients behind the schemas.LLMClient
// interface: a Gemini client, an OpenAI-compatible client, a tier router and
// a rate limiting wrapper. The tagging pipeline only ever sees the interface.
package llmclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/pagelens/pagelens/api/schemas"
	"github.com/pagelens/pagelens/internal/config"
)

// GeminiClient talks to the Gemini API through the official SDK. One client
// serves one model; tier fan-out happens in the router.
type GeminiClient struct {
	client      *genai.Client
	model       string
	maxTokens   int
	temperature float64
	maxElapsed  time.Duration
	logger      *zap.Logger
}

// NewGeminiClient initializes the SDK client for one model.
func NewGeminiClient(ctx context.Context, cfg config.LLMConfig, model string, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiClient{
		client:      client,
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		maxElapsed:  cfg.RetryMaxElapsed,
		logger:      logger.Named("llm_client.gemini"),
	}, nil
}

// Generate sends the prompts and returns the completion text, retrying
// transient failures with exponential backoff.
func (c *GeminiClient) Generate(ctx context.Context, req schemas.GenerationRequest) (string, error) {
	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(c.effectiveTemperature(req))),
	}
	if c.maxTokens > 0 {
		genCfg.MaxOutputTokens = int32(c.maxTokens)
	}
	if req.Options.MaxOutputTokens > 0 {
		genCfg.MaxOutputTokens = int32(req.Options.MaxOutputTokens)
	}
	if req.SystemPrompt != "" {
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}
	if req.Options.ForceJSONFormat {
		genCfg.ResponseMIMEType = "application/json"
	}

	b := backoff.NewExponentialBackOff()
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = c.maxElapsed

	var out string
	operation := func() error {
		start := time.Now()
		resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.UserPrompt), genCfg)
		if err != nil {
			if isPermanentProviderError(err) {
				return backoff.Permanent(err)
			}
			c.logger.Warn("transient gemini error, retrying", zap.Error(err))
			return err
		}
		text := resp.Text()
		if text == "" {
			return backoff.Permanent(fmt.Errorf("gemini returned an empty completion"))
		}
		c.logger.Debug("generation complete",
			zap.String("model", c.model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Int("response_bytes", len(text)))
		out = text
		return nil
	}
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	return out, nil
}

// Close releases nothing today; the SDK client holds no persistent
// connections that need explicit teardown.
func (c *GeminiClient) Close() error { return nil }

func (c *GeminiClient) effectiveTemperature(req schemas.GenerationRequest) float64 {
	if req.Options.Temperature > 0 {
		return req.Options.Temperature
	}
	return c.temperature
}

// isPermanentProviderError classifies provider failures that retrying cannot
// fix: bad credentials, malformed requests, content blocks.
func isPermanentProviderError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"api key", "invalid argument", "permission", "blocked", "unsupported"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
