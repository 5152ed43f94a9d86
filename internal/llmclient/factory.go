// File: internal/llmclient/factory.go
package llmclient

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pagelens/pagelens/api/schemas"
	"github.com/pagelens/pagelens/internal/config"
)

// New builds the full client stack from configuration: one client per tier
// for the configured provider, wrapped in the shared rate limit, behind the
// tier router.
func New(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (schemas.LLMClient, error) {
	build := func(model string) (schemas.LLMClient, error) {
		switch cfg.Provider {
		case config.ProviderGemini:
			return NewGeminiClient(ctx, cfg, model, logger)
		case config.ProviderOpenAI:
			return NewOpenAIClient(cfg, model, logger)
		default:
			return nil, fmt.Errorf("unsupported LLM provider %q, supported: [%s, %s]",
				cfg.Provider, config.ProviderGemini, config.ProviderOpenAI)
		}
	}

	fast, err := build(cfg.FastModel)
	if err != nil {
		return nil, fmt.Errorf("building fast tier client: %w", err)
	}
	powerful, err := build(cfg.PowerfulModel)
	if err != nil {
		return nil, fmt.Errorf("building powerful tier client: %w", err)
	}

	router, err := NewRouter(logger, WithRateLimit(fast, cfg.RequestsPerMinute), WithRateLimit(powerful, cfg.RequestsPerMinute))
	if err != nil {
		return nil, err
	}
	return router, nil
}
