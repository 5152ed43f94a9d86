// File: internal/llmclient/router.go
package llmclient

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pagelens/pagelens/api/schemas"
)

// Router dispatches requests to a per-tier client. The tagging pipeline uses
// the fast tier for classification and the powerful tier for listings; a
// request without a tier lands on the powerful client.
type Router struct {
	logger  *zap.Logger
	clients map[schemas.ModelTier]schemas.LLMClient
}

// NewRouter creates a router over the two tiers. Both must be present.
func NewRouter(logger *zap.Logger, fast, powerful schemas.LLMClient) (*Router, error) {
	if fast == nil || powerful == nil {
		return nil, fmt.Errorf("both fast and powerful tier clients must be provided")
	}
	return &Router{
		logger: logger.Named("llm_router"),
		clients: map[schemas.ModelTier]schemas.LLMClient{
			schemas.TierFast:     fast,
			schemas.TierPowerful: powerful,
		},
	}, nil
}

// Generate routes on the request's tier.
func (r *Router) Generate(ctx context.Context, req schemas.GenerationRequest) (string, error) {
	tier := req.Tier
	if tier == "" {
		tier = schemas.TierPowerful
	}
	client, ok := r.clients[tier]
	if !ok {
		return "", fmt.Errorf("no LLM client configured for tier %q", tier)
	}
	r.logger.Debug("routing LLM request", zap.String("tier", string(tier)))
	return client.Generate(ctx, req)
}

// Close closes every distinct underlying client once.
func (r *Router) Close() error {
	closed := make(map[schemas.LLMClient]struct{}, len(r.clients))
	var first error
	for _, client := range r.clients {
		if _, done := closed[client]; done {
			continue
		}
		closed[client] = struct{}{}
		if err := client.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
