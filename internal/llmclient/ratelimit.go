// File: internal/llmclient/ratelimit.go
package llmclient

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/pagelens/pagelens/api/schemas"
)

// RateLimited wraps a client with a token bucket so bursts of tagging retries
// stay inside the provider's quota.
type RateLimited struct {
	inner   schemas.LLMClient
	limiter *rate.Limiter
}

// WithRateLimit bounds the client to requestsPerMinute. Zero or negative
// disables limiting and returns the client unchanged.
func WithRateLimit(inner schemas.LLMClient, requestsPerMinute int) schemas.LLMClient {
	if requestsPerMinute <= 0 {
		return inner
	}
	limit := rate.Limit(float64(requestsPerMinute) / 60.0)
	return &RateLimited{inner: inner, limiter: rate.NewLimiter(limit, 1)}
}

// Generate blocks until the limiter grants a slot, then delegates.
func (r *RateLimited) Generate(ctx context.Context, req schemas.GenerationRequest) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.inner.Generate(ctx, req)
}

func (r *RateLimited) Close() error { return r.inner.Close() }
