// File: internal/llmclient/router_test.go
package llmclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pagelens/pagelens/api/schemas"
	"github.com/pagelens/pagelens/internal/config"
)

type stubClient struct {
	name      string
	generated int
	closed    int
}

func (s *stubClient) Generate(context.Context, schemas.GenerationRequest) (string, error) {
	s.generated++
	return s.name, nil
}

func (s *stubClient) Close() error {
	s.closed++
	return nil
}

func TestRouterRoutesByTier(t *testing.T) {
	fast := &stubClient{name: "fast"}
	powerful := &stubClient{name: "powerful"}
	router, err := NewRouter(zap.NewNop(), fast, powerful)
	require.NoError(t, err)

	out, err := router.Generate(context.Background(), schemas.GenerationRequest{Tier: schemas.TierFast})
	require.NoError(t, err)
	assert.Equal(t, "fast", out)

	out, err = router.Generate(context.Background(), schemas.GenerationRequest{Tier: schemas.TierPowerful})
	require.NoError(t, err)
	assert.Equal(t, "powerful", out)

	// No tier defaults to the powerful client.
	out, err = router.Generate(context.Background(), schemas.GenerationRequest{})
	require.NoError(t, err)
	assert.Equal(t, "powerful", out)
}

func TestRouterRequiresBothTiers(t *testing.T) {
	_, err := NewRouter(zap.NewNop(), nil, &stubClient{})
	assert.Error(t, err)
	_, err = NewRouter(zap.NewNop(), &stubClient{}, nil)
	assert.Error(t, err)
}

func TestRouterClosesSharedClientOnce(t *testing.T) {
	shared := &stubClient{name: "shared"}
	router, err := NewRouter(zap.NewNop(), shared, shared)
	require.NoError(t, err)
	require.NoError(t, router.Close())
	assert.Equal(t, 1, shared.closed)
}

func TestWithRateLimit(t *testing.T) {
	inner := &stubClient{name: "inner"}
	assert.Same(t, schemas.LLMClient(inner), WithRateLimit(inner, 0), "no limit means no wrapper")

	limited := WithRateLimit(inner, 600)
	out, err := limited.Generate(context.Background(), schemas.GenerationRequest{})
	require.NoError(t, err)
	assert.Equal(t, "inner", out)

	// A canceled context surfaces before the inner client is hit.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := inner.generated
	_, err = limited.Generate(ctx, schemas.GenerationRequest{})
	assert.Error(t, err)
	assert.Equal(t, calls, inner.generated)
}

func TestFactoryRejectsBadConfig(t *testing.T) {
	logger := zap.NewNop()

	_, err := New(context.Background(), config.LLMConfig{Provider: "carrier-pigeon"}, logger)
	assert.Error(t, err)

	_, err = New(context.Background(), config.LLMConfig{Provider: config.ProviderOpenAI}, logger)
	assert.Error(t, err, "missing API key must fail")
}
