package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/futig/report-engine/internal/config"
	"github.com/futig/report-engine/internal/entity"
	"github.com/futig/report-engine/internal/integration/common"
	pkghttp "github.com/futig/report-engine/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.EmbeddingConnectorConfig
	connector *pkghttp.Connector
	cache     *gocache.Cache
	logger    *zap.Logger
}

func NewConnector(
	cfg config.EmbeddingConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		cache:     gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		logger:    logger,
	}
}

// Embed returns the embedding vector for the given text. Identical texts
// hit a TTL cache instead of the service. Transient network failures are
// retried; service-level errors surface immediately.
func (c *Connector) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(text)
	if cached, ok := c.cache.Get(key); ok {
		ctxzap.Debug(ctx, "embedding cache hit")
		return cached.([]float32), nil
	}

	ctxzap.Debug(ctx, "embedding text via embedding service", zap.Int("text_length", len(text)))

	var resp entity.EmbeddingResponse
	err := retry.Do(
		func() error {
			return c.connector.DoRequest(ctx, http.MethodPost, c.config.EmbedEndpoint,
				&entity.EmbeddingRequest{Text: text}, &resp)
		},
		append(c.config.Retry.ToRetryOptions(pkghttp.IsTransientError), retry.Context(ctx))...,
	)
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}

	if len(resp.Vector) == 0 {
		return nil, fmt.Errorf("embedding service returned an empty vector")
	}

	c.cache.Set(key, resp.Vector, gocache.DefaultExpiration)

	return resp.Vector, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
