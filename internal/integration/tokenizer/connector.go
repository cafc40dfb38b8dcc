package tokenizer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/futig/report-engine/internal/config"
	"github.com/futig/report-engine/internal/entity"
	"github.com/futig/report-engine/internal/integration/common"
	pkghttp "github.com/futig/report-engine/pkg/http"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.TokenizerConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.TokenizerConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// CountTokens asks the tokenizer service for an exact token count. Callers
// are expected to fall back to a character heuristic when this fails, so no
// retries are layered on top.
func (c *Connector) CountTokens(ctx context.Context, text string) (int, error) {
	var resp entity.TokenCountResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.CountEndpoint,
		&entity.TokenCountRequest{Text: text}, &resp)
	if err != nil {
		return 0, fmt.Errorf("count tokens: %w", err)
	}

	return resp.Tokens, nil
}
