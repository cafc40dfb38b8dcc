package generation

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/futig/report-engine/internal/config"
	"github.com/futig/report-engine/internal/entity"
	"github.com/futig/report-engine/internal/integration/common"
	pkghttp "github.com/futig/report-engine/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.GenerationConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.GenerationConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Generate performs one single-shot completion call. The response reports
// truncation via FinishReason and actual token usage.
func (c *Connector) Generate(ctx context.Context, req *entity.GenerationRequest) (
	*entity.GenerationResponse, error,
) {
	ctxzap.Info(ctx, "generating text via generation service",
		zap.Int("max_output_tokens", req.MaxOutputTokens),
		zap.Int("prompt_length", len(req.SystemPrompt)+len(req.UserPrompt)),
	)

	var resp entity.GenerationResponse
	err := retry.Do(
		func() error {
			return c.connector.DoRequest(ctx, http.MethodPost, c.config.GenerateEndpoint, req, &resp)
		},
		append(c.config.Retry.ToRetryOptions(pkghttp.IsTransientError), retry.Context(ctx))...,
	)
	if err != nil {
		return nil, fmt.Errorf("generate text: %w", err)
	}

	ctxzap.Info(ctx, "text generated",
		zap.String("finish_reason", resp.FinishReason),
		zap.Int("prompt_tokens", resp.PromptTokens),
		zap.Int("completion_tokens", resp.CompletionTokens),
	)

	return &resp, nil
}
