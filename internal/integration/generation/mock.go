package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/report-engine/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector answers every generation request with a short summary of
// the prompt it received. Token usage is estimated at four characters per
// token, matching the engine's fallback heuristic.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Generate(ctx context.Context, req *entity.GenerationRequest) (
	*entity.GenerationResponse, error,
) {
	ctxzap.Info(ctx, "[MOCK] generating text", zap.Int("max_output_tokens", req.MaxOutputTokens))

	firstLine := req.UserPrompt
	if idx := strings.IndexByte(firstLine, '\n'); idx > 0 {
		firstLine = firstLine[:idx]
	}

	text := fmt.Sprintf("Mock generated answer for: %s", strings.TrimSpace(firstLine))

	return &entity.GenerationResponse{
		Text:             text,
		FinishReason:     "stop",
		PromptTokens:     (len(req.SystemPrompt) + len(req.UserPrompt)) / 4,
		CompletionTokens: len(text) / 4,
	}, nil
}
