package tokenizer

import (
	"context"

	"go.uber.org/zap"
)

// MockConnector approximates token counts at four characters per token.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) CountTokens(ctx context.Context, text string) (int, error) {
	if len(text) == 0 {
		return 0, nil
	}
	tokens := len(text) / 4
	if tokens == 0 {
		tokens = 1
	}
	return tokens, nil
}
