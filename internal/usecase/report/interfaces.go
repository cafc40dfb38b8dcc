package report

import (
	"context"

	"github.com/futig/report-engine/internal/entity"
)

// EmbeddingConnector turns text into an embedding vector.
type EmbeddingConnector interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// GenerationConnector performs one single-shot completion call.
type GenerationConnector interface {
	Generate(ctx context.Context, req *entity.GenerationRequest) (*entity.GenerationResponse, error)
}

// TokenizerConnector reports the exact token count of a text. Failures are
// tolerated by the estimator, which falls back to a character heuristic.
type TokenizerConnector interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
