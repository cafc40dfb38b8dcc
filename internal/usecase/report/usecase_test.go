package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/futig/report-engine/internal/config"
	"github.com/futig/report-engine/internal/entity"
	"github.com/futig/report-engine/internal/integration/embedding"
	"github.com/futig/report-engine/internal/integration/generation"
	"github.com/futig/report-engine/internal/integration/tokenizer"
	"github.com/futig/report-engine/internal/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type scriptedGenerator struct {
	text         string
	finishReason string
	err          error
	calls        int
}

func (s *scriptedGenerator) Generate(ctx context.Context, req *entity.GenerationRequest) (*entity.GenerationResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &entity.GenerationResponse{
		Text:             s.text,
		FinishReason:     s.finishReason,
		PromptTokens:     100,
		CompletionTokens: 50,
	}, nil
}

func newTestUsecase(t *testing.T, gen GenerationConnector) *ReportUsecase {
	t.Helper()

	logger := zap.NewNop()
	embedder := embedding.NewMockConnector(logger)

	docs := repository.DemoCorpus()
	ctx := context.Background()
	for d := range docs {
		for f := range docs[d].Fragments {
			vec, err := embedder.Embed(ctx, docs[d].Fragments[f].Text)
			require.NoError(t, err)
			docs[d].Fragments[f].Embedding = vec
		}
	}

	if gen == nil {
		gen = generation.NewMockConnector(logger)
	}

	return NewUsecase(
		testEngineConfig(),
		config.DefaultScoringProfile(),
		repository.NewCorpusMemory(docs),
		embedder,
		gen,
		tokenizer.NewMockConnector(logger),
		logger,
	)
}

func TestQueryProducesFullReport(t *testing.T) {
	gen := &scriptedGenerator{text: "Generated section text.", finishReason: "stop"}
	uc := newTestUsecase(t, gen)

	resp, err := uc.Query(context.Background(), &entity.QueryRequest{
		Question: "Compare vendor A and vendor B",
	})
	require.NoError(t, err)
	require.False(t, resp.Rejected)

	// Default outline: introduction, five topical sections, conclusions.
	require.Equal(t, 7, strings.Count(resp.Answer, "## "))
	require.Contains(t, resp.Answer, "## 1. Introduction")
	require.Contains(t, resp.Answer, "## 7. Conclusions")

	require.Equal(t, 7, gen.calls)
	require.NotEmpty(t, resp.Sources)
	require.Equal(t, 7*150, resp.TokensUsed)
	require.Greater(t, resp.Cost, 0.0)
}

func TestQuerySourcesAreDeduplicated(t *testing.T) {
	uc := newTestUsecase(t, &scriptedGenerator{text: "ok", finishReason: "stop"})

	resp, err := uc.Query(context.Background(), &entity.QueryRequest{
		Question: "Compare vendor A and vendor B",
	})
	require.NoError(t, err)

	seen := make(map[entity.Source]bool)
	for _, src := range resp.Sources {
		require.False(t, seen[src], "duplicate source %+v", src)
		seen[src] = true
	}
}

func TestQueryMaxSourcesTruncates(t *testing.T) {
	uc := newTestUsecase(t, &scriptedGenerator{text: "ok", finishReason: "stop"})

	resp, err := uc.Query(context.Background(), &entity.QueryRequest{
		Question:   "Compare vendor A and vendor B",
		MaxSources: 2,
	})
	require.NoError(t, err)
	require.Len(t, resp.Sources, 2)
}

func TestQueryEmptyQuestionRejected(t *testing.T) {
	gen := &scriptedGenerator{}
	uc := newTestUsecase(t, gen)

	resp, err := uc.Query(context.Background(), &entity.QueryRequest{Question: "   "})
	require.NoError(t, err)
	require.True(t, resp.Rejected)
	require.Equal(t, messagesByLanguage["en"].EmptyQuestion, resp.Answer)
	require.Zero(t, gen.calls)
}

func TestQueryRejectionIsLocalized(t *testing.T) {
	uc := newTestUsecase(t, &scriptedGenerator{})

	resp, err := uc.Query(context.Background(), &entity.QueryRequest{Question: "", Language: "ru"})
	require.NoError(t, err)
	require.True(t, resp.Rejected)
	require.Equal(t, messagesByLanguage["ru"].EmptyQuestion, resp.Answer)
}

func TestQueryInfeasibleBudgetRejected(t *testing.T) {
	gen := &scriptedGenerator{}
	uc := newTestUsecase(t, gen)

	resp, err := uc.Query(context.Background(), &entity.QueryRequest{
		Question:      "Compare vendor A and vendor B",
		TokensPerPart: 9000,
	})
	require.NoError(t, err)
	require.True(t, resp.Rejected)
	require.Equal(t, messagesByLanguage["en"].InfeasibleBudget, resp.Answer)
	require.Zero(t, gen.calls)
}

func TestQueryEmptyCorpusFails(t *testing.T) {
	logger := zap.NewNop()
	uc := NewUsecase(
		testEngineConfig(),
		config.DefaultScoringProfile(),
		repository.NewCorpusMemory(nil),
		embedding.NewMockConnector(logger),
		&scriptedGenerator{},
		tokenizer.NewMockConnector(logger),
		logger,
	)

	_, err := uc.Query(context.Background(), &entity.QueryRequest{Question: "anything"})
	require.ErrorIs(t, err, entity.ErrCorpusEmpty)
}

func TestQueryGenerationFailureIsFatal(t *testing.T) {
	uc := newTestUsecase(t, &scriptedGenerator{err: errors.New("service down")})

	_, err := uc.Query(context.Background(), &entity.QueryRequest{
		Question: "Compare vendor A and vendor B",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "service down")
}

func TestQueryTruncatedSectionGetsNote(t *testing.T) {
	gen := &scriptedGenerator{text: "Cut off mid-sentence", finishReason: entity.FinishReasonLength}
	uc := newTestUsecase(t, gen)

	resp, err := uc.Query(context.Background(), &entity.QueryRequest{
		Question: "Compare vendor A and vendor B",
	})
	require.NoError(t, err)
	require.Contains(t, resp.Answer, "truncated")
}

func TestQueryEmptyGenerationGetsSubstitute(t *testing.T) {
	gen := &scriptedGenerator{text: "   ", finishReason: "stop"}
	uc := newTestUsecase(t, gen)

	resp, err := uc.Query(context.Background(), &entity.QueryRequest{
		Question: "Compare vendor A and vendor B",
	})
	require.NoError(t, err)
	require.Contains(t, resp.Answer, messagesByLanguage["en"].EmptyGeneration)
}
