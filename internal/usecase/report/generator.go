package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/futig/report-engine/internal/config"
	"github.com/futig/report-engine/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const systemPromptTemplate = "You are an analyst writing one section of a structured report. " +
	"Answer using only the provided context. When the context does not cover a point, say so. " +
	"Write the section in %s."

// PartGenerator produces one report part: part-specific retrieval, scoring,
// context assembly and a single generation call, shrinking the context
// until the request fits under the provider's per-request token ceiling.
type PartGenerator struct {
	cfg       config.EngineConfig
	retriever *PageFragmentRetriever
	scorer    *PartRelevanceScorer
	builder   *ContextBuilder
	generator GenerationConnector
	estimator *TokenEstimator
	logger    *zap.Logger
}

func NewPartGenerator(
	cfg config.EngineConfig,
	retriever *PageFragmentRetriever,
	scorer *PartRelevanceScorer,
	builder *ContextBuilder,
	generator GenerationConnector,
	estimator *TokenEstimator,
	logger *zap.Logger,
) *PartGenerator {
	return &PartGenerator{
		cfg:       cfg,
		retriever: retriever,
		scorer:    scorer,
		builder:   builder,
		generator: generator,
		estimator: estimator,
		logger:    logger,
	}
}

// Generate runs one part to completion. A part without usable context
// yields a substitute answer with zero usage and no generation call;
// a generation service failure is fatal for the whole query.
func (g *PartGenerator) Generate(
	ctx context.Context,
	question, language string,
	plan entity.RetrievalPlan,
	part entity.PartPlan,
	basePages []entity.FullPage,
	baseFragments []entity.Fragment,
) (*entity.PartGenerationResult, error) {
	msgs := messagesFor(language)

	partFragments, err := g.retriever.RetrieveForPart(ctx, compositeQuery(question, part), basePages, plan.ChunkLimit)
	if err != nil {
		return nil, fmt.Errorf("part %d retrieval: %w", part.Index, err)
	}

	pool := MergeFragments(baseFragments, partFragments)
	ranked := g.scorer.Score(part, pool)
	buildResult := g.builder.Build(ranked, basePages, plan.MaxContextTokens)

	if buildResult.Empty() {
		ctxzap.Info(ctx, "no usable context for part, skipping generation",
			zap.Int("part", part.Index),
			zap.String("title", part.Title),
		)
		return &entity.PartGenerationResult{
			Plan:    part,
			Text:    msgs.NoContext,
			Context: buildResult,
		}, nil
	}

	maxOutput := g.outputCeiling(part)
	systemPrompt := fmt.Sprintf(systemPromptTemplate, languageName(language))
	buildResult, promptTokens := g.fitToRequestCeiling(ctx, question, systemPrompt, part, buildResult, maxOutput)

	// The generation service allows roughly one in-flight request per
	// interval; the delay is mandatory before every call.
	if err := g.awaitRateLimit(ctx); err != nil {
		return nil, err
	}

	resp, err := g.generator.Generate(ctx, &entity.GenerationRequest{
		SystemPrompt:    systemPrompt,
		UserPrompt:      g.userPrompt(question, part, buildResult.Text),
		MaxOutputTokens: maxOutput,
	})
	if err != nil {
		return nil, fmt.Errorf("part %d generation: %w", part.Index, err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		text = msgs.EmptyGeneration
	}
	if resp.FinishReason == entity.FinishReasonLength {
		text += msgs.TruncationNote
	}

	usage := entity.Usage{
		PromptTokens:     resp.PromptTokens,
		CompletionTokens: resp.CompletionTokens,
	}

	ctxzap.Info(ctx, "part generated",
		zap.Int("part", part.Index),
		zap.Int("estimated_prompt_tokens", promptTokens),
		zap.Int("prompt_tokens", usage.PromptTokens),
		zap.Int("completion_tokens", usage.CompletionTokens),
	)

	return &entity.PartGenerationResult{
		Plan:    part,
		Text:    text,
		Usage:   usage,
		Cost:    g.cost(usage),
		Context: buildResult,
	}, nil
}

// outputCeiling scales the part's token target by the output buffer ratio,
// bounded by the configured floor and the model's absolute output ceiling.
func (g *PartGenerator) outputCeiling(part entity.PartPlan) int {
	ceiling := int(float64(part.TokenTarget) * g.cfg.OutputBufferRatio)
	if ceiling < g.cfg.MinOutputTokens {
		ceiling = g.cfg.MinOutputTokens
	}
	if ceiling > g.cfg.ModelMaxOutputTokens {
		ceiling = g.cfg.ModelMaxOutputTokens
	}
	return ceiling
}

// fitToRequestCeiling drops the lowest-priority fragment, then the
// lowest-priority page, until estimated prompt tokens plus the output
// ceiling fit under the provider's per-request token ceiling. The system
// prompt must be the exact one the generation call will send.
func (g *PartGenerator) fitToRequestCeiling(
	ctx context.Context,
	question, systemPrompt string,
	part entity.PartPlan,
	buildResult entity.ContextBuildResult,
	maxOutput int,
) (entity.ContextBuildResult, int) {
	for {
		prompt := g.userPrompt(question, part, buildResult.Text)
		promptTokens := g.estimator.Estimate(ctx, prompt) +
			g.estimator.Estimate(ctx, systemPrompt)

		if promptTokens+maxOutput <= g.cfg.RequestTokenCeiling {
			return buildResult, promptTokens
		}

		switch {
		case len(buildResult.Fragments) > 0:
			buildResult.Fragments = buildResult.Fragments[:len(buildResult.Fragments)-1]
		case len(buildResult.Pages) > 0:
			buildResult.Pages = buildResult.Pages[:len(buildResult.Pages)-1]
		default:
			// Nothing left to drop; send the bare prompt.
			return buildResult, promptTokens
		}

		buildResult.Text = serializeContext(buildResult.Pages, buildResult.Fragments)

		ctxzap.Debug(ctx, "shrinking context to fit request ceiling",
			zap.Int("part", part.Index),
			zap.Int("pages", len(buildResult.Pages)),
			zap.Int("fragments", len(buildResult.Fragments)),
		)
	}
}

func (g *PartGenerator) userPrompt(question string, part entity.PartPlan, contextText string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Question: %s\n", question)
	fmt.Fprintf(&sb, "Section %d: %s\n", part.Index, part.Title)
	fmt.Fprintf(&sb, "Focus keywords: %s\n", strings.Join(part.Keywords, ", "))
	fmt.Fprintf(&sb, "Target length: about %d tokens\n\n", part.TokenTarget)
	sb.WriteString("Context:\n")
	sb.WriteString(contextText)
	return sb.String()
}

func (g *PartGenerator) awaitRateLimit(ctx context.Context) error {
	if g.cfg.RateLimitInterval <= 0 {
		return nil
	}

	timer := time.NewTimer(g.cfg.RateLimitInterval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *PartGenerator) cost(usage entity.Usage) float64 {
	return float64(usage.PromptTokens)/1000*g.cfg.PromptCostPer1K +
		float64(usage.CompletionTokens)/1000*g.cfg.CompletionCostPer1K
}

func languageName(language string) string {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "ru", "ru-ru", "rus":
		return "Russian"
	case "de", "de-de":
		return "German"
	case "", "en", "en-us", "en-gb":
		return "English"
	default:
		return language
	}
}
