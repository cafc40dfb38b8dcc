package report

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/futig/report-engine/internal/config"
	"github.com/futig/report-engine/internal/entity"
	pkglogger "github.com/futig/report-engine/internal/pkg/logger"
	"github.com/futig/report-engine/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ReportUsecase is the generation orchestrator: it plans the report,
// retrieves the base evidence once, runs the parts strictly sequentially
// and merges the per-part results into one cited answer.
type ReportUsecase struct {
	cfg        config.EngineConfig
	corpusRepo repository.CorpusRepository
	embedder   EmbeddingConnector
	generator  GenerationConnector
	estimator  *TokenEstimator

	planner       *RetrievalPlanner
	reportPlanner *ReportPlanner
	scorer        *PartRelevanceScorer
	builder       *ContextBuilder
	logger        *zap.Logger

	// The similarity store is built lazily from the corpus repository on
	// the first query and reused read-only afterwards. A failed load is
	// retried on the next query.
	storeMu   sync.Mutex
	store     *SimilarityStore
	retriever *PageFragmentRetriever
	partGen   *PartGenerator
}

// NewUsecase creates the report use case
func NewUsecase(
	cfg config.EngineConfig,
	scoring config.ScoringProfile,
	corpusRepo repository.CorpusRepository,
	embedder EmbeddingConnector,
	generator GenerationConnector,
	tokenizer TokenizerConnector,
	logger *zap.Logger,
) *ReportUsecase {
	return &ReportUsecase{
		cfg:           cfg,
		corpusRepo:    corpusRepo,
		embedder:      embedder,
		generator:     generator,
		estimator:     NewTokenEstimator(tokenizer),
		planner:       NewRetrievalPlanner(cfg),
		reportPlanner: NewReportPlanner(cfg),
		scorer:        NewPartRelevanceScorer(scoring),
		builder:       NewContextBuilder(),
		logger:        logger,
	}
}

// Query answers one question with a structured, cited, multi-section
// report. Recoverable conditions (empty question, infeasible length, no
// evidence) come back as well-formed responses; embedding or generation
// failures abort the whole query.
func (uc *ReportUsecase) Query(ctx context.Context, req *entity.QueryRequest) (*entity.QueryResponse, error) {
	ctx, queryID := pkglogger.WithQueryID(ctx)
	msgs := messagesFor(req.Language)

	if strings.TrimSpace(req.Question) == "" {
		ctxzap.Warn(ctx, "rejecting empty query")
		return &entity.QueryResponse{Answer: msgs.EmptyQuestion, Rejected: true}, nil
	}

	reportPlan := uc.reportPlanner.Plan(req.Question, req.Parts, req.TokensPerPart)

	// Feasibility is checked before any retrieval work: a per-part target
	// beyond the model's per-call output ceiling can never be satisfied.
	if reportPlan.TokensPerPart > uc.cfg.ModelMaxOutputTokens {
		ctxzap.Warn(ctx, "rejecting infeasible output budget",
			zap.Int("tokens_per_part", reportPlan.TokensPerPart),
			zap.Int("model_output_ceiling", uc.cfg.ModelMaxOutputTokens),
		)
		return &entity.QueryResponse{Answer: msgs.InfeasibleBudget, Rejected: true}, nil
	}

	if err := uc.loadStore(ctx); err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	plan := uc.planner.Plan(req.Question, reportPlan.Parts, uc.store.PageCount(), req.RetrievalSize)

	ctxzap.Info(ctx, "query planned",
		zap.String("query_id", queryID),
		zap.Int("parts", reportPlan.PartCount),
		zap.Int("page_limit", plan.PageLimit),
		zap.Int("chunk_limit", plan.ChunkLimit),
		zap.Int("max_context_tokens", plan.MaxContextTokens),
	)

	basePages, baseFragments, err := uc.retriever.RetrieveBase(ctx, req.Question, plan)
	if err != nil {
		return nil, err
	}

	// Parts run strictly sequentially: the generation backend allows about
	// one request per interval, so parallel part generation would only
	// trade latency for rate-limit errors.
	results := make([]*entity.PartGenerationResult, 0, len(reportPlan.Parts))
	for _, part := range reportPlan.Parts {
		result, err := uc.partGen.Generate(ctx, req.Question, req.Language, plan, part, basePages, baseFragments)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return uc.assembleResponse(req, results), nil
}

// CorpusStats reports the size of the loaded corpus.
func (uc *ReportUsecase) CorpusStats(ctx context.Context) (*repository.CorpusStats, error) {
	return uc.corpusRepo.Stats(ctx)
}

func (uc *ReportUsecase) loadStore(ctx context.Context) error {
	uc.storeMu.Lock()
	defer uc.storeMu.Unlock()

	if uc.store != nil {
		return nil
	}

	docs, err := uc.corpusRepo.LoadAll(ctx)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return entity.ErrCorpusEmpty
	}

	uc.store = NewSimilarityStore(docs)
	uc.retriever = NewPageFragmentRetriever(uc.store, uc.embedder)
	uc.partGen = NewPartGenerator(uc.cfg, uc.retriever, uc.scorer, uc.builder, uc.generator, uc.estimator, uc.logger)

	uc.logger.Info("similarity store built",
		zap.Int("documents", len(docs)),
		zap.Int("pages", uc.store.PageCount()),
		zap.Int("fragments", uc.store.FragmentCount()),
	)
	return nil
}

// assembleResponse concatenates labeled part texts and merges the per-part
// sources into one deduplicated, relevance-ordered citation list.
func (uc *ReportUsecase) assembleResponse(req *entity.QueryRequest, results []*entity.PartGenerationResult) *entity.QueryResponse {
	var sb strings.Builder
	var usage entity.Usage
	var cost float64

	for i, result := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "## %d. %s\n\n%s", result.Plan.Index, result.Plan.Title, result.Text)
		usage.Add(result.Usage)
		cost += result.Cost
	}

	seenPages := make(map[entity.PageKey]bool)
	seenFragments := make(map[string]bool)
	var sources []entity.Source

	for _, result := range results {
		for _, page := range result.Context.Pages {
			if seenPages[page.Key()] {
				continue
			}
			seenPages[page.Key()] = true
			sources = append(sources, entity.Source{
				Filename:   page.Filename,
				PageNumber: page.PageNumber,
			})
		}
		for _, frag := range result.Context.Fragments {
			if seenFragments[frag.ID] {
				continue
			}
			seenFragments[frag.ID] = true
			sources = append(sources, entity.Source{
				Filename:   frag.Filename,
				PageNumber: frag.PageNumber,
				FragmentID: frag.ID,
				Section:    frag.Section,
			})
		}
	}

	if req.MaxSources > 0 && len(sources) > req.MaxSources {
		sources = sources[:req.MaxSources]
	}

	return &entity.QueryResponse{
		Answer:     sb.String(),
		Sources:    sources,
		TokensUsed: usage.Total(),
		Cost:       cost,
	}
}
