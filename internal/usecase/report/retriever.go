package report

import (
	"context"
	"fmt"

	"github.com/futig/report-engine/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// PageFragmentRetriever runs the two-level search: page relevance first,
// then fragment relevance restricted to the selected pages. Restricting the
// per-fragment pass to a page-filtered subset keeps large corpora cheap at
// the cost of a coarse page-level approximation.
type PageFragmentRetriever struct {
	store    *SimilarityStore
	embedder EmbeddingConnector
}

func NewPageFragmentRetriever(store *SimilarityStore, embedder EmbeddingConnector) *PageFragmentRetriever {
	return &PageFragmentRetriever{
		store:    store,
		embedder: embedder,
	}
}

// RetrieveBase embeds the whole query once and returns the base page set
// with the base fragment set restricted to it.
func (r *PageFragmentRetriever) RetrieveBase(ctx context.Context, query string, plan entity.RetrievalPlan) (
	[]entity.FullPage, []entity.Fragment, error,
) {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("embed query: %w", err)
	}

	pages := r.store.RankPages(vector, plan.PageLimit)
	fragments := r.store.RankFragments(vector, pages, plan.ChunkLimit)

	ctxzap.Debug(ctx, "base retrieval complete",
		zap.Int("pages", len(pages)),
		zap.Int("fragments", len(fragments)),
	)

	return pages, fragments, nil
}

// RetrieveForPart embeds a part-specific composite query and returns the
// top fragments restricted to the already selected base pages.
func (r *PageFragmentRetriever) RetrieveForPart(ctx context.Context, compositeQuery string, basePages []entity.FullPage, chunkLimit int) (
	[]entity.Fragment, error,
) {
	vector, err := r.embedder.Embed(ctx, compositeQuery)
	if err != nil {
		return nil, fmt.Errorf("embed composite query: %w", err)
	}

	return r.store.RankFragments(vector, basePages, chunkLimit), nil
}
