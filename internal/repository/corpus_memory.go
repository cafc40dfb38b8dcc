package repository

import (
	"context"

	"github.com/futig/report-engine/internal/entity"
)

var _ CorpusRepository = &CorpusMemory{}

// CorpusMemory is an in-memory CorpusRepository used in mock mode and in
// tests. The corpus is fixed at construction, matching the read-only
// lifecycle of the real store.
type CorpusMemory struct {
	docs []entity.DocumentCorpus
}

func NewCorpusMemory(docs []entity.DocumentCorpus) *CorpusMemory {
	return &CorpusMemory{docs: docs}
}

func (r *CorpusMemory) LoadAll(ctx context.Context) ([]entity.DocumentCorpus, error) {
	out := make([]entity.DocumentCorpus, len(r.docs))
	copy(out, r.docs)
	return out, nil
}

func (r *CorpusMemory) Stats(ctx context.Context) (*CorpusStats, error) {
	stats := &CorpusStats{Documents: len(r.docs)}
	for _, doc := range r.docs {
		stats.Pages += len(doc.Pages)
		stats.Fragments += len(doc.Fragments)
		for _, page := range doc.Pages {
			stats.TotalTokens += page.TokenCount
		}
	}
	return stats, nil
}
