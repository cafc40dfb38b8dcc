package repository

import (
	"context"
	"fmt"

	"github.com/futig/report-engine/internal/entity"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CorpusRepository is the read-only store of ingested fragments and pages,
// grouped by source document.
type CorpusRepository interface {
	LoadAll(ctx context.Context) ([]entity.DocumentCorpus, error)
	Stats(ctx context.Context) (*CorpusStats, error)
}

// CorpusStats summarizes the stored corpus.
type CorpusStats struct {
	Documents   int `json:"documents"`
	Pages       int `json:"pages"`
	Fragments   int `json:"fragments"`
	TotalTokens int `json:"total_tokens"`
}

var _ CorpusRepository = &CorpusPostgres{}

// CorpusPostgres implements CorpusRepository using PostgreSQL
type CorpusPostgres struct {
	db *pgxpool.Pool
}

func NewCorpusPostgres(db *pgxpool.Pool) *CorpusPostgres {
	return &CorpusPostgres{db: db}
}

// LoadAll reads the whole corpus into memory, pages and fragments in
// ingestion order per document.
func (r *CorpusPostgres) LoadAll(ctx context.Context) ([]entity.DocumentCorpus, error) {
	byFilename := make(map[string]*entity.DocumentCorpus)
	var order []string

	pageRows, err := r.db.Query(ctx, `
		SELECT filename, page_number, text, token_count
		FROM pages
		ORDER BY filename, page_number`)
	if err != nil {
		return nil, fmt.Errorf("query pages: %w", err)
	}
	defer pageRows.Close()

	for pageRows.Next() {
		var page entity.FullPage
		if err := pageRows.Scan(&page.Filename, &page.PageNumber, &page.Text, &page.TokenCount); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}

		doc, ok := byFilename[page.Filename]
		if !ok {
			doc = &entity.DocumentCorpus{Filename: page.Filename}
			byFilename[page.Filename] = doc
			order = append(order, page.Filename)
		}
		doc.Pages = append(doc.Pages, page)
	}
	if err := pageRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pages: %w", err)
	}

	fragRows, err := r.db.Query(ctx, `
		SELECT id, filename, page_number, section, section_type, text, embedding, token_count,
		       nearby_headings, ancestor_sections, parent_section, doc_position
		FROM fragments
		ORDER BY filename, page_number, id`)
	if err != nil {
		return nil, fmt.Errorf("query fragments: %w", err)
	}
	defer fragRows.Close()

	for fragRows.Next() {
		var frag entity.Fragment
		if err := fragRows.Scan(
			&frag.ID, &frag.Filename, &frag.PageNumber, &frag.Section, &frag.SectionType,
			&frag.Text, &frag.Embedding, &frag.TokenCount,
			&frag.NearbyHeadings, &frag.AncestorSections, &frag.ParentSection, &frag.DocPosition,
		); err != nil {
			return nil, fmt.Errorf("scan fragment: %w", err)
		}

		doc, ok := byFilename[frag.Filename]
		if !ok {
			doc = &entity.DocumentCorpus{Filename: frag.Filename}
			byFilename[frag.Filename] = doc
			order = append(order, frag.Filename)
		}
		doc.Fragments = append(doc.Fragments, frag)
	}
	if err := fragRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fragments: %w", err)
	}

	docs := make([]entity.DocumentCorpus, 0, len(order))
	for _, filename := range order {
		docs = append(docs, *byFilename[filename])
	}

	return docs, nil
}

func (r *CorpusPostgres) Stats(ctx context.Context) (*CorpusStats, error) {
	var stats CorpusStats

	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(DISTINCT filename) FROM pages),
			(SELECT COUNT(*) FROM pages),
			(SELECT COUNT(*) FROM fragments),
			(SELECT COALESCE(SUM(token_count), 0) FROM pages)`,
	).Scan(&stats.Documents, &stats.Pages, &stats.Fragments, &stats.TotalTokens)
	if err != nil {
		return nil, fmt.Errorf("query corpus stats: %w", err)
	}

	return &stats, nil
}
