package entity

// Fragment is a bounded span of document text with its own embedding.
// Fragments are created once during ingestion and read-only afterwards.
type Fragment struct {
	ID          string
	Filename    string
	PageNumber  int
	Section     string
	SectionType string
	Text        string
	Embedding   []float32
	TokenCount  int

	// Structural metadata, optional.
	NearbyHeadings   []string
	AncestorSections []string
	ParentSection    string
	DocPosition      float64 // 0 at document start, 1 at document end
}

// FullPage is the verbatim text of one logical document page.
type FullPage struct {
	Filename   string
	PageNumber int
	Text       string
	TokenCount int
}

// PageKey identifies a full page within the corpus.
type PageKey struct {
	Filename   string
	PageNumber int
}

func (p FullPage) Key() PageKey {
	return PageKey{Filename: p.Filename, PageNumber: p.PageNumber}
}

// DocumentCorpus groups the ingested fragments and pages of one source document.
type DocumentCorpus struct {
	Filename  string
	Fragments []Fragment
	Pages     []FullPage
}
