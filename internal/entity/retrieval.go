package entity

// RetrievalPlan is the computed retrieval sizing for one query. All fields
// are positive; MaxContextTokens never exceeds the model context window
// minus reserved output and safety margin.
type RetrievalPlan struct {
	ChunkLimit       int
	PageLimit        int
	MaxContextTokens int
}

// ContextBuildResult is an assembled context window: the serialized text
// plus the concrete pages and fragments it was built from.
type ContextBuildResult struct {
	Text      string
	Pages     []FullPage
	Fragments []Fragment
}

func (c ContextBuildResult) Empty() bool {
	return len(c.Pages) == 0 && len(c.Fragments) == 0
}

// TokenCount is the sum of the selected items' ingestion token counts.
func (c ContextBuildResult) TokenCount() int {
	total := 0
	for _, p := range c.Pages {
		total += p.TokenCount
	}
	for _, f := range c.Fragments {
		total += f.TokenCount
	}
	return total
}
