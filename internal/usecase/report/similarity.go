package report

import (
	"math"
	"sort"

	"github.com/futig/report-engine/internal/entity"
)

// SimilarityStore holds the embedded corpus in memory and answers
// brute-force cosine similarity queries. It is built once per process from
// the corpus repository and read-only afterwards, so no locking is needed.
type SimilarityStore struct {
	pages           []entity.FullPage
	fragments       []entity.Fragment
	fragmentsByPage map[entity.PageKey][]entity.Fragment
}

func NewSimilarityStore(docs []entity.DocumentCorpus) *SimilarityStore {
	s := &SimilarityStore{
		fragmentsByPage: make(map[entity.PageKey][]entity.Fragment),
	}

	for _, doc := range docs {
		s.pages = append(s.pages, doc.Pages...)
		for _, frag := range doc.Fragments {
			s.fragments = append(s.fragments, frag)
			key := entity.PageKey{Filename: frag.Filename, PageNumber: frag.PageNumber}
			s.fragmentsByPage[key] = append(s.fragmentsByPage[key], frag)
		}
	}

	return s
}

func (s *SimilarityStore) PageCount() int {
	return len(s.pages)
}

func (s *SimilarityStore) FragmentCount() int {
	return len(s.fragments)
}

// RankPages returns the top limit pages by the mean cosine similarity of
// their owned fragments to the query vector. Pages owning no fragments are
// excluded. Ties keep corpus order.
func (s *SimilarityStore) RankPages(query []float32, limit int) []entity.FullPage {
	type pageScore struct {
		page  entity.FullPage
		score float64
	}

	scored := make([]pageScore, 0, len(s.pages))
	for _, page := range s.pages {
		owned := s.fragmentsByPage[page.Key()]
		if len(owned) == 0 {
			continue
		}

		var sum float64
		for _, frag := range owned {
			sum += cosineSimilarity(query, frag.Embedding)
		}
		scored = append(scored, pageScore{page: page, score: sum / float64(len(owned))})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if limit > len(scored) {
		limit = len(scored)
	}
	if limit < 0 {
		limit = 0
	}

	result := make([]entity.FullPage, 0, limit)
	for _, ps := range scored[:limit] {
		result = append(result, ps.page)
	}
	return result
}

// RankFragments returns the top limit fragments belonging to the given
// pages, by cosine similarity to the query vector. Ties keep corpus order.
func (s *SimilarityStore) RankFragments(query []float32, pages []entity.FullPage, limit int) []entity.Fragment {
	allowed := make(map[entity.PageKey]bool, len(pages))
	for _, page := range pages {
		allowed[page.Key()] = true
	}

	type fragScore struct {
		frag  entity.Fragment
		score float64
	}

	var scored []fragScore
	for _, frag := range s.fragments {
		key := entity.PageKey{Filename: frag.Filename, PageNumber: frag.PageNumber}
		if !allowed[key] {
			continue
		}
		scored = append(scored, fragScore{frag: frag, score: cosineSimilarity(query, frag.Embedding)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if limit > len(scored) {
		limit = len(scored)
	}
	if limit < 0 {
		limit = 0
	}

	result := make([]entity.Fragment, 0, limit)
	for _, fs := range scored[:limit] {
		result = append(result, fs.frag)
	}
	return result
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
