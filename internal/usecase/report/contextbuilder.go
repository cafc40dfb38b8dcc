package report

import (
	"fmt"
	"strings"

	"github.com/futig/report-engine/internal/entity"
)

// ContextBuilder allocates a token budget between full pages and fragments
// with document-diversity ordering.
type ContextBuilder struct{}

func NewContextBuilder() *ContextBuilder {
	return &ContextBuilder{}
}

// Build selects pages first under a shrinking sub-budget, then fragments
// into the remainder. The selected token sum never exceeds the budget,
// except that when nothing fits at all the single best candidate is forced
// in: the context is never empty while candidates exist.
func (b *ContextBuilder) Build(ranked []ScoredFragment, pages []entity.FullPage, budget int) entity.ContextBuildResult {
	fragments := dedupeScored(ranked)
	fragments = diversityReorder(fragments)

	var selectedPages []entity.FullPage
	pageBudget := int(float64(budget) * pageBudgetRatio(len(pages)))
	pageSpent := 0
	for _, page := range pages {
		// A single oversized page is skipped, not a reason to halt.
		if pageSpent+page.TokenCount > pageBudget {
			continue
		}
		selectedPages = append(selectedPages, page)
		pageSpent += page.TokenCount
	}

	var selectedFragments []entity.Fragment
	remaining := budget - pageSpent
	spent := 0
	for _, frag := range fragments {
		if spent+frag.TokenCount > remaining {
			break
		}
		selectedFragments = append(selectedFragments, frag)
		spent += frag.TokenCount
	}

	// Forced single inclusion: even when the first candidate alone blows
	// the budget, an available candidate must yield a non-empty context.
	if len(selectedPages) == 0 && len(selectedFragments) == 0 {
		if len(fragments) > 0 {
			selectedFragments = append(selectedFragments, fragments[0])
		} else if len(pages) > 0 {
			selectedPages = append(selectedPages, pages[0])
		}
	}

	return entity.ContextBuildResult{
		Text:      serializeContext(selectedPages, selectedFragments),
		Pages:     selectedPages,
		Fragments: selectedFragments,
	}
}

// pageBudgetRatio is the share of the budget pages may consume; it shrinks
// as the page count grows so fragments keep room on page-heavy retrievals.
func pageBudgetRatio(pageCount int) float64 {
	switch {
	case pageCount <= 2:
		return 0.5
	case pageCount <= 5:
		return 0.4
	default:
		return 0.3
	}
}

func dedupeScored(ranked []ScoredFragment) []entity.Fragment {
	seen := make(map[string]bool, len(ranked))
	out := make([]entity.Fragment, 0, len(ranked))
	for _, sf := range ranked {
		if seen[sf.Fragment.ID] {
			continue
		}
		seen[sf.Fragment.ID] = true
		out = append(out, sf.Fragment)
	}
	return out
}

// diversityReorder promotes each distinct document's single highest-token
// fragment to the front, in order of the documents' first appearance, and
// appends the remainder in rank order.
func diversityReorder(fragments []entity.Fragment) []entity.Fragment {
	if len(fragments) < 2 {
		return fragments
	}

	best := make(map[string]int) // filename -> index of highest-token fragment
	var docOrder []string
	for i, frag := range fragments {
		idx, ok := best[frag.Filename]
		if !ok {
			best[frag.Filename] = i
			docOrder = append(docOrder, frag.Filename)
			continue
		}
		if frag.TokenCount > fragments[idx].TokenCount {
			best[frag.Filename] = i
		}
	}

	promoted := make(map[int]bool, len(docOrder))
	out := make([]entity.Fragment, 0, len(fragments))
	for _, filename := range docOrder {
		idx := best[filename]
		out = append(out, fragments[idx])
		promoted[idx] = true
	}
	for i, frag := range fragments {
		if promoted[i] {
			continue
		}
		out = append(out, frag)
	}
	return out
}

// serializeContext renders the selected items: full pages verbatim first,
// fragments after, each tagged with its document and section label.
func serializeContext(pages []entity.FullPage, fragments []entity.Fragment) string {
	if len(pages) == 0 && len(fragments) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, page := range pages {
		fmt.Fprintf(&sb, "=== %s — page %d ===\n%s\n\n", page.Filename, page.PageNumber, page.Text)
	}
	for _, frag := range fragments {
		label := frag.Section
		if label == "" {
			label = fmt.Sprintf("page %d", frag.PageNumber)
		}
		fmt.Fprintf(&sb, "--- %s, %s ---\n%s\n\n", frag.Filename, label, frag.Text)
	}
	return sb.String()
}
