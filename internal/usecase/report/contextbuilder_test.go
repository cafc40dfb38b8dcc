package report

import (
	"strings"
	"testing"

	"github.com/futig/report-engine/internal/entity"
	"github.com/stretchr/testify/require"
)

func scoredList(frags ...entity.Fragment) []ScoredFragment {
	out := make([]ScoredFragment, 0, len(frags))
	for _, f := range frags {
		out = append(out, ScoredFragment{Fragment: f})
	}
	return out
}

func TestContextBuilderRespectsBudget(t *testing.T) {
	builder := NewContextBuilder()

	page := entity.FullPage{Filename: "a.pdf", PageNumber: 1, Text: "page text", TokenCount: 100}
	ranked := scoredList(
		testFragment("f1", "a.pdf", 1, "one", 40),
		testFragment("f2", "a.pdf", 2, "two", 40),
		testFragment("f3", "a.pdf", 3, "three", 40),
	)

	result := builder.Build(ranked, []entity.FullPage{page}, 100)

	// The page alone would use the whole budget; its sub-budget is half, so
	// it is skipped and fragments fill the remainder.
	require.Empty(t, result.Pages)
	require.Len(t, result.Fragments, 2)

	var total int
	for _, f := range result.Fragments {
		total += f.TokenCount
	}
	require.LessOrEqual(t, total, 100)
}

func TestContextBuilderSelectsPagesWithinSubBudget(t *testing.T) {
	builder := NewContextBuilder()

	pages := []entity.FullPage{
		{Filename: "a.pdf", PageNumber: 1, Text: "p1", TokenCount: 30},
		{Filename: "a.pdf", PageNumber: 2, Text: "p2", TokenCount: 300},
		{Filename: "a.pdf", PageNumber: 3, Text: "p3", TokenCount: 10},
	}

	result := builder.Build(nil, pages, 100)

	// Sub-budget for 3 pages is 40 tokens; the oversized middle page is
	// skipped while its neighbors still fit.
	require.Len(t, result.Pages, 2)
	require.Equal(t, 1, result.Pages[0].PageNumber)
	require.Equal(t, 3, result.Pages[1].PageNumber)
}

func TestContextBuilderForcedSingleInclusion(t *testing.T) {
	builder := NewContextBuilder()

	big := testFragment("f1", "a.pdf", 1, "oversized", 500)

	result := builder.Build(scoredList(big), nil, 10)

	require.Len(t, result.Fragments, 1)
	require.Equal(t, "f1", result.Fragments[0].ID)
	require.False(t, result.Empty())
}

func TestContextBuilderForcedInclusionPrefersFragment(t *testing.T) {
	builder := NewContextBuilder()

	page := entity.FullPage{Filename: "a.pdf", PageNumber: 1, Text: "p", TokenCount: 500}
	frag := testFragment("f1", "a.pdf", 1, "fragment", 500)

	result := builder.Build(scoredList(frag), []entity.FullPage{page}, 10)

	require.Empty(t, result.Pages)
	require.Len(t, result.Fragments, 1)
}

func TestContextBuilderNoForcedInclusionWhenSomethingFits(t *testing.T) {
	builder := NewContextBuilder()

	small := testFragment("f1", "a.pdf", 1, "small", 5)
	big := testFragment("f2", "b.pdf", 1, "big", 500)

	result := builder.Build(scoredList(small, big), nil, 20)

	require.Len(t, result.Fragments, 1)
	require.Equal(t, "f1", result.Fragments[0].ID)
}

func TestContextBuilderDeduplicatesFragments(t *testing.T) {
	builder := NewContextBuilder()

	frag := testFragment("f1", "a.pdf", 1, "text", 10)

	result := builder.Build(scoredList(frag, frag, frag), nil, 1000)

	require.Len(t, result.Fragments, 1)
}

func TestContextBuilderDiversityReorder(t *testing.T) {
	builder := NewContextBuilder()

	ranked := scoredList(
		testFragment("a-small", "a.pdf", 1, "a1", 10),
		testFragment("a-large", "a.pdf", 2, "a2", 50),
		testFragment("b-only", "b.pdf", 1, "b1", 20),
	)

	result := builder.Build(ranked, nil, 1000)

	// Each document's largest fragment leads, in document first-seen order.
	require.Len(t, result.Fragments, 3)
	require.Equal(t, "a-large", result.Fragments[0].ID)
	require.Equal(t, "b-only", result.Fragments[1].ID)
	require.Equal(t, "a-small", result.Fragments[2].ID)
}

func TestContextBuilderSerialization(t *testing.T) {
	builder := NewContextBuilder()

	page := entity.FullPage{Filename: "a.pdf", PageNumber: 3, Text: "page body", TokenCount: 10}
	frag := testFragment("f1", "b.pdf", 2, "fragment body", 10)
	frag.Section = "Findings"

	result := builder.Build(scoredList(frag), []entity.FullPage{page}, 1000)

	require.True(t, strings.Contains(result.Text, "a.pdf"))
	require.True(t, strings.Contains(result.Text, "page body"))
	require.True(t, strings.Contains(result.Text, "Findings"))
	require.True(t, strings.Contains(result.Text, "fragment body"))

	// Pages come before fragments.
	require.Less(t, strings.Index(result.Text, "page body"), strings.Index(result.Text, "fragment body"))
}
