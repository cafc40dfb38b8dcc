package report

import (
	"testing"

	"github.com/futig/report-engine/internal/config"
	"github.com/futig/report-engine/internal/entity"
	"github.com/stretchr/testify/require"
)

func taxPart() entity.PartPlan {
	return entity.PartPlan{Index: 2, Title: "Tax", Keywords: []string{"tax"}}
}

func TestScorerExactMatchBeatsSubstring(t *testing.T) {
	scorer := NewPartRelevanceScorer(config.DefaultScoringProfile())

	exact := testFragment("f1", "doc.pdf", 1, "the tax rate applies to all imports", 100)
	substring := testFragment("f2", "doc.pdf", 2, "taxation policy differs by jurisdiction", 100)

	ranked := scorer.Score(taxPart(), []entity.Fragment{substring, exact})

	require.Len(t, ranked, 2)
	require.Equal(t, "f1", ranked[0].Fragment.ID)
	require.Equal(t, 1, ranked[0].ExactMatches)
	require.Equal(t, 0, ranked[1].ExactMatches)
}

func TestScorerSortsByExactThenScore(t *testing.T) {
	scorer := NewPartRelevanceScorer(config.DefaultScoringProfile())

	oneHit := testFragment("f1", "doc.pdf", 1, "tax and customs overview", 100)
	twoHits := testFragment("f2", "doc.pdf", 2, "tax on tax arrangements are disallowed", 100)

	ranked := scorer.Score(taxPart(), []entity.Fragment{oneHit, twoHits})

	require.Len(t, ranked, 2)
	require.Equal(t, "f2", ranked[0].Fragment.ID)
	require.Equal(t, 2, ranked[0].ExactMatches)
}

func TestScorerExcludesBelowFloor(t *testing.T) {
	scorer := NewPartRelevanceScorer(config.DefaultScoringProfile())

	unrelated := testFragment("f1", "doc.pdf", 1, "the weather was pleasant in spring", 100)
	related := testFragment("f2", "doc.pdf", 2, "the tax rate applies to imports", 100)

	ranked := scorer.Score(taxPart(), []entity.Fragment{unrelated, related})

	require.Len(t, ranked, 1)
	require.Equal(t, "f2", ranked[0].Fragment.ID)
}

func TestScorerRelatedTermsForTitleTopic(t *testing.T) {
	scorer := NewPartRelevanceScorer(config.DefaultScoringProfile())

	// "vat" and "levy" are related to the "tax" topic; neither contains the
	// keyword itself, so the related-term signal has to carry the fragment.
	frag := testFragment("f1", "doc.pdf", 1, "cross-border vat and the import levy apply here", 100)
	plain := testFragment("f2", "doc.pdf", 2, "the weather was pleasant in spring", 100)

	ranked := scorer.Score(taxPart(), []entity.Fragment{frag, plain})

	require.Len(t, ranked, 1)
	require.Equal(t, "f1", ranked[0].Fragment.ID)
}

func TestScorerHierarchyBonus(t *testing.T) {
	scorer := NewPartRelevanceScorer(config.DefaultScoringProfile())

	bare := testFragment("f1", "doc.pdf", 1, "the tax rate applies", 100)

	structured := bare
	structured.ID = "f2"
	structured.ParentSection = "Tax treatment"
	structured.NearbyHeadings = []string{"Tax obligations"}
	structured.AncestorSections = []string{"Tax law", "Appendix"}

	ranked := scorer.Score(taxPart(), []entity.Fragment{bare, structured})

	require.Len(t, ranked, 2)
	require.Equal(t, "f2", ranked[0].Fragment.ID)
	require.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestScorerPositionBonusForIntroAndConclusion(t *testing.T) {
	scorer := NewPartRelevanceScorer(config.DefaultScoringProfile())

	early := testFragment("f1", "doc.pdf", 1, "scope of the report", 100)
	early.DocPosition = 0.1
	late := early
	late.ID = "f2"
	late.PageNumber = 9
	late.DocPosition = 0.9

	intro := entity.PartPlan{Index: 1, Title: "Introduction", Keywords: []string{"introduction"}}
	ranked := scorer.Score(intro, []entity.Fragment{late, early})
	require.NotEmpty(t, ranked)
	require.Equal(t, "f1", ranked[0].Fragment.ID)

	conclusion := entity.PartPlan{Index: 7, Title: "Conclusions", Keywords: []string{"conclusions"}}
	ranked = scorer.Score(conclusion, []entity.Fragment{early, late})
	require.NotEmpty(t, ranked)
	require.Equal(t, "f2", ranked[0].Fragment.ID)
}

func TestScorerLengthPenaltyOutsideRange(t *testing.T) {
	scorer := NewPartRelevanceScorer(config.DefaultScoringProfile())

	normal := testFragment("f1", "doc.pdf", 1, "the tax rate applies to imports", 100)
	tiny := testFragment("f2", "doc.pdf", 2, "the tax rate applies to imports", 5)

	ranked := scorer.Score(taxPart(), []entity.Fragment{tiny, normal})

	require.Len(t, ranked, 2)
	require.Equal(t, "f1", ranked[0].Fragment.ID)
	require.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestScorerDeterministicOrder(t *testing.T) {
	scorer := NewPartRelevanceScorer(config.DefaultScoringProfile())

	frags := []entity.Fragment{
		testFragment("f1", "doc.pdf", 1, "tax overview and scope", 100),
		testFragment("f2", "doc.pdf", 2, "tax overview and scope", 100),
		testFragment("f3", "doc.pdf", 3, "tax overview and scope", 100),
	}

	first := scorer.Score(taxPart(), frags)
	for i := 0; i < 10; i++ {
		again := scorer.Score(taxPart(), frags)
		require.Equal(t, first, again)
	}
}
