package report

import (
	"math"
	"sort"
	"strings"

	"github.com/futig/report-engine/internal/config"
	"github.com/futig/report-engine/internal/entity"
)

// ScoredFragment is one candidate fragment with its relevance score for a
// single part. ExactMatches is the primary tie-break key.
type ScoredFragment struct {
	Fragment     entity.Fragment
	Score        float64
	ExactMatches int
}

// PartRelevanceScorer ranks candidate fragments against one part's topic
// using a multi-factor heuristic. All weights and lookup tables come from
// the injected scoring profile; the scorer itself is pure and deterministic
// for fixed inputs.
type PartRelevanceScorer struct {
	profile config.ScoringProfile

	// relatedTermKeys is the sorted key set of profile.RelatedTerms so
	// scoring never depends on map iteration order.
	relatedTermKeys []string
}

func NewPartRelevanceScorer(profile config.ScoringProfile) *PartRelevanceScorer {
	keys := make([]string, 0, len(profile.RelatedTerms))
	for key := range profile.RelatedTerms {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return &PartRelevanceScorer{
		profile:         profile,
		relatedTermKeys: keys,
	}
}

// Score ranks the candidate pool for one part. The result is sorted by
// exact-match count descending, then total score descending; fragments with
// zero exact matches and a score at or below the relevance floor are
// excluded.
func (s *PartRelevanceScorer) Score(part entity.PartPlan, candidates []entity.Fragment) []ScoredFragment {
	titleLower := strings.ToLower(part.Title)
	titleWords := titleKeywords(part.Title)

	scored := make([]ScoredFragment, 0, len(candidates))
	for _, frag := range candidates {
		sf := s.scoreFragment(part, titleLower, titleWords, frag)
		if sf.ExactMatches == 0 && sf.Score <= s.profile.RelevanceFloor {
			continue
		}
		scored = append(scored, sf)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].ExactMatches != scored[j].ExactMatches {
			return scored[i].ExactMatches > scored[j].ExactMatches
		}
		return scored[i].Score > scored[j].Score
	})

	return scored
}

func (s *PartRelevanceScorer) scoreFragment(part entity.PartPlan, titleLower string, titleWords []string, frag entity.Fragment) ScoredFragment {
	p := s.profile
	textLower := strings.ToLower(frag.Text)
	words := splitWords(textLower)

	// Exact word-boundary matches and partial substring matches, counted
	// separately: exact hits are the primary ranking key.
	exact, partial := 0, 0
	for _, kw := range part.Keywords {
		e := countEqualWords(words, kw)
		exact += e

		sub := strings.Count(textLower, kw) - e
		if sub > 0 {
			partial += sub
		}
	}

	score := float64(exact)*p.ExactMatchWeight + float64(partial)*p.PartialMatchWeight

	// Title words appearing anywhere in the fragment text.
	for _, tw := range titleWords {
		if len(tw) < 3 {
			continue
		}
		if strings.Contains(textLower, tw) {
			score += p.TitleWordWeight
		}
	}

	// Capped length bonus.
	lengthBonus := float64(frag.TokenCount) * p.LengthBonusPerToken
	if lengthBonus > p.LengthBonusCap {
		lengthBonus = p.LengthBonusCap
	}
	score += lengthBonus

	// Keyword density over the fragment's word count.
	if len(words) > 0 {
		score += float64(exact+partial) / float64(len(words)) * p.DensityWeight
	}

	// Terms semantically related to the part title.
	for _, topic := range s.relatedTermKeys {
		if !strings.Contains(titleLower, topic) {
			continue
		}
		for _, term := range p.RelatedTerms[topic] {
			if strings.Contains(textLower, term) {
				score += p.RelatedTermWeight
			}
		}
	}

	score += s.hierarchyBonus(part.Keywords, frag)
	score += s.positionAdjustment(titleLower, frag)

	// Undersized and oversized fragments keep their rank signals but are
	// penalized as a whole.
	if frag.TokenCount < p.MinFragmentTokens || frag.TokenCount > p.MaxFragmentTokens {
		score *= p.LengthPenaltyFactor
	}

	return ScoredFragment{
		Fragment:     frag,
		Score:        score,
		ExactMatches: exact,
	}
}

// hierarchyBonus rewards structural metadata matching the part keywords:
// nearby headings, the ancestor-section chain decayed by distance, and the
// immediate parent section. The total is capped.
func (s *PartRelevanceScorer) hierarchyBonus(keywords []string, frag entity.Fragment) float64 {
	p := s.profile

	var bonus float64
	for _, heading := range frag.NearbyHeadings {
		if containsAnyWord(heading, keywords) {
			bonus += p.HeadingMatchWeight
		}
	}

	// Ancestors are ordered nearest-first; farther levels count less.
	for depth, ancestor := range frag.AncestorSections {
		if containsAnyWord(ancestor, keywords) {
			bonus += p.AncestorMatchWeight * math.Pow(p.AncestorDecay, float64(depth))
		}
	}

	if frag.ParentSection != "" && containsAnyWord(frag.ParentSection, keywords) {
		bonus += p.ParentMatchWeight
	}

	if bonus > p.HierarchyBonusCap {
		bonus = p.HierarchyBonusCap
	}
	return bonus
}

// positionAdjustment rewards introduction parts drawn from early-document
// fragments and conclusion parts drawn from late-document fragments, and
// penalizes fragments whose ancestor chain belongs to a conflicting topic.
func (s *PartRelevanceScorer) positionAdjustment(titleLower string, frag entity.Fragment) float64 {
	p := s.profile

	var adj float64
	isIntro := titleMatchesAny(titleLower, introTitleWords)
	isConclusion := titleMatchesAny(titleLower, conclusionTitleWords)

	if isIntro && frag.DocPosition <= 0.25 {
		adj += p.PositionBonus
	}
	if isConclusion && frag.DocPosition >= 0.75 {
		adj += p.PositionBonus
	}

	ancestorText := strings.ToLower(strings.Join(frag.AncestorSections, " "))
	for _, pair := range p.ConflictingTopics {
		aTitle := titleMatchesAny(titleLower, pair.A)
		bTitle := titleMatchesAny(titleLower, pair.B)
		aChain := containsAnyTerm(ancestorText, pair.A)
		bChain := containsAnyTerm(ancestorText, pair.B)

		if (aTitle && bChain) || (bTitle && aChain) {
			adj -= p.ConflictPenalty
		}
	}

	return adj
}

func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && !(r >= 0x80)
	})
}

func countEqualWords(words []string, keyword string) int {
	count := 0
	for _, w := range words {
		if w == keyword {
			count++
		}
	}
	return count
}

func containsAnyWord(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func containsAnyTerm(lowerText string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(lowerText, term) {
			return true
		}
	}
	return false
}
