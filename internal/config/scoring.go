package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ScoringProfile holds the hand-tuned weights and topic lookup tables used
// by fragment relevance scoring. It is injectable so weights can be tuned
// and tested independently of the scoring algorithm.
type ScoringProfile struct {
	ExactMatchWeight    float64 `json:"exact_match_weight"`
	PartialMatchWeight  float64 `json:"partial_match_weight"`
	TitleWordWeight     float64 `json:"title_word_weight"`
	LengthBonusPerToken float64 `json:"length_bonus_per_token"`
	LengthBonusCap      float64 `json:"length_bonus_cap"`
	MinFragmentTokens   int     `json:"min_fragment_tokens"`
	MaxFragmentTokens   int     `json:"max_fragment_tokens"`
	LengthPenaltyFactor float64 `json:"length_penalty_factor"`
	DensityWeight       float64 `json:"density_weight"`
	RelatedTermWeight   float64 `json:"related_term_weight"`
	HeadingMatchWeight  float64 `json:"heading_match_weight"`
	AncestorMatchWeight float64 `json:"ancestor_match_weight"`
	AncestorDecay       float64 `json:"ancestor_decay"`
	ParentMatchWeight   float64 `json:"parent_match_weight"`
	HierarchyBonusCap   float64 `json:"hierarchy_bonus_cap"`
	PositionBonus       float64 `json:"position_bonus"`
	ConflictPenalty     float64 `json:"conflict_penalty"`
	RelevanceFloor      float64 `json:"relevance_floor"`

	// RelatedTerms maps a topic word to terms treated as semantically
	// related when they appear in a fragment.
	RelatedTerms map[string][]string `json:"related_terms"`

	// ConflictingTopics lists paired keyword sets: a fragment whose ancestor
	// chain matches side A is penalized when scored against a part whose
	// topic matches side B, and vice versa.
	ConflictingTopics []TopicPair `json:"conflicting_topics"`
}

// TopicPair is one row of the conflicting-topics table.
type TopicPair struct {
	A []string `json:"a"`
	B []string `json:"b"`
}

// DefaultScoringProfile returns the compiled-in tuning used when no profile
// file is present.
func DefaultScoringProfile() ScoringProfile {
	return ScoringProfile{
		ExactMatchWeight:    10,
		PartialMatchWeight:  3,
		TitleWordWeight:     5,
		LengthBonusPerToken: 0.01,
		LengthBonusCap:      3,
		MinFragmentTokens:   30,
		MaxFragmentTokens:   1200,
		LengthPenaltyFactor: 0.5,
		DensityWeight:       20,
		RelatedTermWeight:   2,
		HeadingMatchWeight:  4,
		AncestorMatchWeight: 3,
		AncestorDecay:       0.5,
		ParentMatchWeight:   4,
		HierarchyBonusCap:   12,
		PositionBonus:       5,
		ConflictPenalty:     6,
		RelevanceFloor:      1,
		RelatedTerms: map[string][]string{
			"introduction": {"overview", "background", "purpose", "scope"},
			"conclusion":   {"summary", "recommendation", "outlook", "result"},
			"cost":         {"price", "pricing", "expense", "budget", "fee"},
			"tax":          {"vat", "levy", "duty", "fiscal", "taxation"},
			"risk":         {"threat", "exposure", "liability", "mitigation"},
			"security":     {"encryption", "authentication", "compliance", "audit"},
			"architecture": {"design", "component", "integration", "infrastructure"},
			"performance":  {"latency", "throughput", "scalability", "capacity"},
			"vendor":       {"supplier", "provider", "contractor", "partner"},
			"legal":        {"contract", "clause", "regulation", "law"},
		},
		ConflictingTopics: []TopicPair{
			{A: []string{"introduction", "overview", "background"}, B: []string{"conclusion", "summary", "recommendation"}},
			{A: []string{"cost", "pricing", "budget"}, B: []string{"architecture", "technical", "design"}},
			{A: []string{"risk", "threat", "liability"}, B: []string{"benefit", "advantage", "opportunity"}},
			{A: []string{"legal", "contract", "regulation"}, B: []string{"performance", "latency", "throughput"}},
		},
	}
}

func loadScoringProfile(cfg *Config) error {
	profilePath := filepath.Join("internal", "config", "scoring_profile.json")

	// Check if file exists
	if _, err := os.Stat(profilePath); os.IsNotExist(err) {
		fmt.Printf("Warning: scoring profile not found at %s, using default profile\n", profilePath)
		cfg.Scoring = DefaultScoringProfile()
		return nil
	}

	data, err := os.ReadFile(profilePath)
	if err != nil {
		return fmt.Errorf("read scoring profile: %w", err)
	}

	if len(data) == 0 {
		return fmt.Errorf("scoring profile file is empty: %s", profilePath)
	}

	profile := DefaultScoringProfile()
	if err := json.Unmarshal(data, &profile); err != nil {
		return fmt.Errorf("parse scoring profile JSON: %w", err)
	}

	cfg.Scoring = profile

	fmt.Printf("Loaded scoring profile from %s\n", profilePath)
	return nil
}
