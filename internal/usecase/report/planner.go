package report

import (
	"strings"

	"github.com/futig/report-engine/internal/config"
	"github.com/futig/report-engine/internal/entity"
)

// detailKeywords mark a query as asking for a high level of detail.
var detailKeywords = []string{
	"detailed", "in-depth", "comprehensive", "thorough",
	"extensive", "exhaustive", "deep dive", "full analysis",
}

const (
	highDetailPartCount     = 5
	highDetailTokensPerPart = 1000
)

// RetrievalPlanner computes adaptive retrieval limits and the context token
// budget from query characteristics and corpus size.
type RetrievalPlanner struct {
	cfg config.EngineConfig
}

func NewRetrievalPlanner(cfg config.EngineConfig) *RetrievalPlanner {
	return &RetrievalPlanner{cfg: cfg}
}

// Plan sizes retrieval for one query. manualChunkLimit, when positive,
// raises the fragment limit but never lowers it below the floor.
// All returned fields are positive and MaxContextTokens stays within the
// model context window minus the reserved output and safety margin.
func (p *RetrievalPlanner) Plan(query string, parts []entity.PartPlan, corpusPages, manualChunkLimit int) entity.RetrievalPlan {
	highDetail := p.isHighDetail(query, parts)

	bandMin, bandMax := p.cfg.PageBandMin, p.cfg.PageBandMax
	if highDetail {
		bandMin, bandMax = p.cfg.PageBandMinDetail, p.cfg.PageBandMaxDetail
	}

	// A corpus smaller than the band uses every page; a larger one is
	// clipped to the band edge for the current detail level.
	targetPages := corpusPages
	if corpusPages >= bandMin && corpusPages > bandMax {
		targetPages = bandMax
	}
	if targetPages < 1 {
		targetPages = 1
	}

	// Reserve estimated output plus a safety margin out of the context
	// window; what remains is available for retrieved context.
	var outputTokens int
	for _, part := range parts {
		outputTokens += part.TokenTarget
	}
	reserved := int(float64(outputTokens)*p.cfg.OutputBufferRatio) + p.cfg.SafetyMarginTokens

	available := p.cfg.ModelContextWindow - reserved
	if available < p.cfg.MinOutputTokens {
		available = p.cfg.MinOutputTokens
	}

	// Shrink the page target proportionally when its estimated token cost
	// does not fit the available context.
	if targetPages*p.cfg.TokensPerPage > available {
		targetPages = available / p.cfg.TokensPerPage
		if targetPages < 1 {
			targetPages = 1
		}
	}

	chunkLimit := targetPages * p.cfg.FragmentsPerPage
	if manualChunkLimit > chunkLimit {
		chunkLimit = manualChunkLimit
	}
	if chunkLimit < p.cfg.ChunkLimitFloor {
		chunkLimit = p.cfg.ChunkLimitFloor
	}

	maxContext := available
	if pageCost := targetPages * p.cfg.TokensPerPage; pageCost < maxContext {
		maxContext = pageCost
	}
	if p.cfg.MaxContextTokens < maxContext {
		maxContext = p.cfg.MaxContextTokens
	}
	if maxContext < 1 {
		maxContext = 1
	}

	return entity.RetrievalPlan{
		ChunkLimit:       chunkLimit,
		PageLimit:        targetPages,
		MaxContextTokens: maxContext,
	}
}

func (p *RetrievalPlanner) isHighDetail(query string, parts []entity.PartPlan) bool {
	lower := strings.ToLower(query)
	for _, kw := range detailKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	if len(parts) >= highDetailPartCount {
		return true
	}

	if len(parts) > 0 {
		var total int
		for _, part := range parts {
			total += part.TokenTarget
		}
		if total/len(parts) >= highDetailTokensPerPart {
			return true
		}
	}

	return false
}
