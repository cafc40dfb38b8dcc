package report

import (
	"github.com/futig/report-engine/internal/repository"
)

type statsResponse struct {
	Documents   int `json:"documents"`
	Pages       int `json:"pages"`
	Fragments   int `json:"fragments"`
	TotalTokens int `json:"total_tokens"`
}

func toStatsResponse(stats *repository.CorpusStats) *statsResponse {
	return &statsResponse{
		Documents:   stats.Documents,
		Pages:       stats.Pages,
		Fragments:   stats.Fragments,
		TotalTokens: stats.TotalTokens,
	}
}
