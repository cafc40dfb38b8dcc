package report

import (
	"github.com/futig/report-engine/internal/config"
	"github.com/futig/report-engine/internal/entity"
)

func testEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		ModelContextWindow:   128000,
		ModelMaxOutputTokens: 8192,
		RequestTokenCeiling:  110000,
		OutputBufferRatio:    1.3,
		SafetyMarginTokens:   2000,
		MinOutputTokens:      256,
		TokensPerPage:        600,
		FragmentsPerPage:     4,
		ChunkLimitFloor:      8,
		MaxContextTokens:     60000,
		PageBandMin:          4,
		PageBandMax:          12,
		PageBandMinDetail:    8,
		PageBandMaxDetail:    25,
		DefaultSectionCount:  5,
		DefaultTokensPerPart: 800,
		MaxPartCount:         12,
		RateLimitInterval:    0,
		PromptCostPer1K:      0.0025,
		CompletionCostPer1K:  0.01,
	}
}

func testFragment(id, filename string, page int, text string, tokens int) entity.Fragment {
	return entity.Fragment{
		ID:         id,
		Filename:   filename,
		PageNumber: page,
		Text:       text,
		TokenCount: tokens,
	}
}
