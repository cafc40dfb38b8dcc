package validator

import (
	"fmt"
	"strings"

	"github.com/futig/report-engine/internal/config"
	"github.com/futig/report-engine/internal/entity"
)

// Validator validates incoming query requests against the engine limits.
type Validator struct {
	cfg config.EngineConfig
}

func NewQueryValidator(cfg config.EngineConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateQuery checks the structural validity of a query request. The
// feasibility of the requested output budget is checked separately by the
// orchestrator before any retrieval work.
func (v *Validator) ValidateQuery(req *entity.QueryRequest) error {
	if strings.TrimSpace(req.Question) == "" {
		return fmt.Errorf("%w: question", entity.ErrMissingField)
	}

	if req.Parts > v.cfg.MaxPartCount {
		return fmt.Errorf("%w: parts must not exceed %d, got %d", entity.ErrInvalidParameter, v.cfg.MaxPartCount, req.Parts)
	}

	if req.TokensPerPart < 0 {
		return fmt.Errorf("%w: tokens_per_part must not be negative", entity.ErrInvalidParameter)
	}

	if req.MaxSources < 0 {
		return fmt.Errorf("%w: max_sources must not be negative", entity.ErrInvalidParameter)
	}

	if req.RetrievalSize < 0 {
		return fmt.Errorf("%w: retrieval_size must not be negative", entity.ErrInvalidParameter)
	}

	return nil
}
