package report

import "context"

// fallbackCharsPerToken is the character ratio used when no tokenizer is
// available. Four characters per token is conservative for western text,
// so estimates err toward overcounting.
const fallbackCharsPerToken = 4

// TokenEstimator estimates the token count of a string via the external
// tokenizer, falling back to a character-length heuristic when the
// tokenizer is missing or fails.
type TokenEstimator struct {
	tokenizer TokenizerConnector
}

func NewTokenEstimator(tokenizer TokenizerConnector) *TokenEstimator {
	return &TokenEstimator{tokenizer: tokenizer}
}

func (e *TokenEstimator) Estimate(ctx context.Context, text string) int {
	if text == "" {
		return 0
	}

	if e.tokenizer != nil {
		if n, err := e.tokenizer.CountTokens(ctx, text); err == nil && n > 0 {
			return n
		}
	}

	n := len(text) / fallbackCharsPerToken
	if n == 0 {
		n = 1
	}
	return n
}
