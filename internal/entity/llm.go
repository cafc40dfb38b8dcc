package entity

// EmbeddingRequest is the payload for the embedding service.
type EmbeddingRequest struct {
	Text string `json:"text"`
}

type EmbeddingResponse struct {
	Vector []float32 `json:"vector"`
}

// GenerationRequest is a single-shot completion request.
type GenerationRequest struct {
	SystemPrompt    string `json:"system_prompt"`
	UserPrompt      string `json:"user_prompt"`
	MaxOutputTokens int    `json:"max_output_tokens"`
}

type GenerationResponse struct {
	Text             string `json:"text"`
	FinishReason     string `json:"finish_reason"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
}

// FinishReasonLength indicates the output hit the per-call token ceiling.
const FinishReasonLength = "length"

type TokenCountRequest struct {
	Text string `json:"text"`
}

type TokenCountResponse struct {
	Tokens int `json:"tokens"`
}
