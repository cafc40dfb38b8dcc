package entity

// PartPlan describes one section of a multi-part report.
type PartPlan struct {
	Index       int
	Title       string
	TokenTarget int
	Keywords    []string
}

// ReportPlan is the ordered decomposition of a user request into parts.
type ReportPlan struct {
	Request       string
	PartCount     int
	TokensPerPart int
	Parts         []PartPlan
}

// Usage accumulates token consumption across generation calls.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

func (u Usage) Total() int {
	return u.PromptTokens + u.CompletionTokens
}

func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
}

// Source is one cited origin of generated text: a full page when FragmentID
// is empty, otherwise a fragment.
type Source struct {
	Filename   string `json:"filename"`
	PageNumber int    `json:"page_number"`
	FragmentID string `json:"fragment_id,omitempty"`
	Section    string `json:"section,omitempty"`
}

// PartGenerationResult is the outcome of generating one report part.
type PartGenerationResult struct {
	Plan    PartPlan
	Text    string
	Usage   Usage
	Cost    float64
	Context ContextBuildResult
}

// QueryRequest carries the parameters of one report query.
type QueryRequest struct {
	Question      string `json:"question"`
	Language      string `json:"language,omitempty"`
	MaxSources    int    `json:"max_sources,omitempty"`
	Parts         int    `json:"parts,omitempty"`
	TokensPerPart int    `json:"tokens_per_part,omitempty"`
	RetrievalSize int    `json:"retrieval_size,omitempty"`
}

// ResultFormat selects the rendering of a finished report.
type ResultFormat string

const (
	FormatJSON     ResultFormat = "json"
	FormatMarkdown ResultFormat = "markdown"
	FormatPDF      ResultFormat = "pdf"
)

// QueryResponse is the complete answer to one query. Recoverable failures
// (rejected input, missing evidence) still produce a well-formed response
// with an explanatory answer and zero usage.
type QueryResponse struct {
	Answer     string   `json:"answer"`
	Sources    []Source `json:"sources"`
	TokensUsed int      `json:"tokens_used"`
	Cost       float64  `json:"cost"`
	Rejected   bool     `json:"rejected,omitempty"`
}
