package report

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/futig/report-engine/internal/config"
	"github.com/futig/report-engine/internal/entity"
)

var (
	numberedLineRe = regexp.MustCompile(`(?m)^\s*\d+[.)]\s+(.+)$`)
	bulletLineRe   = regexp.MustCompile(`(?m)^\s*[-*•]\s+(.+)$`)
)

// A request needs at least this many itemized lines before they are taken
// as an explicit report structure.
const minItemizedLines = 3

var introTitleWords = []string{"introduction", "intro", "overview", "background"}

var conclusionTitleWords = []string{"conclusion", "conclusions", "summary", "closing", "final"}

// defaultSectionTitles seed the synthesized outline between Introduction
// and Conclusions. Deliberately free of intro/conclusion vocabulary so the
// post-processing pass stays idempotent.
var defaultSectionTitles = []string{
	"Key Findings",
	"Detailed Analysis",
	"Supporting Evidence",
	"Alternatives and Comparisons",
	"Risks and Limitations",
}

// ReportPlanner decomposes a free-text request into an ordered sequence of
// report parts with titles, token targets and focus keywords.
type ReportPlanner struct {
	cfg config.EngineConfig
}

func NewReportPlanner(cfg config.EngineConfig) *ReportPlanner {
	return &ReportPlanner{cfg: cfg}
}

// Plan builds the report plan. requestedParts sizes the topical body of the
// outline (zero or negative is treated as one); tokensPerPart defaults from
// config when not positive. The result always contains exactly one
// introduction-like part first and one conclusion-like part last, indexed
// contiguously from 1.
func (p *ReportPlanner) Plan(request string, requestedParts, tokensPerPart int) *entity.ReportPlan {
	if tokensPerPart <= 0 {
		tokensPerPart = p.cfg.DefaultTokensPerPart
	}

	titles := detectItemizedTitles(request)
	if len(titles) == 0 {
		titles = p.defaultOutline(requestedParts)
	} else if requestedParts > 0 && len(titles) > requestedParts {
		titles = titles[:requestedParts]
	}
	if len(titles) > p.cfg.MaxPartCount {
		titles = titles[:p.cfg.MaxPartCount]
	}

	// Guarantee one introduction-like entry at the front and one
	// conclusion-like entry at the back.
	if !anyTitleMatches(titles, introTitleWords) {
		titles = append([]string{"Introduction"}, titles...)
	}
	if !anyTitleMatches(titles, conclusionTitleWords) {
		titles = append(titles, "Conclusions")
	}

	parts := make([]entity.PartPlan, 0, len(titles))
	for i, title := range titles {
		parts = append(parts, entity.PartPlan{
			Index:       i + 1,
			Title:       title,
			TokenTarget: tokensPerPart,
			Keywords:    titleKeywords(title),
		})
	}

	return &entity.ReportPlan{
		Request:       request,
		PartCount:     len(parts),
		TokensPerPart: tokensPerPart,
		Parts:         parts,
	}
}

// detectItemizedTitles extracts an explicit itemized structure: three or
// more numbered lines, else three or more bulleted lines.
func detectItemizedTitles(request string) []string {
	for _, re := range []*regexp.Regexp{numberedLineRe, bulletLineRe} {
		matches := re.FindAllStringSubmatch(request, -1)
		if len(matches) < minItemizedLines {
			continue
		}
		titles := make([]string, 0, len(matches))
		for _, m := range matches {
			if title := strings.TrimSpace(m[1]); title != "" {
				titles = append(titles, title)
			}
		}
		if len(titles) >= minItemizedLines {
			return titles
		}
	}
	return nil
}

// defaultOutline returns the topical section titles of the synthesized
// outline, sized to the requested count.
func (p *ReportPlanner) defaultOutline(requestedParts int) []string {
	count := requestedParts
	if count == 0 {
		count = p.cfg.DefaultSectionCount
	}
	if count < 0 {
		count = 1
	}

	titles := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if i < len(defaultSectionTitles) {
			titles = append(titles, defaultSectionTitles[i])
			continue
		}
		titles = append(titles, fmt.Sprintf("Additional Analysis %d", i-len(defaultSectionTitles)+2))
	}
	return titles
}

func anyTitleMatches(titles []string, words []string) bool {
	for _, title := range titles {
		if titleMatchesAny(title, words) {
			return true
		}
	}
	return false
}

func titleMatchesAny(title string, words []string) bool {
	lower := strings.ToLower(title)
	for _, word := range words {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// titleKeywords derives focus keywords from a part title: lowercased tokens
// split on punctuation and whitespace, single characters dropped.
func titleKeywords(title string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && !(r >= 0x80)
	})

	keywords := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) < 2 {
			continue
		}
		keywords = append(keywords, tok)
	}

	if len(keywords) == 0 {
		keywords = append(keywords, strings.ToLower(strings.TrimSpace(title)))
	}
	return keywords
}
