package repository

import (
	"fmt"

	"github.com/futig/report-engine/internal/entity"
)

// DemoCorpus returns a small fixed corpus used in mock mode so the service
// can answer queries without a database. Fragment embeddings are left empty;
// the caller is expected to fill them with the active embedding backend.
func DemoCorpus() []entity.DocumentCorpus {
	docs := []struct {
		filename string
		pages    []string
	}{
		{
			filename: "vendor-comparison.pdf",
			pages: []string{
				"Introduction. This report compares vendor A and vendor B across cost, performance and compliance criteria for the platform migration.",
				"Cost analysis. Vendor A offers a lower base price but charges extra fees for support. Vendor B bundles support into a higher fixed budget.",
				"Performance. Vendor B shows better latency and throughput under load, while vendor A degrades beyond two hundred concurrent users.",
				"Conclusions. Vendor B is recommended for latency-sensitive workloads; vendor A remains viable where budget is the primary constraint.",
			},
		},
		{
			filename: "security-review.pdf",
			pages: []string{
				"Overview. The security review covers encryption at rest, authentication flows and audit logging for both candidate vendors.",
				"Findings. Vendor A lacks hardware-backed key storage. Vendor B passed the compliance audit with no critical findings.",
				"Risk assessment. The main exposure is third-party plugin code; mitigation requires sandboxing and a review gate.",
			},
		},
		{
			filename: "contract-terms.pdf",
			pages: []string{
				"Legal summary. Contract clauses differ on liability caps and termination notice periods between the two vendors.",
				"Tax treatment. Cross-border invoicing is subject to VAT; the levy depends on the place of supply rules in the customer jurisdiction.",
			},
		},
	}

	out := make([]entity.DocumentCorpus, 0, len(docs))
	for _, doc := range docs {
		corpus := entity.DocumentCorpus{Filename: doc.filename}
		pageCount := len(doc.pages)

		for i, text := range doc.pages {
			tokens := len(text) / 4
			corpus.Pages = append(corpus.Pages, entity.FullPage{
				Filename:   doc.filename,
				PageNumber: i + 1,
				Text:       text,
				TokenCount: tokens,
			})
			corpus.Fragments = append(corpus.Fragments, entity.Fragment{
				ID:          fmt.Sprintf("%s#%d", doc.filename, i+1),
				Filename:    doc.filename,
				PageNumber:  i + 1,
				Section:     fmt.Sprintf("Section %d", i+1),
				SectionType: "paragraph",
				Text:        text,
				TokenCount:  tokens,
				DocPosition: float64(i) / float64(max(pageCount-1, 1)),
			})
		}
		out = append(out, corpus)
	}
	return out
}
