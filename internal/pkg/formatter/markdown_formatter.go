package formatter

import (
	"bytes"
	"fmt"

	"github.com/futig/report-engine/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(report *entity.QueryResponse, title string) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n%s\n", title, report.Answer)

	if len(report.Sources) > 0 {
		buf.WriteString("\n## Sources\n\n")
		for i, src := range report.Sources {
			fmt.Fprintf(&buf, "%d. %s\n", i+1, sourceLine(src))
		}
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
