package formatter

import (
	"fmt"
	"strings"

	"github.com/futig/report-engine/internal/entity"
)

// Formatter renders a finished report into a downloadable document.
type Formatter interface {
	Format(report *entity.QueryResponse, title string) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// sourceLine renders one citation entry.
func sourceLine(s entity.Source) string {
	var b strings.Builder
	b.WriteString(s.Filename)
	if s.PageNumber > 0 {
		fmt.Fprintf(&b, ", page %d", s.PageNumber)
	}
	if s.Section != "" {
		fmt.Fprintf(&b, " (%s)", s.Section)
	}
	return b.String()
}
