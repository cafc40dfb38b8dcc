package formatter

import (
	"testing"

	"github.com/futig/report-engine/internal/entity"
	"github.com/stretchr/testify/require"
)

func sampleReport() *entity.QueryResponse {
	return &entity.QueryResponse{
		Answer: "## 1. Introduction\n\nBody text.",
		Sources: []entity.Source{
			{Filename: "a.pdf", PageNumber: 3, Section: "Findings"},
			{Filename: "b.pdf", PageNumber: 1},
		},
	}
}

func TestFactoryCreate(t *testing.T) {
	factory := NewFactory()

	md, err := factory.Create(entity.FormatMarkdown)
	require.NoError(t, err)
	require.Equal(t, ".md", md.FileExtension())

	pdf, err := factory.Create(entity.FormatPDF)
	require.NoError(t, err)
	require.Equal(t, ".pdf", pdf.FileExtension())

	_, err = factory.Create(entity.ResultFormat("docx"))
	require.Error(t, err)
}

func TestMarkdownFormat(t *testing.T) {
	data, err := NewMarkdownFormatter().Format(sampleReport(), "Vendor comparison")
	require.NoError(t, err)

	out := string(data)
	require.Contains(t, out, "# Vendor comparison")
	require.Contains(t, out, "## 1. Introduction")
	require.Contains(t, out, "## Sources")
	require.Contains(t, out, "a.pdf, page 3 (Findings)")
	require.Contains(t, out, "b.pdf, page 1")
}

func TestPDFFormatProducesDocument(t *testing.T) {
	data, err := NewPDFFormatter().Format(sampleReport(), "Vendor comparison")
	require.NoError(t, err)
	require.NotEmpty(t, data)
	require.Equal(t, "%PDF", string(data[:4]))
}

func TestSourceLine(t *testing.T) {
	require.Equal(t, "a.pdf, page 3 (Findings)", sourceLine(entity.Source{Filename: "a.pdf", PageNumber: 3, Section: "Findings"}))
	require.Equal(t, "b.pdf", sourceLine(entity.Source{Filename: "b.pdf"}))
}
