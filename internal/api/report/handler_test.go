package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/futig/report-engine/internal/config"
	"github.com/futig/report-engine/internal/entity"
	"github.com/futig/report-engine/internal/pkg/formatter"
	"github.com/futig/report-engine/internal/pkg/validator"
	"github.com/futig/report-engine/internal/repository"
	"github.com/stretchr/testify/require"
)

type stubUsecase struct {
	resp  *entity.QueryResponse
	err   error
	stats *repository.CorpusStats
}

func (s *stubUsecase) Query(ctx context.Context, req *entity.QueryRequest) (*entity.QueryResponse, error) {
	return s.resp, s.err
}

func (s *stubUsecase) CorpusStats(ctx context.Context) (*repository.CorpusStats, error) {
	return s.stats, s.err
}

func newTestHandler(uc ReportUsecase) *Handler {
	return NewHandler(uc, validator.NewQueryValidator(config.EngineConfig{MaxPartCount: 12}), formatter.NewFactory())
}

func TestQueryHandlerReturnsJSON(t *testing.T) {
	h := newTestHandler(&stubUsecase{resp: &entity.QueryResponse{Answer: "## 1. Introduction\n\ntext", TokensUsed: 100}})

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"question":"compare the vendors"}`))
	rec := httptest.NewRecorder()

	h.Query(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp entity.QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 100, resp.TokensUsed)
	require.Contains(t, resp.Answer, "Introduction")
}

func TestQueryHandlerRejectsInvalidBody(t *testing.T) {
	h := newTestHandler(&stubUsecase{})

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.Query(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryHandlerRejectsEmptyQuestion(t *testing.T) {
	h := newTestHandler(&stubUsecase{})

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"question":"  "}`))
	rec := httptest.NewRecorder()

	h.Query(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryHandlerRejectsUnknownFormat(t *testing.T) {
	h := newTestHandler(&stubUsecase{})

	req := httptest.NewRequest(http.MethodPost, "/query?format=docx", strings.NewReader(`{"question":"q"}`))
	rec := httptest.NewRecorder()

	h.Query(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryHandlerMarkdownDownload(t *testing.T) {
	h := newTestHandler(&stubUsecase{resp: &entity.QueryResponse{Answer: "body"}})

	req := httptest.NewRequest(http.MethodPost, "/query?format=markdown", strings.NewReader(`{"question":"vendor report"}`))
	rec := httptest.NewRecorder()

	h.Query(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "report.md")
	require.Contains(t, rec.Body.String(), "# vendor report")
}

func TestQueryHandlerRejectedResponseStaysJSON(t *testing.T) {
	h := newTestHandler(&stubUsecase{resp: &entity.QueryResponse{Answer: "rejected", Rejected: true}})

	req := httptest.NewRequest(http.MethodPost, "/query?format=pdf", strings.NewReader(`{"question":"q"}`))
	rec := httptest.NewRecorder()

	h.Query(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestQueryHandlerCorpusEmpty(t *testing.T) {
	h := newTestHandler(&stubUsecase{err: entity.ErrCorpusEmpty})

	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"question":"q"}`))
	rec := httptest.NewRecorder()

	h.Query(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestCorpusStatsHandler(t *testing.T) {
	h := newTestHandler(&stubUsecase{stats: &repository.CorpusStats{Documents: 3, Pages: 9, Fragments: 9, TotalTokens: 270}})

	req := httptest.NewRequest(http.MethodGet, "/corpus/stats", nil)
	rec := httptest.NewRecorder()

	h.CorpusStats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp statsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 3, resp.Documents)
	require.Equal(t, 9, resp.Pages)
}
