package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/futig/report-engine/internal/entity"
	"github.com/futig/report-engine/internal/pkg/formatter"
	"github.com/futig/report-engine/internal/pkg/logger"
	"github.com/futig/report-engine/internal/pkg/response"
	"github.com/futig/report-engine/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase    ReportUsecase
	validator  *validator.Validator
	formatters *formatter.Factory
}

func NewHandler(usecase ReportUsecase, validator *validator.Validator, formatters *formatter.Factory) *Handler {
	return &Handler{
		usecase:    usecase,
		validator:  validator,
		formatters: formatters,
	}
}

// Query handles POST /query. The optional "format" query parameter selects
// the result document: json (default), markdown or pdf. A query runs its
// generation calls sequentially, so the response can take several minutes.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Query")

	var req entity.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.ValidateQuery(&req); err != nil {
		ctxzap.Warn(ctx, "query validation failed", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	format := entity.ResultFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = entity.FormatJSON
	}
	if err := h.checkFormat(format); err != nil {
		ctxzap.Warn(ctx, "unsupported result format", zap.String("format", string(format)))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctxzap.Info(ctx, "processing query",
		zap.Int("question_length", len(req.Question)),
		zap.String("language", req.Language),
		zap.String("format", string(format)),
	)

	resp, err := h.usecase.Query(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	// Rejected queries always come back as JSON: there is nothing worth
	// rendering into a document.
	if format == entity.FormatJSON || resp.Rejected {
		response.Success(w, resp)
		return
	}

	h.respondDocument(ctx, w, resp, req.Question, format)
}

// CorpusStats handles GET /corpus/stats
func (h *Handler) CorpusStats(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CorpusStats")

	stats, err := h.usecase.CorpusStats(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toStatsResponse(stats))
}

func (h *Handler) respondDocument(ctx context.Context, w http.ResponseWriter, resp *entity.QueryResponse, title string, format entity.ResultFormat) {
	fmtr, err := h.formatters.Create(format)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := fmtr.Format(resp, title)
	if err != nil {
		ctxzap.Error(ctx, "failed to format report", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to format report")
		return
	}

	response.File(w, fmtr.ContentType(), "report"+fmtr.FileExtension(), data)
}

func (h *Handler) checkFormat(format entity.ResultFormat) error {
	switch format {
	case entity.FormatJSON, entity.FormatMarkdown, entity.FormatPDF:
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "query failed", zap.Error(err))

	switch {
	case errors.Is(err, entity.ErrMissingField), errors.Is(err, entity.ErrInvalidParameter):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrCorpusEmpty):
		response.Error(w, http.StatusConflict, "document corpus is empty")
	default:
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
