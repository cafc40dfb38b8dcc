package report

import (
	"context"

	"github.com/futig/report-engine/internal/entity"
	"github.com/futig/report-engine/internal/repository"
)

type ReportUsecase interface {
	Query(ctx context.Context, req *entity.QueryRequest) (*entity.QueryResponse, error)
	CorpusStats(ctx context.Context) (*repository.CorpusStats, error)
}
