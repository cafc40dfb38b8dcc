package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/report-engine/internal/api"
	reportapi "github.com/futig/report-engine/internal/api/report"
	"github.com/futig/report-engine/internal/config"
	"github.com/futig/report-engine/internal/entity"
	"github.com/futig/report-engine/internal/integration/embedding"
	"github.com/futig/report-engine/internal/integration/generation"
	"github.com/futig/report-engine/internal/integration/tokenizer"
	"github.com/futig/report-engine/internal/pkg/formatter"
	"github.com/futig/report-engine/internal/pkg/validator"
	"github.com/futig/report-engine/internal/repository"
	"github.com/futig/report-engine/internal/usecase/report"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Initialize external service connectors (with mock support)
	var embeddingConnector report.EmbeddingConnector
	var generationConnector report.GenerationConnector
	var tokenizerConnector report.TokenizerConnector

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		embeddingConnector = embedding.NewMockConnector(logger)
		generationConnector = generation.NewMockConnector(logger)
		tokenizerConnector = tokenizer.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		embeddingConnector = embedding.NewConnector(cfg.EmbeddingConnectorCfg, logger)
		generationConnector = generation.NewConnector(cfg.GenerationConnectorCfg, logger)
		tokenizerConnector = tokenizer.NewConnector(cfg.TokenizerConnectorCfg, logger)
	}

	// Initialize the corpus repository. Mock mode skips the database and
	// serves a small built-in corpus instead.
	var corpusRepo repository.CorpusRepository
	var db dbCloser

	if cfg.EnableMocks {
		docs, err := embedDemoCorpus(ctx, embeddingConnector)
		if err != nil {
			return nil, fmt.Errorf("embed demo corpus: %w", err)
		}
		corpusRepo = repository.NewCorpusMemory(docs)
		logger.Info("Using in-memory demo corpus")
	} else {
		pool, err := setupDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}
		db = pool

		logger.Info("Running database migrations")
		if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("Database migrations completed successfully")

		corpusRepo = repository.NewCorpusPostgres(pool)
	}
	logger.Info("Repositories initialized")

	// Initialize validators
	queryValidator := validator.NewQueryValidator(cfg.Engine)
	logger.Info("Validators initialized")

	// Initialize use cases
	reportUC := report.NewUsecase(
		cfg.Engine,
		cfg.Scoring,
		corpusRepo,
		embeddingConnector,
		generationConnector,
		tokenizerConnector,
		logger,
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	reportHandler := reportapi.NewHandler(reportUC, queryValidator, formatter.NewFactory())
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(reportHandler, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server. Write timeout must outlast the slowest report
	// query, which holds the connection across sequential generation calls.
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}

// embedDemoCorpus fills the demo corpus fragments with vectors from the
// active embedding backend so similarity search works in mock mode.
func embedDemoCorpus(ctx context.Context, embedder report.EmbeddingConnector) ([]entity.DocumentCorpus, error) {
	docs := repository.DemoCorpus()
	for d := range docs {
		for f := range docs[d].Fragments {
			vec, err := embedder.Embed(ctx, docs[d].Fragments[f].Text)
			if err != nil {
				return nil, err
			}
			docs[d].Fragments[f].Embedding = vec
		}
	}
	return docs, nil
}
