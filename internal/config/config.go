package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/report-engine/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	EmbeddingConnectorCfg  EmbeddingConnectorConfig  `envPrefix:"EMBEDDING_"`
	GenerationConnectorCfg GenerationConnectorConfig `envPrefix:"GENERATION_"`
	TokenizerConnectorCfg  TokenizerConnectorConfig  `envPrefix:"TOKENIZER_"`

	// Engine tuning
	Engine EngineConfig `envPrefix:"ENGINE_"`

	// Scoring weights and topic tables (loaded from JSON file)
	Scoring ScoringProfile

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS,notEmpty"`

	// Environment (set from flag, not from env var)
	Environment string
}

type EmbeddingConnectorConfig struct {
	HTTPClientConfig
	EmbedEndpoint string               `env:"EMBED_ENDPOINT,notEmpty"`
	CacheTTL      time.Duration        `env:"CACHE_TTL" envDefault:"10m"`
	Retry         pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type GenerationConnectorConfig struct {
	HTTPClientConfig
	GenerateEndpoint string               `env:"GENERATE_ENDPOINT,notEmpty"`
	Retry            pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type TokenizerConnectorConfig struct {
	HTTPClientConfig
	CountEndpoint string `env:"COUNT_ENDPOINT,notEmpty"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT,notEmpty"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT,notEmpty"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE,notEmpty"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT,notEmpty"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT,notEmpty"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL,notEmpty"`
}

// EngineConfig holds the model limits and retrieval tuning knobs
type EngineConfig struct {
	// Model limits
	ModelContextWindow   int `env:"MODEL_CONTEXT_WINDOW" envDefault:"128000"`
	ModelMaxOutputTokens int `env:"MODEL_MAX_OUTPUT_TOKENS" envDefault:"8192"`
	RequestTokenCeiling  int `env:"REQUEST_TOKEN_CEILING" envDefault:"110000"`

	// Output reservation
	OutputBufferRatio  float64 `env:"OUTPUT_BUFFER_RATIO" envDefault:"1.3"`
	SafetyMarginTokens int     `env:"SAFETY_MARGIN_TOKENS" envDefault:"2000"`
	MinOutputTokens    int     `env:"MIN_OUTPUT_TOKENS" envDefault:"256"`

	// Retrieval sizing
	TokensPerPage      int `env:"TOKENS_PER_PAGE" envDefault:"600"`
	FragmentsPerPage   int `env:"FRAGMENTS_PER_PAGE" envDefault:"4"`
	ChunkLimitFloor    int `env:"CHUNK_LIMIT_FLOOR" envDefault:"8"`
	MaxContextTokens   int `env:"MAX_CONTEXT_TOKENS" envDefault:"60000"`
	PageBandMin        int `env:"PAGE_BAND_MIN" envDefault:"4"`
	PageBandMax        int `env:"PAGE_BAND_MAX" envDefault:"12"`
	PageBandMinDetail  int `env:"PAGE_BAND_MIN_DETAIL" envDefault:"8"`
	PageBandMaxDetail  int `env:"PAGE_BAND_MAX_DETAIL" envDefault:"25"`

	// Report defaults
	DefaultSectionCount  int `env:"DEFAULT_SECTION_COUNT" envDefault:"5"`
	DefaultTokensPerPart int `env:"DEFAULT_TOKENS_PER_PART" envDefault:"800"`
	MaxPartCount         int `env:"MAX_PART_COUNT" envDefault:"12"`

	// Generation pacing: one in-flight request per interval
	RateLimitInterval time.Duration `env:"RATE_LIMIT_INTERVAL" envDefault:"20s"`

	// Pricing, per 1000 tokens
	PromptCostPer1K     float64 `env:"PROMPT_COST_PER_1K" envDefault:"0.0025"`
	CompletionCostPer1K float64 `env:"COMPLETION_COST_PER_1K" envDefault:"0.01"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Load scoring profile from JSON file
	if err := loadScoringProfile(cfg); err != nil {
		return nil, fmt.Errorf("load scoring profile: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []string

	e := cfg.Engine

	if e.ModelContextWindow < 1024 {
		errs = append(errs, fmt.Sprintf("ENGINE_MODEL_CONTEXT_WINDOW must be at least 1024, got %d", e.ModelContextWindow))
	}

	if e.ModelMaxOutputTokens < 1 || e.ModelMaxOutputTokens >= e.ModelContextWindow {
		errs = append(errs, fmt.Sprintf("ENGINE_MODEL_MAX_OUTPUT_TOKENS must be between 1 and the context window, got %d", e.ModelMaxOutputTokens))
	}

	if e.RequestTokenCeiling < 1 || e.RequestTokenCeiling > e.ModelContextWindow {
		errs = append(errs, fmt.Sprintf("ENGINE_REQUEST_TOKEN_CEILING must be between 1 and the context window, got %d", e.RequestTokenCeiling))
	}

	if e.OutputBufferRatio < 1.0 || e.OutputBufferRatio > 3.0 {
		errs = append(errs, fmt.Sprintf("ENGINE_OUTPUT_BUFFER_RATIO must be between 1.0 and 3.0, got %.2f", e.OutputBufferRatio))
	}

	if e.PageBandMin < 1 || e.PageBandMax < e.PageBandMin {
		errs = append(errs, fmt.Sprintf("page band [%d, %d] is invalid", e.PageBandMin, e.PageBandMax))
	}

	if e.PageBandMinDetail < 1 || e.PageBandMaxDetail < e.PageBandMinDetail {
		errs = append(errs, fmt.Sprintf("detail page band [%d, %d] is invalid", e.PageBandMinDetail, e.PageBandMaxDetail))
	}

	if e.MaxPartCount < 1 || e.MaxPartCount > 50 {
		errs = append(errs, fmt.Sprintf("ENGINE_MAX_PART_COUNT must be between 1 and 50, got %d", e.MaxPartCount))
	}

	// Validate Database configuration
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errs = append(errs, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", errs[0])
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
