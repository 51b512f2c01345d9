// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tickermood/tickermood/internal/domain"
)

// Config holds application configuration
type Config struct {
	DataDir           string // Base directory for the database (always absolute)
	DatabasePath      string
	Port              int
	LogLevel          string
	DevMode           bool
	NewsAPIKey        string
	SentimentStrategy string // vader, polarity or transformer
	InferenceURL      string // Transformer inference service, used when strategy is "transformer"
	SymbolsFile       string // YAML file with tracked symbols
	ScoreBatchSize    int    // Articles per scoring pipeline batch
	NewsDaysBack      int    // Window for scheduled news refreshes
	RefreshSchedule   string // Cron schedule for news refresh
	ScoreSchedule     string // Cron schedule for backlog scoring
}

// Load reads configuration from environment variables.
// A .env file is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("TICKERMOOD_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:           absDataDir,
		DatabasePath:      filepath.Join(absDataDir, "tickermood.db"),
		Port:              getEnvAsInt("PORT", 8080),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DevMode:           getEnvAsBool("DEV_MODE", false),
		NewsAPIKey:        getEnv("NEWS_API_KEY", ""),
		SentimentStrategy: getEnv("SENTIMENT_STRATEGY", "vader"),
		InferenceURL:      getEnv("INFERENCE_URL", "http://localhost:9000"),
		SymbolsFile:       getEnv("SYMBOLS_FILE", "symbols.yaml"),
		ScoreBatchSize:    getEnvAsInt("SCORE_BATCH_SIZE", 50),
		NewsDaysBack:      getEnvAsInt("NEWS_DAYS_BACK", 3),
		RefreshSchedule:   getEnv("REFRESH_SCHEDULE", "@every 30m"),
		ScoreSchedule:     getEnv("SCORE_SCHEDULE", "@every 5m"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.ScoreBatchSize <= 0 {
		return fmt.Errorf("score batch size must be positive, got %d", c.ScoreBatchSize)
	}
	// NewsAPIKey is optional: without it the scheduled refresh is skipped
	// and only the scoring and aggregation paths run.
	return nil
}

// symbolsFile mirrors the YAML layout of the tracked-symbols file.
type symbolsFile struct {
	Symbols []domain.Symbol `yaml:"symbols"`
}

// LoadSymbols reads the tracked symbols from the configured YAML file.
// A missing file is not an error - it returns an empty list so the service
// can run with manually refreshed symbols only.
func (c *Config) LoadSymbols() ([]domain.Symbol, error) {
	data, err := os.ReadFile(c.SymbolsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read symbols file: %w", err)
	}

	var f symbolsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse symbols file: %w", err)
	}

	for i := range f.Symbols {
		f.Symbols[i].Active = true
	}

	return f.Symbols, nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
