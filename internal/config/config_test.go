package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TICKERMOOD_DATA_DIR", t.TempDir())

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "vader", cfg.SentimentStrategy)
	assert.Equal(t, 50, cfg.ScoreBatchSize)
	assert.Equal(t, 3, cfg.NewsDaysBack)
	assert.Equal(t, "@every 30m", cfg.RefreshSchedule)
	assert.True(t, filepath.IsAbs(cfg.DatabasePath))
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TICKERMOOD_DATA_DIR", t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("SENTIMENT_STRATEGY", "transformer")
	t.Setenv("INFERENCE_URL", "http://inference:9000")
	t.Setenv("SCORE_BATCH_SIZE", "10")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "transformer", cfg.SentimentStrategy)
	assert.Equal(t, "http://inference:9000", cfg.InferenceURL)
	assert.Equal(t, 10, cfg.ScoreBatchSize)
}

func TestLoad_RejectsInvalidBatchSize(t *testing.T) {
	t.Setenv("TICKERMOOD_DATA_DIR", t.TempDir())
	t.Setenv("SCORE_BATCH_SIZE", "0")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoadSymbols(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "symbols.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`symbols:
  - symbol: AAPL
    name: Apple Inc.
    sector: Technology
  - symbol: JPM
    name: JPMorgan Chase
    sector: Financial Services
`), 0644))

	cfg := &Config{SymbolsFile: path}

	list, err := cfg.LoadSymbols()

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "AAPL", list[0].Symbol)
	assert.Equal(t, "Technology", list[0].Sector)
	assert.True(t, list[0].Active)
}

func TestLoadSymbols_MissingFileIsEmpty(t *testing.T) {
	cfg := &Config{SymbolsFile: filepath.Join(t.TempDir(), "nope.yaml")}

	list, err := cfg.LoadSymbols()

	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLoadSymbols_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbols.yaml")
	require.NoError(t, os.WriteFile(path, []byte("symbols: [unclosed"), 0644))

	cfg := &Config{SymbolsFile: path}

	_, err := cfg.LoadSymbols()

	assert.Error(t, err)
}
