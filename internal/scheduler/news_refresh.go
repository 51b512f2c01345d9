package scheduler

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tickermood/tickermood/internal/domain"
	"github.com/tickermood/tickermood/internal/modules/ingest"
)

// SymbolLister provides the tracked symbols to refresh.
// Satisfied by *symbols.Repository.
type SymbolLister interface {
	GetActive() ([]domain.Symbol, error)
}

// NewsRefreshJob fetches fresh news for every tracked symbol. One
// symbol's fetch failure is logged and the run continues; the job only
// fails when the symbol list itself cannot be loaded.
type NewsRefreshJob struct {
	ingest   *ingest.Service
	symbols  SymbolLister
	daysBack int
	log      zerolog.Logger
}

// NewNewsRefreshJob creates a new news refresh job
func NewNewsRefreshJob(ingestSvc *ingest.Service, symbols SymbolLister, daysBack int, log zerolog.Logger) *NewsRefreshJob {
	return &NewsRefreshJob{
		ingest:   ingestSvc,
		symbols:  symbols,
		daysBack: daysBack,
		log:      log.With().Str("job", "news_refresh").Logger(),
	}
}

// Name returns the job name
func (j *NewsRefreshJob) Name() string {
	return "news_refresh"
}

// Run refreshes news for all active symbols
func (j *NewsRefreshJob) Run() error {
	list, err := j.symbols.GetActive()
	if err != nil {
		return fmt.Errorf("failed to load tracked symbols: %w", err)
	}

	failed := 0
	for _, s := range list {
		if _, err := j.ingest.RefreshSymbol(s.Symbol, j.daysBack); err != nil {
			failed++
			j.log.Warn().Err(err).Str("symbol", s.Symbol).Msg("Symbol refresh failed")
		}
	}

	j.log.Info().
		Int("symbols", len(list)).
		Int("failed", failed).
		Msg("News refresh run complete")

	return nil
}
