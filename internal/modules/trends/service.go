// Package trends computes time-windowed sentiment aggregates over the
// article store. All operations are read-only and run at query time;
// nothing is materialized.
package trends

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/tickermood/tickermood/internal/domain"
	"github.com/tickermood/tickermood/internal/modules/articles"
)

// Group-average thresholds for the trending presentation label. These are
// independent of the per-article thresholds used during scoring.
const (
	trendingPositiveThreshold = 0.1
	trendingNegativeThreshold = -0.1
)

// ArticleReader is the read-side of the article store used for
// aggregation. Satisfied by *articles.Repository.
type ArticleReader interface {
	ScoredScores(symbol string, since time.Time) ([]float64, error)
	DailyTrends(symbol string, since time.Time) ([]domain.DailyTrend, error)
	LabelDistribution(symbol string, since time.Time) (map[string]int, error)
	SymbolActivity(since time.Time) ([]domain.TrendingEntry, error)
	GetGlobalStats() (articles.GlobalStats, error)
	RecentScored(symbol string, since time.Time, limit int, labelFilter string) ([]domain.Article, error)
}

// Service computes sentiment aggregates
type Service struct {
	reader ArticleReader
	log    zerolog.Logger
}

// NewService creates a new trends service
func NewService(reader ArticleReader, log zerolog.Logger) *Service {
	return &Service{
		reader: reader,
		log:    log.With().Str("component", "trends").Logger(),
	}
}

// Summarize aggregates one symbol's scored articles published in the last
// days. Returns domain.ErrNoData when the window holds no scored articles;
// a result is always fully populated, never partial.
func (s *Service) Summarize(symbol string, days int) (*domain.SymbolSummary, error) {
	symbol = strings.ToUpper(symbol)
	since := time.Now().Add(-time.Duration(days) * 24 * time.Hour)

	scores, err := s.reader.ScoredScores(symbol, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load scores for %s: %w", symbol, err)
	}

	if len(scores) == 0 {
		return nil, fmt.Errorf("summarize %s over %dd: %w", symbol, days, domain.ErrNoData)
	}

	daily, err := s.reader.DailyTrends(symbol, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily trends for %s: %w", symbol, err)
	}

	dist, err := s.reader.LabelDistribution(symbol, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load distribution for %s: %w", symbol, err)
	}

	return &domain.SymbolSummary{
		Symbol:                symbol,
		AvgSentiment:          round3(stat.Mean(scores, nil)),
		TotalArticles:         len(scores),
		DailyTrends:           daily,
		SentimentDistribution: dist,
	}, nil
}

// Trending ranks symbols by article count over the last hours, truncated
// to limit after ranking. Each entry's presentation label comes from the
// group average. An empty window yields an empty list, not an error.
func (s *Service) Trending(hours, limit int) ([]domain.TrendingEntry, error) {
	since := time.Now().Add(-time.Duration(hours) * time.Hour)

	entries, err := s.reader.SymbolActivity(since)
	if err != nil {
		return nil, fmt.Errorf("failed to load symbol activity: %w", err)
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	for i := range entries {
		entries[i].SentimentLabel = trendingLabel(entries[i].AvgSentiment)
	}

	return entries, nil
}

// Overview returns the global sentiment summary. It never fails with
// no-data: an empty store yields zeroed fields.
func (s *Service) Overview() (*domain.Overview, error) {
	stats, err := s.reader.GetGlobalStats()
	if err != nil {
		return nil, fmt.Errorf("failed to load global stats: %w", err)
	}

	dist, err := s.reader.LabelDistribution("", time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to load global distribution: %w", err)
	}

	return &domain.Overview{
		TotalArticlesAnalyzed: stats.TotalScored,
		AverageSentiment:      stats.AvgSentiment,
		SentimentDistribution: dist,
		StocksTracked:         stats.DistinctSymbols,
		LastUpdated:           time.Now().UTC(),
	}, nil
}

// RecentArticles returns one symbol's scored articles in the window,
// newest first. Returns domain.ErrNoData when nothing matches.
func (s *Service) RecentArticles(symbol string, days, limit int, labelFilter string) ([]domain.Article, error) {
	symbol = strings.ToUpper(symbol)
	since := time.Now().Add(-time.Duration(days) * 24 * time.Hour)

	result, err := s.reader.RecentScored(symbol, since, limit, labelFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to load articles for %s: %w", symbol, err)
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("articles for %s over %dd: %w", symbol, days, domain.ErrNoData)
	}

	return result, nil
}

func trendingLabel(avg float64) string {
	switch {
	case avg > trendingPositiveThreshold:
		return domain.LabelPositive
	case avg < trendingNegativeThreshold:
		return domain.LabelNegative
	default:
		return domain.LabelNeutral
	}
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
