// Package domain contains the core types shared across TickerMood modules.
package domain

import "time"

// Sentiment labels assigned to scored articles.
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// Article represents a persisted news article. URL is the dedup key.
// SentimentScore and SentimentLabel are jointly nil (unscored) or jointly
// set (scored) - the scoring pipeline is the only writer of those fields.
type Article struct {
	ID             int64
	Symbol         string
	Title          string
	Content        string
	URL            string
	PublishedAt    time.Time
	SentimentScore *float64
	SentimentLabel *string
	Source         string
	Author         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Scored reports whether the article has been through the scoring pipeline.
func (a *Article) Scored() bool {
	return a.SentimentScore != nil && a.SentimentLabel != nil
}

// ScoringText builds the text handed to the sentiment engine:
// title plus body when a body is present, title alone otherwise.
func (a *Article) ScoringText() string {
	if a.Content == "" {
		return a.Title
	}
	return a.Title + " " + a.Content
}

// ScoreResult is the outcome of scoring a single text.
// Score is in [-1, 1], Confidence in [0, 1], both rounded to 3 decimals.
type ScoreResult struct {
	Score      float64 `json:"score"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// ScoreUpdate assigns a sentiment result to a stored article.
type ScoreUpdate struct {
	ArticleID int64
	Score     float64
	Label     string
}

// RawArticle is an article as returned by a news provider, before
// normalization and deduplication.
type RawArticle struct {
	URL         string
	Title       string
	Content     string
	PublishedAt string // RFC3339, 'Z' suffix tolerated
	Source      string
	Author      string
}

// DailyTrend is the per-calendar-date sentiment aggregate for one symbol.
// Date is a UTC calendar date formatted as YYYY-MM-DD. Derived per query,
// never persisted.
type DailyTrend struct {
	Date         string  `json:"date"`
	Sentiment    float64 `json:"sentiment"`
	ArticleCount int     `json:"article_count"`
}

// TrendingEntry is one symbol's activity within a trending window.
type TrendingEntry struct {
	Symbol         string  `json:"symbol"`
	ArticleCount   int     `json:"article_count"`
	AvgSentiment   float64 `json:"avg_sentiment"`
	SentimentLabel string  `json:"sentiment_label"`
}

// SymbolSummary is the windowed sentiment summary for one symbol.
type SymbolSummary struct {
	Symbol                string         `json:"symbol"`
	AvgSentiment          float64        `json:"avg_sentiment"`
	TotalArticles         int            `json:"total_articles"`
	DailyTrends           []DailyTrend   `json:"daily_trends"`
	SentimentDistribution map[string]int `json:"sentiment_distribution"`
}

// Overview is the global sentiment summary across all symbols.
type Overview struct {
	TotalArticlesAnalyzed int            `json:"total_articles_analyzed"`
	AverageSentiment      float64        `json:"average_sentiment"`
	SentimentDistribution map[string]int `json:"sentiment_distribution"`
	StocksTracked         int            `json:"stocks_tracked"`
	LastUpdated           time.Time      `json:"last_updated"`
}

// Symbol is a tracked stock symbol.
type Symbol struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	Name   string `json:"name" yaml:"name"`
	Sector string `json:"sector" yaml:"sector"`
	Active bool   `json:"-" yaml:"-"`
}
