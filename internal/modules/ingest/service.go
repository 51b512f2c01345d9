// Package ingest pulls raw articles from a news provider and stores them
// through the article store's URL dedup path.
package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tickermood/tickermood/internal/domain"
)

// NewsClient fetches raw articles for a symbol. Satisfied by
// *newsapi.Client.
type NewsClient interface {
	FetchArticles(symbol string, daysBack int) ([]domain.RawArticle, error)
}

// ArticleWriter is the dedup insert path of the article store.
// Satisfied by *articles.Repository.
type ArticleWriter interface {
	Insert(a domain.Article) (bool, error)
}

// Result summarizes one refresh run.
type Result struct {
	Symbol  string `json:"symbol"`
	Fetched int    `json:"total_articles_fetched"`
	Created int    `json:"new_articles_found"`
}

// Service ingests news articles
type Service struct {
	client NewsClient
	store  ArticleWriter
	log    zerolog.Logger
}

// NewService creates a new ingest service
func NewService(client NewsClient, store ArticleWriter, log zerolog.Logger) *Service {
	return &Service{
		client: client,
		store:  store,
		log:    log.With().Str("component", "ingest").Logger(),
	}
}

// RefreshSymbol fetches recent news for a symbol and stores the articles.
// URLs already present are skipped by the store's dedup insert. A raw
// article with a malformed published_at keeps the current time instead of
// being rejected.
func (s *Service) RefreshSymbol(symbol string, daysBack int) (Result, error) {
	symbol = strings.ToUpper(symbol)
	log := s.log.With().
		Str("run_id", uuid.New().String()).
		Str("symbol", symbol).
		Logger()

	raw, err := s.client.FetchArticles(symbol, daysBack)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch news for %s: %w", symbol, err)
	}

	result := Result{Symbol: symbol, Fetched: len(raw)}

	for _, r := range raw {
		if r.URL == "" || r.Title == "" {
			continue
		}

		created, err := s.store.Insert(domain.Article{
			Symbol:      symbol,
			Title:       r.Title,
			Content:     r.Content,
			URL:         r.URL,
			PublishedAt: parsePublishedAt(r.PublishedAt, log),
			Source:      r.Source,
			Author:      r.Author,
		})
		if err != nil {
			return result, fmt.Errorf("failed to store article for %s: %w", symbol, err)
		}

		if created {
			result.Created++
		}
	}

	log.Info().
		Int("fetched", result.Fetched).
		Int("created", result.Created).
		Msg("News refresh complete")

	return result, nil
}

// parsePublishedAt parses an RFC3339 timestamp ('Z' suffix included).
// Malformed input substitutes the current time; the article is kept.
func parsePublishedAt(raw string, log zerolog.Logger) time.Time {
	if raw == "" {
		return time.Now().UTC()
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		log.Debug().Str("published_at", raw).Msg("Malformed timestamp, using current time")
		return time.Now().UTC()
	}

	return t.UTC()
}
