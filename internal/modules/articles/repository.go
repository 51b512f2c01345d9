// Package articles provides the persisted article store.
// It owns the articles table exclusively: ingestion inserts through the
// URL dedup path and the scoring pipeline updates sentiment fields.
package articles

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"

	"github.com/tickermood/tickermood/internal/database"
	"github.com/tickermood/tickermood/internal/domain"
)

// maxTitleLen truncates overlong provider titles before persisting.
const maxTitleLen = 500

// Repository handles article persistence
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new article repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "articles").Logger(),
	}
}

// Insert stores a new article. Articles are deduplicated by URL: inserting
// an existing URL is a no-op. Returns true when a row was created.
func (r *Repository) Insert(a domain.Article) (bool, error) {
	now := time.Now().Unix()

	title := a.Title
	if runes := []rune(title); len(runes) > maxTitleLen {
		title = string(runes[:maxTitleLen])
	}

	var content interface{}
	if a.Content != "" {
		content = a.Content
	}

	result, err := r.db.Exec(`
		INSERT INTO articles
		(symbol, title, content, url, published_at, source, author, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO NOTHING
	`,
		a.Symbol,
		title,
		content,
		a.URL,
		a.PublishedAt.Unix(),
		a.Source,
		a.Author,
		now,
		now,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert article: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}

	return rows == 1, nil
}

// GetUnscored returns up to limit articles without a sentiment score.
// No ordering is guaranteed; any unscored article is eligible.
func (r *Repository) GetUnscored(limit int) ([]domain.Article, error) {
	rows, err := r.db.Query(`
		SELECT id, symbol, title, content, url, published_at, source, author
		FROM articles
		WHERE sentiment_score IS NULL
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unscored articles: %w", err)
	}
	defer rows.Close()

	var result []domain.Article
	for rows.Next() {
		var a domain.Article
		var content sql.NullString
		var publishedAt int64

		if err := rows.Scan(&a.ID, &a.Symbol, &a.Title, &content, &a.URL, &publishedAt, &a.Source, &a.Author); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}

		a.Content = content.String
		a.PublishedAt = time.Unix(publishedAt, 0).UTC()
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate unscored articles: %w", err)
	}

	return result, nil
}

// ApplyScores assigns sentiment results in a single transaction. Score and
// label are written together so the jointly-set invariant holds, and only
// unscored rows are touched. Returns the number of rows updated.
func (r *Repository) ApplyScores(updates []domain.ScoreUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	now := time.Now().Unix()
	updated := 0

	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			UPDATE articles
			SET sentiment_score = ?, sentiment_label = ?, updated_at = ?
			WHERE id = ? AND sentiment_score IS NULL
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare score update: %w", err)
		}
		defer stmt.Close()

		for _, u := range updates {
			result, err := stmt.Exec(u.Score, u.Label, now, u.ArticleID)
			if err != nil {
				return fmt.Errorf("failed to update article %d: %w", u.ArticleID, err)
			}
			rows, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to read update result: %w", err)
			}
			updated += int(rows)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return updated, nil
}

// ScoredScores returns the sentiment scores of one symbol's articles
// published since the window start.
func (r *Repository) ScoredScores(symbol string, since time.Time) ([]float64, error) {
	query, args, err := scoredWindow(symbol, since).
		Columns("sentiment_score").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build scores query: %w", err)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	var scores []float64
	for rows.Next() {
		var s float64
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scores: %w", err)
	}

	return scores, nil
}

// DailyTrends groups one symbol's scored articles by UTC calendar date,
// ascending, averaging the scores within each date.
func (r *Repository) DailyTrends(symbol string, since time.Time) ([]domain.DailyTrend, error) {
	query, args, err := scoredWindow(symbol, since).
		Columns(
			"date(published_at, 'unixepoch') AS day",
			"AVG(sentiment_score)",
			"COUNT(*)",
		).
		GroupBy("day").
		OrderBy("day ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build daily trends query: %w", err)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily trends: %w", err)
	}
	defer rows.Close()

	var trends []domain.DailyTrend
	for rows.Next() {
		var t domain.DailyTrend
		var avg float64
		if err := rows.Scan(&t.Date, &avg, &t.ArticleCount); err != nil {
			return nil, fmt.Errorf("failed to scan daily trend: %w", err)
		}
		t.Sentiment = round3(avg)
		trends = append(trends, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily trends: %w", err)
	}

	return trends, nil
}

// LabelDistribution counts scored articles per sentiment label. An empty
// symbol spans all symbols; a zero since spans all time. A null label is
// counted as neutral - persisted data should never have one, but the read
// path tolerates it.
func (r *Repository) LabelDistribution(symbol string, since time.Time) (map[string]int, error) {
	builder := sq.Select("COALESCE(sentiment_label, 'neutral')", "COUNT(*)").
		From("articles").
		Where("sentiment_score IS NOT NULL").
		GroupBy("COALESCE(sentiment_label, 'neutral')")

	if symbol != "" {
		builder = builder.Where(sq.Eq{"symbol": symbol})
	}
	if !since.IsZero() {
		builder = builder.Where(sq.GtOrEq{"published_at": since.Unix()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build distribution query: %w", err)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query distribution: %w", err)
	}
	defer rows.Close()

	dist := make(map[string]int)
	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, fmt.Errorf("failed to scan distribution row: %w", err)
		}
		dist[label] += count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate distribution: %w", err)
	}

	return dist, nil
}

// SymbolActivity groups scored articles published since the window start
// by symbol, ranked by article count descending with symbol ascending as
// the deterministic tie-break. The ranking is unbounded; callers truncate.
func (r *Repository) SymbolActivity(since time.Time) ([]domain.TrendingEntry, error) {
	query, args, err := sq.Select("symbol", "COUNT(*)", "AVG(sentiment_score)").
		From("articles").
		Where("sentiment_score IS NOT NULL").
		Where(sq.GtOrEq{"published_at": since.Unix()}).
		GroupBy("symbol").
		OrderBy("COUNT(*) DESC", "symbol ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build activity query: %w", err)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbol activity: %w", err)
	}
	defer rows.Close()

	var entries []domain.TrendingEntry
	for rows.Next() {
		var e domain.TrendingEntry
		var avg sql.NullFloat64

		if err := rows.Scan(&e.Symbol, &e.ArticleCount, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}

		if avg.Valid {
			e.AvgSentiment = round3(avg.Float64)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate symbol activity: %w", err)
	}

	return entries, nil
}

// GlobalStats holds store-wide counts over scored articles.
type GlobalStats struct {
	TotalScored     int
	AvgSentiment    float64
	DistinctSymbols int
}

// GetGlobalStats returns store-wide aggregates over all scored articles.
// With no scored articles it returns zeroed stats, never an error.
func (r *Repository) GetGlobalStats() (GlobalStats, error) {
	var stats GlobalStats
	var avg sql.NullFloat64

	err := r.db.QueryRow(`
		SELECT COUNT(*), AVG(sentiment_score), COUNT(DISTINCT symbol)
		FROM articles
		WHERE sentiment_score IS NOT NULL
	`).Scan(&stats.TotalScored, &avg, &stats.DistinctSymbols)
	if err != nil {
		return GlobalStats{}, fmt.Errorf("failed to query global stats: %w", err)
	}

	if avg.Valid {
		stats.AvgSentiment = round3(avg.Float64)
	}

	return stats, nil
}

// RecentScored returns one symbol's scored articles in the window, newest
// first, optionally filtered by label.
func (r *Repository) RecentScored(symbol string, since time.Time, limit int, labelFilter string) ([]domain.Article, error) {
	builder := scoredWindow(symbol, since).
		Columns("id", "title", "url", "published_at", "sentiment_score", "sentiment_label", "source").
		OrderBy("published_at DESC").
		Limit(uint64(limit))

	if labelFilter != "" {
		builder = builder.Where(sq.Eq{"sentiment_label": labelFilter})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build recent articles query: %w", err)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent articles: %w", err)
	}
	defer rows.Close()

	var result []domain.Article
	for rows.Next() {
		var a domain.Article
		var publishedAt int64
		var score float64
		var label sql.NullString

		if err := rows.Scan(&a.ID, &a.Title, &a.URL, &publishedAt, &score, &label, &a.Source); err != nil {
			return nil, fmt.Errorf("failed to scan recent article: %w", err)
		}

		a.Symbol = symbol
		a.PublishedAt = time.Unix(publishedAt, 0).UTC()
		a.SentimentScore = &score
		labelVal := label.String
		if labelVal == "" {
			labelVal = domain.LabelNeutral
		}
		a.SentimentLabel = &labelVal
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recent articles: %w", err)
	}

	return result, nil
}

// scoredWindow is the shared filter for windowed per-symbol read queries:
// one symbol, published since the window start, scored only.
func scoredWindow(symbol string, since time.Time) sq.SelectBuilder {
	return sq.Select().
		From("articles").
		Where(sq.Eq{"symbol": symbol}).
		Where(sq.GtOrEq{"published_at": since.Unix()}).
		Where("sentiment_score IS NOT NULL")
}
