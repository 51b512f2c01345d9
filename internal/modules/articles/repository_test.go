package articles

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickermood/tickermood/internal/database"
	"github.com/tickermood/tickermood/internal/domain"
)

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate())

	return NewRepository(db.Conn(), zerolog.Nop())
}

func testArticle(symbol, url string, publishedAt time.Time) domain.Article {
	return domain.Article{
		Symbol:      symbol,
		Title:       "Quarterly results for " + symbol,
		Content:     "Body text.",
		URL:         url,
		PublishedAt: publishedAt,
		Source:      "Example Wire",
		Author:      "Jane Reporter",
	}
}

func TestRepository_Insert_DeduplicatesByURL(t *testing.T) {
	repo := setupTestRepo(t)
	now := time.Now().UTC()

	created, err := repo.Insert(testArticle("AAPL", "https://example.com/a", now))
	require.NoError(t, err)
	assert.True(t, created)

	// Same URL, even under a different symbol, is a no-op.
	dup := testArticle("MSFT", "https://example.com/a", now)
	created, err = repo.Insert(dup)
	require.NoError(t, err)
	assert.False(t, created)

	unscored, err := repo.GetUnscored(10)
	require.NoError(t, err)
	require.Len(t, unscored, 1)
	assert.Equal(t, "AAPL", unscored[0].Symbol)
}

func TestRepository_Insert_TruncatesLongTitle(t *testing.T) {
	repo := setupTestRepo(t)

	a := testArticle("AAPL", "https://example.com/long", time.Now().UTC())
	a.Title = strings.Repeat("x", maxTitleLen+100)

	created, err := repo.Insert(a)
	require.NoError(t, err)
	require.True(t, created)

	unscored, err := repo.GetUnscored(1)
	require.NoError(t, err)
	require.Len(t, unscored, 1)
	assert.Len(t, []rune(unscored[0].Title), maxTitleLen)
}

func TestRepository_GetUnscored(t *testing.T) {
	repo := setupTestRepo(t)
	now := time.Now().UTC()

	for i, url := range []string{
		"https://example.com/1",
		"https://example.com/2",
		"https://example.com/3",
	} {
		_, err := repo.Insert(testArticle("AAPL", url, now.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	unscored, err := repo.GetUnscored(2)
	require.NoError(t, err)
	assert.Len(t, unscored, 2)

	unscored, err = repo.GetUnscored(10)
	require.NoError(t, err)
	assert.Len(t, unscored, 3)
	for _, a := range unscored {
		assert.False(t, a.Scored())
	}
}

func TestRepository_ApplyScores(t *testing.T) {
	repo := setupTestRepo(t)
	now := time.Now().UTC()

	_, err := repo.Insert(testArticle("AAPL", "https://example.com/1", now))
	require.NoError(t, err)
	_, err = repo.Insert(testArticle("AAPL", "https://example.com/2", now))
	require.NoError(t, err)

	unscored, err := repo.GetUnscored(10)
	require.NoError(t, err)
	require.Len(t, unscored, 2)

	updates := []domain.ScoreUpdate{
		{ArticleID: unscored[0].ID, Score: 0.5, Label: domain.LabelPositive},
		{ArticleID: unscored[1].ID, Score: -0.3, Label: domain.LabelNegative},
	}

	updated, err := repo.ApplyScores(updates)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	remaining, err := repo.GetUnscored(10)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestRepository_ApplyScores_SkipsAlreadyScored(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Insert(testArticle("AAPL", "https://example.com/1", time.Now().UTC()))
	require.NoError(t, err)

	unscored, err := repo.GetUnscored(1)
	require.NoError(t, err)
	require.Len(t, unscored, 1)
	id := unscored[0].ID

	updated, err := repo.ApplyScores([]domain.ScoreUpdate{{ArticleID: id, Score: 0.5, Label: domain.LabelPositive}})
	require.NoError(t, err)
	require.Equal(t, 1, updated)

	// A second pass over the same id must not overwrite the score.
	updated, err = repo.ApplyScores([]domain.ScoreUpdate{{ArticleID: id, Score: -0.9, Label: domain.LabelNegative}})
	require.NoError(t, err)
	assert.Equal(t, 0, updated)

	scores, err := repo.ScoredScores("AAPL", time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 0.5, scores[0])
}

func TestRepository_ApplyScores_EmptyBatch(t *testing.T) {
	repo := setupTestRepo(t)

	updated, err := repo.ApplyScores(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}

// seedScored inserts and scores one article in a single step.
func seedScored(t *testing.T, repo *Repository, symbol, url string, publishedAt time.Time, score float64, label string) {
	t.Helper()

	created, err := repo.Insert(testArticle(symbol, url, publishedAt))
	require.NoError(t, err)
	require.True(t, created)

	unscored, err := repo.GetUnscored(1000)
	require.NoError(t, err)

	for _, a := range unscored {
		if a.URL == url {
			_, err := repo.ApplyScores([]domain.ScoreUpdate{{ArticleID: a.ID, Score: score, Label: label}})
			require.NoError(t, err)
			return
		}
	}
	t.Fatalf("inserted article %s not found in backlog", url)
}

func TestRepository_ScoredScores_WindowFiltering(t *testing.T) {
	repo := setupTestRepo(t)
	now := time.Now().UTC()

	seedScored(t, repo, "AAPL", "https://example.com/in", now.Add(-time.Hour), 0.5, domain.LabelPositive)
	seedScored(t, repo, "AAPL", "https://example.com/old", now.Add(-48*time.Hour), -0.9, domain.LabelNegative)
	seedScored(t, repo, "MSFT", "https://example.com/other", now.Add(-time.Hour), 0.8, domain.LabelPositive)

	scores, err := repo.ScoredScores("AAPL", now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 0.5, scores[0])
}

func TestRepository_DailyTrends(t *testing.T) {
	repo := setupTestRepo(t)
	day1 := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 21, 15, 0, 0, 0, time.UTC)

	seedScored(t, repo, "AAPL", "https://example.com/1", day1, 0.4, domain.LabelPositive)
	seedScored(t, repo, "AAPL", "https://example.com/2", day1.Add(2*time.Hour), 0.6, domain.LabelPositive)
	seedScored(t, repo, "AAPL", "https://example.com/3", day2, -0.2, domain.LabelNegative)

	trends, err := repo.DailyTrends("AAPL", day1.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, trends, 2)

	assert.Equal(t, "2026-08-20", trends[0].Date)
	assert.Equal(t, 0.5, trends[0].Sentiment)
	assert.Equal(t, 2, trends[0].ArticleCount)

	assert.Equal(t, "2026-08-21", trends[1].Date)
	assert.Equal(t, -0.2, trends[1].Sentiment)
	assert.Equal(t, 1, trends[1].ArticleCount)
}

func TestRepository_LabelDistribution(t *testing.T) {
	repo := setupTestRepo(t)
	now := time.Now().UTC()

	seedScored(t, repo, "AAPL", "https://example.com/1", now, 0.5, domain.LabelPositive)
	seedScored(t, repo, "AAPL", "https://example.com/2", now, 0.7, domain.LabelPositive)
	seedScored(t, repo, "AAPL", "https://example.com/3", now, -0.4, domain.LabelNegative)
	seedScored(t, repo, "MSFT", "https://example.com/4", now, 0.0, domain.LabelNeutral)

	// Unscored rows never show up.
	_, err := repo.Insert(testArticle("AAPL", "https://example.com/raw", now))
	require.NoError(t, err)

	dist, err := repo.LabelDistribution("AAPL", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		domain.LabelPositive: 2,
		domain.LabelNegative: 1,
	}, dist)

	all, err := repo.LabelDistribution("", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, all[domain.LabelNeutral])
}

func TestRepository_SymbolActivity(t *testing.T) {
	repo := setupTestRepo(t)
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		seedScored(t, repo, "MSFT", fmt.Sprintf("https://example.com/msft-%d", i), now.Add(-time.Hour), 0.2, domain.LabelPositive)
	}
	seedScored(t, repo, "AAPL", "https://example.com/aapl1", now.Add(-time.Hour), 0.6, domain.LabelPositive)

	entries, err := repo.SymbolActivity(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "MSFT", entries[0].Symbol)
	assert.Equal(t, 3, entries[0].ArticleCount)
	assert.Equal(t, "AAPL", entries[1].Symbol)
	assert.Equal(t, 1, entries[1].ArticleCount)
	assert.Equal(t, 0.6, entries[1].AvgSentiment)
}

func TestRepository_SymbolActivity_TieBreaksBySymbol(t *testing.T) {
	repo := setupTestRepo(t)
	now := time.Now().UTC()

	seedScored(t, repo, "NVDA", "https://example.com/nvda", now, 0.1, domain.LabelPositive)
	seedScored(t, repo, "AMD", "https://example.com/amd", now, 0.1, domain.LabelPositive)

	entries, err := repo.SymbolActivity(now.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "AMD", entries[0].Symbol)
	assert.Equal(t, "NVDA", entries[1].Symbol)
}

func TestRepository_GetGlobalStats(t *testing.T) {
	repo := setupTestRepo(t)

	stats, err := repo.GetGlobalStats()
	require.NoError(t, err)
	assert.Equal(t, GlobalStats{}, stats)

	now := time.Now().UTC()
	seedScored(t, repo, "AAPL", "https://example.com/1", now, 0.5, domain.LabelPositive)
	seedScored(t, repo, "MSFT", "https://example.com/2", now, -0.3, domain.LabelNegative)

	stats, err = repo.GetGlobalStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalScored)
	assert.Equal(t, 2, stats.DistinctSymbols)
	assert.Equal(t, 0.1, stats.AvgSentiment)
}

func TestRepository_RecentScored(t *testing.T) {
	repo := setupTestRepo(t)
	now := time.Now().UTC().Truncate(time.Second)

	seedScored(t, repo, "AAPL", "https://example.com/old", now.Add(-3*time.Hour), 0.2, domain.LabelPositive)
	seedScored(t, repo, "AAPL", "https://example.com/new", now.Add(-time.Hour), -0.5, domain.LabelNegative)

	list, err := repo.RecentScored("AAPL", now.Add(-24*time.Hour), 10, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "https://example.com/new", list[0].URL)
	assert.True(t, list[0].Scored())
	assert.Equal(t, -0.5, *list[0].SentimentScore)

	negatives, err := repo.RecentScored("AAPL", now.Add(-24*time.Hour), 10, domain.LabelNegative)
	require.NoError(t, err)
	require.Len(t, negatives, 1)
	assert.Equal(t, domain.LabelNegative, *negatives[0].SentimentLabel)
}
