package sentiment

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tickermood/tickermood/internal/domain"
)

// Scorer scores a single text. Satisfied by *Engine.
type Scorer interface {
	Score(text string) domain.ScoreResult
}

// Store is the article backlog the pipeline drains.
// Satisfied by *articles.Repository.
type Store interface {
	GetUnscored(limit int) ([]domain.Article, error)
	ApplyScores(updates []domain.ScoreUpdate) (int, error)
}

// Pipeline drains the unscored article backlog in bounded batches.
// It is the only writer of sentiment fields; invocations are expected to
// be serialized by the caller (the scheduler or a handler).
type Pipeline struct {
	scorer Scorer
	store  Store
	log    zerolog.Logger
}

// NewPipeline creates a new scoring pipeline
func NewPipeline(scorer Scorer, store Store, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		scorer: scorer,
		store:  store,
		log:    log.With().Str("component", "scoring_pipeline").Logger(),
	}
}

// ProcessBatch scores up to maxItems unscored articles and commits all
// successful results in one transaction. A single article's failure is
// logged and skipped, never aborting the batch. Returns the number of
// articles updated. Running against a drained backlog returns 0 with no
// side effects. Store errors propagate to the caller unretried.
func (p *Pipeline) ProcessBatch(maxItems int) (int, error) {
	log := p.log.With().Str("run_id", uuid.New().String()).Logger()

	articles, err := p.store.GetUnscored(maxItems)
	if err != nil {
		return 0, fmt.Errorf("failed to load unscored articles: %w", err)
	}

	if len(articles) == 0 {
		log.Debug().Msg("No unscored articles")
		return 0, nil
	}

	updates := make([]domain.ScoreUpdate, 0, len(articles))
	skipped := 0

	for i := range articles {
		article := &articles[i]

		result, err := p.scoreArticle(article)
		if err != nil {
			skipped++
			log.Warn().
				Err(err).
				Int64("article_id", article.ID).
				Msg("Skipping article, scoring failed")
			continue
		}

		updates = append(updates, domain.ScoreUpdate{
			ArticleID: article.ID,
			Score:     result.Score,
			Label:     result.Label,
		})
	}

	processed, err := p.store.ApplyScores(updates)
	if err != nil {
		return 0, fmt.Errorf("failed to persist sentiment scores: %w", err)
	}

	log.Info().
		Int("processed", processed).
		Int("skipped", skipped).
		Int("batch", len(articles)).
		Msg("Scoring batch complete")

	return processed, nil
}

// scoreArticle scores one article, converting a panicking scorer into an
// error so one bad item cannot take down the batch. The engine contract
// says Score never fails, but the batch boundary does not rely on it.
func (p *Pipeline) scoreArticle(article *domain.Article) (result domain.ScoreResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while scoring article %d: %v", article.ID, r)
		}
	}()

	result = p.scorer.Score(article.ScoringText())
	return result, nil
}
