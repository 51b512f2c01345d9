package sentiment

import (
	"math"

	"github.com/jonreiter/govader"

	"github.com/tickermood/tickermood/internal/domain"
)

// VADER compound score thresholds for labeling
const (
	vaderPositiveThreshold = 0.05
	vaderNegativeThreshold = -0.05
)

// VaderScorer scores text with the VADER lexicon and rule set.
// The compound score is already normalized to [-1, 1].
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer creates a new VADER scorer
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
	}
}

// Name returns the strategy name
func (s *VaderScorer) Name() string {
	return StrategyVader
}

// Score scores the text. Confidence is the magnitude of the compound score.
func (s *VaderScorer) Score(text string) (domain.ScoreResult, error) {
	scores := s.analyzer.PolarityScores(text)
	compound := scores.Compound

	label := domain.LabelNeutral
	switch {
	case compound >= vaderPositiveThreshold:
		label = domain.LabelPositive
	case compound <= vaderNegativeThreshold:
		label = domain.LabelNegative
	}

	return domain.ScoreResult{
		Score:      round3(compound),
		Label:      label,
		Confidence: round3(math.Abs(compound)),
	}, nil
}
