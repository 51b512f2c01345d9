package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickermood/tickermood/internal/domain"
)

func TestPolarityScorer_Score(t *testing.T) {
	scorer := NewPolarityScorer()

	tests := []struct {
		name      string
		text      string
		wantLabel string
	}{
		{
			name:      "positive finance vocabulary",
			text:      "record profits and strong growth",
			wantLabel: domain.LabelPositive,
		},
		{
			name:      "negative finance vocabulary",
			text:      "losses widen as shares plunge",
			wantLabel: domain.LabelNegative,
		},
		{
			name:      "no lexicon matches is neutral",
			text:      "the board meets on tuesday afternoon",
			wantLabel: domain.LabelNeutral,
		},
		{
			name:      "mixed signals near zero",
			text:      "gains offset by losses",
			wantLabel: domain.LabelNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := scorer.Score(tt.text)

			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, result.Label)
			assert.InDelta(t, result.Confidence, mathAbs(result.Score), 0.001)
		})
	}
}

func TestPolarityScorer_MeanOfMatches(t *testing.T) {
	scorer := NewPolarityScorer()

	// "surge" (0.7) and "gains" (0.5) average to 0.6.
	result, err := scorer.Score("shares surge on gains")

	require.NoError(t, err)
	assert.InDelta(t, 0.6, result.Score, 0.001)
	assert.Equal(t, domain.LabelPositive, result.Label)
}

func TestPolarityScorer_Negation(t *testing.T) {
	scorer := NewPolarityScorer()

	plain, err := scorer.Score("strong quarter")
	require.NoError(t, err)
	require.Equal(t, domain.LabelPositive, plain.Label)

	negated, err := scorer.Score("not a strong quarter")
	require.NoError(t, err)
	assert.Equal(t, domain.LabelNegative, negated.Label)
	assert.InDelta(t, -plain.Score, negated.Score, 0.001)
}

func TestPolarityScorer_NegationWindowExpires(t *testing.T) {
	scorer := NewPolarityScorer()

	// Four tokens between the negator and the match, past the window.
	result, err := scorer.Score("not one two three four profits")

	require.NoError(t, err)
	assert.Equal(t, domain.LabelPositive, result.Label)
}

func TestPolarityScorer_Intensifiers(t *testing.T) {
	scorer := NewPolarityScorer()

	base, err := scorer.Score("losses")
	require.NoError(t, err)

	amplified, err := scorer.Score("massive losses")
	require.NoError(t, err)
	assert.Less(t, amplified.Score, base.Score)

	dampened, err := scorer.Score("slightly losses")
	require.NoError(t, err)
	assert.Greater(t, dampened.Score, base.Score)
}

func TestPolarityScorer_IntensifierOnlyAppliesToNextToken(t *testing.T) {
	scorer := NewPolarityScorer()

	// "very" scales "growth" but not the later "gains".
	scaled, err := scorer.Score("very growth then gains")
	require.NoError(t, err)

	// growth 0.5*1.3 = 0.65, gains 0.5; mean 0.575
	assert.InDelta(t, 0.575, scaled.Score, 0.001)
}

func TestTokenize(t *testing.T) {
	tokens := tokenize("Profits, up! 'Strong' -growth-")

	assert.Equal(t, []string{"profits", "up", "strong", "growth"}, tokens)
}

func mathAbs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
