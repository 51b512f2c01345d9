package sentiment

import (
	"math"
	"strings"

	"github.com/tickermood/tickermood/internal/domain"
)

// Polarity thresholds for labeling
const (
	polarityPositiveThreshold = 0.1
	polarityNegativeThreshold = -0.1
)

// polarityLexicon maps words to polarities in [-1, 1]. It is weighted
// toward financial news vocabulary.
var polarityLexicon = map[string]float64{
	// positive
	"gain": 0.5, "gains": 0.5, "gained": 0.5,
	"profit": 0.6, "profits": 0.6, "profitable": 0.7,
	"growth": 0.5, "grow": 0.4, "growing": 0.4,
	"surge": 0.7, "surges": 0.7, "surged": 0.7,
	"soar": 0.8, "soars": 0.8, "soared": 0.8,
	"rally": 0.6, "rallies": 0.6, "rallied": 0.6,
	"record": 0.4, "beat": 0.5, "beats": 0.5,
	"strong": 0.5, "stronger": 0.5, "strongest": 0.6,
	"bullish": 0.7, "upgrade": 0.6, "upgraded": 0.6,
	"outperform": 0.6, "outperformed": 0.6,
	"great": 0.8, "excellent": 0.9, "good": 0.5,
	"positive": 0.5, "optimistic": 0.6, "success": 0.6,
	"successful": 0.6, "win": 0.6, "wins": 0.6,
	"up": 0.4, "rise": 0.4, "rises": 0.4, "rising": 0.4,
	"jump": 0.5, "jumps": 0.5, "jumped": 0.5,
	"boost": 0.5, "boosts": 0.5, "boosted": 0.5,
	"recovery": 0.4, "rebound": 0.4, "expansion": 0.4,
	"dividend": 0.2, "buyback": 0.3, "breakthrough": 0.6,

	// negative
	"loss": -0.6, "losses": -0.7, "lose": -0.5, "losing": -0.5,
	"decline": -0.5, "declines": -0.5, "declined": -0.5, "declining": -0.5,
	"drop": -0.5, "drops": -0.5, "dropped": -0.5,
	"fall": -0.4, "falls": -0.4, "falling": -0.4, "fell": -0.4,
	"plunge": -0.8, "plunges": -0.8, "plunged": -0.8,
	"crash": -0.9, "crashes": -0.9, "crashed": -0.9,
	"slump": -0.6, "slumps": -0.6, "slumped": -0.6,
	"weak": -0.5, "weaker": -0.5, "weakest": -0.6,
	"bearish": -0.7, "downgrade": -0.6, "downgraded": -0.6,
	"underperform": -0.6, "underperformed": -0.6,
	"bad": -0.6, "poor": -0.6, "terrible": -0.9,
	"negative": -0.5, "pessimistic": -0.6,
	"miss": -0.5, "misses": -0.5, "missed": -0.5,
	"scandal": -0.8, "fraud": -0.9, "lawsuit": -0.6,
	"bankruptcy": -0.9, "bankrupt": -0.9, "default": -0.7,
	"layoff": -0.6, "layoffs": -0.6, "cuts": -0.4,
	"down": -0.4, "risk": -0.3, "risks": -0.3, "risky": -0.4,
	"warning": -0.5, "warns": -0.5, "concern": -0.4, "concerns": -0.4,
	"fears": -0.5, "fear": -0.5, "crisis": -0.8, "recession": -0.7,
	"debt": -0.3, "investigation": -0.5, "penalty": -0.5, "fine": -0.4,
}

// negators flip the polarity of the next matched word.
var negators = map[string]bool{
	"not": true, "no": true, "never": true, "without": true,
	"isnt": true, "wasnt": true, "doesnt": true, "didnt": true,
	"wont": true, "cant": true,
}

// intensifiers scale the polarity of the next matched word.
var intensifiers = map[string]float64{
	"very": 1.3, "extremely": 1.5, "highly": 1.3, "massive": 1.4,
	"massively": 1.4, "huge": 1.3, "hugely": 1.3, "significantly": 1.3,
	"sharply": 1.3, "slightly": 0.7, "somewhat": 0.8, "marginally": 0.7,
}

// negationWindow is how many tokens a negator reaches forward.
const negationWindow = 3

// PolarityScorer is a word-polarity lexicon scorer. The score is the mean
// polarity of matched tokens after negation and intensity adjustments.
type PolarityScorer struct{}

// NewPolarityScorer creates a new polarity scorer
func NewPolarityScorer() *PolarityScorer {
	return &PolarityScorer{}
}

// Name returns the strategy name
func (s *PolarityScorer) Name() string {
	return StrategyPolarity
}

// Score scores the text. Texts with no lexicon matches are neutral.
func (s *PolarityScorer) Score(text string) (domain.ScoreResult, error) {
	tokens := tokenize(text)

	var sum float64
	matched := 0
	negateLeft := 0
	intensity := 1.0

	for _, token := range tokens {
		if negators[token] {
			negateLeft = negationWindow
			continue
		}
		if mult, ok := intensifiers[token]; ok {
			intensity = mult
			continue
		}

		if polarity, ok := polarityLexicon[token]; ok {
			polarity *= intensity
			if negateLeft > 0 {
				polarity = -polarity
			}
			sum += clamp(polarity, -1, 1)
			matched++
		}

		intensity = 1.0
		if negateLeft > 0 {
			negateLeft--
		}
	}

	polarity := 0.0
	if matched > 0 {
		polarity = clamp(sum/float64(matched), -1, 1)
	}

	label := domain.LabelNeutral
	switch {
	case polarity > polarityPositiveThreshold:
		label = domain.LabelPositive
	case polarity < polarityNegativeThreshold:
		label = domain.LabelNegative
	}

	return domain.ScoreResult{
		Score:      round3(polarity),
		Label:      label,
		Confidence: round3(math.Abs(polarity)),
	}, nil
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?-'\"")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
