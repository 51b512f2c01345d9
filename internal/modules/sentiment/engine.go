// Package sentiment provides the pluggable sentiment scoring engine and
// the batch scoring pipeline.
package sentiment

import (
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tickermood/tickermood/internal/domain"
)

// Available scoring strategies.
const (
	StrategyVader       = "vader"
	StrategyPolarity    = "polarity"
	StrategyTransformer = "transformer"
)

// Strategy scores preprocessed text. Implementations may fail per call;
// the engine maps any failure to a neutral result.
type Strategy interface {
	Name() string
	Score(text string) (domain.ScoreResult, error)
}

// Config holds engine construction options
type Config struct {
	Strategy     string
	InferenceURL string // Used by the transformer strategy
}

// Engine scores text with the configured strategy. Construction never
// fails: an unavailable strategy degrades to the VADER lexicon and the
// substitution is recorded on the Degraded flag.
type Engine struct {
	strategy Strategy
	degraded bool
	log      zerolog.Logger
}

// NewEngine creates a scoring engine for the configured strategy.
func NewEngine(cfg Config, log zerolog.Logger) *Engine {
	e := &Engine{
		log: log.With().Str("component", "sentiment_engine").Logger(),
	}

	switch cfg.Strategy {
	case StrategyVader, "":
		e.strategy = NewVaderScorer()
	case StrategyPolarity:
		e.strategy = NewPolarityScorer()
	case StrategyTransformer:
		scorer := NewTransformerScorer(cfg.InferenceURL, e.log)
		if err := scorer.Probe(); err != nil {
			e.log.Warn().
				Err(err).
				Str("inference_url", cfg.InferenceURL).
				Msg("Transformer inference unavailable, falling back to VADER")
			e.strategy = NewVaderScorer()
			e.degraded = true
		} else {
			e.strategy = scorer
		}
	default:
		e.log.Warn().
			Str("strategy", cfg.Strategy).
			Msg("Unknown sentiment strategy, falling back to VADER")
		e.strategy = NewVaderScorer()
		e.degraded = true
	}

	e.log.Info().
		Str("strategy", e.strategy.Name()).
		Bool("degraded", e.degraded).
		Msg("Sentiment engine ready")

	return e
}

// StrategyName returns the name of the active strategy.
func (e *Engine) StrategyName() string {
	return e.strategy.Name()
}

// Degraded reports whether construction fell back to a lighter strategy.
func (e *Engine) Degraded() bool {
	return e.degraded
}

// Score scores a text. It is a total function: empty or whitespace-only
// input and any strategy failure map to the neutral result.
func (e *Engine) Score(text string) domain.ScoreResult {
	if strings.TrimSpace(text) == "" {
		return neutralResult()
	}

	clean := Preprocess(text)
	if clean == "" {
		return neutralResult()
	}

	result, err := e.strategy.Score(clean)
	if err != nil {
		e.log.Warn().
			Err(err).
			Str("strategy", e.strategy.Name()).
			Msg("Scoring failed, returning neutral")
		return neutralResult()
	}

	result.Score = round3(clamp(result.Score, -1, 1))
	result.Confidence = round3(clamp(result.Confidence, 0, 1))

	return result
}

func neutralResult() domain.ScoreResult {
	return domain.ScoreResult{
		Score:      0.0,
		Label:      domain.LabelNeutral,
		Confidence: 0.0,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
