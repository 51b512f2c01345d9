package sentiment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tickermood/tickermood/internal/domain"
)

// TransformerScorer scores text through a remote three-way classifier
// (a FinBERT-style inference service). The service returns per-class
// probabilities over {positive, negative, neutral}.
type TransformerScorer struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewTransformerScorer creates a new transformer scorer client
func NewTransformerScorer(baseURL string, log zerolog.Logger) *TransformerScorer {
	return &TransformerScorer{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("component", "transformer_client").Logger(),
	}
}

// Name returns the strategy name
func (s *TransformerScorer) Name() string {
	return StrategyTransformer
}

// Probe checks the inference service is reachable. Called once at engine
// construction; a failure triggers the fallback to the lexicon strategy.
func (s *TransformerScorer) Probe() error {
	resp, err := s.httpClient.Get(s.baseURL + "/health")
	if err != nil {
		return fmt.Errorf("inference service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference service returned status %d", resp.StatusCode)
	}

	return nil
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Probabilities map[string]float64 `json:"probabilities"`
}

// Score classifies the text and maps the class probabilities to [-1, 1]:
// +P(positive) when positive wins, -P(negative) when negative wins, 0.0
// when neutral wins. Confidence is the winning class probability.
func (s *TransformerScorer) Score(text string) (domain.ScoreResult, error) {
	reqBody, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return domain.ScoreResult{}, fmt.Errorf("failed to marshal classify request: %w", err)
	}

	resp, err := s.httpClient.Post(s.baseURL+"/classify", "application/json", bytes.NewReader(reqBody))
	if err != nil {
		return domain.ScoreResult{}, fmt.Errorf("classify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.ScoreResult{}, fmt.Errorf("inference service returned status %d: %s", resp.StatusCode, string(body))
	}

	var cr classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return domain.ScoreResult{}, fmt.Errorf("failed to decode classify response: %w", err)
	}

	positive := cr.Probabilities[domain.LabelPositive]
	negative := cr.Probabilities[domain.LabelNegative]
	neutral := cr.Probabilities[domain.LabelNeutral]

	switch {
	case positive > negative && positive > neutral:
		return domain.ScoreResult{
			Score:      round3(positive),
			Label:      domain.LabelPositive,
			Confidence: round3(positive),
		}, nil
	case negative > positive && negative > neutral:
		return domain.ScoreResult{
			Score:      round3(-negative),
			Label:      domain.LabelNegative,
			Confidence: round3(negative),
		}, nil
	default:
		return domain.ScoreResult{
			Score:      0.0,
			Label:      domain.LabelNeutral,
			Confidence: round3(neutral),
		}, nil
	}
}
