// Package server provides the HTTP server and routing for TickerMood.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tickermood/tickermood/internal/domain"
	"github.com/tickermood/tickermood/internal/modules/ingest"
	"github.com/tickermood/tickermood/internal/modules/sentiment"
	"github.com/tickermood/tickermood/internal/modules/symbols"
	"github.com/tickermood/tickermood/internal/modules/trends"
)

// Query parameter bounds, matching the original API contract.
const (
	minDays  = 1
	maxDays  = 30
	minHours = 1
	maxHours = 168
	minLimit = 1
	maxLimit = 50

	minAnalyzeTextLen = 3
)

// HandlersConfig holds handler dependencies
type HandlersConfig struct {
	Log            zerolog.Logger
	Engine         *sentiment.Engine
	Pipeline       *sentiment.Pipeline
	Trends         *trends.Service
	Ingest         *ingest.Service
	Symbols        *symbols.Repository
	ScoreBatchSize int
	NewsDaysBack   int
}

// Handlers provides the HTTP handlers for the sentiment API
type Handlers struct {
	engine         *sentiment.Engine
	pipeline       *sentiment.Pipeline
	trends         *trends.Service
	ingest         *ingest.Service
	symbols        *symbols.Repository
	scoreBatchSize int
	newsDaysBack   int
	log            zerolog.Logger
}

// NewHandlers creates a new handlers instance
func NewHandlers(cfg HandlersConfig) *Handlers {
	return &Handlers{
		engine:         cfg.Engine,
		pipeline:       cfg.Pipeline,
		trends:         cfg.Trends,
		ingest:         cfg.Ingest,
		symbols:        cfg.Symbols,
		scoreBatchSize: cfg.ScoreBatchSize,
		newsDaysBack:   cfg.NewsDaysBack,
		log:            cfg.Log.With().Str("component", "handlers").Logger(),
	}
}

// HandleStockSentiment handles GET /api/sentiment/stock/{symbol}
func (h *Handlers) HandleStockSentiment(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	days := queryInt(r, "days", 7, minDays, maxDays)

	summary, err := h.trends.Summarize(symbol, days)
	if err != nil {
		if errors.Is(err, domain.ErrNoData) {
			h.writeError(w, "No sentiment data found for symbol "+strings.ToUpper(symbol), http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Summarize failed")
		h.writeError(w, "Failed to compute sentiment summary", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
}

// articleResponse is the per-article payload for the articles listing.
type articleResponse struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	URL            string    `json:"url"`
	PublishedAt    time.Time `json:"published_at"`
	SentimentScore float64   `json:"sentiment_score"`
	SentimentLabel string    `json:"sentiment_label"`
	Source         string    `json:"source"`
}

// HandleStockArticles handles GET /api/sentiment/stock/{symbol}/articles
func (h *Handlers) HandleStockArticles(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	days := queryInt(r, "days", 7, minDays, maxDays)
	limit := queryInt(r, "limit", 20, 1, 100)
	labelFilter := r.URL.Query().Get("sentiment")

	list, err := h.trends.RecentArticles(symbol, days, limit, labelFilter)
	if err != nil {
		if errors.Is(err, domain.ErrNoData) {
			h.writeError(w, "No articles found for "+strings.ToUpper(symbol), http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Article listing failed")
		h.writeError(w, "Failed to load articles", http.StatusInternalServerError)
		return
	}

	response := make([]articleResponse, 0, len(list))
	for _, a := range list {
		response = append(response, articleResponse{
			ID:             a.ID,
			Title:          a.Title,
			URL:            a.URL,
			PublishedAt:    a.PublishedAt,
			SentimentScore: *a.SentimentScore,
			SentimentLabel: *a.SentimentLabel,
			Source:         a.Source,
		})
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleTrending handles GET /api/sentiment/trending
func (h *Handlers) HandleTrending(w http.ResponseWriter, r *http.Request) {
	hours := queryInt(r, "hours", 24, minHours, maxHours)
	limit := queryInt(r, "limit", 10, minLimit, maxLimit)

	entries, err := h.trends.Trending(hours, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Trending failed")
		h.writeError(w, "Failed to compute trending symbols", http.StatusInternalServerError)
		return
	}

	if entries == nil {
		entries = []domain.TrendingEntry{}
	}

	h.writeJSON(w, http.StatusOK, entries)
}

// HandleSummary handles GET /api/sentiment/summary
func (h *Handlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	overview, err := h.trends.Overview()
	if err != nil {
		h.log.Error().Err(err).Msg("Overview failed")
		h.writeError(w, "Failed to compute sentiment overview", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, overview)
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Text           string  `json:"text"`
	SentimentScore float64 `json:"sentiment_score"`
	SentimentLabel string  `json:"sentiment_label"`
	Confidence     float64 `json:"confidence"`
}

// HandleAnalyze handles POST /api/sentiment/analyze
func (h *Handlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := validateAnalyzeText(req.Text); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := h.engine.Score(req.Text)

	display := req.Text
	if runes := []rune(display); len(runes) > 100 {
		display = string(runes[:100]) + "..."
	}

	h.writeJSON(w, http.StatusOK, analyzeResponse{
		Text:           display,
		SentimentScore: result.Score,
		SentimentLabel: result.Label,
		Confidence:     result.Confidence,
	})
}

// validateAnalyzeText rejects ad hoc scoring input under 3 characters.
func validateAnalyzeText(text string) error {
	if len(strings.TrimSpace(text)) < minAnalyzeTextLen {
		return domain.NewValidationError("text must be at least %d characters long", minAnalyzeTextLen)
	}
	return nil
}

type processResponse struct {
	Processed int `json:"processed"`
}

// HandleProcess handles POST /api/sentiment/process
func (h *Handlers) HandleProcess(w http.ResponseWriter, r *http.Request) {
	batch := queryInt(r, "batch", h.scoreBatchSize, 1, 500)

	processed, err := h.pipeline.ProcessBatch(batch)
	if err != nil {
		h.log.Error().Err(err).Msg("Batch processing failed")
		h.writeError(w, "Failed to process scoring batch", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, processResponse{Processed: processed})
}

// HandleStockList handles GET /api/stocks/list
func (h *Handlers) HandleStockList(w http.ResponseWriter, r *http.Request) {
	list, err := h.symbols.GetActive()
	if err != nil {
		h.log.Error().Err(err).Msg("Symbol listing failed")
		h.writeError(w, "Failed to load tracked symbols", http.StatusInternalServerError)
		return
	}

	if list == nil {
		list = []domain.Symbol{}
	}

	h.writeJSON(w, http.StatusOK, list)
}

// HandleRefresh handles POST /api/stocks/refresh/{symbol}
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	result, err := h.ingest.RefreshSymbol(symbol, h.newsDaysBack)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("News refresh failed")
		h.writeError(w, "Failed to refresh news", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// writeJSON writes a JSON response
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError writes a JSON error response
func (h *Handlers) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// queryInt parses an integer query parameter, clamping to [min, max] and
// falling back to def when absent or malformed.
func queryInt(r *http.Request, name string, def, min, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}

	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
