// Package newsapi is a thin client over the NewsAPI "everything" endpoint.
package newsapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/tickermood/tickermood/internal/domain"
)

const (
	defaultBaseURL = "https://newsapi.org/v2"
	pageSize       = 20 // Per query
	maxArticles    = 50 // Across all queries for one symbol
)

// Client fetches financial news articles from NewsAPI.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// New creates a new NewsAPI client
func New(apiKey string, log zerolog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("component", "newsapi_client").Logger(),
	}
}

type apiResponse struct {
	Status   string       `json:"status"`
	Articles []apiArticle `json:"articles"`
}

type apiArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// FetchArticles fetches recent news for a symbol. Several query variants
// are searched to widen coverage; a failing variant is logged and skipped.
// Results are deduplicated by URL and capped at maxArticles.
func (c *Client) FetchArticles(symbol string, daysBack int) ([]domain.RawArticle, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("no NewsAPI key configured")
	}

	to := time.Now()
	from := to.AddDate(0, 0, -daysBack)

	queries := []string{
		fmt.Sprintf("%q stock", symbol),
		fmt.Sprintf("%q earnings", symbol),
		fmt.Sprintf("%q company", symbol),
	}

	seen := make(map[string]bool)
	var result []domain.RawArticle

	for _, query := range queries {
		articles, err := c.search(query, from, to)
		if err != nil {
			c.log.Warn().Err(err).Str("query", query).Msg("News query failed, skipping")
			continue
		}

		for _, a := range articles {
			if a.URL == "" || seen[a.URL] {
				continue
			}
			seen[a.URL] = true

			content := a.Description
			if content == "" {
				content = a.Content
			}

			result = append(result, domain.RawArticle{
				URL:         a.URL,
				Title:       a.Title,
				Content:     content,
				PublishedAt: a.PublishedAt,
				Source:      a.Source.Name,
				Author:      a.Author,
			})

			if len(result) >= maxArticles {
				return result, nil
			}
		}
	}

	return result, nil
}

// search runs one "everything" query against NewsAPI.
func (c *Client) search(query string, from, to time.Time) ([]apiArticle, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))
	params.Set("sortBy", "publishedAt")
	params.Set("language", "en")
	params.Set("pageSize", fmt.Sprintf("%d", pageSize))
	params.Set("apiKey", c.apiKey)

	resp, err := c.httpClient.Get(fmt.Sprintf("%s/everything?%s", c.baseURL, params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("NewsAPI returned status %d: %s", resp.StatusCode, string(body))
	}

	var response apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return response.Articles, nil
}
