package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/minsoolab/learnletter/pkg/models"
)

const newsAPIEverythingURL = "https://newsapi.org/v2/everything"

// newsAPIWindowDays bounds the date range; the free NewsAPI plan only serves
// recent articles reliably.
const newsAPIWindowDays = 7

// NewsAPISource adapts the NewsAPI "everything" endpoint.
type NewsAPISource struct {
	apiKey   string
	language string
	baseURL  string
	cache    *Cache
	client   *http.Client
	now      func() time.Time
}

// NewsAPIOption configures the NewsAPI adapter.
type NewsAPIOption func(*NewsAPISource)

// WithNewsAPIBaseURL overrides the API endpoint (used in tests).
func WithNewsAPIBaseURL(u string) NewsAPIOption {
	return func(s *NewsAPISource) { s.baseURL = u }
}

// WithNewsAPILanguage sets the article language filter.
func WithNewsAPILanguage(lang string) NewsAPIOption {
	return func(s *NewsAPISource) { s.language = lang }
}

// WithNewsAPIHTTPClient sets a custom HTTP client.
func WithNewsAPIHTTPClient(c *http.Client) NewsAPIOption {
	return func(s *NewsAPISource) { s.client = c }
}

// WithNewsAPICache attaches a shared response cache.
func WithNewsAPICache(c *Cache) NewsAPIOption {
	return func(s *NewsAPISource) { s.cache = c }
}

// NewNewsAPISource creates a NewsAPI-backed news adapter.
func NewNewsAPISource(apiKey string, opts ...NewsAPIOption) *NewsAPISource {
	s := &NewsAPISource{
		apiKey:   apiKey,
		language: "en",
		baseURL:  newsAPIEverythingURL,
		client:   &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *NewsAPISource) Type() models.SourceType { return models.SourceNews }

// newsAPIResponse is the native shape of a NewsAPI response.
type newsAPIResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Search queries NewsAPI for recent articles matching the query.
func (s *NewsAPISource) Search(ctx context.Context, query string, count int) (*models.SearchResult, error) {
	if s.apiKey == "" {
		return nil, ErrNoCredentials
	}
	if cached, ok := s.cache.Get(query, models.SourceNews); ok {
		return cached, nil
	}

	if count <= 0 {
		count = 5
	}
	end := s.now()
	start := end.AddDate(0, 0, -newsAPIWindowDays)

	params := url.Values{}
	params.Set("q", query)
	params.Set("from", start.Format("2006-01-02"))
	params.Set("to", end.Format("2006-01-02"))
	params.Set("sortBy", "publishedAt")
	params.Set("language", s.language)
	params.Set("pageSize", fmt.Sprint(count))
	params.Set("apiKey", s.apiKey)

	var raw newsAPIResponse
	if err := getJSON(ctx, s.client, s.baseURL+"?"+params.Encode(), nil, &raw); err != nil {
		return nil, fmt.Errorf("newsapi search: %w", err)
	}
	if raw.Status != "ok" {
		return nil, fmt.Errorf("%w: newsapi status %q", ErrBadStatus, raw.Status)
	}

	result := &models.SearchResult{
		Items: make([]models.ContentItem, 0, len(raw.Articles)),
		Total: raw.TotalResults,
	}
	for _, a := range raw.Articles {
		item := models.ContentItem{
			Title:       a.Title,
			Description: a.Description,
			Link:        a.URL,
			Source:      models.SourceNews,
			BlogName:    a.Source.Name,
		}
		if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			item.PublishedAt = t
		}
		result.Items = append(result.Items, item)
	}

	s.cache.Put(query, models.SourceNews, result)
	return result, nil
}
