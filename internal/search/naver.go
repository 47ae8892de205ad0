package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/minsoolab/learnletter/pkg/models"
)

// Naver open-API search endpoints by vertical.
var naverEndpoints = map[models.SourceType]string{
	models.SourceBlog:        "https://openapi.naver.com/v1/search/blog.json",
	models.SourceWebDocument: "https://openapi.naver.com/v1/search/webkr.json",
	models.SourceNews:        "https://openapi.naver.com/v1/search/news.json",
}

// NaverSource adapts one Naver search vertical (blog, web document or news)
// to the Source interface. Three instances share one client and cache.
type NaverSource struct {
	sourceType   models.SourceType
	clientID     string
	clientSecret string
	baseURL      string
	cache        *Cache
	client       *http.Client
}

// NaverOption configures a Naver source adapter.
type NaverOption func(*NaverSource)

// WithNaverBaseURL overrides the API endpoint (used in tests).
func WithNaverBaseURL(u string) NaverOption {
	return func(s *NaverSource) { s.baseURL = u }
}

// WithNaverHTTPClient sets a custom HTTP client.
func WithNaverHTTPClient(c *http.Client) NaverOption {
	return func(s *NaverSource) { s.client = c }
}

// WithNaverCache attaches a shared response cache.
func WithNaverCache(c *Cache) NaverOption {
	return func(s *NaverSource) { s.cache = c }
}

// NewNaverSource creates an adapter for the given Naver vertical.
func NewNaverSource(sourceType models.SourceType, clientID, clientSecret string, opts ...NaverOption) (*NaverSource, error) {
	endpoint, ok := naverEndpoints[sourceType]
	if !ok {
		return nil, fmt.Errorf("search: naver does not serve source type %q", sourceType)
	}
	s := &NaverSource{
		sourceType:   sourceType,
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      endpoint,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *NaverSource) Type() models.SourceType { return s.sourceType }

// naverResponse is the native shape of a Naver search response.
type naverResponse struct {
	Total int `json:"total"`
	Items []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Description string `json:"description"`
		BloggerName string `json:"bloggername"`
		PostDate    string `json:"postdate"` // blog: YYYYMMDD
		PubDate     string `json:"pubDate"`  // news: RFC1123-ish
	} `json:"items"`
}

// Search queries the Naver vertical, serving from cache when a fresh entry
// exists and populating it after a successful call.
func (s *NaverSource) Search(ctx context.Context, query string, count int) (*models.SearchResult, error) {
	if s.clientID == "" || s.clientSecret == "" {
		return nil, ErrNoCredentials
	}
	if cached, ok := s.cache.Get(query, s.sourceType); ok {
		return cached, nil
	}

	if count <= 0 {
		count = 5
	}
	u := fmt.Sprintf("%s?query=%s&display=%d&sort=sim", s.baseURL, url.QueryEscape(query), count)
	header := http.Header{}
	header.Set("X-Naver-Client-Id", s.clientID)
	header.Set("X-Naver-Client-Secret", s.clientSecret)

	var raw naverResponse
	if err := getJSON(ctx, s.client, u, header, &raw); err != nil {
		return nil, fmt.Errorf("naver %s search: %w", s.sourceType, err)
	}

	result := &models.SearchResult{
		Items: make([]models.ContentItem, 0, len(raw.Items)),
		Total: raw.Total,
	}
	for _, it := range raw.Items {
		item := models.ContentItem{
			Title:       it.Title,
			Description: it.Description,
			Link:        it.Link,
			Source:      s.sourceType,
			BlogName:    it.BloggerName,
		}
		if ts := parseNaverDate(it.PostDate, it.PubDate); !ts.IsZero() {
			item.PublishedAt = ts
		}
		result.Items = append(result.Items, item)
	}

	s.cache.Put(query, s.sourceType, result)
	return result, nil
}

// parseNaverDate tries the blog (YYYYMMDD) format first, then the news
// (RFC1123Z) format. Unknown formats yield the zero time; publish dates are
// display-only so a parse failure is not an error.
func parseNaverDate(postDate, pubDate string) time.Time {
	if postDate != "" {
		if t, err := time.Parse("20060102", postDate); err == nil {
			return t
		}
	}
	if pubDate != "" {
		if t, err := time.Parse(time.RFC1123Z, pubDate); err == nil {
			return t
		}
	}
	return time.Time{}
}
