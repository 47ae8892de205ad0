package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/minsoolab/learnletter/pkg/models"
)

const youtubeSearchURL = "https://www.googleapis.com/youtube/v3/search"

// YouTubeSource adapts the YouTube Data API v3 video search.
type YouTubeSource struct {
	apiKey   string
	language string // relevanceLanguage hint, e.g. "ko" or "en"
	baseURL  string
	cache    *Cache
	client   *http.Client
}

// YouTubeOption configures the YouTube adapter.
type YouTubeOption func(*YouTubeSource)

// WithYouTubeBaseURL overrides the API endpoint (used in tests).
func WithYouTubeBaseURL(u string) YouTubeOption {
	return func(s *YouTubeSource) { s.baseURL = u }
}

// WithYouTubeLanguage sets the relevance-language hint.
func WithYouTubeLanguage(lang string) YouTubeOption {
	return func(s *YouTubeSource) { s.language = lang }
}

// WithYouTubeHTTPClient sets a custom HTTP client.
func WithYouTubeHTTPClient(c *http.Client) YouTubeOption {
	return func(s *YouTubeSource) { s.client = c }
}

// WithYouTubeCache attaches a shared response cache.
func WithYouTubeCache(c *Cache) YouTubeOption {
	return func(s *YouTubeSource) { s.cache = c }
}

// NewYouTubeSource creates a video search adapter.
func NewYouTubeSource(apiKey string, opts ...YouTubeOption) *YouTubeSource {
	s := &YouTubeSource{
		apiKey:   apiKey,
		language: "ko",
		baseURL:  youtubeSearchURL,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *YouTubeSource) Type() models.SourceType { return models.SourceVideo }

// youtubeResponse is the native shape of a YouTube search response.
type youtubeResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
}

// Search queries YouTube for embeddable videos matching the query.
func (s *YouTubeSource) Search(ctx context.Context, query string, count int) (*models.SearchResult, error) {
	if s.apiKey == "" {
		return nil, ErrNoCredentials
	}
	if cached, ok := s.cache.Get(query, models.SourceVideo); ok {
		return cached, nil
	}

	if count <= 0 {
		count = 5
	}
	params := url.Values{}
	params.Set("key", s.apiKey)
	params.Set("q", query)
	params.Set("part", "snippet")
	params.Set("maxResults", fmt.Sprint(count))
	params.Set("type", "video")
	params.Set("videoEmbeddable", "true")
	params.Set("relevanceLanguage", s.language)

	var raw youtubeResponse
	if err := getJSON(ctx, s.client, s.baseURL+"?"+params.Encode(), nil, &raw); err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	result := &models.SearchResult{Items: make([]models.ContentItem, 0, len(raw.Items))}
	for _, it := range raw.Items {
		if it.ID.VideoID == "" {
			continue
		}
		item := models.ContentItem{
			Title:       it.Snippet.Title,
			Description: it.Snippet.Description,
			Link:        "https://www.youtube.com/watch?v=" + it.ID.VideoID,
			Source:      models.SourceVideo,
			ChannelName: it.Snippet.ChannelTitle,
		}
		if t, err := time.Parse(time.RFC3339, it.Snippet.PublishedAt); err == nil {
			item.PublishedAt = t
		}
		result.Items = append(result.Items, item)
	}
	result.Total = len(result.Items)

	s.cache.Put(query, models.SourceVideo, result)
	return result, nil
}
