package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/minsoolab/learnletter/pkg/models"
)

// DefaultNewsFeedURL is the feed consulted when no news API key is
// configured. The Streamlit blog publishes release notes and articles there.
const DefaultNewsFeedURL = "https://blog.streamlit.io/rss/"

// RSSSource adapts an RSS/Atom feed as a keyless news backend. It filters
// feed entries by the query so its contract matches the keyed adapters.
type RSSSource struct {
	feedURL string
	cache   *Cache
	parser  *gofeed.Parser
}

// RSSOption configures the RSS adapter.
type RSSOption func(*RSSSource)

// WithRSSFeedURL sets the feed to read.
func WithRSSFeedURL(u string) RSSOption {
	return func(s *RSSSource) { s.feedURL = u }
}

// WithRSSCache attaches a shared response cache.
func WithRSSCache(c *Cache) RSSOption {
	return func(s *RSSSource) { s.cache = c }
}

// NewRSSSource creates a feed-backed news adapter.
func NewRSSSource(opts ...RSSOption) *RSSSource {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 10 * time.Second}
	s := &RSSSource{
		feedURL: DefaultNewsFeedURL,
		parser:  parser,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RSSSource) Type() models.SourceType { return models.SourceNews }

// Search reads the feed and keeps entries mentioning the query. An empty
// query keeps everything up to count.
func (s *RSSSource) Search(ctx context.Context, query string, count int) (*models.SearchResult, error) {
	if cached, ok := s.cache.Get(query, models.SourceNews); ok {
		return cached, nil
	}

	feed, err := s.parser.ParseURLWithContext(s.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("rss fetch %s: %w", s.feedURL, err)
	}

	if count <= 0 {
		count = 5
	}
	terms := strings.Fields(strings.ToLower(query))

	result := &models.SearchResult{}
	for _, entry := range feed.Items {
		if len(result.Items) >= count {
			break
		}
		desc := entry.Description
		if desc == "" {
			desc = entry.Content
		}
		if !matchesAny(strings.ToLower(entry.Title+" "+desc), terms) {
			continue
		}
		item := models.ContentItem{
			Title:       entry.Title,
			Description: StripHTML(desc),
			Link:        entry.Link,
			Source:      models.SourceNews,
			BlogName:    feed.Title,
		}
		if entry.PublishedParsed != nil {
			item.PublishedAt = *entry.PublishedParsed
		}
		result.Items = append(result.Items, item)
	}
	result.Total = len(result.Items)

	s.cache.Put(query, models.SourceNews, result)
	return result, nil
}

// matchesAny reports whether the text contains at least one query term.
// No terms means no filter.
func matchesAny(text string, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
