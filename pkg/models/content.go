package models

import "time"

// SourceType identifies the external backend a content item came from.
type SourceType string

const (
	SourceBlog        SourceType = "blog"
	SourceWebDocument SourceType = "web_document"
	SourceNews        SourceType = "news"
	SourceVideo       SourceType = "video"
)

// AllSourceTypes returns every known source type in display order.
func AllSourceTypes() []SourceType {
	return []SourceType{SourceVideo, SourceBlog, SourceWebDocument, SourceNews}
}

// ContentItem is a normalized search/video/news result. Items are created
// fresh on every fetch (or restored verbatim from cache) and are never
// mutated afterwards.
type ContentItem struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Link        string     `json:"link"` // unique identity for dedup
	Source      SourceType `json:"source_type"`

	// Provenance, display only — never scored.
	ChannelName string    `json:"channel_name,omitempty"`
	BlogName    string    `json:"blog_name,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// SearchResult is the normalized response of a single source adapter.
type SearchResult struct {
	Items []ContentItem `json:"items"`
	Total int           `json:"total"`
}

// Topic is a named unit of instructional content to find material for.
// LocalName carries the localized (Korean) form used for Naver queries.
type Topic struct {
	Name        string `json:"name"`
	LocalName   string `json:"local_name,omitempty"`
	Description string `json:"description,omitempty"`
}
