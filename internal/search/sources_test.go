package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/minsoolab/learnletter/pkg/models"
)

// ── Source adapters ──

func TestNaverSourceRejectsUnsupportedType(t *testing.T) {
	if _, err := NewNaverSource(models.SourceVideo, "id", "secret"); err == nil {
		t.Error("expected an error for a vertical Naver does not serve")
	}
}

func TestNaverSourceRequiresCredentials(t *testing.T) {
	src, err := NewNaverSource(models.SourceBlog, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := src.Search(context.Background(), "streamlit", 5); !errors.Is(err, ErrNoCredentials) {
		t.Errorf("got %v, want ErrNoCredentials", err)
	}
}

func TestNaverSourceDecodesAndCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if got := r.Header.Get("X-Naver-Client-Id"); got != "id" {
			t.Errorf("client id header = %q", got)
		}
		if got := r.Header.Get("X-Naver-Client-Secret"); got != "secret" {
			t.Errorf("client secret header = %q", got)
		}
		if got := r.URL.Query().Get("sort"); got != "sim" {
			t.Errorf("sort = %q, want sim", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"total": 2,
			"items": [
				{"title": "Streamlit 입문", "link": "https://blog.example.com/1",
				 "description": "기초 정리", "bloggername": "dev-notes", "postdate": "20250115"},
				{"title": "Charts guide", "link": "https://blog.example.com/2",
				 "description": "line and bar charts", "bloggername": "viz", "postdate": "20250207"}
			]
		}`))
	}))
	defer srv.Close()

	src, err := NewNaverSource(models.SourceBlog, "id", "secret",
		WithNaverBaseURL(srv.URL),
		WithNaverCache(NewCache(DefaultCacheTTL)))
	if err != nil {
		t.Fatal(err)
	}

	got, err := src.Search(context.Background(), "streamlit", 5)
	if err != nil {
		t.Fatal(err)
	}
	if got.Total != 2 || len(got.Items) != 2 {
		t.Fatalf("got %d items / total %d, want 2 / 2", len(got.Items), got.Total)
	}
	first := got.Items[0]
	if first.Source != models.SourceBlog || first.BlogName != "dev-notes" {
		t.Errorf("first item = %+v", first)
	}
	if first.PublishedAt.IsZero() {
		t.Error("postdate was not parsed")
	}

	// Second identical call must be served from the cache.
	if _, err := src.Search(context.Background(), "streamlit", 5); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 1 {
		t.Errorf("backend hit %d times, want 1", hits.Load())
	}
}

func TestNaverSourceSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	src, err := NewNaverSource(models.SourceNews, "id", "secret", WithNaverBaseURL(srv.URL))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := src.Search(context.Background(), "streamlit", 5); !errors.Is(err, ErrBadStatus) {
		t.Errorf("got %v, want ErrBadStatus", err)
	}
}

func TestYouTubeSourceBuildsWatchLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("type") != "video" || q.Get("videoEmbeddable") != "true" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if q.Get("relevanceLanguage") != "en" {
			t.Errorf("relevanceLanguage = %q, want en", q.Get("relevanceLanguage"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"items": [
				{"id": {"videoId": "abc123"},
				 "snippet": {"title": "Streamlit crash course", "description": "full walkthrough",
				             "channelTitle": "DevTube", "publishedAt": "2025-02-01T10:00:00Z"}},
				{"id": {},
				 "snippet": {"title": "a channel, not a video"}}
			]
		}`))
	}))
	defer srv.Close()

	src := NewYouTubeSource("key",
		WithYouTubeBaseURL(srv.URL),
		WithYouTubeLanguage("en"))

	got, err := src.Search(context.Background(), "streamlit tutorial", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("got %d items, want 1 (entries without a videoId are skipped)", len(got.Items))
	}
	item := got.Items[0]
	if item.Link != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("link = %q", item.Link)
	}
	if item.Source != models.SourceVideo || item.ChannelName != "DevTube" {
		t.Errorf("item = %+v", item)
	}
}

func TestYouTubeSourceRequiresKey(t *testing.T) {
	src := NewYouTubeSource("")
	if _, err := src.Search(context.Background(), "streamlit", 5); !errors.Is(err, ErrNoCredentials) {
		t.Errorf("got %v, want ErrNoCredentials", err)
	}
}

func TestNewsAPISourceChecksStatusField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "error", "code": "apiKeyInvalid"}`))
	}))
	defer srv.Close()

	src := NewNewsAPISource("key", WithNewsAPIBaseURL(srv.URL))
	if _, err := src.Search(context.Background(), "streamlit", 5); !errors.Is(err, ErrBadStatus) {
		t.Errorf("got %v, want ErrBadStatus", err)
	}
}

func TestNewsAPISourceDecodesArticles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("sortBy") != "publishedAt" || q.Get("from") == "" || q.Get("to") == "" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "ok",
			"totalResults": 1,
			"articles": [
				{"title": "Streamlit 1.40 released", "description": "what changed",
				 "url": "https://news.example.com/1", "publishedAt": "2025-03-10T08:30:00Z",
				 "source": {"name": "Tech Daily"}}
			]
		}`))
	}))
	defer srv.Close()

	src := NewNewsAPISource("key", WithNewsAPIBaseURL(srv.URL))
	got, err := src.Search(context.Background(), "streamlit", 5)
	if err != nil {
		t.Fatal(err)
	}
	if got.Total != 1 || len(got.Items) != 1 {
		t.Fatalf("got %d items / total %d, want 1 / 1", len(got.Items), got.Total)
	}
	item := got.Items[0]
	if item.Source != models.SourceNews || item.BlogName != "Tech Daily" || item.PublishedAt.IsZero() {
		t.Errorf("item = %+v", item)
	}
}

func TestRSSSourceFiltersByQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
  <title>Release Notes</title>
  <item>
    <title>Streamlit 1.41 is out</title>
    <link>https://feed.example.com/1</link>
    <description>&lt;p&gt;New chart options&lt;/p&gt;</description>
  </item>
  <item>
    <title>Unrelated announcement</title>
    <link>https://feed.example.com/2</link>
    <description>Company news</description>
  </item>
</channel></rss>`))
	}))
	defer srv.Close()

	src := NewRSSSource(WithRSSFeedURL(srv.URL))
	got, err := src.Search(context.Background(), "streamlit", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(got.Items))
	}
	item := got.Items[0]
	if item.Title != "Streamlit 1.41 is out" || item.BlogName != "Release Notes" {
		t.Errorf("item = %+v", item)
	}
	if item.Description != "New chart options" {
		t.Errorf("description was not stripped of markup: %q", item.Description)
	}

	// A multi-word query keeps entries matching any term.
	got, err = src.Search(context.Background(), "streamlit data science", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("multi-word query: got %d items, want 1", len(got.Items))
	}
}

func TestRSSSourceClientHasTimeout(t *testing.T) {
	src := NewRSSSource()
	if src.parser.Client == nil || src.parser.Client.Timeout == 0 {
		t.Error("feed client must carry a timeout so a hung feed cannot block callers without deadlines")
	}
}
