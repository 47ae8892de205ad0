package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/minsoolab/learnletter/internal/config"
	"github.com/minsoolab/learnletter/internal/curriculum"
	"github.com/minsoolab/learnletter/internal/newsletter"
	"github.com/minsoolab/learnletter/internal/search"
	"github.com/minsoolab/learnletter/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Test Helpers
// ════════════════════════════════════════════════════════════════════

// stubSource serves canned items so handlers run without hitting the
// network.
type stubSource struct {
	typ   models.SourceType
	items []models.ContentItem
}

func (s *stubSource) Type() models.SourceType { return s.typ }

func (s *stubSource) Search(ctx context.Context, query string, count int) (*models.SearchResult, error) {
	return &models.SearchResult{Items: s.items, Total: len(s.items)}, nil
}

func testItems(typ models.SourceType, n int) []models.ContentItem {
	items := make([]models.ContentItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, models.ContentItem{
			Title:       "스트림릿 차트 완벽 가이드 " + string(rune('A'+i)),
			Description: "streamlit으로 대시보드 차트를 만드는 실전 튜토리얼입니다. 예제 코드와 함께 단계별로 설명합니다.",
			Link:        "https://example.com/" + string(typ) + "/" + string(rune('a'+i)),
			Source:      typ,
			PublishedAt: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		})
	}
	return items
}

func testServer(t *testing.T) *Server {
	t.Helper()

	sources := []search.Source{
		&stubSource{typ: models.SourceBlog, items: testItems(models.SourceBlog, 3)},
		&stubSource{typ: models.SourceVideo, items: testItems(models.SourceVideo, 3)},
	}
	finder := search.NewFinder(sources, search.NewSelector(search.NewScorer(nil), nil))
	sections := newsletter.NewSectionGenerator(nil, nil)
	builder := newsletter.NewBuilder(finder, sections)

	srv := &Server{
		cfg:     &config.Config{},
		finder:  finder,
		builder: builder,
		wsHub:   NewWSHub(),
		version: "test",
	}
	go srv.wsHub.Run()
	srv.router = srv.buildRouter()

	return srv
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	return rec
}

// ════════════════════════════════════════════════════════════════════
// Health and index
// ════════════════════════════════════════════════════════════════════

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Error("expected success=true")
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected data shape: %T", resp.Data)
	}
	if data["status"] != "ok" {
		t.Errorf("status field: got %v, want ok", data["status"])
	}
	if data["llm"] != false {
		t.Errorf("llm field: got %v, want false for unconfigured server", data["llm"])
	}
}

func TestIndexPageListsEndpoints(t *testing.T) {
	srv := testServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "learnletter") {
		t.Error("index page should name the service")
	}
	if !strings.Contains(body, "/api/v1/newsletter") {
		t.Error("index page should list the newsletter endpoint")
	}
}

// ════════════════════════════════════════════════════════════════════
// Curriculum endpoints
// ════════════════════════════════════════════════════════════════════

func TestCurriculumEndpoint(t *testing.T) {
	srv := testServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/api/v1/curriculum", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var resp struct {
		Success bool               `json:"success"`
		Data    CurriculumResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data.Weeks) != curriculum.TotalWeeks {
		t.Errorf("weeks: got %d, want %d", len(resp.Data.Weeks), curriculum.TotalWeeks)
	}
	if resp.Data.CurrentWeek < 1 || resp.Data.CurrentWeek > curriculum.TotalWeeks {
		t.Errorf("current_week out of range: %d", resp.Data.CurrentWeek)
	}
}

func TestCurrentWeekEndpoint(t *testing.T) {
	srv := testServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/api/v1/curriculum/current", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var resp struct {
		Success bool        `json:"success"`
		Data    models.Week `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Number < 1 || len(resp.Data.Topics) == 0 {
		t.Errorf("incomplete week: %+v", resp.Data)
	}
}

// ════════════════════════════════════════════════════════════════════
// Materials endpoint
// ════════════════════════════════════════════════════════════════════

func TestMaterialsRequiresTopic(t *testing.T) {
	srv := testServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/api/v1/materials", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Success {
		t.Error("expected success=false")
	}
}

func TestMaterialsEndpoint(t *testing.T) {
	srv := testServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/api/v1/materials?topic=Installation", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Topic     models.Topic         `json:"topic"`
			Materials []models.ContentItem `json:"materials"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Topic.LocalName == "" {
		t.Error("known curriculum topic should resolve its local name")
	}
	if len(resp.Data.Materials) == 0 {
		t.Error("expected materials from stub sources")
	}
}

func TestFindCurriculumTopic(t *testing.T) {
	got := findCurriculumTopic("installation")
	if got.LocalName != "설치 및 환경 설정" {
		t.Errorf("case-insensitive lookup failed: %+v", got)
	}

	got = findCurriculumTopic("무작위 주제")
	if got.Name != "무작위 주제" || got.LocalName != "무작위 주제" {
		t.Errorf("unknown topic should pass through: %+v", got)
	}
}

// ════════════════════════════════════════════════════════════════════
// Newsletter endpoints
// ════════════════════════════════════════════════════════════════════

func TestNewsletterEndpoint(t *testing.T) {
	srv := testServer(t)
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/newsletter", `{"week":3}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool              `json:"success"`
		Data    models.Newsletter `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Week != 3 {
		t.Errorf("week: got %d, want 3", resp.Data.Week)
	}
	if !strings.Contains(resp.Data.HTML, "제3주차") {
		t.Error("rendered HTML should carry the week number")
	}
}

func TestNewsletterDefaultsToCurrentWeek(t *testing.T) {
	srv := testServer(t)
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/newsletter", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool              `json:"success"`
		Data    models.Newsletter `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Week != curriculum.CurrentWeek().Number {
		t.Errorf("week: got %d, want current %d", resp.Data.Week, curriculum.CurrentWeek().Number)
	}
}

func TestNewsletterRejectsOutOfRangeWeek(t *testing.T) {
	srv := testServer(t)

	for _, body := range []string{`{"week":9}`, `{"week":-1}`} {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/newsletter", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: got %d, want 400", body, rec.Code)
		}
	}
}

func TestNewsletterDownload(t *testing.T) {
	srv := testServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/api/v1/newsletter/download?week=2", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, `attachment`) || !strings.Contains(cd, "streamlit_weekly_2.html") {
		t.Errorf("Content-Disposition: got %q", cd)
	}
	if !strings.Contains(rec.Body.String(), "제2주차") {
		t.Error("downloaded HTML should carry the week number")
	}
}

func TestNewsletterDownloadRejectsBadWeek(t *testing.T) {
	srv := testServer(t)

	for _, q := range []string{"week=abc", "week=99"} {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/newsletter/download?"+q, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("query %s: got %d, want 400", q, rec.Code)
		}
	}
}

// ════════════════════════════════════════════════════════════════════
// Config keys endpoint
// ════════════════════════════════════════════════════════════════════

func TestConfigKeysEndpoint(t *testing.T) {
	srv := testServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/api/v1/config/keys", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var resp struct {
		Success bool               `json:"success"`
		Data    []config.KeyStatus `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 5 {
		t.Errorf("key statuses: got %d, want 5", len(resp.Data))
	}
	for _, k := range resp.Data {
		if k.IsSet {
			t.Errorf("key %s should be unset on an empty config", k.Name)
		}
	}
}

// ════════════════════════════════════════════════════════════════════
// WebSocket hub
// ════════════════════════════════════════════════════════════════════

// waitClientCount spins until the hub goroutine has processed enough
// register/unregister events to reach n clients.
func waitClientCount(t *testing.T, hub *WSHub, n int) {
	t.Helper()
	deadline := time.After(time.Second)
	for hub.ClientCount() != n {
		select {
		case <-deadline:
			t.Fatalf("hub never reached %d clients (have %d)", n, hub.ClientCount())
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestWSHubBroadcast(t *testing.T) {
	hub := NewWSHub()
	go hub.Run()

	client := newWSClient(hub)
	hub.Register(client)
	waitClientCount(t, hub, 1)

	hub.Broadcast(WSMessage{Type: "newsletter_started", Data: map[string]interface{}{"week": 1}})

	select {
	case msg := <-client.send:
		if msg.Type != "newsletter_started" {
			t.Errorf("type: got %q", msg.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("broadcast never reached the client")
	}

	hub.Unregister(client)
	waitClientCount(t, hub, 0)

	select {
	case <-client.done:
	default:
		t.Error("unregistered client should be marked done")
	}
}

func TestWSHubEvictedClientRepliesSafely(t *testing.T) {
	hub := NewWSHub()
	go hub.Run()

	// One-slot buffer so the second broadcast finds the client slow.
	client := &WSClient{hub: hub, send: make(chan WSMessage, 1), done: make(chan struct{})}
	hub.Register(client)
	waitClientCount(t, hub, 1)

	hub.Broadcast(WSMessage{Type: "newsletter_started"})
	hub.Broadcast(WSMessage{Type: "newsletter_complete"})
	waitClientCount(t, hub, 0)

	select {
	case <-client.done:
	default:
		t.Fatal("evicted client should be marked done")
	}

	// The read pump can still receive client messages after eviction; its
	// replies must be dropped, not panic. Exercise both reply shapes and
	// the buffer-full path.
	client.trySend(WSMessage{Type: "pong"})
	client.trySend(WSMessage{Type: "subscribed", Data: map[string]interface{}{"week": 2}})

	// Read pump teardown after eviction is a no-op, not a double close.
	hub.Unregister(client)
	client.close()
}

// ════════════════════════════════════════════════════════════════════
// Assembly
// ════════════════════════════════════════════════════════════════════

func TestNewServerWithoutCredentials(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel>` +
			`<title>Release Notes</title>` +
			`<item><title>Streamlit 1.40</title><link>https://example.com/1.40</link>` +
			`<description>New release</description></item>` +
			`</channel></rss>`))
	}))
	defer feed.Close()

	cfg := &config.Config{}
	cfg.Search.Query = "스트림릿"
	cfg.Search.CacheTTL = time.Hour
	cfg.Search.NewsFeedURL = feed.URL

	srv, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if srv.llm != nil {
		t.Error("expected no LLM router without provider config")
	}

	// Unconfigured sources fail upstream, so the fallback materials
	// still produce a complete newsletter.
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/newsletter", `{"week":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Error("expected success=true")
	}
}
