// Package api provides the HTTP REST API server for learnletter.
//
// It exposes endpoints for the curriculum, learning material search,
// newsletter generation and download, and WebSocket progress streaming.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/minsoolab/learnletter/internal/config"
	"github.com/minsoolab/learnletter/internal/curriculum"
	"github.com/minsoolab/learnletter/internal/llm"
	"github.com/minsoolab/learnletter/internal/newsletter"
	"github.com/minsoolab/learnletter/internal/search"
	"github.com/minsoolab/learnletter/pkg/models"
)

// Server is the HTTP API server.
type Server struct {
	router  chi.Router
	cfg     *config.Config
	finder  *search.Finder
	builder *newsletter.Builder
	llm     *llm.Router // nil when no provider is configured
	wsHub   *WSHub
	version string
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config) (*Server, error) {
	finder, builder, router := Assemble(cfg)

	srv := &Server{
		cfg:     cfg,
		finder:  finder,
		builder: builder,
		llm:     router,
		wsHub:   NewWSHub(),
		version: "dev",
	}

	srv.router = srv.buildRouter()
	return srv, nil
}

// Assemble wires the search, LLM and newsletter layers from configuration.
// A missing LLM provider is not fatal: the section generator falls back to
// placeholder prose and the rest of the pipeline still works.
func Assemble(cfg *config.Config) (*search.Finder, *newsletter.Builder, *llm.Router) {
	cache := search.NewCache(cfg.Search.CacheTTL)

	var sources []search.Source
	for _, st := range []models.SourceType{models.SourceBlog, models.SourceWebDocument, models.SourceNews} {
		src, err := search.NewNaverSource(st, cfg.Search.NaverClientID, cfg.Search.NaverClientSecret,
			search.WithNaverCache(cache))
		if err != nil {
			continue
		}
		sources = append(sources, src)
	}
	sources = append(sources, search.NewYouTubeSource(cfg.Search.YouTubeKey, search.WithYouTubeCache(cache)))

	selector := search.NewSelector(search.NewScorer(nil), nil)
	finder := search.NewFinder(sources, selector,
		search.WithFinderQuery(cfg.Search.Query),
		search.WithFinderMaxTotal(cfg.Search.MaxMaterials))

	router, err := llm.NewRouterFromConfig(cfg)
	if err != nil {
		log.Printf("api: no LLM provider configured, sections will use placeholders: %v", err)
		router = nil
	}

	opts := &llm.ChatOptions{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}
	var chatter newsletter.Chatter
	if router != nil {
		chatter = router
	}
	sections := newsletter.NewSectionGenerator(chatter, opts)

	// News digest prefers NewsAPI; without a key the public RSS feed
	// still supplies articles.
	var newsSource search.Source
	if cfg.Search.NewsAPIKey != "" {
		newsSource = search.NewNewsAPISource(cfg.Search.NewsAPIKey, search.WithNewsAPICache(cache))
	} else {
		rssOpts := []search.RSSOption{search.WithRSSCache(cache)}
		if cfg.Search.NewsFeedURL != "" {
			rssOpts = append(rssOpts, search.WithRSSFeedURL(cfg.Search.NewsFeedURL))
		}
		newsSource = search.NewRSSSource(rssOpts...)
	}

	builder := newsletter.NewBuilder(finder, sections,
		newsletter.WithTitle(cfg.Newsletter.Title),
		newsletter.WithNewsSource(newsSource))

	return finder, builder, router
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start WebSocket hub
	go s.wsHub.Run()

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Curriculum
		r.Get("/curriculum", s.handleCurriculum)
		r.Get("/curriculum/current", s.handleCurrentWeek)

		// Learning materials
		r.Get("/materials", s.handleMaterials)

		// Newsletter
		r.Post("/newsletter", s.handleNewsletter)
		r.Get("/newsletter/download", s.handleNewsletterDownload)

		// Configuration
		r.Get("/config/keys", s.handleConfigKeys)

		// WebSocket
		r.Get("/ws", s.handleWebSocket)
	})

	r.Get("/ws", s.handleWebSocket)

	// Minimal built-in index page
	r.Get("/", s.handleIndex)

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// NewsletterRequest is the body for POST /api/v1/newsletter.
// A zero or missing week means the current curriculum week.
type NewsletterRequest struct {
	Week int `json:"week,omitempty"`
}

// CurriculumResponse lists all weeks plus the one currently in rotation.
type CurriculumResponse struct {
	Weeks       []models.Week `json:"weeks"`
	CurrentWeek int           `json:"current_week"`
	TotalWeeks  int           `json:"total_weeks"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":       "ok",
			"version":      s.version,
			"current_week": curriculum.CurrentWeek().Number,
			"llm":          s.llm != nil,
		},
	})
}

func (s *Server) handleCurriculum(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: CurriculumResponse{
			Weeks:       curriculum.All(),
			CurrentWeek: curriculum.CurrentWeek().Number,
			TotalWeeks:  curriculum.TotalWeeks,
		},
	})
}

func (s *Server) handleCurrentWeek(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    curriculum.CurrentWeek(),
	})
}

func (s *Server) handleMaterials(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("topic"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	topic := findCurriculumTopic(name)

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	items := s.finder.BestMaterials(ctx, topic)
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"topic":     topic,
			"materials": items,
		},
	})
}

func (s *Server) handleNewsletter(w http.ResponseWriter, r *http.Request) {
	var req NewsletterRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	week, err := s.resolveWeek(req.Week)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	s.wsHub.Broadcast(WSMessage{
		Type: "newsletter_started",
		Data: map[string]interface{}{"week": week.Number, "title": week.Title},
	})

	issue, err := s.builder.Generate(ctx, week)
	if err != nil {
		s.wsHub.Broadcast(WSMessage{
			Type: "newsletter_failed",
			Data: map[string]interface{}{"week": week.Number, "error": err.Error()},
		})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.wsHub.Broadcast(WSMessage{
		Type: "newsletter_complete",
		Data: map[string]interface{}{"week": week.Number, "filename": newsletter.Filename(week.Number)},
	})

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    issue,
	})
}

func (s *Server) handleNewsletterDownload(w http.ResponseWriter, r *http.Request) {
	weekNum := 0
	if v := r.URL.Query().Get("week"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid week; use a number between 1 and 8")
			return
		}
		weekNum = n
	}

	week, err := s.resolveWeek(weekNum)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	issue, err := s.builder.Generate(ctx, week)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", newsletter.Filename(week.Number)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(issue.HTML)); err != nil {
		log.Printf("failed to write newsletter download: %v", err)
	}
}

func (s *Server) handleConfigKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    config.CheckAPIKeys(s.cfg),
	})
}

// resolveWeek maps a request week number to a curriculum week. Zero means
// the week currently in rotation.
func (s *Server) resolveWeek(n int) (models.Week, error) {
	if n == 0 {
		return curriculum.CurrentWeek(), nil
	}
	if n < 1 || n > curriculum.TotalWeeks {
		return models.Week{}, fmt.Errorf("week must be between 1 and %d", curriculum.TotalWeeks)
	}
	return curriculum.Week(n), nil
}

// findCurriculumTopic resolves a topic query against the curriculum so a
// known topic keeps its Korean local name for Naver queries. Unknown names
// become an ad-hoc topic searched as given.
func findCurriculumTopic(name string) models.Topic {
	lower := strings.ToLower(name)
	for _, week := range curriculum.All() {
		for _, t := range week.Topics {
			if strings.ToLower(t.Name) == lower || t.LocalName == name {
				return t
			}
		}
	}
	return models.Topic{Name: name, LocalName: name}
}

// ============================================================
// Index page
// ============================================================

const indexPage = `<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<title>learnletter</title>
<style>
  body { font-family: -apple-system, 'Malgun Gothic', sans-serif; max-width: 720px; margin: 40px auto; color: #262730; }
  h1 { color: #F63366; }
  code { background: #f0f2f6; padding: 2px 6px; border-radius: 4px; }
  li { margin: 8px 0; }
</style>
</head>
<body>
<h1>📬 learnletter</h1>
<p>스트림릿 주간 학습 뉴스레터 생성기 — 이번 주는 제{{.Week}}주차 「{{.Title}}」입니다.</p>
<ul>
  <li><code>GET /health</code></li>
  <li><code>GET /api/v1/curriculum</code></li>
  <li><code>GET /api/v1/materials?topic=Installation</code></li>
  <li><code>POST /api/v1/newsletter</code></li>
  <li><code>GET /api/v1/newsletter/download?week=1</code></li>
  <li><code>GET /ws</code> (진행 상황 스트리밍)</li>
</ul>
</body>
</html>
`

var indexTmpl = template.Must(template.New("index").Parse(indexPage))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	week := curriculum.CurrentWeek()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, map[string]interface{}{
		"Week":  week.Number,
		"Title": week.Title,
	}); err != nil {
		log.Printf("failed to render index page: %v", err)
	}
}

// ============================================================
// Helpers
// ============================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
