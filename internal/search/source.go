package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/minsoolab/learnletter/pkg/models"
)

// Common errors returned by source adapters.
var (
	ErrNoCredentials = errors.New("search: API credentials not configured")
	ErrBadStatus     = errors.New("search: backend returned non-OK status")
)

// Source is one external content backend. Adapters normalize the backend's
// native response shape into ContentItems tagged with their source type, and
// consult the shared cache before issuing a network call. Failed calls are
// not cached, so transient backend errors are retried on the next request.
type Source interface {
	// Type returns the source type every item from this adapter carries.
	Type() models.SourceType

	// Search fetches up to count results for the query.
	Search(ctx context.Context, query string, count int) (*models.SearchResult, error)
}

// getJSON issues a GET request and decodes the JSON response body into out.
// Non-2xx statuses are reported as ErrBadStatus with the code attached.
func getJSON(ctx context.Context, client *http.Client, url string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %d: %s", ErrBadStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// StripHTML removes markup and decodes entities from backend-supplied text.
// Naver wraps matched terms in <b> tags; those must never leak into scoring
// or display.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
