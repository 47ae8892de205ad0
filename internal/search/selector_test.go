package search

import (
	"fmt"
	"testing"

	"github.com/minsoolab/learnletter/pkg/models"
)

// ── Selector ──

func newTestSelector() *Selector {
	return NewSelector(NewScorer(nil), nil)
}

// videoItems builds n high-scoring video candidates with distinct links.
func videoItems(n int) []models.ContentItem {
	items := make([]models.ContentItem, n)
	for i := range items {
		items[i] = models.ContentItem{
			Title:       fmt.Sprintf("Streamlit tutorial part %d", i+1),
			Description: "A thorough guide to building Streamlit apps with worked examples, covering widgets, layout, caching and deployment end to end.",
			Link:        fmt.Sprintf("https://example.com/video/%d", i+1),
			Source:      models.SourceVideo,
		}
	}
	return items
}

func TestSelectBoundedOutput(t *testing.T) {
	sel := newTestSelector()
	results := map[models.SourceType]Outcome{
		models.SourceVideo: {Result: &models.SearchResult{Items: videoItems(10)}},
	}
	got := sel.Select(results, "", 2)
	if len(got) > 2 {
		t.Errorf("Select returned %d items, max_total was 2", len(got))
	}

	if got := sel.Select(nil, "", 4); got != nil {
		t.Errorf("Select on empty results: got %v, want nil", got)
	}
}

func TestSelectVideoCapBindsBeforeMaxTotal(t *testing.T) {
	sel := newTestSelector()
	results := map[models.SourceType]Outcome{
		models.SourceVideo: {Result: &models.SearchResult{Items: videoItems(10)}},
	}
	got := sel.Select(results, "", 5)
	if len(got) != DefaultSourceCaps[models.SourceVideo] {
		t.Fatalf("expected the video cap (%d) to bind, got %d items",
			DefaultSourceCaps[models.SourceVideo], len(got))
	}
	for _, item := range got {
		if item.Source != models.SourceVideo {
			t.Errorf("unexpected source type %s", item.Source)
		}
	}
}

func TestSelectNoDuplicateLinks(t *testing.T) {
	sel := newTestSelector()
	dup := videoItems(2)
	dup[1].Link = dup[0].Link // same identity, listed twice
	results := map[models.SourceType]Outcome{
		models.SourceVideo: {Result: &models.SearchResult{Items: dup}},
	}
	got := sel.Select(results, "", 4)
	seen := make(map[string]bool)
	for _, item := range got {
		if seen[item.Link] {
			t.Fatalf("duplicate link selected: %s", item.Link)
		}
		seen[item.Link] = true
	}
}

func TestSelectSkipsErroredSources(t *testing.T) {
	sel := newTestSelector()
	results := map[models.SourceType]Outcome{
		models.SourceNews:  {Err: fmt.Errorf("backend down")},
		models.SourceVideo: {Result: &models.SearchResult{Items: videoItems(2)}},
	}
	got := sel.Select(results, "", 4)
	if len(got) != 2 {
		t.Fatalf("expected 2 items from the healthy source, got %d", len(got))
	}
	for _, item := range got {
		if item.Source == models.SourceNews {
			t.Errorf("item selected from errored source")
		}
	}
}

func TestSelectFallbackRelaxationIgnoresFloorNotCaps(t *testing.T) {
	sel := newTestSelector()
	// Titles full of trouble patterns push scores below the floor.
	low := make([]models.ContentItem, 4)
	for i := range low {
		low[i] = models.ContentItem{
			Title:       fmt.Sprintf("error problem bug issue help? %d", i+1),
			Description: "x",
			Link:        fmt.Sprintf("https://example.com/low/%d", i+1),
			Source:      models.SourceNews,
		}
	}
	results := map[models.SourceType]Outcome{
		models.SourceNews: {Result: &models.SearchResult{Items: low}},
	}

	got := sel.Select(results, "", 4)
	// The floor is relaxed, but the news cap (1) still binds, so the
	// relaxation cannot reach its target of 2.
	if len(got) != 1 {
		t.Fatalf("expected the news cap to hold during relaxation, got %d items", len(got))
	}
}

func TestSelectFallbackFillsToTwo(t *testing.T) {
	sel := newTestSelector()
	low := make([]models.ContentItem, 3)
	for i := range low {
		low[i] = models.ContentItem{
			Title:       fmt.Sprintf("error problem bug issue help? %d", i+1),
			Description: "x",
			Link:        fmt.Sprintf("https://example.com/low/%d", i+1),
			Source:      models.SourceBlog,
		}
	}
	results := map[models.SourceType]Outcome{
		models.SourceBlog: {Result: &models.SearchResult{Items: low}},
	}

	got := sel.Select(results, "", 4)
	if len(got) != relaxTarget {
		t.Fatalf("expected relaxation to fill to %d items, got %d", relaxTarget, len(got))
	}
}

func TestSelectPrefersHigherScores(t *testing.T) {
	sel := newTestSelector()
	strong := models.ContentItem{
		Title:       "Streamlit tutorial guide",
		Description: "A long, complete walkthrough of the framework with examples for widgets, charts, layout, caching and deployment in production settings.",
		Link:        "https://example.com/strong",
		Source:      models.SourceBlog,
	}
	weak := models.ContentItem{
		Title:       "Mildly related post",
		Description: "short note",
		Link:        "https://example.com/weak",
		Source:      models.SourceBlog,
	}
	results := map[models.SourceType]Outcome{
		models.SourceBlog: {Result: &models.SearchResult{Items: []models.ContentItem{weak, strong}}},
	}

	got := sel.Select(results, "", 1)
	if len(got) != 1 || got[0].Link != strong.Link {
		t.Fatalf("expected the strong item first, got %+v", got)
	}
}
