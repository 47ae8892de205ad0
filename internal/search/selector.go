package search

import (
	"log"
	"sort"

	"github.com/minsoolab/learnletter/pkg/models"
)

// ScoredItem pairs a relevance score with its item. Transient — it exists
// only while the selector is ranking.
type ScoredItem struct {
	Score float64
	Item  models.ContentItem
}

// DefaultSourceCaps bounds how many items one source type may contribute.
// Video tutorials get the most room, news the least.
var DefaultSourceCaps = map[models.SourceType]int{
	models.SourceVideo:       3,
	models.SourceBlog:        2,
	models.SourceWebDocument: 2,
	models.SourceNews:        1,
}

const (
	// DefaultMaxTotal bounds the total selection per topic.
	DefaultMaxTotal = 4

	// minScore is the floor below which items are skipped on the first pass.
	minScore = 5.0

	// relaxTarget is the selection size the fallback relaxation aims for
	// when the thresholded pass came up short.
	relaxTarget = 2
)

// Selector ranks scored candidates and picks a small, source-diverse subset.
type Selector struct {
	scorer *Scorer
	caps   map[models.SourceType]int
}

// NewSelector creates a selector; nil caps use DefaultSourceCaps.
func NewSelector(scorer *Scorer, caps map[models.SourceType]int) *Selector {
	if caps == nil {
		caps = DefaultSourceCaps
	}
	return &Selector{scorer: scorer, caps: caps}
}

// Select flattens all successful results, scores them against the topic and
// picks up to maxTotal items honoring per-source caps and the score floor.
// When the thresholded walk selects fewer than two items, the floor is
// relaxed (caps, dedup and maxTotal still hold) and the selection is filled
// up to two from the remaining best candidates.
//
// Ties keep their enumeration order (stable sort, no secondary key); since
// map iteration over sources is unordered, equal-score ordering across
// sources is an accepted nondeterminism.
func (s *Selector) Select(results map[models.SourceType]Outcome, topic string, maxTotal int) []models.ContentItem {
	if maxTotal <= 0 {
		maxTotal = DefaultMaxTotal
	}

	var candidates []ScoredItem
	for source, outcome := range results {
		if outcome.Err != nil {
			log.Printf("search: skipping source %s: %v", source, outcome.Err)
			continue
		}
		if outcome.Result == nil || len(outcome.Result.Items) == 0 {
			log.Printf("search: source %s returned no items", source)
			continue
		}
		for _, item := range outcome.Result.Items {
			candidates = append(candidates, ScoredItem{
				Score: s.scorer.Score(item, topic),
				Item:  item,
			})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	var (
		selected  []models.ContentItem
		perSource = make(map[models.SourceType]int)
		seenLinks = make(map[string]bool)
	)

	take := func(si ScoredItem) bool {
		if seenLinks[si.Item.Link] {
			return false
		}
		if perSource[si.Item.Source] >= s.cap(si.Item.Source) {
			return false
		}
		selected = append(selected, si.Item)
		perSource[si.Item.Source]++
		seenLinks[si.Item.Link] = true
		return true
	}

	for _, si := range candidates {
		if len(selected) >= maxTotal {
			break
		}
		if si.Score < minScore {
			continue
		}
		take(si)
	}

	// Fallback relaxation: too few qualified, so ignore the floor but keep
	// every other constraint.
	if len(selected) < relaxTarget {
		for _, si := range candidates {
			if len(selected) >= relaxTarget || len(selected) >= maxTotal {
				break
			}
			take(si)
		}
	}

	return selected
}

func (s *Selector) cap(t models.SourceType) int {
	if c, ok := s.caps[t]; ok {
		return c
	}
	return 0
}
