package search

import (
	"context"
	"log"

	"github.com/minsoolab/learnletter/pkg/models"
)

// perSourceFetchCount is how many raw results each adapter is asked for;
// the selector trims the merged set down to MaxTotal afterwards.
const perSourceFetchCount = 8

// Finder is the single entry point the newsletter pipeline calls: it runs
// fetch → score → select for one topic and never returns an empty list.
type Finder struct {
	sources  []Source
	selector *Selector
	query    string // anchor query sent to every source
	maxTotal int
}

// FinderOption configures a Finder.
type FinderOption func(*Finder)

// WithFinderQuery overrides the anchor query (default "스트림릿", the
// localized subject name the Korean-language backends match best).
func WithFinderQuery(q string) FinderOption {
	return func(f *Finder) { f.query = q }
}

// WithFinderMaxTotal bounds the selection size per topic.
func WithFinderMaxTotal(n int) FinderOption {
	return func(f *Finder) { f.maxTotal = n }
}

// NewFinder creates a Finder over the given sources.
func NewFinder(sources []Source, selector *Selector, opts ...FinderOption) *Finder {
	f := &Finder{
		sources:  sources,
		selector: selector,
		query:    "스트림릿",
		maxTotal: DefaultMaxTotal,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// topicQuery composes the search text sent to every source: the anchor
// first, then the topic's localized name (the Korean backends match the
// local form far better than the English one).
func (f *Finder) topicQuery(topic models.Topic) string {
	name := topic.LocalName
	if name == "" {
		name = topic.Name
	}
	if name == "" {
		return f.query
	}
	return f.query + " " + name
}

// BestMaterials returns the selected learning materials for the topic.
// On total fetch failure (or an empty selection) it substitutes the fixed
// fallback set, so callers always receive a non-empty, bounded list. The
// substitution is logged, never surfaced.
func (f *Finder) BestMaterials(ctx context.Context, topic models.Topic) []models.ContentItem {
	results := FetchAll(ctx, f.topicQuery(topic), perSourceFetchCount, f.sources)

	materials := f.selector.Select(results, topic.Name, f.maxTotal)
	if len(materials) == 0 {
		log.Printf("search: no materials found for topic %q, using fallback set", topic.Name)
		return FallbackMaterials()
	}

	log.Printf("search: selected %d materials for topic %q", len(materials), topic.Name)
	return materials
}

// MaterialsForTopics fetches materials for each topic in order, keyed by
// topic name. Topics run sequentially on purpose: the per-topic fetch is
// already parallel across sources, and each topic's query caches its
// responses, so repeat generations within the TTL skip the network.
func (f *Finder) MaterialsForTopics(ctx context.Context, topics []models.Topic) map[string][]models.ContentItem {
	all := make(map[string][]models.ContentItem, len(topics))
	for _, topic := range topics {
		all[topic.Name] = f.BestMaterials(ctx, topic)
	}
	return all
}

// FallbackMaterials is the fixed set substituted when every backend fails;
// the newsletter downstream must never see an empty materials list.
func FallbackMaterials() []models.ContentItem {
	return []models.ContentItem{
		{
			Title:       "스트림릿(Streamlit) 기초: 데이터 애플리케이션 쉽게 만들기",
			Description: "파이썬으로 데이터 애플리케이션을 쉽게 만들 수 있는 Streamlit의 기본 사용법을 알아봅니다. 설치부터 첫 앱 만들기까지 단계별로 설명합니다.",
			Link:        "https://streamlit.io/docs/get-started",
			Source:      models.SourceBlog,
			BlogName:    "파이썬 개발자 블로그",
		},
		{
			Title:       "Streamlit Tutorial: Creating Interactive Web Apps",
			Description: "Learn how to build interactive web applications with Streamlit in Python. This tutorial covers the basics of using widgets, layouts, and data visualization.",
			Link:        "https://www.youtube.com/watch?v=B2iAodr0fOo",
			Source:      models.SourceVideo,
			ChannelName: "Streamlit Official",
		},
		{
			Title:       "데이터 과학자를 위한 스트림릿 대시보드 만들기",
			Description: "판다스, 맷플롯립, 플로틀리 등을 활용하여 데이터 분석 결과를 스트림릿으로 시각화하는 방법을 배웁니다.",
			Link:        "https://docs.streamlit.io/library/api-reference",
			Source:      models.SourceWebDocument,
			BlogName:    "데이터 사이언스 포털",
		},
	}
}
