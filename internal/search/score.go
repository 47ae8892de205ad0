package search

import (
	"strings"

	"github.com/minsoolab/learnletter/pkg/models"
)

// ------------------------------------------------------------------
// Educational-relevance scorer. Pure function over normalized items:
// no I/O, no side effects, identical inputs always score identically.
// The numeric weights are tuned defaults, not business rules.
// ------------------------------------------------------------------

// baseScore keeps keyword-free items above automatic rejection.
const baseScore = 10.0

// Keyword tiers indicating instructional intent. A match in the title earns
// the first increment, a match only elsewhere in the text the second.
var (
	highValueKeywords = []string{
		"tutorial", "튜토리얼", "guide", "가이드", "example", "예제",
		"how to", "사용법", "learn streamlit", "스트림릿 배우기",
	}
	mediumValueKeywords = []string{
		"course", "강좌", "lesson", "레슨", "class", "교실", "training", "트레이닝",
		"step by step", "단계별", "beginner", "초보자", "quickstart", "빠른 시작",
	}
	lowValueKeywords = []string{
		"tips", "팁", "tricks", "트릭", "best practices", "모범 사례",
		"documentation", "문서", "reference", "참조",
	}
)

// Tier increments: title match / text-only match.
const (
	highTitleBonus   = 8.0
	highTextBonus    = 6.0
	mediumTitleBonus = 5.0
	mediumTextBonus  = 4.0
	lowTitleBonus    = 3.0
	lowTextBonus     = 2.0
)

// topicKeywords maps a topic family to the terms that signal coverage of it.
var topicKeywords = map[string][]string{
	"introduction": {"introduction", "시작하기", "설치", "기본", "basic", "install"},
	"dataframe":    {"dataframe", "데이터프레임", "pandas", "table", "테이블"},
	"chart":        {"chart", "차트", "plot", "그래프", "visualization", "시각화", "matplotlib", "plotly"},
	"widget":       {"widget", "위젯", "input", "입력", "button", "버튼", "form", "폼"},
	"layout":       {"layout", "레이아웃", "column", "컬럼", "sidebar", "사이드바", "container", "컨테이너"},
	"state":        {"state", "상태", "session", "세션", "cache", "캐시", "memory", "메모리"},
	"deployment":   {"deploy", "배포", "share", "공유", "cloud", "클라우드", "docker", "도커"},
}

const (
	topicExactBonus   = 8.0
	topicKeywordBonus = 5.0
	anchorTitleBonus  = 10.0
	anchorDescBonus   = 5.0
)

// troublePatterns mark support questions rather than explanatory content.
// Each pattern found in the title costs troublePenalty.
var troublePatterns = []string{
	"?", "궁금", "문제", "에러", "오류", "해결", "질문", "안되", "않아",
	"실패", "이슈", "버그", "도와", "조언", "help", "error", "issue", "bug", "problem",
}

const troublePenalty = 2.0

// Description-length proxy for depth of explanation.
const (
	shortDescLimit   = 30
	longDescLimit    = 200
	shortDescPenalty = 2.0
	longDescBonus    = 3.0
)

// sourceWeights slightly favor video tutorials over document types.
// Unknown source types are weighted neutrally.
var sourceWeights = map[models.SourceType]float64{
	models.SourceVideo:       1.1,
	models.SourceWebDocument: 1.05,
	models.SourceBlog:        1.0,
	models.SourceNews:        1.0,
}

// Scorer assigns educational-relevance scores to content items. Anchor terms
// are the fixed subject every search is about; an item that never mentions
// them should not be promoted by generic tutorial language alone.
type Scorer struct {
	anchors []string
}

// DefaultAnchorTerms name the subject in both search languages.
var DefaultAnchorTerms = []string{"streamlit", "스트림릿"}

// NewScorer creates a scorer for the given anchor terms; nil uses the
// defaults. Terms are lowercased once up front.
func NewScorer(anchors []string) *Scorer {
	if len(anchors) == 0 {
		anchors = DefaultAnchorTerms
	}
	lowered := make([]string, len(anchors))
	for i, a := range anchors {
		lowered[i] = strings.ToLower(a)
	}
	return &Scorer{anchors: lowered}
}

// Score rates how useful the item is as learning material for the topic.
// Topic may be empty. Scores can go negative; the selector handles that.
func (s *Scorer) Score(item models.ContentItem, topic string) float64 {
	title := strings.ToLower(StripHTML(item.Title))
	desc := strings.ToLower(StripHTML(item.Description))
	full := title + " " + desc

	score := baseScore

	score += tierScore(title, full, highValueKeywords, highTitleBonus, highTextBonus)
	score += tierScore(title, full, mediumValueKeywords, mediumTitleBonus, mediumTextBonus)
	score += tierScore(title, full, lowValueKeywords, lowTitleBonus, lowTextBonus)

	if topic != "" {
		t := strings.ToLower(topic)
		if strings.Contains(full, t) {
			score += topicExactBonus
		}
		for family, keywords := range topicKeywords {
			if !strings.Contains(t, family) && !strings.Contains(family, t) {
				continue
			}
			for _, kw := range keywords {
				if strings.Contains(full, kw) {
					score += topicKeywordBonus
				}
			}
		}
	}

	for _, anchor := range s.anchors {
		if strings.Contains(title, anchor) {
			score += anchorTitleBonus
		} else if strings.Contains(desc, anchor) {
			score += anchorDescBonus
		}
	}

	score *= sourceWeight(item.Source)

	for _, pattern := range troublePatterns {
		if strings.Contains(title, pattern) {
			score -= troublePenalty
		}
	}

	switch n := len([]rune(desc)); {
	case n < shortDescLimit:
		score -= shortDescPenalty
	case n > longDescLimit:
		score += longDescBonus
	}

	return score
}

// tierScore adds the title bonus once per keyword found in the title, or the
// text bonus when the keyword appears only in the description.
func tierScore(title, full string, keywords []string, titleBonus, textBonus float64) float64 {
	var total float64
	for _, kw := range keywords {
		switch {
		case strings.Contains(title, kw):
			total += titleBonus
		case strings.Contains(full, kw):
			total += textBonus
		}
	}
	return total
}

func sourceWeight(t models.SourceType) float64 {
	if w, ok := sourceWeights[t]; ok {
		return w
	}
	return 1.0
}
