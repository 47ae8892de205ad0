// Package newsletter assembles the weekly Streamlit learning newsletter:
// LLM-drafted editorial sections, curated learning materials, and the final
// HTML rendering.
package newsletter

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/minsoolab/learnletter/internal/llm"
	"github.com/minsoolab/learnletter/pkg/models"
)

// Chatter is the LLM surface the section generator needs. Both a single
// provider and the router satisfy it.
type Chatter interface {
	Chat(ctx context.Context, messages []llm.Message, opts *llm.ChatOptions) (*llm.Response, error)
}

const sectionSystemPrompt = "스트림릿 교육 콘텐츠 생성 전문가. 간결하고 실용적인 콘텐츠를 한국어로 작성합니다."

// Placeholder copy shown when no LLM is configured or drafting fails.
const (
	placeholderTip     = "이번 주 학습 팁을 준비하지 못했습니다. 공식 문서(docs.streamlit.io)를 참고해 주세요."
	placeholderProject = "이번 주 프로젝트 아이디어를 준비하지 못했습니다. 학습 주제를 활용한 작은 앱을 직접 만들어 보세요."
	placeholderNews    = "최신 소식을 준비하지 못했습니다."
	placeholderQA      = "이번 주 Q&A를 준비하지 못했습니다."
	placeholderCaution = "생성형 AI가 만든 코드는 실행 전에 반드시 직접 검증하세요. 민감한 데이터는 외부 서비스에 입력하지 않습니다."
)

// SectionGenerator drafts the editorial newsletter sections with an LLM.
// A nil client is valid: every section then falls back to placeholder copy.
type SectionGenerator struct {
	client Chatter
	opts   *llm.ChatOptions
}

// NewSectionGenerator creates a section generator. opts may be nil.
func NewSectionGenerator(client Chatter, opts *llm.ChatOptions) *SectionGenerator {
	return &SectionGenerator{client: client, opts: opts}
}

// draft runs one chat and returns the drafted text, or the placeholder when
// the client is missing or errors. Failures are logged, never fatal: a
// newsletter with placeholder copy still ships.
func (g *SectionGenerator) draft(ctx context.Context, name, prompt, placeholder string) string {
	if g.client == nil {
		return placeholder
	}
	resp, err := g.client.Chat(ctx, []llm.Message{
		llm.SystemMessage(sectionSystemPrompt),
		llm.UserMessage(prompt),
	}, g.opts)
	if err != nil {
		log.Printf("newsletter: drafting %s failed: %v", name, err)
		return placeholder
	}
	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return placeholder
	}
	return content
}

// LearningTip drafts the weekly learning tip for the lead topic.
func (g *SectionGenerator) LearningTip(ctx context.Context, topic models.Topic, level string) string {
	prompt := fmt.Sprintf(`스트림릿 학습 뉴스레터의 '이번 주 학습 팁' 섹션을 작성해주세요.
이번 주 팁 주제는 "%s" (%s 레벨)입니다.

다음 형식으로 작성해주세요:

## 이번 주 팁: [주제에 맞는 구체적인 팁 제목]

팁의 배경과 중요성을 2-3문장으로 설명한 뒤, 핵심 학습 포인트 3가지를
각각 짧은 코드 예시와 설명을 붙여 제시해주세요. 마지막에 이 팁을
활용했을 때의 이점을 한 문장으로 정리해주세요.`, topic.LocalName, level)
	return g.draft(ctx, "learning tip", prompt, placeholderTip)
}

// ProjectIdea drafts one practice project built on this week's topics.
func (g *SectionGenerator) ProjectIdea(ctx context.Context, topics []models.Topic, level string) string {
	names := make([]string, 0, len(topics))
	for _, t := range topics {
		names = append(names, fmt.Sprintf("%s (%s)", t.LocalName, t.Name))
	}
	prompt := fmt.Sprintf(`스트림릿 학습 뉴스레터의 '실습 프로젝트 아이디어' 섹션을 작성해주세요.
이번 주 학습 주제: %s
난이도 수준: %s

이 주제들을 활용하는 실습 프로젝트 1가지를 다음 형식으로 제안해주세요:

### 프로젝트: [프로젝트 제목]

**목표:** 1-2문장
**필요한 학습 요소:** 목록
**구현 단계:** 3단계, 각 1문장
**도전 과제:** 1-2문장

프로젝트는 실제로 구현 가능하고 이번 주 학습 내용을 강화하는 것이어야 합니다.`,
		strings.Join(names, ", "), level)
	return g.draft(ctx, "project idea", prompt, placeholderProject)
}

// NewsDigest drafts the latest-news section from fetched articles. Returns
// the placeholder when no articles were available; the digest must never
// invent news the fetcher did not supply.
func (g *SectionGenerator) NewsDigest(ctx context.Context, articles []models.ContentItem) string {
	if len(articles) == 0 {
		return placeholderNews
	}

	var info strings.Builder
	info.WriteString("수집된 스트림릿 관련 뉴스 기사:\n\n")
	for i, a := range articles {
		fmt.Fprintf(&info, "%d. 제목: %s\n", i+1, a.Title)
		if !a.PublishedAt.IsZero() {
			fmt.Fprintf(&info, "   날짜: %s\n", a.PublishedAt.Format("2006년 01월 02일"))
		}
		fmt.Fprintf(&info, "   요약: %s\n", a.Description)
		if a.BlogName != "" {
			fmt.Fprintf(&info, "   출처: %s\n", a.BlogName)
		}
		fmt.Fprintf(&info, "   URL: %s\n\n", a.Link)
	}

	prompt := fmt.Sprintf(`스트림릿 학습 뉴스레터의 '최신 스트림릿 소식' 섹션을 작성해주세요.

%s
이 중 교육적 가치가 높은 소식 2개를 골라, 각각 제목(###), 2-3문장 요약,
[출처: 출처명](URL) 링크 순으로 작성해주세요. 반드시 제공된 기사에서만
내용을 추출하고, 사실이 아닌 내용은 포함하지 마세요.`, info.String())
	return g.draft(ctx, "news digest", prompt, placeholderNews)
}

// QA drafts a learner question and answer for the lead topic.
func (g *SectionGenerator) QA(ctx context.Context, topic models.Topic) string {
	prompt := fmt.Sprintf(`스트림릿을 배우는 입문자가 "%s" 주제에 대해 자주 묻는 질문
하나와 그 답변을 작성해주세요. 질문은 **Q:** 로, 답변은 **A:** 로 시작하고,
답변은 4문장 이내로 간결하게 작성해주세요.`, topic.LocalName)
	return g.draft(ctx, "qa", prompt, placeholderQA)
}

// UsageCaution drafts a short note on using AI tools responsibly while
// learning. Kept short on purpose.
func (g *SectionGenerator) UsageCaution(ctx context.Context) string {
	prompt := `학습 과정에서 AI 도구를 사용할 때 주의해야 할 점에 대한 짧은 팁을
작성해주세요. 생성된 코드의 검증, 데이터 보안, 공식 문서 확인을 다루고,
100단어 내외로 간결하게 작성해주세요.`
	return g.draft(ctx, "usage caution", prompt, placeholderCaution)
}

// Sections drafts every editorial section for the week. newsItems feeds the
// news digest and may be empty.
func (g *SectionGenerator) Sections(ctx context.Context, week models.Week, newsItems []models.ContentItem) models.NewsletterSections {
	lead := models.Topic{Name: "Streamlit", LocalName: "스트림릿"}
	if len(week.Topics) > 0 {
		lead = week.Topics[0]
	}
	return models.NewsletterSections{
		LearningTip:  g.LearningTip(ctx, lead, week.Level),
		ProjectIdea:  g.ProjectIdea(ctx, week.Topics, week.Level),
		NewsDigest:   g.NewsDigest(ctx, newsItems),
		QA:           g.QA(ctx, lead),
		UsageCaution: g.UsageCaution(ctx),
	}
}
