package newsletter

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"github.com/minsoolab/learnletter/internal/search"
	"github.com/minsoolab/learnletter/pkg/models"
)

// MaterialFinder supplies curated learning materials per topic.
type MaterialFinder interface {
	MaterialsForTopics(ctx context.Context, topics []models.Topic) map[string][]models.ContentItem
}

// DefaultTitle is the newsletter masthead when none is configured.
const DefaultTitle = "스트림릿 주간 뉴스레터"

// newsDigestQuery feeds the news section; English works better against the
// international news index than the Korean anchor query does.
const newsDigestQuery = "Streamlit data science"

// Builder assembles a complete newsletter issue: materials from the finder,
// prose sections from the LLM, and the rendered HTML.
type Builder struct {
	finder     MaterialFinder
	sections   *SectionGenerator
	newsSource search.Source // optional, feeds the news digest
	title      string
	now        func() time.Time
}

// BuilderOption configures the builder.
type BuilderOption func(*Builder)

// WithTitle sets the newsletter masthead.
func WithTitle(title string) BuilderOption {
	return func(b *Builder) {
		if title != "" {
			b.title = title
		}
	}
}

// WithNewsSource sets the backend that feeds the news digest section.
func WithNewsSource(src search.Source) BuilderOption {
	return func(b *Builder) { b.newsSource = src }
}

// NewBuilder creates a newsletter builder.
func NewBuilder(finder MaterialFinder, sections *SectionGenerator, opts ...BuilderOption) *Builder {
	b := &Builder{
		finder:   finder,
		sections: sections,
		title:    DefaultTitle,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Generate assembles the issue for the given curriculum week. Materials and
// sections degrade independently: a failed news fetch or a missing LLM key
// still yields a complete newsletter.
func (b *Builder) Generate(ctx context.Context, week models.Week) (*models.Newsletter, error) {
	materials := b.finder.MaterialsForTopics(ctx, week.Topics)

	var newsItems []models.ContentItem
	if b.newsSource != nil {
		result, err := b.newsSource.Search(ctx, newsDigestQuery, 5)
		if err != nil {
			log.Printf("newsletter: news fetch failed: %v", err)
		} else if result != nil {
			newsItems = result.Items
		}
	}

	sections := b.sections.Sections(ctx, week, newsItems)

	issue := &models.Newsletter{
		Week:        week.Number,
		Title:       b.title,
		Level:       week.Level,
		Topics:      week.Topics,
		Materials:   materials,
		Sections:    sections,
		GeneratedAt: b.now(),
	}

	html, err := b.render(issue, week)
	if err != nil {
		return nil, fmt.Errorf("newsletter: render: %w", err)
	}
	issue.HTML = html

	return issue, nil
}

// Filename returns the download file name for a weekly issue.
func Filename(week int) string {
	return fmt.Sprintf("streamlit_weekly_%d.html", week)
}

// ── Rendering ──

// materialCard is one rendered item in the materials grid.
type materialCard struct {
	Class       string // "video-card" or "doc-card"
	Icon        string
	Kind        string // display label for the source type
	Title       string
	Description string
	Link        string
	Origin      string // channel or blog name
}

// topicMaterials groups the cards under their curriculum topic.
type topicMaterials struct {
	Topic models.Topic
	Cards []materialCard
}

// newsletterData is the template payload. Section bodies are converted from
// markdown and marked safe; everything else is escaped by the template.
type newsletterData struct {
	Title          string
	WeekNumber     int
	WeekTitle      string
	Level          string
	Date           string
	Year           int
	Topics         []models.Topic
	TopicMaterials []topicMaterials
	LearningTip    template.HTML
	ProjectIdea    template.HTML
	NewsDigest     template.HTML
	QA             template.HTML
	UsageCaution   template.HTML
}

func (b *Builder) render(issue *models.Newsletter, week models.Week) (string, error) {
	data := newsletterData{
		Title:        issue.Title,
		WeekNumber:   issue.Week,
		WeekTitle:    week.Title,
		Level:        issue.Level,
		Date:         issue.GeneratedAt.Format("2006년 01월 02일"),
		Year:         issue.GeneratedAt.Year(),
		Topics:       issue.Topics,
		LearningTip:  template.HTML(MarkdownToHTML(issue.Sections.LearningTip)),
		ProjectIdea:  template.HTML(MarkdownToHTML(issue.Sections.ProjectIdea)),
		QA:           template.HTML(MarkdownToHTML(issue.Sections.QA)),
		UsageCaution: template.HTML(MarkdownToHTML(issue.Sections.UsageCaution)),
	}
	if issue.Sections.NewsDigest != "" && issue.Sections.NewsDigest != placeholderNews {
		data.NewsDigest = template.HTML(MarkdownToHTML(issue.Sections.NewsDigest))
	}
	for _, topic := range issue.Topics {
		data.TopicMaterials = append(data.TopicMaterials, topicMaterials{
			Topic: topic,
			Cards: buildCards(issue.Materials[topic.Name]),
		})
	}

	tmpl, err := template.New("newsletter").Parse(newsletterTemplate)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// buildCards maps selected items to display cards, truncating long
// descriptions for the grid layout.
func buildCards(items []models.ContentItem) []materialCard {
	cards := make([]materialCard, 0, len(items))
	for _, item := range items {
		card := materialCard{
			Title:       item.Title,
			Description: truncate(item.Description, 150),
			Link:        item.Link,
		}
		switch item.Source {
		case models.SourceVideo:
			card.Class = "video-card"
			card.Icon = "▶️"
			card.Kind = "동영상 튜토리얼"
			card.Origin = item.ChannelName
			if card.Origin == "" {
				card.Origin = "유튜브"
			}
		case models.SourceBlog:
			card.Class = "doc-card"
			card.Icon = "📝"
			card.Kind = "블로그"
			card.Origin = item.BlogName
			if card.Origin == "" {
				card.Origin = "블로그"
			}
		case models.SourceNews:
			card.Class = "doc-card"
			card.Icon = "📰"
			card.Kind = "뉴스"
			card.Origin = item.BlogName
			if card.Origin == "" {
				card.Origin = "뉴스"
			}
		default:
			card.Class = "doc-card"
			card.Icon = "🌐"
			card.Kind = "웹문서"
			card.Origin = item.BlogName
			if card.Origin == "" {
				card.Origin = "웹문서"
			}
		}
		cards = append(cards, card)
	}
	return cards
}

// RenderText lays out an issue as plain text for terminal display. Section
// bodies keep their markdown as-is; the HTML rendering is what ships.
func RenderText(issue *models.Newsletter, week models.Week) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", issue.Title)
	fmt.Fprintf(&sb, "제%d주차 | %s | %s\n", issue.Week, week.Title, issue.Level)
	fmt.Fprintf(&sb, "%s\n\n", issue.GeneratedAt.Format("2006년 01월 02일"))

	fmt.Fprintln(&sb, "이번 주 학습 주제")
	for _, topic := range issue.Topics {
		fmt.Fprintf(&sb, "  • %s (%s)\n", topic.LocalName, topic.Name)
		for _, item := range issue.Materials[topic.Name] {
			fmt.Fprintf(&sb, "      [%s] %s\n      %s\n", item.Source, item.Title, item.Link)
		}
	}

	sections := []struct {
		heading string
		body    string
	}{
		{"💡 이번 주 학습 팁", issue.Sections.LearningTip},
		{"🔨 실습 프로젝트", issue.Sections.ProjectIdea},
		{"📰 최신 소식", issue.Sections.NewsDigest},
		{"❓ Q&A", issue.Sections.QA},
		{"⚠️ 사용 시 주의사항", issue.Sections.UsageCaution},
	}
	for _, sec := range sections {
		if sec.body == "" || sec.body == placeholderNews {
			continue
		}
		fmt.Fprintf(&sb, "\n%s\n%s\n", sec.heading, sec.body)
	}
	return sb.String()
}

// truncate shortens s to at most n runes, appending an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n]) + "..."
}
