package models

import "time"

// Week is a single entry of the learning curriculum.
type Week struct {
	Number int     `json:"number"`
	Level  string  `json:"level"` // "초급", "중급", "고급"
	Title  string  `json:"title"`
	Topics []Topic `json:"topics"`
}

// Newsletter is a fully assembled issue, ready to render or download.
type Newsletter struct {
	Week        int                      `json:"week"`
	Title       string                   `json:"title"`
	Level       string                   `json:"level"`
	Topics      []Topic                  `json:"topics"`
	Materials   map[string][]ContentItem `json:"materials"` // topic name → selected items
	Sections    NewsletterSections       `json:"sections"`
	HTML        string                   `json:"html"`
	GeneratedAt time.Time                `json:"generated_at"`
}

// NewsletterSections holds the LLM-drafted prose sections as rendered HTML.
// A section left empty means it was not requested; a placeholder value means
// drafting failed and a fixed fallback was substituted.
type NewsletterSections struct {
	LearningTip  string `json:"learning_tip,omitempty"`
	ProjectIdea  string `json:"project_idea,omitempty"`
	NewsDigest   string `json:"news_digest,omitempty"`
	QA           string `json:"qa,omitempty"`
	UsageCaution string `json:"usage_caution,omitempty"`
}
