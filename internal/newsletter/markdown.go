package newsletter

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// Inline markdown patterns, applied after HTML escaping.
var (
	linkRe   = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	boldRe   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe = regexp.MustCompile(`\*([^*]+)\*`)
)

// MarkdownToHTML converts the small markdown dialect the LLM sections are
// written in (#/##/### headings, **bold**, *italic*, [text](url) links,
// "-" list items, paragraphs) into HTML. It works line by line in a single
// pass, so the transforms cannot interfere with each other. Raw HTML in the
// input is escaped, never passed through.
func MarkdownToHTML(md string) string {
	var b strings.Builder
	var inList bool
	var paragraph []string

	flushParagraph := func() {
		if len(paragraph) == 0 {
			return
		}
		b.WriteString("<p>")
		b.WriteString(strings.Join(paragraph, " "))
		b.WriteString("</p>\n")
		paragraph = paragraph[:0]
	}
	closeList := func() {
		if inList {
			b.WriteString("</ul>\n")
			inList = false
		}
	}

	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			flushParagraph()
			closeList()

		case strings.HasPrefix(trimmed, "### "):
			flushParagraph()
			closeList()
			fmt.Fprintf(&b, "<h3>%s</h3>\n", renderInline(strings.TrimPrefix(trimmed, "### ")))

		case strings.HasPrefix(trimmed, "## "):
			flushParagraph()
			closeList()
			fmt.Fprintf(&b, "<h2>%s</h2>\n", renderInline(strings.TrimPrefix(trimmed, "## ")))

		case strings.HasPrefix(trimmed, "# "):
			flushParagraph()
			closeList()
			fmt.Fprintf(&b, "<h1>%s</h1>\n", renderInline(strings.TrimPrefix(trimmed, "# ")))

		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			flushParagraph()
			if !inList {
				b.WriteString("<ul>\n")
				inList = true
			}
			fmt.Fprintf(&b, "<li>%s</li>\n", renderInline(trimmed[2:]))

		default:
			closeList()
			paragraph = append(paragraph, renderInline(trimmed))
		}
	}
	flushParagraph()
	closeList()

	return strings.TrimSpace(b.String())
}

// renderInline escapes the text and then applies link, bold and italic
// markup. Escaping happens first so input HTML cannot survive into the
// output; bold runs before italic so "**" is not half-eaten as "*".
func renderInline(s string) string {
	escaped := html.EscapeString(s)
	escaped = linkRe.ReplaceAllString(escaped, `<a href="$2">$1</a>`)
	escaped = boldRe.ReplaceAllString(escaped, "<strong>$1</strong>")
	escaped = italicRe.ReplaceAllString(escaped, "<em>$1</em>")
	return escaped
}
