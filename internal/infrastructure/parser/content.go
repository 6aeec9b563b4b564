package parser

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"

	"ReviewConsole/internal/ports"
)

// MarkdownMeter measures review text as a reader sees it: Markdown is
// rendered to HTML and only the visible text is counted, with runs of
// whitespace collapsed to one space.
type MarkdownMeter struct {
	md goldmark.Markdown
}

var _ ports.ContentMeter = (*MarkdownMeter)(nil)

// NewMarkdownMeter uses CommonMark rendering without raw HTML passthrough.
func NewMarkdownMeter() *MarkdownMeter {
	return &MarkdownMeter{md: goldmark.New()}
}

// Measure returns the visible rune count of text.
func (m *MarkdownMeter) Measure(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	var rendered bytes.Buffer
	if err := m.md.Convert([]byte(text), &rendered); err != nil {
		return plainLength(text)
	}

	doc, err := goquery.NewDocumentFromReader(&rendered)
	if err != nil {
		return plainLength(text)
	}
	return plainLength(doc.Text())
}

func plainLength(text string) int {
	return utf8.RuneCountInString(strings.Join(strings.Fields(text), " "))
}
