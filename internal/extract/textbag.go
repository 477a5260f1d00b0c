// Package extract fetches pages and reduces them to the text used by
// classification.
package extract

import "strings"

// summaryMaxChars caps generated descriptions.
const summaryMaxChars = 240

// TextBag is the distilled text content of a page. Fields keep their
// original casing; Joined lowercases for matching.
type TextBag struct {
	// Title is the best available page title.
	Title string

	// Description is the meta description when present.
	Description string

	// Headings holds h1-h3 texts in document order.
	Headings []string

	// Body is the visible text with scripts, styles and markup
	// stripped, whitespace collapsed.
	Body string
}

// Empty reports whether nothing was extracted.
func (b *TextBag) Empty() bool {
	return b == nil ||
		(b.Title == "" && b.Description == "" && len(b.Headings) == 0 && b.Body == "")
}

// Joined returns the lowercase matching view of the bag: title,
// description, headings and body concatenated with single spaces.
func (b *TextBag) Joined() string {
	if b == nil {
		return ""
	}
	parts := make([]string, 0, 3+len(b.Headings))
	if b.Title != "" {
		parts = append(parts, b.Title)
	}
	if b.Description != "" {
		parts = append(parts, b.Description)
	}
	parts = append(parts, b.Headings...)
	if b.Body != "" {
		parts = append(parts, b.Body)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Summary returns the meta description when present, otherwise the
// first two sentences of the body, capped at 240 characters.
func (b *TextBag) Summary() string {
	if b == nil {
		return ""
	}
	if b.Description != "" {
		return truncate(b.Description, summaryMaxChars)
	}
	return truncate(firstSentences(b.Body, 2), summaryMaxChars)
}

// firstSentences cuts text after the n-th sentence terminator.
func firstSentences(text string, n int) string {
	text = strings.TrimSpace(text)
	count := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			count++
			if count == n {
				return strings.TrimSpace(text[:i+1])
			}
		}
	}
	return text
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max]))
}
