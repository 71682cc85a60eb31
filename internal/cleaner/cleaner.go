// Package cleaner strips markup from raw feed text.
package cleaner

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Clean removes all markup tags from raw, collapses whitespace runs to a
// single space and trims the result. It never fails: on malformed markup it
// degrades to regex-based tag removal. Empty input yields an empty string.
func Clean(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	text := ""
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err == nil {
		text = doc.Text()
	} else {
		text = html.UnescapeString(tagPattern.ReplaceAllString(raw, " "))
	}

	return strings.Join(strings.Fields(text), " ")
}

// Truncate cuts s to at most max runes. Cutting on rune boundaries keeps
// multi-byte scripts (Persian, Arabic) intact.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
