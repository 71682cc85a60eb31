// Package category assigns topical labels via ordered keyword matching.
package category

import "strings"

// Category is one entry of the configured category table. Keywords are
// matched as case-insensitive substrings.
type Category struct {
	Label    string
	Emoji    string
	Keywords []string
}

// Categorizer maps cleaned text to a single category label. The configured
// order of categories is a priority ordering: the first category with a
// matching keyword wins.
type Categorizer struct {
	categories []Category
	fallback   Category
}

// New builds a Categorizer over an ordered category table. fallback is
// returned when no keyword matches.
func New(categories []Category, fallback Category) *Categorizer {
	return &Categorizer{categories: categories, fallback: fallback}
}

// Categorize returns the label of the first category whose keywords occur
// in text, or the fallback label. Deterministic for a fixed table.
func (c *Categorizer) Categorize(text string) string {
	lower := strings.ToLower(text)

	for _, cat := range c.categories {
		for _, kw := range cat.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if strings.Contains(lower, kw) {
				return cat.Label
			}
		}
	}

	return c.fallback.Label
}

// Emoji returns the display marker for label, falling back to the generic
// category's marker for unknown labels.
func (c *Categorizer) Emoji(label string) string {
	for _, cat := range c.categories {
		if cat.Label == label {
			return cat.Emoji
		}
	}
	return c.fallback.Emoji
}

// Known reports whether label is part of the configured set (fallback
// included).
func (c *Categorizer) Known(label string) bool {
	if label == c.fallback.Label {
		return true
	}
	for _, cat := range c.categories {
		if cat.Label == label {
			return true
		}
	}
	return false
}
