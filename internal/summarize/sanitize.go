package summarize

import (
	"regexp"
	"strings"
)

// Patterns for model disclaimers that occasionally leak into responses,
// inline parenthesized/bracketed or as whole lines.
var (
	parenNotePattern   = regexp.MustCompile(`(?i)\((?:note|disclaimer)[^)]*\)`)
	bracketNotePattern = regexp.MustCompile(`(?i)\[(?:note|disclaimer)[^\]]*\]`)
	lineNotePattern    = regexp.MustCompile(`(?i)^(?:note|disclaimer)\s*:.*$`)
)

// SanitizeAIText strips machine-generated disclaimers and normalizes
// whitespace so the published message contains only the summary itself.
func SanitizeAIText(text string) string {
	text = parenNotePattern.ReplaceAllString(text, " ")
	text = bracketNotePattern.ReplaceAllString(text, " ")

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if lineNotePattern.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}

	return strings.Join(strings.Fields(strings.Join(kept, " ")), " ")
}
