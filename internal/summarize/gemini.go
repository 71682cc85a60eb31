// Package summarize is the optional enrichment stage: it rewrites item
// summaries through Gemini and falls back to the original text on any
// failure.
package summarize

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	geminiModel    = "gemini-1.5-flash"
	maxPromptRunes = 4000
)

// Client wraps the Gemini API for single-summary requests.
type Client struct {
	client *genai.Client
}

// NewClient creates a Gemini client.
func NewClient(apiKey string) (*Client, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: client}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Summarize asks Gemini for a rewritten summary of at most maxRunes runes,
// in the same language as the input. The prompt is bounded so over-long
// articles cannot blow the token budget.
func (c *Client) Summarize(ctx context.Context, title, content string, maxRunes int) (string, error) {
	model := c.client.GenerativeModel(geminiModel)

	content = strings.Join(strings.Fields(strings.ReplaceAll(content, "\r", "")), " ")
	if utf8.RuneCountInString(content) > maxPromptRunes {
		runes := []rune(content)
		trimmed := string(runes[:maxPromptRunes])
		if idx := strings.LastIndex(trimmed, ". "); idx > maxPromptRunes/4 {
			trimmed = trimmed[:idx+1]
		}
		content = trimmed
	}

	prompt := fmt.Sprintf(`Rewrite the following news item as a single concise summary.

TITLE: %s
TEXT: %s

REQUIREMENTS:
- At most %d characters.
- Same language as the original text.
- Keep proper names and brands untranslated.
- No introductions like "This article is about", no notes, no disclaimers.
- Reply with the summary text only.`, title, content, maxRunes)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	out := SanitizeAIText(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
	if out == "" {
		return "", fmt.Errorf("gemini returned no usable text")
	}
	return out, nil
}
