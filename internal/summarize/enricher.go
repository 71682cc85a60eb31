package summarize

import (
	"context"
	"log/slog"
	"strings"

	"khabar/internal/cleaner"
	"khabar/internal/metrics"
	"khabar/internal/news"
)

// Summarizer is the external summarization transport.
type Summarizer interface {
	Summarize(ctx context.Context, title, content string, maxRunes int) (string, error)
}

// Enricher rewrites item summaries through a Summarizer. The stage is
// fail-open: timeouts, API errors, exhausted budgets and empty responses
// all leave the item untouched and never abort the pipeline.
type Enricher struct {
	ai         Summarizer
	budget     *Budget
	cache      *cache
	maxSummary int
}

// NewEnricher builds the enrichment stage. maxRequests caps summarization
// calls per run (<= 0 for unlimited); maxSummary bounds the resulting
// summary length in runes.
func NewEnricher(ai Summarizer, maxRequests, maxSummary int) *Enricher {
	return &Enricher{
		ai:         ai,
		budget:     NewBudget(maxRequests),
		cache:      newCache(),
		maxSummary: maxSummary,
	}
}

// Enrich returns item with its summary rewritten, or unchanged on any
// failure.
func (e *Enricher) Enrich(ctx context.Context, item news.Item) news.Item {
	if e == nil || e.ai == nil {
		return item
	}

	if summary, ok := e.cache.get(item.Fingerprint); ok {
		item.Summary = summary
		return item
	}

	if !e.budget.Take() {
		return item
	}

	out, err := e.ai.Summarize(ctx, item.Title, item.Title+" "+item.Summary, e.maxSummary)
	if err != nil {
		slog.Warn("summarization failed, keeping original summary", "source", item.Source, "error", err)
		metrics.Global.IncrementSummaryFailures()
		return item
	}

	out = cleaner.Truncate(strings.TrimSpace(out), e.maxSummary)
	if out == "" {
		return item
	}

	metrics.Global.IncrementSummariesGenerated()
	e.cache.set(item.Fingerprint, out)
	item.Summary = out
	return item
}
