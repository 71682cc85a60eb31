// Package fetch contains the per-source adapters. Each adapter retrieves
// raw entries from one endpoint, applies the cleaning/length/blocklist/
// dedup/category filters and emits candidate items. Failures are scoped to
// the source: an adapter returns an error and an empty result, never more.
package fetch

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"khabar/internal/category"
	"khabar/internal/cleaner"
	"khabar/internal/config"
	"khabar/internal/dedup"
	"khabar/internal/metrics"
	"khabar/internal/news"
)

// Fetcher is one source adapter.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]news.Item, error)
}

// Options carries the filter configuration shared by all adapters.
type Options struct {
	MinTitleLength   int
	MaxTitleLength   int
	MaxSummaryLength int
	PerSourceLimit   int
	BlockedKeywords  []string
	Categorizer      *category.Categorizer

	// IsDelivered is a read-only view of the delivered-set. The fetch
	// phase never mutates it.
	IsDelivered func(fingerprint string) bool

	// Now substitutes the fetch time when a source provides no reliable
	// publish timestamp. Defaults to time.Now.
	Now func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// rawEntry is one parsed entry before filtering, adapter-agnostic.
type rawEntry struct {
	Title     string
	Summary   string
	Link      string
	Published *time.Time
}

// buildItem runs one raw entry through the filter chain. The bool result
// reports acceptance; rejection is expected steady-state behavior, not an
// error.
func buildItem(src config.SourceConfig, e rawEntry, opts Options) (news.Item, bool) {
	title := cleaner.Clean(e.Title)
	summary := cleaner.Clean(e.Summary)

	if utf8.RuneCountInString(title) < opts.MinTitleLength {
		metrics.Global.IncrementItemsRejected()
		return news.Item{}, false
	}

	title = cleaner.Truncate(title, opts.MaxTitleLength)
	summary = cleaner.Truncate(summary, opts.MaxSummaryLength)

	if containsBlocked(title+" "+summary, opts.BlockedKeywords) {
		metrics.Global.IncrementItemsRejected()
		return news.Item{}, false
	}

	fp := dedup.Fingerprint(title, e.Link)
	if opts.IsDelivered != nil && opts.IsDelivered(fp) {
		metrics.Global.IncrementDuplicatesFiltered()
		return news.Item{}, false
	}

	cat := opts.Categorizer.Categorize(title + " " + summary)
	if src.Topic != "" && cat != src.Topic {
		metrics.Global.IncrementItemsRejected()
		return news.Item{}, false
	}

	published := opts.now()
	if e.Published != nil && !e.Published.IsZero() {
		published = *e.Published
	}

	return news.Item{
		Title:       title,
		Summary:     summary,
		URL:         e.Link,
		Source:      src.Name,
		PublishedAt: published,
		Category:    cat,
		Fingerprint: fp,
	}, true
}

func containsBlocked(text string, blocked []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range blocked {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// buildItems applies the per-source entry cap and the filter chain.
// Entries are taken in the feed's native order, not re-sorted by recency;
// that mirrors the upstream behavior this pipeline inherited.
func buildItems(src config.SourceConfig, entries []rawEntry, opts Options) []news.Item {
	limit := opts.PerSourceLimit
	if limit <= 0 {
		limit = 5
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	items := make([]news.Item, 0, len(entries))
	for _, e := range entries {
		if item, ok := buildItem(src, e, opts); ok {
			items = append(items, item)
		}
	}
	return items
}
