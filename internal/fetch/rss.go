package fetch

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mmcdole/gofeed"

	"khabar/internal/config"
	"khabar/internal/news"
)

// RSSFetcher retrieves entries from one syndication feed (RSS/Atom/RDF).
type RSSFetcher struct {
	source config.SourceConfig
	client *http.Client
	parser *gofeed.Parser
	opts   Options
}

// NewRSS builds a feed adapter for one source. The client must carry the
// per-request timeout.
func NewRSS(source config.SourceConfig, client *http.Client, opts Options) *RSSFetcher {
	return &RSSFetcher{
		source: source,
		client: client,
		parser: gofeed.NewParser(),
		opts:   opts,
	}
}

// Name returns the configured source name.
func (f *RSSFetcher) Name() string { return f.source.Name }

// Fetch issues one request to the feed endpoint and converts surviving
// entries into items. Transport errors, non-2xx statuses and parse failures
// all come back as a source-scoped error with an empty result.
func (f *RSSFetcher) Fetch(ctx context.Context) ([]news.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.source.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("source %s: build request: %w", f.source.Name, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", f.source.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("source %s: status %d", f.source.Name, resp.StatusCode)
	}

	feed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("source %s: parse feed: %w", f.source.Name, err)
	}

	entries := make([]rawEntry, 0, len(feed.Items))
	for _, it := range feed.Items {
		entries = append(entries, rawEntry{
			Title:     it.Title,
			Summary:   it.Description,
			Link:      it.Link,
			Published: it.PublishedParsed,
		})
	}

	return buildItems(f.source, entries, f.opts), nil
}
